// Copyright 2026 The Voltcap Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fdt decodes and re-encodes flattened device tree blobs.
//
// The decoder builds a plain tree of nodes and properties; property values
// are kept as raw bytes so that unknown encodings pass through untouched.
// Re-encoding an unmodified tree reproduces the input byte for byte for
// canonical (dtc-produced) blobs: header fields, reservation entries, the
// string block and any trailing size padding are all preserved.
package fdt

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Magic is the value of the first header cell of every flattened device tree.
const Magic = 0xd00dfeed

// Structure block tokens.
const (
	tokenBeginNode = 0x1
	tokenEndNode   = 0x2
	tokenProp      = 0x3
	tokenNop       = 0x4
	tokenEnd       = 0x9
)

const headerSize = 40

// Header mirrors the fixed 40-byte blob header. All fields are big-endian
// 32-bit words in the serialized form.
type Header struct {
	TotalSize       uint32
	OffDTStruct     uint32
	OffDTStrings    uint32
	OffMemRsvMap    uint32
	Version         uint32
	LastCompVersion uint32
	BootCPUIDPhys   uint32
	SizeDTStrings   uint32
	SizeDTStruct    uint32
}

// ReserveEntry is one memory reservation block entry.
type ReserveEntry struct {
	Address uint64
	Size    uint64
}

// FDT is a decoded flattened device tree.
type FDT struct {
	Header         Header
	ReserveEntries []ReserveEntry
	RootNode       *Node

	// strings is the string block as decoded, reused verbatim on encode so
	// existing property names keep their original offsets.
	strings []byte
}

// Node is a named entity in the tree. It owns its children and properties.
type Node struct {
	Name       string
	Properties []Property
	Children   []*Node
}

// Property is a named raw byte payload attached to a node. The encoding of
// the payload is a matter of convention between producer and consumer.
type Property struct {
	Name  string
	Value []byte
}

// AsU32 interprets the property as a single big-endian cell.
func (p Property) AsU32() (uint32, error) {
	if len(p.Value) != 4 {
		return 0, fmt.Errorf("property %q is %d bytes, want 4", p.Name, len(p.Value))
	}
	return binary.BigEndian.Uint32(p.Value), nil
}

// AsString interprets the property as a NUL-terminated string, reporting
// whether the payload actually looks like one.
func (p Property) AsString() (string, bool) {
	if len(p.Value) == 0 || p.Value[len(p.Value)-1] != 0 {
		return "", false
	}
	s := string(p.Value[:len(p.Value)-1])
	for _, r := range s {
		if r < 0x20 || r > 0x7e {
			return "", false
		}
	}
	return s, true
}

// FormatError indicates that the input is not a well-formed flattened
// device tree.
type FormatError struct {
	Msg string
}

func (e FormatError) Error() string {
	return "invalid device tree: " + e.Msg
}

func formatErrf(f string, args ...interface{}) FormatError {
	return FormatError{Msg: fmt.Sprintf(f, args...)}
}

// Match is a reference to a property found somewhere in the tree: the path
// of its node plus a pointer into that node's property slice.
type Match struct {
	Path     string
	Node     *Node
	Property *Property
}

// FindProperty walks the whole tree depth first, children in declaration
// order, and returns a reference for every property with the given name.
// The same name may legitimately occur under several nodes; the caller
// disambiguates. An empty result is not an error.
func (f *FDT) FindProperty(name string) []Match {
	var matches []Match
	if f.RootNode == nil {
		return matches
	}
	var walk func(path string, n *Node)
	walk = func(path string, n *Node) {
		for i := range n.Properties {
			if n.Properties[i].Name == name {
				matches = append(matches, Match{Path: path, Node: n, Property: &n.Properties[i]})
			}
		}
		for _, c := range n.Children {
			cp := path + "/" + c.Name
			if path == "/" {
				cp = "/" + c.Name
			}
			walk(cp, c)
		}
	}
	walk("/", f.RootNode)
	return matches
}

// NodeByPath resolves an absolute path like "/battery" to a node.
func (f *FDT) NodeByPath(path string) (*Node, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("node path %q is not absolute", path)
	}
	n := f.RootNode
	if n == nil {
		return nil, fmt.Errorf("tree has no root node")
	}
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		var next *Node
		for _, c := range n.Children {
			if c.Name == part {
				next = c
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("no node %q under %q", part, path)
		}
		n = next
	}
	return n, nil
}

// PropertyByName returns a pointer to the named property of a node, or nil.
func (n *Node) PropertyByName(name string) *Property {
	for i := range n.Properties {
		if n.Properties[i].Name == name {
			return &n.Properties[i]
		}
	}
	return nil
}
