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

// Package patch plans and applies single-property voltage rewrites on a
// decoded device tree.
package patch

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/voltcap/voltcap/api"
	"github.com/voltcap/voltcap/internal/fdt"
)

// NotFoundError reports that no node in the tree holds the property.
type NotFoundError struct {
	Property string
	NodePath string
}

func (e NotFoundError) Error() string {
	if e.NodePath != "" {
		return fmt.Sprintf("no property %q under node %q", e.Property, e.NodePath)
	}
	return fmt.Sprintf("no property %q anywhere in the tree", e.Property)
}

// AmbiguousMatchError reports that the property occurs under several nodes
// and no node path was supplied to pick one.
type AmbiguousMatchError struct {
	Property string
	Paths    []string
}

func (e AmbiguousMatchError) Error() string {
	return fmt.Sprintf("property %q found under %d nodes (%s); supply a node path to disambiguate",
		e.Property, len(e.Paths), strings.Join(e.Paths, ", "))
}

// EncodingMismatchError reports that the property exists but is not a
// single 32-bit cell, so it cannot hold a voltage.
type EncodingMismatchError struct {
	NodePath string
	Property string
	Len      int
}

func (e EncodingMismatchError) Error() string {
	return fmt.Sprintf("property %s/%s is %d bytes, not a single u32 cell", e.NodePath, e.Property, e.Len)
}

// Plan resolves the property to patch and records its current value.
//
// With an empty nodePath the whole tree is searched; exactly one match is
// required. With a nodePath the property must exist directly on that node.
// The property must already be a 4-byte cell: patching never creates
// properties or changes their shape.
func Plan(tree *fdt.FDT, nodePath, property string, target api.VoltageValue) (api.PatchPlan, error) {
	m, err := resolve(tree, nodePath, property)
	if err != nil {
		return api.PatchPlan{}, err
	}
	old, err := m.Property.AsU32()
	if err != nil {
		return api.PatchPlan{}, EncodingMismatchError{NodePath: m.Path, Property: property, Len: len(m.Property.Value)}
	}
	return api.PatchPlan{
		NodePath: m.Path,
		Property: property,
		OldValue: api.VoltageValue(old),
		NewValue: target,
	}, nil
}

// Apply performs the planned rewrite in place. Only the four value bytes of
// the planned property change; names, ordering and the surrounding tree are
// untouched.
func Apply(tree *fdt.FDT, plan api.PatchPlan) error {
	m, err := resolve(tree, plan.NodePath, plan.Property)
	if err != nil {
		return err
	}
	old, err := m.Property.AsU32()
	if err != nil {
		return EncodingMismatchError{NodePath: m.Path, Property: plan.Property, Len: len(m.Property.Value)}
	}
	if api.VoltageValue(old) != plan.OldValue {
		return fmt.Errorf("stale plan: %s/%s now holds %v, plan recorded %v",
			plan.NodePath, plan.Property, api.VoltageValue(old), plan.OldValue)
	}
	binary.BigEndian.PutUint32(m.Property.Value, uint32(plan.NewValue))
	return nil
}

func resolve(tree *fdt.FDT, nodePath, property string) (fdt.Match, error) {
	if nodePath != "" {
		n, err := tree.NodeByPath(nodePath)
		if err != nil {
			return fdt.Match{}, NotFoundError{Property: property, NodePath: nodePath}
		}
		p := n.PropertyByName(property)
		if p == nil {
			return fdt.Match{}, NotFoundError{Property: property, NodePath: nodePath}
		}
		return fdt.Match{Path: nodePath, Node: n, Property: p}, nil
	}

	matches := tree.FindProperty(property)
	switch len(matches) {
	case 0:
		return fdt.Match{}, NotFoundError{Property: property}
	case 1:
		return matches[0], nil
	default:
		paths := make([]string, len(matches))
		for i, m := range matches {
			paths[i] = m.Path
		}
		return fdt.Match{}, AmbiguousMatchError{Property: property, Paths: paths}
	}
}
