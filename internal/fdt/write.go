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

package fdt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Write serializes the tree to w and returns the number of bytes written.
//
// Layout is canonical: header, reservation block, structure block, string
// block. Property names already present in the decoded string block keep
// their offsets (including tail-merged entries), so an unmodified tree
// re-encodes to the original bytes. If the decoded header declared a total
// size larger than the encoding needs, the output is zero-padded to that
// size, preserving growth padding some producers leave in the blob.
func (f *FDT) Write(w io.Writer) (int, error) {
	if f.RootNode == nil {
		return 0, fmt.Errorf("cannot encode a tree with no root node")
	}

	strs := append([]byte(nil), f.strings...)
	stringOff := func(name string) uint32 {
		needle := append([]byte(name), 0)
		if i := bytes.Index(strs, needle); i >= 0 {
			return uint32(i)
		}
		off := len(strs)
		strs = append(strs, needle...)
		return uint32(off)
	}

	var sb bytes.Buffer
	var emit func(n *Node)
	emit = func(n *Node) {
		writeU32(&sb, tokenBeginNode)
		name := append([]byte(n.Name), 0)
		sb.Write(name)
		pad(&sb, len(name))
		for _, p := range n.Properties {
			writeU32(&sb, tokenProp)
			writeU32(&sb, uint32(len(p.Value)))
			writeU32(&sb, stringOff(p.Name))
			sb.Write(p.Value)
			pad(&sb, len(p.Value))
		}
		for _, c := range n.Children {
			emit(c)
		}
		writeU32(&sb, tokenEndNode)
	}
	emit(f.RootNode)
	writeU32(&sb, tokenEnd)

	h := f.Header
	h.OffMemRsvMap = headerSize
	rsvSize := uint32(16 * (len(f.ReserveEntries) + 1))
	h.OffDTStruct = h.OffMemRsvMap + rsvSize
	h.SizeDTStruct = uint32(sb.Len())
	h.OffDTStrings = h.OffDTStruct + h.SizeDTStruct
	h.SizeDTStrings = uint32(len(strs))
	if h.Version == 0 {
		h.Version = 17
		h.LastCompVersion = 16
	}
	size := h.OffDTStrings + h.SizeDTStrings
	if h.TotalSize < size {
		h.TotalSize = size
	}

	out := make([]byte, 0, h.TotalSize)
	out = binary.BigEndian.AppendUint32(out, Magic)
	for _, field := range []uint32{
		h.TotalSize, h.OffDTStruct, h.OffDTStrings, h.OffMemRsvMap,
		h.Version, h.LastCompVersion, h.BootCPUIDPhys,
		h.SizeDTStrings, h.SizeDTStruct,
	} {
		out = binary.BigEndian.AppendUint32(out, field)
	}
	for _, e := range append(f.ReserveEntries, ReserveEntry{}) {
		out = binary.BigEndian.AppendUint64(out, e.Address)
		out = binary.BigEndian.AppendUint64(out, e.Size)
	}
	out = append(out, sb.Bytes()...)
	out = append(out, strs...)
	out = append(out, make([]byte, int(h.TotalSize)-len(out))...)

	return w.Write(out)
}

func writeU32(b *bytes.Buffer, v uint32) {
	var cell [4]byte
	binary.BigEndian.PutUint32(cell[:], v)
	b.Write(cell[:])
}

// pad writes the zero bytes needed to 4-align a field of the given length.
func pad(b *bytes.Buffer, n int) {
	b.Write(make([]byte, align4(n)-n))
}
