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
	"io"
)

// ReadFDT decodes a flattened device tree from r.
//
// Any structural problem (bad magic, block bounds outside the blob,
// truncated tokens, string references past the string block) is reported
// as a FormatError. Property payloads are not interpreted.
func ReadFDT(r io.Reader) (*FDT, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(buf) < headerSize {
		return nil, formatErrf("blob is %d bytes, shorter than the %d byte header", len(buf), headerSize)
	}
	if magic := binary.BigEndian.Uint32(buf); magic != Magic {
		return nil, formatErrf("bad magic 0x%08x, want 0x%08x", magic, Magic)
	}

	f := &FDT{}
	h := &f.Header
	for i, field := range []*uint32{
		&h.TotalSize, &h.OffDTStruct, &h.OffDTStrings, &h.OffMemRsvMap,
		&h.Version, &h.LastCompVersion, &h.BootCPUIDPhys,
		&h.SizeDTStrings, &h.SizeDTStruct,
	} {
		*field = binary.BigEndian.Uint32(buf[4*(i+1):])
	}
	if h.Version < 16 {
		return nil, formatErrf("unsupported version %d", h.Version)
	}
	if int64(h.TotalSize) > int64(len(buf)) {
		return nil, formatErrf("header claims %d bytes but blob is %d", h.TotalSize, len(buf))
	}
	for _, blk := range []struct {
		name      string
		off, size uint32
	}{
		{"memory reservation", h.OffMemRsvMap, 0},
		{"structure", h.OffDTStruct, h.SizeDTStruct},
		{"strings", h.OffDTStrings, h.SizeDTStrings},
	} {
		end := uint64(blk.off) + uint64(blk.size)
		if blk.off < headerSize || end > uint64(h.TotalSize) {
			return nil, formatErrf("%s block [%d, %d) is outside the blob", blk.name, blk.off, end)
		}
	}

	f.strings = append([]byte(nil), buf[h.OffDTStrings:h.OffDTStrings+h.SizeDTStrings]...)

	if err := f.readReserveEntries(buf); err != nil {
		return nil, err
	}
	if err := f.readStruct(buf[h.OffDTStruct : h.OffDTStruct+h.SizeDTStruct]); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *FDT) readReserveEntries(buf []byte) error {
	off := int(f.Header.OffMemRsvMap)
	for {
		if off+16 > len(buf) {
			return formatErrf("memory reservation block is not terminated")
		}
		e := ReserveEntry{
			Address: binary.BigEndian.Uint64(buf[off:]),
			Size:    binary.BigEndian.Uint64(buf[off+8:]),
		}
		if e.Address == 0 && e.Size == 0 {
			return nil
		}
		f.ReserveEntries = append(f.ReserveEntries, e)
		off += 16
	}
}

// structParser is a cursor over the structure block.
type structParser struct {
	buf     []byte
	off     int
	strings []byte
}

func (p *structParser) u32() (uint32, error) {
	if p.off+4 > len(p.buf) {
		return 0, formatErrf("structure block truncated at offset %d", p.off)
	}
	v := binary.BigEndian.Uint32(p.buf[p.off:])
	p.off += 4
	return v, nil
}

// name reads a NUL-terminated node name and advances past its padding.
func (p *structParser) name() (string, error) {
	i := bytes.IndexByte(p.buf[p.off:], 0)
	if i < 0 {
		return "", formatErrf("unterminated node name at offset %d", p.off)
	}
	s := string(p.buf[p.off : p.off+i])
	p.off = align4(p.off + i + 1)
	return s, nil
}

func (p *structParser) propertyName(nameOff uint32) (string, error) {
	if int64(nameOff) >= int64(len(p.strings)) {
		return "", formatErrf("property name offset %d is outside the %d byte string block", nameOff, len(p.strings))
	}
	i := bytes.IndexByte(p.strings[nameOff:], 0)
	if i < 0 {
		return "", formatErrf("unterminated property name at string offset %d", nameOff)
	}
	return string(p.strings[nameOff : int(nameOff)+i]), nil
}

func (f *FDT) readStruct(block []byte) error {
	p := &structParser{buf: block, strings: f.strings}
	var stack []*Node
	for {
		token, err := p.u32()
		if err != nil {
			return err
		}
		switch token {
		case tokenBeginNode:
			name, err := p.name()
			if err != nil {
				return err
			}
			n := &Node{Name: name}
			if len(stack) == 0 {
				if f.RootNode != nil {
					return formatErrf("multiple root nodes")
				}
				f.RootNode = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case tokenEndNode:
			if len(stack) == 0 {
				return formatErrf("unbalanced end-node token at offset %d", p.off-4)
			}
			stack = stack[:len(stack)-1]
		case tokenProp:
			if len(stack) == 0 {
				return formatErrf("property outside any node at offset %d", p.off-4)
			}
			size, err := p.u32()
			if err != nil {
				return err
			}
			nameOff, err := p.u32()
			if err != nil {
				return err
			}
			name, err := p.propertyName(nameOff)
			if err != nil {
				return err
			}
			if p.off+int(size) > len(p.buf) {
				return formatErrf("property %q value overruns the structure block", name)
			}
			value := append([]byte(nil), p.buf[p.off:p.off+int(size)]...)
			p.off = align4(p.off + int(size))
			n := stack[len(stack)-1]
			n.Properties = append(n.Properties, Property{Name: name, Value: value})
		case tokenNop:
			// Tolerated on input; not reproduced on output.
		case tokenEnd:
			if len(stack) != 0 {
				return formatErrf("end token inside node %q", stack[len(stack)-1].Name)
			}
			if f.RootNode == nil {
				return formatErrf("structure block holds no nodes")
			}
			return nil
		default:
			return formatErrf("unknown token 0x%x at offset %d", token, p.off-4)
		}
	}
}

func align4(n int) int {
	return (n + 3) &^ 3
}
