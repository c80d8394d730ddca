// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"

	"github.com/solidcoredata/odb"
	"github.com/solidcoredata/odb/byteorder"
	"github.com/solidcoredata/odb/intern"
)

// charsCodec stores a String column's values inline using RowSlot's
// 8-byte ASCII encoding, no header parameters. Used when every value
// fits inline and interning wouldn't pay for its own dictionary (see
// select.go).
type charsCodec struct{}

func (c *charsCodec) Tag() byte  { return TagChars }
func (c *charsCodec) Width() int { return 8 }

func (c *charsCodec) WriteParams(w *byteorder.Writer) error { return nil }

func (c *charsCodec) Encode(w *byteorder.Writer, v CellValue) error {
	var slot odb.RowSlot
	if v.HasText {
		if !slot.PutString(v.Text) {
			return fmt.Errorf("%w: string %q exceeds 8-byte inline width", odb.ErrCodecParamOutOfRange, v.Text)
		}
	} else {
		slot = v.Slot
	}
	return w.WriteBytes(slot[:])
}

func (c *charsCodec) Decode(r *byteorder.Reader) (CellValue, error) {
	buf, err := r.ReadBytes(8)
	if err != nil {
		return CellValue{}, err
	}
	var slot odb.RowSlot
	copy(slot[:], buf)
	return CellValue{Slot: slot, Text: slot.String(), HasText: true}, nil
}

// internStringCodec stores a String column's values as an id into the
// frame's intern dictionary, the id itself encoded with a nested
// narrowed-integer codec (spec.md §4.3: "the id is encoded with one of
// the integer codecs above"). Ids never carry a missing sentinel of
// their own, so idCodec is always a non-missing narrowedIntCodec with
// reference 0.
type internStringCodec struct {
	dict    *intern.Table
	idCodec Codec
}

func (c *internStringCodec) Tag() byte  { return TagIntString }
func (c *internStringCodec) Width() int { return c.idCodec.Width() }

func (c *internStringCodec) WriteParams(w *byteorder.Writer) error {
	if err := w.WriteU8(c.idCodec.Tag()); err != nil {
		return err
	}
	return c.idCodec.WriteParams(w)
}

func (c *internStringCodec) Encode(w *byteorder.Writer, v CellValue) error {
	s := v.AsText()
	id, ok := c.dict.FindID(s)
	if !ok {
		// Standalone callers (not routed through a frame.Writer's
		// observe pass, which pre-populates the dictionary) get the
		// string stored on first use instead of failing.
		c.dict.Store(s)
		id, ok = c.dict.FindID(s)
		if !ok {
			return fmt.Errorf("%w: %q missing from intern dictionary after store", odb.ErrFormat, s)
		}
	}
	var slot odb.RowSlot
	slot.PutInt64(int64(id))
	return c.idCodec.Encode(w, CellValue{Slot: slot})
}

func (c *internStringCodec) Decode(r *byteorder.Reader) (CellValue, error) {
	cv, err := c.idCodec.Decode(r)
	if err != nil {
		return CellValue{}, err
	}
	id := int32(cv.Slot.Int64())
	s, ok := c.dict.Text(id)
	if !ok {
		return CellValue{}, fmt.Errorf("%w: intern id %d", odb.ErrInternIDOutOfRange, id)
	}
	return CellValue{Text: s, HasText: true}, nil
}

// idCodecForRange returns the narrowest non-missing narrowedIntCodec
// able to represent ids in [0, maxID].
func idCodecForRange(maxID int64) Codec {
	for _, width := range []int{1, 2, 4, 8} {
		if uint64(maxID) <= maxUnsigned(width) {
			return &narrowedIntCodec{width: width, reference: 0}
		}
	}
	return &narrowedIntCodec{width: 8, reference: 0}
}

// DictionaryBinder is implemented by codecs that need a frame's
// dictionary attached after header parsing, since the dictionary
// section of a frame follows every column's header (spec.md §6).
type DictionaryBinder interface {
	BindDictionary(*intern.Table)
}

// BindDictionary attaches the frame's loaded dictionary to an
// int_string codec reconstructed by ParseHeader before any dict was
// available to hand it (the dictionary section of a frame header
// follows every column's tag+params, per spec.md §6). Callers other
// than frame.Reader have no reason to call this.
func (c *internStringCodec) BindDictionary(t *intern.Table) { c.dict = t }

func parseIntStringHeader(r *byteorder.Reader, col odb.ColumnInfo, dict *intern.Table) (Codec, error) {
	subTag, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	idCodec, err := ParseHeader(subTag, r, odb.ColumnInfo{Kind: odb.Integer}, nil)
	if err != nil {
		return nil, err
	}
	return &internStringCodec{dict: dict, idCodec: idCodec}, nil
}
