// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/solidcoredata/odb"
	"github.com/solidcoredata/odb/byteorder"
)

// constCodec represents a column whose every row in this frame carries
// an identical non-string value. Zero bytes are emitted per row; the
// value lives entirely in the header.
type constCodec struct {
	value odb.RowSlot
}

func (c *constCodec) Tag() byte    { return TagConst }
func (c *constCodec) Width() int   { return 0 }
func (c *constCodec) WriteParams(w *byteorder.Writer) error {
	return w.WriteI64(c.value.Int64())
}
func (c *constCodec) Encode(w *byteorder.Writer, v CellValue) error { return nil }
func (c *constCodec) Decode(r *byteorder.Reader) (CellValue, error) {
	return CellValue{Slot: c.value}, nil
}

func parseConstHeader(r *byteorder.Reader, col odb.ColumnInfo) (Codec, error) {
	raw, err := r.ReadI64()
	if err != nil {
		return nil, err
	}
	var slot odb.RowSlot
	slot.PutInt64(raw)
	return &constCodec{value: slot}, nil
}

// constStringCodec represents a String column whose every row carries
// an identical value, of any length.
type constStringCodec struct {
	value string
}

func (c *constStringCodec) Tag() byte  { return TagConstString }
func (c *constStringCodec) Width() int { return 0 }
func (c *constStringCodec) WriteParams(w *byteorder.Writer) error {
	return w.WriteName(c.value)
}
func (c *constStringCodec) Encode(w *byteorder.Writer, v CellValue) error { return nil }
func (c *constStringCodec) Decode(r *byteorder.Reader) (CellValue, error) {
	cv := CellValue{Text: c.value, HasText: true}
	var slot odb.RowSlot
	if slot.PutString(c.value) {
		cv.Slot = slot
	}
	return cv, nil
}

func parseConstStringHeader(r *byteorder.Reader) (Codec, error) {
	s, err := r.ReadName()
	if err != nil {
		return nil, err
	}
	return &constStringCodec{value: s}, nil
}

// constRLECodec is a degenerate single-run specialization of constCodec:
// the whole column is one run spanning the frame's row count. spec.md's
// catalogue describes const_rle's parameters as "the value, total row
// count" — a single run, not a general run-length stream — so unlike a
// true RLE codec it still emits zero per-row body bytes; the run
// metadata is entirely in the header. Codec selection (Select, in
// select.go) never produces this tag: every fully-constant column
// Select sees picks the plain const/const_string codec instead. This
// type exists for callers that construct a frame's codecs directly
// rather than through Select.
type constRLECodec struct {
	value    odb.RowSlot
	rowCount int64
}

func (c *constRLECodec) Tag() byte  { return TagConstRLE }
func (c *constRLECodec) Width() int { return 0 }
func (c *constRLECodec) WriteParams(w *byteorder.Writer) error {
	if err := w.WriteI64(c.value.Int64()); err != nil {
		return err
	}
	return w.WriteI64(c.rowCount)
}
func (c *constRLECodec) Encode(w *byteorder.Writer, v CellValue) error { return nil }
func (c *constRLECodec) Decode(r *byteorder.Reader) (CellValue, error) {
	return CellValue{Slot: c.value}, nil
}

func parseConstRLEHeader(r *byteorder.Reader, col odb.ColumnInfo) (Codec, error) {
	raw, err := r.ReadI64()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadI64()
	if err != nil {
		return nil, err
	}
	var slot odb.RowSlot
	slot.PutInt64(raw)
	return &constRLECodec{value: slot, rowCount: count}, nil
}
