// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/solidcoredata/odb"
	"github.com/solidcoredata/odb/byteorder"
)

// longRealCodec stores a Double column's values verbatim, 8 bytes per
// row, no header parameters. A column's declared missing sentinel
// needs no special encoding here: the sentinel is itself a valid
// double, and a decoded cell that equals it already reads as missing
// to the caller without the codec doing anything extra.
type longRealCodec struct{}

func (c *longRealCodec) Tag() byte  { return TagLongReal }
func (c *longRealCodec) Width() int { return 8 }

func (c *longRealCodec) WriteParams(w *byteorder.Writer) error { return nil }

func (c *longRealCodec) Encode(w *byteorder.Writer, v CellValue) error {
	return w.WriteF64(v.Slot.Float64())
}

func (c *longRealCodec) Decode(r *byteorder.Reader) (CellValue, error) {
	f, err := r.ReadF64()
	if err != nil {
		return CellValue{}, err
	}
	var slot odb.RowSlot
	slot.PutFloat64(f)
	return CellValue{Slot: slot}, nil
}

// shortRealCodec stores a Real column's values as 4-byte single
// precision floats. The missing variant (tag short_real2) additionally
// records the column's declared missing sentinel in the header, purely
// as metadata for readers; like longRealCodec it needs no branch in
// Encode/Decode since the sentinel round-trips as an ordinary float.
type shortRealCodec struct {
	missing      bool
	missingValue float32
}

func (c *shortRealCodec) Tag() byte {
	if c.missing {
		return TagShortReal2
	}
	return TagShortReal
}

func (c *shortRealCodec) Width() int { return 4 }

func (c *shortRealCodec) WriteParams(w *byteorder.Writer) error {
	if !c.missing {
		return nil
	}
	return w.WriteF32(c.missingValue)
}

func (c *shortRealCodec) Encode(w *byteorder.Writer, v CellValue) error {
	return w.WriteF32(v.Slot.Float32())
}

func (c *shortRealCodec) Decode(r *byteorder.Reader) (CellValue, error) {
	f, err := r.ReadF32()
	if err != nil {
		return CellValue{}, err
	}
	var slot odb.RowSlot
	slot.PutFloat32(f)
	return CellValue{Slot: slot}, nil
}

func parseShortReal2Header(r *byteorder.Reader) (Codec, error) {
	missing, err := r.ReadF32()
	if err != nil {
		return nil, err
	}
	return &shortRealCodec{missing: true, missingValue: missing}, nil
}
