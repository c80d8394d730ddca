// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"

	"github.com/solidcoredata/odb"
	"github.com/solidcoredata/odb/byteorder"
)

// narrowedIntCodec is the narrowed-integer family of spec.md §4.3:
// each cell stores (value - reference) in an unsigned field of 1, 2,
// 4, or 8 bytes. When hasMissing is set, the maximum unsigned value of
// that width is reserved to mean "this row's declared missing value".
type narrowedIntCodec struct {
	width           int
	hasMissing      bool
	reference       int64
	missingValue    int64 // the column's declared missing value, as int64
	missingSentinel int64 // reference + maxUnsigned(width), stored for header fidelity
}

func (c *narrowedIntCodec) Tag() byte {
	switch c.width {
	case 1:
		if c.hasMissing {
			return TagInt8Missing
		}
		return TagInt8
	case 2:
		if c.hasMissing {
			return TagInt16Mising
		}
		return TagInt16
	case 4:
		if c.hasMissing {
			return TagInt32Mising
		}
		return TagInt32
	default:
		if c.hasMissing {
			return TagInt64Missing
		}
		return TagInt64
	}
}

func (c *narrowedIntCodec) Width() int { return c.width }

func (c *narrowedIntCodec) WriteParams(w *byteorder.Writer) error {
	if err := w.WriteI64(c.reference); err != nil {
		return err
	}
	if c.hasMissing {
		return w.WriteI64(c.missingSentinel)
	}
	return nil
}

func (c *narrowedIntCodec) Encode(w *byteorder.Writer, v CellValue) error {
	value := v.Slot.Int64()
	if c.hasMissing && value == c.missingValue {
		return writeUnsigned(w, c.width, maxUnsigned(c.width))
	}
	off := value - c.reference
	if value < c.reference || (c.width < 8 && uint64(off) > maxUnsigned(c.width)) {
		return fmt.Errorf("%w: value %d out of codec range", odb.ErrCodecParamOutOfRange, value)
	}
	if c.hasMissing && c.width < 8 && uint64(off) == maxUnsigned(c.width) {
		return fmt.Errorf("%w: value %d collides with reserved missing code", odb.ErrCodecParamOutOfRange, value)
	}
	return writeUnsigned(w, c.width, uint64(off))
}

func (c *narrowedIntCodec) Decode(r *byteorder.Reader) (CellValue, error) {
	u, err := readUnsigned(r, c.width)
	if err != nil {
		return CellValue{}, err
	}
	var slot odb.RowSlot
	if c.hasMissing && u == maxUnsigned(c.width) {
		slot.PutInt64(c.missingValue)
		return CellValue{Slot: slot}, nil
	}
	slot.PutInt64(c.reference + int64(u))
	return CellValue{Slot: slot}, nil
}

func parseNarrowHeader(tag byte, r *byteorder.Reader, hasMissing bool) (Codec, error) {
	width := narrowWidth(tag)
	ref, err := r.ReadI64()
	if err != nil {
		return nil, err
	}
	c := &narrowedIntCodec{width: width, hasMissing: hasMissing, reference: ref}
	if hasMissing {
		sentinel, err := r.ReadI64()
		if err != nil {
			return nil, err
		}
		c.missingSentinel = sentinel
		c.missingValue = sentinel - ref // inverse of reference + maxUnsigned(width)
		// Recompute missingValue exactly: sentinel == reference + maxUnsigned(width),
		// so the domain missing value itself must be supplied by the
		// caller (the column's declared sentinel) rather than derived;
		// ParseHeader fixes this up via withMissingValue below.
	}
	return c, nil
}

// withMissingValue finalizes a narrowedIntCodec parsed from a header
// with the column's declared missing value (a double, per the schema),
// truncated to int64. ParseHeader calls this after parseNarrowHeader
// for Integer/Bitfield columns.
func withMissingValue(c Codec, missing float64) Codec {
	n, ok := c.(*narrowedIntCodec)
	if !ok || !n.hasMissing {
		return c
	}
	n.missingValue = int64(missing)
	return n
}

func readUnsigned(r *byteorder.Reader, width int) (uint64, error) {
	switch width {
	case 1:
		v, err := r.ReadU8()
		return uint64(v), err
	case 2:
		v, err := r.ReadI16()
		return uint64(uint16(v)), err
	case 4:
		v, err := r.ReadI32()
		return uint64(uint32(v)), err
	case 8:
		v, err := r.ReadI64()
		return uint64(v), err
	default:
		return 0, fmt.Errorf("%w: unsupported narrow width %d", odb.ErrCodecParamOutOfRange, width)
	}
}

func writeUnsigned(w *byteorder.Writer, width int, v uint64) error {
	switch width {
	case 1:
		return w.WriteU8(uint8(v))
	case 2:
		return w.WriteI16(int16(uint16(v)))
	case 4:
		return w.WriteI32(int32(uint32(v)))
	case 8:
		return w.WriteI64(int64(v))
	default:
		return fmt.Errorf("%w: unsupported narrow width %d", odb.ErrCodecParamOutOfRange, width)
	}
}
