// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package odb implements ODB, a column-oriented binary file format and
// query engine core used to store wide, column-redundant observational
// data at scale.
//
// The pipeline runs leaf-first:
//
//	byteorder -> intern -> codec -> frame -> stream
//
// byteorder serialises fixed-width primitives in either host or
// swapped byte order. intern assigns dense integer ids to distinct
// strings within one frame. codec holds the closed catalogue of
// per-column encoders/decoders chosen by frame.Writer from sampled
// column data. frame assembles/parses the self-describing frame
// header and rectangular row body. stream composes a sequence of
// frames over one byte stream, renegotiating the schema at
// frame boundaries.
//
// This package holds the types shared across every layer of that
// pipeline (row slots, column kinds, bitfield descriptors) and the
// sentinel errors every layer returns.
package odb

import "math"

// RowSlot is the uniform 8-byte cell container every row value is
// carried in. Integer and bitfield cells reinterpret the 8 bytes as a
// signed int64; real cells occupy the low 4 bytes; strings of up to 8
// ASCII bytes are stored inline, longer strings are routed through an
// intern table.
type RowSlot [8]byte

// Int64 reinterprets the slot as a signed 64-bit integer, the encoding
// used for Integer and Bitfield columns.
func (s RowSlot) Int64() int64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(s[i])
	}
	return int64(v)
}

// PutInt64 stores v into the slot using the Integer/Bitfield encoding.
func (s *RowSlot) PutInt64(v int64) {
	u := uint64(v)
	for i := 0; i < 8; i++ {
		s[i] = byte(u)
		u >>= 8
	}
}

// Float64 reinterprets the slot as a double, the encoding used for
// Double columns.
func (s RowSlot) Float64() float64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(s[i])
	}
	return math.Float64frombits(v)
}

// PutFloat64 stores v into the slot using the Double encoding.
func (s *RowSlot) PutFloat64(v float64) {
	s.PutInt64(int64(math.Float64bits(v)))
}

// Float32 reinterprets the low 4 bytes of the slot as a float32, the
// encoding used for Real columns.
func (s RowSlot) Float32() float32 {
	var v uint32
	for i := 3; i >= 0; i-- {
		v = v<<8 | uint32(s[i])
	}
	return math.Float32frombits(v)
}

// PutFloat32 stores v into the low 4 bytes of the slot using the Real
// encoding.
func (s *RowSlot) PutFloat32(v float32) {
	u := math.Float32bits(v)
	for i := 0; i < 4; i++ {
		s[i] = byte(u)
		u >>= 8
	}
	for i := 4; i < 8; i++ {
		s[i] = 0
	}
}

// String reinterprets the slot as up to 8 inline ASCII bytes, the
// encoding used by the chars codec for short String columns.
func (s RowSlot) String() string {
	n := 0
	for n < 8 && s[n] != 0 {
		n++
	}
	return string(s[:n])
}

// PutString stores a string of at most 8 bytes inline into the slot.
// Longer strings must be routed through an intern table instead.
func (s *RowSlot) PutString(v string) bool {
	if len(v) > 8 {
		return false
	}
	*s = RowSlot{}
	copy(s[:], v)
	return true
}

// ColumnKind is the closed enumeration of column data kinds a frame
// can describe.
type ColumnKind uint8

const (
	// Ignore marks a column whose values are not stored per row: the
	// frame writer encodes it as a zero-width constant, keeping the
	// value only when every row of the frame carries the same one and
	// otherwise reading back as zero.
	Ignore ColumnKind = 0
	// Integer is a signed 64-bit integer column.
	Integer ColumnKind = 1
	// Real is a 32-bit floating point column.
	Real ColumnKind = 2
	// String is a variable-length text column.
	String ColumnKind = 3
	// Bitfield is an integer column interpreted as packed sub-fields.
	Bitfield ColumnKind = 4
	// Double is a 64-bit floating point column.
	Double ColumnKind = 5
)

// kindName returns the lower-case name of k, used by GoString.
// ColumnKind has no String method, so it does not implement
// fmt.Stringer.
func (k ColumnKind) kindName() string {
	switch k {
	case Ignore:
		return "ignore"
	case Integer:
		return "integer"
	case Real:
		return "real"
	case String:
		return "string"
	case Bitfield:
		return "bitfield"
	case Double:
		return "double"
	default:
		return "unknown"
	}
}

func (k ColumnKind) GoString() string { return k.kindName() }

// BitfieldField is one named sub-field of a Bitfield column, packed
// least-significant field first within the 32-bit integer slot.
type BitfieldField struct {
	Name  string
	Width int
}

// BitfieldDescriptor is an ordered sequence of bitfield sub-fields
// whose widths must sum to at most 32 bits.
type BitfieldDescriptor []BitfieldField

// TotalWidth returns the sum of all field widths.
func (d BitfieldDescriptor) TotalWidth() int {
	total := 0
	for _, f := range d {
		total += f.Width
	}
	return total
}
