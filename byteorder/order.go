// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package byteorder serialises fixed-width primitives, strings, and raw
// buffers in either host order or its reverse, selected per frame. It
// is the leaf of the ODB pipeline: every other package builds on
// Reader/Writer rather than touching encoding/binary directly.
package byteorder

import "encoding/binary"

// Order is the byte-order strategy used by a Reader or Writer.
// encoding/binary.ByteOrder already has exactly the shape this layer
// needs, so it is reused directly rather than redeclared.
type Order = binary.ByteOrder

// Host is the byte order a frame was written in on the writing
// platform ("host-order-at-write" in the on-disk flag). ODB always
// picks little-endian as the concrete host encoding, matching the
// overwhelming majority of deployed hardware; Swapped is its reverse.
var Host Order = binary.LittleEndian

// Swapped is the reverse of Host, selected when a frame's byte-order
// flag indicates the writer's order differs from the reader's.
var Swapped Order = binary.BigEndian

// Flag values stored in a frame header's byte_order_flag byte.
const (
	FlagHost    byte = 0
	FlagSwapped byte = 1
)

// FlagFor returns the on-disk flag byte for o.
func FlagFor(o Order) byte {
	if o == Swapped {
		return FlagSwapped
	}
	return FlagHost
}

// OrderFor returns the Order corresponding to an on-disk flag byte.
func OrderFor(flag byte) Order {
	if flag == FlagSwapped {
		return Swapped
	}
	return Host
}
