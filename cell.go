// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odb

// ColumnInfo describes the parts of a ColumnDescriptor a codec needs to
// parse or select its own header: the column's kind, its declared
// missing-value sentinel (meaningful for Integer, Bitfield, and Real
// kinds only), and, for Bitfield, the packed field layout.
type ColumnInfo struct {
	Kind     ColumnKind
	Missing  float64
	Bitfield BitfieldDescriptor
}
