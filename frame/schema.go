// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frame assembles and parses self-describing frames: a header
// (schema, codec headers, row count, byte length) followed by a
// rectangular body of encoded cells (spec.md §4.4, §4.5, §6).
package frame

import (
	"github.com/solidcoredata/odb"
)

// ColumnDescriptor is the schema/SQL collaborator's view of one
// column: everything needed to build a frame's codec, nothing about
// which codec was actually chosen (that's an internal detail of a
// written frame, reconstructed by Open on read).
type ColumnDescriptor struct {
	Name     string
	Kind     odb.ColumnKind
	Missing  float64
	Bitfield odb.BitfieldDescriptor
}

// Schema is an ordered sequence of column descriptors. Every row a
// Writer accepts must carry exactly one cell per entry, in this order.
type Schema []ColumnDescriptor

// Equal reports whether two schemas describe the same columns in the
// same order. Used by stream.Writer to detect a schema change that
// forces a frame boundary.
func (s Schema) Equal(o Schema) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		a, b := s[i], o[i]
		if a.Name != b.Name || a.Kind != b.Kind || a.Missing != b.Missing {
			return false
		}
		if len(a.Bitfield) != len(b.Bitfield) {
			return false
		}
		for j := range a.Bitfield {
			if a.Bitfield[j] != b.Bitfield[j] {
				return false
			}
		}
	}
	return true
}

func (d ColumnDescriptor) info() odb.ColumnInfo {
	return odb.ColumnInfo{Kind: d.Kind, Missing: d.Missing, Bitfield: d.Bitfield}
}
