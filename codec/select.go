// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/solidcoredata/odb"
	"github.com/solidcoredata/odb/intern"
)

// Select picks the narrowest codec in the catalogue able to represent
// values losslessly, per spec.md §4.3's selection order: constant
// columns first, then the kind-specific narrowing rules. values holds
// one CellValue per row of the column being written; dict is the
// frame's shared intern table, which Select does not read or write
// itself but attaches to the returned codec when it settles on
// int_string.
func Select(col odb.ColumnInfo, values []CellValue, dict *intern.Table) Codec {
	if len(values) == 0 {
		return emptyCodec(col)
	}
	if isConstant(col, values) {
		return constantCodec(col, values[0])
	}

	switch col.Kind {
	case odb.Integer, odb.Bitfield:
		return selectNarrowInt(col, values)
	case odb.Real:
		return selectShortReal(col, values)
	case odb.Double:
		return &longRealCodec{}
	case odb.String:
		return selectString(col, values, dict)
	default: // odb.Ignore
		return &constCodec{}
	}
}

func emptyCodec(col odb.ColumnInfo) Codec {
	if col.Kind == odb.String {
		return &constStringCodec{}
	}
	return &constCodec{}
}

func isConstant(col odb.ColumnInfo, values []CellValue) bool {
	first := values[0]
	if col.Kind == odb.String {
		text := first.AsText()
		for _, v := range values[1:] {
			if v.AsText() != text {
				return false
			}
		}
		return true
	}
	raw := first.Slot
	for _, v := range values[1:] {
		if v.Slot != raw {
			return false
		}
	}
	return true
}

func constantCodec(col odb.ColumnInfo, v CellValue) Codec {
	if col.Kind == odb.String {
		return &constStringCodec{value: v.AsText()}
	}
	return &constCodec{value: v.Slot}
}

// selectNarrowInt picks the narrowest unsigned width whose range covers
// [min,max] of the non-missing values, reserving the top code of that
// width for the missing sentinel when any row carries it. Falls back
// to the 8-byte width when even that can't hold the range.
func selectNarrowInt(col odb.ColumnInfo, values []CellValue) Codec {
	missingRaw := int64(col.Missing)
	hasMissing := false
	min, max := int64(0), int64(0)
	haveBound := false
	for _, v := range values {
		n := v.Slot.Int64()
		if n == missingRaw {
			hasMissing = true
			continue
		}
		if !haveBound {
			min, max = n, n
			haveBound = true
			continue
		}
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	if !haveBound {
		// every row is the missing sentinel
		min, max = missingRaw, missingRaw
	}
	span := uint64(max - min)
	reserve := uint64(0)
	if hasMissing {
		reserve = 1
	}
	for _, width := range []int{1, 2, 4} {
		if span <= maxUnsigned(width)-reserve {
			c := &narrowedIntCodec{width: width, hasMissing: hasMissing, reference: min, missingValue: missingRaw}
			if hasMissing {
				c.missingSentinel = min + int64(maxUnsigned(width))
			}
			return c
		}
	}
	// 8 bytes covers any remaining span losslessly except the one case
	// no width can: the column uses the entire int64 domain and also
	// carries a missing sentinel, leaving no unused code to reserve.
	// narrowedIntCodec.Encode already tolerates that at width 8 (its
	// reserved-code collision check only applies when width < 8).
	c := &narrowedIntCodec{width: 8, hasMissing: hasMissing, reference: min, missingValue: missingRaw}
	if hasMissing {
		c.missingSentinel = min + int64(maxUnsigned(8))
	}
	return c
}

func selectShortReal(col odb.ColumnInfo, values []CellValue) Codec {
	missing := float32(col.Missing)
	hasMissing := false
	for _, v := range values {
		if v.Slot.Float32() == missing {
			hasMissing = true
			break
		}
	}
	return &shortRealCodec{missing: hasMissing, missingValue: missing}
}

// selectString implements spec.md §4.3 step 2: chars wins only when
// every value fits inline and no value repeats at all (a dictionary
// would buy nothing); any repetition makes int_string worth it, which
// narrows the id stream the same way an Integer column would be
// narrowed.
func selectString(col odb.ColumnInfo, values []CellValue, dict *intern.Table) Codec {
	fitsInline := true
	distinct := map[string]struct{}{}
	for _, v := range values {
		s := v.AsText()
		distinct[s] = struct{}{}
		if len(s) > 8 {
			fitsInline = false
		}
	}
	if fitsInline && len(distinct) == len(values) {
		return &charsCodec{}
	}
	maxID := int64(len(distinct) - 1)
	if maxID < 0 {
		maxID = 0
	}
	return &internStringCodec{dict: dict, idCodec: idCodecForRange(maxID)}
}
