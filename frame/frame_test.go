// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solidcoredata/odb"
	"github.com/solidcoredata/odb/byteorder"
	"github.com/solidcoredata/odb/codec"
)

func slotInt(n int64) odb.RowSlot {
	var s odb.RowSlot
	s.PutInt64(n)
	return s
}

func slotFloat64(f float64) odb.RowSlot {
	var s odb.RowSlot
	s.PutFloat64(f)
	return s
}

func textCell(s string) codec.CellValue {
	return codec.CellValue{Text: s, HasText: true}
}

func TestSingleRowDoubleColumn(t *testing.T) {
	schema := Schema{{Name: "x", Kind: odb.Double, Missing: 1e30}}
	buf := &bytes.Buffer{}
	w := NewWriter(buf, byteorder.Host, schema, 0)
	require.NoError(t, w.WriteRow(Row{{Slot: slotFloat64(3.14)}}))
	require.NoError(t, w.Close())

	r, err := Open(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	require.Equal(t, 1, r.RowCount())

	row := make([]codec.CellValue, 1)
	ok, err := r.NextRow(row)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3.14, row[0].Slot.Float64())

	ok, err = r.NextRow(row)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTwoRowIntegerNarrowing(t *testing.T) {
	schema := Schema{{Name: "n", Kind: odb.Integer, Missing: 2147483647}}
	buf := &bytes.Buffer{}
	w := NewWriter(buf, byteorder.Host, schema, 0)
	require.NoError(t, w.WriteRow(Row{{Slot: slotInt(10)}}))
	require.NoError(t, w.WriteRow(Row{{Slot: slotInt(20)}}))
	require.NoError(t, w.Close())

	r, err := Open(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)

	row := make([]codec.CellValue, 1)
	ok, err := r.NextRow(row)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(10), row[0].Slot.Int64())

	ok, err = r.NextRow(row)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(20), row[0].Slot.Int64())
}

func TestConstantStringColumn(t *testing.T) {
	schema := Schema{{Name: "k", Kind: odb.String}}
	buf := &bytes.Buffer{}
	w := NewWriter(buf, byteorder.Host, schema, 0)
	for i := 0; i < 3; i++ {
		require.NoError(t, w.WriteRow(Row{textCell("ABC")}))
	}
	require.NoError(t, w.Close())

	r, err := Open(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	row := make([]codec.CellValue, 1)
	for i := 0; i < 3; i++ {
		ok, err := r.NextRow(row)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "ABC", row[0].AsText())
	}
}

func TestInternedStringColumn(t *testing.T) {
	schema := Schema{{Name: "s", Kind: odb.String}}
	values := []string{"alpha", "beta", "alpha", "gamma", "beta"}
	buf := &bytes.Buffer{}
	w := NewWriter(buf, byteorder.Host, schema, 0)
	for _, s := range values {
		require.NoError(t, w.WriteRow(Row{textCell(s)}))
	}
	require.NoError(t, w.Close())

	r, err := Open(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	row := make([]codec.CellValue, 1)
	for _, want := range values {
		ok, err := r.NextRow(row)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, want, row[0].AsText())
	}
}

func TestMissingValueInteger(t *testing.T) {
	schema := Schema{{Name: "q", Kind: odb.Integer, Missing: -1}}
	buf := &bytes.Buffer{}
	w := NewWriter(buf, byteorder.Host, schema, 0)
	for _, n := range []int64{5, -1, 7} {
		require.NoError(t, w.WriteRow(Row{{Slot: slotInt(n)}}))
	}
	require.NoError(t, w.Close())

	r, err := Open(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	row := make([]codec.CellValue, 1)
	for _, want := range []int64{5, -1, 7} {
		ok, err := r.NextRow(row)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, want, row[0].Slot.Int64())
	}
}

func TestCrossByteOrderRead(t *testing.T) {
	schema := Schema{
		{Name: "i", Kind: odb.Integer, Missing: -1},
		{Name: "r", Kind: odb.Real, Missing: -1e9},
		{Name: "d", Kind: odb.Double, Missing: 1e30},
		{Name: "s", Kind: odb.String},
		{Name: "b", Kind: odb.Bitfield, Missing: -1, Bitfield: odb.BitfieldDescriptor{{Name: "a", Width: 4}, {Name: "b", Width: 4}}},
		{Name: "g", Kind: odb.Ignore},
	}
	row := Row{
		{Slot: slotInt(42)},
		{Slot: func() odb.RowSlot { var s odb.RowSlot; s.PutFloat32(1.5); return s }()},
		{Slot: slotFloat64(2.5)},
		textCell("hi"),
		{Slot: slotInt(9)},
		{Slot: slotInt(0)},
	}

	buf := &bytes.Buffer{}
	w := NewWriter(buf, byteorder.Swapped, schema, 0)
	require.NoError(t, w.WriteRow(row))
	require.NoError(t, w.Close())

	r, err := Open(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	out := make([]codec.CellValue, len(schema))
	ok, err := r.NextRow(out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(42), out[0].Slot.Int64())
	require.Equal(t, float32(1.5), out[1].Slot.Float32())
	require.Equal(t, 2.5, out[2].Slot.Float64())
	require.Equal(t, "hi", out[3].AsText())
	require.Equal(t, int64(9), out[4].Slot.Int64())
}

func TestEmptyFrame(t *testing.T) {
	schema := Schema{{Name: "x", Kind: odb.Integer}}
	buf := &bytes.Buffer{}
	w := NewWriter(buf, byteorder.Host, schema, 0)
	require.NoError(t, w.FlushFrame())
	require.NoError(t, w.Close())

	r, err := Open(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	require.Equal(t, 0, r.RowCount())
	row := make([]codec.CellValue, 1)
	ok, err := r.NextRow(row)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSkipColumns(t *testing.T) {
	schema := Schema{
		{Name: "keep", Kind: odb.Integer},
		{Name: "drop", Kind: odb.Integer},
	}
	buf := &bytes.Buffer{}
	w := NewWriter(buf, byteorder.Host, schema, 0)
	require.NoError(t, w.WriteRow(Row{{Slot: slotInt(1)}, {Slot: slotInt(2)}}))
	require.NoError(t, w.WriteRow(Row{{Slot: slotInt(3)}, {Slot: slotInt(4)}}))
	require.NoError(t, w.Close())

	r, err := Open(bytes.NewReader(buf.Bytes()), map[string]bool{"drop": true})
	require.NoError(t, err)
	row := make([]codec.CellValue, 2)
	ok, err := r.NextRow(row)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), row[0].Slot.Int64())
	require.Equal(t, codec.CellValue{}, row[1])

	ok, err = r.NextRow(row)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(3), row[0].Slot.Int64())
	require.Equal(t, codec.CellValue{}, row[1])
}

func TestPreviousFrameOffsetChain(t *testing.T) {
	schema := Schema{{Name: "x", Kind: odb.Integer}}
	buf := &bytes.Buffer{}
	w := NewWriter(buf, byteorder.Host, schema, 1)
	require.NoError(t, w.WriteRow(Row{{Slot: slotInt(1)}}))
	require.NoError(t, w.WriteRow(Row{{Slot: slotInt(2)}}))
	require.NoError(t, w.Close())

	r1, err := Open(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, err)
	require.Equal(t, int64(-1), r1.PreviousFrameOffset())
	require.NoError(t, r1.SkipToEnd())

	rest := buf.Bytes()[r1.BytesConsumed():]
	r2, err := Open(bytes.NewReader(rest), nil)
	require.NoError(t, err)
	require.Equal(t, int64(0), r2.PreviousFrameOffset())
}
