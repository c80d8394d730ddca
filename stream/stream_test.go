// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stream

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solidcoredata/odb"
	"github.com/solidcoredata/odb/byteorder"
	"github.com/solidcoredata/odb/frame"
)

func slotInt(n int64) odb.RowSlot {
	var s odb.RowSlot
	s.PutInt64(n)
	return s
}

func TestSingleSchemaRoundTrip(t *testing.T) {
	schema := frame.Schema{{Name: "n", Kind: odb.Integer}}
	buf := &bytes.Buffer{}
	w := NewWriter(buf, byteorder.Host, 2)
	for _, n := range []int64{1, 2, 3} {
		require.NoError(t, w.WriteRow(schema, frame.Row{{Slot: slotInt(n)}}))
	}
	require.NoError(t, w.Close())

	r := NewReader(bytes.NewReader(buf.Bytes()), nil)
	var seen []int64
	var changes int
	r.OnSchemaChange(func(s frame.Schema) { changes++ })
	for {
		row, ok, err := r.NextRow()
		require.NoError(t, err)
		if !ok {
			break
		}
		seen = append(seen, row[0].Slot.Int64())
	}
	require.Equal(t, []int64{1, 2, 3}, seen)
	require.Equal(t, 1, changes)
}

func TestSchemaChangeForcesFrameBoundary(t *testing.T) {
	schemaA := frame.Schema{{Name: "n", Kind: odb.Integer}}
	schemaB := frame.Schema{
		{Name: "n", Kind: odb.Integer},
		{Name: "s", Kind: odb.String},
	}
	buf := &bytes.Buffer{}
	w := NewWriter(buf, byteorder.Host, 0)
	require.NoError(t, w.WriteRow(schemaA, frame.Row{{Slot: slotInt(1)}}))
	require.NoError(t, w.WriteRow(schemaA, frame.Row{{Slot: slotInt(2)}}))
	require.NoError(t, w.WriteRow(schemaB, frame.Row{{Slot: slotInt(3)}, {Text: "x", HasText: true}}))
	require.NoError(t, w.Close())

	r := NewReader(bytes.NewReader(buf.Bytes()), nil)
	var schemas []frame.Schema
	r.OnSchemaChange(func(s frame.Schema) { schemas = append(schemas, s) })

	row, ok, err := r.NextRow()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1), row[0].Slot.Int64())

	row, ok, err = r.NextRow()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(2), row[0].Slot.Int64())

	row, ok, err = r.NextRow()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(3), row[0].Slot.Int64())
	require.Equal(t, "x", row[1].AsText())

	_, ok, err = r.NextRow()
	require.NoError(t, err)
	require.False(t, ok)

	require.Len(t, schemas, 2)
	require.True(t, schemaA.Equal(schemas[0]))
	require.True(t, schemaB.Equal(schemas[1]))
}

func TestSkipFrame(t *testing.T) {
	schema := frame.Schema{{Name: "n", Kind: odb.Integer}}
	buf := &bytes.Buffer{}
	w := NewWriter(buf, byteorder.Host, 1)
	require.NoError(t, w.WriteRow(schema, frame.Row{{Slot: slotInt(1)}}))
	require.NoError(t, w.WriteRow(schema, frame.Row{{Slot: slotInt(2)}}))
	require.NoError(t, w.Close())

	r := NewReader(bytes.NewReader(buf.Bytes()), nil)
	require.NoError(t, r.SkipFrame())

	row, ok, err := r.NextRow()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(2), row[0].Slot.Int64())

	_, ok, err = r.NextRow()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStreamIDsAreUnique(t *testing.T) {
	a := NewWriter(io.Discard, byteorder.Host, 0)
	b := NewWriter(io.Discard, byteorder.Host, 0)
	require.NotEqual(t, a.ID(), b.ID())
}

func TestValidateSourcesConcurrent(t *testing.T) {
	schema := frame.Schema{{Name: "n", Kind: odb.Integer}}

	good := &bytes.Buffer{}
	gw := NewWriter(good, byteorder.Host, 0)
	require.NoError(t, gw.WriteRow(schema, frame.Row{{Slot: slotInt(1)}}))
	require.NoError(t, gw.Close())

	truncated := &bytes.Buffer{}
	tw := NewWriter(truncated, byteorder.Host, 0)
	require.NoError(t, tw.WriteRow(schema, frame.Row{{Slot: slotInt(1)}}))
	require.NoError(t, tw.Close())
	corrupt := bytes.NewReader(truncated.Bytes()[:truncated.Len()-1])

	err := ValidateSources(context.Background(), []io.Reader{
		bytes.NewReader(good.Bytes()),
		corrupt,
	}, nil)
	require.Error(t, err)

	err = ValidateSources(context.Background(), []io.Reader{
		bytes.NewReader(good.Bytes()),
		bytes.NewReader(good.Bytes()),
	}, nil)
	require.NoError(t, err)
}
