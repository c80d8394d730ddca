// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stream

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/solidcoredata/odb/byteorder"
	"github.com/solidcoredata/odb/frame"
)

// Writer chains frame.Writer instances over one output, forcing a new
// frame whenever the row schema changes (spec.md §4.6). Most streams
// never change schema; when one does, the in-flight frame is sealed
// with whatever rows it already buffered before the new schema's
// frame.Writer takes over, so every frame on disk stays internally
// uniform. Not safe for concurrent use.
type Writer struct {
	id         uuid.UUID
	out        io.Writer
	order      byteorder.Order
	targetRows int

	// InternBuckets is forwarded to every frame.Writer this Writer
	// rolls to, sizing the int_string dictionary each String column
	// allocates. Zero means frame.Writer's own default.
	InternBuckets int

	fw     *frame.Writer
	poison error
}

// NewWriter returns a Writer over out. ID reports a random diagnostic
// identifier (not part of the on-disk format) that FormatError-style
// wrapping can use to correlate log lines with a specific stream.
func NewWriter(out io.Writer, order byteorder.Order, targetRows int) *Writer {
	return &Writer{
		id:         uuid.New(),
		out:        out,
		order:      order,
		targetRows: targetRows,
	}
}

// ID reports this stream's diagnostic identifier.
func (sw *Writer) ID() uuid.UUID { return sw.id }

// WriteRow buffers row under schema, sealing the previous frame first
// if schema differs from whatever the stream is currently writing.
func (sw *Writer) WriteRow(schema frame.Schema, row frame.Row) error {
	if sw.poison != nil {
		return sw.poison
	}
	if sw.fw == nil || !sw.fw.Schema().Equal(schema) {
		if err := sw.rollSchema(schema); err != nil {
			return err
		}
	}
	if err := sw.fw.WriteRow(row); err != nil {
		sw.poison = err
		return err
	}
	return nil
}

// rollSchema seals the current frame.Writer (if any) and starts a new
// one for schema, continuing the same byte count and previous-frame
// chain the old writer had reached.
func (sw *Writer) rollSchema(schema frame.Schema) error {
	startOffset := int64(0)
	previousFrameOffset := frame.NoPreviousFrame
	if sw.fw != nil {
		if err := sw.fw.Close(); err != nil {
			sw.poison = fmt.Errorf("odb/stream: sealing frame before schema change: %w", err)
			return sw.poison
		}
		startOffset = sw.fw.BytesWritten()
		if sw.fw.LastFrameOffset() != frame.NoPreviousFrame {
			previousFrameOffset = sw.fw.LastFrameOffset()
		}
	}
	sw.fw = frame.NewWriterAt(sw.out, sw.order, schema, sw.targetRows, startOffset, previousFrameOffset)
	sw.fw.InternBuckets = sw.InternBuckets
	return nil
}

// FlushFrame forces the current schema's buffered rows out as a frame
// without ending the stream; the next WriteRow under the same schema
// starts a fresh frame chained to this one.
func (sw *Writer) FlushFrame() error {
	if sw.poison != nil {
		return sw.poison
	}
	if sw.fw == nil {
		return nil
	}
	schema := sw.fw.Schema()
	if err := sw.rollSchema(schema); err != nil {
		return err
	}
	return nil
}

// Close seals any buffered rows as a final frame. Calling Close more
// than once is a no-op.
func (sw *Writer) Close() error {
	if sw.poison != nil {
		return sw.poison
	}
	if sw.fw == nil {
		return nil
	}
	return sw.fw.Close()
}
