// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"bytes"
	"fmt"
	"io"

	"github.com/solidcoredata/odb"
	"github.com/solidcoredata/odb/byteorder"
	"github.com/solidcoredata/odb/codec"
	"github.com/solidcoredata/odb/intern"
)

// Row is one buffered row, one cell per Schema entry in declaration
// order.
type Row []codec.CellValue

// Writer buffers rows for one schema and seals them into frames.
// Pass 1 (observe) samples the buffered batch to choose a codec per
// column; pass 2 (emit) serialises the header then the row-major body
// (spec.md §4.4). A Writer is not safe for concurrent use.
type Writer struct {
	bw         *byteorder.Writer
	schema     Schema
	targetRows int

	// InternBuckets sizes any intern.Table this Writer allocates for a
	// String column's int_string dictionary. Zero means intern.New's
	// default bucket count. Callers that know their expected cardinality
	// up front (odb/stream, wired to service/config's -intern-buckets)
	// can set this right after construction.
	InternBuckets int

	rows []Row

	lastFrameOffset int64
	poisoned        error
	closed          bool
}

// NewWriter returns a Writer over w, encoding in the given byte order,
// batching up to targetRows rows per frame before an automatic flush.
// targetRows <= 0 means "never auto-flush"; only explicit FlushFrame
// or Close seals a frame.
func NewWriter(w io.Writer, order byteorder.Order, schema Schema, targetRows int) *Writer {
	return &Writer{
		bw:              byteorder.NewWriter(w, order),
		schema:          schema,
		targetRows:      targetRows,
		lastFrameOffset: noPreviousFrame,
	}
}

// NewWriterAt is like NewWriter, but for a Writer that continues an
// already-open output: startOffset seeds the byte counter used for
// back-link arithmetic, and previousFrameOffset seeds the back-link
// itself. odb/stream uses this to start a fresh Writer (new schema,
// new column set) without losing the previous-frame chain or
// restarting the byte count from zero.
func NewWriterAt(w io.Writer, order byteorder.Order, schema Schema, targetRows int, startOffset, previousFrameOffset int64) *Writer {
	return &Writer{
		bw:              byteorder.NewWriterAt(w, order, startOffset),
		schema:          schema,
		targetRows:      targetRows,
		lastFrameOffset: previousFrameOffset,
	}
}

// BytesWritten reports how many bytes this Writer (and, if constructed
// via NewWriterAt, any writer it continues from) has emitted in total.
func (fw *Writer) BytesWritten() int64 { return fw.bw.BytesWritten() }

// LastFrameOffset reports the byte offset of the most recently emitted
// frame, or NoPreviousFrame if none has been emitted yet.
func (fw *Writer) LastFrameOffset() int64 { return fw.lastFrameOffset }

// Schema returns the schema this Writer was constructed with.
func (fw *Writer) Schema() Schema { return fw.schema }

// WriteRow buffers row for the next flush. Its length must equal the
// schema's column count.
func (fw *Writer) WriteRow(row Row) error {
	if fw.poisoned != nil {
		return fw.poisoned
	}
	if fw.closed {
		return fmt.Errorf("odb: write after close")
	}
	if len(row) != len(fw.schema) {
		return fmt.Errorf("%w: row has %d cells, schema has %d columns", odb.ErrSchemaMismatch, len(row), len(fw.schema))
	}
	fw.rows = append(fw.rows, row)
	if fw.targetRows > 0 && len(fw.rows) >= fw.targetRows {
		return fw.FlushFrame()
	}
	return nil
}

// FlushFrame seals the currently buffered rows (zero or more) into one
// frame and resets the batch. Per spec.md §4.4, a poisoned writer
// (one whose previous emit failed partway through pass 2) returns
// ErrIO on every subsequent call rather than risk a partial frame.
func (fw *Writer) FlushFrame() error {
	if fw.poisoned != nil {
		return fw.poisoned
	}
	if err := fw.emit(); err != nil {
		fw.poisoned = fmt.Errorf("%w: frame write aborted mid-emission", odb.ErrIO)
		return err
	}
	fw.rows = fw.rows[:0]
	return nil
}

// Close flushes any partial batch as a final frame. Calling Close more
// than once is a no-op.
func (fw *Writer) Close() error {
	if fw.closed {
		return nil
	}
	fw.closed = true
	if len(fw.rows) > 0 {
		return fw.FlushFrame()
	}
	return nil
}

func (fw *Writer) emit() error {
	frameStart := fw.bw.BytesWritten()
	rowCount := len(fw.rows)
	columns := make([]codec.Codec, len(fw.schema))
	dicts := make([]*intern.Table, len(fw.schema))

	for j, col := range fw.schema {
		values := make([]codec.CellValue, rowCount)
		for i, row := range fw.rows {
			values[i] = row[j]
		}
		var dict *intern.Table
		if col.Kind == odb.String {
			if fw.InternBuckets > 0 {
				dict = intern.NewSize(fw.InternBuckets)
			} else {
				dict = intern.New()
			}
		}
		c := codec.Select(col.info(), values, dict)
		if c.Tag() == codec.TagIntString {
			for _, v := range values {
				dict.Store(v.AsText())
			}
		}
		columns[j] = c
		dicts[j] = dict
	}

	schemaBuf := &bytes.Buffer{}
	sw := byteorder.NewWriter(schemaBuf, fw.bw.Order())
	for j, col := range fw.schema {
		if err := sw.WriteName(col.Name); err != nil {
			return err
		}
		if err := sw.WriteU8(uint8(col.Kind)); err != nil {
			return err
		}
		if err := sw.WriteF64(col.Missing); err != nil {
			return err
		}
		if col.Kind == odb.Bitfield {
			if err := writeBitfield(sw, col.Bitfield); err != nil {
				return err
			}
		}
		if err := sw.WriteU8(columns[j].Tag()); err != nil {
			return err
		}
		if err := columns[j].WriteParams(sw); err != nil {
			return err
		}
	}
	for j, col := range fw.schema {
		if col.Kind == odb.String && columns[j].Tag() == codec.TagIntString {
			if err := dicts[j].Save(sw); err != nil {
				return err
			}
		}
	}

	if err := fw.bw.WriteBytes([]byte(magic)); err != nil {
		return err
	}
	if err := fw.bw.WriteU8(byteorder.FlagFor(fw.bw.Order())); err != nil {
		return err
	}
	if err := fw.bw.WriteI32(int32(schemaBuf.Len())); err != nil {
		return err
	}
	if err := fw.bw.WriteI64(fw.lastFrameOffset); err != nil {
		return err
	}
	if err := fw.bw.WriteI32(int32(rowCount)); err != nil {
		return err
	}
	if err := fw.bw.WriteI32(int32(len(fw.schema))); err != nil {
		return err
	}
	if err := fw.bw.WriteBytes(schemaBuf.Bytes()); err != nil {
		return err
	}

	for i := 0; i < rowCount; i++ {
		for j := range fw.schema {
			if err := columns[j].Encode(fw.bw, fw.rows[i][j]); err != nil {
				return err
			}
		}
	}

	fw.lastFrameOffset = frameStart
	return nil
}

func writeBitfield(w *byteorder.Writer, fields odb.BitfieldDescriptor) error {
	if err := w.WriteI32(int32(len(fields))); err != nil {
		return err
	}
	for _, f := range fields {
		if err := w.WriteName(f.Name); err != nil {
			return err
		}
		if err := w.WriteI32(int32(f.Width)); err != nil {
			return err
		}
	}
	return nil
}
