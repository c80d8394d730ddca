// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stream

import (
	"bufio"
	"errors"
	"io"

	"github.com/solidcoredata/odb/codec"
	"github.com/solidcoredata/odb/frame"
)

// SchemaChangeFunc is notified before the first row of a new schema is
// delivered. It fires for the stream's first frame and then for every
// frame whose schema differs from the frame before it, so a schema that
// recurs after a different one is reported again.
type SchemaChangeFunc func(frame.Schema)

// Reader walks a sequence of frames sharing one underlying source,
// transparently advancing from one frame.Reader to the next and
// notifying a registered callback whenever the schema changes
// (spec.md §4.6). Not safe for concurrent use.
type Reader struct {
	src         *bufio.Reader
	skipColumns map[string]bool
	onChange    SchemaChangeFunc

	cur        *frame.Reader
	schema     frame.Schema
	haveSchema bool
	row        []codec.CellValue
}

// NewReader wraps src. skipColumns names columns whose bytes should be
// consumed but never materialised into a row buffer, same as
// frame.Open's parameter of the same name; nil decodes every column.
func NewReader(src io.Reader, skipColumns map[string]bool) *Reader {
	return &Reader{src: bufio.NewReader(src), skipColumns: skipColumns}
}

// OnSchemaChange registers fn to be called when the Reader opens a
// frame whose schema differs from the previous frame's (or the first
// frame), before any of that frame's rows is returned.
func (sr *Reader) OnSchemaChange(fn SchemaChangeFunc) { sr.onChange = fn }

// Schema returns the schema of the frame currently being read.
func (sr *Reader) Schema() frame.Schema { return sr.schema }

// advance opens the next frame in the stream. It returns (false, nil)
// once the source is cleanly exhausted (no bytes remain before the
// next frame would start); any other read failure, including a
// truncated frame, is returned as an error.
func (sr *Reader) advance() (bool, error) {
	if _, err := sr.src.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	r, err := frame.Open(sr.src, sr.skipColumns)
	if err != nil {
		return false, err
	}
	sr.cur = r
	schema := r.Header()
	if !sr.haveSchema || !schema.Equal(sr.schema) {
		sr.schema = schema
		sr.haveSchema = true
		if sr.onChange != nil {
			sr.onChange(schema)
		}
	}
	return true, nil
}

// NextRow decodes the next row of the stream, transparently crossing
// frame boundaries, and reports false once every frame has been
// exhausted. The returned slice is owned by the Reader and reused
// (reallocated only when the schema changes) on the next NextRow call,
// same convention as bufio.Scanner.Bytes.
func (sr *Reader) NextRow() ([]codec.CellValue, bool, error) {
	for {
		if sr.cur == nil {
			ok, err := sr.advance()
			if err != nil || !ok {
				return nil, false, err
			}
		}
		if len(sr.row) != len(sr.schema) {
			sr.row = make([]codec.CellValue, len(sr.schema))
		}
		ok, err := sr.cur.NextRow(sr.row)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return sr.row, true, nil
		}
		sr.cur = nil
	}
}

// SkipFrame discards the remainder of the current frame (or, if
// between frames, the whole of the next one) without decoding any row.
// Built on frame.Reader.SkipToEnd per spec.md §9's supplemented
// rewind/advance cursor.
func (sr *Reader) SkipFrame() error {
	if sr.cur == nil {
		ok, err := sr.advance()
		if err != nil || !ok {
			return err
		}
	}
	err := sr.cur.SkipToEnd()
	sr.cur = nil
	return err
}
