// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"fmt"
	"io"

	"github.com/solidcoredata/odb"
	"github.com/solidcoredata/odb/byteorder"
	"github.com/solidcoredata/odb/codec"
	"github.com/solidcoredata/odb/intern"
)

// Reader parses one frame and exposes a forward-only row cursor.
// Constructed by Open; a new Reader must be created for each frame in
// a stream (stream.Reader does this).
type Reader struct {
	br       *byteorder.Reader
	schema   Schema
	columns  []codec.Codec
	skip     []bool
	rowCount int32
	nextRow  int32

	prevFrameOffset int64
	prefixBytes     int64
}

// Open reads one frame's header from src, resolving the byte order
// from the frame's own flag byte (not the caller's). skipColumns names
// columns whose bytes should be consumed but never materialised into
// a row buffer (spec.md's supplemented skip-list feature); nil means
// decode every column.
func Open(src io.Reader, skipColumns map[string]bool) (*Reader, error) {
	bootstrap := byteorder.NewReader(src, byteorder.Host)
	magicBytes, err := bootstrap.ReadBytes(len(magic))
	if err != nil {
		return nil, err
	}
	if string(magicBytes) != magic {
		return nil, fmt.Errorf("%w: bad magic %q", odb.ErrFormat, magicBytes)
	}
	flag, err := bootstrap.ReadU8()
	if err != nil {
		return nil, err
	}
	order := byteorder.OrderFor(flag)
	br := byteorder.NewReader(src, order)

	headerLen, err := br.ReadI32()
	if err != nil {
		return nil, err
	}
	if headerLen < 0 {
		return nil, fmt.Errorf("%w: negative header length %d", odb.ErrFormat, headerLen)
	}
	prevOffset, err := br.ReadI64()
	if err != nil {
		return nil, err
	}
	rowCount, err := br.ReadI32()
	if err != nil {
		return nil, err
	}
	if rowCount < 0 {
		return nil, fmt.Errorf("%w: negative row count %d", odb.ErrFormat, rowCount)
	}
	columnCount, err := br.ReadI32()
	if err != nil {
		return nil, err
	}
	if columnCount < 0 {
		return nil, fmt.Errorf("%w: negative column count %d", odb.ErrFormat, columnCount)
	}

	schema := make(Schema, columnCount)
	tags := make([]byte, columnCount)
	columns := make([]codec.Codec, columnCount)
	for j := range schema {
		name, err := br.ReadName()
		if err != nil {
			return nil, err
		}
		kindByte, err := br.ReadU8()
		if err != nil {
			return nil, err
		}
		missing, err := br.ReadF64()
		if err != nil {
			return nil, err
		}
		var bitfield odb.BitfieldDescriptor
		if odb.ColumnKind(kindByte) == odb.Bitfield {
			bitfield, err = readBitfield(br)
			if err != nil {
				return nil, err
			}
		}
		schema[j] = ColumnDescriptor{Name: name, Kind: odb.ColumnKind(kindByte), Missing: missing, Bitfield: bitfield}

		tag, err := br.ReadU8()
		if err != nil {
			return nil, err
		}
		tags[j] = tag
		c, err := codec.ParseHeader(tag, br, schema[j].info(), nil)
		if err != nil {
			return nil, err
		}
		columns[j] = c
	}

	for j := range schema {
		if tags[j] != codec.TagIntString {
			continue
		}
		dict := intern.New()
		if err := dict.Load(br); err != nil {
			return nil, err
		}
		if binder, ok := columns[j].(codec.DictionaryBinder); ok {
			binder.BindDictionary(dict)
		}
	}

	skip := make([]bool, columnCount)
	for j, col := range schema {
		skip[j] = skipColumns[col.Name]
	}

	return &Reader{
		br:              br,
		schema:          schema,
		columns:         columns,
		skip:            skip,
		rowCount:        rowCount,
		prevFrameOffset: prevOffset,
		prefixBytes:     bootstrap.BytesConsumed(),
	}, nil
}

// Header returns the frame's schema.
func (r *Reader) Header() Schema { return r.schema }

// RowCount returns the number of rows the header declares.
func (r *Reader) RowCount() int { return int(r.rowCount) }

// PreviousFrameOffset returns the back-link recorded in this frame's
// header, or -1 if this was the stream's first frame.
func (r *Reader) PreviousFrameOffset() int64 { return r.prevFrameOffset }

// BytesConsumed reports how many bytes of the underlying source this
// frame (header and however much of the body has been read) has
// consumed.
func (r *Reader) BytesConsumed() int64 { return r.prefixBytes + r.br.BytesConsumed() }

// NextRow decodes the next row into buf, which must have one slot per
// schema column. It returns false (with a nil error) once every row
// declared in the header has been read.
func (r *Reader) NextRow(buf []codec.CellValue) (bool, error) {
	if r.nextRow >= r.rowCount {
		return false, nil
	}
	if len(buf) != len(r.schema) {
		return false, fmt.Errorf("%w: row buffer has %d cells, schema has %d columns", odb.ErrSchemaMismatch, len(buf), len(r.schema))
	}
	for j, c := range r.columns {
		v, err := c.Decode(r.br)
		if err != nil {
			return false, err
		}
		if r.skip[j] {
			buf[j] = codec.CellValue{}
			continue
		}
		buf[j] = v
	}
	r.nextRow++
	return true, nil
}

// SkipToEnd discards any remaining rows without decoding them, by
// reading and discarding each column's exact byte width. Used by
// callers that only need this frame's header (e.g. a reverse-traversal
// tool walking previous_frame_offset links) or by stream.Reader.SkipFrame.
func (r *Reader) SkipToEnd() error {
	for r.nextRow < r.rowCount {
		for _, c := range r.columns {
			if c.Width() > 0 {
				if _, err := r.br.ReadBytes(c.Width()); err != nil {
					return err
				}
			}
		}
		r.nextRow++
	}
	return nil
}

func readBitfield(r *byteorder.Reader) (odb.BitfieldDescriptor, error) {
	count, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative bitfield count %d", odb.ErrFormat, count)
	}
	fields := make(odb.BitfieldDescriptor, count)
	for i := range fields {
		name, err := r.ReadName()
		if err != nil {
			return nil, err
		}
		width, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		fields[i] = odb.BitfieldField{Name: name, Width: int(width)}
	}
	return fields, nil
}
