// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package byteorder

import (
	"fmt"
	"io"
	"math"

	"github.com/solidcoredata/odb"
)

// Writer serialises primitives to an io.Writer honouring a chosen
// Order. A write error from the underlying sink is returned wrapped in
// odb.ErrIO (its text kept, not its identity) — the writer does not
// retry or buffer past a failure.
type Writer struct {
	w     io.Writer
	order Order
	n     int64
	buf   [8]byte
}

// NewWriter wraps w, writing primitives in the given order.
func NewWriter(w io.Writer, order Order) *Writer {
	return &Writer{w: w, order: order}
}

// NewWriterAt wraps w like NewWriter, but seeds BytesWritten at
// startOffset instead of zero. Used when a logical writer (such as
// odb/stream's per-schema frame.Writer) picks up partway through bytes
// already flushed to w by an earlier writer over the same sink.
func NewWriterAt(w io.Writer, order Order, startOffset int64) *Writer {
	return &Writer{w: w, order: order, n: startOffset}
}

// Order reports the byte order this writer was constructed with.
func (w *Writer) Order() Order { return w.order }

// BytesWritten reports how many bytes have been written so far.
func (w *Writer) BytesWritten() int64 { return w.n }

func (w *Writer) write(b []byte) error {
	n, err := w.w.Write(b)
	w.n += int64(n)
	if err != nil {
		return fmt.Errorf("%w: %v", odb.ErrIO, err)
	}
	return nil
}

// WriteI8 writes one signed byte.
func (w *Writer) WriteI8(v int8) error {
	w.buf[0] = byte(v)
	return w.write(w.buf[:1])
}

// WriteU8 writes one unsigned byte.
func (w *Writer) WriteU8(v uint8) error {
	w.buf[0] = v
	return w.write(w.buf[:1])
}

// WriteI16 writes a signed 16-bit integer in the writer's order.
func (w *Writer) WriteI16(v int16) error {
	w.order.PutUint16(w.buf[:2], uint16(v))
	return w.write(w.buf[:2])
}

// WriteI32 writes a signed 32-bit integer in the writer's order.
func (w *Writer) WriteI32(v int32) error {
	w.order.PutUint32(w.buf[:4], uint32(v))
	return w.write(w.buf[:4])
}

// WriteI64 writes a signed 64-bit integer in the writer's order.
func (w *Writer) WriteI64(v int64) error {
	w.order.PutUint64(w.buf[:8], uint64(v))
	return w.write(w.buf[:8])
}

// WriteF32 writes a 32-bit float in the writer's order.
func (w *Writer) WriteF32(v float32) error {
	w.order.PutUint32(w.buf[:4], math.Float32bits(v))
	return w.write(w.buf[:4])
}

// WriteF64 writes a 64-bit float in the writer's order.
func (w *Writer) WriteF64(v float64) error {
	w.order.PutUint64(w.buf[:8], math.Float64bits(v))
	return w.write(w.buf[:8])
}

// WriteBytes writes raw bytes with no byte-order interpretation.
func (w *Writer) WriteBytes(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return w.write(b)
}

// WriteName writes the plain length-prefixed string used for header
// fields: a 4-byte length followed by the payload.
func (w *Writer) WriteName(s string) error {
	if err := w.WriteI32(int32(len(s))); err != nil {
		return err
	}
	return w.WriteBytes([]byte(s))
}

// WriteStringLiteral writes the flagged cell-level string format with
// the "new string" flag and a length-prefixed literal.
func (w *Writer) WriteStringLiteral(s string) error {
	if err := w.WriteU8(StringFlagLiteral); err != nil {
		return err
	}
	return w.WriteName(s)
}

// WriteStringRef writes the flagged cell-level string format with the
// "dictionary reference" flag and a dense id.
func (w *Writer) WriteStringRef(id int32) error {
	if err := w.WriteU8(StringFlagDictRef); err != nil {
		return err
	}
	return w.WriteI32(id)
}
