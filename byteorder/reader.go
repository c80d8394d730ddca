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

// Reader deserialises primitives from an io.Reader honouring a chosen
// Order. It keeps no state beyond the underlying reader, the order, a
// running count of bytes consumed and a scratch buffer, so it is cheap
// to construct per frame.
type Reader struct {
	r     io.Reader
	order Order
	n     int64 // bytes consumed so far
	buf   [8]byte
}

// NewReader wraps r, reading primitives in the given order.
func NewReader(r io.Reader, order Order) *Reader {
	return &Reader{r: r, order: order}
}

// Order reports the byte order this reader was constructed with.
func (r *Reader) Order() Order { return r.order }

// BytesConsumed reports how many bytes have been read so far.
func (r *Reader) BytesConsumed() int64 { return r.n }

func (r *Reader) fill(n int) ([]byte, error) {
	b := r.buf[:n]
	read, err := io.ReadFull(r.r, b)
	r.n += int64(read)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: short read wanted %d got %d", odb.ErrUnexpectedEndOfFrame, n, read)
		}
		return nil, fmt.Errorf("%w: %v", odb.ErrIO, err)
	}
	return b, nil
}

// ReadI8 reads one signed byte.
func (r *Reader) ReadI8() (int8, error) {
	b, err := r.fill(1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

// ReadU8 reads one unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.fill(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI16 reads a signed 16-bit integer in the reader's order.
func (r *Reader) ReadI16() (int16, error) {
	b, err := r.fill(2)
	if err != nil {
		return 0, err
	}
	return int16(r.order.Uint16(b)), nil
}

// ReadI32 reads a signed 32-bit integer in the reader's order.
func (r *Reader) ReadI32() (int32, error) {
	b, err := r.fill(4)
	if err != nil {
		return 0, err
	}
	return int32(r.order.Uint32(b)), nil
}

// ReadI64 reads a signed 64-bit integer in the reader's order.
func (r *Reader) ReadI64() (int64, error) {
	b, err := r.fill(8)
	if err != nil {
		return 0, err
	}
	return int64(r.order.Uint64(b)), nil
}

// ReadF32 reads a 32-bit float in the reader's order.
func (r *Reader) ReadF32() (float32, error) {
	b, err := r.fill(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(r.order.Uint32(b)), nil
}

// ReadF64 reads a 64-bit float in the reader's order.
func (r *Reader) ReadF64() (float64, error) {
	b, err := r.fill(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(r.order.Uint64(b)), nil
}

// ReadBytes reads n raw bytes with no byte-order interpretation.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(r.r, buf)
	r.n += int64(read)
	if err != nil {
		return nil, fmt.Errorf("%w: short read wanted %d got %d", odb.ErrUnexpectedEndOfFrame, n, read)
	}
	return buf, nil
}

// ReadName reads the plain length-prefixed string used for header
// fields: a 4-byte length followed by that many bytes of payload. Used
// for column names and intern-dictionary entries, which are never
// dictionary references themselves.
func (r *Reader) ReadName() (string, error) {
	n, err := r.ReadI32()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("%w: negative name length %d", odb.ErrFormat, n)
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// String flag values for the cell-level string format of §4.1.
const (
	StringFlagLiteral byte = 0
	StringFlagDictRef byte = 1
)

// ReadString reads the flagged cell-level string format: a 1-byte flag
// followed by either a length-prefixed literal or a 4-byte dense
// dictionary id. Exactly one of literal/isRef is meaningful in the
// result depending on which flag was read.
func (r *Reader) ReadString() (literal string, isRef bool, id int32, err error) {
	flag, err := r.ReadU8()
	if err != nil {
		return "", false, 0, err
	}
	switch flag {
	case StringFlagLiteral:
		s, err := r.ReadName()
		return s, false, 0, err
	case StringFlagDictRef:
		id, err := r.ReadI32()
		return "", true, id, err
	default:
		return "", false, 0, fmt.Errorf("%w: unknown string flag %d", odb.ErrFormat, flag)
	}
}
