// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odb

import "errors"

// Error taxonomy (spec.md §7). Every layer wraps one of these with
// fmt.Errorf("...: %w", ...) at the point it is raised; callers use
// errors.Is to classify a failure.
var (
	// ErrIO indicates the underlying byte source/sink failed. Not
	// retryable by the core.
	ErrIO = errors.New("odb: io error")
	// ErrFormat indicates a magic mismatch, an implausible header
	// length, or a negative count in a frame header.
	ErrFormat = errors.New("odb: format error")
	// ErrUnknownCodecTag indicates a codec tag byte not present in the
	// catalogue.
	ErrUnknownCodecTag = errors.New("odb: unknown codec tag")
	// ErrCodecParamOutOfRange indicates a codec parameter that cannot
	// be satisfied, such as a narrowed-integer reference plus range
	// overflowing int64.
	ErrCodecParamOutOfRange = errors.New("odb: codec parameter out of range")
	// ErrInternIDOutOfRange indicates a decoded dictionary id outside
	// [0, next_id).
	ErrInternIDOutOfRange = errors.New("odb: intern id out of range")
	// ErrUnexpectedEndOfFrame indicates a short read, or a row/body
	// length mismatch against the header's promise.
	ErrUnexpectedEndOfFrame = errors.New("odb: unexpected end of frame")
	// ErrSchemaMismatch indicates a row whose column count differs
	// from the writer's current schema.
	ErrSchemaMismatch = errors.New("odb: schema mismatch")
)
