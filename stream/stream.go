// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stream chains frame.Writer/frame.Reader pairs into a
// continuous sequence of frames sharing one underlying byte stream,
// per spec.md §4.6. Unlike a single frame, a stream may carry more
// than one schema over its life; the columnar layout still demands
// every individual frame be schema-uniform, so a schema change forces
// a frame boundary rather than being encoded within a frame.
package stream
