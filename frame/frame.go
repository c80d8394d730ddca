// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

// magic is the fixed 8-byte literal opening every frame, matching the
// legacy format so new readers interoperate with existing files.
const magic = "ODBFRAME"

// NoPreviousFrame is the previous_frame_offset value written for a
// stream's first frame, per spec.md §9 Open Question (c). Exported so
// odb/stream can seed a fresh chain when it opens a new underlying
// output.
const NoPreviousFrame int64 = -1

const noPreviousFrame = NoPreviousFrame
