// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stream

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// ValidateSources reads every source to completion concurrently,
// decoding each row with its frame's own codec set, and reports the
// first error encountered across all of them (spec.md §3: "independent
// readers... may run in parallel", carried into odb/stream as a
// multi-source consistency check over errgroup.Group). A source that
// reads cleanly to its end contributes nil.
func ValidateSources(ctx context.Context, sources []io.Reader, skipColumns map[string]bool) error {
	group, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		group.Go(func() error {
			if err := validateOne(ctx, src, skipColumns); err != nil {
				return fmt.Errorf("source %d: %w", i, err)
			}
			return nil
		})
	}
	return group.Wait()
}

func validateOne(ctx context.Context, src io.Reader, skipColumns map[string]bool) error {
	sr := NewReader(src, skipColumns)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, ok, err := sr.NextRow()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
}
