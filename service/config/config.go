// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config exposes odbtool's frame-engine tuning flags: how many
// rows a stream.Writer buffers before an automatic flush, how many
// buckets an intern.Table allocates, and which byte order new frames
// are written in.
package config

import (
	"context"
	"flag"
	"fmt"

	"github.com/solidcoredata/odb/byteorder"
)

var (
	batchRows     = flag.Int("batch-rows", 4096, "target number of rows buffered per frame before an automatic flush")
	internBuckets = flag.Int("intern-buckets", 65537, "bucket count for new string intern tables")
	byteOrderName = flag.String("byte-order", "host", "byte order new frames are written in: host or swapped")
)

// BatchRows returns the configured target-rows-per-frame.
func BatchRows() int { return *batchRows }

// InternBuckets returns the configured intern-table bucket count.
func InternBuckets() int { return *internBuckets }

// ByteOrder resolves the configured byte order, or an error if the
// flag names neither recognised order.
func ByteOrder() (byteorder.Order, error) {
	switch *byteOrderName {
	case "host", "":
		return byteorder.Host, nil
	case "swapped":
		return byteorder.Swapped, nil
	default:
		return nil, fmt.Errorf("config: unknown -byte-order %q, want host or swapped", *byteOrderName)
	}
}

// Run validates the tuning flags, then blocks until ctx is cancelled.
// It participates in cmd/odbtool's errgroup the same way the
// teacher's directory-backed config service did, except there is no
// background directory watch to perform: an invalid flag combination
// is the only failure mode, and it is caught here instead of
// surfacing mid-stream once odbtool is already running.
func Run(ctx context.Context) error {
	if *batchRows < 0 {
		return fmt.Errorf("config: -batch-rows must be >= 0, got %d", *batchRows)
	}
	if *internBuckets <= 0 {
		return fmt.Errorf("config: -intern-buckets must be > 0, got %d", *internBuckets)
	}
	if _, err := ByteOrder(); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}
