// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command odbtool dumps, validates, or rewrites an ODB frame stream file.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"github.com/solidcoredata/odb/frame"
	"github.com/solidcoredata/odb/service/config"
	"github.com/solidcoredata/odb/stream"
)

var mode = flag.String("mode", "dump", "dump, validate, or copy")
var path = flag.String("path", "", "path to an ODB frame stream file")
var outPath = flag.String("out", "", "path to write, for -mode copy")

func main() {
	flag.Parse()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal(err)
	}
}

// run fans config.Run (a long-lived flag-validation service) out
// alongside the one-shot dump/validate/copy work, the same supervisory
// shape the teacher's internal/start.RunAll used: an errgroup.Group
// whose derived context every goroutine shares. odbtool isn't a
// daemon, so the work goroutine cancels ctx once it finishes; without
// that, config.Run's <-ctx.Done() wait would block Wait forever on a
// clean exit.
func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return config.Run(ctx) })
	group.Go(func() error {
		err := runTool(ctx)
		cancel()
		return err
	})
	return group.Wait()
}

func runTool(ctx context.Context) error {
	if len(*path) == 0 {
		return fmt.Errorf("odbtool: -path is required")
	}
	f, err := os.Open(*path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch *mode {
	case "dump":
		return dump(f)
	case "validate":
		return validate(ctx, f)
	case "copy":
		return copyStream(f)
	default:
		return fmt.Errorf("odbtool: unknown -mode %q, want dump, validate, or copy", *mode)
	}
}

// dump walks every frame in the stream, printing a line each time the
// schema changes and a final row count.
func dump(f *os.File) error {
	r := stream.NewReader(f, nil)
	r.OnSchemaChange(func(s frame.Schema) {
		names := make([]string, len(s))
		for i, col := range s {
			names[i] = col.Name
		}
		fmt.Printf("schema: %v\n", names)
	})

	rows := 0
	for {
		_, ok, err := r.NextRow()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		rows++
	}
	fmt.Printf("%s: %d row(s)\n", *path, rows)
	return nil
}

func validate(ctx context.Context, f *os.File) error {
	if err := stream.ValidateSources(ctx, []io.Reader{f}, nil); err != nil {
		return err
	}
	fmt.Printf("%s: ok\n", *path)
	return nil
}

// copyStream re-encodes every frame of f into -out, using the
// byte order and batch-rows tuning from service/config to build the
// destination stream.Writer rather than mirroring the source frame's
// own choices. A schema change in the source forces stream.Writer to
// seal and roll a frame on the destination the same way it would for
// a live writer, so -batch-rows and -byte-order do real work here
// instead of sitting validated-but-unused.
func copyStream(f *os.File) error {
	if len(*outPath) == 0 {
		return fmt.Errorf("odbtool: -out is required for -mode copy")
	}
	order, err := config.ByteOrder()
	if err != nil {
		return err
	}

	out, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	bw := bufio.NewWriter(out)

	sr := stream.NewReader(f, nil)
	sw := stream.NewWriter(bw, order, config.BatchRows())
	sw.InternBuckets = config.InternBuckets()

	rows := 0
	for {
		row, ok, err := sr.NextRow()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if err := sw.WriteRow(sr.Schema(), row); err != nil {
			return err
		}
		rows++
	}
	if err := sw.Close(); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	fmt.Printf("%s: copied %d row(s) to %s\n", *path, rows, *outPath)
	return nil
}
