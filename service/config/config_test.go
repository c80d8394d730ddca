// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/solidcoredata/odb/byteorder"
)

func TestByteOrderDefaultsToHost(t *testing.T) {
	o, err := ByteOrder()
	if err != nil {
		t.Fatal(err)
	}
	if o != byteorder.Host {
		t.Fatalf("want host order by default, got %v", o)
	}
}

func TestByteOrderRejectsUnknownName(t *testing.T) {
	old := *byteOrderName
	defer func() { *byteOrderName = old }()

	*byteOrderName = "nonsense"
	if _, err := ByteOrder(); err == nil {
		t.Fatal("want error for unknown byte order name")
	}
}
