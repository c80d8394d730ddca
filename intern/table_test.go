// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package intern

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solidcoredata/odb/byteorder"
)

func TestStoreAssignsStableIDs(t *testing.T) {
	tab := NewSize(17)
	tab.Store("alpha")
	tab.Store("beta")
	tab.Store("alpha")
	tab.Store("gamma")

	id, ok := tab.FindID("alpha")
	require.True(t, ok)
	require.Equal(t, int32(0), id)

	id, ok = tab.FindID("beta")
	require.True(t, ok)
	require.Equal(t, int32(1), id)

	id, ok = tab.FindID("gamma")
	require.True(t, ok)
	require.Equal(t, int32(2), id)

	require.Equal(t, 3, tab.Len())

	_, ok = tab.FindID("delta")
	require.False(t, ok)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tab := NewSize(17)
	for _, s := range []string{"red", "green", "blue", "red", "green", "red"} {
		tab.Store(s)
	}

	buf := &bytes.Buffer{}
	w := byteorder.NewWriter(buf, byteorder.Host)
	require.NoError(t, tab.Save(w))

	loaded := NewSize(17)
	r := byteorder.NewReader(buf, byteorder.Host)
	require.NoError(t, loaded.Load(r))

	require.Equal(t, tab.NextID(), loaded.NextID())
	for id := int32(0); id < tab.NextID(); id++ {
		want, ok := tab.Text(id)
		require.True(t, ok)
		got, ok := loaded.Text(id)
		require.True(t, ok)
		require.Equal(t, want, got)
	}

	redID, ok := loaded.FindID("red")
	require.True(t, ok)
	wantRedID, _ := tab.FindID("red")
	require.Equal(t, wantRedID, redID)
}

func TestEmptyTableSaveLoad(t *testing.T) {
	tab := NewSize(17)
	buf := &bytes.Buffer{}
	w := byteorder.NewWriter(buf, byteorder.Host)
	require.NoError(t, tab.Save(w))

	loaded := NewSize(17)
	r := byteorder.NewReader(buf, byteorder.Host)
	require.NoError(t, loaded.Load(r))
	require.Equal(t, int32(0), loaded.NextID())
	require.Equal(t, 0, loaded.Len())
}

func TestClonedTableResetsOnFirstStore(t *testing.T) {
	tab := NewSize(17)
	tab.Store("one")
	tab.Store("two")

	clone := tab.Clone()
	require.Equal(t, tab.Len(), clone.Len())
	id, ok := clone.FindID("one")
	require.True(t, ok)
	require.Equal(t, int32(0), id)

	// First store on the clone resets it to empty before inserting,
	// so "one" is no longer findable afterwards.
	clone.Store("three")
	require.Equal(t, 1, clone.Len())
	_, ok = clone.FindID("one")
	require.False(t, ok)
	id, ok = clone.FindID("three")
	require.True(t, ok)
	require.Equal(t, int32(0), id)

	// The origin is untouched by the clone's reset.
	require.Equal(t, 2, tab.Len())
	_, ok = tab.FindID("one")
	require.True(t, ok)
}

func TestHashDistributesAcrossBuckets(t *testing.T) {
	// Not a correctness requirement on a specific bucket, just a smoke
	// test that distinct short strings don't all collide into bucket 0.
	buckets := int32(DefaultBuckets)
	seen := map[int32]bool{}
	for _, s := range []string{"a", "bb", "ccc", "dddd", "station", "obs_id", "pressure"} {
		seen[hash(s, buckets)] = true
	}
	require.Greater(t, len(seen), 1)
}
