// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package intern implements the per-frame string intern table of
// spec.md §3/§4.2: a bounded-capacity, open-addressed hash table that
// assigns dense integer ids to distinct strings within one frame.
//
// The hash recurrence and the cloned-on-write guard are grounded
// directly on the original ODB engine's HashTable (see
// original_source/src/odb_api/HashTable.cc in the retrieval pack):
// same chained-bucket layout, same accumulate-and-mask hash, same
// "cloned tables reset themselves on first store" semantics that let a
// frame reader inherit a writer's table without risking a mutation
// leaking back into it.
package intern

import (
	"fmt"

	"github.com/solidcoredata/odb"
	"github.com/solidcoredata/odb/byteorder"
)

// DefaultBuckets is the bucket count used when a Table is constructed
// with New, matching the legacy engine's SIZE constant.
const DefaultBuckets = 65537

type record struct {
	text     string
	refcount int32
	id       int32
	next     *record
}

// Table is a per-frame string-to-id dictionary. The zero value is not
// usable; construct with New or NewSize.
type Table struct {
	buckets   []*record
	nextID    int32
	dense     []string
	refcounts []int32
	cloned    bool
}

// New returns an empty Table with the default bucket count.
func New() *Table {
	return NewSize(DefaultBuckets)
}

// NewSize returns an empty Table with the given bucket count. Tests
// use a small bucket count to exercise chain collisions cheaply.
func NewSize(buckets int) *Table {
	if buckets <= 0 {
		buckets = DefaultBuckets
	}
	return &Table{buckets: make([]*record, buckets)}
}

func (t *Table) bucketCount() int32 { return int32(len(t.buckets)) }

// hash implements spec.md §3's hash function: iterate bytes b,
// accumulate n = low32(n + low32((b-'A') + low32(n<<5))), correct for
// negative accumulators by adding a multiple of the bucket count,
// return n mod buckets.
//
// Each low32 application clears the high 32 bits of the accumulator,
// so in practice n never goes negative through the loop; the
// correction step is kept to match the legacy engine's defensive code
// path verbatim rather than relying on that being true for every
// possible future arithmetic tweak.
func hash(name string, buckets int32) int32 {
	n := int64(0)
	for i := 0; i < len(name); i++ {
		b := int64(name[i])
		n = low32(n + low32((b-'A')+low32(n<<5)))
	}
	if n < 0 {
		m := (-n) / int64(buckets)
		n = low32(n + low32(low32(m+1)*int64(buckets)))
	}
	return int32(n % int64(buckets))
}

func low32(n int64) int64 {
	return n & 0xffffffff
}

// reset clears the table to empty, used both by Load before it
// rebuilds the table and by the cloned copy-on-write guard.
func (t *Table) reset() {
	for i := range t.buckets {
		t.buckets[i] = nil
	}
	t.dense = t.dense[:0]
	t.refcounts = t.refcounts[:0]
	t.nextID = 0
	t.cloned = false
}

// Store inserts text if not already present, assigning it the next
// dense id, or increments its refcount if it is already present. If
// the table is a clone that has not yet been written to, the first
// Store call resets it to empty first (the copy-on-write guard of
// spec.md §3).
func (t *Table) Store(text string) {
	if t.cloned {
		t.reset()
	}
	idx := hash(text, t.bucketCount())
	for r := t.buckets[idx]; r != nil; r = r.next {
		if r.text == text {
			r.refcount++
			t.refcounts[r.id]++
			return
		}
	}
	id := t.nextID
	t.nextID++
	r := &record{text: text, refcount: 1, id: id, next: t.buckets[idx]}
	t.buckets[idx] = r
	t.dense = append(t.dense, text)
	t.refcounts = append(t.refcounts, 1)
}

// FindID returns the dense id assigned to text, if any.
func (t *Table) FindID(text string) (int32, bool) {
	idx := hash(text, t.bucketCount())
	for r := t.buckets[idx]; r != nil; r = r.next {
		if r.text == text {
			return r.id, true
		}
	}
	return 0, false
}

// Text returns the string assigned to id, the inverse of FindID, used
// by decoders to resolve an int_string cell's id.
func (t *Table) Text(id int32) (string, bool) {
	if id < 0 || int(id) >= len(t.dense) {
		return "", false
	}
	return t.dense[id], true
}

// Len returns the number of distinct strings stored.
func (t *Table) Len() int { return len(t.dense) }

// NextID returns the id that would be assigned to the next distinct
// string stored.
func (t *Table) NextID() int32 { return t.nextID }

// Clone returns a copy of t marked cloned: the copy observationally
// equals t (same Len, same FindID results) until the first Store call
// on the copy, at which point it resets to empty per the
// copy-on-write guard, so a mutation of the copy never leaks back
// into the original. (frame.Reader does not use Clone: it builds each
// dictionary with New and Load.)
func (t *Table) Clone() *Table {
	c := &Table{
		buckets:   make([]*record, len(t.buckets)),
		nextID:    t.nextID,
		dense:     append([]string(nil), t.dense...),
		refcounts: append([]int32(nil), t.refcounts...),
		cloned:    true,
	}
	for i, r := range t.buckets {
		c.buckets[i] = cloneChain(r)
	}
	return c
}

func cloneChain(r *record) *record {
	if r == nil {
		return nil
	}
	return &record{text: r.text, refcount: r.refcount, id: r.id, next: cloneChain(r.next)}
}

// Save writes the table's dictionary to w in the on-disk format of
// spec.md §6: next_id, then for each entry (len, bytes, refcount, id)
// in id order.
func (t *Table) Save(w *byteorder.Writer) error {
	if err := w.WriteI32(t.nextID); err != nil {
		return err
	}
	for id := int32(0); id < t.nextID; id++ {
		if err := w.WriteName(t.dense[id]); err != nil {
			return err
		}
		if err := w.WriteI32(t.refcounts[id]); err != nil {
			return err
		}
		if err := w.WriteI32(id); err != nil {
			return err
		}
	}
	return nil
}

// Load replaces the table's contents by reading the dictionary format
// written by Save, rebuilding both the dense vector and the hash
// buckets (so FindID and further Store calls work on a loaded table).
func (t *Table) Load(r *byteorder.Reader) error {
	t.reset()
	n, err := r.ReadI32()
	if err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: negative intern next_id %d", odb.ErrFormat, n)
	}
	t.nextID = n
	t.dense = make([]string, n)
	t.refcounts = make([]int32, n)
	for i := int32(0); i < n; i++ {
		text, err := r.ReadName()
		if err != nil {
			return err
		}
		cnt, err := r.ReadI32()
		if err != nil {
			return err
		}
		id, err := r.ReadI32()
		if err != nil {
			return err
		}
		if id < 0 || id >= n {
			return fmt.Errorf("%w: intern id %d out of range [0,%d)", odb.ErrInternIDOutOfRange, id, n)
		}
		t.dense[id] = text
		t.refcounts[id] = cnt
		idx := hash(text, t.bucketCount())
		t.buckets[idx] = &record{text: text, refcount: cnt, id: id, next: t.buckets[idx]}
	}
	return nil
}
