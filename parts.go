// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import "unsafe"

// Parts accumulates a retained-size breakdown keyed by object identity.
// Feed it the traversals of one or more blocks via Visit (which satisfies
// RetainedFn) and it records, per distinct object, the object's size and
// how many traversals reached it. Objects shared between blocks show a hit
// count equal to the number of retaining roots; Total sums every visit
// without deduplication, matching the sum of the fed blocks'
// RetainedSizeInBytes.
//
// Parts is not safe for concurrent use.
type Parts struct {
	entries map[unsafe.Pointer]partEntry
	order   []unsafe.Pointer
	total   uint64
}

type partEntry struct {
	size uint64
	hits int
}

// Visit records one retained object. It has the RetainedFn signature and is
// intended to be passed to Block.ForEachRetained as a method value.
func (p *Parts) Visit(ptr unsafe.Pointer, size uint64) {
	if p.entries == nil {
		p.entries = make(map[unsafe.Pointer]partEntry)
	}
	e, ok := p.entries[ptr]
	if !ok {
		p.order = append(p.order, ptr)
	}
	e.size = size
	e.hits++
	p.entries[ptr] = e
	p.total += size
}

// Total returns the sum of sizes over every visit, without deduplication.
func (p *Parts) Total() uint64 {
	return p.total
}

// Distinct returns the number of distinct objects visited.
func (p *Parts) Distinct() int {
	return len(p.order)
}

// Hits returns how many visits recorded the object with the given identity,
// or zero if it was never visited.
func (p *Parts) Hits(ptr unsafe.Pointer) int {
	return p.entries[ptr].hits
}

// Size returns the recorded exclusive size of the object with the given
// identity, or zero if it was never visited.
func (p *Parts) Size(ptr unsafe.Pointer) uint64 {
	return p.entries[ptr].size
}

// Remove drops the object with the given identity from the accumulator,
// returning its hit count. Visit totals are not adjusted.
func (p *Parts) Remove(ptr unsafe.Pointer) int {
	e, ok := p.entries[ptr]
	if !ok {
		return 0
	}
	delete(p.entries, ptr)
	for i := range p.order {
		if p.order[i] == ptr {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return e.hits
}

// ForEach invokes fn for every distinct object in visit order.
func (p *Parts) ForEach(fn func(ptr unsafe.Pointer, size uint64, hits int)) {
	for _, ptr := range p.order {
		e := p.entries[ptr]
		fn(ptr, e.size, e.hits)
	}
}

// Reset clears the accumulator for reuse.
func (p *Parts) Reset() {
	clear(p.entries)
	p.order = p.order[:0]
	p.total = 0
}
