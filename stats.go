// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import (
	"unsafe"

	"github.com/cockroachdb/crlib/crhumanize"
	"github.com/cockroachdb/redact"
)

// CountAndSize tracks the count and total byte size of a set of retained
// objects.
type CountAndSize struct {
	Count uint64
	Bytes uint64
}

// Inc increases the count and size for a single object.
func (cs *CountAndSize) Inc(size uint64) {
	cs.Count++
	cs.Bytes += size
}

// String implements fmt.Stringer.
func (cs CountAndSize) String() string {
	return redact.StringWithoutMarkers(cs)
}

// SafeFormat implements redact.SafeFormatter.
func (cs CountAndSize) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%s (%s)",
		crhumanize.Count(cs.Count, crhumanize.Compact),
		crhumanize.Bytes(cs.Bytes, crhumanize.Compact, crhumanize.OmitI))
}

// BlockStats summarizes a block's memory footprint from a retained-size
// breakdown traversal.
type BlockStats struct {
	// Positions is the block's logical position count.
	Positions int
	// Objects counts the distinct retained objects reachable from the
	// block, with their deduplicated byte total.
	Objects CountAndSize
	// Logical is the block's SizeInBytes.
	Logical uint64
	// Retained is the block's RetainedSizeInBytes. For a single root this
	// equals Objects.Bytes; summed over several blocks it may exceed the
	// deduplicated total when they share storage.
	Retained uint64
}

// CollectStats computes BlockStats for a block.
func CollectStats(b Block) BlockStats {
	stats := BlockStats{
		Positions: b.Len(),
		Logical:   b.SizeInBytes(),
		Retained:  b.RetainedSizeInBytes(),
	}
	b.ForEachRetained(func(_ unsafe.Pointer, size uint64) {
		stats.Objects.Inc(size)
	})
	return stats
}

// String implements fmt.Stringer.
func (s BlockStats) String() string {
	return redact.StringWithoutMarkers(s)
}

// SafeFormat implements redact.SafeFormatter.
func (s BlockStats) SafeFormat(w redact.SafePrinter, _ rune) {
	w.Printf("%d positions; logical %s; %s retained across %s objects",
		redact.SafeInt(s.Positions),
		crhumanize.Bytes(s.Logical, crhumanize.Compact, crhumanize.OmitI),
		crhumanize.Bytes(s.Retained, crhumanize.Compact, crhumanize.OmitI),
		crhumanize.Count(s.Objects.Count, crhumanize.Compact))
}
