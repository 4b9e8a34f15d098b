// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/colstore/colblock/internal/invariants"
)

// NestedArrayBlock holds one variable-length array per position. Element
// values across all positions are flattened into a single child block;
// entry boundaries are recorded as offsets into it. Regions are zero-copy
// views sharing the offset table and the element block.
type NestedArrayBlock struct {
	// values holds the flattened elements of every entry.
	values Block
	// offsets[off+i] and offsets[off+i+1] bound entry i within values. The
	// table is the full backing array, shared by all views.
	offsets []int32
	off     int
	count   int
}

var _ Block = (*NestedArrayBlock)(nil)

// Encoding implements Block.
func (b *NestedArrayBlock) Encoding() Encoding { return EncodingNestedArray }

// Len implements Block.
func (b *NestedArrayBlock) Len() int { return b.count }

// Values returns the flattened element block.
func (b *NestedArrayBlock) Values() Block { return b.values }

// EntryLen returns the number of elements in the entry at position i.
// Bounds are checked only in invariants builds.
func (b *NestedArrayBlock) EntryLen(i int) int {
	invariants.CheckBounds(i, b.count)
	return int(b.offsets[b.off+i+1] - b.offsets[b.off+i])
}

// Entry returns the entry at position i as a region of the element block,
// following the element encoding's copy-or-view policy.
func (b *NestedArrayBlock) Entry(i int) (Block, error) {
	if err := checkRegion(i, 1, b.count); err != nil {
		return nil, err
	}
	start := int(b.offsets[b.off+i])
	return b.values.Region(start, int(b.offsets[b.off+i+1])-start)
}

// SizeInBytes implements Block.
func (b *NestedArrayBlock) SizeInBytes() uint64 {
	return b.RegionSizeInBytes(0, b.count)
}

// RegionSizeInBytes implements Block.
func (b *NestedArrayBlock) RegionSizeInBytes(offset, length int) uint64 {
	checkRange(offset, length, b.count)
	start := int(b.offsets[b.off+offset])
	span := int(b.offsets[b.off+offset+length]) - start
	return uint64(length+1)*offsetSize + b.values.RegionSizeInBytes(start, span)
}

// RetainedSizeInBytes implements Block.
func (b *NestedArrayBlock) RetainedSizeInBytes() uint64 {
	return uint64(unsafe.Sizeof(*b)) + sliceSizeOf(b.offsets) + b.values.RetainedSizeInBytes()
}

// ForEachRetained implements Block, recursing into the element block.
func (b *NestedArrayBlock) ForEachRetained(fn RetainedFn) {
	fn(unsafe.Pointer(b), uint64(unsafe.Sizeof(*b)))
	visitSlice(fn, b.offsets)
	b.values.ForEachRetained(fn)
}

// Region implements Block. The result is a zero-copy view sharing the
// receiver's offset table and element block.
func (b *NestedArrayBlock) Region(offset, length int) (Block, error) {
	if err := checkRegion(offset, length, b.count); err != nil {
		return nil, err
	}
	return &NestedArrayBlock{
		values:  b.values,
		offsets: b.offsets,
		off:     b.off + offset,
		count:   length,
	}, nil
}

// NestedArrayBuilder accumulates variable-length array entries. Elements
// are appended to an inner builder between BeginEntry and EndEntry calls;
// each EndEntry closes one position.
type NestedArrayBuilder struct {
	builderState
	values  BlockBuilder
	status  *BuilderStatus
	offsets []int32
	inEntry bool
}

var _ BlockBuilder = (*NestedArrayBuilder)(nil)

// NewNestedArrayBuilder constructs a NestedArrayBuilder whose entry
// elements accumulate in values. status may be nil.
func NewNestedArrayBuilder(values BlockBuilder, status *BuilderStatus) *NestedArrayBuilder {
	return &NestedArrayBuilder{values: values, status: status, offsets: make([]int32, 1)}
}

// Len implements BlockBuilder, returning the number of closed entries.
func (b *NestedArrayBuilder) Len() int { return len(b.offsets) - 1 }

// SizeInBytes implements BlockBuilder.
func (b *NestedArrayBuilder) SizeInBytes() uint64 {
	return uint64(len(b.offsets))*offsetSize + b.values.SizeInBytes()
}

// BeginEntry opens the next entry and returns the inner builder to append
// its elements to.
func (b *NestedArrayBuilder) BeginEntry() BlockBuilder {
	b.assertWritable()
	if b.inEntry {
		panic(errors.AssertionFailedf("colblock: BeginEntry inside an open entry"))
	}
	b.inEntry = true
	return b.values
}

// EndEntry closes the current entry.
func (b *NestedArrayBuilder) EndEntry() {
	b.assertWritable()
	if !b.inEntry {
		panic(errors.AssertionFailedf("colblock: EndEntry without BeginEntry"))
	}
	b.inEntry = false
	b.offsets = append(b.offsets, int32(b.values.Len()))
	b.status.AddBytes(int(offsetSize))
}

// Build implements BlockBuilder. Panics if an entry is still open.
func (b *NestedArrayBuilder) Build() Block {
	if b.inEntry {
		panic(errors.AssertionFailedf("colblock: Build with an open entry"))
	}
	b.finish()
	n := len(b.offsets)
	return &NestedArrayBlock{
		values:  b.values.Build(),
		offsets: b.offsets[:n:n],
		count:   n - 1,
	}
}

// Reset implements BlockBuilder, starting fresh backing stores for the
// entries and their elements.
func (b *NestedArrayBuilder) Reset() {
	b.builderState.reset()
	b.values.Reset()
	b.offsets = make([]int32, 1)
	b.inEntry = false
}
