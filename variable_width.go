// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import (
	"unsafe"

	"github.com/colstore/colblock/internal/invariants"
)

// offsetSize is the per-entry cost of the int32 offset tables used by the
// variable-width and nested-array encodings.
const offsetSize = uint64(unsafe.Sizeof(int32(0)))

// VariableWidthBlock holds one variable-length byte entry per position as a
// concatenated data buffer plus an offset table of Len()+1 entries, the
// layout used for byte-string columns throughout this package.
//
// Unlike the fixed-width encodings, regions are materializing copies: a
// sub-range compacts to a strictly smaller data buffer, so the region
// allocates fresh backing storage holding only the requested entries and
// shares nothing with its source.
type VariableWidthBlock struct {
	data []byte
	// offsets[i] and offsets[i+1] bound entry i within data; offsets[0] is
	// always zero.
	offsets []int32
}

var _ Block = (*VariableWidthBlock)(nil)

// Encoding implements Block.
func (b *VariableWidthBlock) Encoding() Encoding { return EncodingVariableWidth }

// Len implements Block.
func (b *VariableWidthBlock) Len() int { return len(b.offsets) - 1 }

// At returns the entry at position i. The returned slice aliases the
// block's backing array and must not be mutated. Bounds are checked only in
// invariants builds.
func (b *VariableWidthBlock) At(i int) []byte {
	invariants.CheckBounds(i, b.Len())
	return b.data[b.offsets[i]:b.offsets[i+1]]
}

// SizeInBytes implements Block.
func (b *VariableWidthBlock) SizeInBytes() uint64 {
	return b.RegionSizeInBytes(0, b.Len())
}

// RegionSizeInBytes implements Block.
func (b *VariableWidthBlock) RegionSizeInBytes(offset, length int) uint64 {
	checkRange(offset, length, b.Len())
	span := uint64(b.offsets[offset+length] - b.offsets[offset])
	return span + uint64(length+1)*offsetSize
}

// RetainedSizeInBytes implements Block.
func (b *VariableWidthBlock) RetainedSizeInBytes() uint64 {
	return uint64(unsafe.Sizeof(*b)) + sliceSizeOf(b.data) + sliceSizeOf(b.offsets)
}

// ForEachRetained implements Block.
func (b *VariableWidthBlock) ForEachRetained(fn RetainedFn) {
	fn(unsafe.Pointer(b), uint64(unsafe.Sizeof(*b)))
	visitSlice(fn, b.data)
	visitSlice(fn, b.offsets)
}

// Region implements Block. The result is a materializing copy owning
// independent backing storage.
func (b *VariableWidthBlock) Region(offset, length int) (Block, error) {
	if err := checkRegion(offset, length, b.Len()); err != nil {
		return nil, err
	}
	base := b.offsets[offset]
	data := make([]byte, b.offsets[offset+length]-base)
	copy(data, b.data[base:])
	offsets := make([]int32, length+1)
	for i := range offsets {
		offsets[i] = b.offsets[offset+i] - base
	}
	return &VariableWidthBlock{data: data, offsets: offsets}, nil
}

// VariableWidthBuilder accumulates variable-length byte entries into a
// VariableWidthBlock. Entries are concatenated into a single data buffer
// with a running offset table, so per-entry overhead is one int32.
type VariableWidthBuilder struct {
	builderState
	status  *BuilderStatus
	data    []byte
	offsets []int32
}

var _ BlockBuilder = (*VariableWidthBuilder)(nil)

// NewVariableWidthBuilder constructs a VariableWidthBuilder. status may be
// nil. capacityHint, if positive, pre-sizes the offset table in entries;
// data grows by appending.
func NewVariableWidthBuilder(status *BuilderStatus, capacityHint int) *VariableWidthBuilder {
	b := &VariableWidthBuilder{status: status}
	b.offsets = make([]int32, 1, max(capacityHint+1, 1))
	return b
}

// Len implements BlockBuilder.
func (b *VariableWidthBuilder) Len() int { return len(b.offsets) - 1 }

// SizeInBytes implements BlockBuilder.
func (b *VariableWidthBuilder) SizeInBytes() uint64 {
	return uint64(len(b.data)) + uint64(len(b.offsets))*offsetSize
}

// Append appends one entry, copying v into the builder's data buffer.
func (b *VariableWidthBuilder) Append(v []byte) {
	b.assertWritable()
	b.data = append(b.data, v...)
	b.offsets = append(b.offsets, int32(len(b.data)))
	b.status.AddBytes(len(v) + int(offsetSize))
}

// AppendString appends one entry from a string.
func (b *VariableWidthBuilder) AppendString(s string) {
	b.assertWritable()
	b.data = append(b.data, s...)
	b.offsets = append(b.offsets, int32(len(b.data)))
	b.status.AddBytes(len(s) + int(offsetSize))
}

// Build implements BlockBuilder.
func (b *VariableWidthBuilder) Build() Block {
	b.finish()
	nd, no := len(b.data), len(b.offsets)
	return &VariableWidthBlock{data: b.data[:nd:nd], offsets: b.offsets[:no:no]}
}

// Reset implements BlockBuilder, starting a fresh backing store.
func (b *VariableWidthBuilder) Reset() {
	b.builderState.reset()
	b.data = nil
	b.offsets = make([]int32, 1)
}
