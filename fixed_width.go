// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/colstore/colblock/internal/invariants"
)

// FixedWidthBlock is a flat byte array holding one entryWidth-byte entry per
// position. Regions are zero-copy views over the same backing array.
type FixedWidthBlock struct {
	entryWidth int
	// data is the full backing array; the addressable window is entries
	// [off, off+count).
	data  []byte
	off   int
	count int
}

var _ Block = (*FixedWidthBlock)(nil)

// NewFixedWidthBlock constructs a FixedWidthBlock owning data, which must
// hold a whole number of entryWidth-byte entries.
func NewFixedWidthBlock(entryWidth int, data []byte) (*FixedWidthBlock, error) {
	if entryWidth <= 0 {
		return nil, errors.Newf("colblock: non-positive entry width %d", entryWidth)
	}
	if len(data)%entryWidth != 0 {
		return nil, errors.Newf("colblock: %d data bytes do not divide into %d-byte entries",
			len(data), entryWidth)
	}
	return &FixedWidthBlock{
		entryWidth: entryWidth,
		data:       data,
		count:      len(data) / entryWidth,
	}, nil
}

// Encoding implements Block.
func (b *FixedWidthBlock) Encoding() Encoding { return EncodingFixedWidth }

// Len implements Block.
func (b *FixedWidthBlock) Len() int { return b.count }

// EntryWidth returns the width in bytes of each entry.
func (b *FixedWidthBlock) EntryWidth() int { return b.entryWidth }

// At returns the entry at position i. The returned slice aliases the
// block's backing array and must not be mutated. Bounds are checked only in
// invariants builds.
func (b *FixedWidthBlock) At(i int) []byte {
	invariants.CheckBounds(i, b.count)
	start := (b.off + i) * b.entryWidth
	return b.data[start : start+b.entryWidth]
}

// SizeInBytes implements Block.
func (b *FixedWidthBlock) SizeInBytes() uint64 {
	return b.RegionSizeInBytes(0, b.count)
}

// RegionSizeInBytes implements Block.
func (b *FixedWidthBlock) RegionSizeInBytes(offset, length int) uint64 {
	checkRange(offset, length, b.count)
	return uint64(length) * uint64(b.entryWidth)
}

// RetainedSizeInBytes implements Block.
func (b *FixedWidthBlock) RetainedSizeInBytes() uint64 {
	return uint64(unsafe.Sizeof(*b)) + sliceSizeOf(b.data)
}

// ForEachRetained implements Block.
func (b *FixedWidthBlock) ForEachRetained(fn RetainedFn) {
	fn(unsafe.Pointer(b), uint64(unsafe.Sizeof(*b)))
	visitSlice(fn, b.data)
}

// Region implements Block. The result is a zero-copy view sharing the
// receiver's backing array.
func (b *FixedWidthBlock) Region(offset, length int) (Block, error) {
	if err := checkRegion(offset, length, b.count); err != nil {
		return nil, err
	}
	return &FixedWidthBlock{
		entryWidth: b.entryWidth,
		data:       b.data,
		off:        b.off + offset,
		count:      length,
	}, nil
}

// FixedWidthBuilder accumulates equal-width entries into a FixedWidthBlock.
type FixedWidthBuilder struct {
	builderState
	entryWidth int
	status     *BuilderStatus
	data       []byte
	count      int
}

var _ BlockBuilder = (*FixedWidthBuilder)(nil)

// NewFixedWidthBuilder constructs a FixedWidthBuilder for entryWidth-byte
// entries. status may be nil; capacityHint, if positive, pre-sizes the
// backing array in entries.
func NewFixedWidthBuilder(entryWidth int, status *BuilderStatus, capacityHint int) *FixedWidthBuilder {
	b := &FixedWidthBuilder{entryWidth: entryWidth, status: status}
	if capacityHint > 0 {
		b.data = make([]byte, 0, capacityHint*entryWidth)
	}
	return b
}

// Len implements BlockBuilder.
func (b *FixedWidthBuilder) Len() int { return b.count }

// SizeInBytes implements BlockBuilder.
func (b *FixedWidthBuilder) SizeInBytes() uint64 { return uint64(len(b.data)) }

// Append appends one entry. Appending an entry whose length differs from
// the builder's entry width returns an error marked ErrValueWidth.
func (b *FixedWidthBuilder) Append(entry []byte) error {
	b.assertWritable()
	if len(entry) != b.entryWidth {
		return errors.Wrapf(ErrValueWidth, "%d-byte entry in %d-byte fixed-width builder",
			len(entry), b.entryWidth)
	}
	b.data = append(b.data, entry...)
	b.count++
	b.status.AddBytes(b.entryWidth)
	return nil
}

// Build implements BlockBuilder.
func (b *FixedWidthBuilder) Build() Block {
	b.finish()
	n := len(b.data)
	return &FixedWidthBlock{
		entryWidth: b.entryWidth,
		data:       b.data[:n:n],
		count:      b.count,
	}
}

// Reset implements BlockBuilder, starting a fresh backing array.
func (b *FixedWidthBuilder) Reset() {
	b.builderState.reset()
	b.data = nil
	b.count = 0
}
