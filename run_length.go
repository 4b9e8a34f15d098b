// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import (
	"unsafe"

	"github.com/cockroachdb/errors"
)

// RunLengthBlock represents a single value logically repeated count times.
// The value is a child block of exactly one position. Regions allocate only
// a new wrapper referencing the same value block.
type RunLengthBlock struct {
	value Block
	count int
}

var _ Block = (*RunLengthBlock)(nil)

// NewRunLengthBlock constructs a RunLengthBlock repeating value's single
// position count times.
func NewRunLengthBlock(value Block, count int) (*RunLengthBlock, error) {
	if value == nil || value.Len() != 1 {
		return nil, errors.Newf("colblock: run-length value must hold exactly one position")
	}
	if count < 0 {
		return nil, errors.Newf("colblock: negative run length %d", count)
	}
	return &RunLengthBlock{value: value, count: count}, nil
}

// Encoding implements Block.
func (b *RunLengthBlock) Encoding() Encoding { return EncodingRunLength }

// Len implements Block.
func (b *RunLengthBlock) Len() int { return b.count }

// Value returns the single-position value block.
func (b *RunLengthBlock) Value() Block { return b.value }

// SizeInBytes implements Block. A run materializes to its single value plus
// the run length, so the size is that of the value block.
func (b *RunLengthBlock) SizeInBytes() uint64 {
	return b.value.SizeInBytes()
}

// RegionSizeInBytes implements Block.
func (b *RunLengthBlock) RegionSizeInBytes(offset, length int) uint64 {
	checkRange(offset, length, b.count)
	if length == 0 {
		return 0
	}
	return b.value.SizeInBytes()
}

// RetainedSizeInBytes implements Block.
func (b *RunLengthBlock) RetainedSizeInBytes() uint64 {
	return uint64(unsafe.Sizeof(*b)) + b.value.RetainedSizeInBytes()
}

// ForEachRetained implements Block, recursing into the value block.
func (b *RunLengthBlock) ForEachRetained(fn RetainedFn) {
	fn(unsafe.Pointer(b), uint64(unsafe.Sizeof(*b)))
	b.value.ForEachRetained(fn)
}

// Region implements Block. The result is a new wrapper referencing the same
// value block.
func (b *RunLengthBlock) Region(offset, length int) (Block, error) {
	if err := checkRegion(offset, length, b.count); err != nil {
		return nil, err
	}
	return &RunLengthBlock{value: b.value, count: length}, nil
}
