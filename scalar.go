// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import (
	"unsafe"

	"github.com/colstore/colblock/internal/invariants"
)

// Scalar is a constraint permitting the fixed-size integer types a
// ScalarBlock can hold: the byte, short, int and long specializations.
type Scalar interface {
	~int8 | ~int16 | ~int32 | ~int64
}

func scalarEncoding[T Scalar]() Encoding {
	var zero T
	switch unsafe.Sizeof(zero) {
	case 1:
		return EncodingInt8
	case 2:
		return EncodingInt16
	case 4:
		return EncodingInt32
	case 8:
		return EncodingInt64
	default:
		panic("unreachable")
	}
}

// ScalarBlock is a flat array of fixed-size scalars. Regions are zero-copy
// views: every view wraps the full backing array and addresses it through a
// position offset, so the array's identity is stable across views.
type ScalarBlock[T Scalar] struct {
	// values is the full backing array, shared by all views of it. The
	// block's addressable window is values[off : off+count].
	values []T
	off    int
	count  int
}

// Assert that *ScalarBlock implements Block for each specialization.
var (
	_ Block = (*ScalarBlock[int8])(nil)
	_ Block = (*ScalarBlock[int16])(nil)
	_ Block = (*ScalarBlock[int32])(nil)
	_ Block = (*ScalarBlock[int64])(nil)
)

// NewScalarBlock constructs a ScalarBlock owning the provided values.
func NewScalarBlock[T Scalar](values []T) *ScalarBlock[T] {
	return &ScalarBlock[T]{values: values, count: len(values)}
}

// Encoding implements Block.
func (b *ScalarBlock[T]) Encoding() Encoding { return scalarEncoding[T]() }

// Len implements Block.
func (b *ScalarBlock[T]) Len() int { return b.count }

// At returns the value at position i. Bounds are checked only in invariants
// builds.
func (b *ScalarBlock[T]) At(i int) T {
	invariants.CheckBounds(i, b.count)
	return b.values[b.off+i]
}

// SizeInBytes implements Block.
func (b *ScalarBlock[T]) SizeInBytes() uint64 {
	return b.RegionSizeInBytes(0, b.count)
}

// RegionSizeInBytes implements Block.
func (b *ScalarBlock[T]) RegionSizeInBytes(offset, length int) uint64 {
	checkRange(offset, length, b.count)
	var zero T
	return uint64(length) * uint64(unsafe.Sizeof(zero))
}

// RetainedSizeInBytes implements Block.
func (b *ScalarBlock[T]) RetainedSizeInBytes() uint64 {
	return uint64(unsafe.Sizeof(*b)) + sliceSizeOf(b.values)
}

// ForEachRetained implements Block.
func (b *ScalarBlock[T]) ForEachRetained(fn RetainedFn) {
	fn(unsafe.Pointer(b), uint64(unsafe.Sizeof(*b)))
	visitSlice(fn, b.values)
}

// Region implements Block. The result is a zero-copy view sharing the
// receiver's backing array.
func (b *ScalarBlock[T]) Region(offset, length int) (Block, error) {
	if err := checkRegion(offset, length, b.count); err != nil {
		return nil, err
	}
	return &ScalarBlock[T]{values: b.values, off: b.off + offset, count: length}, nil
}

// ScalarBuilder accumulates fixed-size scalars into a ScalarBlock. The
// backing array doubles from a 256-byte floor as values are appended.
type ScalarBuilder[T Scalar] struct {
	builderState
	status *BuilderStatus
	values []T
}

// Assert that *ScalarBuilder implements BlockBuilder.
var _ BlockBuilder = (*ScalarBuilder[int64])(nil)

// NewScalarBuilder constructs a ScalarBuilder. status may be nil;
// capacityHint, if positive, pre-sizes the backing array.
func NewScalarBuilder[T Scalar](status *BuilderStatus, capacityHint int) *ScalarBuilder[T] {
	b := &ScalarBuilder[T]{status: status}
	if capacityHint > 0 {
		b.values = make([]T, 0, capacityHint)
	}
	return b
}

// Len implements BlockBuilder.
func (b *ScalarBuilder[T]) Len() int { return len(b.values) }

// SizeInBytes implements BlockBuilder.
func (b *ScalarBuilder[T]) SizeInBytes() uint64 {
	var zero T
	return uint64(len(b.values)) * uint64(unsafe.Sizeof(zero))
}

// Append appends a value.
func (b *ScalarBuilder[T]) Append(v T) {
	b.assertWritable()
	if len(b.values) == cap(b.values) {
		b.grow(len(b.values) + 1)
	}
	b.values = append(b.values, v)
	b.status.AddBytes(int(unsafe.Sizeof(v)))
}

func (b *ScalarBuilder[T]) grow(n int) {
	var zero T
	n2 := max(2*cap(b.values), 256/int(unsafe.Sizeof(zero)))
	for n2 < n {
		n2 <<= 1
	}
	values := make([]T, len(b.values), n2)
	copy(values, b.values)
	b.values = values
}

// Build implements BlockBuilder. The emitted block takes exclusive
// ownership of the backing array; Reset before appending again.
func (b *ScalarBuilder[T]) Build() Block {
	b.finish()
	n := len(b.values)
	return &ScalarBlock[T]{values: b.values[:n:n], count: n}
}

// Reset implements BlockBuilder, starting a fresh backing array.
func (b *ScalarBuilder[T]) Reset() {
	b.builderState.reset()
	b.values = nil
}
