// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import (
	"unsafe"

	"github.com/colstore/colblock/internal/invariants"
)

// ObjectArrayBlock holds one individually-allocated ("boxed") byte slice
// per position. Each element's backing storage is attributed individually
// by the retained-size protocol. Regions are zero-copy views sharing the
// element array, so a view keeps every element alive, addressable or not.
type ObjectArrayBlock struct {
	// values is the full element array, shared by all views. The block's
	// addressable window is values[off : off+count].
	values [][]byte
	off    int
	count  int
	// retained is fixed at construction. Views share the element array and
	// differ from their source only in the wrapper's offset and count, so
	// the value is carried over unchanged.
	retained uint64
}

var _ Block = (*ObjectArrayBlock)(nil)

// NewObjectArrayBlock constructs an ObjectArrayBlock owning the provided
// element array. The elements themselves may alias storage shared with
// other elements; repeated identities are counted once.
func NewObjectArrayBlock(values [][]byte) *ObjectArrayBlock {
	n := len(values)
	b := &ObjectArrayBlock{values: values[:n:n], count: n}
	b.retained = uint64(unsafe.Sizeof(*b)) + sliceSizeOf(b.values) + b.elementBytes()
	return b
}

// elementBytes sums the backing sizes of every element in the full array,
// deduplicated by identity.
func (b *ObjectArrayBlock) elementBytes() uint64 {
	var total uint64
	b.forEachElement(func(_ unsafe.Pointer, size uint64) {
		total += size
	})
	return total
}

// forEachElement visits each distinct element backing array once.
func (b *ObjectArrayBlock) forEachElement(fn RetainedFn) {
	seen := make(map[unsafe.Pointer]struct{}, len(b.values))
	for _, v := range b.values {
		if cap(v) == 0 {
			continue
		}
		ptr := unsafe.Pointer(unsafe.SliceData(v[:cap(v)]))
		if _, ok := seen[ptr]; ok {
			continue
		}
		seen[ptr] = struct{}{}
		fn(ptr, sliceSizeOf(v))
	}
}

// Encoding implements Block.
func (b *ObjectArrayBlock) Encoding() Encoding { return EncodingObjectArray }

// Len implements Block.
func (b *ObjectArrayBlock) Len() int { return b.count }

// At returns the element at position i. The returned slice aliases the
// element's storage and must not be mutated. Bounds are checked only in
// invariants builds.
func (b *ObjectArrayBlock) At(i int) []byte {
	invariants.CheckBounds(i, b.count)
	return b.values[b.off+i]
}

// SizeInBytes implements Block.
func (b *ObjectArrayBlock) SizeInBytes() uint64 {
	return b.RegionSizeInBytes(0, b.count)
}

// RegionSizeInBytes implements Block.
func (b *ObjectArrayBlock) RegionSizeInBytes(offset, length int) uint64 {
	checkRange(offset, length, b.count)
	total := uint64(length) * byteSliceHeaderSize
	for _, v := range b.values[b.off+offset : b.off+offset+length] {
		total += uint64(len(v))
	}
	return total
}

// RetainedSizeInBytes implements Block.
func (b *ObjectArrayBlock) RetainedSizeInBytes() uint64 { return b.retained }

// ForEachRetained implements Block. Every element of the full array is
// visited, not just the addressable window, since the array keeps them all
// alive.
func (b *ObjectArrayBlock) ForEachRetained(fn RetainedFn) {
	fn(unsafe.Pointer(b), uint64(unsafe.Sizeof(*b)))
	visitSlice(fn, b.values)
	b.forEachElement(fn)
}

// Region implements Block. The result is a zero-copy view sharing the
// receiver's element array.
func (b *ObjectArrayBlock) Region(offset, length int) (Block, error) {
	if err := checkRegion(offset, length, b.count); err != nil {
		return nil, err
	}
	r := *b
	r.off = b.off + offset
	r.count = length
	return &r, nil
}
