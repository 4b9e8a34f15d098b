// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/colstore/colblock/internal/invariants"
)

// DictionaryBlock stores each position as an integer id indexing into a
// dictionary block of distinct values. The dictionary is typically shared:
// many dictionary blocks may reference one value block, and each reports
// the full dictionary as retained. Regions are zero-copy views sharing both
// the dictionary and the id array.
type DictionaryBlock struct {
	dict Block
	// ids is the full id array, shared by all views; the addressable window
	// is ids[off : off+count].
	ids   []int32
	off   int
	count int
}

var _ Block = (*DictionaryBlock)(nil)

// NewDictionaryBlock constructs a DictionaryBlock over dict with one id per
// position. The id array is owned by the new block; the dictionary may be
// shared with other blocks. Ids must index into dict; they are validated
// only in invariants builds.
func NewDictionaryBlock(dict Block, ids []int32) *DictionaryBlock {
	if invariants.Enabled {
		for _, id := range ids {
			if int(id) < 0 || int(id) >= dict.Len() {
				panic(errors.AssertionFailedf(
					"colblock: dictionary id %d out of range for %d-entry dictionary", id, dict.Len()))
			}
		}
	}
	n := len(ids)
	return &DictionaryBlock{dict: dict, ids: ids[:n:n], count: n}
}

// Encoding implements Block.
func (b *DictionaryBlock) Encoding() Encoding { return EncodingDictionary }

// Len implements Block.
func (b *DictionaryBlock) Len() int { return b.count }

// Dictionary returns the shared dictionary block.
func (b *DictionaryBlock) Dictionary() Block { return b.dict }

// ID returns the dictionary id at position i. Bounds are checked only in
// invariants builds.
func (b *DictionaryBlock) ID(i int) int {
	invariants.CheckBounds(i, b.count)
	return int(b.ids[b.off+i])
}

// SizeInBytes implements Block. The whole dictionary is charged regardless
// of which ids the block's positions reference.
func (b *DictionaryBlock) SizeInBytes() uint64 {
	return b.RegionSizeInBytes(0, b.count)
}

// RegionSizeInBytes implements Block.
func (b *DictionaryBlock) RegionSizeInBytes(offset, length int) uint64 {
	checkRange(offset, length, b.count)
	return b.dict.SizeInBytes() + uint64(length)*uint64(unsafe.Sizeof(int32(0)))
}

// RetainedSizeInBytes implements Block. The shared dictionary is counted in
// full: this is what the block alone keeps alive.
func (b *DictionaryBlock) RetainedSizeInBytes() uint64 {
	return uint64(unsafe.Sizeof(*b)) + sliceSizeOf(b.ids) + b.dict.RetainedSizeInBytes()
}

// ForEachRetained implements Block, recursing into the dictionary.
func (b *DictionaryBlock) ForEachRetained(fn RetainedFn) {
	fn(unsafe.Pointer(b), uint64(unsafe.Sizeof(*b)))
	visitSlice(fn, b.ids)
	b.dict.ForEachRetained(fn)
}

// Region implements Block. The result is a zero-copy view sharing the
// receiver's dictionary and id array.
func (b *DictionaryBlock) Region(offset, length int) (Block, error) {
	if err := checkRegion(offset, length, b.count); err != nil {
		return nil, err
	}
	return &DictionaryBlock{dict: b.dict, ids: b.ids, off: b.off + offset, count: length}, nil
}
