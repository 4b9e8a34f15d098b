// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import (
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestScalarRegionValues(t *testing.T) {
	b := buildScalarBlock[int32](expectedEntries).(*ScalarBlock[int32])
	r, err := b.Region(25, 50)
	require.NoError(t, err)
	require.Equal(t, 50, r.Len())
	rb := r.(*ScalarBlock[int32])
	for i := 0; i < 50; i++ {
		require.Equal(t, b.At(25+i), rb.At(i))
	}

	// A region of a region composes offsets.
	rr, err := rb.Region(10, 5)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.Equal(t, b.At(35+i), rr.(*ScalarBlock[int32]).At(i))
	}
}

func TestFixedWidthRegionValues(t *testing.T) {
	b := buildDoubleBlock(expectedEntries).(*FixedWidthBlock)
	r, err := b.Region(0, 50)
	require.NoError(t, err)
	rb := r.(*FixedWidthBlock)
	require.Equal(t, b.EntryWidth(), rb.EntryWidth())
	for i := 0; i < 50; i++ {
		require.Equal(t, b.At(i), rb.At(i))
	}
}

func TestVariableWidthRegionValues(t *testing.T) {
	b := buildStringBlock(expectedEntries).(*VariableWidthBlock)
	r, err := b.Region(30, 40)
	require.NoError(t, err)
	rb := r.(*VariableWidthBlock)
	require.Equal(t, 40, rb.Len())
	for i := 0; i < 40; i++ {
		require.Equal(t, b.At(30+i), rb.At(i))
	}
	// The copy's own size reflects only the requested entries.
	require.Equal(t, b.RegionSizeInBytes(30, 40), rb.SizeInBytes())
}

func TestObjectArrayRegionValues(t *testing.T) {
	b := buildStringObjectBlock(expectedEntries)
	r, err := b.Region(10, 20)
	require.NoError(t, err)
	rb := r.(*ObjectArrayBlock)
	for i := 0; i < 20; i++ {
		require.Equal(t, b.At(10+i), rb.At(i))
	}
}

func TestDictionaryRegionValues(t *testing.T) {
	dict := buildStringBlock(10)
	ids := make([]int32, expectedEntries)
	for i := range ids {
		ids[i] = int32(i % 10)
	}
	b := NewDictionaryBlock(dict, ids)
	r, err := b.Region(15, 30)
	require.NoError(t, err)
	rb := r.(*DictionaryBlock)
	// The dictionary is the same shared instance, not a copy.
	require.Same(t, dict, rb.Dictionary())
	for i := 0; i < 30; i++ {
		require.Equal(t, b.ID(15+i), rb.ID(i))
	}
}

func TestRunLengthRegionValues(t *testing.T) {
	value := buildScalarBlock[int64](1)
	b, err := NewRunLengthBlock(value, expectedEntries)
	require.NoError(t, err)
	r, err := b.Region(10, 40)
	require.NoError(t, err)
	rb := r.(*RunLengthBlock)
	require.Equal(t, 40, rb.Len())
	require.Same(t, value, rb.Value())
}

func TestInterleavedRegionValues(t *testing.T) {
	backing := NewScalarBuilder[int32](nil, expectedEntries)
	ib, err := NewInterleavedBuilder(2, backing)
	require.NoError(t, err)
	for i := 0; i < expectedEntries; i++ {
		backing.Append(int32(i))
	}
	b, err := ib.Build()
	require.NoError(t, err)

	blk := b.(*InterleavedBlock)
	for _, bad := range [][2]int{{21, 50}, {20, 51}} {
		_, err := blk.Region(bad[0], bad[1])
		require.Error(t, err)
		require.ErrorIs(t, err, ErrPartialRow)
	}

	r, err := blk.Region(20, 60)
	require.NoError(t, err)
	rb := r.(*InterleavedBlock)
	require.Equal(t, 2, rb.Channels())
	require.Equal(t, 30, rb.Rows())
	src := blk.Backing().(*ScalarBlock[int32])
	dst := rb.Backing().(*ScalarBlock[int32])
	for i := 0; i < 60; i++ {
		require.Equal(t, src.At(blk.BackingIndex(20+i)), dst.At(rb.BackingIndex(i)))
	}
}

func TestNestedArrayRegionValues(t *testing.T) {
	elems := NewScalarBuilder[int64](nil, 0)
	b := NewNestedArrayBuilder(elems, nil)
	for i := 0; i < 20; i++ {
		inner := b.BeginEntry().(*ScalarBuilder[int64])
		for j := 0; j <= i%3; j++ {
			inner.Append(int64(10*i + j))
		}
		b.EndEntry()
	}
	blk := b.Build().(*NestedArrayBlock)

	r, err := blk.Region(5, 10)
	require.NoError(t, err)
	rb := r.(*NestedArrayBlock)
	for i := 0; i < 10; i++ {
		require.Equal(t, blk.EntryLen(5+i), rb.EntryLen(i))
		want, err := blk.Entry(5 + i)
		require.NoError(t, err)
		got, err := rb.Entry(i)
		require.NoError(t, err)
		require.Equal(t, want.Len(), got.Len())
		for j := 0; j < want.Len(); j++ {
			require.Equal(t, want.(*ScalarBlock[int64]).At(j), got.(*ScalarBlock[int64]).At(j))
		}
	}
}

func TestRegionBounds(t *testing.T) {
	blocks := []Block{
		buildScalarBlock[int64](expectedEntries),
		buildDoubleBlock(expectedEntries),
		buildStringBlock(expectedEntries),
		buildStringObjectBlock(expectedEntries),
	}
	for _, b := range blocks {
		for _, bad := range [][2]int{{-1, 10}, {0, -1}, {90, 20}, {expectedEntries, 1}} {
			_, err := b.Region(bad[0], bad[1])
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrIndexOutOfRange), "%v", err)
		}
		// The full range and the empty ranges at both ends are valid.
		for _, ok := range [][2]int{{0, expectedEntries}, {0, 0}, {expectedEntries, 0}} {
			_, err := b.Region(ok[0], ok[1])
			require.NoError(t, err)
		}
	}
}

func TestEmptyRegion(t *testing.T) {
	blocks := []struct {
		b            Block
		regionCopies bool
	}{
		{buildScalarBlock[int16](expectedEntries), false},
		{buildStringBlock(expectedEntries), true},
		{buildStringObjectBlock(expectedEntries), false},
	}
	for _, tc := range blocks {
		r, err := tc.b.Region(0, 0)
		require.NoError(t, err)
		require.Equal(t, 0, r.Len())
		var parts Parts
		r.ForEachRetained(parts.Visit)
		require.Equal(t, r.RetainedSizeInBytes(), parts.Total())
		if tc.regionCopies {
			// A materialized empty region drops the source's storage.
			require.Less(t, r.RetainedSizeInBytes(), tc.b.RetainedSizeInBytes())
		} else {
			// A view still pins the full backing storage.
			require.Equal(t, tc.b.RetainedSizeInBytes(), r.RetainedSizeInBytes())
		}
	}
}

func TestRegionValuesAfterSplit(t *testing.T) {
	b := buildStringBlock(expectedEntries).(*VariableWidthBlock)
	for _, k := range []int{0, 1, 17, 50, expectedEntries} {
		r, err := b.Region(0, k)
		require.NoError(t, err)
		rb := r.(*VariableWidthBlock)
		for i := 0; i < k; i++ {
			require.Equal(t, strconv.Itoa(i), string(rb.At(i)))
		}
	}
}
