// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import (
	"encoding/binary"
	"math"
	"reflect"
	"strconv"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

const expectedEntries = 100

func blockIdentity(b Block) unsafe.Pointer {
	return reflect.ValueOf(b).UnsafePointer()
}

// checkRetainedSize verifies the accounting conservation and split
// conservation properties for a block: the breakdown traversal's sizes sum
// to RetainedSizeInBytes, and after extracting a region of half the
// positions, every distinct non-root object is seen exactly twice across
// both traversals for view-style regions and exactly once for
// materializing-copy regions. The two block roots are each seen exactly
// once.
func checkRetainedSize(t *testing.T, b Block, regionCopies bool) {
	t.Helper()

	var parts Parts
	b.ForEachRetained(parts.Visit)
	require.Equal(t, b.RetainedSizeInBytes(), parts.Total())

	r, err := b.Region(0, b.Len()/2)
	require.NoError(t, err)
	r.ForEachRetained(parts.Visit)
	require.Equal(t, b.RetainedSizeInBytes()+r.RetainedSizeInBytes(), parts.Total())

	require.Equal(t, 1, parts.Remove(blockIdentity(b)))
	require.Equal(t, 1, parts.Remove(blockIdentity(r)))
	wantHits := 2
	if regionCopies {
		wantHits = 1
	}
	parts.ForEach(func(_ unsafe.Pointer, _ uint64, hits int) {
		require.Equal(t, wantHits, hits)
	})
}

func buildScalarBlock[T Scalar](n int) Block {
	b := NewScalarBuilder[T](new(BuilderStatus), n)
	for i := 0; i < n; i++ {
		b.Append(T(i))
	}
	return b.Build()
}

func TestScalarBlockRetained(t *testing.T) {
	t.Run("int8", func(t *testing.T) {
		checkRetainedSize(t, buildScalarBlock[int8](expectedEntries), false)
	})
	t.Run("int16", func(t *testing.T) {
		checkRetainedSize(t, buildScalarBlock[int16](expectedEntries), false)
	})
	t.Run("int32", func(t *testing.T) {
		checkRetainedSize(t, buildScalarBlock[int32](expectedEntries), false)
	})
	t.Run("int64", func(t *testing.T) {
		checkRetainedSize(t, buildScalarBlock[int64](expectedEntries), false)
	})
}

func buildDoubleBlock(n int) Block {
	b := NewFixedWidthBuilder(8, new(BuilderStatus), n)
	var entry [8]byte
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint64(entry[:], math.Float64bits(float64(i)))
		if err := b.Append(entry[:]); err != nil {
			panic(err)
		}
	}
	return b.Build()
}

func TestFixedWidthBlockRetained(t *testing.T) {
	checkRetainedSize(t, buildDoubleBlock(expectedEntries), false)
}

func buildStringBlock(n int) Block {
	b := NewVariableWidthBuilder(new(BuilderStatus), n)
	for i := 0; i < n; i++ {
		b.AppendString(strconv.Itoa(i))
	}
	return b.Build()
}

func TestVariableWidthBlockRetained(t *testing.T) {
	checkRetainedSize(t, buildStringBlock(expectedEntries), true)
}

func buildStringObjectBlock(n int) *ObjectArrayBlock {
	values := make([][]byte, n)
	for i := range values {
		values[i] = []byte(strconv.Itoa(i))
	}
	return NewObjectArrayBlock(values)
}

func TestObjectArrayBlockRetained(t *testing.T) {
	checkRetainedSize(t, buildStringObjectBlock(expectedEntries), false)
}

func TestDictionaryBlockRetained(t *testing.T) {
	dict := buildStringObjectBlock(expectedEntries)
	ids := make([]int32, expectedEntries)
	for i := range ids {
		ids[i] = int32(i)
	}
	checkRetainedSize(t, NewDictionaryBlock(dict, ids), false)
}

func TestRunLengthBlockRetained(t *testing.T) {
	b, err := NewRunLengthBlock(buildScalarBlock[int64](1), expectedEntries)
	require.NoError(t, err)
	checkRetainedSize(t, b, false)
}

func TestInterleavedBlockRetained(t *testing.T) {
	t.Run("scalar-backing", func(t *testing.T) {
		backing := NewScalarBuilder[int32](new(BuilderStatus), expectedEntries)
		ib, err := NewInterleavedBuilder(2, backing)
		require.NoError(t, err)
		for i := 0; i < expectedEntries; i++ {
			backing.Append(int32(i))
		}
		b, err := ib.Build()
		require.NoError(t, err)
		checkRetainedSize(t, b, false)
	})
	t.Run("bytes-backing", func(t *testing.T) {
		backing := NewVariableWidthBuilder(new(BuilderStatus), expectedEntries)
		ib, err := NewInterleavedBuilder(2, backing)
		require.NoError(t, err)
		for i := 0; i < expectedEntries; i++ {
			backing.AppendString(strconv.Itoa(i))
		}
		b, err := ib.Build()
		require.NoError(t, err)
		checkRetainedSize(t, b, true)
	})
}

func TestNestedArrayBlockRetained(t *testing.T) {
	elems := NewScalarBuilder[int64](new(BuilderStatus), expectedEntries)
	b := NewNestedArrayBuilder(elems, new(BuilderStatus))
	for i := 0; i < expectedEntries; i++ {
		inner := b.BeginEntry().(*ScalarBuilder[int64])
		inner.Append(int64(i))
		b.EndEntry()
	}
	checkRetainedSize(t, b.Build(), false)
}

// TestTraversalVisitsOnce verifies that a single ForEachRetained call
// reports each reachable object exactly once, including an object-array
// element stored at two positions.
func TestTraversalVisitsOnce(t *testing.T) {
	shared := []byte("shared")
	blocks := []Block{
		buildScalarBlock[int32](expectedEntries),
		buildDoubleBlock(expectedEntries),
		buildStringBlock(expectedEntries),
		buildStringObjectBlock(expectedEntries),
		NewObjectArrayBlock([][]byte{shared, shared, []byte("solo")}),
	}
	for _, b := range blocks {
		var parts Parts
		b.ForEachRetained(parts.Visit)
		parts.ForEach(func(_ unsafe.Pointer, _ uint64, hits int) {
			require.Equal(t, 1, hits)
		})
	}
}

// TestRetainedNotBelowSize verifies that a freshly built block, which
// shares no storage, retains at least its logical size.
func TestRetainedNotBelowSize(t *testing.T) {
	blocks := []Block{
		buildScalarBlock[int64](expectedEntries),
		buildDoubleBlock(expectedEntries),
		buildStringBlock(expectedEntries),
		buildStringObjectBlock(expectedEntries),
	}
	for _, b := range blocks {
		require.GreaterOrEqual(t, b.RetainedSizeInBytes(), b.SizeInBytes())
	}
}

// TestSharedElementRetained verifies that an element stored at two
// positions of an object-array block is charged once in the aggregate.
func TestSharedElementRetained(t *testing.T) {
	shared := []byte("shared")
	b := NewObjectArrayBlock([][]byte{shared, shared})
	var parts Parts
	b.ForEachRetained(parts.Visit)
	require.Equal(t, b.RetainedSizeInBytes(), parts.Total())
	// Wrapper, element array, and one distinct element.
	require.Equal(t, 3, parts.Distinct())
}
