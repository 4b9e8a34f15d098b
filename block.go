// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
	"github.com/colstore/colblock/internal/invariants"
)

// Encoding identifies the physical encoding of a Block.
type Encoding uint8

const (
	// EncodingInvalid represents an unset or invalid encoding.
	EncodingInvalid Encoding = 0
	// EncodingInt8 is a flat array of 1-byte scalars.
	EncodingInt8 Encoding = 1
	// EncodingInt16 is a flat array of 2-byte scalars.
	EncodingInt16 Encoding = 2
	// EncodingInt32 is a flat array of 4-byte scalars.
	EncodingInt32 Encoding = 3
	// EncodingInt64 is a flat array of 8-byte scalars.
	EncodingInt64 Encoding = 4
	// EncodingFixedWidth is a flat byte array of equal-width entries.
	EncodingFixedWidth Encoding = 5
	// EncodingVariableWidth is a concatenated byte buffer with an offset
	// table, one variable-length entry per position.
	EncodingVariableWidth Encoding = 6
	// EncodingObjectArray is an array of individually-allocated boxed byte
	// slices, one per position.
	EncodingObjectArray Encoding = 7
	// EncodingDictionary stores positions as integer ids indexing into a
	// shared dictionary block.
	EncodingDictionary Encoding = 8
	// EncodingRunLength is a single value logically repeated for the block's
	// position count.
	EncodingRunLength Encoding = 9
	// EncodingInterleaved interleaves a fixed number of channels row-major
	// over a flat backing block.
	EncodingInterleaved Encoding = 10
	// EncodingNestedArray is a block of variable-length arrays, with entry
	// boundaries recorded as offsets into a flattened element block.
	EncodingNestedArray Encoding = 11

	encodingsCount Encoding = 12
)

var encodingName [encodingsCount]string = [encodingsCount]string{
	EncodingInvalid:       "invalid",
	EncodingInt8:          "int8",
	EncodingInt16:         "int16",
	EncodingInt32:         "int32",
	EncodingInt64:         "int64",
	EncodingFixedWidth:    "fixed",
	EncodingVariableWidth: "bytes",
	EncodingObjectArray:   "object",
	EncodingDictionary:    "dictionary",
	EncodingRunLength:     "rle",
	EncodingInterleaved:   "interleaved",
	EncodingNestedArray:   "array",
}

// String returns a human-readable string representation of the encoding.
func (e Encoding) String() string {
	return encodingName[e]
}

// SafeFormat implements redact.SafeFormatter.
func (e Encoding) SafeFormat(w redact.SafePrinter, _ rune) {
	w.SafeString(redact.SafeString(encodingName[e]))
}

// RetainedFn is invoked by ForEachRetained once per distinct retained object:
// ptr is the object's identity (the address of a block wrapper or of a
// backing array's first element) and size is the object's own exclusive size
// in bytes, not a cumulative total.
type RetainedFn func(ptr unsafe.Pointer, size uint64)

// Block is an immutable, positionally-indexed container for one column's
// values under some physical encoding. Value accessors are defined on the
// concrete encoding types; Block itself carries only the operations common
// to all encodings: position count, size queries, the retained-size
// breakdown traversal, and region extraction.
//
// A built Block is safe for unsynchronized concurrent reads.
type Block interface {
	// Encoding returns the block's physical encoding.
	Encoding() Encoding

	// Len returns the number of logical positions in the block.
	Len() int

	// SizeInBytes returns the bytes needed to represent only the currently
	// addressable positions if the block were materialized standalone. Data
	// outside the block's view, even if physically present in shared
	// storage, is excluded.
	SizeInBytes() uint64

	// RegionSizeInBytes returns the standalone size of the sub-range
	// [offset, offset+length), as SizeInBytes would report it for a
	// materialized region. The range must be within [0, Len()]; bounds are
	// checked only in invariants builds.
	RegionSizeInBytes(offset, length int) uint64

	// RetainedSizeInBytes returns the bytes of everything the block keeps
	// alive: its own wrapper, its backing arrays in full, and the full
	// retained size of every referenced child block, even when those
	// children are shared with other blocks. Two blocks sharing storage
	// each report the shared storage in full.
	RetainedSizeInBytes() uint64

	// ForEachRetained calls fn once for every distinct object retained by
	// the block, including the block wrapper itself, with each object's own
	// exclusive size. The traversal recurses into child blocks and never
	// deduplicates across separate calls; within a single call each
	// reachable object is visited exactly once.
	ForEachRetained(fn RetainedFn)

	// Region returns a block representing positions [offset, offset+length)
	// of the receiver, either as a zero-copy view or as a materializing
	// copy depending on the encoding. A range outside [0, Len()] results in
	// an error marked ErrIndexOutOfRange; length zero yields a valid empty
	// block of the same encoding.
	Region(offset, length int) (Block, error)
}

// checkRegion validates a Region range against a position count.
func checkRegion(offset, length, n int) error {
	if offset < 0 || length < 0 || offset+length > n {
		return errors.Wrapf(ErrIndexOutOfRange,
			"region [%d,%d) of block with %d positions", offset, offset+length, n)
	}
	return nil
}

// checkRange is the invariants-build counterpart of checkRegion, used on hot
// size-query paths where a contract violation is a programming error.
func checkRange(offset, length, n int) {
	if invariants.Enabled && (offset < 0 || length < 0 || offset+length > n) {
		panic(errors.AssertionFailedf(
			"colblock: range [%d,%d) out of bounds for %d positions", offset, offset+length, n))
	}
}

// sliceSizeOf returns the bytes retained by s's backing array. The slice
// header itself is part of whatever struct holds it.
func sliceSizeOf[T any](s []T) uint64 {
	var zero T
	return uint64(cap(s)) * uint64(unsafe.Sizeof(zero))
}

// visitSlice reports s's backing array to fn, keyed by the address of the
// array's first element. Zero-capacity slices retain nothing and are
// skipped; their identity would otherwise collapse to a single nil key.
func visitSlice[T any](fn RetainedFn, s []T) {
	if cap(s) == 0 {
		return
	}
	fn(unsafe.Pointer(unsafe.SliceData(s[:cap(s)])), sliceSizeOf(s))
}

// byteSliceHeaderSize is the per-element bookkeeping cost of storing a
// []byte, used when sizing boxed values and offset-table entries.
const byteSliceHeaderSize = uint64(unsafe.Sizeof([]byte(nil)))
