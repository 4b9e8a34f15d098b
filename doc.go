// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package colblock provides immutable, positionally-indexed in-memory
// containers ("blocks") for the values of a single logical column, under a
// closed set of physical encodings: fixed-width and variable-width flat
// encodings, typed scalar arrays, dictionary and run-length encodings, an
// interleaved row-major multi-channel encoding, nested arrays, and a raw
// boxed-object encoding.
//
// Blocks are built single-threaded through append-only builders and are
// immutable once built, making all read operations safe for unsynchronized
// concurrent use.
//
// # Memory accounting
//
// The package's central concern is accounting for the memory a block keeps
// alive, even when backing storage is shared between blocks (a dictionary's
// value block referenced by many dictionary blocks, or a region view sharing
// its source's backing arrays). Every block supports two accounting
// operations:
//
//   - RetainedSizeInBytes reports the total bytes the block keeps alive,
//     assuming it alone existed. Shared children are counted in full by each
//     of their parents.
//   - ForEachRetained visits every distinct retained object reachable from
//     the block exactly once, with that object's own exclusive size. Callers
//     deduplicate across blocks by object identity, typically with a Parts
//     accumulator.
//
// # Regions
//
// Region extracts a sub-range of positions. Depending on the encoding the
// result is either a zero-copy view (a new wrapper over the same backing
// arrays, adjusted by a position offset) or a materializing copy (fresh
// backing storage holding only the requested range). Views keep the full
// backing alive; copies retain only their own storage. See each encoding's
// Region documentation for its policy.
package colblock
