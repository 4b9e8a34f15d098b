// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import "github.com/cockroachdb/errors"

// BlockBuilder is a mutable, append-only accumulator of positions that
// yields an immutable Block. Typed append operations are defined on the
// concrete builder types. A builder is mutated by exactly one owner and is
// not safe for concurrent use.
//
// Build finalizes the current backing store into a Block. The emitted block
// owns that store exclusively: further writes through the builder before a
// Reset would violate the block's immutability and panic with an assertion
// failure. Reset starts a fresh backing store, after which the builder may
// be reused.
type BlockBuilder interface {
	// Len returns the number of positions appended so far.
	Len() int
	// SizeInBytes returns a running estimate of the built block's size, for
	// memory-budget feedback during accumulation.
	SizeInBytes() uint64
	// Build finalizes the accumulated positions into an immutable Block.
	Build() Block
	// Reset abandons the current backing store and starts a fresh one.
	Reset()
}

// BuilderStatus receives byte-growth notifications from builders it is
// attached to. It is a write-only sink from the builder's perspective; the
// owner reads the accumulated total for memory budgeting. A nil
// *BuilderStatus discards notifications.
type BuilderStatus struct {
	bytes int64
}

// AddBytes records n additional bytes of accumulated data.
func (s *BuilderStatus) AddBytes(n int) {
	if s != nil {
		s.bytes += int64(n)
	}
}

// Bytes returns the total bytes recorded so far.
func (s *BuilderStatus) Bytes() int64 {
	if s == nil {
		return 0
	}
	return s.bytes
}

// builderState tracks whether a builder has emitted its block. Embedded by
// every concrete builder.
type builderState struct {
	finished bool
}

func (s *builderState) assertWritable() {
	if s.finished {
		panic(errors.AssertionFailedf("colblock: builder used after Build without Reset"))
	}
}

func (s *builderState) finish() {
	s.assertWritable()
	s.finished = true
}

func (s *builderState) reset() {
	s.finished = false
}
