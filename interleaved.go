// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import (
	"unsafe"

	"github.com/cockroachdb/errors"
)

// InterleavedBlock interleaves a fixed number of channels row-major over a
// flat backing block: cell p belongs to channel p % Channels() of row
// p / Channels(). Len() counts cells, not rows.
//
// Regions must cover whole rows and follow the backing encoding's policy:
// over a view-style backing the region is a new wrapper sharing the same
// backing block instance with an adjusted cell window; over a copy-style
// backing (variable-width) the cells are materialized into fresh storage.
type InterleavedBlock struct {
	channels int
	// backing holds the row-major cells; the addressable window is backing
	// positions [off, off+count). The backing block instance is shared by
	// all views, keeping its identity stable for the retained breakdown.
	backing Block
	off     int
	count   int
}

var _ Block = (*InterleavedBlock)(nil)

// NewInterleavedBlock constructs an InterleavedBlock over backing, whose
// position count must be a whole number of channels-sized rows.
func NewInterleavedBlock(channels int, backing Block) (*InterleavedBlock, error) {
	if channels <= 0 {
		return nil, errors.Newf("colblock: non-positive channel count %d", channels)
	}
	if backing.Len()%channels != 0 {
		return nil, errors.Newf("colblock: %d backing positions do not divide into rows of %d channels",
			backing.Len(), channels)
	}
	return &InterleavedBlock{channels: channels, backing: backing, count: backing.Len()}, nil
}

// Encoding implements Block.
func (b *InterleavedBlock) Encoding() Encoding { return EncodingInterleaved }

// Len implements Block, returning the cell count.
func (b *InterleavedBlock) Len() int { return b.count }

// Channels returns the number of interleaved channels.
func (b *InterleavedBlock) Channels() int { return b.channels }

// Rows returns the number of whole rows.
func (b *InterleavedBlock) Rows() int { return b.count / b.channels }

// Backing returns the flat block holding the row-major cells. Use
// BackingIndex to translate cell positions: a view's window may start at a
// nonzero backing position.
func (b *InterleavedBlock) Backing() Block { return b.backing }

// BackingIndex returns the backing position holding cell i.
func (b *InterleavedBlock) BackingIndex(i int) int { return b.off + i }

// SizeInBytes implements Block.
func (b *InterleavedBlock) SizeInBytes() uint64 {
	return b.backing.RegionSizeInBytes(b.off, b.count)
}

// RegionSizeInBytes implements Block.
func (b *InterleavedBlock) RegionSizeInBytes(offset, length int) uint64 {
	checkRange(offset, length, b.count)
	return b.backing.RegionSizeInBytes(b.off+offset, length)
}

// RetainedSizeInBytes implements Block.
func (b *InterleavedBlock) RetainedSizeInBytes() uint64 {
	return uint64(unsafe.Sizeof(*b)) + b.backing.RetainedSizeInBytes()
}

// ForEachRetained implements Block, recursing into the backing block. A
// backing array shared by all channels is reported once.
func (b *InterleavedBlock) ForEachRetained(fn RetainedFn) {
	fn(unsafe.Pointer(b), uint64(unsafe.Sizeof(*b)))
	b.backing.ForEachRetained(fn)
}

// regionCopies reports whether the block's Region materializes fresh
// backing storage rather than returning a zero-copy view.
func regionCopies(b Block) bool {
	switch t := b.(type) {
	case *VariableWidthBlock:
		return true
	case *InterleavedBlock:
		return regionCopies(t.backing)
	default:
		return false
	}
}

// Region implements Block. The range must cover whole rows: offset and
// length that are not multiples of the channel count result in an error
// marked ErrPartialRow.
func (b *InterleavedBlock) Region(offset, length int) (Block, error) {
	if err := checkRegion(offset, length, b.count); err != nil {
		return nil, err
	}
	if offset%b.channels != 0 || length%b.channels != 0 {
		return nil, errors.Wrapf(ErrPartialRow,
			"region [%d,%d) of %d-channel block", offset, offset+length, b.channels)
	}
	if regionCopies(b.backing) {
		backing, err := b.backing.Region(b.off+offset, length)
		if err != nil {
			return nil, err
		}
		return &InterleavedBlock{channels: b.channels, backing: backing, count: length}, nil
	}
	return &InterleavedBlock{
		channels: b.channels,
		backing:  b.backing,
		off:      b.off + offset,
		count:    length,
	}, nil
}

// InterleavedBuilder accumulates row-major cells through a flat builder
// into an InterleavedBlock. Appends go through Backing; the caller appends
// cells channel by channel, row by row.
type InterleavedBuilder struct {
	builderState
	channels int
	backing  BlockBuilder
}

// NewInterleavedBuilder constructs an InterleavedBuilder writing through
// backing.
func NewInterleavedBuilder(channels int, backing BlockBuilder) (*InterleavedBuilder, error) {
	if channels <= 0 {
		return nil, errors.Newf("colblock: non-positive channel count %d", channels)
	}
	return &InterleavedBuilder{channels: channels, backing: backing}, nil
}

// Backing returns the flat builder cells are appended to.
func (b *InterleavedBuilder) Backing() BlockBuilder { return b.backing }

// Len returns the number of cells appended so far.
func (b *InterleavedBuilder) Len() int { return b.backing.Len() }

// SizeInBytes returns the backing builder's running size estimate.
func (b *InterleavedBuilder) SizeInBytes() uint64 { return b.backing.SizeInBytes() }

// Build finalizes the accumulated cells. It errors if the cells do not
// form whole rows.
func (b *InterleavedBuilder) Build() (Block, error) {
	if b.backing.Len()%b.channels != 0 {
		return nil, errors.Wrapf(ErrPartialRow,
			"%d cells in %d-channel builder", b.backing.Len(), b.channels)
	}
	b.finish()
	backing := b.backing.Build()
	return &InterleavedBlock{channels: b.channels, backing: backing, count: backing.Len()}, nil
}

// Reset starts a fresh backing store.
func (b *InterleavedBuilder) Reset() {
	b.builderState.reset()
	b.backing.Reset()
}
