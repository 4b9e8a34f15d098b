// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import "github.com/cockroachdb/errors"

// ErrIndexOutOfRange marks errors returned when a region or position lies
// outside [0, Len()]. Ranges are never silently clamped. Test with
// errors.Is; returned errors carry position context.
var ErrIndexOutOfRange = errors.New("colblock: position out of range")

// ErrValueWidth is returned when a value cannot be represented by the target
// encoding, e.g. appending an entry of the wrong width to a fixed-width
// builder.
var ErrValueWidth = errors.New("colblock: value width unsupported by encoding")

// ErrPartialRow marks errors returned by InterleavedBlock.Region when the
// requested range does not cover whole rows of channels.
var ErrPartialRow = errors.New("colblock: interleaved region splits a row")

// Builder misuse (writing or building after Build without an intervening
// Reset) is a programming-contract violation and panics with an assertion
// failure rather than returning an error; see builderState.
