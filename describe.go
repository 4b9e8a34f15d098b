// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import (
	"fmt"
	"io"
	"strings"
)

// Describe writes a human-readable tree of the block's structure to w: one
// line per block with its encoding, position count and logical size,
// recursing into child blocks. Retained sizes are deliberately omitted;
// they depend on allocation capacities and wrapper layouts, which makes
// them unsuitable for golden output. Use Parts or CollectStats for the
// retained breakdown.
func Describe(w io.Writer, b Block) {
	describeNode(w, b, "", 0)
}

// DescribeString returns Describe's output as a string.
func DescribeString(b Block) string {
	var sb strings.Builder
	Describe(&sb, b)
	return sb.String()
}

func describeNode(w io.Writer, b Block, label string, depth int) {
	fmt.Fprintf(w, "%s%s", strings.Repeat("  ", depth), label)
	switch t := b.(type) {
	case *FixedWidthBlock:
		fmt.Fprintf(w, "%s[%d] width=%d size=%d\n", b.Encoding(), b.Len(), t.EntryWidth(), b.SizeInBytes())
	case *InterleavedBlock:
		fmt.Fprintf(w, "%s[%d] channels=%d size=%d\n", b.Encoding(), b.Len(), t.Channels(), b.SizeInBytes())
		describeNode(w, t.Backing(), "backing: ", depth+1)
	case *DictionaryBlock:
		fmt.Fprintf(w, "%s[%d] size=%d\n", b.Encoding(), b.Len(), b.SizeInBytes())
		describeNode(w, t.Dictionary(), "dictionary: ", depth+1)
	case *RunLengthBlock:
		fmt.Fprintf(w, "%s[%d] size=%d\n", b.Encoding(), b.Len(), b.SizeInBytes())
		describeNode(w, t.Value(), "value: ", depth+1)
	case *NestedArrayBlock:
		fmt.Fprintf(w, "%s[%d] size=%d\n", b.Encoding(), b.Len(), b.SizeInBytes())
		describeNode(w, t.Values(), "values: ", depth+1)
	default:
		// Flat leaf encodings: scalars, variable-width, object arrays.
		fmt.Fprintf(w, "%s[%d] size=%d\n", b.Encoding(), b.Len(), b.SizeInBytes())
	}
}
