// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package colblock

import (
	"strconv"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	datadriven.RunTest(t, "testdata/describe", func(t *testing.T, td *datadriven.TestData) string {
		switch td.Cmd {
		case "describe":
			var encoding string
			var rows int
			td.ScanArgs(t, "encoding", &encoding)
			td.ScanArgs(t, "rows", &rows)
			blk := makeDescribeBlock(t, td, encoding, rows)
			if arg, ok := td.Arg("region"); ok {
				var offset, length int
				offset, _ = strconv.Atoi(arg.Vals[0])
				length, _ = strconv.Atoi(arg.Vals[1])
				r, err := blk.Region(offset, length)
				if err != nil {
					return err.Error()
				}
				blk = r
			}
			return DescribeString(blk)
		default:
			return "unknown command: " + td.Cmd
		}
	})
}

// makeDescribeBlock builds a deterministic block of the named encoding for
// golden-output tests. Variable-width entries are the decimal position
// strings.
func makeDescribeBlock(t *testing.T, td *datadriven.TestData, encoding string, rows int) Block {
	switch encoding {
	case "int64":
		b := NewScalarBuilder[int64](nil, rows)
		for i := 0; i < rows; i++ {
			b.Append(int64(i))
		}
		return b.Build()
	case "fixed":
		var width int
		td.ScanArgs(t, "width", &width)
		b := NewFixedWidthBuilder(width, nil, rows)
		entry := make([]byte, width)
		for i := 0; i < rows; i++ {
			entry[0] = byte(i)
			require.NoError(t, b.Append(entry))
		}
		return b.Build()
	case "bytes":
		b := NewVariableWidthBuilder(nil, rows)
		for i := 0; i < rows; i++ {
			b.AppendString(strconv.Itoa(i))
		}
		return b.Build()
	case "object":
		values := make([][]byte, rows)
		for i := range values {
			values[i] = []byte(strconv.Itoa(i))
		}
		return NewObjectArrayBlock(values)
	case "dictionary":
		var entries int
		td.ScanArgs(t, "dict-entries", &entries)
		dict := makeDescribeBlock(t, td, "bytes", entries)
		ids := make([]int32, rows)
		for i := range ids {
			ids[i] = int32(i % entries)
		}
		return NewDictionaryBlock(dict, ids)
	case "rle":
		value := NewVariableWidthBuilder(nil, 1)
		value.AppendString("v")
		blk, err := NewRunLengthBlock(value.Build(), rows)
		require.NoError(t, err)
		return blk
	case "interleaved":
		var channels int
		td.ScanArgs(t, "channels", &channels)
		backing := makeDescribeBlock(t, td, "int64", rows*channels)
		blk, err := NewInterleavedBlock(channels, backing)
		require.NoError(t, err)
		return blk
	case "array":
		elems := NewScalarBuilder[int64](nil, 0)
		b := NewNestedArrayBuilder(elems, nil)
		var next int64
		for i := 0; i < rows; i++ {
			entry := b.BeginEntry().(*ScalarBuilder[int64])
			for j := 0; j < i%3; j++ {
				entry.Append(next)
				next++
			}
			b.EndEntry()
		}
		return b.Build()
	default:
		t.Fatalf("unknown encoding %q", encoding)
		return nil
	}
}
