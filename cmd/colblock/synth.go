// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package main

import (
	"fmt"

	"github.com/colstore/colblock"
	"golang.org/x/exp/rand"
)

// synthBlock builds a block of the named encoding filled with pseudorandom
// values from rng.
func synthBlock(name string, rng *rand.Rand) (colblock.Block, error) {
	switch name {
	case "int8":
		b := colblock.NewScalarBuilder[int8](nil, rows)
		for i := 0; i < rows; i++ {
			b.Append(int8(rng.Int63()))
		}
		return b.Build(), nil
	case "int16":
		b := colblock.NewScalarBuilder[int16](nil, rows)
		for i := 0; i < rows; i++ {
			b.Append(int16(rng.Int63()))
		}
		return b.Build(), nil
	case "int32":
		b := colblock.NewScalarBuilder[int32](nil, rows)
		for i := 0; i < rows; i++ {
			b.Append(int32(rng.Int63()))
		}
		return b.Build(), nil
	case "int64":
		b := colblock.NewScalarBuilder[int64](nil, rows)
		for i := 0; i < rows; i++ {
			b.Append(rng.Int63())
		}
		return b.Build(), nil
	case "fixed":
		b := colblock.NewFixedWidthBuilder(valueBytes, nil, rows)
		entry := make([]byte, valueBytes)
		for i := 0; i < rows; i++ {
			rng.Read(entry)
			if err := b.Append(entry); err != nil {
				return nil, err
			}
		}
		return b.Build(), nil
	case "bytes":
		b := colblock.NewVariableWidthBuilder(nil, rows)
		buf := make([]byte, valueBytes)
		for i := 0; i < rows; i++ {
			n := 1 + rng.Intn(valueBytes)
			rng.Read(buf[:n])
			b.Append(buf[:n])
		}
		return b.Build(), nil
	case "object":
		values := make([][]byte, rows)
		for i := range values {
			values[i] = make([]byte, 1+rng.Intn(valueBytes))
			rng.Read(values[i])
		}
		return colblock.NewObjectArrayBlock(values), nil
	case "dictionary":
		dict := colblock.NewVariableWidthBuilder(nil, dictEntries)
		for i := 0; i < dictEntries; i++ {
			dict.AppendString(fmt.Sprintf("entry-%d", i))
		}
		ids := make([]int32, rows)
		for i := range ids {
			ids[i] = int32(rng.Intn(dictEntries))
		}
		return colblock.NewDictionaryBlock(dict.Build(), ids), nil
	case "rle":
		b := colblock.NewScalarBuilder[int64](nil, 1)
		b.Append(rng.Int63())
		return colblock.NewRunLengthBlock(b.Build(), rows)
	case "interleaved":
		backing := colblock.NewScalarBuilder[int64](nil, rows*channels)
		b, err := colblock.NewInterleavedBuilder(channels, backing)
		if err != nil {
			return nil, err
		}
		for i := 0; i < rows*channels; i++ {
			backing.Append(rng.Int63())
		}
		return b.Build()
	case "array":
		elems := colblock.NewScalarBuilder[int64](nil, rows)
		b := colblock.NewNestedArrayBuilder(elems, nil)
		for i := 0; i < rows; i++ {
			inner := b.BeginEntry().(*colblock.ScalarBuilder[int64])
			for j := rng.Intn(4); j >= 0; j-- {
				inner.Append(rng.Int63())
			}
			b.EndEntry()
		}
		return b.Build(), nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
}
