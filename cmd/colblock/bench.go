// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package main

import (
	"fmt"
	"os"
	"time"
	"unsafe"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
	"github.com/colstore/colblock"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

var benchOps int

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "measure build, region and traversal latency for an encoding",
	RunE:  runBench,
}

func newBenchHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(1, time.Minute.Nanoseconds(), 3)
}

func runBench(cmd *cobra.Command, args []string) error {
	rng := rand.New(rand.NewSource(seed))

	buildHist := newBenchHistogram()
	regionHist := newBenchHistogram()
	traverseHist := newBenchHistogram()

	var b colblock.Block
	var err error
	for i := 0; i < benchOps; i++ {
		start := time.Now()
		b, err = synthBlock(encoding, rng)
		if err != nil {
			return err
		}
		if err := buildHist.RecordValue(time.Since(start).Nanoseconds()); err != nil {
			return err
		}

		half := b.Len() / 2
		if ib, ok := b.(*colblock.InterleavedBlock); ok {
			half -= half % ib.Channels()
		}
		start = time.Now()
		r, err := b.Region(0, half)
		if err != nil {
			return err
		}
		if err := regionHist.RecordValue(time.Since(start).Nanoseconds()); err != nil {
			return err
		}

		start = time.Now()
		var retained uint64
		fn := func(_ unsafe.Pointer, size uint64) { retained += size }
		b.ForEachRetained(fn)
		r.ForEachRetained(fn)
		if err := traverseHist.RecordValue(time.Since(start).Nanoseconds()); err != nil {
			return err
		}
	}

	fmt.Printf("%s: %d ops of %d rows; last block %s\n",
		encoding, benchOps, rows, colblock.CollectStats(b))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"op", "p50", "p95", "p99", "max"})
	for _, row := range []struct {
		name string
		hist *hdrhistogram.Histogram
	}{
		{"build", buildHist},
		{"region", regionHist},
		{"traverse", traverseHist},
	} {
		table.Append([]string{
			row.name,
			time.Duration(row.hist.ValueAtQuantile(50)).String(),
			time.Duration(row.hist.ValueAtQuantile(95)).String(),
			time.Duration(row.hist.ValueAtQuantile(99)).String(),
			time.Duration(row.hist.Max()).String(),
		})
	}
	table.Render()
	return nil
}
