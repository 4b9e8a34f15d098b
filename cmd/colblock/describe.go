// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package main

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/colstore/colblock"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/exp/rand"
)

var regionLen int

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "build a synthetic block and print its structure and retained breakdown",
	RunE:  runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	rng := rand.New(rand.NewSource(seed))
	b, err := synthBlock(encoding, rng)
	if err != nil {
		return err
	}

	fmt.Print(colblock.DescribeString(b))
	fmt.Println(colblock.CollectStats(b))

	var parts colblock.Parts
	b.ForEachRetained(parts.Visit)
	if regionLen >= 0 {
		r, err := b.Region(0, regionLen)
		if err != nil {
			return err
		}
		r.ForEachRetained(parts.Visit)
		fmt.Printf("region [0,%d): %s\n", regionLen, colblock.CollectStats(r))
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"object", "bytes", "hits"})
	i := 0
	parts.ForEach(func(_ unsafe.Pointer, size uint64, hits int) {
		table.Append([]string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%d", size),
			fmt.Sprintf("%d", hits),
		})
		i++
	})
	table.SetFooter([]string{"total", fmt.Sprintf("%d", parts.Total()), ""})
	table.Render()
	return nil
}
