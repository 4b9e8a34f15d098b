// Copyright 2023 The Colblock Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Command colblock is an introspection and benchmarking tool for the
// colblock encodings: it builds synthetic blocks and reports their
// structure, retained-size breakdowns, and operation latencies.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	encoding    string
	rows        int
	valueBytes  int
	dictEntries int
	channels    int
	seed        uint64
)

var rootCmd = &cobra.Command{
	Use:   "colblock [command] (flags)",
	Short: "colblock benchmarking/introspection tool",
	Long:  ``,
}

func main() {
	log.SetFlags(0)

	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(
		describeCmd,
		benchCmd,
	)

	for _, cmd := range []*cobra.Command{describeCmd, benchCmd} {
		cmd.Flags().StringVarP(
			&encoding, "encoding", "e", "int64",
			"encoding to build (int8, int16, int32, int64, fixed, bytes, object, dictionary, rle, interleaved, array)")
		cmd.Flags().IntVarP(
			&rows, "rows", "n", 1000, "number of positions to build")
		cmd.Flags().IntVar(
			&valueBytes, "value-bytes", 8, "value size for fixed/bytes/object encodings")
		cmd.Flags().IntVar(
			&dictEntries, "dict-entries", 64, "dictionary size for the dictionary encoding")
		cmd.Flags().IntVar(
			&channels, "channels", 2, "channel count for the interleaved encoding")
		cmd.Flags().Uint64Var(
			&seed, "seed", 1, "pseudorandom seed for synthetic values")
	}

	describeCmd.Flags().IntVar(
		&regionLen, "region-len", -1, "also describe a region of this many positions (-1 to skip)")
	benchCmd.Flags().IntVar(
		&benchOps, "ops", 10000, "number of operations to measure")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
