// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bftagent",
	Short: "Byzantine fault tolerant agreement over a set of evaluator agents",
	Long: `bftagent drives a configurable replica set through a three-phase
(PRE-PREPARE/PREPARE/COMMIT) agreement protocol over a single task, with a
simulated lossy network and a mix of honest and Byzantine evaluator
policies assignable per replica.`,
}

func main() {
	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
