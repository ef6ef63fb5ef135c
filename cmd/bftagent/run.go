// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/luxfi/ids"
	"github.com/spf13/cobra"

	"github.com/lux-agents/bftagent/config"
	"github.com/lux-agents/bftagent/consensus"
	"github.com/lux-agents/bftagent/evaluator"
	"github.com/lux-agents/bftagent/log"
	"github.com/lux-agents/bftagent/types"
)

// runFlags configures a replica count plus a count of each Byzantine
// policy to assign, starting from replica index 0 so that
// --byzantine-colluding/--byzantine-wrong/--byzantine-random replicas
// are the ones most likely to land in the primary rotation first.
type runFlags struct {
	replicas  int
	colluding int
	wrong     int
	random    int

	answer      string
	wrongAnswer string

	timeout          time.Duration
	graceWindow      time.Duration
	maxRetries       int
	viewChangePacing time.Duration
	enableLatency    bool

	pLoss float64
	dMin  time.Duration
	dMax  time.Duration
}

func runCmd() *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run [task content]",
		Short: "Run one round of three-phase agreement over a task",
		Long: `run assigns an evaluator policy to each of --replicas replicas (honest by
default, with --byzantine-colluding/--byzantine-wrong/--byzantine-random
replicas drawn from the front of the rotation), drives them through PRE-PREPARE/PREPARE/COMMIT over the given
task content via a simulated lossy network, and prints the resulting
RunResult as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, f, args[0])
		},
	}

	cmd.Flags().IntVar(&f.replicas, "replicas", 5, "number of replicas")
	cmd.Flags().IntVar(&f.colluding, "byzantine-colluding", 0, "replicas (from the front) running the colluding policy")
	cmd.Flags().IntVar(&f.wrong, "byzantine-wrong", 0, "replicas (after colluding) running the deterministic-wrong policy")
	cmd.Flags().IntVar(&f.random, "byzantine-random", 0, "replicas (after wrong) running the random-vote policy")
	cmd.Flags().StringVar(&f.answer, "answer", "", "fixed answer honest replicas compute for the task (default: the trimmed task content)")
	cmd.Flags().StringVar(&f.wrongAnswer, "wrong-answer", "wrong-answer", "answer Byzantine replicas propose/collude on")

	cmd.Flags().DurationVar(&f.timeout, "timeout", 5*time.Second, "per-phase vote collection timeout")
	cmd.Flags().DurationVar(&f.graceWindow, "grace-window", 0, "extra drain window for late votes (default: min(5s, timeout))")
	cmd.Flags().IntVar(&f.maxRetries, "max-retries", 3, "attempts (one per view) before giving up")
	cmd.Flags().DurationVar(&f.viewChangePacing, "view-change-pacing", 500*time.Millisecond, "delay applied after each view change")
	cmd.Flags().BoolVar(&f.enableLatency, "latency", false, "include a per-phase latency report in the result")

	cmd.Flags().Float64Var(&f.pLoss, "p-loss", 0, "independent packet-loss probability on the simulated network")
	cmd.Flags().DurationVar(&f.dMin, "d-min", 10*time.Millisecond, "minimum simulated network delay")
	cmd.Flags().DurationVar(&f.dMax, "d-max", 100*time.Millisecond, "maximum simulated network delay")

	return cmd
}

func runRun(cmd *cobra.Command, f *runFlags, taskContent string) error {
	if f.replicas < 1 {
		return fmt.Errorf("--replicas must be >= 1")
	}
	if f.colluding+f.wrong+f.random > f.replicas {
		return fmt.Errorf("--byzantine-colluding + --byzantine-wrong + --byzantine-random (%d) exceeds --replicas (%d)",
			f.colluding+f.wrong+f.random, f.replicas)
	}

	replicaIDs := make([]ids.NodeID, f.replicas)
	for i := range replicaIDs {
		replicaIDs[i] = ids.NodeID{byte(i + 1)}
	}

	compute := evaluator.Compute(func(content string) (string, []string) {
		if f.answer != "" {
			return f.answer, []string{"fixed answer supplied via --answer"}
		}
		return strings.TrimSpace(content), []string{"echoing task content"}
	})

	evaluators := make(map[ids.NodeID]evaluator.Evaluator, f.replicas)
	colludingIDs := replicaIDs[:f.colluding]
	idx := 0
	for ; idx < f.colluding; idx++ {
		evaluators[replicaIDs[idx]] = evaluator.NewColluding(replicaIDs[idx], colludingIDs, f.wrongAnswer)
	}
	for ; idx < f.colluding+f.wrong; idx++ {
		evaluators[replicaIDs[idx]] = evaluator.NewDeterministicWrong(replicaIDs[idx], nil, f.wrongAnswer)
	}
	for ; idx < f.colluding+f.wrong+f.random; idx++ {
		evaluators[replicaIDs[idx]] = evaluator.NewRandom(replicaIDs[idx], nil)
	}
	for ; idx < f.replicas; idx++ {
		evaluators[replicaIDs[idx]] = evaluator.NewHonest(replicaIDs[idx], compute)
	}

	params := config.ForReplicaCount(f.replicas)
	params.Timeout = f.timeout
	params.GraceWindow = f.graceWindow
	params.MaxRetries = f.maxRetries
	params.ViewChangePacing = f.viewChangePacing
	params.EnableLatency = f.enableLatency
	params.PLoss = f.pLoss
	params.DMin = f.dMin
	params.DMax = f.dMax
	if err := params.Validate(); err != nil {
		return err
	}

	engine, err := consensus.NewEngine(params, replicaIDs, evaluators, log.NoOp(), nil)
	if err != nil {
		return err
	}

	task := types.Task{ID: "cli-task", Content: taskContent}
	result, err := engine.Run(cmd.Context(), task)
	if err != nil && err != consensus.ErrNoQuorum {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(result); encErr != nil {
		return encErr
	}
	if err == consensus.ErrNoQuorum {
		return err
	}
	return nil
}
