// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines the tunable parameters of the consensus
// engine and the simulated network it drives.
package config

import "time"

// Parameters configures one consensus engine instance and the
// simulated network it drives.
type Parameters struct {
	// N is the replica count. F, if zero, defaults to
	// floor((N-1)/3); set it explicitly to override the default
	// (0 <= F <= floor((N-1)/3) is the only valid range).
	N int
	F int

	// Timeout bounds each PREPARE/COMMIT phase. GraceWindow extends it
	// for late votes and defaults to min(5s, Timeout) when zero.
	Timeout     time.Duration
	GraceWindow time.Duration

	// MaxRetries bounds the number of attempts (view changes) a single
	// Run call may make before returning failure.
	MaxRetries int

	// ViewChangePacing is the delay the engine waits after bumping the
	// view before retrying.
	ViewChangePacing time.Duration

	// EnableLatency turns on the per-phase latency tracker and its
	// inclusion in RunResult.
	EnableLatency bool

	// Network parameters for the simulated network.
	PLoss float64
	DMin  time.Duration
	DMax  time.Duration
}

// Default returns a lossless, low-latency network configuration with
// generous timeouts, suitable for deterministic tests and an
// all-honest replica set.
func Default() Parameters {
	return Parameters{
		Timeout:          5 * time.Second,
		GraceWindow:      0, // derived as min(5s, Timeout)
		MaxRetries:       3,
		ViewChangePacing: 500 * time.Millisecond,
		EnableLatency:    false,
		PLoss:            0,
		DMin:             10 * time.Millisecond,
		DMax:             100 * time.Millisecond,
	}
}

// ForReplicaCount returns Default() with N set and F derived from it.
func ForReplicaCount(n int) Parameters {
	p := Default()
	p.N = n
	return p
}

// FaultTolerance returns the effective F: the configured override, or
// floor((N-1)/3) when F is zero.
func (p Parameters) FaultTolerance() int {
	if p.F > 0 {
		return p.F
	}
	return (p.N - 1) / 3
}

// CommitQuorum is the Y-vote threshold to progress past PREPARE/COMMIT: 2f+1.
func (p Parameters) CommitQuorum() int {
	return 2*p.FaultTolerance() + 1
}

// RejectThreshold is the N-vote threshold that aborts a phase: f+1.
func (p Parameters) RejectThreshold() int {
	return p.FaultTolerance() + 1
}

// EffectiveGraceWindow returns GraceWindow if set, else min(5s, Timeout).
func (p Parameters) EffectiveGraceWindow() time.Duration {
	if p.GraceWindow > 0 {
		return p.GraceWindow
	}
	const defaultGrace = 5 * time.Second
	if p.Timeout < defaultGrace {
		return p.Timeout
	}
	return defaultGrace
}
