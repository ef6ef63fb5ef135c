// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package latency tracks per-phase and per-vote timing for a single
// consensus attempt, feeding both the optional RunResult diagnostics
// and the metrics.Engine histogram.
package latency

import (
	"sort"
	"sync"
	"time"

	"github.com/luxfi/ids"

	"github.com/lux-agents/bftagent/metrics"
)

// VoteTiming records when a single vote arrived relative to its phase's start.
type VoteTiming struct {
	Sender    ids.NodeID
	ArrivedAt time.Time
	Elapsed   time.Duration
}

// PhaseTiming summarizes one phase (e.g. "prepare", "commit") of one attempt.
type PhaseTiming struct {
	Phase            string
	StartedAt        time.Time
	Votes            []VoteTiming
	QuorumArrivalIdx int // always -1: Tracker never sets it; use QuorumArrivalTime instead
}

// QuorumArrivalTime returns the arrival time of the k-th earliest vote
// (1-indexed), i.e. the moment a k-vote quorum became satisfiable. It
// returns the zero time if fewer than k votes were recorded.
func (p PhaseTiming) QuorumArrivalTime(k int) time.Time {
	if k <= 0 || k > len(p.Votes) {
		return time.Time{}
	}
	sorted := make([]VoteTiming, len(p.Votes))
	copy(sorted, p.Votes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ArrivedAt.Before(sorted[j].ArrivedAt) })
	return sorted[k-1].ArrivedAt
}

// Report is the complete timing record of one attempt, handed back via
// RunResult when config.Parameters.EnableLatency is set.
type Report struct {
	View     uint64
	Sequence uint64
	Phases   map[string]*PhaseTiming
}

// Tracker accumulates timing across phases of a single attempt and
// mirrors observations into a metrics.Engine. A nil Tracker is valid
// and discards everything: latency tracking is optional
// instrumentation, never a protocol dependency.
type Tracker struct {
	mu sync.Mutex

	report *Report
	m      *metrics.Engine
}

// New builds a Tracker for one (view, sequence) attempt.
func New(view, sequence uint64, m *metrics.Engine) *Tracker {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Tracker{
		report: &Report{View: view, Sequence: sequence, Phases: make(map[string]*PhaseTiming)},
		m:      m,
	}
}

// StartPhase records the start time of a phase.
func (t *Tracker) StartPhase(phase string, startedAt time.Time) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.report.Phases[phase] = &PhaseTiming{Phase: phase, StartedAt: startedAt, QuorumArrivalIdx: -1}
}

// RecordVote records a vote's arrival for phase, relative to that
// phase's recorded start.
func (t *Tracker) RecordVote(phase string, sender ids.NodeID, arrivedAt time.Time) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	pt, ok := t.report.Phases[phase]
	if !ok {
		pt = &PhaseTiming{Phase: phase, StartedAt: arrivedAt, QuorumArrivalIdx: -1}
		t.report.Phases[phase] = pt
	}
	pt.Votes = append(pt.Votes, VoteTiming{
		Sender:    sender,
		ArrivedAt: arrivedAt,
		Elapsed:   arrivedAt.Sub(pt.StartedAt),
	})
}

// ClosePhase mirrors the duration from phase's start to closedAt into
// the metrics engine. Nothing is added to the report.
func (t *Tracker) ClosePhase(phase string, closedAt time.Time) {
	if t == nil {
		return
	}
	t.mu.Lock()
	pt, ok := t.report.Phases[phase]
	t.mu.Unlock()
	if !ok {
		return
	}
	t.m.ObservePhaseLatencySeconds(phase, closedAt.Sub(pt.StartedAt).Seconds())
}

// Report returns a snapshot of the accumulated timing.
func (t *Tracker) Report() Report {
	if t == nil {
		return Report{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	cp := Report{View: t.report.View, Sequence: t.report.Sequence, Phases: make(map[string]*PhaseTiming, len(t.report.Phases))}
	for k, v := range t.report.Phases {
		votes := make([]VoteTiming, len(v.Votes))
		copy(votes, v.Votes)
		cp.Phases[k] = &PhaseTiming{Phase: v.Phase, StartedAt: v.StartedAt, Votes: votes, QuorumArrivalIdx: v.QuorumArrivalIdx}
	}
	return cp
}
