// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package consensus drives a replica set through the three-phase
// agreement protocol over one task: PRE-PREPARE from the view's
// primary, PREPARE votes from every backup, COMMIT votes carrying
// the PREPARE decision forward, with view changes retried on
// rejection, timeout, or a failed primary.
package consensus

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/luxfi/ids"

	"github.com/lux-agents/bftagent/config"
	"github.com/lux-agents/bftagent/evaluator"
	"github.com/lux-agents/bftagent/latency"
	"github.com/lux-agents/bftagent/log"
	"github.com/lux-agents/bftagent/metrics"
	"github.com/lux-agents/bftagent/network"
	"github.com/lux-agents/bftagent/quorum"
	"github.com/lux-agents/bftagent/replica"
	"github.com/lux-agents/bftagent/types"
)

// RunResult reports the outcome of one Run call.
type RunResult struct {
	Sequence uint64
	View     uint64
	Attempts int

	Verdict  quorum.Verdict
	Prepare  quorum.Result
	Commit   quorum.Result
	Proposal types.Proposal

	Latency *latency.Report // nil unless Parameters.EnableLatency is set
}

// Decision summarizes Verdict as the Y/N the embedder asked for:
// Accepted maps to Y, anything else (Rejected, or Pending because the
// retry budget ran out before any phase closed) maps to N.
func (r RunResult) Decision() types.Decision {
	if r.Verdict == quorum.Accepted {
		return types.DecisionY
	}
	return types.DecisionN
}

// NetworkFactory builds a fresh transport for one Run call. The
// default factory returns a network.Simulated built from the engine's
// Parameters (loss probability and delay range) with a freshly seeded
// generator; tests substitute a deterministic factory.
type NetworkFactory func() network.Network

// Engine coordinates a fixed replica set through repeated attempts of
// the three-phase protocol until a commit quorum is reached or the
// retry budget is exhausted. A single Engine is safe for concurrent
// Run calls: each call builds its own replica instances and its own
// transport, sharing only the global sequence counter, the logger and
// the metrics engine.
type Engine struct {
	params     config.Parameters
	replicaIDs []ids.NodeID
	evaluators map[ids.NodeID]evaluator.Evaluator

	logger  log.Logger
	metrics *metrics.Engine

	netFactory NetworkFactory

	seq atomic.Uint64

	runsStarted     atomic.Uint64
	roundsSucceeded atomic.Uint64
	viewChangesSeen atomic.Uint64
	messagesSent    atomic.Uint64
	currentView     atomic.Uint64
}

// Stats is a point-in-time snapshot of an Engine's cumulative activity
// across every Run call it has served, readable without scraping the
// Prometheus registry a metrics.Engine may be wired to.
type Stats struct {
	RoundsSucceeded uint64  `json:"rounds_succeeded"`
	ViewChangesSeen uint64  `json:"view_changes_seen"`
	MessagesSent    uint64  `json:"messages_sent"`
	N               int     `json:"n"`
	F               int     `json:"f"`
	CurrentView     uint64  `json:"current_view"`
	SuccessRate     float64 `json:"success_rate"`
}

// Stats returns a snapshot of the Engine's cumulative counters. Safe
// for concurrent use, including alongside in-flight Run calls.
func (e *Engine) Stats() Stats {
	runs := e.runsStarted.Load()
	succeeded := e.roundsSucceeded.Load()
	var successRate float64
	if runs > 0 {
		successRate = float64(succeeded) / float64(runs)
	}
	return Stats{
		RoundsSucceeded: succeeded,
		ViewChangesSeen: e.viewChangesSeen.Load(),
		MessagesSent:    e.messagesSent.Load(),
		N:               e.params.N,
		F:               e.params.FaultTolerance(),
		CurrentView:     e.currentView.Load(),
		SuccessRate:     successRate,
	}
}

// NewEngine builds an Engine over the given ordered replica set. The
// order of replicaIDs fixes the view-rotation schedule: primary =
// replicas[view mod n].
func NewEngine(params config.Parameters, replicaIDs []ids.NodeID, evaluators map[ids.NodeID]evaluator.Evaluator, logger log.Logger, m *metrics.Engine) (*Engine, error) {
	if len(replicaIDs) == 0 {
		return nil, ErrNoReplicas
	}
	for _, id := range replicaIDs {
		if _, ok := evaluators[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingEvaluator, id)
		}
	}
	if logger == nil {
		logger = log.NoOp()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	if params.N == 0 {
		params.N = len(replicaIDs)
	}

	e := &Engine{
		params:     params,
		replicaIDs: append([]ids.NodeID(nil), replicaIDs...),
		evaluators: evaluators,
		logger:     logger,
		metrics:    m,
	}
	e.netFactory = func() network.Network {
		return network.NewSimulated(params.PLoss, params.DMin, params.DMax, nil, logger, m)
	}
	return e, nil
}

// WithNetworkFactory overrides how Run builds a transport, primarily
// for tests that need a deterministic *rand.Rand.
func (e *Engine) WithNetworkFactory(f NetworkFactory) *Engine {
	e.netFactory = f
	return e
}

func (e *Engine) primaryFor(view uint64) ids.NodeID {
	return e.replicaIDs[view%uint64(len(e.replicaIDs))]
}

// observerID is a reserved participant the Engine registers on every
// Run call's transport to collect PREPARE/COMMIT votes the way a real
// deployment's tallying node would: over the same lossy, delayed
// network every other message travels, so a dropped vote really is
// invisible to the quorum count rather than merely dropped between
// peers while still being locally counted.
var observerID = ids.NodeID{0xFF}

// Run drives task through the protocol: it repeatedly attempts a
// three-phase round, bumping the view and pacing between attempts on
// failure, until a commit quorum is reached or MaxRetries is
// exhausted. Every call receives a unique, monotonically increasing
// sequence number, so concurrent Run calls on the same Engine never
// collide.
func (e *Engine) Run(ctx context.Context, task types.Task) (RunResult, error) {
	seq := e.seq.Add(1)
	e.runsStarted.Add(1)

	net := e.netFactory()
	replicas := make(map[ids.NodeID]*replica.Replica, len(e.replicaIDs))
	inboxes := make(map[ids.NodeID]chan network.Envelope, len(e.replicaIDs)+1)
	for _, id := range e.replicaIDs {
		replicas[id] = replica.New(id, e.evaluators[id], e.logger)
		inbox := make(chan network.Envelope, 64*len(e.replicaIDs))
		inboxes[id] = inbox
		net.Register(id, inbox)
	}
	observerInbox := make(chan network.Envelope, 64*len(e.replicaIDs))
	inboxes[observerID] = observerInbox
	net.Register(observerID, observerInbox)

	var view uint64
	var lastPrepare, lastCommit quorum.Result
	var lastProposal types.Proposal
	var tracker *latency.Tracker

	attempts := e.params.MaxRetries
	for attempt := 0; attempt < attempts; attempt++ {
		select {
		case <-ctx.Done():
			return RunResult{}, ctx.Err()
		default:
		}

		e.currentView.Store(view)
		for _, r := range replicas {
			r.BeginAttempt(view, seq)
		}
		if e.params.EnableLatency {
			tracker = latency.New(view, seq, e.metrics)
		} else {
			tracker = nil
		}

		primaryID := e.primaryFor(view)
		primary := replicas[primaryID]
		backupTargets := make([]ids.NodeID, 0, len(e.replicaIDs)-1)
		for _, id := range e.replicaIDs {
			if id != primaryID {
				backupTargets = append(backupTargets, id)
			}
		}

		pp, err := primary.Propose(ctx, task)
		if err != nil {
			e.logger.Warn("primary failed to propose", "view", view, "sequence", seq, "primary", primaryID.String(), "error", err.Error())
			view = e.viewChange(ctx, view)
			continue
		}
		lastProposal = pp.Proposal
		tracker.StartPhase("prepare", time.Now())

		// The primary does not cast a PREPARE vote: its own PRE-PREPARE is
		// its implicit approval. It still casts a COMMIT alongside every
		// backup that prepared.
		prepareTally := quorum.New(seq, pp.Digest, e.params.CommitQuorum(), e.params.RejectThreshold())
		ownDecisions := make(map[ids.NodeID]types.Decision, len(replicas))
		ownDecisions[primaryID] = types.DecisionY

		net.Broadcast(primaryID, pp, backupTargets)
		e.collectPhase(ctx, inboxes, func() bool { return prepareTally.Check().Verdict != quorum.Pending }, func(env network.Envelope) {
			receiver, payload := env.ReceiverID, env.Payload
			switch msg := payload.(type) {
			case *types.PrePrepare:
				if msg.View != view || msg.Sequence != seq {
					return
				}
				r := replicas[receiver]
				if r == nil || r.Phase() != replica.Idle {
					// Already reacted to this attempt's pre-prepare, or a
					// stray delivery straggling in from a prior phase's
					// drain window; never re-validate.
					return
				}
				r.HandlePrePrepare(msg)
				prepare, err := r.Prepare(ctx, nil)
				if err != nil {
					return
				}
				ownDecisions[receiver] = prepare.Decision
				net.Unicast(receiver, observerID, prepare)
			case *types.Prepare:
				if receiver != observerID || msg.View != view || msg.Sequence != seq {
					return
				}
				prepareTally.Add(msg.Sender, seq, msg.Digest, msg.Decision)
				tracker.RecordVote("prepare", msg.Sender, env.ArrivesAt)
			}
		})

		lastPrepare = prepareTally.Check()
		tracker.ClosePhase("prepare", time.Now())

		if lastPrepare.Verdict != quorum.Accepted {
			e.logger.Info("prepare phase did not reach quorum", "view", view, "sequence", seq, "verdict", int(lastPrepare.Verdict))
			view = e.viewChange(ctx, view)
			continue
		}

		tracker.StartPhase("commit", time.Now())
		commitTally := quorum.New(seq, pp.Digest, e.params.CommitQuorum(), e.params.RejectThreshold())

		// Every COMMIT carries the PREPARE phase's verdict, which is
		// Accepted here, rather than the replica's own PREPARE vote.
		for id := range ownDecisions {
			c := replicas[id].Commit(types.DecisionY, nil)
			net.Unicast(id, observerID, c)
		}

		e.collectPhase(ctx, inboxes, func() bool { return commitTally.Check().Verdict != quorum.Pending }, func(env network.Envelope) {
			msg, ok := env.Payload.(*types.Commit)
			if !ok || env.ReceiverID != observerID || msg.View != view || msg.Sequence != seq {
				return
			}
			commitTally.Add(msg.Sender, seq, msg.Digest, msg.Decision)
			tracker.RecordVote("commit", msg.Sender, env.ArrivesAt)
		})

		lastCommit = commitTally.Check()
		tracker.ClosePhase("commit", time.Now())

		if lastCommit.Verdict == quorum.Accepted {
			e.metrics.ObserveRoundSucceeded()
			e.roundsSucceeded.Add(1)
			e.messagesSent.Add(uint64(net.Stats().TotalSent))
			result := RunResult{
				Sequence: seq,
				View:     view,
				Attempts: attempt + 1,
				Verdict:  quorum.Accepted,
				Prepare:  lastPrepare,
				Commit:   lastCommit,
				Proposal: lastProposal,
			}
			if tracker != nil {
				r := tracker.Report()
				result.Latency = &r
			}
			return result, nil
		}

		e.logger.Info("commit phase did not reach quorum", "view", view, "sequence", seq, "verdict", int(lastCommit.Verdict))
		view = e.viewChange(ctx, view)
	}

	e.messagesSent.Add(uint64(net.Stats().TotalSent))
	result := RunResult{
		Sequence: seq,
		View:     view,
		Attempts: attempts,
		Verdict:  lastCommit.Verdict,
		Prepare:  lastPrepare,
		Commit:   lastCommit,
		Proposal: lastProposal,
	}
	return result, ErrNoQuorum
}

// viewChange bumps the view and paces the next attempt: no
// VIEW-CHANGE/NEW-VIEW quorum exchange, just a counter bump and a
// fixed pacing delay.
func (e *Engine) viewChange(ctx context.Context, view uint64) uint64 {
	e.metrics.ObserveViewChange()
	e.viewChangesSeen.Add(1)
	next := view + 1
	e.currentView.Store(next)
	if e.params.ViewChangePacing > 0 {
		timer := time.NewTimer(e.params.ViewChangePacing)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}
	return next
}

// collectPhase fans in every replica's inbox and drains it for up to
// Timeout, invoking onEnvelope for each delivered message and
// returning as soon as closed reports the phase's tally has left
// Pending. It then drains for up to EffectiveGraceWindow more so late
// votes still get recorded (and reach onEnvelope, for observability
// and commit-phase bookkeeping) without being able to reopen a verdict
// the tally has already frozen.
func (e *Engine) collectPhase(ctx context.Context, inboxes map[ids.NodeID]chan network.Envelope, closed func() bool, onEnvelope func(env network.Envelope)) {
	merged := make(chan network.Envelope, 64*len(inboxes))
	done := make(chan struct{})
	for _, inbox := range inboxes {
		go func(inbox chan network.Envelope) {
			for {
				select {
				case env, ok := <-inbox:
					if !ok {
						return
					}
					select {
					case merged <- env:
					case <-done:
						return
					}
				case <-done:
					return
				}
			}
		}(inbox)
	}
	defer close(done)

	mainDeadline := time.NewTimer(e.params.Timeout)
	defer mainDeadline.Stop()

drain:
	for {
		select {
		case env := <-merged:
			onEnvelope(env)
			if closed() {
				break drain
			}
		case <-mainDeadline.C:
			break drain
		case <-ctx.Done():
			return
		}
	}

	grace := time.NewTimer(e.params.EffectiveGraceWindow())
	defer grace.Stop()
	for {
		select {
		case env := <-merged:
			onEnvelope(env)
		case <-grace.C:
			return
		case <-ctx.Done():
			return
		}
	}
}
