// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package replica implements the per-node state machine of the
// three-phase protocol: PRE-PREPARE, PREPARE, COMMIT. One Replica
// exists per participant; the consensus engine drives N of them
// through a shared attempt.
package replica

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/luxfi/ids"

	"github.com/lux-agents/bftagent/digest"
	"github.com/lux-agents/bftagent/evaluator"
	"github.com/lux-agents/bftagent/log"
	"github.com/lux-agents/bftagent/types"
)

// Phase is a replica's position in the current attempt's state machine.
type Phase int

const (
	Idle Phase = iota
	PrePrepared
	Prepared
	Committed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case PrePrepared:
		return "pre-prepared"
	case Prepared:
		return "prepared"
	case Committed:
		return "committed"
	default:
		return "unknown"
	}
}

// Replica is one participant's state machine, wrapping the opaque
// evaluator it consults to propose and validate.
type Replica struct {
	ID        ids.NodeID
	Evaluator evaluator.Evaluator
	Logger    log.Logger

	mu    sync.Mutex
	view  uint64
	seq   uint64
	phase Phase
	log   *Log
}

// New builds a Replica. A nil Logger is replaced with log.NoOp().
func New(id ids.NodeID, eval evaluator.Evaluator, logger log.Logger) *Replica {
	if logger == nil {
		logger = log.NoOp()
	}
	return &Replica{
		ID:        id,
		Evaluator: eval,
		Logger:    logger,
		log:       newLog(),
	}
}

// BeginAttempt resets the replica's per-round log for a fresh
// (view, sequence) attempt. It must be called before any phase method
// below for that attempt.
func (r *Replica) BeginAttempt(view, sequence uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.view = view
	r.seq = sequence
	r.phase = Idle
	r.log = newLog()
}

// Phase reports the replica's current position in the state machine.
func (r *Replica) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Propose asks the evaluator for a proposal and wraps it in a
// PRE-PREPARE message for the attempt started by BeginAttempt. Only
// meaningful when this replica is primary for the current view; the
// engine is responsible for that determination (view rotation is
// computed over the full replica set, which this package does not
// see).
func (r *Replica) Propose(ctx context.Context, task types.Task) (*types.PrePrepare, error) {
	proposal, err := r.Evaluator.Propose(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("replica %s: propose: %w", r.ID, err)
	}

	r.mu.Lock()
	view, seq := r.view, r.seq
	r.mu.Unlock()

	now := time.Now()
	d := digest.Compute(view, seq, r.ID, now)

	pp := &types.PrePrepare{
		Header: types.Header{
			View:      view,
			Sequence:  seq,
			Sender:    r.ID,
			Timestamp: now,
			Digest:    d,
		},
		Task:     task,
		Proposal: proposal,
	}

	r.mu.Lock()
	r.log.PrePrepare = pp
	r.phase = PrePrepared
	r.mu.Unlock()

	return pp, nil
}

// HandlePrePrepare accepts the primary's PRE-PREPARE for the current
// attempt. A second PRE-PREPARE for the same (view, sequence) from any
// sender is logged and ignored — the first one observed wins
// (invariant P1, one proposal per view/sequence).
func (r *Replica) HandlePrePrepare(pp *types.PrePrepare) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.log.PrePrepare != nil {
		r.Logger.Warn("duplicate pre-prepare ignored",
			"replica", r.ID.String(),
			"view", pp.View,
			"sequence", pp.Sequence,
			"sender", pp.Sender.String(),
		)
		return
	}

	r.log.PrePrepare = pp
	r.phase = PrePrepared
}

// Prepare validates the attempt's accepted PRE-PREPARE and returns this
// replica's PREPARE vote. It is a no-op error if HandlePrePrepare (or
// Propose, for the primary) has not yet been called for this attempt.
func (r *Replica) Prepare(ctx context.Context, now func() time.Time) (*types.Prepare, error) {
	r.mu.Lock()
	pp := r.log.PrePrepare
	view, seq := r.view, r.seq
	r.mu.Unlock()

	if pp == nil {
		return nil, fmt.Errorf("replica %s: prepare: no pre-prepare accepted for view %d sequence %d", r.ID, view, seq)
	}

	verdict, err := r.Evaluator.Validate(ctx, pp.Proposal)
	if err != nil {
		return nil, fmt.Errorf("replica %s: prepare: validate: %w", r.ID, err)
	}

	ts := time.Now()
	if now != nil {
		ts = now()
	}

	prepare := &types.Prepare{
		Header: types.Header{
			View:      view,
			Sequence:  seq,
			Sender:    r.ID,
			Timestamp: ts,
			Digest:    pp.Digest,
		},
		Decision:   verdict.Decision,
		Confidence: verdict.Confidence,
		Reason:     verdict.Reason,
	}

	r.mu.Lock()
	r.log.Prepares[r.ID] = prepare
	r.phase = Prepared
	r.mu.Unlock()

	return prepare, nil
}

// HandlePrepare records a peer's PREPARE vote. Votes for a mismatched
// digest are discarded — they belong to a different PRE-PREPARE than
// the one this replica accepted (invariant P4). Not called by
// consensus.Engine, which tallies PREPARE votes centrally through its
// observer participant; this is an embedder hook for a replica that
// tallies locally instead.
func (r *Replica) HandlePrepare(p *types.Prepare) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.log.PrePrepare != nil && p.Digest != r.log.PrePrepare.Digest {
		return
	}
	r.log.Prepares[p.Sender] = p
}

// Commit builds this replica's COMMIT message, carrying forward the
// verdict decided at the PREPARE phase rather than re-validating the
// proposal a second time: COMMIT attests "I saw a PREPARE quorum", it
// does not repeat the opinion poll. Neither a local re-tally of the
// replica's own PREPARE log nor a re-verification of a carried verdict
// is performed.
func (r *Replica) Commit(verdict types.Decision, now func() time.Time) *types.Commit {
	r.mu.Lock()
	defer r.mu.Unlock()

	var d types.Digest
	if r.log.PrePrepare != nil {
		d = r.log.PrePrepare.Digest
	}

	ts := time.Now()
	if now != nil {
		ts = now()
	}

	commit := &types.Commit{
		Header: types.Header{
			View:      r.view,
			Sequence:  r.seq,
			Sender:    r.ID,
			Timestamp: ts,
			Digest:    d,
		},
		Decision: verdict,
	}
	r.log.Commits[r.ID] = commit
	r.phase = Committed
	return commit
}

// HandleCommit records a peer's COMMIT message, subject to the same
// digest-matching discipline as HandlePrepare. Likewise unused by
// consensus.Engine's own (centrally tallied) commit path.
func (r *Replica) HandleCommit(c *types.Commit) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.log.PrePrepare != nil && c.Digest != r.log.PrePrepare.Digest {
		return
	}
	r.log.Commits[c.Sender] = c
}

// PrePrepareMessage returns the PRE-PREPARE accepted for the current
// attempt, or nil if none has arrived yet.
func (r *Replica) PrePrepareMessage() *types.PrePrepare {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.log.PrePrepare
}
