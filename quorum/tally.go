// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package quorum counts Y/N votes for a single (sequence, digest) pair
// and reports whether either threshold has been crossed: commitQuorum
// Y votes to proceed, rejectThreshold N votes to abort.
package quorum

import (
	"sync"

	"github.com/luxfi/ids"

	"github.com/lux-agents/bftagent/types"
)

// Verdict is the outcome of a Tally.Check call.
type Verdict int

const (
	// Pending means neither threshold has been reached yet.
	Pending Verdict = iota
	// Accepted means commitQuorum Y votes were observed.
	Accepted
	// Rejected means rejectThreshold N votes were observed.
	Rejected
)

// Result snapshots a Tally's current counts alongside its verdict.
type Result struct {
	Verdict      Verdict
	YesCount     int
	NoCount      int
	YesVoters    []ids.NodeID
	NoVoters     []ids.NodeID
	CommitQuorum int
	RejectThresh int
}

// Tally records one vote per sender for a given (sequence, digest) and
// evaluates the PREPARE/COMMIT thresholds: Y needs commitQuorum
// (2f+1), rejection needs rejectThreshold (f+1).
//
// A vote whose own digest does not match the tally's digest is
// ignored: votes never contribute to a quorum for a different
// proposal.
type Tally struct {
	mu sync.Mutex

	sequence     uint64
	digest       types.Digest
	commitQuorum int
	rejectThresh int

	votes map[ids.NodeID]types.Decision
	yes   int
	no    int

	closed        bool    // true once a verdict has been declared; late votes still recorded, never re-open the tally.
	closedVerdict Verdict // the verdict frozen at closing time.
}

// New creates a Tally for one (sequence, digest) pair.
func New(sequence uint64, digest types.Digest, commitQuorum, rejectThresh int) *Tally {
	return &Tally{
		sequence:     sequence,
		digest:       digest,
		commitQuorum: commitQuorum,
		rejectThresh: rejectThresh,
		votes:        make(map[ids.NodeID]types.Decision),
	}
}

// Add records a vote from sender for the given (sequence, digest).
// Votes for a different sequence or digest are discarded silently —
// they cannot contribute to this tally's quorum (invariant P4).
// A sender that has already voted has its vote overwritten (self-
// healing against duplicate messages, per spec §4.2).
func (t *Tally) Add(sender ids.NodeID, sequence uint64, digest types.Digest, decision types.Decision) {
	if sequence != t.sequence || digest != t.digest {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.votes[sender]; ok {
		t.adjust(prev, -1)
	}
	t.votes[sender] = decision
	t.adjust(decision, 1)
}

func (t *Tally) adjust(d types.Decision, delta int) {
	if d == types.DecisionY {
		t.yes += delta
	} else {
		t.no += delta
	}
}

// Check returns the tally's current result. Once a Verdict other than
// Pending has been observed by a caller, subsequent Add calls are
// still recorded (for latency/observability purposes) but Check keeps
// returning the first declared verdict: a late vote can never reopen
// a phase that has already closed.
func (t *Tally) Check() Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := Result{
		YesCount:     t.yes,
		NoCount:      t.no,
		CommitQuorum: t.commitQuorum,
		RejectThresh: t.rejectThresh,
	}
	for id, d := range t.votes {
		if d == types.DecisionY {
			result.YesVoters = append(result.YesVoters, id)
		} else {
			result.NoVoters = append(result.NoVoters, id)
		}
	}

	switch {
	case t.closed:
		result.Verdict = t.closedVerdict
	case t.yes >= t.commitQuorum:
		t.closed = true
		t.closedVerdict = Accepted
		result.Verdict = Accepted
	case t.no >= t.rejectThresh:
		t.closed = true
		t.closedVerdict = Rejected
		result.Verdict = Rejected
	default:
		result.Verdict = Pending
	}
	return result
}

// Reset clears all recorded votes so the Tally can be reused for a
// fresh attempt under a new sequence/digest.
func (t *Tally) Reset(sequence uint64, digest types.Digest) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sequence = sequence
	t.digest = digest
	t.votes = make(map[ids.NodeID]types.Decision)
	t.yes = 0
	t.no = 0
	t.closed = false
}
