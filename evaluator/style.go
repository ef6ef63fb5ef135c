// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package evaluator

import (
	"context"

	"github.com/luxfi/ids"

	"github.com/lux-agents/bftagent/types"
)

// Permissive wraps an honest Compute but validates every proposal Y
// regardless of content: a backup that never independently
// second-guesses whatever the primary proposed.
type Permissive struct {
	ID      ids.NodeID
	Compute Compute
}

func NewPermissive(id ids.NodeID, compute Compute) *Permissive {
	return &Permissive{ID: id, Compute: compute}
}

func (p *Permissive) Propose(ctx context.Context, task types.Task) (types.Proposal, error) {
	return (&Honest{ID: p.ID, Compute: p.Compute}).Propose(ctx, task)
}

func (p *Permissive) Validate(context.Context, types.Proposal) (types.Verdict, error) {
	return types.Verdict{Decision: types.DecisionY, Confidence: 0.6, Reason: "permissive: accepted without independent verification"}, nil
}

func (p *Permissive) HealthCheck(context.Context) bool { return true }

// Strict validates N whenever a proposal's confidence falls below a
// configured floor, regardless of whether its answer agrees.
type Strict struct {
	ID              ids.NodeID
	Compute         Compute
	ConfidenceFloor float64
}

func NewStrict(id ids.NodeID, compute Compute, confidenceFloor float64) *Strict {
	return &Strict{ID: id, Compute: compute, ConfidenceFloor: confidenceFloor}
}

func (s *Strict) Propose(ctx context.Context, task types.Task) (types.Proposal, error) {
	return (&Honest{ID: s.ID, Compute: s.Compute}).Propose(ctx, task)
}

func (s *Strict) Validate(ctx context.Context, proposal types.Proposal) (types.Verdict, error) {
	if proposal.Confidence < s.ConfidenceFloor {
		return types.Verdict{Decision: types.DecisionN, Confidence: 0.9, Reason: "confidence below strict floor"}, nil
	}
	return (&Honest{ID: s.ID, Compute: s.Compute}).Validate(ctx, proposal)
}

func (s *Strict) HealthCheck(context.Context) bool { return true }
