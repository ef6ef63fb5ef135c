// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package evaluator

import (
	"context"
	"time"

	"github.com/luxfi/ids"

	"github.com/lux-agents/bftagent/types"
)

// Compute is the function an Honest evaluator calls to turn a task's
// content into an answer and a diagnostic reasoning trail. NewHonest
// falls back to a constant answer when none is supplied; a real
// evaluator can be substituted.
type Compute func(content string) (answer string, reasoning []string)

// Honest computes proposals from the task content and validates any
// proposal whose answer agrees with what it would itself have
// proposed.
type Honest struct {
	ID      ids.NodeID
	Compute Compute
}

// NewHonest builds an Honest evaluator. A nil compute falls back to a
// fixed "honest-default" answer, useful when every replica in a test
// is expected to agree.
func NewHonest(id ids.NodeID, compute Compute) *Honest {
	if compute == nil {
		compute = func(content string) (string, []string) {
			return "honest-default", []string{"no compute function configured"}
		}
	}
	return &Honest{ID: id, Compute: compute}
}

func (h *Honest) Propose(_ context.Context, task types.Task) (types.Proposal, error) {
	answer, reasoning := h.Compute(task.Content)
	return types.Proposal{
		TaskID:      task.ID,
		TaskContent: task.Content,
		LeaderID:    h.ID,
		Reasoning:   reasoning,
		Answer:      answer,
		Confidence:  0.95,
		Timestamp:   time.Now(),
	}, nil
}

func (h *Honest) Validate(_ context.Context, proposal types.Proposal) (types.Verdict, error) {
	answer, _ := h.Compute(proposal.TaskContent)
	if answer == proposal.Answer {
		return types.Verdict{Decision: types.DecisionY, Confidence: 0.9, Reason: "matches own computation"}, nil
	}
	return types.Verdict{Decision: types.DecisionN, Confidence: 0.9, Reason: "disagrees with own computation"}, nil
}

func (h *Honest) HealthCheck(context.Context) bool { return true }
