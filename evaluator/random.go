// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package evaluator

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/luxfi/ids"

	"github.com/lux-agents/bftagent/types"
)

// Random proposes or votes Y/N by coin flip regardless of task
// content. Rand is injectable for deterministic tests; a nil Rand
// falls back to the package-level source.
type Random struct {
	ID   ids.NodeID
	Rand *rand.Rand
}

func NewRandom(id ids.NodeID, source *rand.Rand) *Random {
	return &Random{ID: id, Rand: source}
}

func (r *Random) float() float64 {
	if r.Rand != nil {
		return r.Rand.Float64()
	}
	return rand.Float64()
}

func (r *Random) Propose(_ context.Context, task types.Task) (types.Proposal, error) {
	answer := "random-answer"
	if r.float() < 0.5 {
		answer = "random-answer-alt"
	}
	return types.Proposal{
		TaskID:      task.ID,
		TaskContent: task.Content,
		LeaderID:    r.ID,
		Reasoning:   []string{"random choice"},
		Answer:      answer,
		Confidence:  r.float(),
		Timestamp:   time.Now(),
	}, nil
}

func (r *Random) Validate(context.Context, types.Proposal) (types.Verdict, error) {
	decision := types.DecisionN
	if r.float() < 0.5 {
		decision = types.DecisionY
	}
	return types.Verdict{Decision: decision, Confidence: r.float(), Reason: "random vote"}, nil
}

func (r *Random) HealthCheck(context.Context) bool { return true }
