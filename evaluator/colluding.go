// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package evaluator

import (
	"context"
	"time"

	"github.com/luxfi/ids"

	"github.com/lux-agents/bftagent/types"
)

// Colluding votes Y whenever the proposal's leader is a known peer or
// this evaluator itself, and N otherwise, regardless of the proposal's
// actual content: a
// peer-aware colluding policy grounded in agents.py's
// _malicious_vote_with_strategy.
type Colluding struct {
	ID    ids.NodeID
	Peers map[ids.NodeID]struct{}

	// Answer is what this evaluator proposes when acting as primary.
	Answer string
}

func NewColluding(id ids.NodeID, peers []ids.NodeID, answer string) *Colluding {
	set := make(map[ids.NodeID]struct{}, len(peers))
	for _, p := range peers {
		set[p] = struct{}{}
	}
	return &Colluding{ID: id, Peers: set, Answer: answer}
}

func (c *Colluding) Propose(_ context.Context, task types.Task) (types.Proposal, error) {
	return types.Proposal{
		TaskID:      task.ID,
		TaskContent: task.Content,
		LeaderID:    c.ID,
		Reasoning:   []string{"colluding proposal"},
		Answer:      c.Answer,
		Confidence:  0.95,
		Timestamp:   time.Now(),
	}, nil
}

func (c *Colluding) Validate(_ context.Context, proposal types.Proposal) (types.Verdict, error) {
	if _, ok := c.Peers[proposal.LeaderID]; ok || proposal.LeaderID == c.ID {
		return types.Verdict{Decision: types.DecisionY, Confidence: 0.95, Reason: "leader is a known peer"}, nil
	}
	return types.Verdict{Decision: types.DecisionN, Confidence: 0.95, Reason: "leader is not a known peer"}, nil
}

func (c *Colluding) HealthCheck(context.Context) bool { return true }
