// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package evaluator

import (
	"context"
	"time"

	"github.com/luxfi/ids"

	"github.com/lux-agents/bftagent/types"
)

// DeterministicWrong always proposes a hard-coded wrong answer, keyed
// per task ID with a fallback default. It validates Y for any proposal
// it authored itself and N otherwise: a malicious leader never
// second-guesses its own proposal.
type DeterministicWrong struct {
	ID ids.NodeID

	// WrongAnswers maps a task ID to the answer this evaluator always
	// proposes for it. DefaultWrongAnswer is used when the task ID has
	// no entry.
	WrongAnswers       map[string]string
	DefaultWrongAnswer string
}

func NewDeterministicWrong(id ids.NodeID, wrongAnswers map[string]string, defaultAnswer string) *DeterministicWrong {
	return &DeterministicWrong{ID: id, WrongAnswers: wrongAnswers, DefaultWrongAnswer: defaultAnswer}
}

func (d *DeterministicWrong) answerFor(taskID string) string {
	if a, ok := d.WrongAnswers[taskID]; ok {
		return a
	}
	if d.DefaultWrongAnswer != "" {
		return d.DefaultWrongAnswer
	}
	return "wrong-answer"
}

func (d *DeterministicWrong) Propose(_ context.Context, task types.Task) (types.Proposal, error) {
	return types.Proposal{
		TaskID:      task.ID,
		TaskContent: task.Content,
		LeaderID:    d.ID,
		Reasoning:   []string{"applying solution strategy"},
		Answer:      d.answerFor(task.ID),
		Confidence:  0.95, // high confidence to mislead honest backups
		Timestamp:   time.Now(),
	}, nil
}

func (d *DeterministicWrong) Validate(_ context.Context, proposal types.Proposal) (types.Verdict, error) {
	if proposal.LeaderID == d.ID {
		return types.Verdict{Decision: types.DecisionY, Confidence: 0.95, Reason: "own proposal"}, nil
	}
	return types.Verdict{Decision: types.DecisionN, Confidence: 0.8, Reason: "not the proposal this evaluator would have made"}, nil
}

func (d *DeterministicWrong) HealthCheck(context.Context) bool { return true }
