// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import (
	"context"
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lux-agents/bftagent/evaluator"
	"github.com/lux-agents/bftagent/evaluator/evaluatormock"
	"github.com/lux-agents/bftagent/types"
)

// TestEngineRunWithScriptedEvaluator exercises a replica set where the
// primary's evaluator is a gomock double with a scripted Propose call,
// rather than one of the evaluator package's concrete policies —
// useful when a test cares only about the exact proposal returned and
// not about any particular evaluator's internal logic.
func TestEngineRunWithScriptedEvaluator(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)

	ids4 := nodeIDs(4)
	primaryID := ids4[0]

	scripted := evaluatormock.NewEvaluator(ctrl)
	scriptedProposal := types.Proposal{Answer: "scripted-answer", Confidence: 1}
	scripted.EXPECT().
		Propose(gomock.Any(), gomock.Any()).
		Return(scriptedProposal, nil).
		Times(1)

	evals := map[ids.NodeID]evaluator.Evaluator{primaryID: scripted}
	for _, id := range ids4[1:] {
		evals[id] = evaluator.NewPermissive(id, arithmetic)
	}

	eng, err := NewEngine(fastParams(4), ids4, evals, nil, nil)
	require.NoError(err)

	result, err := eng.Run(context.Background(), types.Task{ID: "m1", Content: "2+2=?"})
	require.NoError(err)
	require.Equal(types.DecisionY, result.Decision())
	require.Equal("scripted-answer", result.Proposal.Answer)
}
