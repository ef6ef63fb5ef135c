// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package evaluator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/lux-agents/bftagent/types"
)

var arithmetic Compute = func(content string) (string, []string) {
	return "4", []string{"analyze problem", "compute result"}
}

func TestHonestProposeAndValidateAgree(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	leader := NewHonest(ids.NodeID{1}, arithmetic)
	backup := NewHonest(ids.NodeID{2}, arithmetic)

	proposal, err := leader.Propose(ctx, types.Task{ID: "m1", Content: "2+2=?"})
	require.NoError(err)
	require.Equal("4", proposal.Answer)

	verdict, err := backup.Validate(ctx, proposal)
	require.NoError(err)
	require.Equal(types.DecisionY, verdict.Decision)
}

func TestDeterministicWrongAlwaysProposesConfiguredAnswer(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	primary := NewDeterministicWrong(ids.NodeID{1}, map[string]string{"m1": "5"}, "unknown")
	proposal, err := primary.Propose(ctx, types.Task{ID: "m1", Content: "2+2=?"})
	require.NoError(err)
	require.Equal("5", proposal.Answer)

	honestBackup := NewHonest(ids.NodeID{2}, arithmetic)
	verdict, err := honestBackup.Validate(ctx, proposal)
	require.NoError(err)
	require.Equal(types.DecisionN, verdict.Decision)
}

func TestColludingVotesYOnlyForPeers(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	maliciousLeader := ids.NodeID{9}
	honestLeader := ids.NodeID{1}
	colluder := NewColluding(ids.NodeID{10}, []ids.NodeID{maliciousLeader}, "wrong")

	verdict, err := colluder.Validate(ctx, types.Proposal{LeaderID: maliciousLeader})
	require.NoError(err)
	require.Equal(types.DecisionY, verdict.Decision)

	verdict, err = colluder.Validate(ctx, types.Proposal{LeaderID: honestLeader})
	require.NoError(err)
	require.Equal(types.DecisionN, verdict.Decision)
}

func TestUnresponsivePropose(t *testing.T) {
	require := require.New(t)

	_, err := Unresponsive{}.Propose(context.Background(), types.Task{})
	require.Error(err)

	var evalErr *Error
	require.True(errors.As(err, &evalErr))
	require.True(evalErr.Transient)
	require.ErrorIs(err, ErrTransient)
}

func TestWithLatencyRespectsContextCancellation(t *testing.T) {
	require := require.New(t)

	slow := WithLatency(NewHonest(ids.NodeID{1}, arithmetic), func() time.Duration {
		return time.Hour
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := slow.Propose(ctx, types.Task{ID: "m1", Content: "2+2=?"})
	require.ErrorIs(err, context.DeadlineExceeded)
}
