// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package quorum

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/lux-agents/bftagent/types"
)

func TestTallyAcceptsAtCommitQuorum(t *testing.T) {
	require := require.New(t)

	d := types.Digest{1}
	tally := New(1, d, 3, 2) // n=5,f=1: commitQuorum=2f+1=3, rejectThresh=f+1=2

	for i := 0; i < 2; i++ {
		tally.Add(ids.NodeID{byte(i)}, 1, d, types.DecisionY)
		require.Equal(Pending, tally.Check().Verdict)
	}

	tally.Add(ids.NodeID{2}, 1, d, types.DecisionY)
	result := tally.Check()
	require.Equal(Accepted, result.Verdict)
	require.Equal(3, result.YesCount)
}

func TestTallyRejectsAtRejectThreshold(t *testing.T) {
	require := require.New(t)

	d := types.Digest{2}
	tally := New(1, d, 3, 2)

	tally.Add(ids.NodeID{0}, 1, d, types.DecisionN)
	require.Equal(Pending, tally.Check().Verdict)

	tally.Add(ids.NodeID{1}, 1, d, types.DecisionN)
	require.Equal(Rejected, tally.Check().Verdict)
}

func TestTallyIgnoresCrossDigestVotes(t *testing.T) {
	require := require.New(t)

	d := types.Digest{3}
	other := types.Digest{4}
	tally := New(1, d, 2, 2)

	tally.Add(ids.NodeID{0}, 1, other, types.DecisionY)
	tally.Add(ids.NodeID{1}, 2, d, types.DecisionY)
	require.Equal(Pending, tally.Check().Verdict)
	require.Equal(0, tally.Check().YesCount)
}

func TestTallyDuplicateVoteOverwritesNotDoubleCounts(t *testing.T) {
	require := require.New(t)

	d := types.Digest{5}
	tally := New(1, d, 2, 2)

	voter := ids.NodeID{9}
	tally.Add(voter, 1, d, types.DecisionY)
	tally.Add(voter, 1, d, types.DecisionN)

	result := tally.Check()
	require.Equal(0, result.YesCount)
	require.Equal(1, result.NoCount)
}

func TestTallyClosedVerdictDoesNotFlip(t *testing.T) {
	require := require.New(t)

	d := types.Digest{6}
	tally := New(1, d, 2, 3)

	tally.Add(ids.NodeID{0}, 1, d, types.DecisionY)
	tally.Add(ids.NodeID{1}, 1, d, types.DecisionY)
	require.Equal(Accepted, tally.Check().Verdict)

	// Late N votes arrive after the verdict closed; they are recorded
	// for observability but must not flip the declared verdict.
	tally.Add(ids.NodeID{2}, 1, d, types.DecisionN)
	tally.Add(ids.NodeID{3}, 1, d, types.DecisionN)
	tally.Add(ids.NodeID{4}, 1, d, types.DecisionN)
	require.Equal(Accepted, tally.Check().Verdict)
}

func TestTallyReset(t *testing.T) {
	require := require.New(t)

	d := types.Digest{7}
	tally := New(1, d, 2, 2)
	tally.Add(ids.NodeID{0}, 1, d, types.DecisionY)

	next := types.Digest{8}
	tally.Reset(2, next)

	result := tally.Check()
	require.Equal(Pending, result.Verdict)
	require.Equal(0, result.YesCount)
	require.Equal(0, result.NoCount)
}
