// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package replica

import (
	"context"
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/lux-agents/bftagent/evaluator"
	"github.com/lux-agents/bftagent/types"
)

func compute(content string) (string, []string) { return "42", []string{"computed"} }

func TestReplicaPrimaryRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	primaryID := ids.NodeID{1}
	backupID := ids.NodeID{2}

	primary := New(primaryID, evaluator.NewHonest(primaryID, compute), nil)
	backup := New(backupID, evaluator.NewHonest(backupID, compute), nil)

	primary.BeginAttempt(0, 1)
	backup.BeginAttempt(0, 1)

	pp, err := primary.Propose(ctx, types.Task{ID: "t1", Content: "2+2"})
	require.NoError(err)
	require.Equal(PrePrepared, primary.Phase())

	backup.HandlePrePrepare(pp)
	require.Equal(PrePrepared, backup.Phase())

	prepare, err := backup.Prepare(ctx, nil)
	require.NoError(err)
	require.Equal(types.DecisionY, prepare.Decision)
	require.Equal(Prepared, backup.Phase())

	commit := backup.Commit(prepare.Decision, nil)
	require.Equal(types.DecisionY, commit.Decision)
	require.Equal(Committed, backup.Phase())
	require.Equal(pp.Digest, commit.Digest)
}

func TestReplicaDuplicatePrePrepareIgnored(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	primaryID := ids.NodeID{1}
	backupID := ids.NodeID{2}

	primary := New(primaryID, evaluator.NewHonest(primaryID, compute), nil)
	backup := New(backupID, evaluator.NewHonest(backupID, compute), nil)

	primary.BeginAttempt(0, 1)
	backup.BeginAttempt(0, 1)

	first, err := primary.Propose(ctx, types.Task{ID: "t1", Content: "2+2"})
	require.NoError(err)
	backup.HandlePrePrepare(first)

	impostor := *first
	impostor.Sender = ids.NodeID{9}
	impostor.Proposal.Answer = "99"
	backup.HandlePrePrepare(&impostor)

	require.Equal(first, backup.PrePrepareMessage())
}

func TestReplicaPrepareWithoutPrePrepareErrors(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	id := ids.NodeID{3}
	r := New(id, evaluator.NewHonest(id, compute), nil)
	r.BeginAttempt(0, 1)

	_, err := r.Prepare(ctx, nil)
	require.Error(err)
}

func TestReplicaHandlePrepareDiscardsMismatchedDigest(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	primaryID := ids.NodeID{1}
	backupID := ids.NodeID{2}

	primary := New(primaryID, evaluator.NewHonest(primaryID, compute), nil)
	backup := New(backupID, evaluator.NewHonest(backupID, compute), nil)

	primary.BeginAttempt(0, 1)
	backup.BeginAttempt(0, 1)

	pp, err := primary.Propose(ctx, types.Task{ID: "t1", Content: "2+2"})
	require.NoError(err)
	backup.HandlePrePrepare(pp)

	mismatched := &types.Prepare{
		Header:   types.Header{Sender: ids.NodeID{7}, Digest: types.Digest{0xFF}},
		Decision: types.DecisionY,
	}
	backup.HandlePrepare(mismatched)

	require.NotContains(backup.log.Prepares, ids.NodeID{7})
}
