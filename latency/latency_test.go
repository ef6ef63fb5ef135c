// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package latency

import (
	"testing"
	"time"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func TestTrackerQuorumArrivalTime(t *testing.T) {
	require := require.New(t)

	start := time.Now()
	tr := New(0, 1, nil)
	tr.StartPhase("prepare", start)

	tr.RecordVote("prepare", ids.NodeID{1}, start.Add(30*time.Millisecond))
	tr.RecordVote("prepare", ids.NodeID{2}, start.Add(10*time.Millisecond))
	tr.RecordVote("prepare", ids.NodeID{3}, start.Add(20*time.Millisecond))

	report := tr.Report()
	pt := report.Phases["prepare"]
	require.NotNil(pt)
	require.Len(pt.Votes, 3)

	require.Equal(start.Add(10*time.Millisecond), pt.QuorumArrivalTime(1))
	require.Equal(start.Add(20*time.Millisecond), pt.QuorumArrivalTime(2))
	require.Equal(start.Add(30*time.Millisecond), pt.QuorumArrivalTime(3))
	require.True(pt.QuorumArrivalTime(4).IsZero())
}

func TestNilTrackerIsSafe(t *testing.T) {
	var tr *Tracker
	tr.StartPhase("prepare", time.Now())
	tr.RecordVote("prepare", ids.NodeID{1}, time.Now())
	tr.ClosePhase("prepare", time.Now())
	require.Equal(t, Report{}, tr.Report())
}
