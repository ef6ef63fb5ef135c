// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package network

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"
)

func TestSimulatedBroadcastDeliversToAllButSender(t *testing.T) {
	require := require.New(t)

	net := NewSimulated(0, time.Millisecond, 2*time.Millisecond, rand.New(rand.NewPCG(1, 1)), nil, nil)

	a, b, c := ids.NodeID{1}, ids.NodeID{2}, ids.NodeID{3}
	inboxA := make(chan Envelope, 4)
	inboxB := make(chan Envelope, 4)
	inboxC := make(chan Envelope, 4)
	net.Register(a, inboxA)
	net.Register(b, inboxB)
	net.Register(c, inboxC)

	net.Broadcast(a, "hello", nil)

	select {
	case env := <-inboxB:
		require.Equal("hello", env.Payload)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery to b")
	}
	select {
	case env := <-inboxC:
		require.Equal("hello", env.Payload)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery to c")
	}
	select {
	case <-inboxA:
		t.Fatal("sender should not receive its own broadcast")
	default:
	}
}

func TestSimulatedFullLossDropsEverything(t *testing.T) {
	require := require.New(t)

	net := NewSimulated(1.0, time.Millisecond, time.Millisecond, rand.New(rand.NewPCG(2, 2)), nil, nil)

	a, b := ids.NodeID{1}, ids.NodeID{2}
	inboxB := make(chan Envelope, 4)
	net.Register(a, nil)
	net.Register(b, inboxB)

	net.Unicast(a, b, "ping")
	time.Sleep(20 * time.Millisecond)

	select {
	case <-inboxB:
		t.Fatal("expected message to be dropped")
	default:
	}

	stats := net.Stats()
	require.Equal(1, stats.TotalSent)
	require.Equal(1, stats.TotalDropped)
	require.Equal(0.0, stats.SuccessRate)
}

func TestSimulatedStatsSuccessRate(t *testing.T) {
	require := require.New(t)

	net := NewSimulated(0, time.Millisecond, time.Millisecond, rand.New(rand.NewPCG(3, 3)), nil, nil)
	a, b := ids.NodeID{1}, ids.NodeID{2}
	inboxB := make(chan Envelope, 4)
	net.Register(a, nil)
	net.Register(b, inboxB)

	net.Unicast(a, b, "ping")
	time.Sleep(20 * time.Millisecond)

	stats := net.Stats()
	require.Equal(1, stats.TotalSent)
	require.Equal(0, stats.TotalDropped)
	require.Equal(1.0, stats.SuccessRate)
}
