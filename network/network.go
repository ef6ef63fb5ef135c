// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package network simulates the lossy, variable-delay transport the
// consensus engine sends its PRE-PREPARE/PREPARE/COMMIT messages over:
// per-message iid packet loss, uniform random delay, and running
// sent/dropped counters.
package network

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/luxfi/ids"

	"github.com/lux-agents/bftagent/log"
	"github.com/lux-agents/bftagent/metrics"
)

// Envelope is one message handed to the network for delivery, opaque
// to everything below the application layer.
type Envelope struct {
	SenderID   ids.NodeID
	ReceiverID ids.NodeID
	Payload    any
	SentAt     time.Time
	ArrivesAt  time.Time
}

// Stats summarizes one Network's cumulative delivery behavior.
type Stats struct {
	TotalSent     int
	TotalDropped  int
	SuccessRate   float64
	AvgDelayRange [2]time.Duration
}

// Network is the transport a replica set is wired onto.
type Network interface {
	Register(id ids.NodeID, inbox chan<- Envelope)
	Unregister(id ids.NodeID)
	// Broadcast sends payload from sender to every registered
	// recipient except the sender (targets == nil), or exactly the
	// listed targets if provided. It returns once every delivery
	// attempt (success or drop) has been scheduled; delivery itself
	// happens asynchronously on each recipient's inbox.
	Broadcast(sender ids.NodeID, payload any, targets []ids.NodeID)
	// Unicast sends payload from sender to exactly one receiver.
	Unicast(sender, receiver ids.NodeID, payload any)
	Stats() Stats
}

// Simulated is a Network with injectable iid packet loss and uniform
// random per-message delay.
type Simulated struct {
	mu      sync.Mutex
	inboxes map[ids.NodeID]chan<- Envelope

	pLoss float64
	dMin  time.Duration
	dMax  time.Duration
	rnd   *rand.Rand

	logger  log.Logger
	metrics *metrics.Engine

	sent    int
	dropped int
}

// NewSimulated builds a simulated network. A nil rnd falls back to a
// freshly seeded generator; pass one explicitly for deterministic
// tests. A nil metricsEngine or logger is replaced with a safe default.
func NewSimulated(pLoss float64, dMin, dMax time.Duration, rnd *rand.Rand, logger log.Logger, m *metrics.Engine) *Simulated {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = log.NoOp()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &Simulated{
		inboxes: make(map[ids.NodeID]chan<- Envelope),
		pLoss:   pLoss,
		dMin:    dMin,
		dMax:    dMax,
		rnd:     rnd,
		logger:  logger,
		metrics: m,
	}
}

func (s *Simulated) Register(id ids.NodeID, inbox chan<- Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inboxes[id] = inbox
}

func (s *Simulated) Unregister(id ids.NodeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inboxes, id)
}

func (s *Simulated) delay() time.Duration {
	if s.dMax <= s.dMin {
		return s.dMin
	}
	span := s.dMax - s.dMin
	return s.dMin + time.Duration(s.rnd.Int64N(int64(span)))
}

func (s *Simulated) deliverOne(sender, receiver ids.NodeID, payload any) {
	s.mu.Lock()
	drop := s.rnd.Float64() < s.pLoss
	inbox, ok := s.inboxes[receiver]
	s.sent++
	if drop || !ok {
		s.dropped++
	}
	d := s.delay()
	s.mu.Unlock()

	s.metrics.ObserveMessagesSent(1)

	if drop || !ok {
		s.logger.Debug("message dropped", "sender", sender.String(), "receiver", receiver.String())
		return
	}

	now := time.Now()
	env := Envelope{SenderID: sender, ReceiverID: receiver, Payload: payload, SentAt: now, ArrivesAt: now.Add(d)}

	go func() {
		timer := time.NewTimer(d)
		defer timer.Stop()
		<-timer.C
		select {
		case inbox <- env:
		default:
			// Recipient inbox is full (or nil); discard the message
			// rather than block forever. This discard is not counted
			// in the dropped total.
		}
	}()
}

func (s *Simulated) Broadcast(sender ids.NodeID, payload any, targets []ids.NodeID) {
	if targets == nil {
		s.mu.Lock()
		targets = make([]ids.NodeID, 0, len(s.inboxes))
		for id := range s.inboxes {
			if id != sender {
				targets = append(targets, id)
			}
		}
		s.mu.Unlock()
	}
	for _, t := range targets {
		s.deliverOne(sender, t, payload)
	}
}

func (s *Simulated) Unicast(sender, receiver ids.NodeID, payload any) {
	s.deliverOne(sender, receiver, payload)
}

func (s *Simulated) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	successRate := 1.0
	if s.sent > 0 {
		successRate = float64(s.sent-s.dropped) / float64(s.sent)
	}
	return Stats{
		TotalSent:     s.sent,
		TotalDropped:  s.dropped,
		SuccessRate:   successRate,
		AvgDelayRange: [2]time.Duration{s.dMin, s.dMax},
	}
}
