// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package evaluator

import (
	"context"
	"errors"
	"time"

	"github.com/lux-agents/bftagent/types"
)

// WithLatency wraps an Evaluator so every Propose/Validate call sleeps
// for dist() before delegating, or returns ctx.Err() if the context is
// cancelled first. This models a real hosted evaluator that is slow,
// not absent — the reason the engine's vote collection keeps a grace
// window open after its main timeout.
func WithLatency(inner Evaluator, dist func() time.Duration) Evaluator {
	return &latencyWrapped{inner: inner, dist: dist}
}

type latencyWrapped struct {
	inner Evaluator
	dist  func() time.Duration
}

func (l *latencyWrapped) sleep(ctx context.Context) error {
	timer := time.NewTimer(l.dist())
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *latencyWrapped) Propose(ctx context.Context, task types.Task) (types.Proposal, error) {
	if err := l.sleep(ctx); err != nil {
		return types.Proposal{}, err
	}
	return l.inner.Propose(ctx, task)
}

func (l *latencyWrapped) Validate(ctx context.Context, proposal types.Proposal) (types.Verdict, error) {
	if err := l.sleep(ctx); err != nil {
		return types.Verdict{}, err
	}
	return l.inner.Validate(ctx, proposal)
}

func (l *latencyWrapped) HealthCheck(ctx context.Context) bool {
	return l.inner.HealthCheck(ctx)
}

// Unresponsive always fails Propose and Validate: an unresponsive
// primary never emits a PRE-PREPARE.
type Unresponsive struct{}

func (Unresponsive) Propose(context.Context, types.Task) (types.Proposal, error) {
	return types.Proposal{}, &Error{Op: "propose", Transient: true, Err: errors.New("evaluator did not respond")}
}

func (Unresponsive) Validate(context.Context, types.Proposal) (types.Verdict, error) {
	return types.Verdict{}, &Error{Op: "validate", Transient: true, Err: errors.New("evaluator did not respond")}
}

func (Unresponsive) HealthCheck(context.Context) bool { return false }
