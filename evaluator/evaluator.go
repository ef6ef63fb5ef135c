// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package evaluator defines the opaque oracle each replica consults: a
// two-operation contract to propose an answer as primary, and
// validate a proposal as backup.
package evaluator

import (
	"context"

	"github.com/lux-agents/bftagent/types"
)

// Evaluator is the non-deterministic oracle a replica wraps. Two
// evaluators over the same task may legitimately disagree; the engine
// never second-guesses what one returns.
type Evaluator interface {
	// Propose produces a proposal for task. Only called on the replica
	// acting as primary for the current view.
	Propose(ctx context.Context, task types.Task) (types.Proposal, error)

	// Validate decides whether this replica accepts proposal.
	Validate(ctx context.Context, proposal types.Proposal) (types.Verdict, error)

	// HealthCheck reports whether the evaluator is able to serve
	// requests. The engine does not call this itself — it exists for
	// embedders that want to pre-flight a replica set.
	HealthCheck(ctx context.Context) bool
}

// Error wraps a Propose/Validate failure with a Transient flag so an
// embedding application can decide whether to retry the evaluator
// itself before the next round. The engine ignores Transient: a
// Propose error aborts the attempt and triggers a view change, and a
// Validate error leaves that replica's PREPARE vote missing.
type Error struct {
	Op        string // "propose" or "validate"
	Transient bool
	Err       error
}

func (e *Error) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return "evaluator: " + e.Op + ": " + kind + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// ErrTransient and ErrPermanent are sentinels an Error matches (via
// its Is method) so callers can classify failures with errors.Is
// without inspecting the Transient field directly.
var (
	ErrTransient = transientSentinel{}
	ErrPermanent = permanentSentinel{}
)

type transientSentinel struct{}

func (transientSentinel) Error() string { return "evaluator: transient failure" }

type permanentSentinel struct{}

func (permanentSentinel) Error() string { return "evaluator: permanent failure" }

// Is implements errors.Is support: an *Error matches ErrTransient or
// ErrPermanent according to its Transient flag.
func (e *Error) Is(target error) bool {
	switch target.(type) {
	case transientSentinel:
		return e.Transient
	case permanentSentinel:
		return !e.Transient
	}
	return false
}
