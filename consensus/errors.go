// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import "errors"

var (
	// ErrNoReplicas is returned by NewEngine when no replica IDs are supplied.
	ErrNoReplicas = errors.New("consensus: engine requires at least one replica")

	// ErrMissingEvaluator is returned by NewEngine when a replica ID has
	// no corresponding entry in the evaluators map.
	ErrMissingEvaluator = errors.New("consensus: replica has no evaluator configured")

	// ErrNoQuorum is returned by Run when every one of its MaxRetries
	// attempts (one per view, each failure followed by a view change)
	// failed to reach a commit quorum.
	ErrNoQuorum = errors.New("consensus: no quorum reached within retry budget")
)
