// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"time"

	"github.com/luxfi/ids"
)

// Proposal is produced by a primary's evaluator for one task. It is
// immutable once produced; the engine treats every field as opaque
// except Answer (compared byte-wise by downstream consumers) and
// Confidence (informational only).
type Proposal struct {
	TaskID       string
	TaskContent  string
	LeaderID     ids.NodeID
	Reasoning    []string
	Answer       string
	Confidence   float64
	Timestamp    time.Time
	SpecialtyTag string
}

// Decision is a PREPARE/COMMIT vote: accept or reject the proposal
// under tally.
type Decision string

const (
	DecisionY Decision = "Y"
	DecisionN Decision = "N"
)

// Verdict is the outcome of a proposal validation: the replica's
// opinion, a confidence score and a human-readable reason. The engine
// imposes no semantic constraint on any of these.
type Verdict struct {
	Decision   Decision
	Confidence float64
	Reason     string
}
