// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package types

import (
	"time"

	"github.com/luxfi/ids"
)

// Digest is a stable, short fingerprint correlating PREPARE and COMMIT
// messages with their originating PRE-PREPARE. It hashes only
// engine-controlled fields (view, sequence, sender, timestamp), never
// the proposal body — see digest.Compute.
type Digest [16]byte

// Header carries the fields common to every PBFT message variant.
type Header struct {
	View      uint64
	Sequence  uint64
	Sender    ids.NodeID
	Timestamp time.Time
	Digest    Digest
	Signature string
}

// PrePrepare is sent by the primary only, for a given view.
type PrePrepare struct {
	Header
	Task     Task
	Proposal Proposal
}

// Prepare is sent by a non-primary replica once it has validated the
// primary's proposal.
type Prepare struct {
	Header
	Decision   Decision
	Confidence float64
	Reason     string
}

// Commit is sent by every replica, carrying the PREPARE-phase verdict
// forward rather than re-validating the proposal a second time.
type Commit struct {
	Header
	Decision Decision
}

// ViewChange and NewView are reserved message shapes: this core
// increments the view counter directly on failure rather than
// exchanging quorum evidence, so these are defined for wire-shape
// completeness only; nothing in this module constructs or sends them.
type ViewChange struct {
	Header
	NewView    uint64
	Checkpoint string
}

type NewView struct {
	Header
	NewView    uint64
	Proof      []string
	PrePrepare *PrePrepare
}
