// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package replica

import (
	"github.com/luxfi/ids"

	"github.com/lux-agents/bftagent/types"
)

// Log holds the messages a replica has observed for one (view,
// sequence) attempt.
type Log struct {
	PrePrepare *types.PrePrepare
	Prepares   map[ids.NodeID]*types.Prepare
	Commits    map[ids.NodeID]*types.Commit

	// ViewChanges is reserved wire-shape bookkeeping: this core never
	// exchanges VIEW-CHANGE quorum evidence, so nothing ever populates
	// it, but the slot exists for an embedder that wants to record what
	// it received.
	ViewChanges map[ids.NodeID]*types.ViewChange
}

func newLog() *Log {
	return &Log{
		Prepares:    make(map[ids.NodeID]*types.Prepare),
		Commits:     make(map[ids.NodeID]*types.Commit),
		ViewChanges: make(map[ids.NodeID]*types.ViewChange),
	}
}
