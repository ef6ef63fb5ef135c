// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package types holds the wire-shaped records exchanged by the
// consensus engine: tasks, proposals, digests and the PBFT-style
// message family.
package types

// Task is the immutable input a primary's evaluator proposes an
// answer for. It is opaque to the engine beyond ID and Content; Type
// and Extra are passed through to evaluators unchanged.
type Task struct {
	ID      string
	Content string
	Type    string
	Extra   map[string]any
}
