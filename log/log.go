// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package log re-exports the github.com/luxfi/log.Logger interface
// this module's packages take as a dependency, so embedders never
// need to import luxfi/log directly just to wire one in.
package log

import (
	luxlog "github.com/luxfi/log"
)

// Logger is the structured logger every engine/replica/network
// constructor accepts. Those constructors replace a nil Logger with
// NoOp().
type Logger = luxlog.Logger

// NoOp returns a Logger that discards everything.
func NoOp() Logger {
	return luxlog.NewNoOpLogger()
}
