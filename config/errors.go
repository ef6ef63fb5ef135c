// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import "errors"

var (
	ErrTooFewReplicas         = errors.New("config: n must be >= 1")
	ErrFaultToleranceTooHigh  = errors.New("config: f exceeds floor((n-1)/3)")
	ErrFaultToleranceNegative = errors.New("config: f must be >= 0")
	ErrTimeoutTooLow          = errors.New("config: timeout must be > 0")
	ErrMaxRetriesTooLow       = errors.New("config: max_retries must be >= 1")
	ErrInvalidLossProbability = errors.New("config: p_loss must be in [0, 1]")
	ErrInvalidDelayRange      = errors.New("config: d_min must be <= d_max, both >= 0")
)
