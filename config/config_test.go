// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestForReplicaCountDerivesFaultTolerance(t *testing.T) {
	p := ForReplicaCount(5)
	require.Equal(t, 1, p.FaultTolerance())
	require.Equal(t, 3, p.CommitQuorum())  // 2f+1
	require.Equal(t, 2, p.RejectThreshold()) // f+1
}

func TestFaultToleranceOverride(t *testing.T) {
	p := ForReplicaCount(7)
	p.F = 1 // override below floor((7-1)/3)=2
	require.Equal(t, 1, p.FaultTolerance())
	require.Equal(t, 3, p.CommitQuorum())
}

func TestValidateRejectsBadParameters(t *testing.T) {
	base := ForReplicaCount(5)
	require.NoError(t, base.Validate())

	noReplicas := base
	noReplicas.N = 0
	require.ErrorIs(t, noReplicas.Validate(), ErrTooFewReplicas)

	tooMuchF := base
	tooMuchF.F = 3
	require.ErrorIs(t, tooMuchF.Validate(), ErrFaultToleranceTooHigh)

	badTimeout := base
	badTimeout.Timeout = 0
	require.ErrorIs(t, badTimeout.Validate(), ErrTimeoutTooLow)

	badRetries := base
	badRetries.MaxRetries = 0
	require.ErrorIs(t, badRetries.Validate(), ErrMaxRetriesTooLow)

	badLoss := base
	badLoss.PLoss = 1.5
	require.ErrorIs(t, badLoss.Validate(), ErrInvalidLossProbability)

	badDelay := base
	badDelay.DMin = 2 * time.Second
	badDelay.DMax = time.Second
	require.ErrorIs(t, badDelay.Validate(), ErrInvalidDelayRange)
}

func TestEffectiveGraceWindowDefaultsToMinFiveSecondsOrTimeout(t *testing.T) {
	p := Default()
	p.Timeout = 10 * time.Second
	require.Equal(t, 5*time.Second, p.EffectiveGraceWindow())

	p.Timeout = 2 * time.Second
	require.Equal(t, 2*time.Second, p.EffectiveGraceWindow())

	p.GraceWindow = 500 * time.Millisecond
	require.Equal(t, 500*time.Millisecond, p.EffectiveGraceWindow())
}
