// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package metrics wraps the engine's Prometheus instrumentation: every
// constructor degrades to a no-op when the supplied Registerer is
// nil, so the engine never forces metrics on an embedding
// application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Engine holds the consensus engine's Prometheus collectors. A zero
// value (or one built with a nil Registerer via New) is safe to use
// and simply discards observations.
type Engine struct {
	roundsSucceeded prometheus.Counter
	viewChanges     prometheus.Counter
	messagesSent    prometheus.Counter
	phaseLatency    *prometheus.HistogramVec
}

// New registers the engine's collectors against reg. A nil reg (or a
// registration error, e.g. a collector name collision with another
// registered engine) yields a metrics.Engine whose Observe* methods
// are no-ops.
func New(reg prometheus.Registerer) *Engine {
	e := &Engine{}
	if reg == nil {
		return e
	}

	e.roundsSucceeded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bftagent_rounds_succeeded_total",
		Help: "Total rounds that reached a Y quorum.",
	})
	e.viewChanges = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bftagent_view_changes_total",
		Help: "Total view changes triggered across all rounds.",
	})
	e.messagesSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bftagent_messages_sent_total",
		Help: "Total messages sent by the simulated network.",
	})
	e.phaseLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bftagent_phase_latency_seconds",
		Help:    "Per-phase latency from phase start to the end of vote collection.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	for _, c := range []prometheus.Collector{e.roundsSucceeded, e.viewChanges, e.messagesSent, e.phaseLatency} {
		if err := reg.Register(c); err != nil {
			// A collector with the same name is already registered
			// (e.g. a second engine sharing the default registry).
			// Fall back to no-op rather than fail construction.
			return &Engine{}
		}
	}
	return e
}

// ObserveRoundSucceeded increments the rounds-succeeded counter.
func (e *Engine) ObserveRoundSucceeded() {
	if e.roundsSucceeded != nil {
		e.roundsSucceeded.Inc()
	}
}

// ObserveViewChange increments the view-changes counter.
func (e *Engine) ObserveViewChange() {
	if e.viewChanges != nil {
		e.viewChanges.Inc()
	}
}

// ObserveMessagesSent adds n to the messages-sent counter.
func (e *Engine) ObserveMessagesSent(n int) {
	if e.messagesSent != nil {
		e.messagesSent.Add(float64(n))
	}
}

// ObservePhaseLatencySeconds records a phase's latency in seconds.
func (e *Engine) ObservePhaseLatencySeconds(phase string, seconds float64) {
	if e.phaseLatency != nil {
		e.phaseLatency.WithLabelValues(phase).Observe(seconds)
	}
}
