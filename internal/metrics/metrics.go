// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the adapter:
// - Session lifecycle (requested, ended, active)
// - Reports emitted to the analytics sink by channel and kind
// - Stall debounce outcomes
// - Forwarder publishing and circuit breaker state

var (
	// Session Metrics
	SessionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qoe_sessions_started_total",
			Help: "Total number of analytics sessions opened",
		},
		[]string{"trigger"}, // "play", "explicit", "error"
	)

	SessionsEnded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qoe_sessions_ended_total",
			Help: "Total number of analytics sessions closed",
		},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qoe_sessions_active",
			Help: "Current number of open analytics sessions",
		},
	)

	// Report Metrics
	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qoe_reports_total",
			Help: "Total number of calls made to the analytics sink",
		},
		[]string{"channel", "kind"},
	)

	PlaybackDeficiencies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qoe_playback_deficiencies_total",
			Help: "Total number of playback deficiencies reported",
		},
		[]string{"channel", "severity"},
	)

	// Stall Debounce Metrics
	StallsReported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qoe_stalls_reported_total",
			Help: "Stalls that outlived the debounce delay and were reported as buffering",
		},
	)

	StallsSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "qoe_stalls_suppressed_total",
			Help: "Stalls that ended within the debounce delay and were never reported",
		},
	)

	// Forwarder Metrics
	ForwarderPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qoe_forwarder_published_total",
			Help: "Total number of analytics records published",
		},
		[]string{"kind"},
	)

	ForwarderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qoe_forwarder_errors_total",
			Help: "Total number of analytics records dropped",
		},
		[]string{"reason"}, // "serialize", "publish", "breaker_open"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qoe_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qoe_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordSessionStarted records a session opening and the trigger behind it.
func RecordSessionStarted(trigger string) {
	SessionsStarted.WithLabelValues(trigger).Inc()
	SessionsActive.Inc()
}

// RecordSessionEnded records a session closing.
func RecordSessionEnded() {
	SessionsEnded.Inc()
	SessionsActive.Dec()
}

// RecordReport records a call made to the analytics sink.
func RecordReport(channel, kind string) {
	ReportsTotal.WithLabelValues(channel, kind).Inc()
}

// RecordDeficiency records a reported playback deficiency.
func RecordDeficiency(channel, severity string) {
	PlaybackDeficiencies.WithLabelValues(channel, severity).Inc()
}

// RecordStall records the outcome of a debounced stall.
func RecordStall(reported bool) {
	if reported {
		StallsReported.Inc()
	} else {
		StallsSuppressed.Inc()
	}
}

// RecordForwarderPublish records a published analytics record.
func RecordForwarderPublish(kind string) {
	ForwarderPublished.WithLabelValues(kind).Inc()
}

// RecordForwarderError records a dropped analytics record.
func RecordForwarderError(reason string) {
	ForwarderErrors.WithLabelValues(reason).Inc()
}

// RecordCircuitBreakerTransition records a state change. States use the
// gobreaker encoding (0=closed, 1=half-open, 2=open).
func RecordCircuitBreakerTransition(name, from, to string, toState int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(toState))
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}
