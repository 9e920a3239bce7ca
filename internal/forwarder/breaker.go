// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package forwarder

import (
	"errors"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/playbackqoe/internal/config"
	"github.com/tomtom215/playbackqoe/internal/metrics"
)

// breakerName labels the publish circuit breaker in logs and metrics.
const breakerName = "forwarder_publish"

// newBreaker creates the circuit breaker around publishing. The circuit opens
// after BreakerMaxFailures consecutive failures and lets a trial publish
// through after BreakerTimeout.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newBreaker(cfg *config.ForwarderConfig, logger zerolog.Logger) *gobreaker.CircuitBreaker[any] {
	maxFailures := cfg.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 1
	}

	settings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordCircuitBreakerTransition(name, from.String(), to.String(), int(to))
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	}

	return gobreaker.NewCircuitBreaker[any](settings)
}

// isBreakerRejection reports whether err means the breaker refused the call
// without attempting it.
func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
