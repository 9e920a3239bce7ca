// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package qoe

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/playbackqoe/internal/logging"
	"github.com/tomtom215/playbackqoe/internal/session"
)

// Config is the analytics configuration handed to the SDK connector.
type Config struct {
	// DebugLoggingEnabled forces debug logging for the adapter and the SDK.
	DebugLoggingEnabled bool
	// GatewayURL overrides the SDK's default collection endpoint.
	GatewayURL string `validate:"omitempty,url"`
	// LogLevel is the SDK log level when debug logging is off.
	LogLevel string `validate:"omitempty,loglevel"`
}

type options struct {
	endSessionOnSourceUnloaded bool
	endSessionOnPlaybackError  bool
	isLive                     bool
	stallDebounce              time.Duration
	scheduler                  session.Scheduler
	logger                     *zerolog.Logger
}

func defaultOptions() options {
	return options{
		endSessionOnSourceUnloaded: true,
		endSessionOnPlaybackError:  true,
		stallDebounce:              session.DefaultStallDebounce,
	}
}

// Option configures an Adapter.
type Option func(*options)

// WithEndSessionOnSourceUnloaded controls whether a source unload ends the
// session. Default true; set false for players that unload and reload the
// same content.
func WithEndSessionOnSourceUnloaded(end bool) Option {
	return func(o *options) { o.endSessionOnSourceUnloaded = end }
}

// WithEndSessionOnPlaybackError controls whether a player or source error ends
// the session after being reported. Default true.
func WithEndSessionOnPlaybackError(end bool) Option {
	return func(o *options) { o.endSessionOnPlaybackError = end }
}

// WithLive marks the content as a live stream.
func WithLive(live bool) Option {
	return func(o *options) { o.isLive = live }
}

// WithStallDebounce changes how long a stall must last before it is reported.
func WithStallDebounce(d time.Duration) Option {
	return func(o *options) { o.stallDebounce = d }
}

// WithScheduler replaces the timer used for the stall debounce.
func WithScheduler(s session.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithLogger replaces the adapter's logger. Debug logging from Config still
// applies on top of it.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

func (o *options) buildLogger(cfg Config) zerolog.Logger {
	logger := logging.WithComponent("qoe")
	if o.logger != nil {
		logger = o.logger.With().Str("component", "qoe").Logger()
	}

	switch {
	case cfg.DebugLoggingEnabled:
		logger = logger.Level(zerolog.DebugLevel)
	case cfg.LogLevel != "":
		logger = logger.Level(logging.ParseLevel(cfg.LogLevel))
	}
	return logger
}
