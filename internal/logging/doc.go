// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

// Package logging provides centralized zerolog-based structured logging for the
// playback QoE adapter and its tooling.
//
// The adapter itself logs through component loggers obtained from
// WithComponent, so embedding applications can route or silence it by level
// without touching the global logger:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	log := logging.WithComponent("qoe")
//	log.Debug().Str("event", "stall_started").Msg("Stall started")
//
// # Configuration
//
// Environment Variables (read through internal/config):
//
//	LOG_LEVEL   - Minimum log level: trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - Output format: json, console (default: json)
//	LOG_CALLER  - Include caller file:line: true, false (default: false)
//
// # Watermill
//
// WatermillAdapter implements watermill.LoggerAdapter on top of zerolog so the
// analytics forwarder's pub/sub plumbing logs through the same pipeline.
package logging
