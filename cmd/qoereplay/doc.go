// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

// Package main is the qoereplay command: it replays a recorded player event
// log through the analytics adapter and prints every forwarded record.
//
// # Commands
//
//	qoereplay run [file]       Replay a JSON lines event log ("-" or no file reads stdin)
//	qoereplay validate         Load and validate the configuration
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Command line flags (--speed)
//   - Environment variables (ANALYTICS_CUSTOMER_KEY, FORWARDER_TRANSPORT, ...)
//   - Config file (--config, CONFIG_PATH or qoe.yaml)
//   - Built-in defaults
//
// ANALYTICS_CUSTOMER_KEY is required.
//
// # Output
//
// Records are written to stdout as JSON lines, one per analytics call. Logs go
// to stderr. With --metrics the Prometheus registry is printed to stderr in
// text format once the replay ends.
//
// # Build Tags
//
//	go build ./cmd/qoereplay              # in-process gochannel transport
//	go build -tags nats ./cmd/qoereplay   # adds the NATS JetStream transport
//
// # Example Usage
//
//	export ANALYTICS_CUSTOMER_KEY=demo
//	qoereplay run --speed 0.5 session.jsonl | jq 'select(.channel == "ad")'
package main
