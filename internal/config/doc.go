// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

/*
Package config loads configuration for the analytics adapter, the record
forwarder and the replay tool.

# Configuration Sources

Configuration is layered with koanf, lowest priority first:
  - Built-in defaults (defaultConfig)
  - YAML config file: CONFIG_PATH, or qoe.yaml / qoe.yml in the working
    directory, or /etc/playbackqoe/config.yaml
  - Environment variables, through an explicit mapping table

# Environment Variables

Analytics (AnalyticsConfig):
  - ANALYTICS_CUSTOMER_KEY: customer key of the analytics account (required)
  - ANALYTICS_GATEWAY_URL: collection endpoint override
  - ANALYTICS_DEBUG_LOGGING: force debug logging (default: false)
  - ANALYTICS_LOG_LEVEL: SDK log level when debug logging is off
  - ANALYTICS_END_SESSION_ON_SOURCE_UNLOADED: default true
  - ANALYTICS_END_SESSION_ON_PLAYBACK_ERROR: default true
  - ANALYTICS_IS_LIVE: content is a live stream (default: false)
  - ANALYTICS_STALL_DEBOUNCE: stall debounce delay (default: 100ms)

Forwarder (ForwarderConfig):
  - FORWARDER_TRANSPORT: gochannel or nats (default: gochannel)
  - FORWARDER_TOPIC_PREFIX: topic prefix (default: qoe)
  - NATS_URL: NATS server URL (default: nats://127.0.0.1:4222)
  - FORWARDER_OUTPUT_BUFFER: in-process subscriber buffer (default: 256)
  - FORWARDER_BREAKER_MAX_FAILURES: consecutive failures before the circuit
    opens (default: 5)
  - FORWARDER_BREAKER_TIMEOUT: open state duration (default: 30s)
  - FORWARDER_BREAKER_INTERVAL: closed state counter reset (default: 1m)

Replay (ReplayConfig):
  - REPLAY_INPUT: event log path, "-" for stdin (default: -)
  - REPLAY_SPEED: delay multiplier, 0 for no delay (default: 0)

Logging (LoggingConfig):
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: include caller file and line (default: false)

# Example YAML

	analytics:
	  customer_key: "abc123"
	  gateway_url: "https://collector.example.com"
	  stall_debounce: 150ms
	forwarder:
	  transport: nats
	  nats_url: "nats://nats:4222"
	logging:
	  level: debug
	  format: console

# Validation

Load validates struct tags through the validation package and then checks
the rules that span fields: the gateway URL must be http(s), and the nats
transport needs a nats:// (or tls://, ws://, wss://) server URL.
*/
package config
