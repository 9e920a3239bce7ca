// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

/*
Package metrics provides Prometheus instrumentation for the playback QoE
adapter and its analytics forwarder.

Collectors are registered on the default registry through promauto, so an
embedding application exposes them with its usual promhttp handler. The replay
tool prints them in text format on exit.

Session Metrics:
  - qoe_sessions_started_total{trigger}: sessions opened (play, explicit, error)
  - qoe_sessions_ended_total: sessions closed
  - qoe_sessions_active: currently open sessions

Report Metrics:
  - qoe_reports_total{channel,kind}: sink calls
  - qoe_playback_deficiencies_total{channel,severity}

Stall Metrics:
  - qoe_stalls_reported_total: stalls reported as buffering
  - qoe_stalls_suppressed_total: false stalls swallowed by the debounce

Forwarder Metrics:
  - qoe_forwarder_published_total{kind}
  - qoe_forwarder_errors_total{reason}
  - qoe_circuit_breaker_state{name}
  - qoe_circuit_breaker_state_transitions_total{name,from_state,to_state}
*/
package metrics
