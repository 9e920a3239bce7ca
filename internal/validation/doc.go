// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide (it caches struct
// metadata). Two custom tags are registered on top of the built-ins:
//
//   - loglevel: a level name accepted by the logging package or the analytics
//     SDK (trace, debug, info, warn, error, fatal, panic, none, off, disabled)
//   - topicprefix: a dot-separated message topic prefix such as "qoe.events"
//
// Example usage:
//
//	type AnalyticsConfig struct {
//	    CustomerKey string `validate:"required"`
//	    GatewayURL  string `validate:"omitempty,url"`
//	    LogLevel    string `validate:"omitempty,loglevel"`
//	}
//
//	if err := validation.ValidateStruct(&cfg); err != nil {
//	    return fmt.Errorf("invalid configuration: %w", err)
//	}
package validation
