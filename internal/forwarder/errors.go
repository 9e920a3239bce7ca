// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package forwarder

import "errors"

var (
	// ErrClosed is returned when connecting or subscribing after Close.
	ErrClosed = errors.New("forwarder is closed")

	// ErrNATSNotEnabled is returned for the nats transport in builds without
	// the nats tag.
	ErrNATSNotEnabled = errors.New("NATS transport not available: build with -tags=nats")

	// ErrUnknownTransport is returned for a transport name New does not know.
	ErrUnknownTransport = errors.New("unknown forwarder transport")
)
