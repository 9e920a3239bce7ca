// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

//go:build !nats

package forwarder

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/playbackqoe/internal/config"
)

// newNATSPubSub returns ErrNATSNotEnabled when NATS dependencies are not
// compiled in. Build with -tags=nats to enable the NATS transport.
func newNATSPubSub(_ *config.ForwarderConfig, _ watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error) {
	return nil, nil, ErrNATSNotEnabled
}
