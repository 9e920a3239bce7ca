// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package forwarder

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/playbackqoe/internal/config"
)

// newTransport creates the publisher and subscriber for cfg.Transport.
func newTransport(cfg *config.ForwarderConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error) {
	switch cfg.Transport {
	case "", config.TransportGoChannel:
		pubSub := newGoChannel(cfg.OutputBuffer, logger)
		return pubSub, pubSub, nil
	case config.TransportNATS:
		return newNATSPubSub(cfg, logger)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownTransport, cfg.Transport)
	}
}

// newGoChannel creates the in-process pub/sub. Publish waits for subscriber
// acks so records are delivered in call order.
func newGoChannel(buffer int64, logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            buffer,
		BlockPublishUntilSubscriberAck: true,
	}, logger)
}
