// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

/*
Package forwarder implements the analytics sink as a Watermill publisher.

Every call the session controller makes on its analytics.Sink becomes a
Record: a JSON document carrying the customer key, the per-session id, the
channel (content, ad or app), the kind of call and its payload. Records are
published on the topic

	<prefix>.<channel>.<kind>

for example "qoe.content.metric" or "qoe.ad.ad_started".

# Transports

  - gochannel: in-process Watermill pub/sub. Delivery blocks until the
    subscriber acknowledges, so records arrive in call order.
  - nats: NATS JetStream through watermill-nats. Only available when built
    with -tags=nats; otherwise New returns ErrNATSNotEnabled.

# Resilience

Publishing runs through a gobreaker circuit breaker. Failures and records
dropped while the circuit is open are logged and counted in
qoe_forwarder_errors_total. They are never returned to the caller: the sink
is fire-and-forget.

# Usage

	fwd, err := forwarder.New(cfg.Forwarder, logger)
	if err != nil {
	    return err
	}
	defer fwd.Close()

	records, err := fwd.Subscribe(ctx)
	...
	adapter, err := qoe.New(p, customerKey, qoe.Config{}, fwd)
*/
package forwarder
