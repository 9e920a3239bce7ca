// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package forwarder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/playbackqoe/internal/analytics"
	"github.com/tomtom215/playbackqoe/internal/config"
	"github.com/tomtom215/playbackqoe/internal/logging"
	"github.com/tomtom215/playbackqoe/internal/metrics"
)

// subscribeBuffer is the capacity of the channel returned by Subscribe.
const subscribeBuffer = 64

// Metadata keys set on every published message.
const (
	MetadataKind      = "kind"
	MetadataChannel   = "channel"
	MetadataSessionID = "session_id"
)

// Forwarder publishes analytics records through a Watermill transport. It
// implements analytics.Connector; each Connect returns a new Sink.
type Forwarder struct {
	prefix  string
	pub     message.Publisher
	sub     message.Subscriber
	breaker *gobreaker.CircuitBreaker[any]
	logger  zerolog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
}

var _ analytics.Connector = (*Forwarder)(nil)

// New creates a forwarder on the transport selected by cfg.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg *config.ForwarderConfig, logger zerolog.Logger) (*Forwarder, error) {
	logger = logger.With().Str("component", "forwarder").Logger()

	pub, sub, err := newTransport(cfg, logging.NewWatermillAdapter(logger))
	if err != nil {
		return nil, fmt.Errorf("create %s transport: %w", cfg.Transport, err)
	}

	f := NewWithPubSub(cfg, pub, sub, logger)
	logger.Info().
		Str("transport", cfg.Transport).
		Str("topic_prefix", cfg.TopicPrefix).
		Msg("Analytics forwarder started")
	return f, nil
}

// NewWithPubSub creates a forwarder on an existing publisher. sub may be nil,
// in which case Subscribe fails.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewWithPubSub(cfg *config.ForwarderConfig, pub message.Publisher, sub message.Subscriber, logger zerolog.Logger) *Forwarder {
	return &Forwarder{
		prefix:  cfg.TopicPrefix,
		pub:     pub,
		sub:     sub,
		breaker: newBreaker(cfg, logger),
		logger:  logger,
		now:     time.Now,
	}
}

// Connect returns a sink that forwards calls tagged with customerKey.
func (f *Forwarder) Connect(customerKey string, settings analytics.Settings) (analytics.Sink, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return nil, ErrClosed
	}

	f.logger.Debug().
		Str("gateway_url", settings.GatewayURL).
		Bool("debug_logging", settings.DebugLoggingEnabled).
		Msg("Analytics sink connected")

	return &Sink{
		f:           f,
		customerKey: customerKey,
		gatewayURL:  settings.GatewayURL,
	}, nil
}

// publish sends one record. Errors are logged and counted, never returned.
func (f *Forwarder) publish(rec *Record) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		metrics.RecordForwarderError("closed")
		return
	}

	data, err := MarshalRecord(rec)
	if err != nil {
		metrics.RecordForwarderError("marshal")
		f.logger.Error().Err(err).Str("kind", string(rec.Kind)).Msg("Failed to encode analytics record")
		return
	}

	msg := message.NewMessage(rec.EventID, data)
	msg.Metadata.Set(MetadataKind, string(rec.Kind))
	msg.Metadata.Set(MetadataChannel, rec.Channel)
	if rec.SessionID != "" {
		msg.Metadata.Set(MetadataSessionID, rec.SessionID)
	}

	topic := rec.Topic(f.prefix)
	_, err = f.breaker.Execute(func() (any, error) {
		return nil, f.pub.Publish(topic, msg)
	})
	if err != nil {
		reason := "publish"
		if isBreakerRejection(err) {
			reason = "circuit_open"
		}
		metrics.RecordForwarderError(reason)
		f.logger.Warn().Err(err).
			Str("topic", topic).
			Str("reason", reason).
			Msg("Dropped analytics record")
		return
	}

	metrics.RecordForwarderPublish(string(rec.Kind))
	f.logger.Trace().Str("topic", topic).Str("event_id", rec.EventID).Msg("Analytics record published")
}

// Subscribe returns the decoded records published on every forwarder topic.
// The channel is closed when ctx is canceled or the forwarder is closed.
func (f *Forwarder) Subscribe(ctx context.Context) (<-chan Record, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return nil, ErrClosed
	}
	if f.sub == nil {
		return nil, errors.New("forwarder has no subscriber")
	}

	ctx, cancel := context.WithCancel(ctx)
	out := make(chan Record, subscribeBuffer)
	var wg sync.WaitGroup

	for _, topic := range Topics(f.prefix) {
		msgs, err := f.sub.Subscribe(ctx, topic)
		if err != nil {
			cancel()
			wg.Wait()
			return nil, fmt.Errorf("subscribe to %s: %w", topic, err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.forward(ctx, msgs, out)
		}()
	}

	go func() {
		wg.Wait()
		cancel()
		close(out)
	}()

	return out, nil
}

// forward decodes messages into out until msgs is closed or ctx is done.
// Messages are acked once the record is handed over.
func (f *Forwarder) forward(ctx context.Context, msgs <-chan *message.Message, out chan<- Record) {
	for msg := range msgs {
		rec, err := UnmarshalRecord(msg.Payload)
		if err != nil {
			f.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Skipping undecodable analytics record")
			msg.Ack()
			continue
		}

		select {
		case out <- *rec:
			msg.Ack()
		case <-ctx.Done():
			msg.Nack()
			return
		}
	}
}

// Close shuts down the transport. Sinks created by Connect drop further
// records.
func (f *Forwarder) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	var errs []error
	if err := f.pub.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if f.sub != nil && any(f.sub) != any(f.pub) {
		if err := f.sub.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}

	f.logger.Info().Msg("Analytics forwarder closed")
	return errors.Join(errs...)
}
