// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/playbackqoe/internal/validation"
)

// Forwarder transports.
const (
	TransportGoChannel = "gochannel"
	TransportNATS      = "nats"
)

// Config holds all configuration for the adapter and the replay tool.
type Config struct {
	Analytics AnalyticsConfig `koanf:"analytics"`
	Forwarder ForwarderConfig `koanf:"forwarder"`
	Replay    ReplayConfig    `koanf:"replay"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// AnalyticsConfig configures the analytics session adapter.
type AnalyticsConfig struct {
	CustomerKey         string `koanf:"customer_key" validate:"required"`
	GatewayURL          string `koanf:"gateway_url" validate:"omitempty,url"`
	DebugLoggingEnabled bool   `koanf:"debug_logging_enabled"`
	LogLevel            string `koanf:"log_level" validate:"omitempty,loglevel"`

	// EndSessionOnSourceUnloaded ends the session when the player unloads
	// its source (default: true)
	EndSessionOnSourceUnloaded bool `koanf:"end_session_on_source_unloaded"`
	// EndSessionOnPlaybackError ends the session after a fatal player error
	// (default: true)
	EndSessionOnPlaybackError bool `koanf:"end_session_on_playback_error"`

	IsLive bool `koanf:"is_live"`

	// StallDebounce is how long a stall must last before it is reported as
	// buffering (default: 100ms)
	StallDebounce time.Duration `koanf:"stall_debounce" validate:"gte=0,lte=10s"`
}

// ForwarderConfig configures publishing of analytics records.
type ForwarderConfig struct {
	// Transport selects the pub/sub backend: gochannel (in-process) or nats.
	Transport   string `koanf:"transport" validate:"oneof=gochannel nats"`
	TopicPrefix string `koanf:"topic_prefix" validate:"topicprefix"`
	NATSURL     string `koanf:"nats_url"`

	// OutputBuffer is the per-subscriber buffer of the in-process transport.
	OutputBuffer int64 `koanf:"output_buffer" validate:"gte=0,lte=65536"`

	// Circuit breaker around publishing
	BreakerMaxFailures uint32        `koanf:"breaker_max_failures" validate:"gte=1"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
	BreakerInterval    time.Duration `koanf:"breaker_interval" validate:"gte=0"`
}

// ReplayConfig configures the offline replay tool.
type ReplayConfig struct {
	// Input is the JSON lines event log to replay; "-" reads stdin.
	Input string `koanf:"input"`
	// Speed scales the recorded inter-event delays. 0 replays without delay.
	Speed float64 `koanf:"speed" validate:"gte=0,lte=100"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,loglevel"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks struct tags and the rules that span fields.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if c.Analytics.GatewayURL != "" {
		if err := validateHTTPURL(c.Analytics.GatewayURL, "ANALYTICS_GATEWAY_URL"); err != nil {
			return err
		}
	}

	if c.Forwarder.Transport == TransportNATS {
		if c.Forwarder.NATSURL == "" {
			return fmt.Errorf("NATS_URL is required when FORWARDER_TRANSPORT is %s", TransportNATS)
		}
		if err := validateNATSURL(c.Forwarder.NATSURL, "NATS_URL"); err != nil {
			return err
		}
	}

	return nil
}
