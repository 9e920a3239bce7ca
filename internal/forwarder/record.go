// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package forwarder

import (
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Kind names the analytics call a record was produced from.
type Kind string

// Record kinds.
const (
	KindPlaybackRequested Kind = "playback_requested"
	KindPlaybackEnded     Kind = "playback_ended"
	KindContentInfo       Kind = "content_info"
	KindMetric            Kind = "metric"
	KindError             Kind = "error"
	KindPlaybackEvent     Kind = "playback_event"
	KindAppEvent          Kind = "app_event"
	KindAppBackgrounded   Kind = "app_backgrounded"
	KindAppForegrounded   Kind = "app_foregrounded"
	KindAdBreakStarted    Kind = "ad_break_started"
	KindAdBreakEnded      Kind = "ad_break_ended"
	KindAdLoaded          Kind = "ad_loaded"
	KindAdStarted         Kind = "ad_started"
	KindAdEnded           Kind = "ad_ended"
	KindAdSkipped         Kind = "ad_skipped"
	KindAdInfo            Kind = "ad_info"
)

// Record channels. Content and ad match analytics.Channel; app carries the
// application-level calls that are not tied to a session.
const (
	ChannelContent = "content"
	ChannelAd      = "ad"
	ChannelApp     = "app"
)

// channelKinds lists the kinds each channel can carry.
var channelKinds = map[string][]Kind{
	ChannelContent: {
		KindPlaybackRequested, KindPlaybackEnded, KindContentInfo, KindMetric,
		KindError, KindPlaybackEvent, KindAdBreakStarted, KindAdBreakEnded,
	},
	ChannelAd: {
		KindMetric, KindError, KindAdLoaded, KindAdStarted, KindAdEnded,
		KindAdSkipped, KindAdInfo,
	},
	ChannelApp: {KindAppEvent, KindAppBackgrounded, KindAppForegrounded},
}

// Record is one forwarded analytics call.
type Record struct {
	EventID     string         `json:"event_id"`
	SessionID   string         `json:"session_id,omitempty"`
	CustomerKey string         `json:"customer_key"`
	GatewayURL  string         `json:"gateway_url,omitempty"`
	Channel     string         `json:"channel"`
	Kind        Kind           `json:"kind"`
	Name        string         `json:"name,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
	Severity    string         `json:"severity,omitempty"`
	Message     string         `json:"message,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

// Topic returns the topic the record is published on.
func (r *Record) Topic(prefix string) string {
	return Topic(prefix, r.Channel, r.Kind)
}

// Validate checks the fields every record must carry.
func (r *Record) Validate() error {
	if r.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if _, err := uuid.Parse(r.EventID); err != nil {
		return fmt.Errorf("event_id: %w", err)
	}
	if _, ok := channelKinds[r.Channel]; !ok {
		return fmt.Errorf("unknown channel %q", r.Channel)
	}
	if r.Kind == "" {
		return fmt.Errorf("kind is required")
	}
	return nil
}

// Topic joins prefix, channel and kind into a topic name.
func Topic(prefix, channel string, kind Kind) string {
	return strings.Join([]string{prefix, channel, string(kind)}, ".")
}

// Topics returns every topic a forwarder with the given prefix publishes on.
func Topics(prefix string) []string {
	var topics []string
	for _, ch := range []string{ChannelContent, ChannelAd, ChannelApp} {
		for _, k := range channelKinds[ch] {
			topics = append(topics, Topic(prefix, ch, k))
		}
	}
	return topics
}

// MarshalRecord validates and encodes a record.
func MarshalRecord(r *Record) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("validate record: %w", err)
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return data, nil
}

// UnmarshalRecord decodes a record.
func UnmarshalRecord(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &r, nil
}
