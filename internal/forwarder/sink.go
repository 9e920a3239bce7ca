// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package forwarder

import (
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/tomtom215/playbackqoe/internal/analytics"
	"github.com/tomtom215/playbackqoe/internal/metrics"
)

// Sink turns analytics calls into published records. A new session id is
// minted on every ReportPlaybackRequested and attached to the records that
// follow until ReportPlaybackEnded.
type Sink struct {
	f           *Forwarder
	customerKey string
	gatewayURL  string

	mu        sync.Mutex
	sessionID string
	released  bool
}

var _ analytics.Sink = (*Sink)(nil)

// SessionID returns the id of the open session, or "" between sessions.
func (s *Sink) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

func (s *Sink) send(rec *Record) {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		metrics.RecordForwarderError("released")
		return
	}
	rec.SessionID = s.sessionID
	s.mu.Unlock()

	rec.EventID = uuid.NewString()
	rec.CustomerKey = s.customerKey
	rec.GatewayURL = s.gatewayURL
	rec.Timestamp = s.f.now().UTC()
	s.f.publish(rec)
}

func payload(info analytics.Info) map[string]any {
	if len(info) == 0 {
		return nil
	}
	return maps.Clone(map[string]any(info))
}

// ReportPlaybackRequested opens a new session id and forwards the content
// metadata.
func (s *Sink) ReportPlaybackRequested(info analytics.Info) {
	s.mu.Lock()
	if !s.released {
		s.sessionID = uuid.NewString()
	}
	s.mu.Unlock()

	s.send(&Record{Channel: ChannelContent, Kind: KindPlaybackRequested, Payload: payload(info)})
}

// ReportPlaybackEnded forwards the end of the session and clears its id.
func (s *Sink) ReportPlaybackEnded() {
	s.send(&Record{Channel: ChannelContent, Kind: KindPlaybackEnded})

	s.mu.Lock()
	s.sessionID = ""
	s.mu.Unlock()
}

// SetContentInfo forwards updated content metadata.
func (s *Sink) SetContentInfo(info analytics.Info) {
	s.send(&Record{Channel: ChannelContent, Kind: KindContentInfo, Payload: payload(info)})
}

// ReportMetric forwards a metric observation.
func (s *Sink) ReportMetric(ch analytics.Channel, m analytics.Metric) {
	s.send(&Record{
		Channel: string(ch),
		Kind:    KindMetric,
		Name:    string(m.Name),
		Payload: map[string]any{"value": m.Value},
	})
}

// ReportError forwards a playback deficiency.
func (s *Sink) ReportError(ch analytics.Channel, message string, severity analytics.Severity) {
	s.send(&Record{Channel: string(ch), Kind: KindError, Message: message, Severity: string(severity)})
}

// ReportPlaybackEvent forwards a named session event.
func (s *Sink) ReportPlaybackEvent(name string, attrs analytics.Info) {
	s.send(&Record{Channel: ChannelContent, Kind: KindPlaybackEvent, Name: name, Payload: payload(attrs)})
}

// ReportAppEvent forwards a named application event.
func (s *Sink) ReportAppEvent(name string, attrs analytics.Info) {
	s.send(&Record{Channel: ChannelApp, Kind: KindAppEvent, Name: name, Payload: payload(attrs)})
}

func (s *Sink) ReportAppBackgrounded() {
	s.send(&Record{Channel: ChannelApp, Kind: KindAppBackgrounded})
}

func (s *Sink) ReportAppForegrounded() {
	s.send(&Record{Channel: ChannelApp, Kind: KindAppForegrounded})
}

// ReportAdBreakStarted forwards the start of an ad break. The record name is
// the ad kind.
func (s *Sink) ReportAdBreakStarted(kind analytics.AdKind, attrs analytics.Info) {
	s.send(&Record{Channel: ChannelContent, Kind: KindAdBreakStarted, Name: string(kind), Payload: payload(attrs)})
}

func (s *Sink) ReportAdBreakEnded() {
	s.send(&Record{Channel: ChannelContent, Kind: KindAdBreakEnded})
}

func (s *Sink) ReportAdLoaded(info analytics.Info) {
	s.send(&Record{Channel: ChannelAd, Kind: KindAdLoaded, Payload: payload(info)})
}

func (s *Sink) ReportAdStarted(info analytics.Info) {
	s.send(&Record{Channel: ChannelAd, Kind: KindAdStarted, Payload: payload(info)})
}

func (s *Sink) ReportAdEnded() {
	s.send(&Record{Channel: ChannelAd, Kind: KindAdEnded})
}

func (s *Sink) ReportAdSkipped() {
	s.send(&Record{Channel: ChannelAd, Kind: KindAdSkipped})
}

func (s *Sink) SetAdInfo(info analytics.Info) {
	s.send(&Record{Channel: ChannelAd, Kind: KindAdInfo, Payload: payload(info)})
}

// Release drops every later call on this sink. The forwarder stays open for
// other sinks.
func (s *Sink) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
	s.sessionID = ""
}
