// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

// Package analytics defines the seam toward the external video QoE analytics
// SDK: the Sink the session controller reports into, the Connector that
// creates one, and the opaque key and name constants used in payloads.
//
// All Sink methods are fire-and-forget. Implementations must not block for long
// and must not call back into the adapter.
package analytics

// Info is a flat key/value payload in the shape the analytics SDK accepts.
type Info map[string]any

// Channel selects the content session or the ad sub-session.
type Channel string

// Channels.
const (
	ChannelContent Channel = "content"
	ChannelAd      Channel = "ad"
)

// Severity of a reported playback deficiency.
type Severity string

// Severities.
const (
	SeverityFatal   Severity = "FATAL"
	SeverityWarning Severity = "WARNING"
)

// AdKind distinguishes player-driven ads from server-side inserted ones.
type AdKind string

// Ad kinds.
const (
	AdKindClientSide AdKind = "CLIENT_SIDE"
	AdKindServerSide AdKind = "SERVER_SIDE"
)

// Sink receives the adapter's analytics calls.
type Sink interface {
	// ReportPlaybackRequested opens a content session with its metadata.
	ReportPlaybackRequested(info Info)
	// ReportPlaybackEnded closes the content session.
	ReportPlaybackEnded()
	// SetContentInfo replaces the session's content metadata.
	SetContentInfo(info Info)
	// ReportMetric reports a playback metric on a channel.
	ReportMetric(ch Channel, m Metric)
	// ReportError reports a playback deficiency on a channel.
	ReportError(ch Channel, message string, severity Severity)
	// ReportPlaybackEvent reports a named event attached to the session.
	ReportPlaybackEvent(name string, attrs Info)
	// ReportAppEvent reports a named application-level event.
	ReportAppEvent(name string, attrs Info)
	// ReportAppBackgrounded and ReportAppForegrounded track app visibility.
	ReportAppBackgrounded()
	ReportAppForegrounded()

	// ReportAdBreakStarted and ReportAdBreakEnded bracket a run of ads on the
	// content channel.
	ReportAdBreakStarted(kind AdKind, attrs Info)
	ReportAdBreakEnded()
	// ReportAdLoaded, ReportAdStarted, ReportAdEnded and ReportAdSkipped drive
	// the ad channel's lifecycle.
	ReportAdLoaded(info Info)
	ReportAdStarted(info Info)
	ReportAdEnded()
	ReportAdSkipped()
	// SetAdInfo replaces the current ad's metadata.
	SetAdInfo(info Info)

	// Release frees the sink. No calls are made after it.
	Release()
}

// Settings carries the adapter configuration the SDK consumes.
type Settings struct {
	GatewayURL          string
	DebugLoggingEnabled bool
	LogLevel            string
}

// Connector creates a Sink bound to a customer key.
type Connector interface {
	Connect(customerKey string, settings Settings) (Sink, error)
}

// ConnectorFunc adapts a function to Connector.
type ConnectorFunc func(customerKey string, settings Settings) (Sink, error)

// Connect calls f.
func (f ConnectorFunc) Connect(customerKey string, settings Settings) (Sink, error) {
	return f(customerKey, settings)
}
