// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

// Package player defines the seam toward the media player SDK: the read-only
// state the adapter samples and the event stream it observes.
package player

import "math"

// StreamProtocol of the loaded source.
type StreamProtocol string

// Stream protocols.
const (
	ProtocolHLS         StreamProtocol = "HLS"
	ProtocolDASH        StreamProtocol = "DASH"
	ProtocolProgressive StreamProtocol = "PROGRESSIVE"
	ProtocolUnknown     StreamProtocol = "UNKNOWN"
)

// Source describes the loaded source.
type Source struct {
	Title    string         `json:"title,omitempty"`
	URL      string         `json:"url,omitempty"`
	Protocol StreamProtocol `json:"protocol,omitempty"`
}

// VideoQuality is the currently rendered video representation.
type VideoQuality struct {
	Bitrate int `json:"bitrate"` // per second, as reported by the player
	Width   int `json:"width"`
	Height  int `json:"height"`
}

// Player is the read-only player state the adapter samples. Implementations
// are called from within event callbacks and must not block.
type Player interface {
	// Source returns the loaded source, or nil when none is loaded.
	Source() *Source
	// Duration in seconds; +Inf for live streams, 0 when unknown.
	Duration() float64
	// CurrentTime is the playback position in seconds.
	CurrentTime() float64
	IsPlaying() bool
	IsPaused() bool
	// IsAd reports whether an ad is currently playing.
	IsAd() bool
	// VideoQuality returns the rendered quality, or nil when unknown.
	VideoQuality() *VideoQuality
	// RenderedFramerate in frames per second.
	RenderedFramerate() float64
}

// EventSource delivers player events. Subscribe returns a function that
// removes the handler.
type EventSource interface {
	Subscribe(handler func(Event)) (unsubscribe func())
}

// IsFinite reports whether a duration is a usable finite value.
func IsFinite(d float64) bool {
	return !math.IsInf(d, 0) && !math.IsNaN(d)
}
