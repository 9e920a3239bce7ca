// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package player

import "fmt"

// EventType names a player event.
type EventType string

// Player events observed by the adapter.
const (
	EventPlay             EventType = "play"
	EventPlaying          EventType = "playing"
	EventPaused           EventType = "paused"
	EventStallStarted     EventType = "stall_started"
	EventStallEnded       EventType = "stall_ended"
	EventSeek             EventType = "seek"
	EventSeeked           EventType = "seeked"
	EventTimeShift        EventType = "time_shift"
	EventTimeShifted      EventType = "time_shifted"
	EventTimeChanged      EventType = "time_changed"
	EventSourceUnloaded   EventType = "source_unloaded"
	EventPlayerError      EventType = "player_error"
	EventSourceError      EventType = "source_error"
	EventPlaybackFinished EventType = "playback_finished"
	EventDestroy          EventType = "destroy"
	EventMuted            EventType = "muted"
	EventUnmuted          EventType = "unmuted"
	EventFullscreenEnter  EventType = "fullscreen_enter"
	EventFullscreenExit   EventType = "fullscreen_exit"

	EventAdManifestLoaded EventType = "ad_manifest_loaded"
	EventAdBreakStarted   EventType = "ad_break_started"
	EventAdBreakFinished  EventType = "ad_break_finished"
	EventAdStarted        EventType = "ad_started"
	EventAdFinished       EventType = "ad_finished"
	EventAdSkipped        EventType = "ad_skipped"
	EventAdError          EventType = "ad_error"
)

// Ad describes a client-side ad carried by ad events.
type Ad struct {
	ID        string `json:"id,omitempty"`
	Title     string `json:"title,omitempty"`
	AdSystem  string `json:"ad_system,omitempty"`
	MediaURL  string `json:"media_url,omitempty"`
	Duration  int    `json:"duration,omitempty"` // seconds
	Framerate int    `json:"framerate,omitempty"`
}

// AdBreak describes a client-side ad break.
type AdBreak struct {
	ID string `json:"id,omitempty"`
	// Position is the schedule position as written in the ad manifest,
	// e.g. "pre", "50%" or "00:10:00.000".
	Position *string `json:"position,omitempty"`
	AdCount  int     `json:"ad_count,omitempty"`
}

// Event is a single player callback. Only the fields relevant to Type are set.
type Event struct {
	Type EventType `json:"type"`

	// Target is the seek or timeshift target in seconds.
	Target float64 `json:"target,omitempty"`

	// Code and Message describe errors.
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`

	Ad      *Ad      `json:"ad,omitempty"`
	AdBreak *AdBreak `json:"ad_break,omitempty"`
}

// IsError reports whether e is a player or source error.
func (e Event) IsError() bool {
	return e.Type == EventPlayerError || e.Type == EventSourceError
}

// ErrorMessage formats the error carried by e.
func (e Event) ErrorMessage() string {
	return fmt.Sprintf("%d %s", e.Code, e.Message)
}
