// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package replay

import (
	"fmt"

	"github.com/tomtom215/playbackqoe/internal/analytics"
	"github.com/tomtom215/playbackqoe/internal/models"
	"github.com/tomtom215/playbackqoe/internal/player"
	"github.com/tomtom215/playbackqoe/internal/qoe"
)

// Entry is one line of the event log.
type Entry struct {
	OffsetMS int64         `json:"offset_ms"`
	State    *State        `json:"state,omitempty"`
	Event    *player.Event `json:"event,omitempty"`
	Action   *Action       `json:"action,omitempty"`
}

// Validate checks that the entry does something.
func (e *Entry) Validate() error {
	if e.State == nil && e.Event == nil && e.Action == nil {
		return fmt.Errorf("entry has no state, event or action")
	}
	if e.OffsetMS < 0 {
		return fmt.Errorf("negative offset_ms %d", e.OffsetMS)
	}
	if e.Event != nil && e.Event.Type == "" {
		return fmt.Errorf("event type is required")
	}
	if e.Action != nil && e.Action.Name == "" {
		return fmt.Errorf("action name is required")
	}
	return nil
}

// State is a patch of the player state. Nil fields keep their value.
type State struct {
	Source *player.Source `json:"source,omitempty"`
	// Unload clears the source.
	Unload bool `json:"unload,omitempty"`

	// Duration in seconds. Live sets it to +Inf, which JSON cannot carry.
	Duration *float64 `json:"duration,omitempty"`
	Live     bool     `json:"live,omitempty"`

	CurrentTime *float64             `json:"current_time,omitempty"`
	Playing     *bool                `json:"playing,omitempty"`
	Paused      *bool                `json:"paused,omitempty"`
	Ad          *bool                `json:"ad,omitempty"`
	Quality     *player.VideoQuality `json:"quality,omitempty"`
	Framerate   *float64             `json:"framerate,omitempty"`
}

// Action names.
const (
	ActionInitializeSession      = "initialize_session"
	ActionEndSession             = "end_session"
	ActionAppBackgrounded        = "app_backgrounded"
	ActionAppForegrounded        = "app_foregrounded"
	ActionPauseTracking          = "pause_tracking"
	ActionResumeTracking         = "resume_tracking"
	ActionCustomPlaybackEvent    = "custom_playback_event"
	ActionCustomApplicationEvent = "custom_application_event"
	ActionUpdateContentMetadata  = "update_content_metadata"
	ActionUpdateAdMetadata       = "update_ad_metadata"
	ActionPlaybackDeficiency     = "playback_deficiency"
	ActionPlaybackFailed         = "playback_failed"
	ActionSSAIAdBreakStarted     = "ssai_ad_break_started"
	ActionSSAIAdBreakFinished    = "ssai_ad_break_finished"
	ActionSSAIAdStarted          = "ssai_ad_started"
	ActionSSAIAdFinished         = "ssai_ad_finished"
	ActionSSAIAdSkipped          = "ssai_ad_skipped"
	ActionSSAIAdUpdate           = "ssai_ad_update"
)

// Action is a call the application made on the adapter.
type Action struct {
	Name string `json:"name"`

	// pause_tracking
	IsBumper bool `json:"is_bumper,omitempty"`

	// custom_playback_event, custom_application_event
	Event      string            `json:"event,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`

	// playback_deficiency, playback_failed
	Message    string `json:"message,omitempty"`
	Severity   string `json:"severity,omitempty"`
	EndSession bool   `json:"end_session,omitempty"`

	// update_content_metadata, playback_failed
	Content *models.ContentMetadata `json:"content,omitempty"`
	// update_ad_metadata
	Ad *models.AdMetadata `json:"ad,omitempty"`

	// ssai_ad_break_started
	AdBreak models.Attributes `json:"ad_break,omitempty"`
	// ssai_ad_started, ssai_ad_update
	SSAIAd *SSAIAd `json:"ssai_ad,omitempty"`
}

// SSAIAd is the log form of qoe.AdInfo.
type SSAIAd struct {
	Title              string             `json:"title,omitempty"`
	Duration           int                `json:"duration,omitempty"`
	ID                 string             `json:"id,omitempty"`
	AdSystem           string             `json:"ad_system,omitempty"`
	Position           *models.AdPosition `json:"position,omitempty"`
	AdditionalMetadata models.Attributes  `json:"additional_metadata,omitempty"`
}

func (a *SSAIAd) adInfo() qoe.AdInfo {
	if a == nil {
		return qoe.AdInfo{}
	}
	return qoe.AdInfo{
		Title:              a.Title,
		Duration:           a.Duration,
		ID:                 a.ID,
		AdSystem:           a.AdSystem,
		Position:           a.Position,
		AdditionalMetadata: a.AdditionalMetadata,
	}
}

// severity parses a deficiency severity; empty means fatal.
func (a *Action) severity() (analytics.Severity, error) {
	switch analytics.Severity(a.Severity) {
	case "", analytics.SeverityFatal:
		return analytics.SeverityFatal, nil
	case analytics.SeverityWarning:
		return analytics.SeverityWarning, nil
	default:
		return "", fmt.Errorf("unknown severity %q", a.Severity)
	}
}
