// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package models

// StreamType classifies content as live or on-demand.
type StreamType string

// Stream types.
const (
	StreamTypeUnknown StreamType = "UNKNOWN"
	StreamTypeLive    StreamType = "LIVE"
	StreamTypeVOD     StreamType = "VOD"
)

// StreamTypeFor maps the live flag fixed at adapter construction.
func StreamTypeFor(isLive bool) StreamType {
	if isLive {
		return StreamTypeLive
	}
	return StreamTypeVOD
}

// AdPosition is the normalized position of an ad relative to its content.
type AdPosition string

// Ad positions.
const (
	AdPositionPreroll  AdPosition = "PREROLL"
	AdPositionMidroll  AdPosition = "MIDROLL"
	AdPositionPostroll AdPosition = "POSTROLL"
)

// ContentMetadata is one layer of content metadata. The adapter keeps two:
// the automatically derived base and the caller-supplied overrides.
// Nil fields are unset.
type ContentMetadata struct {
	AssetName        *string     `json:"asset_name,omitempty"`
	ViewerID         *string     `json:"viewer_id,omitempty"`
	ApplicationName  *string     `json:"application_name,omitempty"`
	StreamType       *StreamType `json:"stream_type,omitempty"`
	Custom           Attributes  `json:"custom,omitempty"`
	Duration         *int        `json:"duration,omitempty"` // seconds
	EncodedFramerate *int        `json:"encoded_framerate,omitempty"`
	DefaultResource  *string     `json:"default_resource,omitempty"`
	StreamURL        *string     `json:"stream_url,omitempty"`
}

// Clone returns a copy that shares no mutable state with m.
func (m ContentMetadata) Clone() ContentMetadata {
	m.Custom = m.Custom.Clone()
	return m
}

// AdMetadata is one layer of metadata for a single ad.
type AdMetadata struct {
	AssetName        *string     `json:"asset_name,omitempty"`
	AdID             *string     `json:"ad_id,omitempty"`
	AdSystem         *string     `json:"ad_system,omitempty"`
	Position         *AdPosition `json:"position,omitempty"`
	StreamType       *StreamType `json:"stream_type,omitempty"`
	Custom           Attributes  `json:"custom,omitempty"`
	Duration         *int        `json:"duration,omitempty"` // seconds
	EncodedFramerate *int        `json:"encoded_framerate,omitempty"`
	DefaultResource  *string     `json:"default_resource,omitempty"`
	StreamURL        *string     `json:"stream_url,omitempty"`
}

// Clone returns a copy that shares no mutable state with m.
func (m AdMetadata) Clone() AdMetadata {
	m.Custom = m.Custom.Clone()
	return m
}

// Ptr returns a pointer to v. Handy for building metadata literals.
func Ptr[T any](v T) *T {
	return &v
}

// Coalesce returns override when set, otherwise base.
func Coalesce[T any](override, base *T) *T {
	if override != nil {
		return override
	}
	return base
}
