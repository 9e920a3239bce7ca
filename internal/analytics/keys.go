// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package analytics

// Content and ad metadata keys.
const (
	KeyAssetName        = "assetName"
	KeyViewerID         = "viewerId"
	KeyApplicationName  = "applicationName"
	KeyStreamType       = "streamType"
	KeyDuration         = "duration"
	KeyEncodedFramerate = "encodedFrameRate"
	KeyDefaultResource  = "defaultResource"
	KeyStreamURL        = "streamUrl"
	KeyAdID             = "adId"
	KeyAdSystem         = "adSystem"
	KeyAdPosition       = "adPosition"
)

// Custom tag keys added by the adapter itself.
const (
	TagStreamProtocol     = "streamProtocol"
	TagIntegrationVersion = "integrationVersion"
)

// IntegrationVersion is reported with every session.
const IntegrationVersion = "1.4.0"

// PlayerState values reported through MetricPlayerState.
type PlayerState string

// Player states.
const (
	PlayerStatePlaying   PlayerState = "PLAYING"
	PlayerStatePaused    PlayerState = "PAUSED"
	PlayerStateBuffering PlayerState = "BUFFERING"
	PlayerStateStopped   PlayerState = "STOPPED"
)

// MetricName identifies a playback metric.
type MetricName string

// Metric names.
const (
	MetricPlayerState       MetricName = "playerState"
	MetricBitrate           MetricName = "bitrate"    // kbps
	MetricResolution        MetricName = "resolution" // Resolution
	MetricRenderedFramerate MetricName = "renderedFrameRate"
	MetricPlayHead          MetricName = "playHeadTime" // ms
	MetricSeekStarted       MetricName = "seekStarted"  // target ms, -1 for timeshift
	MetricSeekEnded         MetricName = "seekEnded"    // position ms, -1 for timeshift
)

// Resolution is the value of MetricResolution.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Metric is a single named metric observation.
type Metric struct {
	Name  MetricName `json:"name"`
	Value any        `json:"value"`
}

// Playback and application event names emitted by the adapter.
const (
	EventMute             = "on_mute"
	EventUnmute           = "on_unmute"
	EventFullscreenEnter  = "on_fullscreen_enter"
	EventFullscreenExit   = "on_fullscreen_exit"
	EventUserWaitStarted  = "user_wait_started"
	EventUserWaitEnded    = "user_wait_ended"
	EventBumperVideoStart = "bumper_video_started"
	EventBumperVideoEnd   = "bumper_video_ended"
)

// StateMetric reports the player state.
func StateMetric(s PlayerState) Metric { return Metric{Name: MetricPlayerState, Value: s} }

// BitrateMetric reports the current bitrate in kbps.
func BitrateMetric(kbps int) Metric { return Metric{Name: MetricBitrate, Value: kbps} }

// ResolutionMetric reports the rendered resolution.
func ResolutionMetric(width, height int) Metric {
	return Metric{Name: MetricResolution, Value: Resolution{Width: width, Height: height}}
}

// FramerateMetric reports the rendered frame rate.
func FramerateMetric(fps int) Metric { return Metric{Name: MetricRenderedFramerate, Value: fps} }

// PlayHeadMetric reports the playback position in milliseconds.
func PlayHeadMetric(ms int64) Metric { return Metric{Name: MetricPlayHead, Value: ms} }

// SeekStartedMetric reports a seek target in milliseconds.
func SeekStartedMetric(ms int64) Metric { return Metric{Name: MetricSeekStarted, Value: ms} }

// SeekEndedMetric reports the position after a seek in milliseconds.
func SeekEndedMetric(ms int64) Metric { return Metric{Name: MetricSeekEnded, Value: ms} }
