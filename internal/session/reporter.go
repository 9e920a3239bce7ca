// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package session

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/playbackqoe/internal/analytics"
	"github.com/tomtom215/playbackqoe/internal/metrics"
	"github.com/tomtom215/playbackqoe/internal/models"
)

// reporter wraps the sink so every outgoing call is counted and traced.
type reporter struct {
	sink   analytics.Sink
	logger zerolog.Logger
}

func (r *reporter) record(ch analytics.Channel, kind string) {
	metrics.RecordReport(string(ch), kind)
	r.logger.Trace().Str("channel", string(ch)).Str("kind", kind).Msg("report")
}

func (r *reporter) playbackRequested(info models.Attributes) {
	r.record(analytics.ChannelContent, "playback_requested")
	r.sink.ReportPlaybackRequested(info.Native())
}

func (r *reporter) playbackEnded() {
	r.record(analytics.ChannelContent, "playback_ended")
	r.sink.ReportPlaybackEnded()
}

func (r *reporter) contentInfo(info models.Attributes) {
	r.record(analytics.ChannelContent, "content_info")
	r.sink.SetContentInfo(info.Native())
}

func (r *reporter) metric(ch analytics.Channel, m analytics.Metric) {
	r.record(ch, "metric")
	r.sink.ReportMetric(ch, m)
}

func (r *reporter) state(ch analytics.Channel, s analytics.PlayerState) {
	r.metric(ch, analytics.StateMetric(s))
}

func (r *reporter) deficiency(ch analytics.Channel, message string, severity analytics.Severity) {
	r.record(ch, "error")
	metrics.RecordDeficiency(string(ch), string(severity))
	r.sink.ReportError(ch, message, severity)
}

func (r *reporter) playbackEvent(name string, attrs models.Attributes) {
	r.record(analytics.ChannelContent, "playback_event")
	r.sink.ReportPlaybackEvent(name, attrs.Native())
}

func (r *reporter) appEvent(name string, attrs models.Attributes) {
	r.record(analytics.ChannelContent, "app_event")
	r.sink.ReportAppEvent(name, attrs.Native())
}

func (r *reporter) appBackgrounded() {
	r.record(analytics.ChannelContent, "app_backgrounded")
	r.sink.ReportAppBackgrounded()
}

func (r *reporter) appForegrounded() {
	r.record(analytics.ChannelContent, "app_foregrounded")
	r.sink.ReportAppForegrounded()
}

func (r *reporter) adBreakStarted(kind analytics.AdKind, attrs models.Attributes) {
	r.record(analytics.ChannelContent, "ad_break_started")
	r.sink.ReportAdBreakStarted(kind, attrs.Native())
}

func (r *reporter) adBreakEnded() {
	r.record(analytics.ChannelContent, "ad_break_ended")
	r.sink.ReportAdBreakEnded()
}

func (r *reporter) adLoaded(info models.Attributes) {
	r.record(analytics.ChannelAd, "ad_loaded")
	r.sink.ReportAdLoaded(info.Native())
}

func (r *reporter) adStarted(info models.Attributes) {
	r.record(analytics.ChannelAd, "ad_started")
	r.sink.ReportAdStarted(info.Native())
}

func (r *reporter) adEnded() {
	r.record(analytics.ChannelAd, "ad_ended")
	r.sink.ReportAdEnded()
}

func (r *reporter) adSkipped() {
	r.record(analytics.ChannelAd, "ad_skipped")
	r.sink.ReportAdSkipped()
}

func (r *reporter) adInfo(info models.Attributes) {
	r.record(analytics.ChannelAd, "ad_info")
	r.sink.SetAdInfo(info.Native())
}
