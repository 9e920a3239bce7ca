// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package session

import (
	"github.com/tomtom215/playbackqoe/internal/analytics"
	"github.com/tomtom215/playbackqoe/internal/player"
)

// HandleEvent applies one player event. It is the handler registered with
// the player's EventSource.
func (c *Controller) HandleEvent(ev player.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Trace().Str("event", string(ev.Type)).Bool("active", c.active).Msg("player event")

	switch ev.Type {
	case player.EventPlay:
		if !c.active {
			c.initializeLocked(triggerPlay)
		}
	case player.EventPlaying:
		c.onPlayingLocked()
	case player.EventPaused:
		c.onPausedLocked()
	case player.EventStallStarted:
		c.stallStartedLocked()
	case player.EventStallEnded:
		c.stallEndedLocked()
	case player.EventSeek:
		c.seekLocked(analytics.SeekStartedMetric(secondsToMillis(ev.Target)))
	case player.EventSeeked:
		c.seekLocked(analytics.SeekEndedMetric(secondsToMillis(c.player.CurrentTime())))
	case player.EventTimeShift:
		c.seekLocked(analytics.SeekStartedMetric(-1))
	case player.EventTimeShifted:
		c.seekLocked(analytics.SeekEndedMetric(-1))
	case player.EventTimeChanged:
		c.onTimeChangedLocked()
	case player.EventSourceUnloaded:
		if c.cfg.EndSessionOnSourceUnloaded {
			c.endSessionLocked()
		}
	case player.EventPlayerError, player.EventSourceError:
		c.onErrorLocked(ev)
	case player.EventPlaybackFinished:
		if c.active {
			c.out.state(analytics.ChannelContent, analytics.PlayerStateStopped)
		}
		c.endSessionLocked()
	case player.EventDestroy:
		c.endSessionLocked()
	case player.EventMuted:
		c.namedEventLocked(analytics.EventMute)
	case player.EventUnmuted:
		c.namedEventLocked(analytics.EventUnmute)
	case player.EventFullscreenEnter:
		c.namedEventLocked(analytics.EventFullscreenEnter)
	case player.EventFullscreenExit:
		c.namedEventLocked(analytics.EventFullscreenExit)

	case player.EventAdBreakStarted:
		c.onAdBreakStartedLocked(ev.AdBreak)
	case player.EventAdBreakFinished:
		c.onAdBreakFinishedLocked()
	case player.EventAdManifestLoaded:
		c.onAdManifestLoadedLocked(ev.Ad)
	case player.EventAdStarted:
		c.onAdStartedLocked(ev.Ad)
	case player.EventAdFinished:
		c.onAdFinishedLocked()
	case player.EventAdSkipped:
		c.onAdSkippedLocked()
	case player.EventAdError:
		c.onAdErrorLocked(ev)

	default:
		c.logger.Debug().Str("event", string(ev.Type)).Msg("Ignoring unknown player event")
	}
}

func (c *Controller) onPlayingLocked() {
	if !c.active {
		return
	}
	if c.player.IsAd() {
		c.ad.SetPlaybackStarted(true)
		if !c.stalled {
			c.out.state(analytics.ChannelAd, analytics.PlayerStatePlaying)
		}
		return
	}

	c.playbackStarted = true
	c.content.SetPlaybackStarted(true)
	c.refreshDynamicLocked()
	c.out.contentInfo(c.content.Build())
	if !c.stalled {
		c.out.state(analytics.ChannelContent, analytics.PlayerStatePlaying)
	}
}

func (c *Controller) onPausedLocked() {
	if !c.active || c.stalled {
		return
	}
	c.out.state(c.playerChannel(), analytics.PlayerStatePaused)
}

func (c *Controller) seekLocked(m analytics.Metric) {
	if !c.active {
		return
	}
	c.out.metric(analytics.ChannelContent, m)
}

func (c *Controller) onTimeChangedLocked() {
	if !c.active {
		return
	}

	c.refreshDynamicLocked()
	c.out.contentInfo(c.content.Build())

	if q := c.player.VideoQuality(); q != nil {
		c.out.metric(analytics.ChannelContent, analytics.BitrateMetric(q.Bitrate/1000))
		c.out.metric(analytics.ChannelContent, analytics.ResolutionMetric(q.Width, q.Height))
	}
	c.out.metric(analytics.ChannelContent, analytics.FramerateMetric(int(c.player.RenderedFramerate())))
	if !c.cfg.IsLive {
		c.out.metric(analytics.ChannelContent, analytics.PlayHeadMetric(secondsToMillis(c.player.CurrentTime())))
	}
}

// onErrorLocked opens a session first when needed so the error is
// attributable to one.
func (c *Controller) onErrorLocked(ev player.Event) {
	if !c.active {
		c.initializeLocked(triggerError)
	}
	c.deficiencyLocked(ev.ErrorMessage(), analytics.SeverityFatal, c.cfg.EndSessionOnPlaybackError)
}

func (c *Controller) namedEventLocked(name string) {
	if !c.active {
		return
	}
	c.out.playbackEvent(name, nil)
}

func secondsToMillis(s float64) int64 {
	if !player.IsFinite(s) {
		return -1
	}
	return int64(s * 1000)
}
