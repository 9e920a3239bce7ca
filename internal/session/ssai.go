// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package session

import (
	"github.com/tomtom215/playbackqoe/internal/analytics"
	"github.com/tomtom215/playbackqoe/internal/models"
)

// AdInfo describes a server-side inserted ad. Zero values are unset.
type AdInfo struct {
	Title    string
	Duration int // seconds
	ID       string
	AdSystem string
	Position *models.AdPosition
	// AdditionalMetadata is merged into the ad payload as custom keys.
	AdditionalMetadata models.Attributes
}

func (a AdInfo) metadata() models.AdMetadata {
	return models.AdMetadata{
		AssetName: nonEmpty(a.Title),
		AdID:      nonEmpty(a.ID),
		AdSystem:  nonEmpty(a.AdSystem),
		Position:  a.Position,
		Duration:  positive(a.Duration),
		Custom:    a.AdditionalMetadata.Clone(),
	}
}

// SSAI reports server-side inserted ads, which the player cannot see. Every
// call except ReportAdBreakStarted is a no-op while no ad break is active.
type SSAI struct {
	c *Controller
}

// SSAI returns the server-side ad API bound to c.
func (c *Controller) SSAI() *SSAI {
	return &SSAI{c: c}
}

// IsAdBreakActive reports whether a server-side ad break is open.
func (s *SSAI) IsAdBreakActive() bool {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	return s.c.adBreakActive
}

// ReportAdBreakStarted opens an ad break. A second call while the break is
// open is ignored.
func (s *SSAI) ReportAdBreakStarted(info models.Attributes) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.adBreakActive {
		c.logger.Debug().Msg("Server-side ad break already active, ignoring start")
		return
	}
	c.adBreakActive = true
	c.out.adBreakStarted(analytics.AdKindServerSide, info)
}

// ReportAdBreakFinished closes the ad break.
func (s *SSAI) ReportAdBreakFinished() {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.adBreakActive {
		c.logger.Debug().Msg("No server-side ad break active, ignoring finish")
		return
	}
	c.adBreakActive = false
	c.ssaiAdActive = false
	c.ad.EndAd()
	c.out.adBreakEnded()
}

// ReportAdStarted starts an ad inside the open break. The current player
// metrics are mirrored onto the ad channel.
func (s *SSAI) ReportAdStarted(ad AdInfo) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.adBreakActive {
		c.logger.Debug().Msg("No server-side ad break active, ignoring ad start")
		return
	}

	base := ad.metadata()
	base.StreamType = models.Ptr(models.StreamTypeFor(c.cfg.IsLive))
	if src := c.player.Source(); src != nil {
		base.StreamURL = nonEmpty(src.URL)
	}
	c.ad.StartAd(base)
	c.ssaiAdActive = true
	c.out.adStarted(c.ad.Build())

	if q := c.player.VideoQuality(); q != nil {
		c.out.metric(analytics.ChannelAd, analytics.BitrateMetric(q.Bitrate/1000))
		c.out.metric(analytics.ChannelAd, analytics.ResolutionMetric(q.Width, q.Height))
	}
	c.out.metric(analytics.ChannelAd, analytics.FramerateMetric(int(c.player.RenderedFramerate())))
	c.out.state(analytics.ChannelAd, c.currentStateLocked())

	if c.active {
		c.out.contentInfo(c.content.Build())
	}
}

// ReportAdFinished ends the current ad.
func (s *SSAI) ReportAdFinished() {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.adBreakActive {
		return
	}
	c.ssaiAdActive = false
	c.out.adEnded()
	c.ad.EndAd()
}

// ReportAdSkipped ends the current ad as skipped.
func (s *SSAI) ReportAdSkipped() {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.adBreakActive {
		return
	}
	c.ssaiAdActive = false
	c.out.adSkipped()
	c.ad.EndAd()
}

// Update merges the set fields of ad into the current ad's metadata.
func (s *SSAI) Update(ad AdInfo) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.adBreakActive {
		return
	}
	c.ad.Patch(ad.metadata())
	c.out.adInfo(c.ad.Build())
}

func (c *Controller) currentStateLocked() analytics.PlayerState {
	switch {
	case c.stalled:
		return analytics.PlayerStateBuffering
	case c.player.IsPlaying():
		return analytics.PlayerStatePlaying
	case c.player.IsPaused():
		return analytics.PlayerStatePaused
	default:
		return analytics.PlayerStateStopped
	}
}
