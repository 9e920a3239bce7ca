// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package session

import (
	"github.com/tomtom215/playbackqoe/internal/adposition"
	"github.com/tomtom215/playbackqoe/internal/analytics"
	"github.com/tomtom215/playbackqoe/internal/models"
	"github.com/tomtom215/playbackqoe/internal/player"
)

// Client-side ads are driven by the player's own ad events.

func (c *Controller) onAdBreakStartedLocked(brk *player.AdBreak) {
	if !c.active {
		return
	}

	var raw *string
	if brk != nil {
		raw = brk.Position
	}
	pos := adposition.Parse(raw, c.contentDuration())
	c.clientBreakPosition = &pos

	c.out.adBreakStarted(analytics.AdKindClientSide, models.Attributes{
		analytics.KeyAdPosition: models.StringValue(string(pos)),
	})
}

func (c *Controller) onAdBreakFinishedLocked() {
	if !c.active {
		return
	}
	c.clientBreakPosition = nil
	c.out.adBreakEnded()
}

func (c *Controller) onAdManifestLoadedLocked(ad *player.Ad) {
	if !c.active {
		return
	}
	c.startClientAdLocked(ad)
	c.out.adLoaded(c.ad.Build())
}

func (c *Controller) onAdStartedLocked(ad *player.Ad) {
	if !c.active {
		return
	}
	c.startClientAdLocked(ad)
	c.out.adStarted(c.ad.Build())
}

func (c *Controller) onAdFinishedLocked() {
	if !c.active {
		return
	}
	c.out.adEnded()
	c.ad.EndAd()
}

func (c *Controller) onAdSkippedLocked() {
	if !c.active {
		return
	}
	c.out.adSkipped()
	c.ad.EndAd()
}

// onAdErrorLocked always ends the ad, whatever the session's error policy.
func (c *Controller) onAdErrorLocked(ev player.Event) {
	if !c.active {
		return
	}
	c.out.deficiency(analytics.ChannelAd, ev.ErrorMessage(), analytics.SeverityFatal)
	c.out.adEnded()
	c.ad.EndAd()
}

func (c *Controller) startClientAdLocked(ad *player.Ad) {
	base := models.AdMetadata{
		Position:   c.clientBreakPosition,
		StreamType: models.Ptr(models.StreamTypeFor(c.cfg.IsLive)),
	}
	if ad != nil {
		base.AssetName = nonEmpty(ad.Title)
		base.AdID = nonEmpty(ad.ID)
		base.AdSystem = nonEmpty(ad.AdSystem)
		base.StreamURL = nonEmpty(ad.MediaURL)
		base.Duration = positive(ad.Duration)
		base.EncodedFramerate = positive(ad.Framerate)
	}
	if base.Position == nil {
		base.Position = models.Ptr(models.AdPositionPreroll)
	}
	c.ad.StartAd(base)
}

// contentDuration is the duration ad positions are resolved against.
func (c *Controller) contentDuration() float64 {
	if d := c.player.Duration(); player.IsFinite(d) && d > 0 {
		return d
	}
	if d := c.content.Duration(); d != nil {
		return float64(*d)
	}
	return 0
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func positive(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}
