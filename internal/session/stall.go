// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package session

import (
	"github.com/tomtom215/playbackqoe/internal/analytics"
	"github.com/tomtom215/playbackqoe/internal/metrics"
)

// Players emit StallStarted immediately followed by StallEnded on seeks and
// quality switches. Buffering is only reported once a stall has outlived the
// debounce delay.

func (c *Controller) stallStartedLocked() {
	c.stalled = true
	c.stallGen++
	c.stallPending = true

	gen := c.stallGen
	c.stallTimer = c.scheduler.AfterFunc(c.cfg.StallDebounce, func() {
		c.stallFired(gen)
	})
}

func (c *Controller) stallFired(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.stallGen {
		return
	}
	c.stallPending = false
	c.stallTimer = nil
	if !c.stalled || !c.active {
		return
	}

	metrics.RecordStall(true)
	c.out.state(c.playerChannel(), analytics.PlayerStateBuffering)
}

func (c *Controller) stallEndedLocked() {
	c.stalled = false
	if c.stallPending {
		c.stallPending = false
		metrics.RecordStall(false)
		c.logger.Trace().Msg("Stall ended within debounce delay, not reported")
	}

	if !c.active || !c.playbackStarted {
		return
	}
	switch {
	case c.player.IsPlaying():
		c.out.state(c.playerChannel(), analytics.PlayerStatePlaying)
	case c.player.IsPaused():
		c.out.state(c.playerChannel(), analytics.PlayerStatePaused)
	}
}

// clearStallLocked drops the stall flag and invalidates any pending debounce
// callback.
func (c *Controller) clearStallLocked() {
	c.stalled = false
	c.stallPending = false
	c.stallGen++
	if c.stallTimer != nil {
		c.stallTimer.Stop()
		c.stallTimer = nil
	}
}

// playerChannel routes state reports to the ad channel while the player
// plays an ad.
func (c *Controller) playerChannel() analytics.Channel {
	if c.player.IsAd() {
		return analytics.ChannelAd
	}
	return analytics.ChannelContent
}
