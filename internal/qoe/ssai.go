// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package qoe

import (
	"github.com/tomtom215/playbackqoe/internal/models"
	"github.com/tomtom215/playbackqoe/internal/session"
)

// AdInfo describes a server-side inserted ad.
type AdInfo = session.AdInfo

// SSAI reports ads stitched into the stream server-side. Apart from
// ReportAdBreakStarted every call is ignored while no ad break is active.
type SSAI struct {
	s *session.SSAI
}

// IsAdBreakActive reports whether an ad break is open.
func (s *SSAI) IsAdBreakActive() bool {
	return s.s.IsAdBreakActive()
}

// ReportAdBreakStarted opens an ad break, optionally with ad break
// attributes. It is ignored while a break is already open.
func (s *SSAI) ReportAdBreakStarted(info ...models.Attributes) {
	var merged models.Attributes
	for _, i := range info {
		merged = models.MergeAttributes(merged, i)
	}
	s.s.ReportAdBreakStarted(merged)
}

// ReportAdBreakFinished closes the ad break.
func (s *SSAI) ReportAdBreakFinished() {
	s.s.ReportAdBreakFinished()
}

// ReportAdStarted starts an ad within the open break.
//
//nolint:gocritic // AdInfo is passed by value to avoid aliasing
func (s *SSAI) ReportAdStarted(ad AdInfo) {
	s.s.ReportAdStarted(ad)
}

// ReportAdFinished ends the current ad.
func (s *SSAI) ReportAdFinished() {
	s.s.ReportAdFinished()
}

// ReportAdSkipped ends the current ad as skipped.
func (s *SSAI) ReportAdSkipped() {
	s.s.ReportAdSkipped()
}

// Update merges the set fields of ad into the current ad's metadata.
//
//nolint:gocritic // AdInfo is passed by value to avoid aliasing
func (s *SSAI) Update(ad AdInfo) {
	s.s.Update(ad)
}
