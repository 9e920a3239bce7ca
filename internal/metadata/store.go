// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package metadata

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/playbackqoe/internal/models"
)

// Record is a metadata layer that can be copied without aliasing.
type Record[M any] interface {
	Clone() M
}

// Schema defines how one metadata record type merges and how it is projected
// into the accumulated payload.
type Schema[M any] interface {
	// Merge returns the effective record: override fields win over base
	// fields, custom maps are unioned with override precedence.
	Merge(base, overrides M) M

	// Project writes the effective record into info, honoring the
	// playback-started gating rules.
	Project(effective M, info models.Attributes, playbackStarted bool)
}

// Store holds the base and override layers of one metadata record type and
// the payload accumulated across Build calls.
//
// Store is not safe for concurrent use; the session controller serializes
// access.
type Store[M Record[M]] struct {
	schema Schema[M]
	logger zerolog.Logger

	base            M
	overrides       M
	playbackStarted bool
	info            models.Attributes
}

// NewStore creates an empty store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewStore[M Record[M]](schema Schema[M], logger zerolog.Logger) *Store[M] {
	return &Store[M]{
		schema: schema,
		logger: logger,
		info:   models.Attributes{},
	}
}

// SetOverrides replaces the whole override layer. After playback has started
// every field is stored, but only the dynamic fields (and a duration repair)
// will reach the payload.
func (s *Store[M]) SetOverrides(overrides M) {
	if s.playbackStarted {
		s.logger.Warn().
			Msg("Playback has already started. Only encodedFramerate, defaultResource, streamUrl and a missing duration will be applied")
	}
	s.overrides = overrides.Clone()
}

// Overrides returns a copy of the override layer.
func (s *Store[M]) Overrides() M {
	return s.overrides.Clone()
}

// Base gives mutable access to the base layer. Builders' setters write here.
func (s *Store[M]) Base() *M {
	return &s.base
}

// Effective returns the merged view of base and overrides.
func (s *Store[M]) Effective() M {
	return s.schema.Merge(s.base, s.overrides)
}

// SetPlaybackStarted switches the gating behavior of Build.
func (s *Store[M]) SetPlaybackStarted(started bool) {
	s.playbackStarted = started
}

// PlaybackStarted reports the gating state.
func (s *Store[M]) PlaybackStarted() bool {
	return s.playbackStarted
}

// Build projects the effective record into the accumulated payload and returns
// a copy of it. Keys set by earlier calls persist unless overwritten.
func (s *Store[M]) Build() models.Attributes {
	s.schema.Project(s.Effective(), s.info, s.playbackStarted)
	return s.info.Clone()
}

// Reset clears both layers, the gating flag and the accumulated payload.
func (s *Store[M]) Reset() {
	var zero M
	s.base = zero
	s.overrides = zero
	s.playbackStarted = false
	s.info = models.Attributes{}
}

// resetOutput clears the accumulated payload and base layer but keeps
// overrides.
func (s *Store[M]) resetOutput() {
	var zero M
	s.base = zero
	s.playbackStarted = false
	s.info = models.Attributes{}
}
