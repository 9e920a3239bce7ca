// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package qoe

import (
	"errors"

	"github.com/tomtom215/playbackqoe/internal/session"
)

// ErrMissingAssetName is returned by InitializeSession when no asset name can
// be resolved from the source or the content metadata overrides.
var ErrMissingAssetName = session.ErrMissingAssetName

// ErrInvalidArgument is returned by New for a nil player, a nil connector or
// an empty customer key.
var ErrInvalidArgument = errors.New("qoe: invalid argument")

// ErrInvalidConfig is returned by New when the configuration fails validation.
var ErrInvalidConfig = errors.New("qoe: invalid configuration")

// ErrReleased is returned by InitializeSession after Release.
var ErrReleased = errors.New("qoe: adapter released")
