// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

// Package metadata builds the content and ad payloads sent to the analytics
// sink.
//
// Each builder keeps two layers of the same record: the base layer, derived
// automatically from the player, and the overrides layer supplied by the
// caller. The effective value of a field is the override when set, otherwise
// the base; custom tags are the union of both with overrides winning.
//
// Build projects the effective record into a payload that accumulates across
// calls, under these rules:
//
//   - The asset name is written once. Later changes never replace it.
//   - Viewer id, application name, stream type, custom tags and duration are
//     written only until playback starts.
//   - After playback starts a missing or zero duration may still be repaired
//     by a positive one; a recorded nonzero duration never changes.
//   - Encoded frame rate, default resource and stream URL are rewritten on
//     every call.
//
// Reset clears everything and must be called when a session ends.
package metadata
