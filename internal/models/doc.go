// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

/*
Package models defines the data structures shared by the playback QoE adapter.

Key Components:

  - Value / Attributes: a sum-typed value (string, integer, float, bool or
    nested map) used for caller-supplied custom tags and ad payloads, with a
    single serialization rule (Native) toward the analytics sink.
  - ContentMetadata: content metadata record, used both for automatically
    derived values ("base") and caller overrides.
  - AdMetadata: the same for a single ad.
  - StreamType, AdPosition: small string enums used in payloads.

Metadata records use pointer fields so that "not set" is distinguishable from a
zero value; the override-or-base precedence depends on it.
*/
package models
