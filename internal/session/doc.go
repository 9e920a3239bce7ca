// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

/*
Package session implements the analytics session state machine.

A Controller observes player events and turns them into calls on an
analytics.Sink. It owns the session flags and the content and ad metadata
builders; nothing else mutates them.

# States

The controller is either without a session or has one active. A session opens
on the first play event, on an explicit InitializeSession, or implicitly when an
error must be attributed to one. It closes on playback finished, destroy,
source unloaded (configurable), a fatal error (configurable) or EndSession.
Ending a session always resets the metadata builders, so overrides do not leak
into the next one.

Within a session the flags playbackStarted, stalled and bumper modulate what
is reported without changing the top-level state.

# Stall Debounce

A stall is reported as BUFFERING only when it is still in progress after the
debounce delay (100ms by default). Each stall bumps a generation counter and
the scheduled callback checks it at fire time, so a stall that ends early is
never reported.

# Ads

Client-side ads follow the player's ad events. Server-side inserted ads are
reported through the SSAI API, gated on an open ad break. A deficiency
reported during a server-side break goes to both the content and ad channels.

# Thread Safety

All exported methods are safe for concurrent use.
*/
package session
