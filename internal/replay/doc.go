// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

/*
Package replay drives the analytics adapter from a recorded player event log.

The log is JSON lines. Each entry carries an offset from the start of the
recording and any of: a player state patch, a player event and an adapter
action. The state patch is applied first, so the adapter sees the player as
it was when the event fired.

	{"offset_ms":0,"state":{"source":{"title":"Sintel","url":"https://cdn.example.com/sintel.m3u8","protocol":"HLS"},"duration":888}}
	{"offset_ms":10,"state":{"playing":true},"event":{"type":"play"}}
	{"offset_ms":450,"event":{"type":"playing"}}
	{"offset_ms":9000,"action":{"name":"ssai_ad_break_started"}}
	{"offset_ms":9000,"action":{"name":"ssai_ad_started","ssai_ad":{"title":"Spot","duration":15}}}

Blank lines and lines starting with '#' are skipped.

Player implements player.Player and player.EventSource on top of the applied
snapshots; Runner feeds a Reader through a Player into a qoe.Adapter.

Timers run on the recording's timeline: the adapter is built with a Clock
(qoe.WithScheduler) that the Runner advances to each entry's offset, so a
stall's debounce outcome does not depend on replay speed.
*/
package replay
