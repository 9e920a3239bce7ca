// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package session

import (
	"io"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/tomtom215/playbackqoe/internal/analytics"
	"github.com/tomtom215/playbackqoe/internal/logging"
	"github.com/tomtom215/playbackqoe/internal/player"
)

func countBuffering(states []analytics.PlayerState) int {
	n := 0
	for _, s := range states {
		if s == analytics.PlayerStateBuffering {
			n++
		}
	}
	return n
}

func checkBuffering(t *testing.T, sink *recordingSink, ch analytics.Channel, want int) {
	t.Helper()
	if got := countBuffering(sink.states(ch)); got != want {
		t.Errorf("%s BUFFERING reports = %d, want %d (states %v)", ch, got, want, sink.states(ch))
	}
}

func TestFalseStallIsNeverReported(t *testing.T) {
	t.Parallel()

	h := newHarness(t, defaultConfig())
	h.startPlayback()
	h.sink.reset()

	h.emit(player.EventStallStarted, player.EventStallEnded)
	h.sched.Advance(DefaultStallDebounce * 2)

	// The stall end resumes the actual player state.
	checkDeepEqual(t, "content states", h.sink.states(analytics.ChannelContent),
		[]analytics.PlayerState{analytics.PlayerStatePlaying})
}

func TestLongStallReportsBufferingOnce(t *testing.T) {
	t.Parallel()

	h := newHarness(t, defaultConfig())
	h.startPlayback()
	h.sink.reset()

	h.emit(player.EventStallStarted)
	h.sched.Advance(DefaultStallDebounce - time.Millisecond)
	checkBuffering(t, h.sink, analytics.ChannelContent, 0)

	h.sched.Advance(time.Millisecond)
	h.sched.Advance(time.Second)
	checkBuffering(t, h.sink, analytics.ChannelContent, 1)
	if !h.ctrl.State().Stalled {
		t.Error("State().Stalled = false during a reported stall")
	}
}

func TestStallSuppressesPlayingAndPaused(t *testing.T) {
	t.Parallel()

	h := newHarness(t, defaultConfig())
	h.startPlayback()
	h.sink.reset()

	h.emit(player.EventStallStarted, player.EventPlaying, player.EventPaused)
	if got := h.sink.states(analytics.ChannelContent); len(got) != 0 {
		t.Errorf("states during stall = %v, want none", got)
	}

	h.play.set(func(p *fakePlayer) { p.playing, p.paused = false, true })
	h.emit(player.EventStallEnded)
	checkDeepEqual(t, "content states", h.sink.states(analytics.ChannelContent),
		[]analytics.PlayerState{analytics.PlayerStatePaused})
}

func TestStallEndedBeforePlaybackStartIsSilent(t *testing.T) {
	t.Parallel()

	h := newHarness(t, defaultConfig())
	h.emit(player.EventPlay)
	h.sink.reset()

	h.play.set(func(p *fakePlayer) { p.playing = true })
	h.emit(player.EventStallStarted, player.EventStallEnded)
	h.sched.Advance(time.Second)

	if calls := h.sink.all(); len(calls) != 0 {
		t.Errorf("sink calls = %v, want none", methods(calls))
	}
}

func TestRestartedStallInvalidatesEarlierCallback(t *testing.T) {
	t.Parallel()

	h := newHarness(t, defaultConfig())
	h.startPlayback()
	h.sink.reset()

	h.emit(player.EventStallStarted)
	h.sched.Advance(60 * time.Millisecond)
	h.emit(player.EventStallEnded, player.EventStallStarted)
	h.sink.reset()

	// The first stall's callback is due now but belongs to an older stall.
	h.sched.Advance(50 * time.Millisecond)
	checkBuffering(t, h.sink, analytics.ChannelContent, 0)

	h.sched.Advance(50 * time.Millisecond)
	checkBuffering(t, h.sink, analytics.ChannelContent, 1)
}

func TestStallDuringAdReportsOnAdChannel(t *testing.T) {
	t.Parallel()

	h := newHarness(t, defaultConfig())
	h.startPlayback()
	h.sink.reset()

	h.play.set(func(p *fakePlayer) { p.ad = true })
	h.emit(player.EventStallStarted)
	h.sched.Advance(DefaultStallDebounce)

	checkBuffering(t, h.sink, analytics.ChannelAd, 1)
	checkBuffering(t, h.sink, analytics.ChannelContent, 0)
}

func TestStallAfterSessionEndIsDropped(t *testing.T) {
	t.Parallel()

	h := newHarness(t, defaultConfig())
	h.startPlayback()
	h.emit(player.EventStallStarted)
	h.ctrl.EndSession()
	h.sink.reset()

	h.sched.Advance(time.Second)
	if calls := h.sink.all(); len(calls) != 0 {
		t.Errorf("sink calls = %v, want none", methods(calls))
	}
	if h.ctrl.State().Stalled {
		t.Error("State().Stalled = true after session end")
	}
}

func TestCustomStallDebounce(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	cfg.StallDebounce = 500 * time.Millisecond
	h := newHarness(t, cfg)
	h.startPlayback()
	h.sink.reset()

	h.emit(player.EventStallStarted)
	h.sched.Advance(DefaultStallDebounce)
	checkBuffering(t, h.sink, analytics.ChannelContent, 0)

	h.sched.Advance(400 * time.Millisecond)
	checkBuffering(t, h.sink, analytics.ChannelContent, 1)
}

func TestStallDebounceWithRealTimer(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	p := newFakePlayer()
	sink := &recordingSink{}
	ctrl := New(p, sink, nil, logging.NewTestLogger(io.Discard), Config{StallDebounce: 20 * time.Millisecond})
	defer ctrl.Close()

	p.set(func(p *fakePlayer) { p.playing = true })
	ctrl.HandleEvent(player.Event{Type: player.EventPlay})
	ctrl.HandleEvent(player.Event{Type: player.EventPlaying})

	ctrl.HandleEvent(player.Event{Type: player.EventStallStarted})
	ctrl.HandleEvent(player.Event{Type: player.EventStallEnded})

	ctrl.HandleEvent(player.Event{Type: player.EventStallStarted})
	deadline := time.Now().Add(time.Second)
	for countBuffering(sink.states(analytics.ChannelContent)) != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("no BUFFERING report within 1s, states %v", sink.states(analytics.ChannelContent))
		}
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(50 * time.Millisecond)
	checkBuffering(t, sink, analytics.ChannelContent, 1)
}
