// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package session

import (
	"io"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/playbackqoe/internal/analytics"
	"github.com/tomtom215/playbackqoe/internal/logging"
	"github.com/tomtom215/playbackqoe/internal/player"
)

// fakePlayer is a settable player.Player.
type fakePlayer struct {
	mu        sync.Mutex
	source    *player.Source
	duration  float64
	current   float64
	playing   bool
	paused    bool
	ad        bool
	quality   *player.VideoQuality
	framerate float64
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{
		source:    &player.Source{Title: "Big Buck Bunny", URL: "https://cdn.example.com/bbb.m3u8", Protocol: player.ProtocolHLS},
		duration:  120,
		quality:   &player.VideoQuality{Bitrate: 2_500_000, Width: 1920, Height: 1080},
		framerate: 29.97,
	}
}

func (p *fakePlayer) set(fn func(p *fakePlayer)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p)
}

func (p *fakePlayer) Source() *player.Source {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

func (p *fakePlayer) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

func (p *fakePlayer) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *fakePlayer) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

func (p *fakePlayer) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *fakePlayer) IsAd() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ad
}

func (p *fakePlayer) VideoQuality() *player.VideoQuality {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.quality
}

func (p *fakePlayer) RenderedFramerate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.framerate
}

// call is one recorded sink call.
type call struct {
	Method   string
	Channel  analytics.Channel
	Info     analytics.Info
	Metric   analytics.Metric
	Message  string
	Severity analytics.Severity
	Name     string
	Kind     analytics.AdKind
}

// recordingSink records every call.
type recordingSink struct {
	mu    sync.Mutex
	calls []call
}

func (s *recordingSink) add(c call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

func (s *recordingSink) all() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *recordingSink) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

func (s *recordingSink) count(method string) int {
	n := 0
	for _, c := range s.all() {
		if c.Method == method {
			n++
		}
	}
	return n
}

func (s *recordingSink) last(method string) (call, bool) {
	calls := s.all()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method {
			return calls[i], true
		}
	}
	return call{}, false
}

// states returns the player states reported on ch, in order.
func (s *recordingSink) states(ch analytics.Channel) []analytics.PlayerState {
	var out []analytics.PlayerState
	for _, c := range s.all() {
		if c.Method == "ReportMetric" && c.Channel == ch && c.Metric.Name == analytics.MetricPlayerState {
			out = append(out, c.Metric.Value.(analytics.PlayerState))
		}
	}
	return out
}

func (s *recordingSink) metrics(ch analytics.Channel, name analytics.MetricName) []any {
	var out []any
	for _, c := range s.all() {
		if c.Method == "ReportMetric" && c.Channel == ch && c.Metric.Name == name {
			out = append(out, c.Metric.Value)
		}
	}
	return out
}

func (s *recordingSink) ReportPlaybackRequested(info analytics.Info) {
	s.add(call{Method: "ReportPlaybackRequested", Info: info})
}
func (s *recordingSink) ReportPlaybackEnded() { s.add(call{Method: "ReportPlaybackEnded"}) }
func (s *recordingSink) SetContentInfo(info analytics.Info) {
	s.add(call{Method: "SetContentInfo", Info: info})
}
func (s *recordingSink) ReportMetric(ch analytics.Channel, m analytics.Metric) {
	s.add(call{Method: "ReportMetric", Channel: ch, Metric: m})
}
func (s *recordingSink) ReportError(ch analytics.Channel, msg string, sev analytics.Severity) {
	s.add(call{Method: "ReportError", Channel: ch, Message: msg, Severity: sev})
}
func (s *recordingSink) ReportPlaybackEvent(name string, attrs analytics.Info) {
	s.add(call{Method: "ReportPlaybackEvent", Name: name, Info: attrs})
}
func (s *recordingSink) ReportAppEvent(name string, attrs analytics.Info) {
	s.add(call{Method: "ReportAppEvent", Name: name, Info: attrs})
}
func (s *recordingSink) ReportAppBackgrounded() { s.add(call{Method: "ReportAppBackgrounded"}) }
func (s *recordingSink) ReportAppForegrounded() { s.add(call{Method: "ReportAppForegrounded"}) }
func (s *recordingSink) ReportAdBreakStarted(kind analytics.AdKind, attrs analytics.Info) {
	s.add(call{Method: "ReportAdBreakStarted", Kind: kind, Info: attrs})
}
func (s *recordingSink) ReportAdBreakEnded() { s.add(call{Method: "ReportAdBreakEnded"}) }
func (s *recordingSink) ReportAdLoaded(info analytics.Info) {
	s.add(call{Method: "ReportAdLoaded", Info: info})
}
func (s *recordingSink) ReportAdStarted(info analytics.Info) {
	s.add(call{Method: "ReportAdStarted", Info: info})
}
func (s *recordingSink) ReportAdEnded()   { s.add(call{Method: "ReportAdEnded"}) }
func (s *recordingSink) ReportAdSkipped() { s.add(call{Method: "ReportAdSkipped"}) }
func (s *recordingSink) SetAdInfo(info analytics.Info) {
	s.add(call{Method: "SetAdInfo", Info: info})
}
func (s *recordingSink) Release() { s.add(call{Method: "Release"}) }

// manualScheduler fires callbacks only when advanced.
type manualScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	pending []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{at: s.now + d, f: f}
	s.pending = append(s.pending, t)
	return t
}

// Advance moves time forward and runs due callbacks outside the scheduler
// lock, as time.AfterFunc would.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due, rest []*manualTimer
	for _, t := range s.pending {
		if t.at <= s.now {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	s.pending = rest
	s.mu.Unlock()

	for _, t := range due {
		if t.stopped {
			continue
		}
		t.fired = true
		t.f()
	}
}

type harness struct {
	ctrl  *Controller
	play  *fakePlayer
	sink  *recordingSink
	sched *manualScheduler
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{
		play:  newFakePlayer(),
		sink:  &recordingSink{},
		sched: &manualScheduler{},
	}
	h.ctrl = New(h.play, h.sink, h.sched, logging.NewTestLogger(io.Discard), cfg)
	return h
}

func defaultConfig() Config {
	return Config{EndSessionOnSourceUnloaded: true, EndSessionOnPlaybackError: true}
}

func (h *harness) emit(types ...player.EventType) {
	for _, et := range types {
		h.ctrl.HandleEvent(player.Event{Type: et})
	}
}

// startPlayback opens a session and marks content playback as started.
func (h *harness) startPlayback() {
	h.play.set(func(p *fakePlayer) { p.playing = true })
	h.emit(player.EventPlay, player.EventPlaying)
}

// lastCall returns the most recent call of method, failing the test when
// there is none.
func (h *harness) lastCall(t *testing.T, method string) call {
	t.Helper()
	c, ok := h.sink.last(method)
	if !ok {
		t.Fatalf("no %s call recorded", method)
	}
	return c
}

func (h *harness) checkCount(t *testing.T, method string, want int) {
	t.Helper()
	if got := h.sink.count(method); got != want {
		t.Errorf("%s called %d times, want %d", method, got, want)
	}
}

func (h *harness) checkActive(t *testing.T, want bool) {
	t.Helper()
	if got := h.ctrl.State().Active; got != want {
		t.Errorf("State().Active = %v, want %v", got, want)
	}
}

func checkInfo(t *testing.T, info analytics.Info, key string, want any) {
	t.Helper()
	if got := info[key]; !reflect.DeepEqual(got, want) {
		t.Errorf("%s = %#v, want %#v", key, got, want)
	}
}

func checkDeepEqual(t *testing.T, what string, got, want any) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("%s = %#v, want %#v", what, got, want)
	}
}

func methods(calls []call) []string {
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Method)
	}
	return out
}
