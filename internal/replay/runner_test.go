// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package replay

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/playbackqoe/internal/analytics"
	"github.com/tomtom215/playbackqoe/internal/logging"
	"github.com/tomtom215/playbackqoe/internal/qoe"
)

type call struct {
	method string
	arg    string
	info   analytics.Info
}

// recordingSink records the analytics calls the adapter makes.
type recordingSink struct {
	mu    sync.Mutex
	calls []call
}

func (s *recordingSink) add(method, arg string, info analytics.Info) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{method: method, arg: arg, info: info})
}

func (s *recordingSink) count(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.method == method {
			n++
		}
	}
	return n
}

// states returns the player states reported on ch, in order.
func (s *recordingSink) states(ch analytics.Channel) []analytics.PlayerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := string(ch) + ":" + string(analytics.MetricPlayerState)
	var out []analytics.PlayerState
	for _, c := range s.calls {
		if c.method == "ReportMetric" && c.arg == want {
			out = append(out, c.info["value"].(analytics.PlayerState))
		}
	}
	return out
}

func (s *recordingSink) first(method string) (call, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.calls {
		if c.method == method {
			return c, true
		}
	}
	return call{}, false
}

func (s *recordingSink) ReportPlaybackRequested(info analytics.Info) {
	s.add("ReportPlaybackRequested", "", info)
}

func (s *recordingSink) ReportPlaybackEnded() {
	s.add("ReportPlaybackEnded", "", nil)
}

func (s *recordingSink) SetContentInfo(info analytics.Info) {
	s.add("SetContentInfo", "", info)
}

func (s *recordingSink) ReportMetric(ch analytics.Channel, m analytics.Metric) {
	s.add("ReportMetric", string(ch)+":"+string(m.Name), analytics.Info{"value": m.Value})
}

func (s *recordingSink) ReportError(ch analytics.Channel, message string, _ analytics.Severity) {
	s.add("ReportError", string(ch)+":"+message, nil)
}

func (s *recordingSink) ReportPlaybackEvent(name string, attrs analytics.Info) {
	s.add("ReportPlaybackEvent", name, attrs)
}

func (s *recordingSink) ReportAppEvent(name string, attrs analytics.Info) {
	s.add("ReportAppEvent", name, attrs)
}

func (s *recordingSink) ReportAppBackgrounded() {
	s.add("ReportAppBackgrounded", "", nil)
}

func (s *recordingSink) ReportAppForegrounded() {
	s.add("ReportAppForegrounded", "", nil)
}

func (s *recordingSink) ReportAdBreakStarted(kind analytics.AdKind, attrs analytics.Info) {
	s.add("ReportAdBreakStarted", string(kind), attrs)
}

func (s *recordingSink) ReportAdBreakEnded() {
	s.add("ReportAdBreakEnded", "", nil)
}

func (s *recordingSink) ReportAdLoaded(info analytics.Info) {
	s.add("ReportAdLoaded", "", info)
}

func (s *recordingSink) ReportAdStarted(info analytics.Info) {
	s.add("ReportAdStarted", "", info)
}

func (s *recordingSink) ReportAdEnded() {
	s.add("ReportAdEnded", "", nil)
}

func (s *recordingSink) ReportAdSkipped() {
	s.add("ReportAdSkipped", "", nil)
}

func (s *recordingSink) SetAdInfo(info analytics.Info) {
	s.add("SetAdInfo", "", info)
}

func (s *recordingSink) Release() {
	s.add("Release", "", nil)
}

func newTestRunner(t *testing.T, speed float64) (*Runner, *recordingSink) {
	t.Helper()

	sink := &recordingSink{}
	p := NewPlayer()
	clock := NewClock()
	adapter, err := qoe.New(p, "customer-key", qoe.Config{},
		analytics.ConnectorFunc(func(string, analytics.Settings) (analytics.Sink, error) { return sink, nil }),
		qoe.WithLogger(logging.NewTestLogger(io.Discard)),
		qoe.WithScheduler(clock),
	)
	require.NoError(t, err)
	t.Cleanup(adapter.Release)

	return NewRunner(p, clock, adapter, speed, logging.NewTestLogger(io.Discard)), sink
}

const sessionLog = `{"offset_ms":0,"state":{"source":{"title":"Sintel","url":"https://cdn.example.com/sintel.m3u8","protocol":"HLS"},"duration":888}}
{"offset_ms":10,"state":{"playing":true},"event":{"type":"play"}}
{"offset_ms":400,"event":{"type":"playing"}}
{"offset_ms":1000,"state":{"current_time":1.0,"quality":{"bitrate":1500000,"width":1280,"height":720},"framerate":25},"event":{"type":"time_changed"}}
{"offset_ms":9000,"action":{"name":"ssai_ad_break_started","ad_break":{"podIndex":1}}}
{"offset_ms":9000,"action":{"name":"ssai_ad_started","ssai_ad":{"title":"Spot","duration":15,"id":"ad-1","position":"MIDROLL"}}}
{"offset_ms":24000,"action":{"name":"ssai_ad_finished"}}
{"offset_ms":24000,"action":{"name":"ssai_ad_break_finished"}}
{"offset_ms":30000,"action":{"name":"custom_playback_event","event":"chapter","attributes":{"number":"2"}}}
{"offset_ms":31000,"action":{"name":"rewind"}}
{"offset_ms":888000,"state":{"playing":false},"event":{"type":"playback_finished"}}
`

func TestRunnerReplaysSession(t *testing.T) {
	t.Parallel()

	r, sink := newTestRunner(t, 0)
	stats, err := r.Run(context.Background(), NewReader(strings.NewReader(sessionLog)))
	require.NoError(t, err)

	assert.Equal(t, Stats{Entries: 11, Events: 4, Actions: 6, Failed: 1}, stats)

	requested, ok := sink.first("ReportPlaybackRequested")
	require.True(t, ok)
	assert.Equal(t, "Sintel", requested.info[analytics.KeyAssetName])
	assert.Equal(t, "https://cdn.example.com/sintel.m3u8", requested.info[analytics.KeyStreamURL])

	brk, ok := sink.first("ReportAdBreakStarted")
	require.True(t, ok)
	assert.Equal(t, string(analytics.AdKindServerSide), brk.arg)

	ad, ok := sink.first("ReportAdStarted")
	require.True(t, ok)
	assert.Equal(t, "Spot", ad.info[analytics.KeyAssetName])
	assert.Equal(t, "MIDROLL", ad.info[analytics.KeyAdPosition])

	ev, ok := sink.first("ReportPlaybackEvent")
	require.True(t, ok)
	assert.Equal(t, "chapter", ev.arg)
	assert.Equal(t, "2", ev.info["number"])

	assert.Equal(t, 1, sink.count("ReportAdEnded"))
	assert.Equal(t, 1, sink.count("ReportAdBreakEnded"))
	assert.Equal(t, 1, sink.count("ReportPlaybackEnded"))
}

func TestRunnerCountsRejectedActions(t *testing.T) {
	t.Parallel()

	log := `{"action":{"name":"initialize_session"}}
{"action":{"name":"update_content_metadata"}}
{"action":{"name":"playback_deficiency","severity":"CRITICAL"}}
{"action":{"name":"update_content_metadata","content":{"asset_name":"Tears of Steel"}}}
{"action":{"name":"initialize_session"}}
`
	r, sink := newTestRunner(t, 0)
	stats, err := r.Run(context.Background(), NewReader(strings.NewReader(log)))
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Actions)
	assert.Equal(t, 3, stats.Failed, "missing asset name, missing content and bad severity")

	requested, ok := sink.first("ReportPlaybackRequested")
	require.True(t, ok)
	assert.Equal(t, "Tears of Steel", requested.info[analytics.KeyAssetName])
}

func TestRunnerScalesDelays(t *testing.T) {
	t.Parallel()

	log := `{"offset_ms":0,"action":{"name":"app_backgrounded"}}
{"offset_ms":100,"action":{"name":"app_foregrounded"}}
{"offset_ms":100,"action":{"name":"app_backgrounded"}}
{"offset_ms":250,"action":{"name":"app_foregrounded"}}
`
	r, _ := newTestRunner(t, 2)
	var delays []time.Duration
	r.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	_, err := r.Run(context.Background(), NewReader(strings.NewReader(log)))
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{200 * time.Millisecond, 300 * time.Millisecond}, delays)
}

func TestRunnerStopsOnCancel(t *testing.T) {
	t.Parallel()

	r, _ := newTestRunner(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, NewReader(strings.NewReader(sessionLog)))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerReturnsReadErrors(t *testing.T) {
	t.Parallel()

	r, _ := newTestRunner(t, 0)
	stats, err := r.Run(context.Background(), NewReader(strings.NewReader("{\"action\":{\"name\":\"end_session\"}}\nnot json\n")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 1, stats.Entries)
}

func TestRunnerStallDebounceFollowsRecordedOffsets(t *testing.T) {
	t.Parallel()

	const head = `{"offset_ms":0,"state":{"source":{"title":"Sintel","url":"https://cdn.example.com/sintel.m3u8"},"duration":888}}
{"offset_ms":10,"state":{"playing":true},"event":{"type":"play"}}
{"offset_ms":400,"event":{"type":"playing"}}
{"offset_ms":1000,"event":{"type":"stall_started"}}
`
	const tail = `{"offset_ms":9000,"state":{"playing":false},"event":{"type":"playback_finished"}}
`
	playing, buffering, stopped := analytics.PlayerStatePlaying, analytics.PlayerStateBuffering, analytics.PlayerStateStopped

	tests := []struct {
		name     string
		stallEnd int
		speed    float64
		want     []analytics.PlayerState
	}{
		{name: "long stall", stallEnd: 6000, want: []analytics.PlayerState{playing, buffering, playing, stopped}},
		{name: "long stall paced", stallEnd: 6000, speed: 1, want: []analytics.PlayerState{playing, buffering, playing, stopped}},
		{name: "false stall", stallEnd: 1050, want: []analytics.PlayerState{playing, playing, stopped}},
		{name: "false stall paced", stallEnd: 1050, speed: 1, want: []analytics.PlayerState{playing, playing, stopped}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, sink := newTestRunner(t, tt.speed)
			// Pacing must not influence the debounce: sleeps return at once.
			r.sleep = func(context.Context, time.Duration) error { return nil }

			log := head + fmt.Sprintf(`{"offset_ms":%d,"event":{"type":"stall_ended"}}`, tt.stallEnd) + "\n" + tail
			_, err := r.Run(context.Background(), NewReader(strings.NewReader(log)))
			require.NoError(t, err)

			assert.Equal(t, tt.want, sink.states(analytics.ChannelContent))
		})
	}
}

func TestRunnerFiresPendingStallBeforeNextEntry(t *testing.T) {
	t.Parallel()

	log := `{"offset_ms":0,"state":{"source":{"title":"Sintel"},"duration":888,"playing":true},"event":{"type":"play"}}
{"offset_ms":0,"event":{"type":"playing"}}
{"offset_ms":500,"event":{"type":"stall_started"}}
{"offset_ms":700,"action":{"name":"custom_playback_event","event":"marker"}}
`
	r, sink := newTestRunner(t, 0)
	_, err := r.Run(context.Background(), NewReader(strings.NewReader(log)))
	require.NoError(t, err)

	sink.mu.Lock()
	var order []string
	for _, c := range sink.calls {
		if c.method == "ReportPlaybackEvent" || c.arg == "content:playerState" {
			order = append(order, c.method+" "+c.arg)
		}
	}
	sink.mu.Unlock()

	assert.Equal(t, []string{
		"ReportMetric content:playerState",
		"ReportMetric content:playerState",
		"ReportPlaybackEvent marker",
	}, order, "buffering at 600ms is reported before the entry at 700ms")
	assert.Equal(t, []analytics.PlayerState{analytics.PlayerStatePlaying, analytics.PlayerStateBuffering},
		sink.states(analytics.ChannelContent))
}
