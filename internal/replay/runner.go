// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package replay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/playbackqoe/internal/qoe"
)

// ErrUnknownAction is returned for an action name the runner does not know.
var ErrUnknownAction = errors.New("unknown action")

// Stats summarizes a replay.
type Stats struct {
	Entries int `json:"entries"`
	Events  int `json:"events"`
	Actions int `json:"actions"`
	// Failed counts actions the adapter rejected.
	Failed int `json:"failed"`
}

// Runner replays a log through a Player into an adapter.
type Runner struct {
	player  *Player
	clock   *Clock
	adapter *qoe.Adapter
	speed   float64
	logger  zerolog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a runner. clock must be the scheduler the adapter was
// built with (qoe.WithScheduler) so the stall debounce follows the recorded
// offsets. speed scales the wall-clock delays between entries; 0 replays
// without delay.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRunner(p *Player, clock *Clock, adapter *qoe.Adapter, speed float64, logger zerolog.Logger) *Runner {
	if clock == nil {
		clock = NewClock()
	}
	return &Runner{
		player:  p,
		clock:   clock,
		adapter: adapter,
		speed:   speed,
		logger:  logger,
		sleep:   sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run replays entries until the log ends, a read fails or ctx is canceled.
// Rejected actions are logged and counted; they do not stop the replay.
func (r *Runner) Run(ctx context.Context, rd *Reader) (Stats, error) {
	var stats Stats
	var lastOffset int64

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		e, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, err
		}

		if r.speed > 0 && e.OffsetMS > lastOffset {
			delay := time.Duration(float64(e.OffsetMS-lastOffset) * r.speed * float64(time.Millisecond))
			if err := r.sleep(ctx, delay); err != nil {
				return stats, err
			}
		}
		if e.OffsetMS > lastOffset {
			lastOffset = e.OffsetMS
		}
		// Timers due by this offset fire before the entry is applied.
		r.clock.AdvanceTo(time.Duration(lastOffset) * time.Millisecond)

		stats.Entries++
		r.player.Apply(e.State)

		if e.Event != nil {
			stats.Events++
			r.logger.Debug().Int("line", rd.Line()).Str("event", string(e.Event.Type)).Msg("Replaying player event")
			r.player.Dispatch(*e.Event)
		}

		if e.Action != nil {
			stats.Actions++
			if err := r.apply(e.Action); err != nil {
				stats.Failed++
				r.logger.Warn().Err(err).Int("line", rd.Line()).Str("action", e.Action.Name).Msg("Action failed")
			}
		}
	}
}

// apply performs one adapter call.
//
//nolint:gocyclo // flat dispatch over action names
func (r *Runner) apply(a *Action) error {
	r.logger.Debug().Str("action", a.Name).Msg("Replaying adapter action")

	ssai := r.adapter.SSAI()
	switch a.Name {
	case ActionInitializeSession:
		return r.adapter.InitializeSession()
	case ActionEndSession:
		r.adapter.EndSession()
	case ActionAppBackgrounded:
		r.adapter.ReportAppBackgrounded()
	case ActionAppForegrounded:
		r.adapter.ReportAppForegrounded()
	case ActionPauseTracking:
		r.adapter.PauseTracking(a.IsBumper)
	case ActionResumeTracking:
		r.adapter.ResumeTracking()
	case ActionCustomPlaybackEvent:
		r.adapter.SendCustomPlaybackEvent(a.Event, a.Attributes)
	case ActionCustomApplicationEvent:
		r.adapter.SendCustomApplicationEvent(a.Event, a.Attributes)
	case ActionUpdateContentMetadata:
		if a.Content == nil {
			return fmt.Errorf("%s: content is required", a.Name)
		}
		r.adapter.UpdateContentMetadata(*a.Content)
	case ActionUpdateAdMetadata:
		if a.Ad == nil {
			return fmt.Errorf("%s: ad is required", a.Name)
		}
		r.adapter.UpdateAdMetadata(*a.Ad)
	case ActionPlaybackDeficiency:
		sev, err := a.severity()
		if err != nil {
			return err
		}
		r.adapter.ReportPlaybackDeficiency(a.Message, sev, a.EndSession)
	case ActionPlaybackFailed:
		r.adapter.ReportPlaybackFailed(a.Message, a.Content, a.EndSession)
	case ActionSSAIAdBreakStarted:
		ssai.ReportAdBreakStarted(a.AdBreak)
	case ActionSSAIAdBreakFinished:
		ssai.ReportAdBreakFinished()
	case ActionSSAIAdStarted:
		ssai.ReportAdStarted(a.SSAIAd.adInfo())
	case ActionSSAIAdFinished:
		ssai.ReportAdFinished()
	case ActionSSAIAdSkipped:
		ssai.ReportAdSkipped()
	case ActionSSAIAdUpdate:
		ssai.Update(a.SSAIAd.adInfo())
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Name)
	}
	return nil
}
