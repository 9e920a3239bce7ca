// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package qoe

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/playbackqoe/internal/analytics"
	"github.com/tomtom215/playbackqoe/internal/models"
	"github.com/tomtom215/playbackqoe/internal/player"
	"github.com/tomtom215/playbackqoe/internal/session"
	"github.com/tomtom215/playbackqoe/internal/validation"
)

// PlayerHandle is the player the adapter is attached to: its state and its
// event stream.
type PlayerHandle interface {
	player.Player
	player.EventSource
}

// Adapter connects one player to the analytics SDK for its lifetime.
type Adapter struct {
	ctrl   *session.Controller
	ssai   *SSAI
	sink   analytics.Sink
	logger zerolog.Logger

	mu          sync.Mutex
	unsubscribe func()
	released    bool
}

// New attaches an adapter to p. The connector creates the analytics sink
// bound to customerKey.
//
//nolint:gocritic // Config is a small value type
func New(p PlayerHandle, customerKey string, cfg Config, connector analytics.Connector, opts ...Option) (*Adapter, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: player is nil", ErrInvalidArgument)
	}
	if connector == nil {
		return nil, fmt.Errorf("%w: connector is nil", ErrInvalidArgument)
	}
	if strings.TrimSpace(customerKey) == "" {
		return nil, fmt.Errorf("%w: customer key is empty", ErrInvalidArgument)
	}
	if err := validation.ValidateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.buildLogger(cfg)

	sink, err := connector.Connect(customerKey, analytics.Settings{
		GatewayURL:          cfg.GatewayURL,
		DebugLoggingEnabled: cfg.DebugLoggingEnabled,
		LogLevel:            cfg.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("connect analytics sink: %w", err)
	}

	ctrl := session.New(p, sink, o.scheduler, logger, session.Config{
		EndSessionOnSourceUnloaded: o.endSessionOnSourceUnloaded,
		EndSessionOnPlaybackError:  o.endSessionOnPlaybackError,
		IsLive:                     o.isLive,
		StallDebounce:              o.stallDebounce,
	})

	a := &Adapter{
		ctrl:   ctrl,
		ssai:   &SSAI{s: ctrl.SSAI()},
		sink:   sink,
		logger: logger,
	}
	a.unsubscribe = p.Subscribe(ctrl.HandleEvent)

	logger.Debug().
		Bool("live", o.isLive).
		Bool("end_session_on_source_unloaded", o.endSessionOnSourceUnloaded).
		Bool("end_session_on_playback_error", o.endSessionOnPlaybackError).
		Dur("stall_debounce", o.stallDebounce).
		Msg("Analytics adapter attached")

	return a, nil
}

// SendCustomApplicationEvent reports an application-level event.
func (a *Adapter) SendCustomApplicationEvent(name string, attrs map[string]string) {
	a.ctrl.SendCustomApplicationEvent(name, models.AttributesFromStrings(attrs))
}

// SendCustomPlaybackEvent reports an event attached to the active session.
// It is dropped when no session is active.
func (a *Adapter) SendCustomPlaybackEvent(name string, attrs map[string]string) {
	a.ctrl.SendCustomPlaybackEvent(name, models.AttributesFromStrings(attrs))
}

// UpdateContentMetadata replaces the content metadata overrides. After
// playback has started only the dynamic fields and a missing duration still
// reach the analytics session.
//
//nolint:gocritic // metadata records are passed by value to avoid aliasing
func (a *Adapter) UpdateContentMetadata(overrides models.ContentMetadata) {
	a.ctrl.SetContentOverrides(overrides)
}

// UpdateAdMetadata replaces the ad metadata overrides applied to every
// following ad of the session.
//
//nolint:gocritic // metadata records are passed by value to avoid aliasing
func (a *Adapter) UpdateAdMetadata(overrides models.AdMetadata) {
	a.ctrl.SetAdOverrides(overrides)
}

// InitializeSession opens a session before the player starts. It fails with
// ErrMissingAssetName when no asset name is available.
func (a *Adapter) InitializeSession() error {
	if a.isReleased() {
		return ErrReleased
	}
	return a.ctrl.InitializeSession()
}

// EndSession closes the active session, if any.
func (a *Adapter) EndSession() {
	a.ctrl.EndSession()
}

// Release ends the session, detaches from the player and frees the sink.
// Subsequent calls do nothing.
func (a *Adapter) Release() {
	a.mu.Lock()
	if a.released {
		a.mu.Unlock()
		return
	}
	a.released = true
	unsubscribe := a.unsubscribe
	a.unsubscribe = nil
	a.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	a.ctrl.EndSession()
	a.ctrl.Close()
	a.sink.Release()

	a.logger.Debug().Msg("Analytics adapter released")
}

func (a *Adapter) isReleased() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.released
}

// ReportAppBackgrounded reports that the application moved to the background.
func (a *Adapter) ReportAppBackgrounded() {
	a.ctrl.ReportAppBackgrounded()
}

// ReportAppForegrounded reports that the application returned to the
// foreground.
func (a *Adapter) ReportAppForegrounded() {
	a.ctrl.ReportAppForegrounded()
}

// ReportPlaybackDeficiency reports an error on the active session and ends it
// when endSession is set. Without an active session the call is ignored.
func (a *Adapter) ReportPlaybackDeficiency(message string, severity analytics.Severity, endSession bool) {
	a.ctrl.ReportPlaybackDeficiency(message, severity, endSession)
}

// ReportPlaybackFailed reports a fatal failure, for example a source that
// could not be loaded. overrides, when non-nil, replace the content metadata
// first so the failed session carries an asset name.
func (a *Adapter) ReportPlaybackFailed(message string, overrides *models.ContentMetadata, endSession bool) {
	a.ctrl.ReportPlaybackFailed(message, overrides, endSession)
}

// PauseTracking excludes the following interval from QoE: a bumper video when
// isBumper is set, a user wait otherwise.
func (a *Adapter) PauseTracking(isBumper bool) {
	a.ctrl.PauseTracking(isBumper)
}

// ResumeTracking ends the interval started by PauseTracking.
func (a *Adapter) ResumeTracking() {
	a.ctrl.ResumeTracking()
}

// SSAI returns the server-side ad insertion API.
func (a *Adapter) SSAI() *SSAI {
	return a.ssai
}

// State returns the current session flags.
func (a *Adapter) State() session.State {
	return a.ctrl.State()
}
