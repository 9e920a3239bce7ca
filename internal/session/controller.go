// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package session

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/playbackqoe/internal/analytics"
	"github.com/tomtom215/playbackqoe/internal/metadata"
	"github.com/tomtom215/playbackqoe/internal/metrics"
	"github.com/tomtom215/playbackqoe/internal/models"
	"github.com/tomtom215/playbackqoe/internal/player"
)

// DefaultStallDebounce is how long a stall must last before it is reported
// as buffering.
const DefaultStallDebounce = 100 * time.Millisecond

// ErrMissingAssetName is returned by InitializeSession when neither the
// loaded source nor the content overrides provide an asset name.
var ErrMissingAssetName = errors.New("session: asset name is required to initialize a session: " +
	"load a source with a title or set AssetName through the content metadata overrides")

// Session start triggers, used as the metrics label.
const (
	triggerPlay     = "play"
	triggerExplicit = "explicit"
	triggerError    = "error"
)

// Config holds the behavior switches fixed at construction.
type Config struct {
	// EndSessionOnSourceUnloaded ends the session when the player unloads
	// its source. When false the session survives an unload/reload cycle.
	EndSessionOnSourceUnloaded bool
	// EndSessionOnPlaybackError ends the session after a player or source
	// error has been reported.
	EndSessionOnPlaybackError bool
	// IsLive fixes the stream type for the lifetime of the controller.
	IsLive bool
	// StallDebounce overrides DefaultStallDebounce when positive.
	StallDebounce time.Duration
}

// State is a snapshot of the session flags.
type State struct {
	Active          bool
	PlaybackStarted bool
	Stalled         bool
	Bumper          bool
	AdBreakActive   bool
}

// Controller is the session state machine. It translates player events and
// API calls into analytics sink calls.
//
// All methods are safe for concurrent use: a single mutex serializes player
// callbacks, API calls and the stall debounce callback. Sink calls are made
// while the mutex is held so the sink observes them in order.
type Controller struct {
	mu sync.Mutex

	player    player.Player
	out       *reporter
	scheduler Scheduler
	logger    zerolog.Logger
	cfg       Config

	content *metadata.ContentBuilder
	ad      *metadata.AdBuilder

	active          bool
	playbackStarted bool
	bumper          bool

	// Stall debounce. stallGen invalidates callbacks scheduled for an earlier
	// stall; stallPending is true while a debounce callback has not fired.
	stalled      bool
	stallPending bool
	stallGen     uint64
	stallTimer   Timer

	// Client-side ad break position, used for the ads it contains.
	clientBreakPosition *models.AdPosition

	// Server-side ad break flag, and whether an ad inside it is playing.
	adBreakActive bool
	ssaiAdActive  bool
}

// New creates a controller that reports into sink. A nil scheduler selects
// RealScheduler.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(p player.Player, sink analytics.Sink, scheduler Scheduler, logger zerolog.Logger, cfg Config) *Controller {
	if scheduler == nil {
		scheduler = RealScheduler{}
	}
	if cfg.StallDebounce <= 0 {
		cfg.StallDebounce = DefaultStallDebounce
	}
	return &Controller{
		player:    p,
		out:       &reporter{sink: sink, logger: logger},
		scheduler: scheduler,
		logger:    logger,
		cfg:       cfg,
		content:   metadata.NewContentBuilder(logger.With().Str("builder", "content").Logger()),
		ad:        metadata.NewAdBuilder(logger.With().Str("builder", "ad").Logger()),
	}
}

// State returns the current session flags.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Active:          c.active,
		PlaybackStarted: c.playbackStarted,
		Stalled:         c.stalled,
		Bumper:          c.bumper,
		AdBreakActive:   c.adBreakActive,
	}
}

// SetContentOverrides replaces the caller-supplied content metadata.
func (c *Controller) SetContentOverrides(overrides models.ContentMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content.SetOverrides(overrides)
	if c.active {
		c.out.contentInfo(c.content.Build())
	}
}

// SetAdOverrides replaces the caller-supplied ad metadata. The overrides
// apply to every ad until the session ends.
func (c *Controller) SetAdOverrides(overrides models.AdMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ad.SetOverrides(overrides)
}

// InitializeSession opens a session ahead of the first play event. It is a
// no-op when a session is already active.
func (c *Controller) InitializeSession() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		c.logger.Debug().Msg("Session already active, ignoring initialize")
		return nil
	}
	if !c.assetNameResolvable() {
		return ErrMissingAssetName
	}
	c.initializeLocked(triggerExplicit)
	return nil
}

func (c *Controller) assetNameResolvable() bool {
	if src := c.player.Source(); src != nil && src.Title != "" {
		return true
	}
	name := c.content.Overrides().AssetName
	return name != nil && *name != ""
}

// initializeLocked opens a session from the current source attributes.
func (c *Controller) initializeLocked(trigger string) {
	if src := c.player.Source(); src != nil {
		if src.Title != "" {
			c.content.SetAssetName(src.Title)
		}
		if src.URL != "" {
			c.content.SetStreamURL(src.URL)
		}
	}
	c.refreshDurationLocked()
	c.content.SetStreamType(models.StreamTypeFor(c.cfg.IsLive))
	c.content.SetCustom(models.MergeAttributes(c.content.Base().Custom, models.Attributes{
		analytics.TagStreamProtocol:     models.StringValue(string(c.streamProtocol())),
		analytics.TagIntegrationVersion: models.StringValue(analytics.IntegrationVersion),
	}))

	c.out.playbackRequested(c.content.Build())
	c.active = true
	metrics.RecordSessionStarted(trigger)

	c.logger.Debug().Str("trigger", trigger).Msg("Session initialized")
}

func (c *Controller) streamProtocol() player.StreamProtocol {
	src := c.player.Source()
	if src == nil || src.Protocol == "" {
		return player.ProtocolUnknown
	}
	return src.Protocol
}

// refreshDurationLocked copies a usable content duration into the base
// layer. Live streams never report one.
func (c *Controller) refreshDurationLocked() {
	if c.cfg.IsLive {
		return
	}
	if d := c.player.Duration(); player.IsFinite(d) && d > 0 {
		c.content.SetDuration(int(d))
	}
}

// refreshDynamicLocked re-samples the fields that may change mid-session.
func (c *Controller) refreshDynamicLocked() {
	c.refreshDurationLocked()
	c.content.SetStreamType(models.StreamTypeFor(c.cfg.IsLive))
	if src := c.player.Source(); src != nil && src.URL != "" {
		c.content.SetStreamURL(src.URL)
	}
}

// EndSession closes the active session. Metadata is always reset.
func (c *Controller) EndSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.endSessionLocked()
}

func (c *Controller) endSessionLocked() {
	c.content.Reset()
	c.ad.Reset()
	c.clientBreakPosition = nil

	if !c.active {
		c.logger.Debug().Msg("No active session, ignoring end session")
		return
	}

	if c.adBreakActive {
		if c.ssaiAdActive {
			c.out.adEnded()
			c.ssaiAdActive = false
		}
		c.out.adBreakEnded()
		c.adBreakActive = false
	}
	c.out.playbackEnded()

	c.active = false
	c.playbackStarted = false
	c.bumper = false
	c.clearStallLocked()
	metrics.RecordSessionEnded()

	c.logger.Debug().Msg("Session ended")
}

// ReportPlaybackDeficiency reports an error on the active session. It is a
// no-op when no session is active.
func (c *Controller) ReportPlaybackDeficiency(message string, severity analytics.Severity, endSession bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		c.logger.Debug().Str("message", message).Msg("No active session, ignoring playback deficiency")
		return
	}
	c.deficiencyLocked(message, severity, endSession)
}

// ReportPlaybackFailed applies optional content overrides, opens a session
// if none is active so the failure is attributable, and reports a fatal
// deficiency.
func (c *Controller) ReportPlaybackFailed(message string, overrides *models.ContentMetadata, endSession bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if overrides != nil {
		c.content.SetOverrides(*overrides)
	}
	if !c.active {
		c.initializeLocked(triggerError)
	}
	c.deficiencyLocked(message, analytics.SeverityFatal, endSession)
}

// deficiencyLocked reports on the content channel, and on the ad channel too
// while a server-side ad break is active.
func (c *Controller) deficiencyLocked(message string, severity analytics.Severity, endSession bool) {
	if c.adBreakActive {
		c.out.deficiency(analytics.ChannelAd, message, severity)
	}
	c.out.deficiency(analytics.ChannelContent, message, severity)

	if endSession {
		c.endSessionLocked()
	}
}

// SendCustomPlaybackEvent reports a named event on the active session.
func (c *Controller) SendCustomPlaybackEvent(name string, attrs models.Attributes) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		c.logger.Debug().Str("event", name).Msg("No active session, dropping playback event")
		return
	}
	c.out.playbackEvent(name, attrs)
}

// SendCustomApplicationEvent reports a named application event. It does not
// need a session.
func (c *Controller) SendCustomApplicationEvent(name string, attrs models.Attributes) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out.appEvent(name, attrs)
}

func (c *Controller) ReportAppBackgrounded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out.appBackgrounded()
}

func (c *Controller) ReportAppForegrounded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.out.appForegrounded()
}

// PauseTracking marks the start of an interval that must not count toward
// QoE: a bumper video when isBumper is set, a user wait otherwise.
func (c *Controller) PauseTracking(isBumper bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}
	if isBumper {
		c.out.playbackEvent(analytics.EventBumperVideoStart, nil)
	} else {
		c.out.playbackEvent(analytics.EventUserWaitStarted, nil)
	}
	c.bumper = isBumper
}

// ResumeTracking closes the interval opened by PauseTracking.
func (c *Controller) ResumeTracking() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}
	if c.bumper {
		c.out.playbackEvent(analytics.EventBumperVideoEnd, nil)
	} else {
		c.out.playbackEvent(analytics.EventUserWaitEnded, nil)
	}
	c.bumper = false
}

// Close stops a pending stall debounce. The controller must not receive
// further events afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearStallLocked()
}
