// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package replay

import (
	"math"
	"sync"

	"github.com/tomtom215/playbackqoe/internal/player"
)

// Player is a player whose state comes from applied log snapshots.
type Player struct {
	mu          sync.RWMutex
	source      *player.Source
	duration    float64
	currentTime float64
	playing     bool
	paused      bool
	ad          bool
	quality     *player.VideoQuality
	framerate   float64

	handlersMu sync.Mutex
	handlers   map[int]func(player.Event)
	nextID     int
}

var (
	_ player.Player      = (*Player)(nil)
	_ player.EventSource = (*Player)(nil)
)

// NewPlayer returns a player with no source loaded.
func NewPlayer() *Player {
	return &Player{handlers: make(map[int]func(player.Event))}
}

// Apply patches the player state.
func (p *Player) Apply(s *State) {
	if s == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if s.Unload {
		p.source = nil
		p.duration = 0
		p.currentTime = 0
	}
	if s.Source != nil {
		src := *s.Source
		p.source = &src
	}
	if s.Duration != nil {
		p.duration = *s.Duration
	}
	if s.Live {
		p.duration = math.Inf(1)
	}
	if s.CurrentTime != nil {
		p.currentTime = *s.CurrentTime
	}
	if s.Playing != nil {
		p.playing = *s.Playing
	}
	if s.Paused != nil {
		p.paused = *s.Paused
	}
	if s.Ad != nil {
		p.ad = *s.Ad
	}
	if s.Quality != nil {
		q := *s.Quality
		p.quality = &q
	}
	if s.Framerate != nil {
		p.framerate = *s.Framerate
	}
}

// Dispatch delivers ev to every subscriber. Handlers run on the caller's
// goroutine without player locks held.
func (p *Player) Dispatch(ev player.Event) {
	p.handlersMu.Lock()
	handlers := make([]func(player.Event), 0, len(p.handlers))
	for id := 0; id < p.nextID; id++ {
		if h, ok := p.handlers[id]; ok {
			handlers = append(handlers, h)
		}
	}
	p.handlersMu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}

// Subscribe registers handler for every dispatched event.
func (p *Player) Subscribe(handler func(player.Event)) func() {
	p.handlersMu.Lock()
	defer p.handlersMu.Unlock()

	id := p.nextID
	p.nextID++
	p.handlers[id] = handler

	return func() {
		p.handlersMu.Lock()
		defer p.handlersMu.Unlock()
		delete(p.handlers, id)
	}
}

// Source returns a copy of the loaded source, or nil.
func (p *Player) Source() *player.Source {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.source == nil {
		return nil
	}
	src := *p.source
	return &src
}

func (p *Player) Duration() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.duration
}

func (p *Player) CurrentTime() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currentTime
}

func (p *Player) IsPlaying() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.playing
}

func (p *Player) IsPaused() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.paused
}

func (p *Player) IsAd() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ad
}

// VideoQuality returns a copy of the rendered quality, or nil.
func (p *Player) VideoQuality() *player.VideoQuality {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.quality == nil {
		return nil
	}
	q := *p.quality
	return &q
}

func (p *Player) RenderedFramerate() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.framerate
}
