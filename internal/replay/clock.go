// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package replay

import (
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/playbackqoe/internal/session"
)

// Clock is a session.Scheduler that runs on the log's timeline. Its time
// only moves when the runner advances it to an entry's offset, so the stall
// debounce sees the recorded gaps regardless of replay speed or how fast
// input arrives.
type Clock struct {
	mu      sync.Mutex
	now     time.Duration
	seq     uint64
	pending []*clockTimer
}

var _ session.Scheduler = (*Clock)(nil)

type clockTimer struct {
	c   *Clock
	at  time.Duration
	seq uint64
	f   func()
	// done is set once the timer fired or was stopped.
	done bool
}

// NewClock returns a clock at offset zero.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the current log offset.
func (c *Clock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f at the current offset plus d.
func (c *Clock) AfterFunc(d time.Duration, f func()) session.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &clockTimer{c: c, at: c.now + d, seq: c.seq, f: f}
	c.pending = append(c.pending, t)
	return t
}

func (t *clockTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// AdvanceTo moves the clock forward to offset, running every timer due at or
// before it in deadline order. Callbacks run on the caller's goroutine
// without the clock lock held and see Now() equal to their deadline. An
// offset behind the current time is ignored.
func (c *Clock) AdvanceTo(offset time.Duration) {
	for {
		c.mu.Lock()
		t := c.nextDueLocked(offset)
		if t == nil {
			if offset > c.now {
				c.now = offset
			}
			c.mu.Unlock()
			return
		}
		t.done = true
		if t.at > c.now {
			c.now = t.at
		}
		c.mu.Unlock()

		t.f()
	}
}

// nextDueLocked removes and returns the earliest live timer due by offset.
func (c *Clock) nextDueLocked(offset time.Duration) *clockTimer {
	live := c.pending[:0]
	for _, t := range c.pending {
		if !t.done {
			live = append(live, t)
		}
	}
	c.pending = live

	sort.Slice(c.pending, func(i, j int) bool {
		if c.pending[i].at != c.pending[j].at {
			return c.pending[i].at < c.pending[j].at
		}
		return c.pending[i].seq < c.pending[j].seq
	})
	if len(c.pending) == 0 || c.pending[0].at > offset {
		return nil
	}
	t := c.pending[0]
	c.pending = c.pending[1:]
	return t
}
