// Playback QoE - Player-to-Analytics Session Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playbackqoe

package replay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockFiresInDeadlineOrder(t *testing.T) {
	t.Parallel()

	c := NewClock()
	var fired []string
	var at []time.Duration
	record := func(name string) func() {
		return func() {
			fired = append(fired, name)
			at = append(at, c.Now())
		}
	}

	c.AfterFunc(300*time.Millisecond, record("c"))
	c.AfterFunc(100*time.Millisecond, record("a"))
	c.AfterFunc(100*time.Millisecond, record("b"))

	c.AdvanceTo(99 * time.Millisecond)
	assert.Empty(t, fired)

	c.AdvanceTo(time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, fired)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 100 * time.Millisecond, 300 * time.Millisecond}, at)
	assert.Equal(t, time.Second, c.Now())
}

func TestClockStop(t *testing.T) {
	t.Parallel()

	c := NewClock()
	fired := false
	timer := c.AfterFunc(100*time.Millisecond, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop reports the timer already stopped")

	c.AdvanceTo(time.Second)
	assert.False(t, fired)

	timer = c.AfterFunc(0, func() {})
	c.AdvanceTo(time.Second)
	assert.False(t, timer.Stop(), "a fired timer cannot be stopped")
}

func TestClockTimerScheduledFromCallback(t *testing.T) {
	t.Parallel()

	c := NewClock()
	var fired []time.Duration
	c.AfterFunc(100*time.Millisecond, func() {
		fired = append(fired, c.Now())
		c.AfterFunc(100*time.Millisecond, func() { fired = append(fired, c.Now()) })
	})

	c.AdvanceTo(250 * time.Millisecond)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, fired)
}

func TestClockIgnoresEarlierOffset(t *testing.T) {
	t.Parallel()

	c := NewClock()
	c.AdvanceTo(time.Second)
	c.AdvanceTo(500 * time.Millisecond)
	assert.Equal(t, time.Second, c.Now())
}
