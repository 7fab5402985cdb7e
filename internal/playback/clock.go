// Package playback advances a time cursor across the composition timeline.
//
// The clock never reads the wall clock itself. The host delivers monotonic
// tick timestamps (a display refresh callback, a bubbletea tick, a test) and
// the clock moves the cursor by the time elapsed since the previous tick.
package playback

import (
	"math"
	"time"
)

// Clock holds the cursor position and play state.
type Clock struct {
	cursor  float64
	playing bool
	last    time.Time
}

// Cursor returns the current global playback time in seconds.
func (c *Clock) Cursor() float64 { return c.cursor }

// Playing reports whether the clock advances on ticks.
func (c *Clock) Playing() bool { return c.playing }

// Toggle flips the play state. Starting playback captures now as the
// reference for the next tick, so time spent paused is never counted. When
// the cursor sits at the end of the timeline, playback restarts from zero.
func (c *Clock) Toggle(now time.Time, total float64) bool {
	if c.playing {
		c.Pause()
		return false
	}
	c.Play(now, total)
	return true
}

// Play starts playback from the current cursor.
func (c *Clock) Play(now time.Time, total float64) {
	if c.cursor >= total {
		c.cursor = 0
	}
	c.playing = true
	c.last = now
}

// Pause stops playback and keeps the cursor where it is.
func (c *Clock) Pause() {
	c.playing = false
	c.last = time.Time{}
}

// Tick advances the cursor by the time elapsed since the previous tick. When
// the cursor reaches total, playback stops and the cursor resets to zero. It
// reports whether the clock stopped on this tick.
func (c *Clock) Tick(now time.Time, total float64) (stopped bool) {
	if !c.playing {
		return false
	}
	if c.last.IsZero() {
		c.last = now
		return false
	}
	elapsed := now.Sub(c.last).Seconds()
	c.last = now
	if elapsed < 0 {
		elapsed = 0
	}
	c.cursor += elapsed
	if c.cursor >= total {
		c.cursor = 0
		c.playing = false
		c.last = time.Time{}
		return true
	}
	return false
}

// Seek moves the cursor to t clamped into [0, total] and returns the new
// position.
func (c *Clock) Seek(t, total float64) float64 {
	c.cursor = clamp(t, total)
	return c.cursor
}

// Clamp keeps the cursor inside [0, total] after the timeline changed
// length.
func (c *Clock) Clamp(total float64) {
	c.cursor = clamp(c.cursor, total)
}

// Reset stops playback and rewinds to zero.
func (c *Clock) Reset() {
	c.cursor = 0
	c.playing = false
	c.last = time.Time{}
}

func clamp(t, total float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if total < 0 {
		total = 0
	}
	if t > total {
		return total
	}
	return t
}
