package playback

import (
	"math"
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(sec float64) time.Time {
	return epoch.Add(time.Duration(sec * float64(time.Second)))
}

func TestTickAdvancesByElapsed(t *testing.T) {
	var c Clock
	c.Play(at(0), 10)

	c.Tick(at(0.5), 10)
	c.Tick(at(1.25), 10)

	if math.Abs(c.Cursor()-1.25) > 1e-9 {
		t.Fatalf("cursor = %v, want 1.25", c.Cursor())
	}
	if !c.Playing() {
		t.Fatal("clock should still be playing")
	}
}

func TestPauseExcludesIdleTime(t *testing.T) {
	var c Clock
	c.Toggle(at(0), 10)
	c.Tick(at(1), 10)
	c.Toggle(at(1), 10)

	// Paused ticks do nothing.
	c.Tick(at(50), 10)
	if c.Cursor() != 1 {
		t.Fatalf("cursor moved while paused: %v", c.Cursor())
	}

	c.Toggle(at(100), 10)
	c.Tick(at(100.5), 10)
	if math.Abs(c.Cursor()-1.5) > 1e-9 {
		t.Fatalf("cursor = %v, want 1.5", c.Cursor())
	}
}

func TestStopsAtEndAndRewinds(t *testing.T) {
	var c Clock
	c.Play(at(0), 5)
	c.Tick(at(4), 5)
	if stopped := c.Tick(at(5.2), 5); !stopped {
		t.Fatal("expected stop at end of timeline")
	}
	if c.Playing() {
		t.Fatal("clock should stop at end")
	}
	if c.Cursor() != 0 {
		t.Fatalf("cursor = %v, want 0", c.Cursor())
	}
}

func TestCursorNeverExceedsTotal(t *testing.T) {
	var c Clock
	c.Play(at(0), 3)
	for i := 1; i <= 100; i++ {
		c.Tick(at(float64(i)*0.07), 3)
		if c.Cursor() < 0 || c.Cursor() > 3 {
			t.Fatalf("cursor %v outside [0,3]", c.Cursor())
		}
	}
}

func TestSeekClamps(t *testing.T) {
	var c Clock
	tests := []struct {
		in, want float64
	}{
		{-2, 0},
		{0, 0},
		{2.5, 2.5},
		{5, 5},
		{9, 5},
		{math.NaN(), 0},
	}
	for _, tc := range tests {
		if got := c.Seek(tc.in, 5); got != tc.want {
			t.Errorf("Seek(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPlayFromEndRestarts(t *testing.T) {
	var c Clock
	c.Seek(5, 5)
	c.Play(at(0), 5)
	if c.Cursor() != 0 {
		t.Fatalf("cursor = %v, want restart at 0", c.Cursor())
	}
}

func TestClampAfterShrink(t *testing.T) {
	var c Clock
	c.Seek(8, 10)
	c.Clamp(4)
	if c.Cursor() != 4 {
		t.Fatalf("cursor = %v, want 4", c.Cursor())
	}
}
