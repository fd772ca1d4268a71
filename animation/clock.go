// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package animation

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Clock is the single time source for every animation in the layout.
//
// Time is kept as a duration since the clock was created. The clock caches the current time
// until Clear is called, so that everything computed within one frame sees the same instant.
// The rate scales how fast adjusted time passes relative to the source time, which is how the
// animation slowdown setting is implemented.
type Clock struct {
	source func() time.Duration

	cached    time.Duration
	hasCached bool

	lastSeen time.Duration
	current  time.Duration

	rate              float64
	completeInstantly bool

	manual     bool
	manualTime time.Duration
}

// NewClock creates a clock driven by the monotonic system clock
func NewClock() *Clock {
	start := time.Now()
	return &Clock{
		source: func() time.Duration { return time.Since(start) },
		rate:   1,
	}
}

// NewManualClock creates a clock that only moves when told to.
// Used in tests to get deterministic animations.
func NewManualClock() *Clock {
	c := &Clock{rate: 1, manual: true}
	c.source = func() time.Duration { return c.manualTime }
	return c
}

// Now returns the rate-adjusted current time
func (c *Clock) Now() time.Duration {
	if c.hasCached {
		return c.cached
	}
	raw := c.source()
	if raw < c.lastSeen {
		logrus.WithFields(logrus.Fields{
			"last_seen": c.lastSeen,
			"raw":       raw,
		}).Debugln("Clock source went backwards, ignoring")
		raw = c.lastSeen
	}
	delta := raw - c.lastSeen
	c.lastSeen = raw
	c.current += time.Duration(float64(delta) * c.rate)
	c.cached = c.current
	c.hasCached = true
	return c.current
}

// NowUnadjusted returns the time of the underlying source, ignoring the rate
func (c *Clock) NowUnadjusted() time.Duration {
	return c.source()
}

// Clear drops the cached time. Call once at the start of every frame.
func (c *Clock) Clear() {
	c.hasCached = false
}

// SetTime moves a manual clock to the given source time
func (c *Clock) SetTime(t time.Duration) {
	if !c.manual {
		logrus.Warnln("SetTime called on a non-manual clock, ignoring")
		return
	}
	c.manualTime = t
	c.Clear()
}

// Advance moves a manual clock forward
func (c *Clock) Advance(d time.Duration) {
	c.SetTime(c.manualTime + d)
}

func (c *Clock) Rate() float64 {
	return c.rate
}

// SetRate sets the speed of adjusted time. Clamped to [0, 1000], 0 completes animations instantly.
func (c *Clock) SetRate(rate float64) {
	c.rate = min(max(rate, 0), 1000)
}

func (c *Clock) SetCompleteInstantly(v bool) {
	c.completeInstantly = v
}

// ShouldCompleteInstantly reports whether animations must jump straight to their end
func (c *Clock) ShouldCompleteInstantly() bool {
	return c.completeInstantly || c.rate == 0
}
