// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package animation contains the time based interpolations used by the layout.
// Animations never own a timer, they are evaluated against a shared Clock whenever someone asks for a value.
package animation

import (
	"math"
	"time"
)

// EasingParams configure a fixed-duration eased animation
type EasingParams struct {
	Duration time.Duration
	Curve    Curve
	Bezier   Bezier
}

// Config is the configuration of a single kind of animation (window open, view movement, ...).
// If Spring is set it takes precedence over Easing.
type Config struct {
	Off    bool
	Easing *EasingParams
	Spring *SpringParams
}

// DefaultEasing is used when a config carries neither easing nor spring parameters
var DefaultEasing = EasingParams{Duration: 250 * time.Millisecond, Curve: CURVE_EASE_OUT_CUBIC}

// EasingConfig is a shortcut for an eased animation config
func EasingConfig(d time.Duration, c Curve) Config {
	return Config{Easing: &EasingParams{Duration: d, Curve: c}}
}

// SpringConfig is a shortcut for a spring animation config
func SpringConfig(dampingRatio, stiffness, epsilon float64) Config {
	p := NewSpringParams(dampingRatio, stiffness, epsilon)
	return Config{Spring: &p}
}

type kind int

const (
	kindEasing = kind(iota)
	kindSpring
	kindDeceleration
)

// Animation interpolates a single float from one value to another
type Animation struct {
	clock *Clock
	cfg   Config
	kind  kind

	from            float64
	to              float64
	initialVelocity float64

	startTime       time.Duration
	duration        time.Duration
	clampedDuration time.Duration

	easing    EasingParams
	spring    Spring
	decelRate float64
}

// New starts an animation at the current clock time.
// initialVelocity is in units per second and only matters for springs.
func New(clock *Clock, from, to, initialVelocity float64, cfg Config) *Animation {
	a := &Animation{
		clock:           clock,
		cfg:             cfg,
		from:            from,
		to:              to,
		initialVelocity: initialVelocity,
		startTime:       clock.Now(),
	}
	a.setup()
	return a
}

// NewDeceleration starts an animation that keeps moving with the given velocity and slows down
// exponentially. rate is the fraction of velocity kept per millisecond, e.g. 0.997.
func NewDeceleration(clock *Clock, from, initialVelocity, rate float64, cfg Config) *Animation {
	rate = min(max(rate, 0.001), 0.9999)
	coeff := 1000 * math.Log(rate)
	a := &Animation{
		clock:           clock,
		cfg:             cfg,
		kind:            kindDeceleration,
		from:            from,
		to:              from - initialVelocity/coeff,
		initialVelocity: initialVelocity,
		startTime:       clock.Now(),
		decelRate:       rate,
	}
	if cfg.Off || initialVelocity == 0 {
		return a
	}
	// Stop once the remaining distance is below half a pixel.
	const threshold = 0.5
	ratio := threshold * math.Abs(coeff) / math.Abs(initialVelocity)
	if ratio < 1 {
		a.duration = secondsToDuration(math.Log(ratio) / coeff)
	}
	a.clampedDuration = a.duration
	return a
}

func (a *Animation) setup() {
	switch {
	case a.cfg.Off:
		a.kind = kindEasing
		a.easing = EasingParams{Curve: CURVE_LINEAR}
	case a.cfg.Spring != nil:
		a.kind = kindSpring
		a.spring = Spring{
			From:            a.from,
			To:              a.to,
			InitialVelocity: a.initialVelocity,
			Params:          *a.cfg.Spring,
		}
		a.duration = a.spring.Duration()
		if d, ok := a.spring.ClampedDuration(); ok {
			a.clampedDuration = d
		} else {
			a.clampedDuration = a.duration
		}
		return
	case a.cfg.Easing != nil:
		a.kind = kindEasing
		a.easing = *a.cfg.Easing
	default:
		a.kind = kindEasing
		a.easing = DefaultEasing
	}
	a.duration = max(a.easing.Duration, 0)
	a.clampedDuration = a.duration
}

// Restarted returns a new animation with the same config, starting now
func (a *Animation) Restarted(from, to, initialVelocity float64) *Animation {
	if a.kind == kindDeceleration {
		return NewDeceleration(a.clock, from, initialVelocity, a.decelRate, a.cfg)
	}
	return New(a.clock, from, to, initialVelocity, a.cfg)
}

func (a *Animation) passed() time.Duration {
	return max(a.clock.Now()-a.startTime, 0)
}

// IsDone reports whether the animation reached its end
func (a *Animation) IsDone() bool {
	if a.clock.ShouldCompleteInstantly() {
		return true
	}
	return a.passed() >= a.duration
}

// IsClampedDone reports whether the animation reached To at least once
func (a *Animation) IsClampedDone() bool {
	if a.clock.ShouldCompleteInstantly() {
		return true
	}
	return a.passed() >= a.clampedDuration
}

// Value returns the current value
func (a *Animation) Value() float64 {
	if a.IsDone() {
		return a.to
	}
	return a.valueAt(a.passed())
}

// ClampedValue is Value, but never overshoots To
func (a *Animation) ClampedValue() float64 {
	if a.IsClampedDone() {
		return a.to
	}
	return a.Value()
}

func (a *Animation) valueAt(passed time.Duration) float64 {
	switch a.kind {
	case kindSpring:
		return a.spring.ValueAt(passed)
	case kindDeceleration:
		coeff := 1000 * math.Log(a.decelRate)
		t := passed.Seconds()
		return a.from + (math.Pow(a.decelRate, 1000*t)-1)/coeff*a.initialVelocity
	default:
		if a.duration <= 0 {
			return a.to
		}
		progress := passed.Seconds() / a.duration.Seconds()
		return a.from + a.easing.Curve.y(progress, a.easing.Bezier)*(a.to-a.from)
	}
}

// Velocity returns the current velocity in units per second
func (a *Animation) Velocity() float64 {
	if a.IsDone() {
		return 0
	}
	const dt = time.Millisecond
	passed := a.passed()
	return (a.valueAt(passed+dt) - a.valueAt(passed)) / dt.Seconds()
}

func (a *Animation) From() float64 { return a.from }
func (a *Animation) To() float64 { return a.to }
func (a *Animation) StartTime() time.Duration { return a.startTime }
func (a *Animation) EndTime() time.Duration { return a.startTime + a.duration }
func (a *Animation) Duration() time.Duration { return a.duration }

// OffsetBy shifts both ends of the animation, keeping its timing
func (a *Animation) OffsetBy(delta float64) {
	a.from += delta
	a.to += delta
	a.spring.From += delta
	a.spring.To += delta
}
