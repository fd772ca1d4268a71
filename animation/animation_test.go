// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package animation

import (
	"math"
	"testing"
	"time"
)

func TestManualClockCachesUntilCleared(t *testing.T) {
	c := NewManualClock()
	if c.Now() != 0 {
		t.Fatalf("expected zero start, got %v", c.Now())
	}
	c.manualTime = 10 * time.Millisecond
	if c.Now() != 0 {
		t.Errorf("expected cached time 0, got %v", c.Now())
	}
	c.Clear()
	if c.Now() != 10*time.Millisecond {
		t.Errorf("expected 10ms after clear, got %v", c.Now())
	}
}

func TestClockRate(t *testing.T) {
	c := NewManualClock()
	c.SetRate(0.5)
	c.Advance(100 * time.Millisecond)
	if c.Now() != 50*time.Millisecond {
		t.Errorf("expected 50ms at half rate, got %v", c.Now())
	}
	c.SetRate(0)
	if !c.ShouldCompleteInstantly() {
		t.Errorf("rate 0 should complete instantly")
	}
}

func TestEasingAnimation(t *testing.T) {
	c := NewManualClock()
	a := New(c, 0, 100, 0, EasingConfig(100*time.Millisecond, CURVE_LINEAR))
	if a.Value() != 0 {
		t.Errorf("expected 0 at start, got %v", a.Value())
	}
	c.Advance(50 * time.Millisecond)
	if math.Abs(a.Value()-50) > 1e-9 {
		t.Errorf("expected 50 half way, got %v", a.Value())
	}
	c.Advance(60 * time.Millisecond)
	if !a.IsDone() || a.Value() != 100 {
		t.Errorf("expected done at 100, got %v (done %v)", a.Value(), a.IsDone())
	}
}

func TestAnimationOffCompletesImmediately(t *testing.T) {
	c := NewManualClock()
	a := New(c, 0, 100, 0, Config{Off: true})
	if !a.IsDone() || a.Value() != 100 {
		t.Errorf("expected off animation to be done, got %v", a.Value())
	}
}

func TestCompleteInstantly(t *testing.T) {
	c := NewManualClock()
	c.SetCompleteInstantly(true)
	a := New(c, 0, 100, 0, SpringConfig(1, 800, 0.0001))
	if a.Value() != 100 {
		t.Errorf("expected instant completion, got %v", a.Value())
	}
}

func TestSpringSettles(t *testing.T) {
	c := NewManualClock()
	a := New(c, 0, 100, 0, SpringConfig(1, 800, 0.0001))
	if a.Duration() <= 0 {
		t.Fatalf("expected positive spring duration, got %v", a.Duration())
	}
	c.Advance(a.Duration() / 2)
	v := a.Value()
	if v <= 0 || v > 100.01 {
		t.Errorf("critically damped spring should be between ends, got %v", v)
	}
	c.Advance(a.Duration())
	if a.Value() != 100 {
		t.Errorf("expected spring to settle at 100, got %v", a.Value())
	}
}

func TestUnderdampedSpringOvershootsButClampedDoesNot(t *testing.T) {
	c := NewManualClock()
	a := New(c, 0, 100, 0, SpringConfig(0.3, 800, 0.0001))
	overshoot := false
	for i := 0; i < 500; i++ {
		c.Advance(time.Millisecond)
		if a.Value() > 100 {
			overshoot = true
		}
		if a.ClampedValue() > 100 {
			t.Fatalf("clamped value overshoots: %v", a.ClampedValue())
		}
	}
	if !overshoot {
		t.Errorf("expected underdamped spring to overshoot")
	}
}

func TestDeceleration(t *testing.T) {
	c := NewManualClock()
	a := NewDeceleration(c, 0, 1000, 0.997, Config{})
	want := -1000 / (1000 * math.Log(0.997))
	if math.Abs(a.To()-want) > 1e-9 {
		t.Errorf("expected projected end %v, got %v", want, a.To())
	}
	c.Advance(100 * time.Millisecond)
	got := a.Value()
	expected := (math.Pow(0.997, 100) - 1) / (1000 * math.Log(0.997)) * 1000
	if math.Abs(got-expected) > 1e-6 {
		t.Errorf("expected %v, got %v", expected, got)
	}
	if a.Velocity() <= 0 {
		t.Errorf("expected positive velocity while decelerating")
	}
}

func TestOffsetBy(t *testing.T) {
	c := NewManualClock()
	a := New(c, 0, 100, 0, EasingConfig(100*time.Millisecond, CURVE_LINEAR))
	a.OffsetBy(10)
	if a.From() != 10 || a.To() != 110 {
		t.Errorf("expected 10..110, got %v..%v", a.From(), a.To())
	}
}

func TestRubberBand(t *testing.T) {
	r := RubberBand{Stiffness: 0.5, Limit: 0.05}
	if r.Clamp(0, 2, 1) != 1 {
		t.Errorf("inside range must be identity")
	}
	if r.ClampDerivative(0, 2, 1) != 1 {
		t.Errorf("inside range derivative must be 1")
	}
	out := r.Clamp(0, 2, 10)
	if out <= 2 || out >= 2.05 {
		t.Errorf("expected overshoot in (2, 2.05), got %v", out)
	}
	under := r.Clamp(0, 2, -10)
	if under >= 0 || under <= -0.05 {
		t.Errorf("expected undershoot in (-0.05, 0), got %v", under)
	}
	if d := r.ClampDerivative(0, 2, 3); d <= 0 || d >= 1 {
		t.Errorf("expected damped derivative, got %v", d)
	}
}

func TestParseCurve(t *testing.T) {
	if c, err := ParseCurve("ease-out-expo"); err != nil || c != CURVE_EASE_OUT_EXPO {
		t.Errorf("unexpected parse result %v %v", c, err)
	}
	if _, err := ParseCurve("bounce"); err == nil {
		t.Errorf("expected error for unknown curve")
	}
}
