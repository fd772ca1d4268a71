// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package gesture tracks continuous swipe input so the layout can turn it into a
// velocity and a projected resting position once the fingers lift.
package gesture

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// HistoryLimit is how far back samples count towards the velocity
	HistoryLimit = 150 * time.Millisecond
	// DecelerationTouchpad is the fraction of velocity kept per millisecond after release
	DecelerationTouchpad = 0.997

	// ViewGestureWorkingAreaMovement is how many pixels of touchpad movement equal one working area width
	ViewGestureWorkingAreaMovement = 1200.0
	// RowGestureMovement is how many pixels of touchpad movement switch one row
	RowGestureMovement = 300.0
)

type sample struct {
	delta     float64
	timestamp time.Duration
}

// SwipeTracker accumulates deltas of one gesture
type SwipeTracker struct {
	history []sample
	pos     float64
}

func NewSwipeTracker() *SwipeTracker {
	return &SwipeTracker{}
}

// Push records one gesture event. Events older than the last one seen are dropped.
func (s *SwipeTracker) Push(delta float64, timestamp time.Duration) {
	if n := len(s.history); n > 0 && timestamp < s.history[n-1].timestamp {
		logrus.WithFields(logrus.Fields{
			"timestamp": timestamp,
			"last":      s.history[n-1].timestamp,
		}).Debugln("Ignoring out of order swipe event")
		return
	}
	s.history = append(s.history, sample{delta: delta, timestamp: timestamp})
	s.pos += delta
	s.trimHistory()
}

func (s *SwipeTracker) trimHistory() {
	if len(s.history) == 0 {
		return
	}
	cutoff := s.history[len(s.history)-1].timestamp - HistoryLimit
	i := 0
	for i < len(s.history) && s.history[i].timestamp < cutoff {
		i++
	}
	s.history = s.history[i:]
}

// Pos is the sum of every delta pushed so far
func (s *SwipeTracker) Pos() float64 {
	return s.pos
}

// Velocity in units per second, computed over the recent history
func (s *SwipeTracker) Velocity() float64 {
	if len(s.history) == 0 {
		return 0
	}
	first := s.history[0]
	last := s.history[len(s.history)-1]
	total := (last.timestamp - first.timestamp).Seconds()
	if total == 0 {
		return 0
	}
	var delta float64
	for _, e := range s.history {
		delta += e.delta
	}
	return delta / total
}

// ProjectedEndPos is where the gesture would come to rest with touchpad deceleration
func (s *SwipeTracker) ProjectedEndPos() float64 {
	return s.pos - s.Velocity()/(1000*math.Log(DecelerationTouchpad))
}

// ProjectedDelta returns how far past pos the given velocity would carry with touchpad deceleration
func ProjectedDelta(velocity float64) float64 {
	return -velocity / (1000 * math.Log(DecelerationTouchpad))
}
