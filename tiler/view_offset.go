// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"time"

	"github.com/veighnsche/niri-sub001/animation"
	"github.com/veighnsche/niri-sub001/gesture"
)

type ViewOffsetKind int

const (
	VIEW_STATIC = ViewOffsetKind(iota)
	VIEW_ANIMATION
	VIEW_GESTURE
)

func (k ViewOffsetKind) String() string {
	switch k {
	case VIEW_ANIMATION:
		return "animation"
	case VIEW_GESTURE:
		return "gesture"
	}
	return "static"
}

// ViewGesture is a running swipe or drag-and-drop scroll of the view
type ViewGesture struct {
	currentViewOffset float64
	// Extra offset on top of currentViewOffset, animating to 0.
	// Used when the view has to jump while the gesture keeps running.
	animation *animation.Animation
	tracker   *gesture.SwipeTracker
	// Added to the tracker position to get the view offset
	deltaFromTracker float64
	// The offset the view would rest at if the gesture ended right now without moving
	stationaryViewOffset float64
	isTouchpad           bool

	isDnd              bool
	dndLastEventTime   time.Duration
	dndNonzeroStart    time.Duration
	hasDndNonzeroStart bool
}

func (g *ViewGesture) current() float64 {
	v := g.currentViewOffset
	if g.animation != nil {
		v += g.animation.Value()
	}
	return v
}

// animateFrom starts a correction animation from the given extra offset back to 0
func (g *ViewGesture) animateFrom(from float64, clock *animation.Clock, cfg animation.Config) {
	current := 0.0
	if g.animation != nil {
		current = g.animation.Value()
	}
	g.animation = animation.New(clock, from+current, 0, 0, cfg)
}

// ViewOffset is the horizontal position of the view relative to the active column.
// It is either a static value, an animation towards a target or a running gesture.
type ViewOffset struct {
	kind    ViewOffsetKind
	static  float64
	anim    *animation.Animation
	gesture *ViewGesture
}

func staticViewOffset(v float64) ViewOffset {
	return ViewOffset{kind: VIEW_STATIC, static: v}
}

func animatedViewOffset(a *animation.Animation) ViewOffset {
	return ViewOffset{kind: VIEW_ANIMATION, anim: a}
}

func gestureViewOffset(g *ViewGesture) ViewOffset {
	return ViewOffset{kind: VIEW_GESTURE, gesture: g}
}

func (v *ViewOffset) Kind() ViewOffsetKind {
	return v.kind
}

// Current is the offset to draw with right now
func (v *ViewOffset) Current() float64 {
	switch v.kind {
	case VIEW_ANIMATION:
		return v.anim.Value()
	case VIEW_GESTURE:
		return v.gesture.current()
	}
	return v.static
}

// Target is the offset the view is heading to
func (v *ViewOffset) Target() float64 {
	switch v.kind {
	case VIEW_ANIMATION:
		return v.anim.To()
	case VIEW_GESTURE:
		return v.gesture.currentViewOffset
	}
	return v.static
}

// Stationary is the offset the view rests at, ignoring any gesture movement
func (v *ViewOffset) Stationary() float64 {
	switch v.kind {
	case VIEW_ANIMATION:
		return v.anim.To()
	case VIEW_GESTURE:
		return v.gesture.stationaryViewOffset
	}
	return v.static
}

// OffsetBy shifts every value of the offset, used when the active column changes position
func (v *ViewOffset) OffsetBy(delta float64) {
	switch v.kind {
	case VIEW_ANIMATION:
		v.anim.OffsetBy(delta)
	case VIEW_GESTURE:
		v.gesture.stationaryViewOffset += delta
		v.gesture.deltaFromTracker += delta
		v.gesture.currentViewOffset += delta
	default:
		v.static += delta
	}
}

func (v *ViewOffset) IsStatic() bool {
	return v.kind == VIEW_STATIC
}

func (v *ViewOffset) IsGesture() bool {
	return v.kind == VIEW_GESTURE
}

func (v *ViewOffset) IsDndScroll() bool {
	return v.kind == VIEW_GESTURE && v.gesture.isDnd
}

func (v *ViewOffset) IsAnimationOngoing() bool {
	switch v.kind {
	case VIEW_ANIMATION:
		return true
	case VIEW_GESTURE:
		return v.gesture.animation != nil
	}
	return false
}

// advance turns finished animations into static offsets
func (v *ViewOffset) advance() {
	switch v.kind {
	case VIEW_ANIMATION:
		if v.anim.IsDone() {
			*v = staticViewOffset(v.anim.To())
		}
	case VIEW_GESTURE:
		if v.gesture.animation != nil && v.gesture.animation.IsDone() {
			v.gesture.animation = nil
		}
	}
}
