// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/veighnsche/niri-sub001/animation"
	"github.com/veighnsche/niri-sub001/gesture"
	"github.com/veighnsche/niri-sub001/util"
)

type snapPoint struct {
	viewPos float64
	colIdx  int
}

func (r *Row) newViewGesture(isTouchpad bool) *ViewGesture {
	return &ViewGesture{
		currentViewOffset:    r.viewOffset.Current(),
		tracker:              gesture.NewSwipeTracker(),
		deltaFromTracker:     r.viewOffset.Current(),
		stationaryViewOffset: r.viewOffset.Stationary(),
		isTouchpad:           isTouchpad,
	}
}

func (r *Row) gestureNormFactor(g *ViewGesture) float64 {
	if g.isTouchpad {
		return r.workingArea.Size.W / gesture.ViewGestureWorkingAreaMovement
	}
	return 1
}

// ViewOffsetGestureBegin starts a horizontal swipe of the view
func (r *Row) ViewOffsetGestureBegin(isTouchpad bool) bool {
	if len(r.columns) == 0 || r.interactiveResize != nil {
		return false
	}
	r.viewOffset = gestureViewOffset(r.newViewGesture(isTouchpad))
	return true
}

// ViewOffsetGestureUpdate feeds one swipe delta. It returns false if no matching gesture runs.
func (r *Row) ViewOffsetGestureUpdate(deltaX float64, timestamp time.Duration, isTouchpad bool) bool {
	g := r.viewOffset.gesture
	if !r.viewOffset.IsGesture() || g.isTouchpad != isTouchpad || g.isDnd {
		return false
	}
	g.tracker.Push(deltaX, timestamp)
	g.currentViewOffset = g.tracker.Pos()*r.gestureNormFactor(g) + g.deltaFromTracker
	return true
}

// ViewOffsetGestureEnd snaps the view to a column boundary near where the gesture would come to rest.
// Cancelling is not supported, a cancelled gesture ends like a normal one.
func (r *Row) ViewOffsetGestureEnd(isTouchpad *bool) bool {
	if !r.viewOffset.IsGesture() {
		return false
	}
	g := r.viewOffset.gesture
	if isTouchpad != nil && *isTouchpad != g.isTouchpad {
		return false
	}

	if g.isDnd && g.tracker.Pos() == 0 {
		// Nothing scrolled, keep the view where it is
		r.viewOffset = staticViewOffset(g.deltaFromTracker)
		if len(r.columns) > 0 {
			r.animateViewOffsetToColumn(nil, r.activeColumnIdx, -1)
		}
		return true
	}

	// Account for idle time between the last event and now
	g.tracker.Push(0, r.clock.NowUnadjusted())

	norm := r.gestureNormFactor(g)
	velocity := g.tracker.Velocity() * norm
	currentViewOffset := g.tracker.Pos()*norm + g.deltaFromTracker
	if g.animation != nil {
		currentViewOffset += g.animation.Value()
	}

	if len(r.columns) == 0 {
		r.viewOffset = staticViewOffset(currentViewOffset)
		return true
	}

	targetViewOffset := g.tracker.ProjectedEndPos()*norm + g.deltaFromTracker
	activeColX := r.ColumnX(r.activeColumnIdx)
	targetViewPos := activeColX + targetViewOffset

	snaps := r.snapPoints()
	forward := targetViewOffset >= currentViewOffset
	best := pickSnap(snaps, targetViewPos, forward)

	newColIdx := best.colIdx
	if !r.isCenteringFocusedColumn() {
		newColIdx = r.furthestVisibleColumn(best, forward)
	}

	newColX := r.ColumnX(newColIdx)
	delta := activeColX - newColX
	if r.activeColumnIdx != newColIdx {
		r.viewOffsetToRestore = nil
		r.activatePrevColumnOnRemoval = nil
	}
	r.activeColumnIdx = newColIdx

	logrus.WithFields(logrus.Fields{
		"row":      r.id,
		"column":   newColIdx,
		"velocity": velocity,
	}).Debugln("View gesture ended")

	r.viewOffset = animatedViewOffset(animation.New(
		r.clock,
		currentViewOffset+delta,
		best.viewPos-newColX,
		velocity,
		r.options.Animations.HorizontalViewMovement,
	))
	// Takes care of columns larger than the view snapped by their right edge
	r.animateViewOffsetToColumn(nil, newColIdx, -1)
	return true
}

// pickSnap returns the snap point closest to pos. On a tie it picks the one further in the
// gesture direction.
func pickSnap(snaps []snapPoint, pos float64, forward bool) snapPoint {
	best := snaps[0]
	bestDist := math.Abs(best.viewPos - pos)
	for _, s := range snaps[1:] {
		d := math.Abs(s.viewPos - pos)
		switch {
		case d < bestDist:
		case d == bestDist && forward && s.viewPos > best.viewPos:
		case d == bestDist && !forward && s.viewPos < best.viewPos:
		default:
			continue
		}
		best, bestDist = s, d
	}
	return best
}

// columnSnapEdges returns the view positions at which the column's left and right edges line up
// with the view, the right one still needing the view width subtracted
func (r *Row) columnSnapEdges(colX float64, col *Column, width float64) (left, right float64) {
	mode := col.SizingMode()
	if mode.IsFullscreen() {
		return colX, colX + width
	}
	area := r.workingArea
	padding := util.Clamp((area.Size.W-width)/2, 0, r.options.Gaps)
	if mode.IsMaximized() {
		area = r.parentArea
		padding = 0
	}
	leftStrut := area.Loc.X
	rightStrut := r.viewSize.W - area.Size.W - area.Loc.X
	return colX - padding - leftStrut, colX + width + padding + rightStrut
}

func (r *Row) snapPoints() []snapPoint {
	var snaps []snapPoint
	if r.isCenteringFocusedColumn() {
		for i, col := range r.columns {
			colX := r.ColumnX(i)
			width := r.data[i].width
			mode := col.SizingMode()
			area := r.workingArea
			if mode.IsMaximized() {
				area = r.parentArea
			}
			var viewPos float64
			switch {
			case mode.IsFullscreen():
				viewPos = colX
			case area.Size.W <= width:
				viewPos = colX - area.Loc.X
			default:
				viewPos = colX - (area.Size.W-width)/2 - area.Loc.X
			}
			snaps = append(snaps, snapPoint{viewPos: viewPos, colIdx: i})
		}
		return snaps
	}

	viewWidth := r.viewSize.W
	last := len(r.columns) - 1
	leftmost, _ := r.columnSnapEdges(0, r.columns[0], r.data[0].width)
	_, lastRight := r.columnSnapEdges(r.ColumnX(last), r.columns[last], r.data[last].width)
	rightmost := lastRight - viewWidth

	// Never snap past the first or the last column
	snaps = append(snaps, snapPoint{viewPos: leftmost, colIdx: 0}, snapPoint{viewPos: rightmost, colIdx: last})
	for i, col := range r.columns {
		left, right := r.columnSnapEdges(r.ColumnX(i), col, r.data[i].width)
		if leftmost < left && left < rightmost {
			snaps = append(snaps, snapPoint{viewPos: left, colIdx: i})
		}
		right -= viewWidth
		if leftmost < right && right < rightmost {
			snaps = append(snaps, snapPoint{viewPos: right, colIdx: i})
		}
	}
	sort.SliceStable(snaps, func(i, j int) bool { return snaps[i].viewPos < snaps[j].viewPos })
	return snaps
}

// furthestVisibleColumn walks from the snapped column in the gesture direction for as long as
// the next column stays fully visible at the snapped view position.
// A partially visible column never counts, activating it would scroll the view off the snap.
func (r *Row) furthestVisibleColumn(snap snapPoint, forward bool) int {
	idx := snap.colIdx
	visible := func(i int) bool {
		col := r.columns[i]
		colX := r.ColumnX(i)
		width := r.data[i].width
		mode := col.SizingMode()
		if mode.IsFullscreen() {
			return snap.viewPos <= colX && colX+width <= snap.viewPos+r.viewSize.W
		}
		area := r.workingArea
		padding := util.Clamp((area.Size.W-width)/2, 0, r.options.Gaps)
		if mode.IsMaximized() {
			area = r.parentArea
			padding = 0
		}
		if forward {
			return colX+width+padding <= snap.viewPos+area.Loc.X+area.Size.W
		}
		return snap.viewPos+area.Loc.X <= colX-padding
	}
	if forward {
		for i := idx + 1; i < len(r.columns) && visible(i); i++ {
			idx = i
		}
	} else {
		for i := idx - 1; i >= 0 && visible(i); i-- {
			idx = i
		}
	}
	return idx
}

// DndScrollBegin starts scrolling the view because something is dragged near its edge
func (r *Row) DndScrollBegin() {
	if r.viewOffset.IsDndScroll() {
		return
	}
	g := r.newViewGesture(false)
	g.isDnd = true
	g.dndLastEventTime = r.clock.NowUnadjusted()
	r.viewOffset = gestureViewOffset(g)
	r.interactiveResize = nil
}

// DndScroll moves the view by delta, -1 to 1 of the configured max speed per second.
// A zero delta means the pointer left the scroll zone.
func (r *Row) DndScroll(delta float64) bool {
	if !r.viewOffset.IsDndScroll() {
		return false
	}
	g := r.viewOffset.gesture
	cfg := r.options.DndEdgeViewScroll
	now := r.clock.NowUnadjusted()
	last := g.dndLastEventTime
	g.dndLastEventTime = now

	if delta == 0 {
		g.hasDndNonzeroStart = false
		return false
	}
	if !g.hasDndNonzeroStart {
		g.dndNonzeroStart = now
		g.hasDndNonzeroStart = true
	}
	// Delay scrolling a bit so that dragging across outputs doesn't scroll
	if now-g.dndNonzeroStart < time.Duration(cfg.DelayMs)*time.Millisecond {
		return true
	}

	dt := max(now-last, 0).Seconds()
	g.tracker.Push(delta*dt*cfg.MaxSpeed, now)
	viewOffset := g.tracker.Pos() + g.deltaFromTracker

	var leftmost, rightmost float64
	if len(r.columns) > 0 {
		last := len(r.columns) - 1
		activeX := r.ColumnX(r.activeColumnIdx)
		leftmost = -r.workingArea.Size.W - activeX
		rightmost = r.ColumnX(last) + r.data[last].width - r.workingArea.Loc.X - activeX
	}
	clamped := util.Clamp(viewOffset, math.Min(leftmost, rightmost), math.Max(leftmost, rightmost))
	g.deltaFromTracker += clamped - viewOffset
	g.currentViewOffset = clamped
	return true
}

// DndScrollEnd ends a drag-and-drop scroll, snapping like a swipe if the view moved
func (r *Row) DndScrollEnd() bool {
	if !r.viewOffset.IsDndScroll() {
		return false
	}
	return r.ViewOffsetGestureEnd(nil)
}
