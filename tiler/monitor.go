// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/veighnsche/niri-sub001/animation"
	generaldata "github.com/veighnsche/niri-sub001/general-data"
	"github.com/veighnsche/niri-sub001/gesture"
	"github.com/veighnsche/niri-sub001/util"
)

var rowSwitchRubberBand = animation.RubberBand{Stiffness: 0.5, Limit: 0.05}

type rowSwitchGesture struct {
	// Row index the gesture started on
	centerIdx  int
	startIdx   float64
	currentIdx float64
	tracker    *gesture.SwipeTracker
	isTouchpad bool
}

// rowSwitch is either a running gesture or an animation towards the active row
type rowSwitch struct {
	anim    *animation.Animation
	gesture *rowSwitchGesture
}

// Monitor shows one canvas on one output
type Monitor struct {
	output     OutputInfo
	canvas     *Canvas2D
	rowSwitch  *rowSwitch
	insertHint *InsertHint
	// Row the drag-and-drop edge scroll runs on
	dndScrollRow *Row

	clock   *animation.Clock
	options *Options
}

func NewMonitor(output OutputInfo, canvas *Canvas2D, clock *animation.Clock, options *Options) *Monitor {
	if canvas == nil {
		canvas = NewCanvas2D(output, clock, options)
	} else {
		canvas.UpdateConfig(output, options)
	}
	return &Monitor{
		output:  output,
		canvas:  canvas,
		clock:   clock,
		options: options,
	}
}

func (m *Monitor) Output() OutputInfo {
	return m.output
}

func (m *Monitor) Name() string {
	return m.output.Name
}

func (m *Monitor) Canvas() *Canvas2D {
	return m.canvas
}

func (m *Monitor) InsertHint() (InsertHint, bool) {
	if m.insertHint == nil {
		return InsertHint{}, false
	}
	return *m.insertHint, true
}

func (m *Monitor) IsRowSwitchOngoing() bool {
	return m.rowSwitch != nil
}

func (m *Monitor) IsRowSwitchGesture() bool {
	return m.rowSwitch != nil && m.rowSwitch.gesture != nil
}

// RenderIdx is the possibly fractional row index the view is showing
func (m *Monitor) RenderIdx() float64 {
	switch {
	case m.rowSwitch == nil:
		return float64(m.canvas.activeRowIdx)
	case m.rowSwitch.gesture != nil:
		return m.rowSwitch.gesture.currentIdx
	default:
		return m.rowSwitch.anim.Value()
	}
}

// withRowSwitch runs a canvas command and animates to the new active row if it changed
func (m *Monitor) withRowSwitch(f func() bool) bool {
	from := m.RenderIdx()
	prev := m.canvas.activeRowIdx
	ok := f()
	if m.canvas.activeRowIdx != prev {
		m.animateRowSwitch(from, 0)
	}
	return ok
}

func (m *Monitor) animateRowSwitch(from, velocity float64) {
	to := float64(m.canvas.activeRowIdx)
	m.rowSwitch = &rowSwitch{
		anim: animation.New(m.clock, from, to, velocity, m.options.Animations.RowSwitch),
	}
}

// ActivateWindow focuses a window on this monitor, animating a row switch if needed
func (m *Monitor) ActivateWindow(id WindowID) bool {
	return m.withRowSwitch(func() bool { return m.canvas.ActivateWindow(id) })
}

func (m *Monitor) rowGestureNorm(isTouchpad bool) float64 {
	if isTouchpad {
		return gesture.RowGestureMovement
	}
	return math.Max(m.output.Size.H, 1)
}

// RowSwitchGestureBegin starts a vertical swipe between rows
func (m *Monitor) RowSwitchGestureBegin(isTouchpad bool) {
	start := m.RenderIdx()
	m.rowSwitch = &rowSwitch{gesture: &rowSwitchGesture{
		centerIdx:  m.canvas.activeRowIdx,
		startIdx:   start,
		currentIdx: start,
		tracker:    gesture.NewSwipeTracker(),
		isTouchpad: isTouchpad,
	}}
}

// RowSwitchGestureUpdate feeds one swipe delta. It returns false if no matching gesture runs.
func (m *Monitor) RowSwitchGestureUpdate(deltaY float64, timestamp time.Duration, isTouchpad bool) bool {
	if !m.IsRowSwitchGesture() {
		return false
	}
	g := m.rowSwitch.gesture
	if g.isTouchpad != isTouchpad {
		return false
	}
	g.tracker.Push(deltaY, timestamp)
	pos := g.startIdx + g.tracker.Pos()/m.rowGestureNorm(isTouchpad)
	center := float64(g.centerIdx)
	g.currentIdx = rowSwitchRubberBand.Clamp(center-1, center+1, pos)
	return true
}

// RowSwitchGestureEnd snaps to the row nearest to where the swipe would come to rest
func (m *Monitor) RowSwitchGestureEnd(isTouchpad *bool) bool {
	if !m.IsRowSwitchGesture() {
		return false
	}
	g := m.rowSwitch.gesture
	if isTouchpad != nil && *isTouchpad != g.isTouchpad {
		return false
	}
	// Account for idle time between the last event and now
	g.tracker.Push(0, m.clock.NowUnadjusted())

	norm := m.rowGestureNorm(g.isTouchpad)
	center := float64(g.centerIdx)

	pos := g.startIdx + g.tracker.Pos()/norm
	velocity := g.tracker.Velocity() / norm
	projected := g.startIdx + g.tracker.ProjectedEndPos()/norm
	target := math.Round(util.Clamp(projected, center-1, center+1))
	velocity *= rowSwitchRubberBand.ClampDerivative(center-1, center+1, pos)

	from := g.currentIdx
	m.rowSwitch = nil
	if int(target) != m.canvas.activeRowIdx {
		m.canvas.floatingIsActive = false
		m.canvas.setActiveRow(int(target))
	}
	m.animateRowSwitch(from, velocity)
	logrus.WithFields(logrus.Fields{
		"output": m.output.Name,
		"row":    int(target),
	}).Debugln("Row switch gesture ended")
	return true
}

// UpdateInsertHint recomputes where a window dropped at pos, relative to the output, would land
func (m *Monitor) UpdateInsertHint(pos generaldata.Point, floating bool) InsertHint {
	row := m.canvas.ActiveRow()
	hint := InsertHint{Row: row.idx}
	if floating {
		hint.Position = InsertPosition{Kind: INSERT_FLOATING}
	} else {
		hint.Position = row.InsertPosition(pos)
		if area, ok := row.InsertHintArea(hint.Position); ok {
			hint.Area = area
		}
	}
	m.insertHint = &hint
	return hint
}

func (m *Monitor) ClearInsertHint() {
	m.insertHint = nil
}

// DndScrollUpdate scrolls the active row while something is dragged close to its left or right edge
func (m *Monitor) DndScrollUpdate(pos generaldata.Point) {
	row := m.canvas.ActiveRow()
	trigger := m.options.DndEdgeViewScroll.TriggerWidth
	area := row.WorkingArea()
	// Don't let the two edges overlap on narrow outputs
	trigger = math.Min(trigger, area.Size.W/2)

	var delta float64
	if trigger > 0 {
		if d := pos.X - area.Loc.X; d < trigger {
			delta = -(1 - math.Max(d, 0)/trigger)
		} else if d := area.Right() - pos.X; d < trigger {
			delta = 1 - math.Max(d, 0)/trigger
		}
	}
	if prev := m.dndScrollRow; prev != nil && prev != row {
		// The active row changed mid drag, the old one snaps back to a column
		prev.DndScrollEnd()
	}
	m.dndScrollRow = row
	row.DndScrollBegin()
	row.DndScroll(delta)
}

func (m *Monitor) DndScrollEnd() {
	row := m.dndScrollRow
	if row == nil {
		row = m.canvas.ActiveRow()
	}
	m.dndScrollRow = nil
	row.DndScrollEnd()
}

// UpdateOutput applies changed output geometry or options
func (m *Monitor) UpdateOutput(output OutputInfo, options *Options) {
	m.output = output
	m.options = options
	m.canvas.UpdateConfig(output, options)
}

func (m *Monitor) AdvanceAnimations() {
	if m.rowSwitch != nil && m.rowSwitch.anim != nil && m.rowSwitch.anim.IsDone() {
		m.rowSwitch = nil
	}
	m.canvas.AdvanceAnimations()
}

func (m *Monitor) AreAnimationsOngoing() bool {
	return (m.rowSwitch != nil && m.rowSwitch.anim != nil) || m.canvas.AreAnimationsOngoing()
}

func (m *Monitor) TilesWithRenderPositions() []TileRenderPosition {
	return m.canvas.TilesWithRenderPositions(m.RenderIdx())
}
