// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"testing"
	"time"

	generaldata "github.com/veighnsche/niri-sub001/general-data"
)

func newTestMonitor() *Monitor {
	return NewMonitor(testOutput("DP-1"), nil, testClock(), testOptions())
}

func addMonitorTile(m *Monitor, id WindowID) *Tile {
	c := m.Canvas()
	tile := NewTile(newTestWindow(id, 800, 600), c.output.Size, 1, c.clock, c.options)
	c.AddTile(tile, c.ActiveRowIdx(), true, false, nil, false)
	return tile
}

func TestMonitorRowSwitchGesture(t *testing.T) {
	m := newTestMonitor()
	addMonitorTile(m, 1)

	m.RowSwitchGestureBegin(true)
	if !m.IsRowSwitchGesture() {
		t.Fatalf("gesture did not start")
	}
	if m.RowSwitchGestureUpdate(10, 5*time.Millisecond, false) {
		t.Errorf("mouse update must not feed a touchpad gesture")
	}
	m.RowSwitchGestureUpdate(300, 10*time.Millisecond, true)
	m.RowSwitchGestureUpdate(300, 20*time.Millisecond, true)

	// Two rows worth of movement gets rubber banded past the next row
	idx := m.RenderIdx()
	if idx <= 1 || idx >= 1.05 {
		t.Errorf("expected a rubber banded index in (1, 1.05), got %v", idx)
	}

	if !m.RowSwitchGestureEnd(nil) {
		t.Fatalf("gesture did not end")
	}
	if m.Canvas().ActiveRowIdx() != 1 {
		t.Errorf("expected row 1 active, got %d", m.Canvas().ActiveRowIdx())
	}
	if m.IsRowSwitchGesture() {
		t.Errorf("gesture should be over")
	}
	if got := m.RenderIdx(); got != 1 {
		t.Errorf("expected the switch to settle on row 1, got %v", got)
	}
	m.AdvanceAnimations()
	if m.IsRowSwitchOngoing() {
		t.Errorf("finished row switch should be cleared")
	}
}

func TestMonitorSmallRowSwitchGestureStays(t *testing.T) {
	m := newTestMonitor()
	m.RowSwitchGestureBegin(false)
	// Mouse gestures are normalized by the output height
	m.RowSwitchGestureUpdate(100, 0, false)
	if got := m.RenderIdx(); !approx(got, 0.1) {
		t.Errorf("expected index 0.1, got %v", got)
	}
	m.RowSwitchGestureEnd(nil)
	if m.Canvas().ActiveRowIdx() != 0 {
		t.Errorf("a short swipe should stay on row 0, got %d", m.Canvas().ActiveRowIdx())
	}
}

func TestMonitorRowSwitchGestureIgnoresStaleVelocity(t *testing.T) {
	m := newTestMonitor()
	addMonitorTile(m, 1)

	m.RowSwitchGestureBegin(false)
	m.RowSwitchGestureUpdate(200, 0, false)
	m.RowSwitchGestureUpdate(200, 10*time.Millisecond, false)
	// The pointer rests for a while before the button goes up
	m.clock.SetTime(time.Second)
	if !m.RowSwitchGestureEnd(nil) {
		t.Fatalf("gesture did not end")
	}
	if m.Canvas().ActiveRowIdx() != 0 {
		t.Errorf("a swipe that came to rest at 0.4 should stay on row 0, got %d", m.Canvas().ActiveRowIdx())
	}
}

func TestMonitorRowSwitchGestureFlick(t *testing.T) {
	m := newTestMonitor()
	addMonitorTile(m, 1)

	m.RowSwitchGestureBegin(false)
	m.RowSwitchGestureUpdate(200, 0, false)
	m.RowSwitchGestureUpdate(200, 10*time.Millisecond, false)
	m.clock.SetTime(10 * time.Millisecond)
	m.RowSwitchGestureEnd(nil)
	if m.Canvas().ActiveRowIdx() != 1 {
		t.Errorf("a fast swipe should carry over to row 1, got %d", m.Canvas().ActiveRowIdx())
	}
}

func TestMonitorActivateWindowAnimatesRowSwitch(t *testing.T) {
	m := newTestMonitor()
	addMonitorTile(m, 1)
	m.Canvas().FocusRowDown()
	addMonitorTile(m, 2)
	m.AdvanceAnimations()

	if !m.ActivateWindow(1) {
		t.Fatalf("activate failed")
	}
	if m.Canvas().ActiveRowIdx() != 0 || !m.IsRowSwitchOngoing() {
		t.Errorf("expected an animated switch back to row 0")
	}
	if got := m.RenderIdx(); got != 0 {
		t.Errorf("expected the animation to end on row 0, got %v", got)
	}
}

func TestMonitorInsertHint(t *testing.T) {
	m := newTestMonitor()
	addMonitorTile(m, 1)
	row := m.Canvas().ActiveRow()
	if vp := row.ViewPos(); vp != -16 {
		t.Fatalf("expected the first column one gap from the edge, view at %v", vp)
	}

	hint := m.UpdateInsertHint(generaldata.Pt(100, 300), false)
	if hint.Position != (InsertPosition{Kind: INSERT_NEW_COLUMN, Column: 0}) {
		t.Errorf("expected a new column left of column 0, got %v", hint.Position)
	}

	hint = m.UpdateInsertHint(generaldata.Pt(500, 300), false)
	if hint.Position != (InsertPosition{Kind: INSERT_IN_COLUMN, Column: 0, Tile: 0}) {
		t.Errorf("expected insertion above tile 0, got %v", hint.Position)
	}

	hint = m.UpdateInsertHint(generaldata.Pt(500, 900), false)
	if hint.Position != (InsertPosition{Kind: INSERT_IN_COLUMN, Column: 0, Tile: 1}) {
		t.Errorf("expected insertion below tile 0, got %v", hint.Position)
	}
	if want := generaldata.Rect(16, 967, 936, 50); hint.Area != want {
		t.Errorf("expected hint area %v, got %v", want, hint.Area)
	}

	hint = m.UpdateInsertHint(generaldata.Pt(500, 900), true)
	if hint.Position.Kind != INSERT_FLOATING {
		t.Errorf("expected a floating drop, got %v", hint.Position)
	}
	if _, ok := m.InsertHint(); !ok {
		t.Errorf("hint should be stored")
	}
	m.ClearInsertHint()
	if _, ok := m.InsertHint(); ok {
		t.Errorf("hint should be cleared")
	}
}

func TestMonitorDndScroll(t *testing.T) {
	m := newTestMonitor()
	for id := WindowID(1); id <= 3; id++ {
		addMonitorTile(m, id)
	}
	row := m.Canvas().ActiveRow()
	row.ActivateColumn(0)
	start := row.ViewPos()

	m.DndScrollUpdate(generaldata.Pt(1915, 500))
	if !row.ViewOffset().IsDndScroll() {
		t.Fatalf("dragging at the right edge should start scrolling")
	}
	m.clock.Advance(100 * time.Millisecond)
	m.DndScrollUpdate(generaldata.Pt(1915, 500))
	if got := row.ViewPos(); got <= start {
		t.Errorf("view should have scrolled right from %v, got %v", start, got)
	}

	m.DndScrollEnd()
	if row.ViewOffset().IsGesture() {
		t.Errorf("scroll should be over")
	}
	mustValidRow(t, row)
}

func TestMonitorDndScrollFollowsRowSwitch(t *testing.T) {
	m := newTestMonitor()
	addMonitorTile(m, 1)
	addMonitorTile(m, 2)
	m.Canvas().FocusRowDown()
	addMonitorTile(m, 3)
	m.Canvas().FocusRowUp()

	first := m.Canvas().ActiveRow()
	m.DndScrollUpdate(generaldata.Pt(1915, 500))
	if !first.ViewOffset().IsDndScroll() {
		t.Fatalf("dragging at the right edge should start scrolling")
	}

	m.Canvas().FocusRowDown()
	second := m.Canvas().ActiveRow()
	if second == first {
		t.Fatalf("expected another row to be active")
	}
	m.DndScrollUpdate(generaldata.Pt(1915, 500))
	if first.ViewOffset().IsGesture() {
		t.Errorf("the row left behind should stop scrolling")
	}
	if !second.ViewOffset().IsDndScroll() {
		t.Errorf("the new active row should scroll")
	}
	mustValidRow(t, first)

	m.DndScrollEnd()
	if second.ViewOffset().IsGesture() {
		t.Errorf("scroll should be over")
	}
	mustValidRow(t, second)
}
