// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"slices"
	"testing"
)

func newTestCanvas() *Canvas2D {
	return NewCanvas2D(testOutput("test"), testClock(), testOptions())
}

func newCanvasTile(c *Canvas2D, id WindowID) *Tile {
	return NewTile(newTestWindow(id, 800, 600), c.output.Size, 1, c.clock, c.options)
}

func mustValidCanvas(t *testing.T, c *Canvas2D) {
	t.Helper()
	if err := c.VerifyInvariants(); err != nil {
		t.Fatalf("canvas invariant violated: %v", err)
	}
}

func TestCanvasStartsWithRowZero(t *testing.T) {
	c := newTestCanvas()
	if idxs := c.RowIdxs(); !slices.Equal(idxs, []int{0}) {
		t.Errorf("expected only row 0, got %v", idxs)
	}
	if !c.IsEmpty() || c.ActiveTile() != nil {
		t.Errorf("new canvas should be empty")
	}
	mustValidCanvas(t, c)
}

func TestCanvasRowNavigationCleansUp(t *testing.T) {
	c := newTestCanvas()
	c.AddTile(newCanvasTile(c, 1), 0, true, false, nil, false)

	if !c.FocusRowDown() {
		t.Fatalf("focus row down failed")
	}
	if c.ActiveRowIdx() != 1 || c.Camera().Y != 1000 {
		t.Errorf("expected row 1 with the camera at 1000, got %d at %v", c.ActiveRowIdx(), c.Camera())
	}
	if idxs := c.RowIdxs(); !slices.Equal(idxs, []int{0, 1}) {
		t.Errorf("expected rows [0 1], got %v", idxs)
	}
	if !c.FocusRowUp() || !c.FocusRowUp() {
		t.Fatalf("focus row up failed")
	}
	if idxs := c.RowIdxs(); !slices.Equal(idxs, []int{-1, 0}) {
		t.Errorf("the empty row 1 should be gone, got %v", idxs)
	}
	c.FocusRowIndex(0)
	if idxs := c.RowIdxs(); !slices.Equal(idxs, []int{0}) {
		t.Errorf("expected only row 0 left, got %v", idxs)
	}
	mustValidCanvas(t, c)
}

func TestCanvasNamedRowsSurvive(t *testing.T) {
	c := newTestCanvas()
	c.SetRowName(3, "chat")
	c.CleanupRows()
	if _, ok := c.Row(3); !ok {
		t.Fatalf("named row was removed")
	}
	c.SetRowName(5, "chat")
	if r, _ := c.Row(3); r.Name() != "" {
		t.Errorf("row 3 should have lost its name, got %q", r.Name())
	}
	if r, ok := c.FindRowByName("chat"); !ok || r.Idx() != 5 {
		t.Errorf("expected chat to be row 5")
	}
	c.CleanupRows()
	if _, ok := c.Row(3); ok {
		t.Errorf("row 3 should be cleaned up once unnamed")
	}
	c.UnsetRowName(5)
	if idxs := c.RowIdxs(); !slices.Equal(idxs, []int{0}) {
		t.Errorf("expected only row 0, got %v", idxs)
	}
}

func TestCanvasMoveWindowToRow(t *testing.T) {
	c := newTestCanvas()
	c.AddTile(newCanvasTile(c, 1), 0, true, false, nil, false)
	c.AddTile(newCanvasTile(c, 2), 0, true, false, nil, false)
	c.SetColumnWidth(SizeChange{Kind: SET_FIXED, Value: 500})

	if !c.MoveWindowToRowDown() {
		t.Fatalf("move to row down failed")
	}
	if c.ActiveRowIdx() != 1 || c.ActiveTile().ID() != 2 {
		t.Fatalf("focus should follow window 2 to row 1")
	}
	if w := c.ActiveRow().ActiveColumn().ColumnWidth(); w != WidthFixed(500) {
		t.Errorf("column width should be kept, got %v", w)
	}
	if r, _ := c.Row(0); r.ActiveTile().ID() != 1 {
		t.Errorf("window 1 should stay on row 0")
	}

	if !c.MoveColumnToRowUp() {
		t.Fatalf("move column to row up failed")
	}
	if c.ActiveRowIdx() != 0 || len(c.ActiveRow().Columns()) != 2 {
		t.Errorf("expected both columns on row 0")
	}
	if idxs := c.RowIdxs(); !slices.Equal(idxs, []int{0}) {
		t.Errorf("row 1 should be cleaned up, got %v", idxs)
	}
	mustValidCanvas(t, c)
}

func TestCanvasMoveRowSwapsRows(t *testing.T) {
	c := newTestCanvas()
	c.AddTile(newCanvasTile(c, 1), 0, true, false, nil, false)
	c.AddTile(newCanvasTile(c, 2), 1, false, false, nil, false)

	if !c.MoveRowDown() {
		t.Fatalf("move row down failed")
	}
	r0, _ := c.Row(0)
	r1, _ := c.Row(1)
	if !r0.HasWindow(2) || !r1.HasWindow(1) {
		t.Errorf("rows were not swapped")
	}
	if c.ActiveRowIdx() != 1 || c.ActiveTile().ID() != 1 {
		t.Errorf("focus should follow the moved row")
	}
	mustValidCanvas(t, c)
}

func TestCanvasToggleFloating(t *testing.T) {
	c := newTestCanvas()
	c.AddTile(newCanvasTile(c, 1), 0, true, false, nil, false)
	c.AddTile(newCanvasTile(c, 2), 0, true, false, nil, false)

	if !c.ToggleWindowFloating(0) {
		t.Fatalf("toggle floating failed")
	}
	if _, floating, _ := c.FindWindow(2); !floating || !c.FloatingIsActive() {
		t.Fatalf("window 2 should be floating and focused")
	}
	if !c.SwitchFocusFloatingTiling() || c.ActiveTile().ID() != 1 {
		t.Errorf("focus should switch to window 1")
	}
	if !c.SwitchFocusFloatingTiling() || c.ActiveTile().ID() != 2 {
		t.Errorf("focus should switch back to window 2")
	}
	if !c.ToggleWindowFloating(2) {
		t.Fatalf("toggle floating back failed")
	}
	if row, floating, _ := c.FindWindow(2); floating || row.Idx() != 0 {
		t.Errorf("window 2 should be tiled again")
	}
	if c.FloatingIsActive() {
		t.Errorf("empty floating layer can't be active")
	}
	mustValidCanvas(t, c)
}

func TestCanvasFloatingFullscreenReturnsToFloating(t *testing.T) {
	c := newTestCanvas()
	c.AddTile(newCanvasTile(c, 1), 0, true, true, nil, false)
	before, _ := c.floating.WindowRect(1)

	if !c.SetFullscreen(1, true) {
		t.Fatalf("set fullscreen failed")
	}
	row, floating, _ := c.FindWindow(1)
	if floating || row.Idx() != 0 {
		t.Fatalf("fullscreen window should be tiled on the active row")
	}
	if !row.FindTile(1).RestoreToFloating() {
		t.Errorf("tile should remember it came from the floating layer")
	}
	mustValidCanvas(t, c)

	c.UpdateWindow(1)
	if !c.ToggleFullscreen(1) {
		t.Fatalf("unfullscreen failed")
	}
	if _, floating, _ := c.FindWindow(1); !floating {
		t.Fatalf("window should be floating again")
	}
	c.UpdateWindow(1)
	if !c.FloatingIsActive() {
		t.Errorf("floating layer should keep focus")
	}
	after, _ := c.floating.WindowRect(1)
	if after != before {
		t.Errorf("expected the window back at %v, got %v", before, after)
	}
	mustValidCanvas(t, c)
}

func TestCanvasRenderPositionsDuringRowSwitch(t *testing.T) {
	c := newTestCanvas()
	c.AddTile(newCanvasTile(c, 1), 0, true, false, nil, false)
	c.AddTile(newCanvasTile(c, 2), 1, false, false, nil, false)

	if got := c.TilesWithRenderPositions(0); len(got) != 1 || got[0].Tile.ID() != 1 {
		t.Fatalf("expected only window 1 at row 0")
	}
	got := c.TilesWithRenderPositions(0.5)
	if len(got) != 2 {
		t.Fatalf("expected both windows half way, got %d", len(got))
	}
	var y0, y1 float64
	for _, p := range got {
		if p.Tile.ID() == 1 {
			y0 = p.Pos.Y
		} else {
			y1 = p.Pos.Y
		}
	}
	if !approx(y1-y0, 1000) {
		t.Errorf("rows should be one output height apart, got %v", y1-y0)
	}
}

func TestCanvasRemoveTile(t *testing.T) {
	c := newTestCanvas()
	c.AddTile(newCanvasTile(c, 1), 0, true, true, nil, false)
	c.AddTile(newCanvasTile(c, 2), 2, false, false, nil, false)
	if c.RemoveTile(1) == nil || c.FloatingIsActive() {
		t.Errorf("removing the last floating window should drop floating focus")
	}
	if c.RemoveTile(2) == nil || !c.IsEmpty() {
		t.Errorf("canvas should be empty")
	}
	if c.RemoveTile(3) != nil {
		t.Errorf("unknown window removed")
	}
}
