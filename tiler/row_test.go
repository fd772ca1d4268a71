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

func columnIDs(r *Row) [][]WindowID {
	res := make([][]WindowID, 0, len(r.columns))
	for _, c := range r.columns {
		ids := make([]WindowID, 0, c.Len())
		for _, t := range c.tiles {
			ids = append(ids, t.ID())
		}
		res = append(res, ids)
	}
	return res
}

// rowWithFixedColumns returns a row with n single tile columns of the given width, the first one active
func rowWithFixedColumns(n int, width float64) *Row {
	r := newTestRow()
	w := WidthFixed(width)
	for i := 1; i <= n; i++ {
		r.AddTile(-1, newTestTile(r, WindowID(i)), true, &w, false)
	}
	r.ActivateColumn(0)
	return r
}

func TestRowAddTileGoesRightOfActive(t *testing.T) {
	r := newTestRow()
	r.AddTile(-1, newTestTile(r, 1), true, nil, false)
	r.AddTile(-1, newTestTile(r, 2), true, nil, false)
	r.ActivateColumn(0)
	r.AddTile(-1, newTestTile(r, 3), false, nil, false)

	got := columnIDs(r)
	if len(got) != 3 || got[0][0] != 1 || got[1][0] != 3 || got[2][0] != 2 {
		t.Fatalf("unexpected columns %v", got)
	}
	if r.ActiveColumnIdx() != 0 {
		t.Errorf("inactive add must not change focus, active is %d", r.ActiveColumnIdx())
	}
	r.AddTile(0, newTestTile(r, 4), false, nil, false)
	if r.ActiveColumnIdx() != 1 || r.ActiveTile().ID() != 1 {
		t.Errorf("active column should follow its window, got %d", r.ActiveColumnIdx())
	}
	mustValidRow(t, r)
}

func TestRowColumnX(t *testing.T) {
	r := rowWithFixedColumns(4, 800)
	want := []float64{0, 816, 1632, 2448}
	for i, x := range want {
		if got := r.ColumnX(i); got != x {
			t.Errorf("column %d: expected x %v, got %v", i, x, got)
		}
	}
	xs := r.columnXs()
	if len(xs) != 5 || xs[4] != 3264 {
		t.Errorf("unexpected column xs %v", xs)
	}
}

func TestRowRemoveActiveColumnFocusesRight(t *testing.T) {
	r := rowWithFixedColumns(3, 800)
	r.ActivateColumn(1)
	r.RemoveTile(2)
	if r.ActiveTile().ID() != 3 {
		t.Errorf("expected window 3 active, got %v", r.ActiveTile().ID())
	}
	r.RemoveTile(3)
	if r.ActiveTile().ID() != 1 {
		t.Errorf("expected window 1 active after removing the last column, got %v", r.ActiveTile().ID())
	}
	r.RemoveTile(1)
	if !r.IsEmpty() || r.ActiveColumnIdx() != 0 {
		t.Errorf("expected an empty row with active index 0")
	}
	mustValidRow(t, r)
}

func TestRowRemoveJustOpenedColumnGoesBack(t *testing.T) {
	r := rowWithFixedColumns(3, 800)
	r.ActivateColumn(0)
	r.AddTile(-1, newTestTile(r, 4), true, nil, false)
	if r.ActiveTile().ID() != 4 {
		t.Fatalf("new window should be active")
	}
	r.RemoveTile(4)
	if r.ActiveTile().ID() != 1 {
		t.Errorf("focus should go back to window 1, got %v", r.ActiveTile().ID())
	}
}

func TestRowRemoveLeftOfActiveKeepsActiveWindow(t *testing.T) {
	r := rowWithFixedColumns(3, 800)
	r.ActivateColumn(2)
	viewPos := r.ViewPos()
	r.RemoveTile(1)
	if r.ActiveColumnIdx() != 1 || r.ActiveTile().ID() != 3 {
		t.Errorf("expected window 3 active at 1, got %v at %d", r.ActiveTile().ID(), r.ActiveColumnIdx())
	}
	// Everything moved left by one column
	if got := r.ViewPos(); !approx(got, viewPos-816) {
		t.Errorf("expected view pos %v, got %v", viewPos-816, got)
	}
}

// screenXs returns where every column currently shows up relative to the view
func screenXs(r *Row) map[WindowID]float64 {
	res := make(map[WindowID]float64, len(r.columns))
	viewPos := r.ViewPos()
	for i, c := range r.columns {
		res[c.tiles[0].ID()] = r.ColumnX(i) - viewPos + c.RenderOffset()
	}
	return res
}

func TestRowRemoveColumnKeepsOthersInPlace(t *testing.T) {
	tests := []struct {
		name   string
		remove int
		active int
	}{
		{"first column left of active", 0, 2},
		{"column left of active", 1, 2},
		{"column directly left of active", 2, 2},
		{"active column", 3, 3},
		{"column right of active", 4, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rowWithFixedColumns(5, 400)
			r.ActivateColumn(3)
			r.clock.Advance(10 * time.Second)
			r.AdvanceAnimations()
			r.clock.SetCompleteInstantly(false)

			removed := WindowID(tt.remove + 1)
			before := screenXs(r)
			r.RemoveTile(removed)
			after := screenXs(r)

			if len(after) != 4 {
				t.Fatalf("expected 4 columns left, got %d", len(after))
			}
			for id, x := range after {
				if !approx(x, before[id]) {
					t.Errorf("window %v jumped from %v to %v", id, before[id], x)
				}
			}
			if r.ActiveColumnIdx() != tt.active {
				t.Errorf("expected column %d active, got %d", tt.active, r.ActiveColumnIdx())
			}

			// Once settled the columns close the gap
			r.clock.Advance(10 * time.Second)
			r.AdvanceAnimations()
			for i, c := range r.columns {
				if off := c.RenderOffset(); off != 0 {
					t.Errorf("column %d still offset by %v", i, off)
				}
			}
			mustValidRow(t, r)
		})
	}
}

func TestRowFocusMovement(t *testing.T) {
	r := rowWithFixedColumns(3, 800)
	if r.FocusLeft() {
		t.Errorf("can't focus left of the first column")
	}
	if !r.FocusRight() || !r.FocusRight() {
		t.Fatalf("focus right failed")
	}
	if r.FocusRight() {
		t.Errorf("can't focus right of the last column")
	}
	if !r.FocusRightOrFirst() || r.ActiveColumnIdx() != 0 {
		t.Errorf("focus right or first should wrap to 0, got %d", r.ActiveColumnIdx())
	}
	if !r.FocusLeftOrLast() || r.ActiveColumnIdx() != 2 {
		t.Errorf("focus left or last should wrap to 2, got %d", r.ActiveColumnIdx())
	}
}

func TestRowActiveColumnStaysVisible(t *testing.T) {
	r := rowWithFixedColumns(4, 800)
	r.ActivateColumn(3)
	viewPos := r.ViewPos()
	colX := r.ColumnX(3)
	if colX < viewPos || colX+800 > viewPos+1920 {
		t.Errorf("active column [%v, %v] is outside the view at %v", colX, colX+800, viewPos)
	}
}

func TestRowMoveColumns(t *testing.T) {
	r := rowWithFixedColumns(3, 800)
	if !r.MoveRight() {
		t.Fatalf("move right failed")
	}
	got := columnIDs(r)
	if got[0][0] != 2 || got[1][0] != 1 || got[2][0] != 3 {
		t.Errorf("unexpected columns %v", got)
	}
	if r.ActiveTile().ID() != 1 {
		t.Errorf("moved column should stay active")
	}
	if !r.MoveColumnToLast() || r.ActiveColumnIdx() != 2 {
		t.Errorf("move to last failed, active is %d", r.ActiveColumnIdx())
	}
	mustValidRow(t, r)
}

func TestRowConsumeAndExpel(t *testing.T) {
	r := rowWithFixedColumns(2, 800)
	if !r.ConsumeOrExpelWindowRight(0) {
		t.Fatalf("consume right failed")
	}
	got := columnIDs(r)
	if len(got) != 1 || len(got[0]) != 2 || got[0][1] != 1 {
		t.Fatalf("expected window 1 at the bottom of the only column, got %v", got)
	}
	if r.ActiveTile().ID() != 1 {
		t.Errorf("consumed window should stay active")
	}
	if !r.ConsumeOrExpelWindowLeft(0) {
		t.Fatalf("expel left failed")
	}
	got = columnIDs(r)
	if len(got) != 2 || got[0][0] != 1 || got[1][0] != 2 {
		t.Errorf("expected window 1 back in its own column on the left, got %v", got)
	}
	mustValidRow(t, r)
}

func TestRowFullscreenExtractsWindow(t *testing.T) {
	r := rowWithColumn(3)
	r.columns[0].ActivateIdx(1)
	if !r.SetFullscreen(2, true) {
		t.Fatalf("set fullscreen failed")
	}
	got := columnIDs(r)
	if len(got) != 2 || len(got[0]) != 2 || got[1][0] != 2 {
		t.Fatalf("expected columns [[1 3] [2]], got %v", got)
	}
	if !r.columns[1].IsPendingFullscreen() || r.ActiveColumnIdx() != 1 {
		t.Errorf("window 2 should be in the active fullscreen column")
	}
	if m := testWindowOf(r.columns[1].tiles[0]).mode; m != SIZING_FULLSCREEN {
		t.Errorf("window should have been asked to go fullscreen, got %v", m)
	}
	syncTiles(r)
	if !r.ToggleFullscreen(2) {
		t.Fatalf("toggle fullscreen failed")
	}
	if m := testWindowOf(r.columns[1].tiles[0]).mode; m != SIZING_NORMAL {
		t.Errorf("window should be back to normal, got %v", m)
	}
	mustValidRow(t, r)
}

func TestRowSnapPoints(t *testing.T) {
	r := rowWithFixedColumns(4, 800)
	snaps := r.snapPoints()
	want := []snapPoint{{-16, 0}, {528, 2}, {800, 1}, {1344, 3}}
	if len(snaps) != len(want) {
		t.Fatalf("expected %v, got %v", want, snaps)
	}
	for i := range want {
		if snaps[i] != want[i] {
			t.Errorf("snap %d: expected %v, got %v", i, want[i], snaps[i])
		}
	}

	if s := pickSnap(snaps, 1000, true); s != (snapPoint{800, 1}) {
		t.Errorf("expected snap at 800, got %v", s)
	}
	if s := pickSnap(snaps, 1072, true); s != (snapPoint{1344, 3}) {
		t.Errorf("forward tie should pick 1344, got %v", s)
	}
	if s := pickSnap(snaps, 1072, false); s != (snapPoint{800, 1}) {
		t.Errorf("backward tie should pick 800, got %v", s)
	}

	if i := r.furthestVisibleColumn(snapPoint{800, 1}, true); i != 2 {
		t.Errorf("expected column 2 to be the furthest visible, got %d", i)
	}
	if i := r.furthestVisibleColumn(snapPoint{528, 2}, false); i != 1 {
		t.Errorf("expected column 1 to be the furthest visible, got %d", i)
	}
}

func TestRowViewGestureSnapsToColumn(t *testing.T) {
	r := rowWithFixedColumns(4, 800)
	if !r.ViewOffsetGestureBegin(false) {
		t.Fatalf("gesture did not start")
	}
	if r.ViewOffsetGestureUpdate(10, 0, true) {
		t.Errorf("touchpad update must not feed a mouse gesture")
	}
	r.ViewOffsetGestureUpdate(1000, 0, false)
	if !r.viewOffset.IsGesture() {
		t.Fatalf("expected a running gesture")
	}
	if !r.ViewOffsetGestureEnd(nil) {
		t.Fatalf("gesture did not end")
	}
	if r.viewOffset.IsGesture() {
		t.Errorf("gesture should be over")
	}
	// The view ends on a snap point, and the active column is fully visible
	viewPos := r.TargetViewPos()
	colX := r.ColumnX(r.ActiveColumnIdx())
	if colX < viewPos || colX+800 > viewPos+1920 {
		t.Errorf("active column %d at %v is outside the view at %v", r.ActiveColumnIdx(), colX, viewPos)
	}
	if r.ActiveColumnIdx() == 0 {
		t.Errorf("scrolling right should have moved focus off the first column")
	}
	mustValidRow(t, r)
}

// rowWithWidths returns a row with one single tile column per width, the first one active
func rowWithWidths(widths ...float64) *Row {
	r := newTestRow()
	for i, width := range widths {
		w := WidthFixed(width)
		r.AddTile(-1, newTestTile(r, WindowID(i+1)), true, &w, false)
	}
	r.ActivateColumn(0)
	return r
}

type swipeEvent struct {
	delta float64
	at    time.Duration
}

func TestRowViewGestureEndPicksSnap(t *testing.T) {
	// Columns start at 0, 616, 1632, 2048 and 2864
	widths := []float64{600, 1000, 400, 800, 500}
	tests := []struct {
		name       string
		startCol   int
		isTouchpad bool
		events     []swipeEvent
		release    time.Duration
		wantCol    int
		wantView   float64
	}{
		{
			// Rests at 684, closest to the left edge of column 1, column 2 fits next to it
			name:     "slow release extends to the fully visible column",
			startCol: 0,
			events:   []swipeEvent{{700, 0}},
			release:  time.Second,
			wantCol:  2,
			wantView: 600,
		},
		{
			name:       "touchpad release scales with the working area",
			startCol:   0,
			isTouchpad: true,
			events:     []swipeEvent{{437.5, 0}},
			release:    time.Second,
			wantCol:    2,
			wantView:   600,
		},
		{
			// 2500 px/s carries the view from 84 to 916, past the snaps at 128 and 600
			name:     "flick lands beyond the nearest snap",
			startCol: 0,
			events:   []swipeEvent{{50, 0}, {50, 30 * time.Millisecond}},
			release:  40 * time.Millisecond,
			wantCol:  3,
			wantView: 944,
		},
		{
			// Ends up near 155, the right edge of column 2 snaps and column 1 is still fully visible
			name:     "backwards flick extends to the left",
			startCol: 4,
			events:   []swipeEvent{{-70, 0}, {-70, 30 * time.Millisecond}},
			release:  40 * time.Millisecond,
			wantCol:  1,
			wantView: 128,
		},
		{
			name:     "flick past the end stops at the last column",
			startCol: 0,
			events:   []swipeEvent{{100, 0}, {100, 10 * time.Millisecond}, {100, 20 * time.Millisecond}},
			release:  20 * time.Millisecond,
			wantCol:  4,
			wantView: 1460,
		},
		{
			name:     "flick before the start stops at the first column",
			startCol: 4,
			events:   []swipeEvent{{-300, 0}, {-300, 10 * time.Millisecond}},
			release:  20 * time.Millisecond,
			wantCol:  0,
			wantView: -16,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rowWithWidths(widths...)
			r.ActivateColumn(tt.startCol)
			if !r.ViewOffsetGestureBegin(tt.isTouchpad) {
				t.Fatalf("gesture did not start")
			}
			for _, ev := range tt.events {
				r.clock.SetTime(ev.at)
				if !r.ViewOffsetGestureUpdate(ev.delta, ev.at, tt.isTouchpad) {
					t.Fatalf("update at %v was rejected", ev.at)
				}
			}
			r.clock.SetTime(tt.release)
			if !r.ViewOffsetGestureEnd(&tt.isTouchpad) {
				t.Fatalf("gesture did not end")
			}

			if r.ActiveColumnIdx() != tt.wantCol {
				t.Errorf("expected column %d active, got %d", tt.wantCol, r.ActiveColumnIdx())
			}
			if got := r.ViewPos(); !approx(got, tt.wantView) {
				t.Errorf("expected the view to settle at %v, got %v", tt.wantView, got)
			}
			mustValidRow(t, r)
		})
	}
}

func TestRowUpdateConfigIsIdempotent(t *testing.T) {
	r := rowWithColumn(2)
	r.AddTile(-1, newTestTile(r, 3), true, nil, false)
	syncTiles(r)
	before := make(map[WindowID][2]float64)
	for _, tile := range r.Tiles() {
		s := tile.TileSize()
		before[tile.ID()] = [2]float64{s.W, s.H}
	}
	viewPos := r.ViewPos()

	out := testOutput("test")
	r.UpdateConfig(out, r.baseOptions)
	r.UpdateConfig(out, r.baseOptions)
	syncTiles(r)

	for _, tile := range r.Tiles() {
		s := tile.TileSize()
		if b := before[tile.ID()]; b != [2]float64{s.W, s.H} {
			t.Errorf("window %v changed size from %v to %v", tile.ID(), b, s)
		}
	}
	if got := r.ViewPos(); !approx(got, viewPos) {
		t.Errorf("view moved from %v to %v", viewPos, got)
	}
	mustValidRow(t, r)
}

func TestRowUpdateWindowTracksNewSize(t *testing.T) {
	r := rowWithFixedColumns(2, 800)
	w := testWindowOf(r.columns[0].tiles[0])
	w.size.W = 900
	if !r.UpdateWindow(1) {
		t.Fatalf("update window failed")
	}
	if got := r.ColumnX(1); got != 916 {
		t.Errorf("second column should move to 916, got %v", got)
	}
	if r.UpdateWindow(42) {
		t.Errorf("unknown window must not update")
	}
}

func TestRowInteractiveResize(t *testing.T) {
	r := rowWithFixedColumns(2, 800)
	if !r.InteractiveResizeBegin(1, RESIZE_EDGE_RIGHT) {
		t.Fatalf("resize did not begin")
	}
	if r.InteractiveResizeBegin(2, RESIZE_EDGE_RIGHT) {
		t.Errorf("a second resize must not begin")
	}
	r.InteractiveResizeUpdate(1, generaldata.Pt(100, 0))
	syncTiles(r)
	if w := r.columns[0].Width(); w != 900 {
		t.Errorf("expected width 900 after the resize, got %v", w)
	}
	if !r.InteractiveResizeEnd(1) || r.IsInteractiveResizeOngoing() {
		t.Errorf("resize did not end")
	}
	mustValidRow(t, r)
}
