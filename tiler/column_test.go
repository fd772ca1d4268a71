// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"testing"

	generaldata "github.com/veighnsche/niri-sub001/general-data"
)

// rowWithColumn returns a row holding one column with n tiles, ids starting at 1
func rowWithColumn(n int) *Row {
	r := newTestRow()
	r.AddTile(-1, newTestTile(r, 1), true, nil, false)
	for i := 2; i <= n; i++ {
		r.AddTileToColumn(0, -1, newTestTile(r, WindowID(i)), true)
	}
	return r
}

func tileHeights(c *Column) []float64 {
	res := make([]float64, 0, c.Len())
	for _, t := range c.Tiles() {
		res = append(res, t.TileSize().H)
	}
	return res
}

func TestColumnAutoHeightsFollowWeights(t *testing.T) {
	r := rowWithColumn(3)
	col := r.columns[0]
	col.data[1].height = HeightAuto(2)
	col.updateTileSizes(false)

	want := []float64{234, 468, 234}
	got := tileHeights(col)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tile %d: expected height %v, got %v", i, want[i], got[i])
		}
	}
	for _, tile := range col.Tiles() {
		if w := tile.TileSize().W; w != 936 {
			t.Errorf("expected tile width 936, got %v", w)
		}
	}
	mustValidRow(t, r)
}

func TestColumnFixedHeightLeavesRestToAuto(t *testing.T) {
	r := rowWithColumn(2)
	col := r.columns[0]
	col.SetWindowHeight(0, SizeChange{Kind: SET_FIXED, Value: 300}, false)

	got := tileHeights(col)
	if got[0] != 300 || got[1] != 652 {
		t.Errorf("expected heights [300 652], got %v", got)
	}
	if !col.data[1].height.IsAuto() {
		t.Errorf("second tile should have stayed auto, got %v", col.data[1].height)
	}
}

func TestColumnFixedHeightCappedByOthersMinimum(t *testing.T) {
	r := rowWithColumn(2)
	col := r.columns[0]
	testWindowOf(col.tiles[1]).minSize.H = 400
	col.SetWindowHeight(0, SizeChange{Kind: SET_FIXED, Value: 900}, false)

	got := tileHeights(col)
	// 1000 - 3 gaps leaves 952, of which the auto tile needs 400
	if got[0] != 552 || got[1] != 400 {
		t.Errorf("expected heights [552 400], got %v", got)
	}
}

func TestColumnMinHeightGetsPinned(t *testing.T) {
	r := rowWithColumn(3)
	col := r.columns[0]
	testWindowOf(col.tiles[0]).minSize.H = 500
	col.updateTileSizes(false)

	got := tileHeights(col)
	want := []float64{500, 218, 218}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tile %d: expected height %v, got %v", i, want[i], got[i])
		}
	}
}

func TestColumnRemoveLastButOneResetsToAuto(t *testing.T) {
	r := rowWithColumn(2)
	col := r.columns[0]
	col.SetWindowHeight(1, SizeChange{Kind: SET_FIXED, Value: 300}, false)
	col.RemoveTileByIdx(0)

	if col.Len() != 1 {
		t.Fatalf("expected 1 tile, got %d", col.Len())
	}
	if !col.data[0].height.IsAuto() {
		t.Errorf("lone tile should be auto, got %v", col.data[0].height)
	}
	if h := col.tiles[0].TileSize().H; h != 968 {
		t.Errorf("lone tile should fill the column, got height %v", h)
	}
}

func TestColumnActiveIndexFollowsInsertAndRemove(t *testing.T) {
	r := rowWithColumn(3)
	col := r.columns[0]
	if col.ActiveTileIdx() != 2 {
		t.Fatalf("expected last added tile active, got %d", col.ActiveTileIdx())
	}
	col.ActivateIdx(1)
	col.AddTileAt(0, newTestTile(r, 4), false)
	if col.ActiveTile().ID() != 2 {
		t.Errorf("active tile should stay window 2, got %v", col.ActiveTile().ID())
	}
	col.RemoveTileByIdx(0)
	col.RemoveTileByIdx(0)
	if col.ActiveTile().ID() != 2 {
		t.Errorf("active tile should still be window 2, got %v", col.ActiveTile().ID())
	}
	col.RemoveTileByIdx(0)
	if col.ActiveTileIdx() != 0 || col.ActiveTile().ID() != 3 {
		t.Errorf("expected window 3 active at 0, got %v at %d", col.ActiveTile().ID(), col.ActiveTileIdx())
	}
}

func TestColumnMoveTiles(t *testing.T) {
	r := rowWithColumn(3)
	col := r.columns[0]
	col.ActivateIdx(0)
	if !col.MoveDown() {
		t.Fatalf("move down failed")
	}
	ids := []WindowID{col.tiles[0].ID(), col.tiles[1].ID(), col.tiles[2].ID()}
	if ids[0] != 2 || ids[1] != 1 || ids[2] != 3 {
		t.Errorf("unexpected order %v", ids)
	}
	if col.ActiveTile().ID() != 1 {
		t.Errorf("moved tile should stay active")
	}
	col.ActivateIdx(0)
	if col.MoveUp() {
		t.Errorf("top tile can't move up")
	}
}

func TestColumnTabbedSharesHeight(t *testing.T) {
	r := rowWithColumn(3)
	col := r.columns[0]
	col.SetDisplayMode(DISPLAY_TABBED)
	for i, h := range tileHeights(col) {
		if h != 968 {
			t.Errorf("tab %d: expected full height 968, got %v", i, h)
		}
	}
	offs := col.TileOffsets()
	if offs[0].Y != offs[2].Y {
		t.Errorf("tabs should share their position, got %v and %v", offs[0], offs[2])
	}
}

func TestColumnOffsetsStackWithGaps(t *testing.T) {
	r := rowWithColumn(2)
	col := r.columns[0]
	offs := col.TileOffsets()
	if len(offs) != 3 {
		t.Fatalf("expected 3 offsets, got %d", len(offs))
	}
	// Two tiles of 476 with a gap in between
	if offs[0].Y != 0 || offs[1].Y != 492 || offs[2].Y != 984 {
		t.Errorf("unexpected offsets %v", offs)
	}
	if o := col.tilesOrigin(); o.Y != 16 {
		t.Errorf("expected tiles to start one gap down, got %v", o)
	}
}

func TestColumnToggleWindowHeightCyclesPresets(t *testing.T) {
	r := rowWithColumn(2)
	col := r.columns[0]
	col.ToggleWindowHeight(0, true)
	if h := col.tiles[0].TileSize().H; h != 200 {
		t.Errorf("expected first preset 200, got %v", h)
	}
	col.ToggleWindowHeight(0, true)
	if h := col.tiles[0].TileSize().H; h != 400 {
		t.Errorf("expected second preset 400, got %v", h)
	}
}

func TestColumnWidthChanges(t *testing.T) {
	r := rowWithColumn(1)
	col := r.columns[0]
	col.SetColumnWidth(SizeChange{Kind: SET_FIXED, Value: 700}, false)
	if w := col.Width(); w != 700 {
		t.Errorf("expected width 700, got %v", w)
	}
	col.SetColumnWidth(SizeChange{Kind: ADJUST_FIXED, Value: 50}, false)
	if w := col.Width(); w != 750 {
		t.Errorf("expected width 750, got %v", w)
	}
	col.ToggleFullWidth()
	if w := col.Width(); w != 1888 {
		t.Errorf("expected full width 1888, got %v", w)
	}
}

func renderPositions(r *Row) map[WindowID]generaldata.Point {
	res := make(map[WindowID]generaldata.Point)
	for _, p := range r.TilesWithRenderPositions() {
		res[p.Tile.ID()] = p.Pos
	}
	return res
}

// heldColumn returns a row with one column of three tiles whose windows wait for commit
func heldColumn() (*Row, []*testWindow) {
	r := rowWithColumn(3)
	syncTiles(r)
	var wins []*testWindow
	for _, tile := range r.columns[0].Tiles() {
		w := testWindowOf(tile)
		w.holdCommits = true
		wins = append(wins, w)
	}
	return r, wins
}

func TestColumnResizeWaitsForEveryWindow(t *testing.T) {
	r, wins := heldColumn()
	before := renderPositions(r)

	r.columns[0].SetWindowHeight(0, SizeChange{Kind: SET_FIXED, Value: 200}, false)
	for i, w := range wins {
		if w.pendingSize == nil {
			t.Fatalf("window %d got no size request", i+1)
		}
	}

	for i, w := range wins[:2] {
		w.commit()
		r.UpdateWindow(w.id)
		if !r.columns[0].tiles[i].IsTransactionPending() {
			t.Errorf("tile %d should wait for the rest of the column", i+1)
		}
		for id, pos := range renderPositions(r) {
			if pos != before[id] {
				t.Errorf("after %d commits window %v moved from %v to %v", i+1, id, before[id], pos)
			}
		}
	}

	wins[2].commit()
	r.UpdateWindow(wins[2].id)
	for _, tile := range r.columns[0].Tiles() {
		if tile.IsTransactionPending() {
			t.Errorf("window %v still waits after the last commit", tile.ID())
		}
	}
	after := renderPositions(r)
	if after[1] != before[1] {
		t.Errorf("the top tile should stay at %v, got %v", before[1], after[1])
	}
	if want := after[1].Y + 200 + 16; !approx(after[2].Y, want) {
		t.Errorf("expected window 2 at y %v, got %v", want, after[2].Y)
	}
	if want := after[2].Y + wins[1].size.H + 16; !approx(after[3].Y, want) {
		t.Errorf("expected window 3 at y %v, got %v", want, after[3].Y)
	}
	mustValidRow(t, r)
}

func TestColumnResizeTransactionTimesOut(t *testing.T) {
	r, wins := heldColumn()
	before := renderPositions(r)

	r.columns[0].SetWindowHeight(0, SizeChange{Kind: SET_FIXED, Value: 200}, false)
	wins[0].commit()
	r.UpdateWindow(wins[0].id)
	if got := renderPositions(r)[2]; got != before[2] {
		t.Errorf("window 2 should wait at %v, got %v", before[2], got)
	}

	// The other windows never answer
	r.clock.Advance(transactionTimeout)
	if got := renderPositions(r)[2]; !approx(got.Y, before[1].Y+200+16) {
		t.Errorf("window 2 should be placed below the resized tile after the timeout, got %v", got)
	}
}

func TestColumnResizeWithoutTransactionPlacesRightAway(t *testing.T) {
	r := rowWithColumn(3)
	syncTiles(r)
	renderPositions(r)
	r.columns[0].SetWindowHeight(0, SizeChange{Kind: SET_FIXED, Value: 200}, false)
	syncTiles(r)
	if r.columns[0].tiles[1].IsTransactionPending() {
		t.Errorf("windows that apply sizes right away never hold a transaction")
	}
	got := renderPositions(r)
	if !approx(got[2].Y, got[1].Y+200+16) {
		t.Errorf("expected window 2 right below the resized tile, got %v", got[2])
	}
}
