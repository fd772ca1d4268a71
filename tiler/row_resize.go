// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"math"

	"github.com/sirupsen/logrus"
	generaldata "github.com/veighnsche/niri-sub001/general-data"
)

// ResizeEdge is a set of window edges being dragged
type ResizeEdge uint8

const (
	RESIZE_EDGE_TOP = ResizeEdge(1 << iota)
	RESIZE_EDGE_BOTTOM
	RESIZE_EDGE_LEFT
	RESIZE_EDGE_RIGHT
)

func (e ResizeEdge) Has(o ResizeEdge) bool {
	return e&o != 0
}

func (e ResizeEdge) horizontal() bool {
	return e.Has(RESIZE_EDGE_LEFT) || e.Has(RESIZE_EDGE_RIGHT)
}

func (e ResizeEdge) vertical() bool {
	return e.Has(RESIZE_EDGE_TOP) || e.Has(RESIZE_EDGE_BOTTOM)
}

type rowResize struct {
	window             WindowID
	edges              ResizeEdge
	originalWindowSize generaldata.Size
}

// InteractiveResizeBegin starts resizing a tiled window by dragging its edges
func (r *Row) InteractiveResizeBegin(id WindowID, edges ResizeEdge) bool {
	if r.interactiveResize != nil || r.viewOffset.IsGesture() {
		return false
	}
	colIdx, tileIdx, ok := r.find(id)
	if !ok {
		return false
	}
	col := r.columns[colIdx]
	if !col.SizingMode().IsNormal() {
		return false
	}
	if edges == 0 {
		return false
	}
	r.interactiveResize = &rowResize{
		window:             id,
		edges:              edges,
		originalWindowSize: col.tiles[tileIdx].WindowSize(),
	}
	logrus.WithFields(logrus.Fields{
		"window": id,
		"edges":  edges,
	}).Debugln("Interactive resize started")
	return true
}

// InteractiveResizeUpdate applies the pointer movement since the resize started
func (r *Row) InteractiveResizeUpdate(id WindowID, delta generaldata.Point) bool {
	resize := r.interactiveResize
	if resize == nil || resize.window != id {
		return false
	}
	colIdx, tileIdx, ok := r.find(id)
	if !ok {
		r.interactiveResize = nil
		return false
	}
	col := r.columns[colIdx]
	tile := col.tiles[tileIdx]

	if resize.edges.horizontal() {
		dx := delta.X
		if resize.edges.Has(RESIZE_EDGE_LEFT) {
			dx = -dx
		}
		// A centered column grows on both sides
		if r.isCenteringFocusedColumn() {
			dx *= 2
		}
		w := math.Max(resize.originalWindowSize.W+dx, 1)
		prev := r.data[colIdx].width
		col.SetColumnWidth(SizeChange{Kind: SET_FIXED, Value: tile.TileWidthForWindowWidth(w)}, false)
		r.columnResized(colIdx, prev)
	}
	if resize.edges.vertical() {
		dy := delta.Y
		if resize.edges.Has(RESIZE_EDGE_TOP) {
			dy = -dy
		}
		h := math.Max(resize.originalWindowSize.H+dy, 1)
		col.SetWindowHeight(tileIdx, SizeChange{Kind: SET_FIXED, Value: tile.TileHeightForWindowHeight(h)}, false)
	}
	return true
}

// InteractiveResizeEnd finishes the resize and makes sure the column is visible
func (r *Row) InteractiveResizeEnd(id WindowID) bool {
	resize := r.interactiveResize
	if resize == nil || (id != 0 && resize.window != id) {
		return false
	}
	r.interactiveResize = nil
	if colIdx, _, ok := r.find(resize.window); ok && colIdx == r.activeColumnIdx {
		r.animateViewOffsetToColumn(nil, colIdx, -1)
	}
	return true
}

func (r *Row) IsInteractiveResizeOngoing() bool {
	return r.interactiveResize != nil
}

// InsertPosition returns where a window dropped at pos, relative to the view, would end up
func (r *Row) InsertPosition(pos generaldata.Point) InsertPosition {
	if len(r.columns) == 0 {
		return InsertPosition{Kind: INSERT_NEW_COLUMN}
	}
	// Aim for the middle of the gaps
	x := pos.X + r.ViewPos() + r.options.Gaps/2
	y := pos.Y + r.options.Gaps/2
	if x < 0 {
		return InsertPosition{Kind: INSERT_NEW_COLUMN}
	}

	xs := r.columnXs()
	closest, closestDist := 0, math.Inf(1)
	containing := 0
	for i, cx := range xs {
		if d := math.Abs(cx - x); d < closestDist {
			closest, closestDist = i, d
		}
		if cx <= x {
			containing = i
		}
	}
	if containing == len(r.columns) {
		return InsertPosition{Kind: INSERT_NEW_COLUMN, Column: closest}
	}

	col := r.columns[containing]
	origin := col.tilesOrigin()
	closestTile, tileDist := 0, math.Inf(1)
	for i, off := range col.TileOffsets() {
		if d := math.Abs(origin.Y + off.Y - y); d < tileDist {
			closestTile, tileDist = i, d
		}
	}
	if closestDist <= tileDist {
		return InsertPosition{Kind: INSERT_NEW_COLUMN, Column: closest}
	}
	return InsertPosition{Kind: INSERT_IN_COLUMN, Column: containing, Tile: closestTile}
}

// InsertHintArea is the rectangle, relative to the view, that shows where a drop at pos would go
func (r *Row) InsertHintArea(pos InsertPosition) (generaldata.Rectangle, bool) {
	gaps := r.options.Gaps
	area := r.workingArea
	viewPos := r.ViewPos()
	switch pos.Kind {
	case INSERT_NEW_COLUMN:
		height := math.Max(area.Size.H-2*gaps, 1)
		if len(r.columns) == 0 {
			w := r.defaultHintWidth()
			return generaldata.Rect(area.Loc.X+(area.Size.W-w)/2, area.Loc.Y+gaps, w, height), true
		}
		x := r.ColumnX(pos.Column) - viewPos - gaps/2 - insertHintWidth/2
		return generaldata.Rect(x, area.Loc.Y+gaps, insertHintWidth, height), true
	case INSERT_IN_COLUMN:
		if pos.Column < 0 || pos.Column >= len(r.columns) {
			return generaldata.Rectangle{}, false
		}
		col := r.columns[pos.Column]
		off := col.tileOffsetIn(pos.Tile)
		x := r.ColumnX(pos.Column) - viewPos
		y := off.Y - gaps/2 - insertHintWidth/2
		return generaldata.Rect(x, y, r.data[pos.Column].width, insertHintWidth), true
	}
	return generaldata.Rectangle{}, false
}

func (r *Row) defaultHintWidth() float64 {
	if r.options.DefaultColumnWidth != nil {
		return r.options.DefaultColumnWidth.Resolve(r.options, r.workingArea.Size.W)
	}
	return WidthProportion(0.5).Resolve(r.options, r.workingArea.Size.W)
}
