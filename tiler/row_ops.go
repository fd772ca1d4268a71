// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"github.com/sirupsen/logrus"
	generaldata "github.com/veighnsche/niri-sub001/general-data"
	"github.com/veighnsche/niri-sub001/util"
)

// moveColumnTo moves the active column to newIdx, keeping the camera in place
func (r *Row) moveColumnTo(newIdx int) bool {
	if len(r.columns) == 0 {
		return false
	}
	newIdx = util.Clamp(newIdx, 0, len(r.columns)-1)
	cur := r.activeColumnIdx
	if cur == newIdx {
		return false
	}
	currentColX := r.ColumnX(cur)
	nextColX := r.ColumnX(cur + 1)

	col := r.columns[cur]
	data := r.data[cur]
	if r.interactiveResize != nil && col.Contains(r.interactiveResize.window) {
		r.interactiveResize = nil
	}
	r.columns = append(r.columns[:cur], r.columns[cur+1:]...)
	r.data = append(r.data[:cur], r.data[cur+1:]...)
	r.columns = append(r.columns[:newIdx], append([]*Column{col}, r.columns[newIdx:]...)...)
	r.data = append(r.data[:newIdx], append([]columnData{data}, r.data[newIdx:]...)...)

	// Keep the camera where it is
	r.viewOffset.OffsetBy(currentColX - r.ColumnX(cur))

	r.columns[newIdx].AnimateMoveFrom(currentColX - r.ColumnX(newIdx))
	othersOffset := nextColX - currentColX
	if cur < newIdx {
		for _, c := range r.columns[cur:newIdx] {
			c.AnimateMoveFrom(othersOffset)
		}
	} else {
		for _, c := range r.columns[newIdx+1 : cur+1] {
			c.AnimateMoveFrom(-othersOffset)
		}
	}
	r.activateColumnWithConfig(newIdx, r.options.Animations.WindowMovement)
	return true
}

func (r *Row) MoveLeft() bool {
	return r.moveColumnTo(r.activeColumnIdx - 1)
}

func (r *Row) MoveRight() bool {
	return r.moveColumnTo(r.activeColumnIdx + 1)
}

func (r *Row) MoveColumnToFirst() bool {
	return r.moveColumnTo(0)
}

func (r *Row) MoveColumnToLast() bool {
	return r.moveColumnTo(len(r.columns) - 1)
}

// MoveColumnToIndex moves the active column to a 0-based index
func (r *Row) MoveColumnToIndex(idx int) bool {
	return r.moveColumnTo(idx)
}

func (r *Row) MoveUp() bool {
	if c := r.ActiveColumn(); c != nil {
		return c.MoveUp()
	}
	return false
}

func (r *Row) MoveDown() bool {
	if c := r.ActiveColumn(); c != nil {
		return c.MoveDown()
	}
	return false
}

// resolveTarget returns the column and tile of a window, or of the active tile for id 0
func (r *Row) resolveTarget(id WindowID) (col, tile int, ok bool) {
	if id == 0 {
		if len(r.columns) == 0 {
			return 0, 0, false
		}
		return r.activeColumnIdx, r.columns[r.activeColumnIdx].activeTileIdx, true
	}
	return r.find(id)
}

// ConsumeOrExpelWindowLeft moves a window into the column on its left,
// or out into its own column if it shares its column. id 0 is the active window.
func (r *Row) ConsumeOrExpelWindowLeft(id WindowID) bool {
	srcCol, srcTile, ok := r.resolveTarget(id)
	if !ok {
		return false
	}
	source := r.columns[srcCol]
	wasActive := r.activeColumnIdx == srcCol && source.activeTileIdx == srcTile
	prevPos := r.tilePos(srcCol, srcTile)

	if source.Len() == 1 {
		if srcCol == 0 {
			return false
		}
		tile := r.removeTileByIdx(srcCol, 0)
		target := srcCol - 1
		r.placeIntoColumn(tile, target, -1, wasActive, prevPos)
		if wasActive {
			// Added to the left, don't jump further left on removal
			r.activatePrevColumnOnRemoval = nil
		}
		return true
	}

	width, fullWidth := source.width, source.isFullWidth
	tile := r.removeTileByIdx(srcCol, srcTile)
	r.AddTile(srcCol, tile, wasActive, &width, fullWidth)
	if wasActive {
		r.activatePrevColumnOnRemoval = nil
	}
	tile.AnimateMoveFrom(prevPos.Sub(r.tilePos(srcCol, 0)))
	return true
}

// ConsumeOrExpelWindowRight moves a window into the column on its right,
// or out into its own column if it shares its column. id 0 is the active window.
func (r *Row) ConsumeOrExpelWindowRight(id WindowID) bool {
	srcCol, srcTile, ok := r.resolveTarget(id)
	if !ok {
		return false
	}
	source := r.columns[srcCol]
	wasActive := r.activeColumnIdx == srcCol && source.activeTileIdx == srcTile
	prevPos := r.tilePos(srcCol, srcTile)

	if source.Len() == 1 {
		if srcCol+1 == len(r.columns) {
			return false
		}
		tile := r.removeTileByIdx(srcCol, 0)
		// The column on the right moved into the source index
		r.placeIntoColumn(tile, srcCol, -1, wasActive, prevPos)
		return true
	}

	width, fullWidth := source.width, source.isFullWidth
	tile := r.removeTileByIdx(srcCol, srcTile)
	r.AddTile(srcCol+1, tile, wasActive, &width, fullWidth)
	tile.AnimateMoveFrom(prevPos.Sub(r.tilePos(srcCol+1, 0)))
	return true
}

// placeIntoColumn adds a tile that was at prevPos into an existing column and slides it from there
func (r *Row) placeIntoColumn(tile *Tile, colIdx, tileIdx int, activate bool, prevPos generaldata.Point) {
	col := r.columns[colIdx]
	if tileIdx < 0 {
		tileIdx = col.Len()
	}
	r.AddTileToColumn(colIdx, tileIdx, tile, activate)
	tile.AnimateMoveFrom(prevPos.Sub(r.tilePos(colIdx, tileIdx)))
}

// ConsumeIntoColumn pulls the first window of the column on the right into the active column
func (r *Row) ConsumeIntoColumn() bool {
	if len(r.columns) < 2 || r.activeColumnIdx+1 == len(r.columns) {
		return false
	}
	srcCol := r.activeColumnIdx + 1
	prevPos := r.tilePos(srcCol, 0)
	tile := r.removeTileByIdx(srcCol, 0)
	r.placeIntoColumn(tile, r.activeColumnIdx, -1, false, prevPos)
	return true
}

// ExpelFromColumn pushes the bottom window of the active column into its own column on the right
func (r *Row) ExpelFromColumn() bool {
	col := r.ActiveColumn()
	if col == nil || col.Len() < 2 {
		return false
	}
	srcCol := r.activeColumnIdx
	srcTile := col.Len() - 1
	prevPos := r.tilePos(srcCol, srcTile)
	tile := r.removeTileByIdx(srcCol, srcTile)
	r.AddTile(srcCol+1, tile, false, nil, false)
	tile.AnimateMoveFrom(prevPos.Sub(r.tilePos(srcCol+1, 0)))
	return true
}

// SwapWindowInDirection swaps the active window with the active window of the neighbouring column
func (r *Row) SwapWindowInDirection(right bool) bool {
	if len(r.columns) < 2 {
		return false
	}
	srcCol := r.activeColumnIdx
	dstCol := srcCol - 1
	if right {
		dstCol = srcCol + 1
	}
	if dstCol < 0 || dstCol >= len(r.columns) {
		return false
	}
	src, dst := r.columns[srcCol], r.columns[dstCol]
	srcTile, dstTile := src.activeTileIdx, dst.activeTileIdx
	srcPos, dstPos := r.tilePos(srcCol, srcTile), r.tilePos(dstCol, dstTile)

	srcWidth, dstWidth := r.data[srcCol].width, r.data[dstCol].width
	a := src.replaceTile(srcTile, dst.tiles[dstTile])
	b := dst.replaceTile(dstTile, a)
	r.columnResized(srcCol, srcWidth)
	r.columnResized(dstCol, dstWidth)

	a.AnimateMoveFrom(srcPos.Sub(r.tilePos(dstCol, dstTile)))
	b.AnimateMoveFrom(dstPos.Sub(r.tilePos(srcCol, srcTile)))
	r.ActivateColumn(dstCol)
	return true
}

// SetColumnWidth changes the width of the active column
func (r *Row) SetColumnWidth(change SizeChange) {
	col := r.ActiveColumn()
	if col == nil {
		return
	}
	prev := r.data[r.activeColumnIdx].width
	col.SetColumnWidth(change, true)
	r.afterActiveColumnResize(prev)
}

// SetWindowHeight changes the height of a window in the active column, id 0 being the active window
func (r *Row) SetWindowHeight(id WindowID, change SizeChange) {
	colIdx, tileIdx, ok := r.resolveTarget(id)
	if !ok {
		return
	}
	r.columns[colIdx].SetWindowHeight(tileIdx, change, true)
}

func (r *Row) ResetWindowHeight(id WindowID) {
	if colIdx, tileIdx, ok := r.resolveTarget(id); ok {
		r.columns[colIdx].ResetWindowHeight(tileIdx)
	}
}

func (r *Row) ToggleWindowHeight(id WindowID, forward bool) {
	if colIdx, tileIdx, ok := r.resolveTarget(id); ok {
		r.columns[colIdx].ToggleWindowHeight(tileIdx, forward)
	}
}

// ToggleWidth cycles the active column through the preset widths
func (r *Row) ToggleWidth(forward bool) {
	col := r.ActiveColumn()
	if col == nil {
		return
	}
	prev := r.data[r.activeColumnIdx].width
	col.ToggleWidth(forward)
	r.afterActiveColumnResize(prev)
}

func (r *Row) ToggleFullWidth() {
	col := r.ActiveColumn()
	if col == nil {
		return
	}
	prev := r.data[r.activeColumnIdx].width
	col.ToggleFullWidth()
	r.afterActiveColumnResize(prev)
}

func (r *Row) afterActiveColumnResize(prevWidth float64) {
	r.columnResized(r.activeColumnIdx, prevWidth)
	r.animateViewOffsetToColumn(nil, r.activeColumnIdx, -1)
}

// ToggleColumnTabbedDisplay switches the active column between normal and tabbed display
func (r *Row) ToggleColumnTabbedDisplay() {
	col := r.ActiveColumn()
	if col == nil {
		return
	}
	next := DISPLAY_TABBED
	if col.DisplayMode() == DISPLAY_TABBED {
		next = DISPLAY_NORMAL
	}
	r.SetColumnDisplay(next)
}

// SetColumnDisplay sets the display mode of the active column
func (r *Row) SetColumnDisplay(mode ColumnDisplay) {
	col := r.ActiveColumn()
	if col == nil {
		return
	}
	prev := r.data[r.activeColumnIdx].width
	// A normal column can't stay fullscreen with several tiles
	if mode == DISPLAY_NORMAL && col.Len() > 1 {
		col.isPendingFullscreen = false
		col.isPendingMaximized = false
	}
	col.SetDisplayMode(mode)
	r.columnResized(r.activeColumnIdx, prev)
}

// SetFullscreen makes the window's column fullscreen or not. A window that shares a normal
// column is first moved into its own column on the right.
func (r *Row) SetFullscreen(id WindowID, fullscreen bool) bool {
	colIdx, tileIdx, ok := r.resolveTarget(id)
	if !ok {
		return false
	}
	col := r.columns[colIdx]
	if col.IsPendingFullscreen() == fullscreen {
		return false
	}
	if fullscreen && col.Len() > 1 && col.DisplayMode() != DISPLAY_TABBED {
		r.ConsumeOrExpelWindowRight(col.tiles[tileIdx].ID())
		colIdx++
		col = r.columns[colIdx]
	}

	if fullscreen && colIdx == r.activeColumnIdx && col.SizingMode().IsNormal() {
		v := r.viewOffset.Stationary()
		r.viewOffsetToRestore = &v
	}
	logrus.WithFields(logrus.Fields{
		"row":        r.id,
		"column":     colIdx,
		"fullscreen": fullscreen,
	}).Debugln("Setting column fullscreen")

	prev := r.data[colIdx].width
	col.SetFullscreen(fullscreen)
	r.columnResized(colIdx, prev)
	if colIdx == r.activeColumnIdx {
		r.animateViewOffsetToColumn(nil, colIdx, -1)
	}
	return true
}

// SetMaximized makes the window's column maximized or not, moving it out of a shared column first
func (r *Row) SetMaximized(id WindowID, maximized bool) bool {
	colIdx, tileIdx, ok := r.resolveTarget(id)
	if !ok {
		return false
	}
	col := r.columns[colIdx]
	if col.IsPendingMaximized() == maximized {
		return false
	}
	if maximized && col.Len() > 1 && col.DisplayMode() != DISPLAY_TABBED {
		r.ConsumeOrExpelWindowRight(col.tiles[tileIdx].ID())
		colIdx++
		col = r.columns[colIdx]
	}
	prev := r.data[colIdx].width
	col.SetMaximized(maximized)
	r.columnResized(colIdx, prev)
	if colIdx == r.activeColumnIdx {
		r.animateViewOffsetToColumn(nil, colIdx, -1)
	}
	return true
}

func (r *Row) ToggleFullscreen(id WindowID) bool {
	colIdx, _, ok := r.resolveTarget(id)
	if !ok {
		return false
	}
	return r.SetFullscreen(id, !r.columns[colIdx].IsPendingFullscreen())
}

func (r *Row) ToggleMaximized(id WindowID) bool {
	colIdx, _, ok := r.resolveTarget(id)
	if !ok {
		return false
	}
	return r.SetMaximized(id, !r.columns[colIdx].IsPendingMaximized())
}
