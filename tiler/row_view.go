// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"math"

	"github.com/veighnsche/niri-sub001/animation"
	"github.com/veighnsche/niri-sub001/util"
)

// computeNewViewOffset returns the offset, relative to the column, that shows the column in a view
// starting at curX. The view only moves if the column isn't fully visible already.
func computeNewViewOffset(curX, viewWidth, newColX, newColWidth, gaps float64) float64 {
	// Columns wider than the view are left aligned
	if viewWidth <= newColWidth {
		return 0
	}
	padding := util.Clamp((viewWidth-newColWidth)/2, 0, gaps)
	newX := newColX - padding
	newRightX := newColX + newColWidth + padding

	if curX <= newX && newRightX <= curX+viewWidth {
		return -(newColX - curX)
	}

	distToLeft := math.Abs(curX - newX)
	distToRight := math.Abs((curX + viewWidth) - newRightX)
	if distToLeft <= distToRight {
		return -padding
	}
	return -(viewWidth - padding - newColWidth)
}

func (r *Row) computeNewViewOffsetFit(targetX *float64, colX, width float64, mode SizingMode) float64 {
	if mode.IsFullscreen() {
		return 0
	}
	area, padding := r.workingArea, r.options.Gaps
	if mode.IsMaximized() {
		area, padding = r.parentArea, 0
	}
	target := r.TargetViewPos()
	if targetX != nil {
		target = *targetX
	}
	// Non-fullscreen columns are always offset at least by the working area position
	return computeNewViewOffset(target+area.Loc.X, area.Size.W, colX, width, padding) - area.Loc.X
}

func (r *Row) computeNewViewOffsetCentered(targetX *float64, colX, width float64, mode SizingMode) float64 {
	if mode.IsFullscreen() {
		return r.computeNewViewOffsetFit(targetX, colX, width, mode)
	}
	area := r.workingArea
	if mode.IsMaximized() {
		area = r.parentArea
	}
	if area.Size.W <= width {
		return r.computeNewViewOffsetFit(targetX, colX, width, mode)
	}
	return -(area.Size.W-width)/2 - area.Loc.X
}

func (r *Row) isCenteringFocusedColumn() bool {
	return r.options.CenterFocusedColumn == CENTER_ALWAYS ||
		(r.options.AlwaysCenterSingleColumn && len(r.columns) <= 1)
}

// computeNewViewOffsetForColumn picks the view offset for showing the column at idx.
// prevIdx is the column focus comes from, negative if unknown.
func (r *Row) computeNewViewOffsetForColumn(targetX *float64, idx, prevIdx int) float64 {
	if len(r.columns) == 0 {
		return 0
	}
	idx = util.Clamp(idx, 0, len(r.columns)-1)
	col := r.columns[idx]
	colX := r.ColumnX(idx)
	width := r.data[idx].width
	mode := col.SizingMode()

	if r.isCenteringFocusedColumn() {
		return r.computeNewViewOffsetCentered(targetX, colX, width, mode)
	}
	if r.options.CenterFocusedColumn != CENTER_ON_OVERFLOW || prevIdx < 0 {
		return r.computeNewViewOffsetFit(targetX, colX, width, mode)
	}

	// Always compare against the neighbour on the side focus came from
	var sourceIdx int
	if prevIdx > idx {
		sourceIdx = min(idx+1, len(r.columns)-1)
	} else {
		sourceIdx = max(idx-1, 0)
	}
	sourceX := r.ColumnX(sourceIdx)
	sourceWidth := r.data[sourceIdx].width
	var total float64
	if sourceX < colX {
		total = colX - sourceX + width
	} else {
		total = sourceX - colX + sourceWidth
	}
	total += 2 * r.options.Gaps

	if total <= r.workingArea.Size.W {
		return r.computeNewViewOffsetFit(targetX, colX, width, mode)
	}
	return r.computeNewViewOffsetCentered(targetX, colX, width, mode)
}

// animateViewOffset moves the view to newViewOffset relative to the column at idx
func (r *Row) animateViewOffset(idx int, newViewOffset float64) {
	r.animateViewOffsetWithConfig(idx, newViewOffset, r.options.Animations.HorizontalViewMovement)
}

func (r *Row) animateViewOffsetWithConfig(idx int, newViewOffset float64, cfg animation.Config) {
	newColX := r.ColumnX(idx)
	oldColX := r.ColumnX(r.activeColumnIdx)
	r.viewOffset.OffsetBy(oldColX - newColX)

	if g := r.viewOffset.gesture; r.viewOffset.IsDndScroll() {
		g.stationaryViewOffset = newViewOffset
		currentPos := g.currentViewOffset - g.deltaFromTracker
		g.deltaFromTracker = newViewOffset - currentPos
		delta := newViewOffset - g.currentViewOffset
		g.currentViewOffset = newViewOffset
		g.animateFrom(-delta, r.clock, cfg)
		return
	}

	pixel := 1 / r.scale
	toDiff := newViewOffset - r.viewOffset.Target()
	if math.Abs(toDiff) < pixel {
		// Already there or heading there, only fix up the rounding
		r.viewOffset.OffsetBy(toDiff)
		return
	}
	r.viewOffset = animatedViewOffset(animation.New(r.clock, r.viewOffset.Current(), newViewOffset, 0, cfg))
}

func (r *Row) animateViewOffsetToColumn(targetX *float64, idx, prevIdx int) {
	r.animateViewOffsetToColumnWithConfig(targetX, idx, prevIdx, r.options.Animations.HorizontalViewMovement)
}

func (r *Row) animateViewOffsetToColumnWithConfig(targetX *float64, idx, prevIdx int, cfg animation.Config) {
	if len(r.columns) == 0 {
		return
	}
	r.animateViewOffsetWithConfig(idx, r.computeNewViewOffsetForColumn(targetX, idx, prevIdx), cfg)
}

func (r *Row) animateViewOffsetToColumnCentered(targetX *float64, idx int) {
	if len(r.columns) == 0 {
		return
	}
	col := r.columns[idx]
	offset := r.computeNewViewOffsetCentered(targetX, r.ColumnX(idx), r.data[idx].width, col.SizingMode())
	r.animateViewOffset(idx, offset)
}

// ActivateColumn focuses a column and scrolls it into view
func (r *Row) ActivateColumn(idx int) bool {
	return r.activateColumnWithConfig(idx, r.options.Animations.HorizontalViewMovement)
}

func (r *Row) activateColumnWithConfig(idx int, cfg animation.Config) bool {
	if idx < 0 || idx >= len(r.columns) {
		return false
	}
	// During a drag-and-drop scroll the view animates even to the same column
	if r.activeColumnIdx == idx && !r.viewOffset.IsDndScroll() {
		return false
	}
	r.animateViewOffsetToColumnWithConfig(nil, idx, r.activeColumnIdx, cfg)
	if r.activeColumnIdx != idx {
		r.activeColumnIdx = idx
		r.activatePrevColumnOnRemoval = nil
		r.viewOffsetToRestore = nil
		r.interactiveResize = nil
	}
	return true
}

// ActivateWindow focuses the window's tile and column
func (r *Row) ActivateWindow(id WindowID) bool {
	colIdx, tileIdx, ok := r.find(id)
	if !ok {
		return false
	}
	r.columns[colIdx].ActivateIdx(tileIdx)
	r.ActivateColumn(colIdx)
	return true
}

func (r *Row) FocusLeft() bool {
	return r.ActivateColumn(r.activeColumnIdx - 1)
}

func (r *Row) FocusRight() bool {
	return r.ActivateColumn(r.activeColumnIdx + 1)
}

func (r *Row) FocusColumnFirst() bool {
	return r.ActivateColumn(0)
}

func (r *Row) FocusColumnLast() bool {
	return r.ActivateColumn(len(r.columns) - 1)
}

// FocusColumnIndex focuses the column at a 0-based index, clamped to the existing ones
func (r *Row) FocusColumnIndex(idx int) bool {
	if len(r.columns) == 0 {
		return false
	}
	return r.ActivateColumn(util.Clamp(idx, 0, len(r.columns)-1))
}

// FocusRightOrFirst wraps around to the first column
func (r *Row) FocusRightOrFirst() bool {
	if len(r.columns) == 0 {
		return false
	}
	if r.activeColumnIdx+1 == len(r.columns) {
		return r.ActivateColumn(0)
	}
	return r.FocusRight()
}

// FocusLeftOrLast wraps around to the last column
func (r *Row) FocusLeftOrLast() bool {
	if len(r.columns) == 0 {
		return false
	}
	if r.activeColumnIdx == 0 {
		return r.ActivateColumn(len(r.columns) - 1)
	}
	return r.FocusLeft()
}

func (r *Row) FocusUp() bool {
	if c := r.ActiveColumn(); c != nil {
		return c.FocusUp()
	}
	return false
}

func (r *Row) FocusDown() bool {
	if c := r.ActiveColumn(); c != nil {
		return c.FocusDown()
	}
	return false
}

// FocusWindowInColumn focuses the tile at a 0-based index in the active column
func (r *Row) FocusWindowInColumn(idx int) bool {
	if c := r.ActiveColumn(); c != nil {
		return c.ActivateIdx(util.Clamp(idx, 0, c.Len()-1))
	}
	return false
}

// CenterColumn scrolls the active column to the middle of the view
func (r *Row) CenterColumn() {
	if len(r.columns) == 0 {
		return
	}
	r.animateViewOffsetToColumnCentered(nil, r.activeColumnIdx)
	r.interactiveResize = nil
}

// CenterWindow centers the column of a window, activating it
func (r *Row) CenterWindow(id WindowID) bool {
	if !r.ActivateWindow(id) {
		return false
	}
	r.CenterColumn()
	return true
}

// CenterVisibleColumns centers the group of columns that are fully visible
func (r *Row) CenterVisibleColumns() bool {
	if len(r.columns) == 0 || r.viewOffset.IsGesture() {
		return false
	}
	area := r.workingArea
	viewPos := r.TargetViewPos() + area.Loc.X
	first, last := -1, -1
	for i := range r.columns {
		x := r.ColumnX(i)
		if x >= viewPos && x+r.data[i].width <= viewPos+area.Size.W {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return false
	}
	left := r.ColumnX(first)
	total := r.ColumnX(last) + r.data[last].width - left
	if total > area.Size.W {
		return false
	}
	newViewPos := left - (area.Size.W-total)/2 - area.Loc.X
	r.animateViewOffset(r.activeColumnIdx, newViewPos-r.ColumnX(r.activeColumnIdx))
	return true
}
