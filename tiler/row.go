// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/veighnsche/niri-sub001/animation"
	"github.com/veighnsche/niri-sub001/config"
	generaldata "github.com/veighnsche/niri-sub001/general-data"
)

// RowID stays the same for the whole lifetime of a row, unlike its index
type RowID uint64

func (id RowID) String() string {
	return fmt.Sprintf("row-%d", uint64(id))
}

var rowIDCounter atomic.Uint64

type columnData struct {
	// Cached column width
	width float64
}

// Row is a horizontally scrolling strip of columns
type Row struct {
	id   RowID
	idx  int
	name string

	columns         []*Column
	data            []columnData
	activeColumnIdx int

	viewOffset ViewOffset
	// Stationary view offset to go back to if the active column, opened right of the
	// previously active one, is removed right away
	activatePrevColumnOnRemoval *float64
	// View offset from before the active column went fullscreen
	viewOffsetToRestore *float64

	interactiveResize *rowResize

	outputName string
	// Output the row was created on, rows go back there when it reappears
	originalOutput string

	viewSize    generaldata.Size
	parentArea  generaldata.Rectangle
	workingArea generaldata.Rectangle
	scale       float64
	clock       *animation.Clock
	baseOptions *Options
	options     *Options
}

// NewRow creates an empty row at the given canvas index
func NewRow(idx int, output OutputInfo, clock *animation.Clock, options *Options) *Row {
	r := &Row{
		id:             RowID(rowIDCounter.Add(1)),
		idx:            idx,
		outputName:     output.Name,
		originalOutput: output.Name,
		clock:          clock,
		viewOffset:     staticViewOffset(0),
	}
	r.applyOutput(output, options)
	return r
}

func (r *Row) ID() RowID {
	return r.id
}

func (r *Row) Idx() int {
	return r.idx
}

func (r *Row) Name() string {
	return r.name
}

func (r *Row) SetName(name string) {
	r.name = name
}

func (r *Row) OutputName() string {
	return r.outputName
}

func (r *Row) OriginalOutput() string {
	return r.originalOutput
}

func (r *Row) IsEmpty() bool {
	return len(r.columns) == 0
}

func (r *Row) Columns() []*Column {
	return r.columns
}

func (r *Row) ActiveColumnIdx() int {
	return r.activeColumnIdx
}

func (r *Row) ActiveColumn() *Column {
	if len(r.columns) == 0 {
		return nil
	}
	return r.columns[r.activeColumnIdx]
}

func (r *Row) ActiveTile() *Tile {
	if c := r.ActiveColumn(); c != nil {
		return c.ActiveTile()
	}
	return nil
}

func (r *Row) ViewOffset() *ViewOffset {
	return &r.viewOffset
}

func (r *Row) WorkingArea() generaldata.Rectangle {
	return r.workingArea
}

func (r *Row) ViewSize() generaldata.Size {
	return r.viewSize
}

func (r *Row) Options() *Options {
	return r.options
}

// Tiles returns every tile of the row, column by column
func (r *Row) Tiles() []*Tile {
	var res []*Tile
	for _, c := range r.columns {
		res = append(res, c.tiles...)
	}
	return res
}

func (r *Row) HasWindow(id WindowID) bool {
	_, _, ok := r.find(id)
	return ok
}

// find returns the column and tile index of a window
func (r *Row) find(id WindowID) (col, tile int, ok bool) {
	for i, c := range r.columns {
		if j := c.Position(id); j >= 0 {
			return i, j, true
		}
	}
	return 0, 0, false
}

func (r *Row) FindTile(id WindowID) *Tile {
	if ci, ti, ok := r.find(id); ok {
		return r.columns[ci].tiles[ti]
	}
	return nil
}

// computeWorkingArea shrinks the parent area by the struts, rounded to physical pixels
func computeWorkingArea(parent generaldata.Rectangle, scale float64, struts config.Struts) generaldata.Rectangle {
	area := parent
	area.Loc.X += struts.Left
	area.Loc.Y += struts.Top
	area.Size.W = math.Max(area.Size.W-struts.Left-struts.Right, 0)
	area.Size.H = math.Max(area.Size.H-struts.Top-struts.Bottom, 0)
	area.Loc = area.Loc.ToPhysicalPrecise(scale)
	area.Size.W = generaldata.RoundLogicalInPhysical(scale, area.Size.W)
	area.Size.H = generaldata.RoundLogicalInPhysical(scale, area.Size.H)
	return area
}

func (r *Row) applyOutput(output OutputInfo, options *Options) {
	r.viewSize = output.Size
	r.parentArea = output.usableArea()
	r.scale = output.scale()
	r.baseOptions = options
	r.options = options.AdjustedForScale(r.scale)
	r.workingArea = computeWorkingArea(r.parentArea, r.scale, r.options.Struts)
}

// UpdateConfig applies new output geometry or options to the row and everything in it
func (r *Row) UpdateConfig(output OutputInfo, options *Options) {
	r.outputName = output.Name
	r.applyOutput(output, options)
	for i, c := range r.columns {
		c.UpdateConfig(r.viewSize, r.workingArea, r.parentArea, r.scale, r.options)
		r.data[i].width = c.Width()
	}
	if len(r.columns) > 0 && r.viewOffset.IsStatic() {
		r.viewOffset = staticViewOffset(r.computeNewViewOffsetForColumn(nil, r.activeColumnIdx, -1))
	}
	if r.interactiveResize != nil && !r.HasWindow(r.interactiveResize.window) {
		r.interactiveResize = nil
	}
	r.updateWindowBounds()
}

// ColumnX is the x of a column in row space, the first column starting at 0
func (r *Row) ColumnX(idx int) float64 {
	x := 0.0
	for i := 0; i < idx && i < len(r.data); i++ {
		x += r.data[i].width + r.options.Gaps
	}
	return x
}

// columnXs lists the x of every column plus the x right past the last one
func (r *Row) columnXs() []float64 {
	res := make([]float64, 0, len(r.data)+1)
	x := 0.0
	for _, d := range r.data {
		res = append(res, x)
		x += d.width + r.options.Gaps
	}
	return append(res, x)
}

// ViewPos is the x of the left view edge in row space
func (r *Row) ViewPos() float64 {
	return r.ColumnX(r.activeColumnIdx) + r.viewOffset.Current()
}

// TargetViewPos is the x the left view edge is heading to
func (r *Row) TargetViewPos() float64 {
	return r.ColumnX(r.activeColumnIdx) + r.viewOffset.Target()
}

// tilePos is the position of a tile in row space
func (r *Row) tilePos(colIdx, tileIdx int) generaldata.Point {
	return generaldata.Point{X: r.ColumnX(colIdx)}.Add(r.columns[colIdx].tileOffsetIn(tileIdx))
}

func (r *Row) defaultWidthFor(tile *Tile) ColumnWidth {
	if p := tile.rules().DefaultColumnWidth; p != nil && p.IsSet() {
		return columnWidthFromPreset(*p)
	}
	if r.options.DefaultColumnWidth != nil {
		return *r.options.DefaultColumnWidth
	}
	if w := tile.TileSize().W; w > 1 {
		return WidthFixed(w)
	}
	return WidthProportion(0.5)
}

// AddTile puts a tile into a new column at idx, a negative idx meaning right of the active column.
// A nil width picks the default width for the window.
func (r *Row) AddTile(idx int, tile *Tile, activate bool, width *ColumnWidth, isFullWidth bool) {
	w := r.defaultWidthFor(tile)
	if width != nil {
		w = *width
	}
	r.AddColumn(idx, newColumn(tile, r, w, isFullWidth), activate)
}

// AddTileRightOf opens the tile in a new column right of the column holding another window
func (r *Row) AddTileRightOf(rightOf WindowID, tile *Tile, activate bool, width *ColumnWidth, isFullWidth bool) bool {
	colIdx, _, ok := r.find(rightOf)
	if !ok {
		return false
	}
	r.AddTile(colIdx+1, tile, activate, width, isFullWidth)
	return true
}

// AddTileToColumn adds a tile to an existing column, a negative tileIdx meaning at the bottom
func (r *Row) AddTileToColumn(colIdx, tileIdx int, tile *Tile, activate bool) {
	if colIdx < 0 || colIdx >= len(r.columns) {
		r.AddTile(-1, tile, activate, nil, false)
		return
	}
	col := r.columns[colIdx]
	if tileIdx < 0 || tileIdx > col.Len() {
		tileIdx = col.Len()
	}
	prevWidth := r.data[colIdx].width
	col.AddTileAt(tileIdx, tile, true)
	// A fullscreen column can't hold more than one tile unless it is tabbed
	if col.Len() > 1 && col.DisplayMode() != DISPLAY_TABBED {
		col.isPendingFullscreen = false
		col.isPendingMaximized = false
		col.updateTileSizes(true)
	}
	r.columnResized(colIdx, prevWidth)
	if activate {
		col.ActivateIdx(tileIdx)
		r.ActivateColumn(colIdx)
	}
}

// AddColumn inserts a column, a negative idx meaning right of the active column
func (r *Row) AddColumn(idx int, col *Column, activate bool) {
	wasEmpty := len(r.columns) == 0
	if idx < 0 {
		if wasEmpty {
			idx = 0
		} else {
			idx = r.activeColumnIdx + 1
		}
	}
	idx = min(idx, len(r.columns))

	col.UpdateConfig(r.viewSize, r.workingArea, r.parentArea, r.scale, r.options)
	r.columns = append(r.columns, nil)
	copy(r.columns[idx+1:], r.columns[idx:])
	r.columns[idx] = col
	r.data = append(r.data, columnData{})
	copy(r.data[idx+1:], r.data[idx:])
	r.data[idx] = columnData{width: col.Width()}

	if !wasEmpty && idx <= r.activeColumnIdx {
		r.activeColumnIdx++
	}
	if activate {
		if wasEmpty {
			// Drop whatever offset was left over from before the row emptied
			r.viewOffset = staticViewOffset(0)
			r.viewOffset = staticViewOffset(r.computeNewViewOffsetForColumn(nil, idx, -1))
		}
		var prevOffset *float64
		if !wasEmpty && idx == r.activeColumnIdx+1 {
			v := r.viewOffset.Stationary()
			prevOffset = &v
		}
		r.ActivateColumn(idx)
		r.activatePrevColumnOnRemoval = prevOffset
	} else if wasEmpty {
		r.activeColumnIdx = 0
		r.viewOffset = staticViewOffset(r.computeNewViewOffsetForColumn(nil, 0, -1))
	}

	offset := r.ColumnX(idx+1) - r.ColumnX(idx)
	if r.activeColumnIdx <= idx {
		for _, c := range r.columns[idx+1:] {
			c.AnimateMoveFrom(-offset)
		}
	} else {
		for _, c := range r.columns[:idx] {
			c.AnimateMoveFrom(offset)
		}
	}
	r.updateWindowBounds()
	logrus.WithFields(logrus.Fields{
		"row":    r.id,
		"column": idx,
	}).Debugln("Added column")
}

// RemoveTile takes a window's tile out of the row, removing its column if it was the last tile
func (r *Row) RemoveTile(id WindowID) *Tile {
	colIdx, tileIdx, ok := r.find(id)
	if !ok {
		return nil
	}
	return r.removeTileByIdx(colIdx, tileIdx)
}

func (r *Row) removeTileByIdx(colIdx, tileIdx int) *Tile {
	col := r.columns[colIdx]
	if r.interactiveResize != nil && r.interactiveResize.window == col.tiles[tileIdx].ID() {
		r.interactiveResize = nil
	}
	if col.Len() == 1 {
		removed := r.RemoveColumnByIdx(colIdx)
		return removed.RemoveTileByIdx(0)
	}

	prevWidth := r.data[colIdx].width
	tile := col.RemoveTileByIdx(tileIdx)
	r.columnResized(colIdx, prevWidth)
	return tile
}

// RemoveColumnByIdx takes a whole column out of the row and animates the rest closing the gap
func (r *Row) RemoveColumnByIdx(colIdx int) *Column {
	if colIdx < 0 || colIdx >= len(r.columns) {
		return nil
	}
	// Removing left of the active column shifts the view along, so the left side slides instead
	offset := r.ColumnX(colIdx+1) - r.ColumnX(colIdx)
	if r.activeColumnIdx <= colIdx {
		for _, c := range r.columns[colIdx+1:] {
			c.AnimateMoveFrom(offset)
		}
	} else {
		for _, c := range r.columns[:colIdx] {
			c.AnimateMoveFrom(-offset)
		}
	}

	oldActiveX := r.ColumnX(r.activeColumnIdx)
	col := r.columns[colIdx]
	r.columns = append(r.columns[:colIdx], r.columns[colIdx+1:]...)
	r.data = append(r.data[:colIdx], r.data[colIdx+1:]...)
	if r.interactiveResize != nil && col.Contains(r.interactiveResize.window) {
		r.interactiveResize = nil
	}

	if len(r.columns) == 0 {
		r.activeColumnIdx = 0
		r.activatePrevColumnOnRemoval = nil
		r.viewOffsetToRestore = nil
		return col
	}

	if colIdx < r.activeColumnIdx {
		// Keep the view where it is
		r.activeColumnIdx--
		r.activatePrevColumnOnRemoval = nil
		return col
	}
	if colIdx > r.activeColumnIdx {
		return col
	}

	r.viewOffsetToRestore = nil
	if prev := r.activatePrevColumnOnRemoval; prev != nil && colIdx > 0 {
		r.activatePrevColumnOnRemoval = nil
		r.activeColumnIdx = colIdx - 1
		r.viewOffset.OffsetBy(oldActiveX - r.ColumnX(r.activeColumnIdx))
		r.animateViewOffset(r.activeColumnIdx, *prev)
		// The previous column may have been resized in the meantime
		r.animateViewOffsetToColumn(nil, r.activeColumnIdx, -1)
		return col
	}

	r.activatePrevColumnOnRemoval = nil
	r.activeColumnIdx = min(colIdx, len(r.columns)-1)
	r.viewOffset.OffsetBy(oldActiveX - r.ColumnX(r.activeColumnIdx))
	r.animateViewOffsetToColumn(nil, r.activeColumnIdx, -1)
	return col
}

// RemoveActiveColumn takes the active column out of the row
func (r *Row) RemoveActiveColumn() *Column {
	if len(r.columns) == 0 {
		return nil
	}
	return r.RemoveColumnByIdx(r.activeColumnIdx)
}

// columnResized updates the cached width of a column and slides its neighbours accordingly
func (r *Row) columnResized(colIdx int, prevWidth float64) {
	col := r.columns[colIdx]
	r.data[colIdx].width = col.Width()
	offset := prevWidth - r.data[colIdx].width
	if offset == 0 {
		return
	}
	if r.activeColumnIdx <= colIdx {
		for _, c := range r.columns[colIdx+1:] {
			c.AnimateMoveFrom(offset)
		}
	} else {
		for _, c := range r.columns[:colIdx+1] {
			c.AnimateMoveFrom(-offset)
		}
	}
}

// UpdateWindow syncs the row with a window that committed a new state
func (r *Row) UpdateWindow(id WindowID) bool {
	colIdx, tileIdx, ok := r.find(id)
	if !ok {
		return false
	}
	col := r.columns[colIdx]
	wasFullscreen := col.tiles[tileIdx].IsFullscreen()
	prevWidth := r.data[colIdx].width
	col.UpdateWindow(id)
	r.columnResized(colIdx, prevWidth)

	if colIdx == r.activeColumnIdx {
		if wasFullscreen && !col.tiles[tileIdx].IsFullscreen() && r.viewOffsetToRestore != nil {
			restore := *r.viewOffsetToRestore
			r.viewOffsetToRestore = nil
			r.animateViewOffset(colIdx, restore)
		}
		if r.interactiveResize == nil && (!r.viewOffset.IsGesture() || r.viewOffset.IsDndScroll()) {
			r.animateViewOffsetToColumn(nil, colIdx, -1)
		}
	}
	return true
}

// updateWindowBounds tells every window how large it can get on this row's output
func (r *Row) updateWindowBounds() {
	bounds := generaldata.Size{
		W: math.Max(r.workingArea.Size.W-2*r.options.Gaps, 1),
		H: math.Max(r.workingArea.Size.H-2*r.options.Gaps, 1),
	}
	for _, c := range r.columns {
		for _, t := range c.tiles {
			t.window.SetBounds(bounds)
		}
	}
}

// AdvanceAnimations drops finished animations of the row and its tiles
func (r *Row) AdvanceAnimations() {
	r.viewOffset.advance()
	for _, c := range r.columns {
		c.AdvanceAnimations()
	}
}

func (r *Row) AreAnimationsOngoing() bool {
	if r.viewOffset.IsAnimationOngoing() {
		return true
	}
	for _, c := range r.columns {
		if c.AreAnimationsOngoing() {
			return true
		}
	}
	return false
}

// TilesWithRenderPositions lists the visible tiles with their positions relative to the view.
// Hidden tabs are left out.
func (r *Row) TilesWithRenderPositions() []TileRenderPosition {
	var res []TileRenderPosition
	viewPos := r.ViewPos()
	for i, c := range r.columns {
		colX := r.ColumnX(i) - viewPos
		origin := c.tilesOrigin()
		offs := c.TileOffsets()
		for j, t := range c.tiles {
			if c.displayMode == DISPLAY_TABBED && j != c.activeTileIdx {
				continue
			}
			pos := generaldata.Point{X: colX + offs[j].X, Y: origin.Y + offs[j].Y}.Add(t.RenderOffset())
			res = append(res, TileRenderPosition{
				Tile:     t,
				Pos:      t.latchedRenderPos(pos.ToPhysicalPrecise(r.scale)),
				IsActive: i == r.activeColumnIdx && j == c.activeTileIdx,
			})
		}
	}
	return res
}
