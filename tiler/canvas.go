// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/veighnsche/niri-sub001/animation"
	generaldata "github.com/veighnsche/niri-sub001/general-data"
	"gitlab.com/mstarongitlab/goutils/sliceutils"
)

// Canvas2D is the per-output stack of rows plus the floating layer on top of them.
// Rows are indexed by a signed integer, row 0 always exists.
type Canvas2D struct {
	rows             map[int]*Row
	activeRowIdx     int
	floating         *FloatingSpace
	floatingIsActive bool
	// Vertical position of the camera, follows the active row
	camera generaldata.Point

	output  OutputInfo
	clock   *animation.Clock
	options *Options
}

func NewCanvas2D(output OutputInfo, clock *animation.Clock, options *Options) *Canvas2D {
	c := &Canvas2D{
		rows:    map[int]*Row{},
		output:  output,
		clock:   clock,
		options: options,
	}
	c.floating = NewFloatingSpace(output, clock, options)
	c.EnsureRow(0)
	return c
}

func (c *Canvas2D) Output() OutputInfo {
	return c.output
}

func (c *Canvas2D) Floating() *FloatingSpace {
	return c.floating
}

func (c *Canvas2D) FloatingIsActive() bool {
	return c.floatingIsActive
}

func (c *Canvas2D) ActiveRowIdx() int {
	return c.activeRowIdx
}

func (c *Canvas2D) Camera() generaldata.Point {
	return c.camera
}

// EnsureRow returns the row at idx, creating an empty one if needed
func (c *Canvas2D) EnsureRow(idx int) *Row {
	if r, ok := c.rows[idx]; ok {
		return r
	}
	r := NewRow(idx, c.output, c.clock, c.options)
	c.rows[idx] = r
	return r
}

func (c *Canvas2D) Row(idx int) (*Row, bool) {
	r, ok := c.rows[idx]
	return r, ok
}

func (c *Canvas2D) ActiveRow() *Row {
	return c.EnsureRow(c.activeRowIdx)
}

// RowIdxs returns the indices of every existing row in ascending order
func (c *Canvas2D) RowIdxs() []int {
	idxs := make([]int, 0, len(c.rows))
	for idx := range c.rows {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	return idxs
}

// Rows returns the existing rows, top to bottom
func (c *Canvas2D) Rows() []*Row {
	res := make([]*Row, 0, len(c.rows))
	for _, idx := range c.RowIdxs() {
		res = append(res, c.rows[idx])
	}
	return res
}

// FindRowByName looks up a named row
func (c *Canvas2D) FindRowByName(name string) (*Row, bool) {
	for _, r := range c.rows {
		if r.name != "" && r.name == name {
			return r, true
		}
	}
	return nil, false
}

// CleanupRows drops empty unnamed rows, keeping row 0 and the active row
func (c *Canvas2D) CleanupRows() {
	removable := sliceutils.Filter(c.RowIdxs(), func(idx int) bool {
		r := c.rows[idx]
		return idx != 0 && idx != c.activeRowIdx && r.IsEmpty() && r.name == ""
	})
	for _, idx := range removable {
		delete(c.rows, idx)
	}
	if len(removable) > 0 {
		logrus.WithField("rows", removable).Debugln("Removed empty rows")
	}
}

// setActiveRow switches to another row without any animation
func (c *Canvas2D) setActiveRow(idx int) {
	c.EnsureRow(idx)
	c.activeRowIdx = idx
	c.camera = generaldata.Point{Y: float64(idx) * c.output.Size.H}
	c.CleanupRows()
}

// FindWindow returns where a window lives
func (c *Canvas2D) FindWindow(id WindowID) (row *Row, floating bool, ok bool) {
	if c.floating.HasWindow(id) {
		return nil, true, true
	}
	for _, r := range c.rows {
		if r.HasWindow(id) {
			return r, false, true
		}
	}
	return nil, false, false
}

func (c *Canvas2D) HasWindow(id WindowID) bool {
	_, _, ok := c.FindWindow(id)
	return ok
}

func (c *Canvas2D) FindTile(id WindowID) *Tile {
	if t := c.floating.FindTile(id); t != nil {
		return t
	}
	for _, r := range c.rows {
		if t := r.FindTile(id); t != nil {
			return t
		}
	}
	return nil
}

// Tiles returns every tile, floating ones first
func (c *Canvas2D) Tiles() []*Tile {
	res := append([]*Tile{}, c.floating.Tiles()...)
	for _, r := range c.Rows() {
		res = append(res, r.Tiles()...)
	}
	return res
}

func (c *Canvas2D) IsEmpty() bool {
	if !c.floating.IsEmpty() {
		return false
	}
	for _, r := range c.rows {
		if !r.IsEmpty() {
			return false
		}
	}
	return true
}

// ActiveTile is the focused tile of the canvas
func (c *Canvas2D) ActiveTile() *Tile {
	if c.floatingIsActive {
		if t := c.floating.ActiveTile(); t != nil {
			return t
		}
	}
	return c.ActiveRow().ActiveTile()
}

// AddTile adds a tile to a row or the floating layer
func (c *Canvas2D) AddTile(tile *Tile, rowIdx int, activate, floating bool, width *ColumnWidth, isFullWidth bool) {
	if floating {
		c.floating.AddTile(tile, activate)
		if activate {
			c.floatingIsActive = true
		}
		return
	}
	row := c.EnsureRow(rowIdx)
	row.AddTile(-1, tile, activate, width, isFullWidth)
	if activate {
		c.floatingIsActive = false
		if rowIdx != c.activeRowIdx {
			c.setActiveRow(rowIdx)
		}
	}
}

// AddTileNextTo opens a tile next to another window, in the same layer
func (c *Canvas2D) AddTileNextTo(nextTo WindowID, tile *Tile, activate bool) bool {
	row, floating, ok := c.FindWindow(nextTo)
	if !ok {
		return false
	}
	if floating {
		c.floating.AddTileAbove(nextTo, tile, activate)
		if activate {
			c.floatingIsActive = true
		}
		return true
	}
	row.AddTileRightOf(nextTo, tile, activate, nil, false)
	if activate {
		c.floatingIsActive = false
		c.setActiveRow(row.idx)
	}
	return true
}

// RemoveTile takes a window out of the canvas
func (c *Canvas2D) RemoveTile(id WindowID) *Tile {
	if t := c.floating.RemoveTile(id); t != nil {
		if c.floating.IsEmpty() {
			c.floatingIsActive = false
		}
		return t
	}
	for _, r := range c.rows {
		if t := r.RemoveTile(id); t != nil {
			return t
		}
	}
	return nil
}

// ActivateWindow focuses a window, switching rows if needed
func (c *Canvas2D) ActivateWindow(id WindowID) bool {
	row, floating, ok := c.FindWindow(id)
	if !ok {
		return false
	}
	if floating {
		c.floating.ActivateWindow(id)
		c.floatingIsActive = true
		return true
	}
	row.ActivateWindow(id)
	c.floatingIsActive = false
	if row.idx != c.activeRowIdx {
		c.setActiveRow(row.idx)
	}
	return true
}

// SwitchFocusFloatingTiling moves focus between the floating layer and the active row
func (c *Canvas2D) SwitchFocusFloatingTiling() bool {
	if c.floatingIsActive {
		if c.ActiveRow().IsEmpty() {
			return false
		}
		c.floatingIsActive = false
		return true
	}
	if c.floating.IsEmpty() {
		return false
	}
	c.floatingIsActive = true
	return true
}

func (c *Canvas2D) FocusLeft() bool {
	if c.floatingIsActive {
		return c.floating.FocusLeft()
	}
	return c.ActiveRow().FocusLeft()
}

func (c *Canvas2D) FocusRight() bool {
	if c.floatingIsActive {
		return c.floating.FocusRight()
	}
	return c.ActiveRow().FocusRight()
}

func (c *Canvas2D) FocusUp() bool {
	if c.floatingIsActive {
		return c.floating.FocusUp()
	}
	return c.ActiveRow().FocusUp()
}

func (c *Canvas2D) FocusDown() bool {
	if c.floatingIsActive {
		return c.floating.FocusDown()
	}
	return c.ActiveRow().FocusDown()
}

// FocusWindowOrRowDown focuses the window below, or the row below if there is none
func (c *Canvas2D) FocusWindowOrRowDown() bool {
	if c.FocusDown() {
		return true
	}
	return c.FocusRowDown()
}

// FocusWindowOrRowUp focuses the window above, or the row above if there is none
func (c *Canvas2D) FocusWindowOrRowUp() bool {
	if c.FocusUp() {
		return true
	}
	return c.FocusRowUp()
}

func (c *Canvas2D) FocusRowUp() bool {
	return c.FocusRowIndex(c.activeRowIdx - 1)
}

func (c *Canvas2D) FocusRowDown() bool {
	return c.FocusRowIndex(c.activeRowIdx + 1)
}

// FocusRowIndex switches to the row at idx, creating it if needed
func (c *Canvas2D) FocusRowIndex(idx int) bool {
	if idx == c.activeRowIdx {
		return false
	}
	c.floatingIsActive = false
	c.setActiveRow(idx)
	return true
}

func (c *Canvas2D) MoveLeft() bool {
	if c.floatingIsActive {
		return c.floating.MoveLeft()
	}
	return c.ActiveRow().MoveLeft()
}

func (c *Canvas2D) MoveRight() bool {
	if c.floatingIsActive {
		return c.floating.MoveRight()
	}
	return c.ActiveRow().MoveRight()
}

func (c *Canvas2D) MoveUp() bool {
	if c.floatingIsActive {
		return c.floating.MoveUp()
	}
	return c.ActiveRow().MoveUp()
}

func (c *Canvas2D) MoveDown() bool {
	if c.floatingIsActive {
		return c.floating.MoveDown()
	}
	return c.ActiveRow().MoveDown()
}

// MoveWindowToRowIndex moves the active tiled window into its own column on another row.
// Focus follows the window.
func (c *Canvas2D) MoveWindowToRowIndex(idx int) bool {
	if c.floatingIsActive || idx == c.activeRowIdx {
		return false
	}
	src := c.ActiveRow()
	col := src.ActiveColumn()
	if col == nil {
		return false
	}
	width, fullWidth := col.width, col.isFullWidth
	tile := src.removeTileByIdx(src.activeColumnIdx, col.activeTileIdx)
	c.EnsureRow(idx).AddTile(-1, tile, true, &width, fullWidth)
	c.setActiveRow(idx)
	return true
}

func (c *Canvas2D) MoveWindowToRowUp() bool {
	return c.MoveWindowToRowIndex(c.activeRowIdx - 1)
}

func (c *Canvas2D) MoveWindowToRowDown() bool {
	return c.MoveWindowToRowIndex(c.activeRowIdx + 1)
}

// MoveColumnToRowIndex moves the whole active column to another row, focus following it
func (c *Canvas2D) MoveColumnToRowIndex(idx int) bool {
	if c.floatingIsActive || idx == c.activeRowIdx {
		return false
	}
	col := c.ActiveRow().RemoveActiveColumn()
	if col == nil {
		return false
	}
	c.EnsureRow(idx).AddColumn(-1, col, true)
	c.setActiveRow(idx)
	return true
}

func (c *Canvas2D) MoveColumnToRowUp() bool {
	return c.MoveColumnToRowIndex(c.activeRowIdx - 1)
}

func (c *Canvas2D) MoveColumnToRowDown() bool {
	return c.MoveColumnToRowIndex(c.activeRowIdx + 1)
}

// MoveRowToIndex swaps the active row with the row at idx
func (c *Canvas2D) MoveRowToIndex(idx int) bool {
	if idx == c.activeRowIdx {
		return false
	}
	cur := c.ActiveRow()
	other, ok := c.rows[idx]
	delete(c.rows, c.activeRowIdx)
	if ok {
		other.idx = c.activeRowIdx
		c.rows[c.activeRowIdx] = other
	}
	cur.idx = idx
	c.rows[idx] = cur
	c.EnsureRow(0)
	c.setActiveRow(idx)
	return true
}

func (c *Canvas2D) MoveRowUp() bool {
	return c.MoveRowToIndex(c.activeRowIdx - 1)
}

func (c *Canvas2D) MoveRowDown() bool {
	return c.MoveRowToIndex(c.activeRowIdx + 1)
}

// SetRowName names a row, taking the name away from any other row that had it
func (c *Canvas2D) SetRowName(idx int, name string) {
	if other, ok := c.FindRowByName(name); ok {
		other.name = ""
	}
	c.EnsureRow(idx).SetName(name)
}

func (c *Canvas2D) UnsetRowName(idx int) {
	if r, ok := c.rows[idx]; ok {
		r.SetName("")
	}
	c.CleanupRows()
}

// resolveWindow turns id 0 into the active window
func (c *Canvas2D) resolveWindow(id WindowID) (WindowID, bool) {
	if id != 0 {
		return id, c.HasWindow(id)
	}
	if t := c.ActiveTile(); t != nil {
		return t.ID(), true
	}
	return 0, false
}

// refloatIfRestored puts a tile that came from the floating layer back there once it is
// neither fullscreen nor maximized
func (c *Canvas2D) refloatIfRestored(row *Row, id WindowID) {
	colIdx, _, ok := row.find(id)
	if !ok {
		return
	}
	tile := row.FindTile(id)
	if !tile.RestoreToFloating() || !row.columns[colIdx].SizingMode().IsNormal() {
		return
	}
	wasActive := c.ActiveTile() == tile
	tile = row.RemoveTile(id)
	tile.SetRestoreToFloating(false)
	c.floating.AddTile(tile, wasActive)
	if wasActive {
		c.floatingIsActive = true
	}
}

// promoteFromFloating moves a floating tile into the active row, remembering to bring it back later
func (c *Canvas2D) promoteFromFloating(id WindowID) *Row {
	wasActive := c.floatingIsActive && c.ActiveTile() != nil && c.ActiveTile().ID() == id
	tile := c.floating.RemoveTile(id)
	tile.SetRestoreToFloating(true)
	row := c.ActiveRow()
	row.AddTile(-1, tile, true, nil, false)
	if wasActive || c.floating.IsEmpty() {
		c.floatingIsActive = false
	}
	return row
}

// SetFullscreen works on tiled and floating windows. Floating windows are moved into the
// active row while fullscreen.
func (c *Canvas2D) SetFullscreen(id WindowID, fullscreen bool) bool {
	id, ok := c.resolveWindow(id)
	if !ok {
		return false
	}
	row, floating, _ := c.FindWindow(id)
	if floating {
		if !fullscreen {
			return false
		}
		row = c.promoteFromFloating(id)
	}
	changed := row.SetFullscreen(id, fullscreen)
	if !fullscreen {
		c.refloatIfRestored(row, id)
	}
	return changed || floating
}

// SetMaximized works like SetFullscreen
func (c *Canvas2D) SetMaximized(id WindowID, maximized bool) bool {
	id, ok := c.resolveWindow(id)
	if !ok {
		return false
	}
	row, floating, _ := c.FindWindow(id)
	if floating {
		if !maximized {
			return false
		}
		row = c.promoteFromFloating(id)
	}
	changed := row.SetMaximized(id, maximized)
	if !maximized {
		c.refloatIfRestored(row, id)
	}
	return changed || floating
}

func (c *Canvas2D) ToggleFullscreen(id WindowID) bool {
	id, ok := c.resolveWindow(id)
	if !ok {
		return false
	}
	row, floating, _ := c.FindWindow(id)
	if floating {
		return c.SetFullscreen(id, true)
	}
	colIdx, _, _ := row.find(id)
	return c.SetFullscreen(id, !row.columns[colIdx].IsPendingFullscreen())
}

func (c *Canvas2D) ToggleMaximized(id WindowID) bool {
	id, ok := c.resolveWindow(id)
	if !ok {
		return false
	}
	row, floating, _ := c.FindWindow(id)
	if floating {
		return c.SetMaximized(id, true)
	}
	colIdx, _, _ := row.find(id)
	return c.SetMaximized(id, !row.columns[colIdx].IsPendingMaximized())
}

// ToggleWindowFloating moves a window between its row and the floating layer
func (c *Canvas2D) ToggleWindowFloating(id WindowID) bool {
	id, ok := c.resolveWindow(id)
	if !ok {
		return false
	}
	row, floating, _ := c.FindWindow(id)
	if floating {
		tile := c.floating.RemoveTile(id)
		tile.SetRestoreToFloating(false)
		c.ActiveRow().AddTile(-1, tile, true, nil, false)
		c.floatingIsActive = false
		return true
	}
	tile := row.RemoveTile(id)
	tile.SetRestoreToFloating(false)
	c.floating.AddTile(tile, true)
	c.floatingIsActive = true
	return true
}

// CenterWindow centers a floating window in the working area, or a tiled window's column in the view
func (c *Canvas2D) CenterWindow(id WindowID) bool {
	id, ok := c.resolveWindow(id)
	if !ok {
		return false
	}
	row, floating, _ := c.FindWindow(id)
	if floating {
		return c.floating.CenterWindow(id)
	}
	return row.CenterWindow(id)
}

func (c *Canvas2D) CenterColumn() {
	c.ActiveRow().CenterColumn()
}

func (c *Canvas2D) CenterVisibleColumns() bool {
	return c.ActiveRow().CenterVisibleColumns()
}

// MoveFloatingWindow positions a window in the floating layer, making it floating first if needed
func (c *Canvas2D) MoveFloatingWindow(id WindowID, x, y *PositionChange, animate bool) bool {
	id, ok := c.resolveWindow(id)
	if !ok {
		return false
	}
	if _, floating, _ := c.FindWindow(id); !floating {
		c.ToggleWindowFloating(id)
		animate = false
	}
	return c.floating.MoveWindow(id, x, y, animate)
}

// SetColumnWidth changes the width of the active column, or of the active floating window
func (c *Canvas2D) SetColumnWidth(change SizeChange) {
	if c.floatingIsActive {
		c.floating.SetWindowWidth(0, change, true)
		return
	}
	c.ActiveRow().SetColumnWidth(change)
}

// SetWindowHeight changes the height of a tiled or floating window, id 0 being the active one
func (c *Canvas2D) SetWindowHeight(id WindowID, change SizeChange) {
	id, ok := c.resolveWindow(id)
	if !ok {
		return
	}
	row, floating, _ := c.FindWindow(id)
	if floating {
		c.floating.SetWindowHeight(id, change, true)
		return
	}
	row.SetWindowHeight(id, change)
}

func (c *Canvas2D) ResetWindowHeight(id WindowID) {
	id, ok := c.resolveWindow(id)
	if !ok {
		return
	}
	if row, floating, _ := c.FindWindow(id); !floating {
		row.ResetWindowHeight(id)
	}
}

func (c *Canvas2D) ToggleWidth(forward bool) {
	if c.floatingIsActive {
		c.floating.ToggleWindowWidth(0, forward)
		return
	}
	c.ActiveRow().ToggleWidth(forward)
}

func (c *Canvas2D) ToggleWindowHeight(id WindowID, forward bool) {
	id, ok := c.resolveWindow(id)
	if !ok {
		return
	}
	row, floating, _ := c.FindWindow(id)
	if floating {
		c.floating.ToggleWindowHeight(id, forward)
		return
	}
	row.ToggleWindowHeight(id, forward)
}

// InteractiveResizeBegin starts resizing a window wherever it lives
func (c *Canvas2D) InteractiveResizeBegin(id WindowID, edges ResizeEdge) bool {
	row, floating, ok := c.FindWindow(id)
	if !ok {
		return false
	}
	if floating {
		return c.floating.InteractiveResizeBegin(id, edges)
	}
	return row.InteractiveResizeBegin(id, edges)
}

func (c *Canvas2D) InteractiveResizeUpdate(id WindowID, delta generaldata.Point) bool {
	row, floating, ok := c.FindWindow(id)
	if !ok {
		return false
	}
	if floating {
		return c.floating.InteractiveResizeUpdate(id, delta)
	}
	return row.InteractiveResizeUpdate(id, delta)
}

func (c *Canvas2D) InteractiveResizeEnd(id WindowID) bool {
	row, floating, ok := c.FindWindow(id)
	if !ok {
		return false
	}
	if floating {
		return c.floating.InteractiveResizeEnd(id)
	}
	return row.InteractiveResizeEnd(id)
}

// UpdateWindow syncs a window that committed a new state
func (c *Canvas2D) UpdateWindow(id WindowID) bool {
	if c.floating.UpdateWindow(id) {
		return true
	}
	for _, r := range c.rows {
		if r.UpdateWindow(id) {
			return true
		}
	}
	return false
}

// UpdateConfig applies new output geometry or options to every row and the floating layer
func (c *Canvas2D) UpdateConfig(output OutputInfo, options *Options) {
	c.output = output
	c.options = options
	for _, r := range c.rows {
		r.UpdateConfig(output, options)
	}
	c.floating.UpdateConfig(output, options)
	c.camera = generaldata.Point{Y: float64(c.activeRowIdx) * output.Size.H}
}

func (c *Canvas2D) AdvanceAnimations() {
	for _, r := range c.rows {
		r.AdvanceAnimations()
	}
	c.floating.AdvanceAnimations()
}

func (c *Canvas2D) AreAnimationsOngoing() bool {
	for _, r := range c.rows {
		if r.AreAnimationsOngoing() {
			return true
		}
	}
	return c.floating.AreAnimationsOngoing()
}

// TilesWithRenderPositions lists what to draw, topmost first. renderIdx is the possibly fractional
// row the view is centered on during row switches.
func (c *Canvas2D) TilesWithRenderPositions(renderIdx float64) []TileRenderPosition {
	res := c.floating.TilesWithRenderPositions()
	viewH := c.output.Size.H
	for _, idx := range c.RowIdxs() {
		dy := float64(idx) - renderIdx
		if math.Abs(dy) >= 1 {
			continue
		}
		tiles := c.rows[idx].TilesWithRenderPositions()
		res = append(res, offsetRenderPositions(tiles, generaldata.Point{Y: dy * viewH})...)
	}
	return res
}

// takeRows removes and returns the rows matching keep, leaving row 0 in place
func (c *Canvas2D) takeRows(keep func(*Row) bool) []*Row {
	var taken []*Row
	for _, idx := range c.RowIdxs() {
		if r := c.rows[idx]; keep(r) {
			taken = append(taken, r)
			delete(c.rows, idx)
		}
	}
	if _, ok := c.rows[c.activeRowIdx]; !ok {
		c.activeRowIdx = 0
	}
	c.EnsureRow(0)
	c.setActiveRow(c.activeRowIdx)
	return taken
}

// adoptRow inserts a row taken from another canvas at the first free index from idx on.
// An empty unnamed row in the way gets replaced.
func (c *Canvas2D) adoptRow(r *Row, idx int) int {
	for {
		existing, ok := c.rows[idx]
		if !ok || (existing.IsEmpty() && existing.name == "") {
			break
		}
		idx++
	}
	r.idx = idx
	r.UpdateConfig(c.output, c.options)
	c.rows[idx] = r
	return idx
}

// maxRowIdx is the largest index of a row that holds something
func (c *Canvas2D) maxRowIdx() int {
	res := 0
	for idx, r := range c.rows {
		if !r.IsEmpty() || r.name != "" {
			res = max(res, idx)
		}
	}
	return res
}

// activateRowByID switches to the row with the given id, if it is on this canvas
func (c *Canvas2D) activateRowByID(id RowID) bool {
	for idx, r := range c.rows {
		if r.id == id {
			c.setActiveRow(idx)
			return true
		}
	}
	return false
}

// takeFloating removes every floating tile, topmost first
func (c *Canvas2D) takeFloating() []*Tile {
	tiles := append([]*Tile{}, c.floating.Tiles()...)
	for _, t := range tiles {
		c.floating.RemoveTile(t.ID())
	}
	c.floatingIsActive = false
	return tiles
}
