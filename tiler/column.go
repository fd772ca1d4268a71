// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"math"

	"github.com/sirupsen/logrus"
	"github.com/veighnsche/niri-sub001/animation"
	generaldata "github.com/veighnsche/niri-sub001/general-data"
	"github.com/veighnsche/niri-sub001/util"
)

type tileData struct {
	height WindowHeight
	// Cached tile size, refreshed whenever the window changes
	size generaldata.Size
}

// Column is a vertical stack of tiles sharing one width
type Column struct {
	tiles         []*Tile
	data          []tileData
	activeTileIdx int

	width               ColumnWidth
	isFullWidth         bool
	isPendingFullscreen bool
	isPendingMaximized  bool
	displayMode         ColumnDisplay

	viewSize    generaldata.Size
	workingArea generaldata.Rectangle
	parentArea  generaldata.Rectangle
	scale       float64
	clock       *animation.Clock
	options     *Options
}

func newColumn(tile *Tile, r *Row, width ColumnWidth, isFullWidth bool) *Column {
	c := &Column{
		width:       width,
		isFullWidth: isFullWidth,
		displayMode: r.options.DefaultColumnDisplay,
		viewSize:    r.viewSize,
		workingArea: r.workingArea,
		parentArea:  r.parentArea,
		scale:       r.scale,
		clock:       r.clock,
		options:     r.options,
	}
	if d := tile.rules().DefaultColumnDisplay; d != "" {
		c.displayMode = parseColumnDisplay(d)
	}
	c.AddTileAt(0, tile, false)
	return c
}

func (c *Column) Tiles() []*Tile {
	return c.tiles
}

func (c *Column) Len() int {
	return len(c.tiles)
}

func (c *Column) ActiveTileIdx() int {
	return c.activeTileIdx
}

func (c *Column) ActiveTile() *Tile {
	if len(c.tiles) == 0 {
		return nil
	}
	return c.tiles[util.Clamp(c.activeTileIdx, 0, len(c.tiles)-1)]
}

func (c *Column) DisplayMode() ColumnDisplay {
	return c.displayMode
}

func (c *Column) ColumnWidth() ColumnWidth {
	return c.width
}

func (c *Column) IsFullWidth() bool {
	return c.isFullWidth
}

// Position returns the index of the window's tile, or -1
func (c *Column) Position(id WindowID) int {
	for i, t := range c.tiles {
		if t.ID() == id {
			return i
		}
	}
	return -1
}

func (c *Column) Contains(id WindowID) bool {
	return c.Position(id) >= 0
}

// SizingMode is the mode the column is heading to
func (c *Column) SizingMode() SizingMode {
	switch {
	case c.isPendingFullscreen:
		return SIZING_FULLSCREEN
	case c.isPendingMaximized:
		return SIZING_MAXIMIZED
	}
	return SIZING_NORMAL
}

func (c *Column) IsPendingFullscreen() bool {
	return c.isPendingFullscreen
}

func (c *Column) IsPendingMaximized() bool {
	return c.isPendingMaximized
}

// Width is the width the column currently takes up
func (c *Column) Width() float64 {
	w := 0.0
	for _, d := range c.data {
		w = math.Max(w, d.size.W)
	}
	return w
}

func (c *Column) refreshData() {
	for i, t := range c.tiles {
		c.data[i].size = t.TileSize()
	}
}

// extraSize is the room taken by the tab indicator in tabbed mode
func (c *Column) extraSize() generaldata.Size {
	if c.displayMode != DISPLAY_TABBED || c.options.TabIndicator.Off || !c.SizingMode().IsNormal() {
		return generaldata.Size{}
	}
	return generaldata.Size{H: c.options.TabIndicator.Width + c.options.TabIndicator.Gap}
}

// tilesOrigin is where the first tile sits, relative to the row's column position
func (c *Column) tilesOrigin() generaldata.Point {
	switch c.SizingMode() {
	case SIZING_FULLSCREEN:
		return generaldata.Point{}
	case SIZING_MAXIMIZED:
		return generaldata.Point{Y: c.parentArea.Loc.Y}
	}
	return generaldata.Point{Y: c.workingArea.Loc.Y + c.options.Gaps}
}

// tileOffsetIn returns the offset of the tile at idx including the column origin
func (c *Column) tileOffsetIn(idx int) generaldata.Point {
	offs := c.TileOffsets()
	idx = util.Clamp(idx, 0, len(offs)-1)
	return c.tilesOrigin().Add(offs[idx])
}

// TileOffsets returns the position of every tile relative to the column origin, plus one extra
// entry for the position right below the last tile
func (c *Column) TileOffsets() []generaldata.Point {
	offsets := make([]generaldata.Point, 0, len(c.tiles)+1)
	colW := c.Width()
	y := c.extraSize().H
	tallest := 0.0
	for _, d := range c.data {
		offsets = append(offsets, generaldata.Point{X: (colW - d.size.W) / 2, Y: y})
		if c.displayMode == DISPLAY_TABBED {
			tallest = math.Max(tallest, d.size.H)
		} else {
			y += d.size.H + c.options.Gaps
		}
	}
	if c.displayMode == DISPLAY_TABBED && len(c.data) > 0 {
		y += tallest + c.options.Gaps
	}
	return append(offsets, generaldata.Point{Y: y})
}

func (c *Column) yOffsets() map[WindowID]float64 {
	offs := c.TileOffsets()
	res := make(map[WindowID]float64, len(c.tiles))
	for i, t := range c.tiles {
		res[t.ID()] = offs[i].Y
	}
	return res
}

// animateOffsetsFrom slides tiles whose offset changed since prev
func (c *Column) animateOffsetsFrom(prev map[WindowID]float64) {
	offs := c.TileOffsets()
	for i, t := range c.tiles {
		if p, ok := prev[t.ID()]; ok {
			if d := p - offs[i].Y; math.Abs(d) > 1e-9 {
				t.AnimateMoveYFrom(d)
			}
		}
	}
}

// AddTileAt inserts a tile. Heights are redistributed right away.
func (c *Column) AddTileAt(idx int, tile *Tile, animate bool) {
	idx = util.Clamp(idx, 0, len(c.tiles))
	prev := c.yOffsets()
	tile.UpdateConfig(c.viewSize, c.scale, c.options)

	c.tiles = append(c.tiles, nil)
	copy(c.tiles[idx+1:], c.tiles[idx:])
	c.tiles[idx] = tile

	c.data = append(c.data, tileData{})
	copy(c.data[idx+1:], c.data[idx:])
	c.data[idx] = tileData{height: HeightAuto(1), size: tile.TileSize()}

	if len(c.tiles) > 1 && idx <= c.activeTileIdx {
		c.activeTileIdx++
	}
	c.updateTileSizes(animate)
	if animate {
		c.animateOffsetsFrom(prev)
	}
}

// RemoveTileByIdx takes a tile out of the column
func (c *Column) RemoveTileByIdx(idx int) *Tile {
	if idx < 0 || idx >= len(c.tiles) {
		return nil
	}
	prev := c.yOffsets()
	tile := c.tiles[idx]
	c.tiles = append(c.tiles[:idx], c.tiles[idx+1:]...)
	c.data = append(c.data[:idx], c.data[idx+1:]...)

	if idx < c.activeTileIdx {
		c.activeTileIdx--
	}
	c.activeTileIdx = util.Clamp(c.activeTileIdx, 0, max(len(c.tiles)-1, 0))

	if len(c.data) == 1 {
		c.data[0].height = HeightAuto(1)
	}
	c.ensureAutoTile(-1)

	if len(c.tiles) > 0 {
		c.updateTileSizes(true)
		c.animateOffsetsFrom(prev)
	}
	return tile
}

// ensureAutoTile turns every tile but keep into an auto one if no auto tile is left,
// so the column can still fill the working area
func (c *Column) ensureAutoTile(keep int) {
	if len(c.data) < 2 {
		return
	}
	for _, d := range c.data {
		if d.height.IsAuto() {
			return
		}
	}
	for i := range c.data {
		if i != keep {
			c.data[i].height = HeightAuto(1)
		}
	}
	if keep < 0 {
		c.data[len(c.data)-1].height = HeightAuto(1)
	}
}

func (c *Column) ActivateIdx(idx int) bool {
	if idx < 0 || idx >= len(c.tiles) || idx == c.activeTileIdx {
		return false
	}
	c.activeTileIdx = idx
	return true
}

func (c *Column) FocusUp() bool {
	return c.ActivateIdx(c.activeTileIdx - 1)
}

func (c *Column) FocusDown() bool {
	return c.ActivateIdx(c.activeTileIdx + 1)
}

func (c *Column) FocusTop() bool {
	return c.ActivateIdx(0)
}

func (c *Column) FocusBottom() bool {
	return c.ActivateIdx(len(c.tiles) - 1)
}

func (c *Column) swapTiles(a, b int) {
	prev := c.yOffsets()
	c.tiles[a], c.tiles[b] = c.tiles[b], c.tiles[a]
	c.data[a], c.data[b] = c.data[b], c.data[a]
	c.animateOffsetsFrom(prev)
}

// MoveUp swaps the active tile with the one above it
func (c *Column) MoveUp() bool {
	if c.activeTileIdx == 0 || len(c.tiles) < 2 {
		return false
	}
	c.swapTiles(c.activeTileIdx, c.activeTileIdx-1)
	c.activeTileIdx--
	return true
}

// MoveDown swaps the active tile with the one below it
func (c *Column) MoveDown() bool {
	if c.activeTileIdx+1 >= len(c.tiles) {
		return false
	}
	c.swapTiles(c.activeTileIdx, c.activeTileIdx+1)
	c.activeTileIdx++
	return true
}

func (c *Column) resolvedWidth() float64 {
	if c.isFullWidth {
		return WidthProportion(1).Resolve(c.options, c.workingArea.Size.W)
	}
	return c.width.Resolve(c.options, c.workingArea.Size.W)
}

func (c *Column) updateTileSizes(animate bool) {
	c.updateTileSizesWithTransaction(animate, NewTransaction())
}

// updateTileSizesWithTransaction computes the size of every tile and asks the windows for it.
func (c *Column) updateTileSizesWithTransaction(animate bool, tx *Transaction) {
	n := len(c.tiles)
	if n == 0 {
		return
	}
	defer c.refreshData()

	switch c.SizingMode() {
	case SIZING_FULLSCREEN:
		for _, t := range c.tiles {
			t.RequestFullscreen(animate, tx)
		}
		return
	case SIZING_MAXIMIZED:
		for _, t := range c.tiles {
			t.RequestMaximized(c.parentArea.Size, animate, tx)
		}
		return
	}

	minSizes := make([]generaldata.Size, n)
	maxSizes := make([]generaldata.Size, n)
	for i, t := range c.tiles {
		mn := t.MinSize()
		mn.W = math.Max(mn.W, 1)
		mn.H = math.Max(mn.H, 1)
		minSizes[i] = mn
		maxSizes[i] = t.MaxSize()
	}

	minWidth, maxWidth := 0.0, math.Inf(1)
	for i := range c.tiles {
		minWidth = math.Max(minWidth, minSizes[i].W)
		if maxSizes[i].W > 0 {
			maxWidth = math.Min(maxWidth, maxSizes[i].W)
		}
	}
	width := math.Max(math.Min(c.resolvedWidth(), maxWidth), minWidth)

	gaps := c.options.Gaps
	extra := c.extraSize()
	maxTileHeight := math.Max(c.workingArea.Size.H-2*gaps-extra.H, 1)

	if c.displayMode == DISPLAY_TABBED {
		height := -1.0
		for _, d := range c.data {
			switch d.height.Kind {
			case HEIGHT_FIXED:
				height = math.Max(height, d.height.Value)
			case HEIGHT_PRESET:
				height = math.Max(height, resolvePresetHeight(c.options, c.workingArea.Size.H, d.height.Preset))
			}
		}
		if height < 0 {
			height = maxTileHeight
		}
		height = math.Min(height, maxTileHeight)
		tallestMin := 0.0
		for _, mn := range minSizes {
			tallestMin = math.Max(tallestMin, mn.H)
		}
		height = math.Max(height, tallestMin)
		for _, t := range c.tiles {
			t.RequestTileSize(generaldata.Size{W: width, H: height}, animate, tx)
		}
		return
	}

	heights := make([]float64, n)
	weights := make([]float64, n)
	isAuto := make([]bool, n)
	nonAuto := 0
	for i, d := range c.data {
		h := d.height
		// a window that can only be one height is as good as fixed
		if h.IsAuto() && maxSizes[i].H > 0 && minSizes[i].H == maxSizes[i].H {
			h = HeightFixed(minSizes[i].H)
		}
		switch h.Kind {
		case HEIGHT_AUTO:
			isAuto[i] = true
			weights[i] = h.weight()
		case HEIGHT_FIXED:
			heights[i] = h.Value
			nonAuto++
		case HEIGHT_PRESET:
			heights[i] = resolvePresetHeight(c.options, c.workingArea.Size.H, h.Preset)
			nonAuto++
		}
	}

	heightLeft := c.workingArea.Size.H - extra.H - gaps*float64(n+1)
	autoMin := 0.0
	for i := range c.data {
		if isAuto[i] {
			autoMin += minSizes[i].H
		}
	}

	for i := range c.data {
		if isAuto[i] {
			continue
		}
		limit := maxTileHeight
		if n > 1 && nonAuto == 1 {
			limit = math.Min(limit, heightLeft-autoMin)
		}
		h := math.Min(heights[i], limit)
		if maxSizes[i].H > 0 {
			h = math.Min(h, maxSizes[i].H)
		}
		heights[i] = math.Max(h, minSizes[i].H)
		heightLeft -= heights[i]
	}

	pool := make([]int, 0, n)
	for i := range c.data {
		if isAuto[i] {
			pool = append(pool, i)
		}
	}
	for len(pool) > 0 {
		totalWeight := 0.0
		for _, i := range pool {
			totalWeight += weights[i]
		}
		next := make([]int, 0, len(pool))
		pinned := false
		for _, i := range pool {
			share := heightLeft * weights[i] / totalWeight
			if share < minSizes[i].H {
				heights[i] = minSizes[i].H
				pinned = true
				continue
			}
			next = append(next, i)
		}
		if !pinned {
			for _, i := range pool {
				h := heightLeft * weights[i] / totalWeight
				if maxSizes[i].H > 0 {
					h = math.Min(h, maxSizes[i].H)
				}
				heights[i] = h
			}
			break
		}
		for _, i := range pool {
			if !contains(next, i) {
				heightLeft -= heights[i]
			}
		}
		pool = next
	}

	for i, t := range c.tiles {
		t.RequestTileSize(generaldata.Size{W: width - extra.W, H: heights[i]}, animate, tx)
	}
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// replaceTile puts another tile into the slot at idx, keeping the slot's height, and returns the old tile
func (c *Column) replaceTile(idx int, tile *Tile) *Tile {
	old := c.tiles[idx]
	tile.UpdateConfig(c.viewSize, c.scale, c.options)
	c.tiles[idx] = tile
	c.updateTileSizes(true)
	return old
}

// SetFullscreen marks the column as heading to fullscreen. The caller makes sure the column
// has a single tile or is tabbed.
func (c *Column) SetFullscreen(v bool) {
	if c.isPendingFullscreen == v {
		return
	}
	c.isPendingFullscreen = v
	c.updateTileSizes(true)
}

func (c *Column) SetMaximized(v bool) {
	if c.isPendingMaximized == v {
		return
	}
	c.isPendingMaximized = v
	c.updateTileSizes(true)
}

// SetColumnWidth applies a width change. Fixed values are tile widths, proportions are percent.
func (c *Column) SetColumnWidth(change SizeChange, animate bool) {
	width := c.width
	if c.isFullWidth {
		width = WidthProportion(1)
	}
	current := width.withoutPreset(c.options)
	currentPx := width.Resolve(c.options, c.workingArea.Size.W)
	gaps := c.options.Gaps

	var next ColumnWidth
	switch change.Kind {
	case SET_FIXED:
		next = WidthFixed(change.Value)
	case SET_PROPORTION:
		next = WidthProportion(change.Value / 100)
	case ADJUST_FIXED:
		if current.Kind == WIDTH_FIXED {
			next = WidthFixed(current.Value + change.Value)
		} else {
			next = WidthFixed(currentPx + change.Value)
		}
	case ADJUST_PROPORTION:
		if current.Kind == WIDTH_PROPORTION {
			next = WidthProportion(current.Value + change.Value/100)
		} else {
			prop := (currentPx + gaps) / math.Max(c.workingArea.Size.W-gaps, 1)
			next = WidthProportion(prop + change.Value/100)
		}
	}
	if next.Kind == WIDTH_FIXED {
		next.Value = util.Clamp(next.Value, 1, maxPx)
	} else {
		next.Value = util.Clamp(next.Value, 0, maxProportion)
	}

	logrus.WithFields(logrus.Fields{
		"from": c.width,
		"to":   next,
	}).Debugln("Changing column width")
	c.width = next
	c.isFullWidth = false
	c.updateTileSizes(animate)
}

// ToggleWidth cycles through the preset column widths
func (c *Column) ToggleWidth(forward bool) {
	presets := c.options.PresetColumnWidths
	n := len(presets)
	if n == 0 {
		return
	}
	var idx int
	if c.width.Kind == WIDTH_PRESET && !c.isFullWidth {
		idx = util.Clamp(c.width.Preset, 0, n-1)
		if forward {
			idx = (idx + 1) % n
		} else {
			idx = (idx + n - 1) % n
		}
	} else {
		current := c.Width()
		if forward {
			idx = 0
			for i, p := range presets {
				if columnWidthFromPreset(p).Resolve(c.options, c.workingArea.Size.W) > current+1 {
					idx = i
					break
				}
			}
		} else {
			idx = n - 1
			for i := n - 1; i >= 0; i-- {
				if columnWidthFromPreset(presets[i]).Resolve(c.options, c.workingArea.Size.W) < current-1 {
					idx = i
					break
				}
			}
		}
	}
	c.width = WidthPreset(idx)
	c.isFullWidth = false
	c.updateTileSizes(true)
}

func (c *Column) ToggleFullWidth() {
	c.isFullWidth = !c.isFullWidth
	c.updateTileSizes(true)
}

func (c *Column) tileHeightOf(idx int) float64 {
	d := c.data[idx]
	switch d.height.Kind {
	case HEIGHT_FIXED:
		return d.height.Value
	case HEIGHT_PRESET:
		return resolvePresetHeight(c.options, c.workingArea.Size.H, d.height.Preset)
	}
	return d.size.H
}

// SetWindowHeight applies a height change to one tile, -1 meaning the active one.
// Fixed values are tile heights, proportions are percent of the working area.
func (c *Column) SetWindowHeight(idx int, change SizeChange, animate bool) {
	if idx < 0 {
		idx = c.activeTileIdx
	}
	if idx >= len(c.tiles) {
		return
	}
	gaps := c.options.Gaps
	areaH := c.workingArea.Size.H
	base := c.tileHeightOf(idx)

	var h float64
	switch change.Kind {
	case SET_FIXED:
		h = change.Value
	case SET_PROPORTION:
		h = (areaH-gaps)*change.Value/100 - gaps
	case ADJUST_FIXED:
		h = base + change.Value
	case ADJUST_PROPORTION:
		prop := (base + gaps) / math.Max(areaH-gaps, 1)
		h = (areaH-gaps)*(prop+change.Value/100) - gaps
	}
	c.data[idx].height = HeightFixed(util.Clamp(h, 1, maxPx))
	c.ensureAutoTile(idx)
	c.updateTileSizes(animate)
}

// ResetWindowHeight makes a tile auto sized again, -1 meaning the active one
func (c *Column) ResetWindowHeight(idx int) {
	if idx < 0 {
		idx = c.activeTileIdx
	}
	if idx >= len(c.tiles) {
		return
	}
	c.data[idx].height = HeightAuto(1)
	c.updateTileSizes(true)
}

// ToggleWindowHeight cycles a tile through the preset window heights, -1 meaning the active one
func (c *Column) ToggleWindowHeight(idx int, forward bool) {
	if idx < 0 {
		idx = c.activeTileIdx
	}
	presets := c.options.PresetWindowHeights
	n := len(presets)
	if idx >= len(c.tiles) || n == 0 {
		return
	}
	var next int
	if d := c.data[idx].height; d.Kind == HEIGHT_PRESET {
		next = util.Clamp(d.Preset, 0, n-1)
		if forward {
			next = (next + 1) % n
		} else {
			next = (next + n - 1) % n
		}
	} else {
		current := c.data[idx].size.H
		if forward {
			next = 0
			for i := range presets {
				if resolvePresetHeight(c.options, c.workingArea.Size.H, i) > current+1 {
					next = i
					break
				}
			}
		} else {
			next = n - 1
			for i := n - 1; i >= 0; i-- {
				if resolvePresetHeight(c.options, c.workingArea.Size.H, i) < current-1 {
					next = i
					break
				}
			}
		}
	}
	c.data[idx].height = HeightPreset(next)
	c.ensureAutoTile(idx)
	c.updateTileSizes(true)
}

// SetDisplayMode switches between normal and tabbed display
func (c *Column) SetDisplayMode(mode ColumnDisplay) {
	if c.displayMode == mode {
		return
	}
	prev := c.yOffsets()
	c.displayMode = mode
	c.updateTileSizes(true)
	c.animateOffsetsFrom(prev)
}

// UpdateConfig applies a new output geometry or options
func (c *Column) UpdateConfig(viewSize generaldata.Size, workingArea, parentArea generaldata.Rectangle, scale float64, options *Options) {
	c.viewSize = viewSize
	c.workingArea = workingArea
	c.parentArea = parentArea
	c.scale = scale
	c.options = options
	for _, t := range c.tiles {
		t.UpdateConfig(viewSize, scale, options)
	}
	c.updateTileSizes(false)
}

// UpdateWindow syncs the tile of the window with its new state
func (c *Column) UpdateWindow(id WindowID) bool {
	idx := c.Position(id)
	if idx < 0 {
		return false
	}
	prev := c.yOffsets()
	c.tiles[idx].UpdateWindow()
	c.refreshData()
	c.animateOffsetsFrom(prev)
	return true
}

// AnimateMoveFrom slides every tile horizontally from the given offset
func (c *Column) AnimateMoveFrom(dx float64) {
	if dx == 0 {
		return
	}
	for _, t := range c.tiles {
		t.AnimateMoveXFrom(dx)
	}
}

// RenderOffset is the horizontal move offset of the column
func (c *Column) RenderOffset() float64 {
	if len(c.tiles) == 0 {
		return 0
	}
	return c.tiles[0].RenderOffset().X
}

func (c *Column) AdvanceAnimations() {
	for _, t := range c.tiles {
		t.AdvanceAnimations()
	}
}

func (c *Column) AreAnimationsOngoing() bool {
	for _, t := range c.tiles {
		if t.AreAnimationsOngoing() {
			return true
		}
	}
	return false
}
