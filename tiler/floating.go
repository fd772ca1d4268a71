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

// How far the directional move commands move a floating window
const floatingMoveStep = 50.0

type floatingData struct {
	// Requested position as a fraction of the working area
	pos generaldata.Point
	// Cached logical position, clamped to the working area
	logicalPos generaldata.Point
	// Cached tile size
	size generaldata.Size
}

type floatingResize struct {
	window           WindowID
	edges            ResizeEdge
	originalSize     generaldata.Size
	originalPos      generaldata.Point
	originalTileSize generaldata.Size
}

// FloatingSpace is the layer of freely positioned windows above the rows.
// Tiles are kept in stacking order, the first one being the topmost.
type FloatingSpace struct {
	tiles     []*Tile
	data      []floatingData
	active    WindowID
	hasActive bool

	interactiveResize *floatingResize

	viewSize    generaldata.Size
	workingArea generaldata.Rectangle
	scale       float64
	clock       *animation.Clock
	options     *Options
}

func NewFloatingSpace(output OutputInfo, clock *animation.Clock, options *Options) *FloatingSpace {
	f := &FloatingSpace{clock: clock}
	f.applyOutput(output, options)
	return f
}

func (f *FloatingSpace) applyOutput(output OutputInfo, options *Options) {
	f.viewSize = output.Size
	f.scale = output.scale()
	f.options = options.AdjustedForScale(f.scale)
	f.workingArea = computeWorkingArea(output.usableArea(), f.scale, f.options.Struts)
}

func (f *FloatingSpace) Tiles() []*Tile {
	return f.tiles
}

func (f *FloatingSpace) IsEmpty() bool {
	return len(f.tiles) == 0
}

func (f *FloatingSpace) position(id WindowID) int {
	for i, t := range f.tiles {
		if t.ID() == id {
			return i
		}
	}
	return -1
}

func (f *FloatingSpace) HasWindow(id WindowID) bool {
	return f.position(id) >= 0
}

func (f *FloatingSpace) FindTile(id WindowID) *Tile {
	if i := f.position(id); i >= 0 {
		return f.tiles[i]
	}
	return nil
}

// ActiveWindow returns the active window id, set whenever the space isn't empty
func (f *FloatingSpace) ActiveWindow() (WindowID, bool) {
	return f.active, f.hasActive
}

func (f *FloatingSpace) ActiveTile() *Tile {
	if !f.hasActive {
		return nil
	}
	return f.FindTile(f.active)
}

// logicalToSizeFracInWorkingArea turns a logical position into a fraction of the working area
func (f *FloatingSpace) logicalToSizeFracInWorkingArea(pos generaldata.Point) generaldata.Point {
	area := f.workingArea
	var frac generaldata.Point
	if area.Size.W > 0 {
		frac.X = (pos.X - area.Loc.X) / area.Size.W
	}
	if area.Size.H > 0 {
		frac.Y = (pos.Y - area.Loc.Y) / area.Size.H
	}
	return frac
}

// scaleByWorkingArea turns a fraction of the working area back into a logical position
func (f *FloatingSpace) scaleByWorkingArea(frac generaldata.Point) generaldata.Point {
	return f.workingArea.Loc.Add(frac.Upscale(f.workingArea.Size))
}

// clampAxis keeps at least a sliver of size visible inside [areaLoc, areaLoc+areaSize]
func clampAxis(pos, size, areaLoc, areaSize float64) float64 {
	minOnScreen := util.Clamp(size/4, 10, 75)
	maxOffScreen := math.Max(size-minOnScreen, 0)
	lo := areaLoc - maxOffScreen
	hi := areaLoc + areaSize - size + maxOffScreen
	return math.Max(math.Min(pos, hi), lo)
}

func (f *FloatingSpace) recomputeLogicalPos(idx int) {
	d := &f.data[idx]
	pos := f.scaleByWorkingArea(d.pos)
	pos.X = clampAxis(pos.X, d.size.W, f.workingArea.Loc.X, f.workingArea.Size.W)
	pos.Y = clampAxis(pos.Y, d.size.H, f.workingArea.Loc.Y, f.workingArea.Size.H)
	d.logicalPos = pos.ToPhysicalPrecise(f.scale)
}

// WindowRect is the cached tile rectangle of a window
func (f *FloatingSpace) WindowRect(id WindowID) (generaldata.Rectangle, bool) {
	i := f.position(id)
	if i < 0 {
		return generaldata.Rectangle{}, false
	}
	return generaldata.Rectangle{Loc: f.data[i].logicalPos, Size: f.data[i].size}, true
}

// AddTile puts a tile into the floating layer. Activated tiles go on top.
func (f *FloatingSpace) AddTile(tile *Tile, activate bool) {
	idx := 0
	if !activate && f.hasActive {
		idx = f.position(f.active) + 1
	}
	f.insertTile(idx, tile, activate)
}

// AddTileAbove puts a tile right above another one in the stacking order
func (f *FloatingSpace) AddTileAbove(above WindowID, tile *Tile, activate bool) {
	idx := f.position(above)
	if idx < 0 {
		idx = 0
	}
	f.insertTile(idx, tile, activate)
}

func (f *FloatingSpace) insertTile(idx int, tile *Tile, activate bool) {
	tile.UpdateConfig(f.viewSize, f.scale, f.options)
	f.requestInitialSize(tile)

	size := tile.ExpectedTileSize()
	var frac generaldata.Point
	if p, ok := tile.FloatingPos(); ok {
		frac = p
	} else {
		frac = f.logicalToSizeFracInWorkingArea(f.initialPos(tile, size))
	}

	idx = util.Clamp(idx, 0, len(f.tiles))
	f.tiles = append(f.tiles, nil)
	copy(f.tiles[idx+1:], f.tiles[idx:])
	f.tiles[idx] = tile
	f.data = append(f.data, floatingData{})
	copy(f.data[idx+1:], f.data[idx:])
	f.data[idx] = floatingData{pos: frac, size: size}
	f.recomputeLogicalPos(idx)

	if activate || !f.hasActive {
		f.active, f.hasActive = tile.ID(), true
	}
	if activate {
		f.raise(tile.ID())
	} else {
		f.fixStacking()
	}
	logrus.WithFields(logrus.Fields{
		"window": tile.ID(),
		"pos":    f.data[f.position(tile.ID())].logicalPos,
	}).Debugln("Added floating window")
}

// requestInitialSize asks the window for its remembered floating size or the one from its rules
func (f *FloatingSpace) requestInitialSize(tile *Tile) {
	size, ok := tile.FloatingWindowSize()
	if !ok {
		rules := tile.rules()
		size = tile.window.Size()
		if es, eok := tile.window.ExpectedSize(); eok {
			size = es
		}
		if p := rules.DefaultColumnWidth; p != nil && p.IsSet() {
			w := columnWidthFromPreset(*p).Resolve(f.options, f.workingArea.Size.W)
			size.W = tile.WindowWidthForTileWidth(w)
			ok = true
		}
		if p := rules.DefaultWindowHeight; p != nil && p.IsSet() {
			h := columnWidthFromPreset(*p).Resolve(f.options, f.workingArea.Size.H)
			size.H = tile.WindowHeightForTileHeight(h)
			ok = true
		}
		// Don't let windows coming from tiling stay larger than the working area
		if size.W > f.workingArea.Size.W || size.H > f.workingArea.Size.H {
			size.W = math.Min(size.W, f.workingArea.Size.W)
			size.H = math.Min(size.H, f.workingArea.Size.H)
			ok = true
		}
	}
	if !ok || size.IsEmpty() {
		return
	}
	f.requestWindowSize(tile, size, false)
}

func (f *FloatingSpace) requestWindowSize(tile *Tile, size generaldata.Size, animate bool) {
	mn, mx := tile.window.MinSize(), tile.window.MaxSize()
	size.W = math.Max(size.W, math.Max(mn.W, 1))
	size.H = math.Max(size.H, math.Max(mn.H, 1))
	if mx.W > 0 {
		size.W = math.Min(size.W, mx.W)
	}
	if mx.H > 0 {
		size.H = math.Min(size.H, mx.H)
	}
	tile.window.RequestSize(size.Floor(), SIZING_NORMAL, animate, nil)
}

// initialPos centers a new tile over its parent, or in the working area
func (f *FloatingSpace) initialPos(tile *Tile, size generaldata.Size) generaldata.Point {
	area := f.workingArea
	if parent, ok := tile.window.ParentID(); ok {
		if i := f.position(parent); i >= 0 {
			area = generaldata.Rectangle{Loc: f.data[i].logicalPos, Size: f.data[i].size}
		}
	}
	return generaldata.Point{
		X: area.Loc.X + (area.Size.W-size.W)/2,
		Y: area.Loc.Y + (area.Size.H-size.H)/2,
	}
}

// RemoveTile takes a tile out of the layer, remembering its floating position and size on it
func (f *FloatingSpace) RemoveTile(id WindowID) *Tile {
	idx := f.position(id)
	if idx < 0 {
		return nil
	}
	tile := f.tiles[idx]
	pos := f.data[idx].pos
	size := tile.WindowSize()
	tile.floatingPos = &pos
	tile.floatingWindowSize = &size

	f.tiles = append(f.tiles[:idx], f.tiles[idx+1:]...)
	f.data = append(f.data[:idx], f.data[idx+1:]...)
	if f.interactiveResize != nil && f.interactiveResize.window == id {
		f.interactiveResize = nil
	}
	if f.hasActive && f.active == id {
		if len(f.tiles) > 0 {
			f.active = f.tiles[0].ID()
		} else {
			f.hasActive = false
			f.active = 0
		}
	}
	return tile
}

// isDescendant reports whether the tile is a transient child of ancestor, directly or not
func (f *FloatingSpace) isDescendant(tile *Tile, ancestor WindowID) bool {
	cur := tile
	for range len(f.tiles) {
		parent, ok := cur.window.ParentID()
		if !ok {
			return false
		}
		if parent == ancestor {
			return true
		}
		i := f.position(parent)
		if i < 0 {
			return false
		}
		cur = f.tiles[i]
	}
	return false
}

func (f *FloatingSpace) moveToIdx(from, to int) {
	tile, data := f.tiles[from], f.data[from]
	f.tiles = append(f.tiles[:from], f.tiles[from+1:]...)
	f.data = append(f.data[:from], f.data[from+1:]...)
	f.tiles = append(f.tiles[:to], append([]*Tile{tile}, f.tiles[to:]...)...)
	f.data = append(f.data[:to], append([]floatingData{data}, f.data[to:]...)...)
}

// raise puts the window on top, with its descendants above it in their current order
func (f *FloatingSpace) raise(id WindowID) {
	idx := f.position(id)
	if idx < 0 {
		return
	}
	f.moveToIdx(idx, 0)
	var children []int
	for i := 1; i < len(f.tiles); i++ {
		if f.isDescendant(f.tiles[i], id) {
			children = append(children, i)
		}
	}
	for n, i := range children {
		f.moveToIdx(i, n)
	}
}

// fixStacking moves children that ended up below their parent right above it
func (f *FloatingSpace) fixStacking() {
	// Bounded so that a parent cycle can't loop forever
	budget := len(f.tiles) * len(f.tiles)
	for i := 0; i < len(f.tiles) && budget > 0; i++ {
		parent, ok := f.tiles[i].window.ParentID()
		if !ok {
			continue
		}
		if p := f.position(parent); p >= 0 && p < i {
			f.moveToIdx(i, p)
			i = p
			budget--
		}
	}
}

// ActivateWindow focuses a window and raises it together with its children
func (f *FloatingSpace) ActivateWindow(id WindowID) bool {
	if f.position(id) < 0 {
		return false
	}
	f.active, f.hasActive = id, true
	f.raise(id)
	return true
}

type direction int

const (
	DIRECTION_LEFT = direction(iota)
	DIRECTION_RIGHT
	DIRECTION_UP
	DIRECTION_DOWN
)

func (f *FloatingSpace) center(idx int) generaldata.Point {
	return generaldata.Rectangle{Loc: f.data[idx].logicalPos, Size: f.data[idx].size}.Center()
}

func (f *FloatingSpace) focusDirectional(dir direction) bool {
	if !f.hasActive {
		return false
	}
	cur := f.position(f.active)
	c := f.center(cur)
	best, bestDist := -1, math.Inf(1)
	for i := range f.tiles {
		if i == cur {
			continue
		}
		o := f.center(i)
		var inDir bool
		switch dir {
		case DIRECTION_LEFT:
			inDir = o.X < c.X
		case DIRECTION_RIGHT:
			inDir = o.X > c.X
		case DIRECTION_UP:
			inDir = o.Y < c.Y
		case DIRECTION_DOWN:
			inDir = o.Y > c.Y
		}
		if !inDir {
			continue
		}
		if d := c.Dist(o); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return false
	}
	return f.ActivateWindow(f.tiles[best].ID())
}

func (f *FloatingSpace) FocusLeft() bool {
	return f.focusDirectional(DIRECTION_LEFT)
}

func (f *FloatingSpace) FocusRight() bool {
	return f.focusDirectional(DIRECTION_RIGHT)
}

func (f *FloatingSpace) FocusUp() bool {
	return f.focusDirectional(DIRECTION_UP)
}

func (f *FloatingSpace) FocusDown() bool {
	return f.focusDirectional(DIRECTION_DOWN)
}

func (f *FloatingSpace) resolveTarget(id WindowID) int {
	if id == 0 {
		if !f.hasActive {
			return -1
		}
		id = f.active
	}
	return f.position(id)
}

// moveTo sets the logical position of the tile at idx, sliding it there if animate
func (f *FloatingSpace) moveTo(idx int, pos generaldata.Point, animate bool) {
	old := f.data[idx].logicalPos
	f.data[idx].pos = f.logicalToSizeFracInWorkingArea(pos)
	f.recomputeLogicalPos(idx)
	if animate {
		if delta := old.Sub(f.data[idx].logicalPos); delta != (generaldata.Point{}) {
			f.tiles[idx].AnimateMoveFrom(delta)
		}
	}
}

// MoveBy moves a window by delta, id 0 being the active window
func (f *FloatingSpace) MoveBy(id WindowID, delta generaldata.Point, animate bool) bool {
	idx := f.resolveTarget(id)
	if idx < 0 {
		return false
	}
	f.moveTo(idx, f.data[idx].logicalPos.Add(delta), animate)
	return true
}

func (f *FloatingSpace) MoveLeft() bool {
	return f.MoveBy(0, generaldata.Point{X: -floatingMoveStep}, true)
}

func (f *FloatingSpace) MoveRight() bool {
	return f.MoveBy(0, generaldata.Point{X: floatingMoveStep}, true)
}

func (f *FloatingSpace) MoveUp() bool {
	return f.MoveBy(0, generaldata.Point{Y: -floatingMoveStep}, true)
}

func (f *FloatingSpace) MoveDown() bool {
	return f.MoveBy(0, generaldata.Point{Y: floatingMoveStep}, true)
}

// MoveWindow sets or adjusts the position of a window relative to the working area.
// A nil change leaves that axis alone.
func (f *FloatingSpace) MoveWindow(id WindowID, x, y *PositionChange, animate bool) bool {
	idx := f.resolveTarget(id)
	if idx < 0 {
		return false
	}
	pos := f.data[idx].logicalPos.Sub(f.workingArea.Loc)
	if x != nil {
		pos.X = x.apply(pos.X)
	}
	if y != nil {
		pos.Y = y.apply(pos.Y)
	}
	f.moveTo(idx, pos.Add(f.workingArea.Loc), animate)
	return true
}

// CenterWindow moves a window to the middle of the working area
func (f *FloatingSpace) CenterWindow(id WindowID) bool {
	idx := f.resolveTarget(id)
	if idx < 0 {
		return false
	}
	size := f.data[idx].size
	area := f.workingArea
	f.moveTo(idx, generaldata.Point{
		X: area.Loc.X + (area.Size.W-size.W)/2,
		Y: area.Loc.Y + (area.Size.H-size.H)/2,
	}, true)
	return true
}

func (f *FloatingSpace) resolveSizeChange(change SizeChange, current, areaSize float64) float64 {
	var v float64
	switch change.Kind {
	case SET_FIXED:
		v = change.Value
	case SET_PROPORTION:
		v = areaSize * change.Value / 100
	case ADJUST_FIXED:
		v = current + change.Value
	case ADJUST_PROPORTION:
		v = current + areaSize*change.Value/100
	}
	return util.Clamp(v, 1, maxPx)
}

// SetWindowWidth changes the tile width of a floating window, id 0 being the active window
func (f *FloatingSpace) SetWindowWidth(id WindowID, change SizeChange, animate bool) bool {
	idx := f.resolveTarget(id)
	if idx < 0 {
		return false
	}
	tile := f.tiles[idx]
	tile.floatingPresetWidthIdx = -1
	w := f.resolveSizeChange(change, f.data[idx].size.W, f.workingArea.Size.W)
	f.resizeTile(tile, generaldata.Size{W: tile.WindowWidthForTileWidth(w), H: tile.WindowSize().H}, animate)
	return true
}

// SetWindowHeight changes the tile height of a floating window, id 0 being the active window
func (f *FloatingSpace) SetWindowHeight(id WindowID, change SizeChange, animate bool) bool {
	idx := f.resolveTarget(id)
	if idx < 0 {
		return false
	}
	tile := f.tiles[idx]
	tile.floatingPresetHeightIdx = -1
	h := f.resolveSizeChange(change, f.data[idx].size.H, f.workingArea.Size.H)
	f.resizeTile(tile, generaldata.Size{W: tile.WindowSize().W, H: tile.WindowHeightForTileHeight(h)}, animate)
	return true
}

func (f *FloatingSpace) resizeTile(tile *Tile, windowSize generaldata.Size, animate bool) {
	f.requestWindowSize(tile, windowSize, animate)
}

// nextPreset returns the preset index after current, or the first preset past size if there is none
func nextPreset(current, n int, size float64, resolve func(int) float64, forward bool) int {
	if current >= 0 && current < n {
		if forward {
			return (current + 1) % n
		}
		return (current + n - 1) % n
	}
	if forward {
		for i := range n {
			if resolve(i) > size+1 {
				return i
			}
		}
		return 0
	}
	for i := n - 1; i >= 0; i-- {
		if resolve(i) < size-1 {
			return i
		}
	}
	return n - 1
}

// ToggleWindowWidth cycles a floating window through the preset column widths
func (f *FloatingSpace) ToggleWindowWidth(id WindowID, forward bool) bool {
	idx := f.resolveTarget(id)
	presets := f.options.PresetColumnWidths
	if idx < 0 || len(presets) == 0 {
		return false
	}
	tile := f.tiles[idx]
	resolve := func(i int) float64 {
		return columnWidthFromPreset(presets[i]).Resolve(f.options, f.workingArea.Size.W)
	}
	next := nextPreset(tile.floatingPresetWidthIdx, len(presets), f.data[idx].size.W, resolve, forward)
	tile.floatingPresetWidthIdx = next
	f.resizeTile(tile, generaldata.Size{W: tile.WindowWidthForTileWidth(resolve(next)), H: tile.WindowSize().H}, true)
	return true
}

// ToggleWindowHeight cycles a floating window through the preset window heights
func (f *FloatingSpace) ToggleWindowHeight(id WindowID, forward bool) bool {
	idx := f.resolveTarget(id)
	presets := f.options.PresetWindowHeights
	if idx < 0 || len(presets) == 0 {
		return false
	}
	tile := f.tiles[idx]
	resolve := func(i int) float64 {
		return resolvePresetHeight(f.options, f.workingArea.Size.H, i)
	}
	next := nextPreset(tile.floatingPresetHeightIdx, len(presets), f.data[idx].size.H, resolve, forward)
	tile.floatingPresetHeightIdx = next
	f.resizeTile(tile, generaldata.Size{W: tile.WindowSize().W, H: tile.WindowHeightForTileHeight(resolve(next))}, true)
	return true
}

// InteractiveResizeBegin starts resizing a floating window by its edges
func (f *FloatingSpace) InteractiveResizeBegin(id WindowID, edges ResizeEdge) bool {
	idx := f.position(id)
	if idx < 0 || edges == 0 || f.interactiveResize != nil {
		return false
	}
	f.interactiveResize = &floatingResize{
		window:           id,
		edges:            edges,
		originalSize:     f.tiles[idx].WindowSize(),
		originalPos:      f.data[idx].logicalPos,
		originalTileSize: f.data[idx].size,
	}
	return true
}

// InteractiveResizeUpdate applies the pointer movement since the resize started
func (f *FloatingSpace) InteractiveResizeUpdate(id WindowID, delta generaldata.Point) bool {
	resize := f.interactiveResize
	if resize == nil || resize.window != id {
		return false
	}
	idx := f.position(id)
	if idx < 0 {
		f.interactiveResize = nil
		return false
	}
	size := resize.originalSize
	if resize.edges.Has(RESIZE_EDGE_LEFT) {
		size.W -= delta.X
	} else if resize.edges.Has(RESIZE_EDGE_RIGHT) {
		size.W += delta.X
	}
	if resize.edges.Has(RESIZE_EDGE_TOP) {
		size.H -= delta.Y
	} else if resize.edges.Has(RESIZE_EDGE_BOTTOM) {
		size.H += delta.Y
	}
	size.W = util.Clamp(size.W, 1, maxPx)
	size.H = util.Clamp(size.H, 1, maxPx)
	f.resizeTile(f.tiles[idx], size, false)
	return true
}

func (f *FloatingSpace) InteractiveResizeEnd(id WindowID) bool {
	if f.interactiveResize == nil || (id != 0 && f.interactiveResize.window != id) {
		return false
	}
	f.interactiveResize = nil
	return true
}

// UpdateWindow syncs the cached size of a window. Windows resized by their left or top edge
// keep their opposite edge in place.
func (f *FloatingSpace) UpdateWindow(id WindowID) bool {
	idx := f.position(id)
	if idx < 0 {
		return false
	}
	tile := f.tiles[idx]
	tile.UpdateWindow()
	f.data[idx].size = tile.TileSize()

	if r := f.interactiveResize; r != nil && r.window == id {
		pos := f.data[idx].logicalPos
		if r.edges.Has(RESIZE_EDGE_LEFT) {
			pos.X = r.originalPos.X + r.originalTileSize.W - f.data[idx].size.W
		}
		if r.edges.Has(RESIZE_EDGE_TOP) {
			pos.Y = r.originalPos.Y + r.originalTileSize.H - f.data[idx].size.H
		}
		f.data[idx].pos = f.logicalToSizeFracInWorkingArea(pos)
	}
	f.recomputeLogicalPos(idx)
	return true
}

// UpdateConfig applies new output geometry or options and rescales every position
func (f *FloatingSpace) UpdateConfig(output OutputInfo, options *Options) {
	f.applyOutput(output, options)
	for i, t := range f.tiles {
		t.UpdateConfig(f.viewSize, f.scale, f.options)
		f.data[i].size = t.TileSize()
		f.recomputeLogicalPos(i)
	}
}

func (f *FloatingSpace) AdvanceAnimations() {
	for _, t := range f.tiles {
		t.AdvanceAnimations()
	}
}

func (f *FloatingSpace) AreAnimationsOngoing() bool {
	for _, t := range f.tiles {
		if t.AreAnimationsOngoing() {
			return true
		}
	}
	return false
}

// TilesWithRenderPositions lists the tiles topmost first
func (f *FloatingSpace) TilesWithRenderPositions() []TileRenderPosition {
	res := make([]TileRenderPosition, 0, len(f.tiles))
	for i, t := range f.tiles {
		pos := f.data[i].logicalPos.Add(t.RenderOffset())
		res = append(res, TileRenderPosition{
			Tile:       t,
			Pos:        pos.ToPhysicalPrecise(f.scale),
			IsActive:   f.hasActive && f.active == t.ID(),
			IsFloating: true,
		})
	}
	return res
}
