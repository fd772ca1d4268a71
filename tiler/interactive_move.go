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

// Squared distance the pointer has to travel before a window gets picked up
const interactiveMoveStartThresholdSq = 16 * 16

type interactiveMoveState int

const (
	MOVE_STARTING = interactiveMoveState(iota)
	MOVE_MOVING
)

// moveOrigin is where a moved window came from, for putting it back on cancel
type moveOrigin struct {
	canvas      *Canvas2D
	floating    bool
	row         int
	column      int
	tile        int
	width       ColumnWidth
	isFullWidth bool
	// The window was alone in its column, so the column went away with it
	ownColumn bool
}

type interactiveMove struct {
	state  interactiveMoveState
	window WindowID
	// Only set while moving, the tile is out of the layout then
	tile    *Tile
	output  string
	start   generaldata.Point
	pointer generaldata.Point
	// Where the pointer holds the tile, as a fraction of its size
	grab   generaldata.Point
	origin moveOrigin
}

func (mv *interactiveMove) renderPosition() TileRenderPosition {
	size := mv.tile.AnimatedTileSize()
	pos := mv.pointer.Sub(mv.grab.Upscale(size))
	return TileRenderPosition{
		Tile:       mv.tile,
		Pos:        pos.Add(mv.tile.RenderOffset()),
		IsActive:   true,
		IsFloating: mv.origin.floating,
	}
}

func (l *Layout) IsInteractiveMoveOngoing() bool {
	return l.interactiveMove != nil
}

// InteractiveMoveBegin arms a move of a window grabbed at pointer, relative to the output.
// The window only gets picked up once the pointer moved far enough.
func (l *Layout) InteractiveMoveBegin(id WindowID, output string, pointer generaldata.Point) bool {
	if l.interactiveMove != nil {
		return false
	}
	c, m := l.canvasOf(id)
	if c == nil {
		return false
	}
	grab := generaldata.Pt(0.5, 0)
	if m != nil {
		for _, p := range m.TilesWithRenderPositions() {
			if p.Tile.ID() != id {
				continue
			}
			size := p.Tile.TileSize()
			if size.W > 0 && size.H > 0 {
				grab.X = util.Clamp((pointer.X-p.Pos.X)/size.W, 0, 1)
				grab.Y = util.Clamp((pointer.Y-p.Pos.Y)/size.H, 0, 1)
			}
			break
		}
		output = m.output.Name
	}
	l.interactiveMove = &interactiveMove{
		state:   MOVE_STARTING,
		window:  id,
		output:  output,
		start:   pointer,
		pointer: pointer,
		grab:    grab,
	}
	return true
}

// InteractiveMoveUpdate follows the pointer, picking the window up once past the threshold
func (l *Layout) InteractiveMoveUpdate(id WindowID, output string, pointer generaldata.Point) bool {
	mv := l.interactiveMove
	if mv == nil || mv.window != id {
		return false
	}
	mv.pointer = pointer
	if mv.state == MOVE_STARTING {
		d := pointer.Sub(mv.start)
		if d.X*d.X+d.Y*d.Y < interactiveMoveStartThresholdSq {
			return true
		}
		l.run("interactive-move-start", l.pickUpMovedWindow)
		if l.interactiveMove == nil {
			return false
		}
	}

	if m := l.MonitorByName(output); m != nil && output != mv.output {
		if prev := l.MonitorByName(mv.output); prev != nil {
			prev.ClearInsertHint()
			prev.DndScrollEnd()
		}
		mv.output = output
	}
	if m := l.MonitorByName(mv.output); m != nil {
		m.UpdateInsertHint(pointer, mv.origin.floating)
		if !mv.origin.floating {
			m.DndScrollUpdate(pointer)
		}
	}
	return true
}

// pickUpMovedWindow takes the window out of the layout, leaving fullscreen and maximized first
func (l *Layout) pickUpMovedWindow() {
	mv := l.interactiveMove
	c, _ := l.canvasOf(mv.window)
	if c == nil {
		l.interactiveMove = nil
		return
	}
	if row, floating, _ := c.FindWindow(mv.window); !floating {
		colIdx, _, _ := row.find(mv.window)
		if !row.columns[colIdx].SizingMode().IsNormal() {
			c.SetFullscreen(mv.window, false)
			c.SetMaximized(mv.window, false)
		}
	}

	row, floating, _ := c.FindWindow(mv.window)
	origin := moveOrigin{canvas: c, floating: floating}
	var tile *Tile
	if floating {
		tile = c.floating.RemoveTile(mv.window)
		if c.floating.IsEmpty() {
			c.floatingIsActive = false
		}
	} else {
		colIdx, tileIdx, _ := row.find(mv.window)
		col := row.columns[colIdx]
		origin.row = row.idx
		origin.column = colIdx
		origin.tile = tileIdx
		origin.width = col.width
		origin.isFullWidth = col.isFullWidth
		origin.ownColumn = col.Len() == 1
		tile = row.removeTileByIdx(colIdx, tileIdx)
	}
	tile.StopMoveAnimations()
	mv.tile = tile
	mv.origin = origin
	mv.state = MOVE_MOVING
	logrus.WithFields(logrus.Fields{
		"window":   mv.window,
		"floating": floating,
	}).Debugln("Interactive move started")
}

// InteractiveMoveEnd drops the window where the insert hint shows
func (l *Layout) InteractiveMoveEnd(id WindowID) bool {
	mv := l.interactiveMove
	if mv == nil || mv.window != id {
		return false
	}
	if mv.state == MOVE_STARTING {
		l.interactiveMove = nil
		return true
	}

	l.run("interactive-move-end", func() {
		m := l.MonitorByName(mv.output)
		if m == nil {
			m = l.ActiveMonitor()
		}
		if m == nil {
			l.cancelInteractiveMove()
			return
		}
		from := mv.renderPosition().Pos
		m.DndScrollEnd()
		hint, ok := m.InsertHint()
		if !ok {
			hint = m.UpdateInsertHint(mv.pointer, mv.origin.floating)
		}
		m.ClearInsertHint()
		l.interactiveMove = nil

		tile := mv.tile
		c := m.canvas
		switch hint.Position.Kind {
		case INSERT_FLOATING:
			frac := c.floating.logicalToSizeFracInWorkingArea(from.Sub(tile.RenderOffset()))
			tile.floatingPos = &frac
			c.floating.AddTile(tile, true)
			c.floatingIsActive = true
		case INSERT_IN_COLUMN:
			row := c.EnsureRow(hint.Row)
			row.AddTileToColumn(hint.Position.Column, hint.Position.Tile, tile, true)
			c.floatingIsActive = false
			c.setActiveRow(hint.Row)
		default:
			var width *ColumnWidth
			fullWidth := false
			if !mv.origin.floating {
				width, fullWidth = &mv.origin.width, mv.origin.isFullWidth
			}
			row := c.EnsureRow(hint.Row)
			row.AddTile(hint.Position.Column, tile, true, width, fullWidth)
			c.floatingIsActive = false
			c.setActiveRow(hint.Row)
		}
		l.activeMonitorIdx = l.monitorIdx(m.output.Name)

		for _, p := range m.TilesWithRenderPositions() {
			if p.Tile == tile {
				tile.AnimateMoveFrom(from.Sub(p.Pos))
				break
			}
		}
		logrus.WithFields(logrus.Fields{
			"window":   id,
			"position": hint.Position.String(),
		}).Debugln("Interactive move ended")
	})
	return true
}

// InteractiveMoveCancel puts the moved window back where it was picked up
func (l *Layout) InteractiveMoveCancel() {
	if l.interactiveMove == nil {
		return
	}
	l.run("interactive-move-cancel", l.cancelInteractiveMove)
}

func (l *Layout) cancelInteractiveMove() {
	mv := l.interactiveMove
	l.dropInteractiveMove()
	if mv.state != MOVE_MOVING {
		return
	}
	o := mv.origin
	c := o.canvas
	if o.floating {
		c.floating.AddTile(mv.tile, true)
		c.floatingIsActive = true
		return
	}
	row := c.EnsureRow(o.row)
	if o.ownColumn || o.column >= len(row.columns) {
		row.AddTile(o.column, mv.tile, true, &o.width, o.isFullWidth)
	} else {
		row.AddTileToColumn(o.column, o.tile, mv.tile, true)
	}
	c.floatingIsActive = false
	c.setActiveRow(o.row)
}

// dropInteractiveMove forgets the move and everything it showed
func (l *Layout) dropInteractiveMove() {
	for _, m := range l.monitors {
		m.ClearInsertHint()
		m.DndScrollEnd()
	}
	l.interactiveMove = nil
}
