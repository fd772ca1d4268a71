// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"github.com/veighnsche/niri-sub001/common/ipc"
	generaldata "github.com/veighnsche/niri-sub001/general-data"
)

func vec2f(p generaldata.Point) ipc.Vec2[float64] {
	return ipc.Vec2[float64]{X: p.X, Y: p.Y}
}

func tileInfo(t *Tile, output string, focused WindowID) ipc.Window {
	w := t.window
	size := t.TileSize()
	wsize := t.WindowSize().Floor()
	return ipc.Window{
		ID:        uint64(t.ID()),
		Title:     w.Title(),
		AppID:     w.AppID(),
		Output:    output,
		IsFocused: t.ID() == focused,
		IsUrgent:  w.IsUrgent(),
		Layout: ipc.WindowLayout{
			TileSize:           ipc.Vec2[float64]{X: size.W, Y: size.H},
			WindowSize:         ipc.Vec2[int32]{X: int32(wsize.X), Y: int32(wsize.Y)},
			WindowOffsetInTile: vec2f(t.WindowLoc()),
		},
	}
}

func (l *Layout) outputName(c *Canvas2D) string {
	if m := l.monitorOf(c); m != nil {
		return m.output.Name
	}
	return ""
}

// Windows returns a snapshot of every window in the layout
func (l *Layout) Windows() []ipc.Window {
	focused, _ := l.FocusedWindow()
	var res []ipc.Window
	if mv := l.interactiveMove; mv != nil && mv.state == MOVE_MOVING {
		info := tileInfo(mv.tile, mv.output, focused)
		info.IsFloating = mv.origin.floating
		res = append(res, info)
	}
	for _, c := range l.canvases() {
		output := l.outputName(c)
		for i, t := range c.floating.Tiles() {
			info := tileInfo(t, output, focused)
			info.IsFloating = true
			pos := c.floating.data[i].logicalPos
			info.Layout.TilePosInRowView = &ipc.Vec2[float64]{X: pos.X, Y: pos.Y}
			res = append(res, info)
		}
		for _, r := range c.Rows() {
			rowID := uint64(r.id)
			isActiveRow := r.idx == c.activeRowIdx
			viewPos := r.ViewPos()
			for ci, col := range r.columns {
				for ti, t := range col.tiles {
					info := tileInfo(t, output, focused)
					info.RowID = &rowID
					info.Layout.PosInScrollingLayout = &ipc.Vec2[uint32]{X: uint32(ci + 1), Y: uint32(ti + 1)}
					if isActiveRow {
						pos := r.tilePos(ci, ti).Sub(generaldata.Point{X: viewPos})
						info.Layout.TilePosInRowView = &ipc.Vec2[float64]{X: pos.X, Y: pos.Y}
					}
					res = append(res, info)
				}
			}
		}
	}
	return res
}

// RowsInfo returns a snapshot of every row on every output
func (l *Layout) RowsInfo() []ipc.Row {
	var res []ipc.Row
	active := l.ActiveCanvas()
	for _, c := range l.canvases() {
		output := l.outputName(c)
		for _, r := range c.Rows() {
			info := ipc.Row{
				ID:       uint64(r.id),
				Index:    r.idx,
				Output:   output,
				IsActive: r.idx == c.activeRowIdx,
				Columns:  len(r.columns),
			}
			info.IsFocused = info.IsActive && c == active
			if r.name != "" {
				name := r.name
				info.Name = &name
			}
			if t := r.ActiveTile(); t != nil {
				id := uint64(t.ID())
				info.ActiveWindowID = &id
			}
			res = append(res, info)
		}
	}
	return res
}

// OutputsInfo returns a snapshot of the outputs the layout knows about
func (l *Layout) OutputsInfo() []ipc.Output {
	res := make([]ipc.Output, 0, len(l.monitors))
	for i, m := range l.monitors {
		res = append(res, ipc.Output{
			Name:        m.output.Name,
			LogicalSize: ipc.Vec2[float64]{X: m.output.Size.W, Y: m.output.Size.H},
			Scale:       m.output.scale(),
			ActiveRow:   m.canvas.activeRowIdx,
			IsFocused:   i == l.activeMonitorIdx,
		})
	}
	return res
}
