// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	generaldata "github.com/veighnsche/niri-sub001/general-data"
)

// TileRenderPosition is one tile to draw this frame
type TileRenderPosition struct {
	Tile *Tile
	// Logical position relative to the output, move animations included
	Pos        generaldata.Point
	IsActive   bool
	IsFloating bool
}

// Geometry is the window rectangle, relative to the output
func (p TileRenderPosition) Geometry() generaldata.Rectangle {
	loc := p.Pos.Add(p.Tile.WindowLoc())
	return generaldata.Rectangle{Loc: loc, Size: p.Tile.WindowSize()}
}

func offsetRenderPositions(positions []TileRenderPosition, by generaldata.Point) []TileRenderPosition {
	for i := range positions {
		positions[i].Pos = positions[i].Pos.Add(by)
	}
	return positions
}
