// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"fmt"

	generaldata "github.com/veighnsche/niri-sub001/general-data"
)

// Thickness of the insert hint between columns or tiles
const insertHintWidth = 50.0

type InsertPositionKind int

const (
	INSERT_NEW_COLUMN = InsertPositionKind(iota)
	INSERT_IN_COLUMN
	INSERT_FLOATING
)

// InsertPosition is where a dragged window would land
type InsertPosition struct {
	Kind InsertPositionKind
	// Index of the new column, or of the column to insert into
	Column int
	// Index inside the column for INSERT_IN_COLUMN
	Tile int
}

func (p InsertPosition) String() string {
	switch p.Kind {
	case INSERT_IN_COLUMN:
		return fmt.Sprintf("in-column(%d, %d)", p.Column, p.Tile)
	case INSERT_FLOATING:
		return "floating"
	}
	return fmt.Sprintf("new-column(%d)", p.Column)
}

// InsertHint is the drop target shown on a monitor during an interactive move
type InsertHint struct {
	Row      int
	Position InsertPosition
	// Relative to the monitor, empty for floating drops
	Area generaldata.Rectangle
}
