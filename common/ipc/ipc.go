// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package ipc holds the data types exchanged with tools and introspection clients.
// The layout fills them, nothing in here knows about the layout itself.
package ipc

import (
	"encoding/json"
	"fmt"
)

// TODO: Look into adding support for sway and hyprland ipc so that w2g can interact with those in tool mode

type (
	// A request to list the available Outputs
	OutputRequest struct {
		// Whether to include the modes an output supports
		IncludeModes bool `json:"include_modes"`
		// Target one specific output
		SpecifiesOutput bool `json:"specifies_output"`
		// Name of the output you want info on. Only matters if SpecifiesOutput is set
		TargetOutput string `json:"target_output"`
	}

	// A mode an output supports
	OutputMode struct {
		// Mode height in pixel
		Height int `json:"height"`
		// Mode width in pixel
		Width int `json:"width"`
		// Refresh rate of the mode in millihertz
		RefreshRate int `json:"refresh_rate"`
	}

	// Response to a OutputRequest message
	OutputResponse struct {
		// List of all outputs. Only contains target output if specified
		Outputs []string `json:"outputs"`
		// A list of modes an output supports. Only set if IncludeModes is true
		OutputModes map[string][]OutputMode `json:"output_modes,omitempty"`
		// Nr of outputs found
		OutputsFound int `json:"outputs_found"`
	}
)

type (
	// A managed toplevel window
	Window struct {
		ID    uint64 `json:"id"`
		Title string `json:"title"`
		AppID string `json:"app_id"`
		// Unique id of the row the window is on, nil for floating windows and windows being moved
		RowID *uint64 `json:"row_id"`
		// Output the window is on, empty when no output is connected
		Output     string       `json:"output"`
		IsFocused  bool         `json:"is_focused"`
		IsFloating bool         `json:"is_floating"`
		IsUrgent   bool         `json:"is_urgent"`
		Layout     WindowLayout `json:"layout"`
	}

	// Position and size of a window. Everything is in logical pixels.
	WindowLayout struct {
		// 1-based (column, tile) index of a tiled window
		PosInScrollingLayout *Vec2[uint32] `json:"pos_in_scrolling_layout"`
		// Size of the tile including decorations
		TileSize Vec2[float64] `json:"tile_size"`
		// Size of the window geometry without decorations
		WindowSize Vec2[int32] `json:"window_size"`
		// Tile position within the current view of its row
		TilePosInRowView *Vec2[float64] `json:"tile_pos_in_row_view"`
		// Location of the window geometry within its tile
		WindowOffsetInTile Vec2[float64] `json:"window_offset_in_tile"`
	}

	// A row of the canvas
	Row struct {
		ID uint64 `json:"id"`
		// Signed index of the row on its output, 0 is the origin row
		Index  int     `json:"idx"`
		Name   *string `json:"name"`
		Output string  `json:"output"`
		// Whether the row is the active one of its output
		IsActive bool `json:"is_active"`
		// Whether the row has keyboard focus across all outputs
		IsFocused      bool    `json:"is_focused"`
		ActiveWindowID *uint64 `json:"active_window_id"`
		Columns        int     `json:"columns"`
	}

	// An output known to the layout
	Output struct {
		Name        string        `json:"name"`
		LogicalSize Vec2[float64] `json:"logical_size"`
		Scale       float64       `json:"scale"`
		ActiveRow   int           `json:"active_row"`
		IsFocused   bool          `json:"is_focused"`
	}
)

// Numeric is a type constraint for numeric types
type Numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Vec2 marshals to a 2-element JSON array
type Vec2[T Numeric] struct {
	X T
	Y T
}

func (v Vec2[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal([]T{v.X, v.Y})
}

func (v *Vec2[T]) UnmarshalJSON(data []byte) error {
	var arr []T
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	if len(arr) != 2 {
		return fmt.Errorf("expected array of length 2, got %d", len(arr))
	}
	v.X = arr[0]
	v.Y = arr[1]
	return nil
}
