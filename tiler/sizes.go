// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/veighnsche/niri-sub001/config"
	"github.com/veighnsche/niri-sub001/util"
)

const (
	// Upper bounds for user supplied sizes
	maxPx         = 100000.0
	maxProportion = 10000.0
)

type ColumnWidthKind int

const (
	WIDTH_PROPORTION = ColumnWidthKind(iota)
	WIDTH_FIXED
	WIDTH_PRESET
)

// ColumnWidth is the width of a column as the user asked for it
type ColumnWidth struct {
	Kind ColumnWidthKind
	// Proportion of the working area, or fixed tile width in logical pixels
	Value float64
	// Index into the preset widths for WIDTH_PRESET
	Preset int
}

func WidthProportion(p float64) ColumnWidth { return ColumnWidth{Kind: WIDTH_PROPORTION, Value: p} }
func WidthFixed(px float64) ColumnWidth { return ColumnWidth{Kind: WIDTH_FIXED, Value: px} }
func WidthPreset(idx int) ColumnWidth { return ColumnWidth{Kind: WIDTH_PRESET, Preset: idx} }

func columnWidthFromPreset(p config.PresetSize) ColumnWidth {
	if p.Fixed > 0 {
		return WidthFixed(p.Fixed)
	}
	return WidthProportion(p.Proportion)
}

func (w ColumnWidth) String() string {
	switch w.Kind {
	case WIDTH_FIXED:
		return fmt.Sprintf("fixed(%g)", w.Value)
	case WIDTH_PRESET:
		return fmt.Sprintf("preset(%d)", w.Preset)
	}
	return fmt.Sprintf("proportion(%g)", w.Value)
}

// withoutPreset replaces a preset reference with the preset's value
func (w ColumnWidth) withoutPreset(o *Options) ColumnWidth {
	if w.Kind != WIDTH_PRESET {
		return w
	}
	if len(o.PresetColumnWidths) == 0 {
		return WidthProportion(0.5)
	}
	idx := util.Clamp(w.Preset, 0, len(o.PresetColumnWidths)-1)
	return columnWidthFromPreset(o.PresetColumnWidths[idx])
}

// Resolve returns the tile width in logical pixels.
// Proportions leave room for the gaps, so that two half width columns fill the area exactly.
func (w ColumnWidth) Resolve(o *Options, areaWidth float64) float64 {
	w = w.withoutPreset(o)
	switch w.Kind {
	case WIDTH_FIXED:
		return util.Clamp(w.Value, 1, maxPx)
	default:
		p := util.Clamp(w.Value, 0, maxProportion)
		return max((areaWidth-o.Gaps)*p-o.Gaps, 1)
	}
}

type WindowHeightKind int

const (
	HEIGHT_AUTO = WindowHeightKind(iota)
	HEIGHT_FIXED
	HEIGHT_PRESET
)

// WindowHeight is the height of one tile within its column
type WindowHeight struct {
	Kind WindowHeightKind
	// Weight for HEIGHT_AUTO, tile height in logical pixels for HEIGHT_FIXED
	Value  float64
	Preset int
}

func HeightAuto(weight float64) WindowHeight { return WindowHeight{Kind: HEIGHT_AUTO, Value: weight} }
func HeightFixed(px float64) WindowHeight { return WindowHeight{Kind: HEIGHT_FIXED, Value: px} }
func HeightPreset(idx int) WindowHeight { return WindowHeight{Kind: HEIGHT_PRESET, Preset: idx} }

func (h WindowHeight) IsAuto() bool { return h.Kind == HEIGHT_AUTO }

func (h WindowHeight) weight() float64 {
	if h.Value <= 0 {
		return 1
	}
	return h.Value
}

func (h WindowHeight) String() string {
	switch h.Kind {
	case HEIGHT_FIXED:
		return fmt.Sprintf("fixed(%g)", h.Value)
	case HEIGHT_PRESET:
		return fmt.Sprintf("preset(%d)", h.Preset)
	}
	return fmt.Sprintf("auto(%g)", h.weight())
}

// resolvePresetHeight returns the tile height of a preset window height
func resolvePresetHeight(o *Options, areaHeight float64, idx int) float64 {
	if len(o.PresetWindowHeights) == 0 {
		return max((areaHeight-o.Gaps)*0.5-o.Gaps, 1)
	}
	p := o.PresetWindowHeights[util.Clamp(idx, 0, len(o.PresetWindowHeights)-1)]
	if p.Fixed > 0 {
		return util.Clamp(p.Fixed, 1, maxPx)
	}
	return max((areaHeight-o.Gaps)*util.Clamp(p.Proportion, 0, maxProportion)-o.Gaps, 1)
}

type SizeChangeKind int

const (
	SET_FIXED = SizeChangeKind(iota)
	SET_PROPORTION
	ADJUST_FIXED
	ADJUST_PROPORTION
)

// SizeChange is a user request to change a width or height.
// Proportions are in percent.
type SizeChange struct {
	Kind  SizeChangeKind
	Value float64
}

// ParseSizeChange parses "800", "+10", "-10", "50%", "+5%" and "-5%"
func ParseSizeChange(s string) (SizeChange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SizeChange{}, fmt.Errorf("empty size change")
	}
	relative := s[0] == '+' || s[0] == '-'
	percent := strings.HasSuffix(s, "%")
	num := strings.TrimSuffix(s, "%")
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return SizeChange{}, fmt.Errorf("invalid size change %q: %w", s, err)
	}
	switch {
	case relative && percent:
		return SizeChange{Kind: ADJUST_PROPORTION, Value: v}, nil
	case relative:
		return SizeChange{Kind: ADJUST_FIXED, Value: v}, nil
	case percent:
		return SizeChange{Kind: SET_PROPORTION, Value: v}, nil
	default:
		return SizeChange{Kind: SET_FIXED, Value: v}, nil
	}
}

// sizeChangeFromPreset turns a preset into an absolute size change
func sizeChangeFromPreset(p config.PresetSize) SizeChange {
	if p.Fixed > 0 {
		return SizeChange{Kind: SET_FIXED, Value: p.Fixed}
	}
	return SizeChange{Kind: SET_PROPORTION, Value: p.Proportion * 100}
}

type PositionChangeKind int

const (
	POSITION_SET = PositionChangeKind(iota)
	POSITION_ADJUST
)

// PositionChange moves a floating window along one axis
type PositionChange struct {
	Kind  PositionChangeKind
	Value float64
}

// ParsePositionChange parses "100" (absolute) and "+10" / "-10" (relative)
func ParsePositionChange(s string) (PositionChange, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return PositionChange{}, fmt.Errorf("invalid position change %q: %w", s, err)
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return PositionChange{Kind: POSITION_ADJUST, Value: v}, nil
	}
	return PositionChange{Kind: POSITION_SET, Value: v}, nil
}

func (c PositionChange) apply(current float64) float64 {
	if c.Kind == POSITION_ADJUST {
		return current + c.Value
	}
	return c.Value
}
