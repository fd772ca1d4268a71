// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"github.com/sirupsen/logrus"
	"github.com/veighnsche/niri-sub001/config"
	generaldata "github.com/veighnsche/niri-sub001/general-data"
)

type CenterMode int

const (
	CENTER_NEVER = CenterMode(iota)
	CENTER_ALWAYS
	CENTER_ON_OVERFLOW
)

type ColumnDisplay int

const (
	DISPLAY_NORMAL = ColumnDisplay(iota)
	DISPLAY_TABBED
)

func (d ColumnDisplay) String() string {
	if d == DISPLAY_TABBED {
		return "tabbed"
	}
	return "normal"
}

func parseColumnDisplay(s string) ColumnDisplay {
	if s == config.DISPLAY_TABBED {
		return DISPLAY_TABBED
	}
	return DISPLAY_NORMAL
}

// Options is the layout's view of the configuration. It is replaced as a whole on reload
// and never modified in place.
type Options struct {
	Gaps                     float64
	Struts                   config.Struts
	CenterFocusedColumn      CenterMode
	AlwaysCenterSingleColumn bool
	// Nil means new columns take whatever width the window picks
	DefaultColumnWidth   *ColumnWidth
	PresetColumnWidths   []config.PresetSize
	PresetWindowHeights  []config.PresetSize
	DefaultColumnDisplay ColumnDisplay

	Border       config.BorderConfig
	FocusRing    config.BorderConfig
	Shadow       config.ShadowConfig
	TabIndicator config.TabIndicatorConfig

	Animations        config.ResolvedAnimations
	DndEdgeViewScroll config.DndEdgeConfig

	CheckInvariants bool
}

// OptionsFromConfig resolves a config into layout options.
// Values that fail to resolve are logged and replaced with defaults.
func OptionsFromConfig(cfg *config.Config) *Options {
	anims, err := cfg.Animations.Resolve()
	if err != nil {
		logrus.WithError(err).Warnln("Some animations could not be resolved, using defaults for them")
	}

	o := &Options{
		Gaps:                     max(cfg.Layout.Gaps, 0),
		Struts:                   cfg.Layout.Struts,
		AlwaysCenterSingleColumn: cfg.Layout.AlwaysCenterSingleColumn,
		PresetColumnWidths:       cfg.Layout.PresetColumnWidths,
		PresetWindowHeights:      cfg.Layout.PresetWindowHeights,
		DefaultColumnDisplay:     parseColumnDisplay(cfg.Layout.DefaultColumnDisplay),
		Border:                   cfg.Layout.Border,
		FocusRing:                cfg.Layout.FocusRing,
		Shadow:                   cfg.Layout.Shadow,
		TabIndicator:             cfg.Layout.TabIndicator,
		Animations:               anims,
		DndEdgeViewScroll:        cfg.Gestures.DndEdgeViewScroll,
		CheckInvariants:          cfg.Debug.CheckInvariants,
	}
	switch cfg.Layout.CenterFocusedColumn {
	case config.CENTER_ALWAYS:
		o.CenterFocusedColumn = CENTER_ALWAYS
	case config.CENTER_ON_OVERFLOW:
		o.CenterFocusedColumn = CENTER_ON_OVERFLOW
	default:
		o.CenterFocusedColumn = CENTER_NEVER
	}
	if cfg.Layout.DefaultColumnWidth.IsSet() {
		w := columnWidthFromPreset(cfg.Layout.DefaultColumnWidth)
		o.DefaultColumnWidth = &w
	}
	return o
}

// DefaultOptions are the options of the default config
func DefaultOptions() *Options {
	return OptionsFromConfig(config.DefaultConfig())
}

// AdjustedForScale rounds sizes that have to land on physical pixels
func (o *Options) AdjustedForScale(scale float64) *Options {
	c := *o
	c.Gaps = generaldata.RoundLogicalInPhysicalMax1(scale, o.Gaps)
	c.Border.Width = generaldata.RoundLogicalInPhysicalMax1(scale, o.Border.Width)
	c.FocusRing.Width = generaldata.RoundLogicalInPhysicalMax1(scale, o.FocusRing.Width)
	return &c
}
