// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package config

type StartType int

const (
	// Tells way2gay to start a repl in parallel for interacting with it
	START_REPL = StartType(iota)
	// Tells way2gay to execute a specific command on startup
	START_SINGLE_COMMAND
	// Tells way2gay to start without any specific targets
	// Note: Good luck interacting with it :3
	START_NONE
)

func (s StartType) String() string {
	switch s {
	case START_REPL:
		return "repl"
	case START_SINGLE_COMMAND:
		return "single-command"
	case START_NONE:
		return "none"
	}
	return "unknown"
}

type Config struct {
	StartType StartType `envconfig:"START_TYPE,omitempty" toml:"start_type,omitempty" yaml:"start_type,omitempty"`
	// What command to execute on start. Only matters if StartType is set to START_SINGLE_COMMAND
	StartCommand string `envconfig:"START_COMMAND,omitempty" toml:"start_command,omitempty" yaml:"start_command,omitempty"`
	// One of logrus' level names
	LogLevel string `envconfig:"LOG_LEVEL,omitempty" toml:"log_level,omitempty" yaml:"log_level,omitempty"`

	Layout      LayoutConfig     `toml:"layout" yaml:"layout"`
	Animations  AnimationsConfig `toml:"animations" yaml:"animations"`
	Gestures    GesturesConfig   `toml:"gestures" yaml:"gestures"`
	WindowRules []WindowRule     `toml:"window_rules" yaml:"window_rules"`
	Debug       DebugConfig      `toml:"debug" yaml:"debug"`
}

// Center modes for the focused column
const (
	CENTER_NEVER       = "never"
	CENTER_ALWAYS      = "always"
	CENTER_ON_OVERFLOW = "on-overflow"
)

// Column display modes
const (
	DISPLAY_NORMAL = "normal"
	DISPLAY_TABBED = "tabbed"
)

type LayoutConfig struct {
	// Gap between columns, between tiles and around the working area
	Gaps   float64 `toml:"gaps" yaml:"gaps"`
	Struts Struts  `toml:"struts" yaml:"struts"`
	// One of never, always, on-overflow
	CenterFocusedColumn      string `toml:"center_focused_column" yaml:"center_focused_column"`
	AlwaysCenterSingleColumn bool   `toml:"always_center_single_column" yaml:"always_center_single_column"`
	// Width of new columns. Zero values leave the choice to the window.
	DefaultColumnWidth  PresetSize   `toml:"default_column_width" yaml:"default_column_width"`
	PresetColumnWidths  []PresetSize `toml:"preset_column_widths" yaml:"preset_column_widths"`
	PresetWindowHeights []PresetSize `toml:"preset_window_heights" yaml:"preset_window_heights"`
	// One of normal, tabbed
	DefaultColumnDisplay string `toml:"default_column_display" yaml:"default_column_display"`

	Border       BorderConfig       `toml:"border" yaml:"border"`
	FocusRing    BorderConfig       `toml:"focus_ring" yaml:"focus_ring"`
	Shadow       ShadowConfig       `toml:"shadow" yaml:"shadow"`
	TabIndicator TabIndicatorConfig `toml:"tab_indicator" yaml:"tab_indicator"`
}

// Struts shrink the working area on each side
type Struts struct {
	Left   float64 `toml:"left" yaml:"left"`
	Right  float64 `toml:"right" yaml:"right"`
	Top    float64 `toml:"top" yaml:"top"`
	Bottom float64 `toml:"bottom" yaml:"bottom"`
}

// PresetSize is either a proportion of the working area or a fixed logical size.
// Fixed wins if both are set.
type PresetSize struct {
	Proportion float64 `toml:"proportion,omitempty" yaml:"proportion,omitempty"`
	Fixed      float64 `toml:"fixed,omitempty" yaml:"fixed,omitempty"`
}

func (p PresetSize) IsSet() bool {
	return p.Proportion > 0 || p.Fixed > 0
}

type BorderConfig struct {
	Off           bool    `toml:"off" yaml:"off"`
	Width         float64 `toml:"width" yaml:"width"`
	ActiveColor   string  `toml:"active_color" yaml:"active_color"`
	InactiveColor string  `toml:"inactive_color" yaml:"inactive_color"`
	UrgentColor   string  `toml:"urgent_color" yaml:"urgent_color"`
}

type ShadowConfig struct {
	On       bool    `toml:"on" yaml:"on"`
	Softness float64 `toml:"softness" yaml:"softness"`
	Spread   float64 `toml:"spread" yaml:"spread"`
	OffsetX  float64 `toml:"offset_x" yaml:"offset_x"`
	OffsetY  float64 `toml:"offset_y" yaml:"offset_y"`
	Color    string  `toml:"color" yaml:"color"`
}

type TabIndicatorConfig struct {
	Off   bool    `toml:"off" yaml:"off"`
	Width float64 `toml:"width" yaml:"width"`
	Gap   float64 `toml:"gap" yaml:"gap"`
}

type AnimationsConfig struct {
	Off bool `toml:"off" yaml:"off"`
	// Values above 1 slow animations down
	Slowdown float64 `toml:"slowdown" yaml:"slowdown"`

	WindowOpen             AnimationConfig `toml:"window_open" yaml:"window_open"`
	WindowMovement         AnimationConfig `toml:"window_movement" yaml:"window_movement"`
	WindowResize           AnimationConfig `toml:"window_resize" yaml:"window_resize"`
	HorizontalViewMovement AnimationConfig `toml:"horizontal_view_movement" yaml:"horizontal_view_movement"`
	RowSwitch              AnimationConfig `toml:"row_switch" yaml:"row_switch"`
}

// AnimationConfig is one animation kind as written in the config file.
// Kind is easing or spring.
type AnimationConfig struct {
	Off  bool   `toml:"off" yaml:"off"`
	Kind string `toml:"kind" yaml:"kind"`

	DurationMs int       `toml:"duration_ms" yaml:"duration_ms"`
	Curve      string    `toml:"curve" yaml:"curve"`
	Bezier     []float64 `toml:"bezier" yaml:"bezier"`

	DampingRatio float64 `toml:"damping_ratio" yaml:"damping_ratio"`
	Stiffness    float64 `toml:"stiffness" yaml:"stiffness"`
	Epsilon      float64 `toml:"epsilon" yaml:"epsilon"`
}

type GesturesConfig struct {
	DndEdgeViewScroll DndEdgeConfig `toml:"dnd_edge_view_scroll" yaml:"dnd_edge_view_scroll"`
}

// DndEdgeConfig controls auto scrolling while dragging near an edge
type DndEdgeConfig struct {
	TriggerWidth float64 `toml:"trigger_width" yaml:"trigger_width"`
	DelayMs      int     `toml:"delay_ms" yaml:"delay_ms"`
	// Pixels per second at the very edge
	MaxSpeed float64 `toml:"max_speed" yaml:"max_speed"`
}

type DebugConfig struct {
	// Run consistency checks on the layout after every command
	CheckInvariants bool `toml:"check_invariants" yaml:"check_invariants"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		StartType: START_REPL,
		LogLevel:  "info",
		Layout: LayoutConfig{
			Gaps:                16,
			CenterFocusedColumn: CENTER_NEVER,
			DefaultColumnWidth:  PresetSize{Proportion: 0.5},
			PresetColumnWidths: []PresetSize{
				{Proportion: 1.0 / 3},
				{Proportion: 0.5},
				{Proportion: 2.0 / 3},
			},
			PresetWindowHeights: []PresetSize{
				{Proportion: 1.0 / 3},
				{Proportion: 0.5},
				{Proportion: 2.0 / 3},
			},
			DefaultColumnDisplay: DISPLAY_NORMAL,
			Border: BorderConfig{
				Off:           true,
				Width:         4,
				ActiveColor:   "#ffc87f",
				InactiveColor: "#505050",
				UrgentColor:   "#9b0000",
			},
			FocusRing: BorderConfig{
				Width:         4,
				ActiveColor:   "#7fc8ff",
				InactiveColor: "#505050",
				UrgentColor:   "#9b0000",
			},
			Shadow: ShadowConfig{
				Softness: 30,
				Spread:   5,
				OffsetY:  5,
				Color:    "#0007",
			},
			TabIndicator: TabIndicatorConfig{
				Width: 4,
				Gap:   5,
			},
		},
		Animations: AnimationsConfig{
			Slowdown:               1,
			WindowOpen:             AnimationConfig{Kind: "easing", DurationMs: 150, Curve: "ease-out-expo"},
			WindowMovement:         AnimationConfig{Kind: "spring", DampingRatio: 1, Stiffness: 800, Epsilon: 0.0001},
			WindowResize:           AnimationConfig{Kind: "spring", DampingRatio: 1, Stiffness: 800, Epsilon: 0.0001},
			HorizontalViewMovement: AnimationConfig{Kind: "spring", DampingRatio: 1, Stiffness: 800, Epsilon: 0.0001},
			RowSwitch:              AnimationConfig{Kind: "spring", DampingRatio: 1, Stiffness: 1000, Epsilon: 0.0001},
		},
		Gestures: GesturesConfig{
			DndEdgeViewScroll: DndEdgeConfig{
				TriggerWidth: 30,
				DelayMs:      100,
				MaxSpeed:     1500,
			},
		},
	}
}

// fillDefaults replaces values whose zero value is never meaningful
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Animations.Slowdown <= 0 {
		c.Animations.Slowdown = def.Animations.Slowdown
	}
	if len(c.Layout.PresetColumnWidths) == 0 {
		c.Layout.PresetColumnWidths = def.Layout.PresetColumnWidths
	}
	if len(c.Layout.PresetWindowHeights) == 0 {
		c.Layout.PresetWindowHeights = def.Layout.PresetWindowHeights
	}
	if c.Layout.CenterFocusedColumn == "" {
		c.Layout.CenterFocusedColumn = def.Layout.CenterFocusedColumn
	}
	if c.Layout.DefaultColumnDisplay == "" {
		c.Layout.DefaultColumnDisplay = def.Layout.DefaultColumnDisplay
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}
