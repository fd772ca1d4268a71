// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"regexp"
)

// Match selects windows by regular expressions on app id and title.
// Empty fields match anything.
type Match struct {
	AppID string `toml:"app_id,omitempty" yaml:"app_id,omitempty"`
	Title string `toml:"title,omitempty" yaml:"title,omitempty"`
}

// WindowRule changes how matching windows are laid out and decorated.
// A rule applies if any of Matches matches (or there are none) and none of Excludes do.
type WindowRule struct {
	Matches  []Match `toml:"matches" yaml:"matches"`
	Excludes []Match `toml:"excludes" yaml:"excludes"`

	DefaultColumnWidth   *PresetSize `toml:"default_column_width,omitempty" yaml:"default_column_width,omitempty"`
	DefaultWindowHeight  *PresetSize `toml:"default_window_height,omitempty" yaml:"default_window_height,omitempty"`
	DefaultColumnDisplay string      `toml:"default_column_display,omitempty" yaml:"default_column_display,omitempty"`

	OpenOnOutput   string `toml:"open_on_output,omitempty" yaml:"open_on_output,omitempty"`
	OpenOnRow      string `toml:"open_on_row,omitempty" yaml:"open_on_row,omitempty"`
	OpenFloating   *bool  `toml:"open_floating,omitempty" yaml:"open_floating,omitempty"`
	OpenFullscreen *bool  `toml:"open_fullscreen,omitempty" yaml:"open_fullscreen,omitempty"`
	OpenMaximized  *bool  `toml:"open_maximized,omitempty" yaml:"open_maximized,omitempty"`

	MinWidth  float64 `toml:"min_width,omitempty" yaml:"min_width,omitempty"`
	MinHeight float64 `toml:"min_height,omitempty" yaml:"min_height,omitempty"`
	MaxWidth  float64 `toml:"max_width,omitempty" yaml:"max_width,omitempty"`
	MaxHeight float64 `toml:"max_height,omitempty" yaml:"max_height,omitempty"`

	Opacity              *float64 `toml:"opacity,omitempty" yaml:"opacity,omitempty"`
	GeometryCornerRadius *float64 `toml:"geometry_corner_radius,omitempty" yaml:"geometry_corner_radius,omitempty"`

	Border    BorderRule `toml:"border" yaml:"border"`
	FocusRing BorderRule `toml:"focus_ring" yaml:"focus_ring"`
	Shadow    ShadowRule `toml:"shadow" yaml:"shadow"`
}

// BorderRule overrides parts of a BorderConfig
type BorderRule struct {
	Off           bool     `toml:"off,omitempty" yaml:"off,omitempty"`
	On            bool     `toml:"on,omitempty" yaml:"on,omitempty"`
	Width         *float64 `toml:"width,omitempty" yaml:"width,omitempty"`
	ActiveColor   string   `toml:"active_color,omitempty" yaml:"active_color,omitempty"`
	InactiveColor string   `toml:"inactive_color,omitempty" yaml:"inactive_color,omitempty"`
}

// ShadowRule overrides parts of a ShadowConfig
type ShadowRule struct {
	Off   bool   `toml:"off,omitempty" yaml:"off,omitempty"`
	On    bool   `toml:"on,omitempty" yaml:"on,omitempty"`
	Color string `toml:"color,omitempty" yaml:"color,omitempty"`
}

func (r BorderRule) mergeInto(o *BorderRule) {
	if r.Off {
		o.Off = true
		o.On = false
	}
	if r.On {
		o.On = true
		o.Off = false
	}
	if r.Width != nil {
		w := *r.Width
		o.Width = &w
	}
	if r.ActiveColor != "" {
		o.ActiveColor = r.ActiveColor
	}
	if r.InactiveColor != "" {
		o.InactiveColor = r.InactiveColor
	}
}

func (r ShadowRule) mergeInto(o *ShadowRule) {
	if r.Off {
		o.Off = true
		o.On = false
	}
	if r.On {
		o.On = true
		o.Off = false
	}
	if r.Color != "" {
		o.Color = r.Color
	}
}

// MergeWith applies a rule on top of the global border settings
func (b BorderConfig) MergeWith(r BorderRule) BorderConfig {
	if r.Off {
		b.Off = true
	}
	if r.On {
		b.Off = false
	}
	if r.Width != nil {
		b.Width = *r.Width
	}
	if r.ActiveColor != "" {
		b.ActiveColor = r.ActiveColor
	}
	if r.InactiveColor != "" {
		b.InactiveColor = r.InactiveColor
	}
	return b
}

// MergeWith applies a rule on top of the global shadow settings
func (s ShadowConfig) MergeWith(r ShadowRule) ShadowConfig {
	if r.Off {
		s.On = false
	}
	if r.On {
		s.On = true
	}
	if r.Color != "" {
		s.Color = r.Color
	}
	return s
}

// ResolvedWindowRules is the result of applying every matching rule in order, later rules winning
type ResolvedWindowRules struct {
	DefaultColumnWidth   *PresetSize
	DefaultWindowHeight  *PresetSize
	DefaultColumnDisplay string

	OpenOnOutput   string
	OpenOnRow      string
	OpenFloating   *bool
	OpenFullscreen *bool
	OpenMaximized  *bool

	MinWidth  float64
	MinHeight float64
	MaxWidth  float64
	MaxHeight float64

	Opacity              *float64
	GeometryCornerRadius float64

	Border    BorderRule
	FocusRing BorderRule
	Shadow    ShadowRule
}

type compiledMatch struct {
	appID *regexp.Regexp
	title *regexp.Regexp
}

func (m compiledMatch) matches(appID, title string) bool {
	if m.appID != nil && !m.appID.MatchString(appID) {
		return false
	}
	if m.title != nil && !m.title.MatchString(title) {
		return false
	}
	return true
}

type compiledRule struct {
	rule     WindowRule
	matches  []compiledMatch
	excludes []compiledMatch
}

// RuleSet is a list of window rules with their regular expressions compiled
type RuleSet struct {
	rules []compiledRule
}

func compileMatch(m Match) (compiledMatch, error) {
	var out compiledMatch
	var err error
	if m.AppID != "" {
		if out.appID, err = regexp.Compile(m.AppID); err != nil {
			return out, fmt.Errorf("app_id: %w", err)
		}
	}
	if m.Title != "" {
		if out.title, err = regexp.Compile(m.Title); err != nil {
			return out, fmt.Errorf("title: %w", err)
		}
	}
	return out, nil
}

// NewRuleSet compiles every match of the given rules
func NewRuleSet(rules []WindowRule) (*RuleSet, error) {
	set := &RuleSet{}
	for i, r := range rules {
		cr := compiledRule{rule: r}
		for j, m := range r.Matches {
			c, err := compileMatch(m)
			if err != nil {
				return nil, &ValidationError{Path: fmt.Sprintf("window_rules[%d].matches[%d]", i, j), Err: err}
			}
			cr.matches = append(cr.matches, c)
		}
		for j, m := range r.Excludes {
			c, err := compileMatch(m)
			if err != nil {
				return nil, &ValidationError{Path: fmt.Sprintf("window_rules[%d].excludes[%d]", i, j), Err: err}
			}
			cr.excludes = append(cr.excludes, c)
		}
		set.rules = append(set.rules, cr)
	}
	return set, nil
}

func (r compiledRule) applies(appID, title string) bool {
	if len(r.matches) > 0 {
		found := false
		for _, m := range r.matches {
			if m.matches(appID, title) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for _, m := range r.excludes {
		if m.matches(appID, title) {
			return false
		}
	}
	return true
}

// Resolve merges every rule applying to a window with the given app id and title
func (s *RuleSet) Resolve(appID, title string) ResolvedWindowRules {
	var out ResolvedWindowRules
	if s == nil {
		return out
	}
	for _, cr := range s.rules {
		if !cr.applies(appID, title) {
			continue
		}
		r := cr.rule
		if r.DefaultColumnWidth != nil {
			v := *r.DefaultColumnWidth
			out.DefaultColumnWidth = &v
		}
		if r.DefaultWindowHeight != nil {
			v := *r.DefaultWindowHeight
			out.DefaultWindowHeight = &v
		}
		if r.DefaultColumnDisplay != "" {
			out.DefaultColumnDisplay = r.DefaultColumnDisplay
		}
		if r.OpenOnOutput != "" {
			out.OpenOnOutput = r.OpenOnOutput
		}
		if r.OpenOnRow != "" {
			out.OpenOnRow = r.OpenOnRow
		}
		if r.OpenFloating != nil {
			v := *r.OpenFloating
			out.OpenFloating = &v
		}
		if r.OpenFullscreen != nil {
			v := *r.OpenFullscreen
			out.OpenFullscreen = &v
		}
		if r.OpenMaximized != nil {
			v := *r.OpenMaximized
			out.OpenMaximized = &v
		}
		if r.MinWidth > 0 {
			out.MinWidth = r.MinWidth
		}
		if r.MinHeight > 0 {
			out.MinHeight = r.MinHeight
		}
		if r.MaxWidth > 0 {
			out.MaxWidth = r.MaxWidth
		}
		if r.MaxHeight > 0 {
			out.MaxHeight = r.MaxHeight
		}
		if r.Opacity != nil {
			v := *r.Opacity
			out.Opacity = &v
		}
		if r.GeometryCornerRadius != nil {
			out.GeometryCornerRadius = *r.GeometryCornerRadius
		}
		r.Border.mergeInto(&out.Border)
		r.FocusRing.mergeInto(&out.FocusRing)
		r.Shadow.mergeInto(&out.Shadow)
	}
	return out
}

// Len is the number of rules in the set
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}
