// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ValidationError points at the config value that is wrong
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate rejects values that can't be interpreted at all.
// Numbers that are merely out of a useful range are left alone, the layout clamps them when used.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return &ValidationError{Path: "log_level", Err: err}
	}
	switch c.StartType {
	case START_REPL, START_NONE:
	case START_SINGLE_COMMAND:
		if c.StartCommand == "" {
			return &ValidationError{Path: "start_command", Err: fmt.Errorf("start_command is required for start type single-command")}
		}
	default:
		return &ValidationError{Path: "start_type", Err: fmt.Errorf("unknown start type %d", c.StartType)}
	}
	switch c.Layout.CenterFocusedColumn {
	case CENTER_NEVER, CENTER_ALWAYS, CENTER_ON_OVERFLOW:
	default:
		return &ValidationError{Path: "layout.center_focused_column", Err: fmt.Errorf("must be one of: never, always, on-overflow")}
	}
	if err := validateDisplay("layout.default_column_display", c.Layout.DefaultColumnDisplay); err != nil {
		return err
	}
	if _, err := c.Animations.Resolve(); err != nil {
		return &ValidationError{Path: "animations", Err: err}
	}
	for i, r := range c.WindowRules {
		if r.DefaultColumnDisplay != "" {
			if err := validateDisplay(fmt.Sprintf("window_rules[%d].default_column_display", i), r.DefaultColumnDisplay); err != nil {
				return err
			}
		}
	}
	if _, err := NewRuleSet(c.WindowRules); err != nil {
		return err
	}
	return nil
}

func validateDisplay(path, v string) error {
	switch v {
	case DISPLAY_NORMAL, DISPLAY_TABBED:
		return nil
	}
	return &ValidationError{Path: path, Err: fmt.Errorf("must be one of: normal, tabbed")}
}
