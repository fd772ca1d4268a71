// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"errors"
	"fmt"
)

func checkColumn(c *Column) error {
	if c == nil {
		return errors.New("column is nil")
	}
	if len(c.tiles) == 0 {
		return errors.New("column is empty")
	}
	if len(c.data) != len(c.tiles) {
		return fmt.Errorf("%d tiles but %d tile data entries", len(c.tiles), len(c.data))
	}
	if c.activeTileIdx < 0 || c.activeTileIdx >= len(c.tiles) {
		return fmt.Errorf("active tile %d out of range (0, %d)", c.activeTileIdx, len(c.tiles))
	}
	if (c.isPendingFullscreen || c.isPendingMaximized) && len(c.tiles) > 1 && c.displayMode != DISPLAY_TABBED {
		return fmt.Errorf("column with %d tiles is pending fullscreen or maximized", len(c.tiles))
	}
	for i, t := range c.tiles {
		if t == nil {
			return fmt.Errorf("tile %d is nil", i)
		}
	}
	return nil
}

func checkRow(r *Row) error {
	if r == nil {
		return errors.New("row is nil")
	}
	if len(r.data) != len(r.columns) {
		return fmt.Errorf("%d columns but %d column data entries", len(r.columns), len(r.data))
	}
	if len(r.columns) == 0 {
		if r.activeColumnIdx != 0 {
			return fmt.Errorf("empty row has active column %d", r.activeColumnIdx)
		}
		if r.interactiveResize != nil {
			return errors.New("empty row has an interactive resize")
		}
		return nil
	}
	if r.activeColumnIdx < 0 || r.activeColumnIdx >= len(r.columns) {
		return fmt.Errorf("active column %d out of range (0, %d)", r.activeColumnIdx, len(r.columns))
	}
	for i, c := range r.columns {
		if err := checkColumn(c); err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
	}
	if rs := r.interactiveResize; rs != nil && !r.HasWindow(rs.window) {
		return fmt.Errorf("interactive resize of %s which is not in the row", rs.window)
	}
	return nil
}

func checkFloating(f *FloatingSpace) error {
	if f == nil {
		return errors.New("floating space is nil")
	}
	if len(f.data) != len(f.tiles) {
		return fmt.Errorf("%d tiles but %d tile data entries", len(f.tiles), len(f.data))
	}
	if f.hasActive != (len(f.tiles) > 0) {
		return fmt.Errorf("has active window is %v with %d tiles", f.hasActive, len(f.tiles))
	}
	if f.hasActive && f.position(f.active) < 0 {
		return fmt.Errorf("active %s is not in the floating space", f.active)
	}
	for i, t := range f.tiles {
		parent, ok := t.window.ParentID()
		if !ok {
			continue
		}
		if p := f.position(parent); p >= 0 && p < i {
			return fmt.Errorf("%s is stacked below its parent %s", t.ID(), parent)
		}
	}
	if rs := f.interactiveResize; rs != nil && !f.HasWindow(rs.window) {
		return fmt.Errorf("interactive resize of %s which is not floating", rs.window)
	}
	return nil
}

// VerifyInvariants checks the canvas for inconsistent state
func (c *Canvas2D) VerifyInvariants() error {
	if _, ok := c.rows[0]; !ok {
		return errors.New("row 0 is missing")
	}
	if _, ok := c.rows[c.activeRowIdx]; !ok {
		return fmt.Errorf("active row %d is missing", c.activeRowIdx)
	}
	if c.floatingIsActive && c.floating.IsEmpty() {
		return errors.New("floating layer is active but empty")
	}
	if err := checkFloating(c.floating); err != nil {
		return fmt.Errorf("floating: %w", err)
	}
	seen := map[WindowID]bool{}
	for _, t := range c.floating.Tiles() {
		seen[t.ID()] = true
	}
	for idx, r := range c.rows {
		if r.idx != idx {
			return fmt.Errorf("row stored at %d thinks it is at %d", idx, r.idx)
		}
		if err := checkRow(r); err != nil {
			return fmt.Errorf("row %d: %w", idx, err)
		}
		for _, t := range r.Tiles() {
			if seen[t.ID()] {
				return fmt.Errorf("%s is in the canvas twice", t.ID())
			}
			seen[t.ID()] = true
		}
	}
	return nil
}

// VerifyInvariants checks the whole layout for inconsistent state
func (l *Layout) VerifyInvariants() error {
	if len(l.monitors) == 0 {
		if l.noOutputs == nil {
			return errors.New("no outputs and no output-less canvas")
		}
	} else {
		if l.noOutputs != nil {
			return errors.New("output-less canvas kept around with outputs connected")
		}
		if l.activeMonitorIdx < 0 || l.activeMonitorIdx >= len(l.monitors) {
			return fmt.Errorf("active monitor %d out of range (0, %d)", l.activeMonitorIdx, len(l.monitors))
		}
	}
	names := map[string]bool{}
	for _, m := range l.monitors {
		if names[m.output.Name] {
			return fmt.Errorf("output %q is attached twice", m.output.Name)
		}
		names[m.output.Name] = true
	}

	seen := map[WindowID]string{}
	for _, c := range l.canvases() {
		output := l.outputName(c)
		if err := c.VerifyInvariants(); err != nil {
			return fmt.Errorf("output %q: %w", output, err)
		}
		for _, t := range c.Tiles() {
			if other, ok := seen[t.ID()]; ok {
				return fmt.Errorf("%s is on both %q and %q", t.ID(), other, output)
			}
			seen[t.ID()] = output
		}
	}
	if mv := l.interactiveMove; mv != nil && mv.state == MOVE_MOVING {
		if _, ok := seen[mv.window]; ok {
			return fmt.Errorf("moved %s is still in the layout", mv.window)
		}
	}
	return nil
}
