// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"slices"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/veighnsche/niri-sub001/animation"
	generaldata "github.com/veighnsche/niri-sub001/general-data"
)

type AddWindowTargetKind int

const (
	// Active row of the active output, unless window rules say otherwise
	TARGET_AUTO = AddWindowTargetKind(iota)
	TARGET_OUTPUT
	TARGET_ROW
	// Next to another window, in the same layer
	TARGET_NEXT_TO
)

// AddWindowTarget says where a new window should open
type AddWindowTarget struct {
	Kind   AddWindowTargetKind
	Output string
	Row    int
	NextTo WindowID
}

// Layout is the root of the layout tree: one monitor per output, or a single canvas while no
// output is connected. Everything runs on the compositor thread.
type Layout struct {
	monitors         []*Monitor
	activeMonitorIdx int
	noOutputs        *Canvas2D

	// Active row of outputs that went away, restored when they come back
	lastActiveRow   map[string]RowID
	interactiveMove *interactiveMove

	focused           WindowID
	activeRowByOutput map[string]RowID

	clock   *animation.Clock
	options *Options
	onEvent func(Event)
}

func NewLayout(clock *animation.Clock, options *Options) *Layout {
	return &Layout{
		noOutputs:         NewCanvas2D(noOutputInfo, clock, options),
		lastActiveRow:     map[string]RowID{},
		activeRowByOutput: map[string]RowID{},
		clock:             clock,
		options:           options,
	}
}

// SetEventHandler sets the function receiving layout events. It is called synchronously.
func (l *Layout) SetEventHandler(f func(Event)) {
	l.onEvent = f
}

func (l *Layout) emit(ev Event) {
	logrus.WithField("event", ev.String()).Debugln("Layout event")
	if l.onEvent != nil {
		l.onEvent(ev)
	}
}

func (l *Layout) Clock() *animation.Clock {
	return l.clock
}

func (l *Layout) Options() *Options {
	return l.options
}

func (l *Layout) Monitors() []*Monitor {
	return l.monitors
}

// ActiveMonitor is nil while no output is connected
func (l *Layout) ActiveMonitor() *Monitor {
	if len(l.monitors) == 0 {
		return nil
	}
	return l.monitors[l.activeMonitorIdx]
}

func (l *Layout) MonitorByName(name string) *Monitor {
	for _, m := range l.monitors {
		if m.output.Name == name {
			return m
		}
	}
	return nil
}

func (l *Layout) monitorIdx(name string) int {
	return slices.IndexFunc(l.monitors, func(m *Monitor) bool { return m.output.Name == name })
}

// ActiveCanvas is the canvas commands go to
func (l *Layout) ActiveCanvas() *Canvas2D {
	if m := l.ActiveMonitor(); m != nil {
		return m.canvas
	}
	return l.noOutputs
}

func (l *Layout) canvases() []*Canvas2D {
	if len(l.monitors) == 0 {
		return []*Canvas2D{l.noOutputs}
	}
	res := make([]*Canvas2D, 0, len(l.monitors))
	for _, m := range l.monitors {
		res = append(res, m.canvas)
	}
	return res
}

// canvasOf returns the canvas holding a window and its monitor, which is nil without outputs
func (l *Layout) canvasOf(id WindowID) (*Canvas2D, *Monitor) {
	if len(l.monitors) == 0 {
		if l.noOutputs.HasWindow(id) {
			return l.noOutputs, nil
		}
		return nil, nil
	}
	for _, m := range l.monitors {
		if m.canvas.HasWindow(id) {
			return m.canvas, m
		}
	}
	return nil, nil
}

func (l *Layout) monitorOf(c *Canvas2D) *Monitor {
	for _, m := range l.monitors {
		if m.canvas == c {
			return m
		}
	}
	return nil
}

// FindTile looks a window up anywhere, including a window being moved
func (l *Layout) FindTile(id WindowID) *Tile {
	if mv := l.interactiveMove; mv != nil && mv.state == MOVE_MOVING && mv.window == id {
		return mv.tile
	}
	if c, _ := l.canvasOf(id); c != nil {
		return c.FindTile(id)
	}
	return nil
}

func (l *Layout) HasWindow(id WindowID) bool {
	return l.FindTile(id) != nil
}

// FocusedWindow is the window that should have keyboard focus
func (l *Layout) FocusedWindow() (WindowID, bool) {
	if mv := l.interactiveMove; mv != nil && mv.state == MOVE_MOVING {
		return mv.window, true
	}
	if t := l.ActiveCanvas().ActiveTile(); t != nil {
		return t.ID(), true
	}
	return 0, false
}

// run executes a command and then brings focus, events and debug checks up to date
func (l *Layout) run(name string, f func()) {
	f()
	l.afterCommand(name)
}

func (l *Layout) afterCommand(name string) {
	for _, c := range l.canvases() {
		c.CleanupRows()
	}
	l.syncFocus()
	l.syncActiveRows()
	if l.options.CheckInvariants {
		if err := l.VerifyInvariants(); err != nil {
			logrus.WithError(err).WithField("command", name).Errorln("Layout invariant violated")
		}
	}
}

func (l *Layout) syncFocus() {
	focused, _ := l.FocusedWindow()
	if focused == l.focused {
		return
	}
	if t := l.FindTile(l.focused); t != nil {
		t.window.SetActivated(false)
	}
	if t := l.FindTile(focused); t != nil {
		t.window.SetActivated(true)
	}
	l.focused = focused
	l.emit(Event{Kind: EVENT_WINDOW_FOCUSED, Window: focused})
}

func (l *Layout) syncActiveRows() {
	for _, m := range l.monitors {
		id := m.canvas.ActiveRow().id
		if prev, ok := l.activeRowByOutput[m.output.Name]; ok && prev == id {
			continue
		}
		l.activeRowByOutput[m.output.Name] = id
		l.emit(Event{Kind: EVENT_ROW_ACTIVATED, Row: id, Output: m.output.Name})
	}
}

// AddOutput attaches a new output. The first output takes over every window, later outputs
// get back the rows that were created on them.
func (l *Layout) AddOutput(output OutputInfo) *Monitor {
	if m := l.MonitorByName(output.Name); m != nil {
		l.UpdateOutput(output)
		return m
	}
	var canvas *Canvas2D
	if len(l.monitors) == 0 {
		canvas = l.noOutputs
		l.noOutputs = nil
		for _, r := range canvas.rows {
			if r.originalOutput == "" {
				r.originalOutput = output.Name
			}
		}
	}
	m := NewMonitor(output, canvas, l.clock, l.options)
	for _, other := range l.monitors {
		rows := other.canvas.takeRows(func(r *Row) bool {
			return r.originalOutput == output.Name && (!r.IsEmpty() || r.name != "")
		})
		for _, r := range rows {
			m.canvas.adoptRow(r, r.idx)
		}
	}
	if id, ok := l.lastActiveRow[output.Name]; ok {
		m.canvas.activateRowByID(id)
		delete(l.lastActiveRow, output.Name)
	}
	l.monitors = append(l.monitors, m)
	logrus.WithFields(logrus.Fields{
		"output": output.Name,
		"size":   output.Size,
		"scale":  output.Scale,
	}).Infoln("Output added to layout")
	l.emit(Event{Kind: EVENT_OUTPUT_ADDED, Output: output.Name})
	l.afterCommand("add-output")
	return m
}

// RemoveOutput detaches an output, moving everything on it to the active output
func (l *Layout) RemoveOutput(name string) bool {
	idx := l.monitorIdx(name)
	if idx < 0 {
		return false
	}
	m := l.monitors[idx]
	l.lastActiveRow[name] = m.canvas.ActiveRow().id
	delete(l.activeRowByOutput, name)
	if mv := l.interactiveMove; mv != nil && (mv.output == name || mv.origin.canvas == m.canvas) {
		l.cancelInteractiveMove()
	}
	l.monitors = slices.Delete(l.monitors, idx, idx+1)

	if len(l.monitors) == 0 {
		l.activeMonitorIdx = 0
		l.noOutputs = m.canvas
		m.canvas.UpdateConfig(noOutputInfo, l.options)
	} else {
		if l.activeMonitorIdx > idx {
			l.activeMonitorIdx--
		}
		l.activeMonitorIdx = min(l.activeMonitorIdx, len(l.monitors)-1)
		target := l.monitors[l.activeMonitorIdx].canvas

		rows := m.canvas.takeRows(func(r *Row) bool { return !r.IsEmpty() || r.name != "" })
		next := target.maxRowIdx() + 1
		for _, r := range rows {
			next = target.adoptRow(r, next) + 1
		}
		floating := m.canvas.takeFloating()
		for i := len(floating) - 1; i >= 0; i-- {
			target.floating.AddTile(floating[i], false)
		}
	}
	logrus.WithField("output", name).Infoln("Output removed from layout")
	l.emit(Event{Kind: EVENT_OUTPUT_REMOVED, Output: name})
	l.afterCommand("remove-output")
	return true
}

// UpdateOutput applies a changed mode, scale or usable area
func (l *Layout) UpdateOutput(output OutputInfo) {
	m := l.MonitorByName(output.Name)
	if m == nil {
		return
	}
	l.run("update-output", func() {
		m.UpdateOutput(output, l.options)
	})
}

// FocusOutput makes another output the target of commands
func (l *Layout) FocusOutput(name string) bool {
	idx := l.monitorIdx(name)
	if idx < 0 || idx == l.activeMonitorIdx {
		return false
	}
	l.run("focus-output", func() {
		l.activeMonitorIdx = idx
	})
	return true
}

// AddWindow creates a tile for a new window and places it according to target and window rules
func (l *Layout) AddWindow(window Window, target AddWindowTarget, activate bool) *Tile {
	id := window.ID()
	if l.HasWindow(id) {
		logrus.WithField("window", id).Warnln("Window added twice, ignoring")
		return nil
	}
	rules := window.Rules()

	if target.Kind == TARGET_AUTO && rules.OpenOnOutput != "" && l.MonitorByName(rules.OpenOnOutput) != nil {
		target = AddWindowTarget{Kind: TARGET_OUTPUT, Output: rules.OpenOnOutput}
	}
	canvas := l.ActiveCanvas()
	switch target.Kind {
	case TARGET_OUTPUT:
		if m := l.MonitorByName(target.Output); m != nil {
			canvas = m.canvas
		}
	case TARGET_NEXT_TO:
		if c, _ := l.canvasOf(target.NextTo); c != nil {
			canvas = c
		} else {
			target.Kind = TARGET_AUTO
		}
	}
	rowIdx := canvas.activeRowIdx
	if target.Kind == TARGET_ROW {
		rowIdx = target.Row
	}
	if rules.OpenOnRow != "" {
		if r, ok := canvas.FindRowByName(rules.OpenOnRow); ok {
			rowIdx = r.idx
		}
	}
	_, floating := window.ParentID()
	if rules.OpenFloating != nil {
		floating = *rules.OpenFloating
	}

	tile := NewTile(window, canvas.output.Size, canvas.output.scale(), l.clock, l.options)
	l.run("add-window", func() {
		add := func() bool {
			if target.Kind == TARGET_NEXT_TO && canvas.AddTileNextTo(target.NextTo, tile, activate) {
				return true
			}
			canvas.AddTile(tile, rowIdx, activate, floating, nil, false)
			return true
		}
		if m := l.monitorOf(canvas); m != nil && activate {
			m.withRowSwitch(add)
			l.activeMonitorIdx = l.monitorIdx(m.output.Name)
		} else {
			add()
		}
		switch {
		case rules.OpenFullscreen != nil && *rules.OpenFullscreen:
			canvas.SetFullscreen(id, true)
		case rules.OpenMaximized != nil && *rules.OpenMaximized:
			canvas.SetMaximized(id, true)
		}
		tile.StartOpenAnimation()
	})
	logrus.WithFields(logrus.Fields{
		"window":   id,
		"app-id":   window.AppID(),
		"floating": floating,
	}).Debugln("Window added to layout")
	l.emit(Event{Kind: EVENT_WINDOW_OPENED, Window: id})
	return tile
}

// RemoveWindow takes a closed or unmapped window out of the layout
func (l *Layout) RemoveWindow(id WindowID) *Tile {
	var tile *Tile
	l.run("remove-window", func() {
		if mv := l.interactiveMove; mv != nil && mv.window == id {
			l.dropInteractiveMove()
			if mv.state == MOVE_MOVING {
				tile = mv.tile
				return
			}
		}
		if c, _ := l.canvasOf(id); c != nil {
			tile = c.RemoveTile(id)
		}
	})
	if tile == nil {
		logrus.WithField("window", id).Debugln("Removing unknown window, ignoring")
		return nil
	}
	l.emit(Event{Kind: EVENT_WINDOW_CLOSED, Window: id})
	return tile
}

// UpdateWindow is called after a window committed a new state
func (l *Layout) UpdateWindow(id WindowID) bool {
	if mv := l.interactiveMove; mv != nil && mv.state == MOVE_MOVING && mv.window == id {
		mv.tile.UpdateWindow()
		return true
	}
	c, _ := l.canvasOf(id)
	if c == nil {
		return false
	}
	var ok bool
	l.run("update-window", func() {
		ok = c.UpdateWindow(id)
	})
	return ok
}

// ActivateWindow focuses a window wherever it is
func (l *Layout) ActivateWindow(id WindowID) bool {
	c, m := l.canvasOf(id)
	if c == nil {
		return false
	}
	l.run("activate-window", func() {
		if m != nil {
			m.ActivateWindow(id)
			l.activeMonitorIdx = l.monitorIdx(m.output.Name)
		} else {
			c.ActivateWindow(id)
		}
	})
	return true
}

// MoveWindowToOutput moves a window to the active row of another output and focuses it there
func (l *Layout) MoveWindowToOutput(id WindowID, output string) bool {
	target := l.MonitorByName(output)
	if target == nil {
		return false
	}
	if id == 0 {
		var ok bool
		if id, ok = l.FocusedWindow(); !ok {
			return false
		}
	}
	src, _ := l.canvasOf(id)
	if src == nil || src == target.canvas {
		return false
	}
	l.run("move-window-to-output", func() {
		_, floating, _ := src.FindWindow(id)
		tile := src.RemoveTile(id)
		target.canvas.AddTile(tile, target.canvas.activeRowIdx, true, floating, nil, false)
		l.activeMonitorIdx = l.monitorIdx(output)
	})
	return true
}

// Do runs a command against the active canvas
func (l *Layout) Do(name string, f func(c *Canvas2D)) {
	l.run(name, func() {
		f(l.ActiveCanvas())
	})
}

// DoRowSwitch runs a command that can change the active row, animating the switch
func (l *Layout) DoRowSwitch(name string, f func(c *Canvas2D) bool) bool {
	var ok bool
	l.run(name, func() {
		if m := l.ActiveMonitor(); m != nil {
			ok = m.withRowSwitch(func() bool { return f(m.canvas) })
		} else {
			ok = f(l.noOutputs)
		}
	})
	return ok
}

func (l *Layout) FocusLeft() {
	l.Do("focus-left", func(c *Canvas2D) { c.FocusLeft() })
}

func (l *Layout) FocusRight() {
	l.Do("focus-right", func(c *Canvas2D) { c.FocusRight() })
}

func (l *Layout) FocusUp() {
	l.Do("focus-up", func(c *Canvas2D) { c.FocusUp() })
}

func (l *Layout) FocusDown() {
	l.Do("focus-down", func(c *Canvas2D) { c.FocusDown() })
}

func (l *Layout) MoveLeft() {
	l.Do("move-left", func(c *Canvas2D) { c.MoveLeft() })
}

func (l *Layout) MoveRight() {
	l.Do("move-right", func(c *Canvas2D) { c.MoveRight() })
}

func (l *Layout) FocusRowUp() bool {
	return l.DoRowSwitch("focus-row-up", (*Canvas2D).FocusRowUp)
}

func (l *Layout) FocusRowDown() bool {
	return l.DoRowSwitch("focus-row-down", (*Canvas2D).FocusRowDown)
}

func (l *Layout) MoveWindowToRowUp() bool {
	return l.DoRowSwitch("move-window-to-row-up", (*Canvas2D).MoveWindowToRowUp)
}

func (l *Layout) MoveWindowToRowDown() bool {
	return l.DoRowSwitch("move-window-to-row-down", (*Canvas2D).MoveWindowToRowDown)
}

func (l *Layout) ToggleFullscreen(id WindowID) {
	l.Do("toggle-fullscreen", func(c *Canvas2D) { c.ToggleFullscreen(id) })
}

func (l *Layout) ToggleMaximized(id WindowID) {
	l.Do("toggle-maximized", func(c *Canvas2D) { c.ToggleMaximized(id) })
}

// SetFullscreen handles client requests, which can target windows on any output
func (l *Layout) SetFullscreen(id WindowID, fullscreen bool) bool {
	c, _ := l.canvasOf(id)
	if c == nil {
		return false
	}
	var ok bool
	l.run("set-fullscreen", func() {
		ok = c.SetFullscreen(id, fullscreen)
	})
	return ok
}

// SetMaximized handles client requests, which can target windows on any output
func (l *Layout) SetMaximized(id WindowID, maximized bool) bool {
	c, _ := l.canvasOf(id)
	if c == nil {
		return false
	}
	var ok bool
	l.run("set-maximized", func() {
		ok = c.SetMaximized(id, maximized)
	})
	return ok
}

func (l *Layout) ToggleWindowFloating(id WindowID) {
	l.Do("toggle-window-floating", func(c *Canvas2D) { c.ToggleWindowFloating(id) })
}

func (l *Layout) SetColumnWidth(change SizeChange) {
	l.Do("set-column-width", func(c *Canvas2D) { c.SetColumnWidth(change) })
}

// monitorForGesture picks the monitor a gesture on the named output goes to
func (l *Layout) monitorForGesture(output string) *Monitor {
	if m := l.MonitorByName(output); m != nil {
		return m
	}
	return l.ActiveMonitor()
}

// ViewOffsetGestureBegin starts a horizontal swipe on the active row of an output
func (l *Layout) ViewOffsetGestureBegin(output string, isTouchpad bool) bool {
	m := l.monitorForGesture(output)
	if m == nil || l.interactiveMove != nil {
		return false
	}
	return m.canvas.ActiveRow().ViewOffsetGestureBegin(isTouchpad)
}

func (l *Layout) ViewOffsetGestureUpdate(deltaX float64, timestamp time.Duration, isTouchpad bool) bool {
	for _, m := range l.monitors {
		if m.canvas.ActiveRow().ViewOffsetGestureUpdate(deltaX, timestamp, isTouchpad) {
			return true
		}
	}
	return false
}

func (l *Layout) ViewOffsetGestureEnd(isTouchpad *bool) bool {
	for _, m := range l.monitors {
		row := m.canvas.ActiveRow()
		if row.viewOffset.IsGesture() && !row.viewOffset.IsDndScroll() {
			return row.ViewOffsetGestureEnd(isTouchpad)
		}
	}
	return false
}

// RowSwitchGestureBegin starts a vertical swipe between the rows of an output
func (l *Layout) RowSwitchGestureBegin(output string, isTouchpad bool) bool {
	m := l.monitorForGesture(output)
	if m == nil || l.interactiveMove != nil {
		return false
	}
	for _, other := range l.monitors {
		if other != m && other.IsRowSwitchGesture() {
			other.RowSwitchGestureEnd(nil)
		}
	}
	m.RowSwitchGestureBegin(isTouchpad)
	return true
}

func (l *Layout) RowSwitchGestureUpdate(deltaY float64, timestamp time.Duration, isTouchpad bool) bool {
	for _, m := range l.monitors {
		if m.RowSwitchGestureUpdate(deltaY, timestamp, isTouchpad) {
			return true
		}
	}
	return false
}

func (l *Layout) RowSwitchGestureEnd(isTouchpad *bool) bool {
	for _, m := range l.monitors {
		if m.IsRowSwitchGesture() {
			var ok bool
			l.run("row-switch-gesture-end", func() {
				ok = m.RowSwitchGestureEnd(isTouchpad)
			})
			return ok
		}
	}
	return false
}

// InteractiveResizeBegin starts resizing a window by dragging the given edges
func (l *Layout) InteractiveResizeBegin(id WindowID, edges ResizeEdge) bool {
	c, _ := l.canvasOf(id)
	if c == nil || l.interactiveMove != nil {
		return false
	}
	return c.InteractiveResizeBegin(id, edges)
}

func (l *Layout) InteractiveResizeUpdate(id WindowID, delta generaldata.Point) bool {
	c, _ := l.canvasOf(id)
	if c == nil {
		return false
	}
	return c.InteractiveResizeUpdate(id, delta)
}

func (l *Layout) InteractiveResizeEnd(id WindowID) bool {
	c, _ := l.canvasOf(id)
	if c == nil {
		return false
	}
	var ok bool
	l.run("interactive-resize-end", func() {
		ok = c.InteractiveResizeEnd(id)
	})
	return ok
}

// UpdateConfig swaps in new options everywhere
func (l *Layout) UpdateConfig(options *Options) {
	l.run("update-config", func() {
		l.options = options
		if len(l.monitors) == 0 {
			l.noOutputs.UpdateConfig(noOutputInfo, options)
		}
		for _, m := range l.monitors {
			m.UpdateOutput(m.output, options)
		}
		if mv := l.interactiveMove; mv != nil && mv.state == MOVE_MOVING {
			mv.tile.UpdateConfig(mv.tile.viewSize, mv.tile.scale, options)
		}
	})
}

func (l *Layout) AdvanceAnimations() {
	if len(l.monitors) == 0 {
		l.noOutputs.AdvanceAnimations()
	}
	for _, m := range l.monitors {
		m.AdvanceAnimations()
	}
	if mv := l.interactiveMove; mv != nil && mv.state == MOVE_MOVING {
		mv.tile.AdvanceAnimations()
	}
}

func (l *Layout) AreAnimationsOngoing() bool {
	for _, m := range l.monitors {
		if m.AreAnimationsOngoing() {
			return true
		}
	}
	if mv := l.interactiveMove; mv != nil && mv.state == MOVE_MOVING && mv.tile.AreAnimationsOngoing() {
		return true
	}
	return len(l.monitors) == 0 && l.noOutputs.AreAnimationsOngoing()
}

// TilesWithRenderPositions lists what to draw on an output, topmost first
func (l *Layout) TilesWithRenderPositions(output string) []TileRenderPosition {
	m := l.MonitorByName(output)
	if m == nil {
		return nil
	}
	res := m.TilesWithRenderPositions()
	if mv := l.interactiveMove; mv != nil && mv.state == MOVE_MOVING && mv.output == output {
		res = append([]TileRenderPosition{mv.renderPosition()}, res...)
	}
	focused, _ := l.FocusedWindow()
	for i := range res {
		res[i].IsActive = res[i].Tile.ID() == focused
	}
	return res
}
