// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"fmt"
	"math"
	"testing"

	"github.com/veighnsche/niri-sub001/animation"
	"github.com/veighnsche/niri-sub001/config"
	generaldata "github.com/veighnsche/niri-sub001/general-data"
)

// testWindow applies every size request right away, like a client that acks instantly
type testWindow struct {
	id        WindowID
	appID     string
	title     string
	size      generaldata.Size
	minSize   generaldata.Size
	maxSize   generaldata.Size
	mode      SizingMode
	rules     config.ResolvedWindowRules
	parent    WindowID
	activated bool
	bounds    generaldata.Size
	requests  int
	// Handed out once by TakeAnimationSnapshot, like the size of the last rendered buffer
	snapshot *generaldata.Size

	// With holdCommits set, size requests wait for commit like a real client
	holdCommits bool
	pendingSize *generaldata.Size
	pendingMode SizingMode
	pendingTx   *Transaction
}

func newTestWindow(id WindowID, w, h float64) *testWindow {
	return &testWindow{
		id:    id,
		appID: "test",
		title: fmt.Sprintf("window %d", id),
		size:  generaldata.Sz(w, h),
	}
}

func (w *testWindow) ID() WindowID { return w.id }
func (w *testWindow) AppID() string { return w.appID }
func (w *testWindow) Title() string { return w.title }
func (w *testWindow) Size() generaldata.Size { return w.size }
func (w *testWindow) ExpectedSize() (generaldata.Size, bool) { return w.size, true }
func (w *testWindow) MinSize() generaldata.Size { return w.minSize }
func (w *testWindow) MaxSize() generaldata.Size { return w.maxSize }
func (w *testWindow) SizingMode() SizingMode { return w.mode }
func (w *testWindow) Rules() *config.ResolvedWindowRules { return &w.rules }
func (w *testWindow) IsUrgent() bool { return false }
func (w *testWindow) SetActivated(active bool) { w.activated = active }
func (w *testWindow) SetBounds(bounds generaldata.Size) { w.bounds = bounds }

func (w *testWindow) ParentID() (WindowID, bool) {
	return w.parent, w.parent != 0
}

func (w *testWindow) TakeAnimationSnapshot() (generaldata.Size, bool) {
	if w.snapshot == nil {
		return generaldata.Size{}, false
	}
	s := *w.snapshot
	w.snapshot = nil
	return s, true
}

func (w *testWindow) RequestSize(size generaldata.Vector2i, mode SizingMode, animate bool, tx *Transaction) {
	s := size.ToSize()
	if mode.IsNormal() {
		s.W = math.Max(s.W, w.minSize.W)
		s.H = math.Max(s.H, w.minSize.H)
		if w.maxSize.W > 0 {
			s.W = math.Min(s.W, w.maxSize.W)
		}
		if w.maxSize.H > 0 {
			s.H = math.Min(s.H, w.maxSize.H)
		}
	}
	w.requests++
	if !w.holdCommits {
		w.size = s
		w.mode = mode
		return
	}
	if tx != nil {
		tx.Register()
		if w.pendingTx != nil {
			w.pendingTx.Ack()
		}
		w.pendingTx = tx
	}
	w.pendingSize = &s
	w.pendingMode = mode
}

// commit applies the last held size request and acks its transaction
func (w *testWindow) commit() {
	if w.pendingSize != nil {
		w.size = *w.pendingSize
		w.mode = w.pendingMode
		w.pendingSize = nil
	}
	if w.pendingTx != nil {
		w.pendingTx.Ack()
		w.pendingTx = nil
	}
}

func testClock() *animation.Clock {
	c := animation.NewManualClock()
	c.SetCompleteInstantly(true)
	return c
}

func testOptions() *Options {
	o := DefaultOptions()
	o.Gaps = 16
	o.Struts = config.Struts{}
	o.CenterFocusedColumn = CENTER_NEVER
	o.AlwaysCenterSingleColumn = false
	w := WidthProportion(0.5)
	o.DefaultColumnWidth = &w
	o.DefaultColumnDisplay = DISPLAY_NORMAL
	o.PresetColumnWidths = []config.PresetSize{{Proportion: 0.25}, {Proportion: 0.5}, {Proportion: 0.75}}
	o.PresetWindowHeights = []config.PresetSize{{Fixed: 200}, {Fixed: 400}}
	o.Border.Off = true
	o.FocusRing.Off = true
	o.TabIndicator.Off = true
	o.DndEdgeViewScroll = config.DndEdgeConfig{TriggerWidth: 30, DelayMs: 0, MaxSpeed: 1500}
	o.CheckInvariants = true
	return o
}

func testOutput(name string) OutputInfo {
	return OutputInfo{Name: name, Size: generaldata.Sz(1920, 1000), Scale: 1}
}

func newTestRow() *Row {
	return NewRow(0, testOutput("test"), testClock(), testOptions())
}

func newTestTile(r *Row, id WindowID) *Tile {
	return NewTile(newTestWindow(id, 800, 600), r.viewSize, r.scale, r.clock, r.options)
}

// syncTiles plays the commit of every window in the row
func syncTiles(r *Row) {
	for _, t := range r.Tiles() {
		r.UpdateWindow(t.ID())
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func mustValidRow(t *testing.T, r *Row) {
	t.Helper()
	if err := checkRow(r); err != nil {
		t.Fatalf("row invariant violated: %v", err)
	}
}

func testWindowOf(tile *Tile) *testWindow {
	return tile.window.(*testWindow)
}
