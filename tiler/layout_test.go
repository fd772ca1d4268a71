// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"testing"

	generaldata "github.com/veighnsche/niri-sub001/general-data"
)

type eventLog struct {
	events []Event
}

func (e *eventLog) record(ev Event) {
	e.events = append(e.events, ev)
}

func (e *eventLog) has(kind EventKind, window WindowID) bool {
	for _, ev := range e.events {
		if ev.Kind == kind && ev.Window == window {
			return true
		}
	}
	return false
}

func newTestLayout(t *testing.T, outputs ...string) (*Layout, *eventLog) {
	t.Helper()
	l := NewLayout(testClock(), testOptions())
	log := &eventLog{}
	l.SetEventHandler(log.record)
	for _, name := range outputs {
		l.AddOutput(testOutput(name))
	}
	return l, log
}

func mustValidLayout(t *testing.T, l *Layout) {
	t.Helper()
	if err := l.VerifyInvariants(); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
}

func TestLayoutWindowsWithoutOutputsMoveToFirstOutput(t *testing.T) {
	l, log := newTestLayout(t)
	w := newTestWindow(1, 800, 600)
	if l.AddWindow(w, AddWindowTarget{}, true) == nil {
		t.Fatal("window was not added")
	}
	if !l.HasWindow(1) {
		t.Fatal("window not found without outputs")
	}
	if id, ok := l.FocusedWindow(); !ok || id != 1 {
		t.Errorf("focused = %v %v, want 1", id, ok)
	}
	if !w.activated {
		t.Error("window was not activated")
	}
	if !log.has(EVENT_WINDOW_OPENED, 1) || !log.has(EVENT_WINDOW_FOCUSED, 1) {
		t.Errorf("missing open or focus events: %v", log.events)
	}
	mustValidLayout(t, l)

	l.AddOutput(testOutput("DP-1"))
	mustValidLayout(t, l)
	if l.ActiveMonitor() == nil || l.ActiveMonitor().Name() != "DP-1" {
		t.Fatal("DP-1 is not the active monitor")
	}
	if !l.ActiveCanvas().HasWindow(1) {
		t.Fatal("window did not move to the new output")
	}

	windows := l.Windows()
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
	info := windows[0]
	if info.Output != "DP-1" {
		t.Errorf("output = %q, want DP-1", info.Output)
	}
	if !approx(info.Layout.TileSize.X, 936) {
		t.Errorf("tile width = %v, want 936", info.Layout.TileSize.X)
	}
	if pos := info.Layout.TilePosInRowView; pos == nil || !approx(pos.X, 16) || !approx(pos.Y, 16) {
		t.Errorf("tile pos = %v, want (16, 16)", pos)
	}
}

func TestLayoutFocusFollowsCommands(t *testing.T) {
	l, log := newTestLayout(t, "DP-1")
	w1 := newTestWindow(1, 800, 600)
	w2 := newTestWindow(2, 800, 600)
	l.AddWindow(w1, AddWindowTarget{}, true)
	l.AddWindow(w2, AddWindowTarget{}, true)
	if w1.activated || !w2.activated {
		t.Fatalf("activated = %v %v, want false true", w1.activated, w2.activated)
	}

	l.FocusLeft()
	if !w1.activated || w2.activated {
		t.Errorf("after focus left activated = %v %v, want true false", w1.activated, w2.activated)
	}
	if id, _ := l.FocusedWindow(); id != 1 {
		t.Errorf("focused = %v, want 1", id)
	}

	if l.RemoveWindow(1) == nil {
		t.Fatal("window 1 was not removed")
	}
	if !log.has(EVENT_WINDOW_CLOSED, 1) {
		t.Error("missing close event")
	}
	if id, _ := l.FocusedWindow(); id != 2 || !w2.activated {
		t.Errorf("focused = %v, want 2", id)
	}
	if l.RemoveWindow(1) != nil {
		t.Error("removing an unknown window returned a tile")
	}
	mustValidLayout(t, l)
}

func TestLayoutAddWindowTwiceIsIgnored(t *testing.T) {
	l, _ := newTestLayout(t, "DP-1")
	w := newTestWindow(1, 800, 600)
	l.AddWindow(w, AddWindowTarget{}, true)
	if l.AddWindow(w, AddWindowTarget{}, true) != nil {
		t.Error("second add returned a tile")
	}
	if got := len(l.Windows()); got != 1 {
		t.Errorf("got %d windows, want 1", got)
	}
}

func TestLayoutRowsComeBackWithTheirOutput(t *testing.T) {
	l, log := newTestLayout(t, "DP-1", "DP-2")
	l.AddWindow(newTestWindow(1, 800, 600), AddWindowTarget{}, true)
	l.AddWindow(newTestWindow(2, 800, 600), AddWindowTarget{Kind: TARGET_OUTPUT, Output: "DP-2"}, true)
	if l.ActiveMonitor().Name() != "DP-2" {
		t.Fatalf("active monitor = %q, want DP-2", l.ActiveMonitor().Name())
	}
	mustValidLayout(t, l)

	if !l.RemoveOutput("DP-2") {
		t.Fatal("DP-2 was not removed")
	}
	if !log.has(EVENT_OUTPUT_REMOVED, 0) {
		t.Error("missing output removed event")
	}
	mustValidLayout(t, l)
	dp1 := l.MonitorByName("DP-1")
	if l.ActiveMonitor() != dp1 {
		t.Fatal("DP-1 is not active after DP-2 went away")
	}
	row, ok := dp1.Canvas().Row(1)
	if !ok || !row.HasWindow(2) {
		t.Fatal("window 2 did not move to row 1 of DP-1")
	}
	if id, _ := l.FocusedWindow(); id != 1 {
		t.Errorf("focused = %v, want 1", id)
	}

	m := l.AddOutput(testOutput("DP-2"))
	mustValidLayout(t, l)
	if dp1.Canvas().HasWindow(2) {
		t.Error("window 2 stayed on DP-1")
	}
	if !m.Canvas().ActiveRow().HasWindow(2) {
		t.Error("the row of window 2 is not active on DP-2 again")
	}
	if !dp1.Canvas().HasWindow(1) {
		t.Error("window 1 left DP-1")
	}
}

func TestLayoutRemovingLastOutputKeepsWindows(t *testing.T) {
	l, _ := newTestLayout(t, "DP-1")
	l.AddWindow(newTestWindow(1, 800, 600), AddWindowTarget{}, true)
	l.RemoveOutput("DP-1")
	if len(l.Monitors()) != 0 {
		t.Fatalf("got %d monitors, want 0", len(l.Monitors()))
	}
	if !l.HasWindow(1) {
		t.Fatal("window lost with the last output")
	}
	mustValidLayout(t, l)

	l.AddOutput(testOutput("HDMI-A-1"))
	if !l.MonitorByName("HDMI-A-1").Canvas().HasWindow(1) {
		t.Error("window did not move to the new output")
	}
	mustValidLayout(t, l)
}

func TestLayoutQueries(t *testing.T) {
	l, _ := newTestLayout(t, "DP-1", "DP-2")
	l.AddWindow(newTestWindow(1, 800, 600), AddWindowTarget{}, true)

	outputs := l.OutputsInfo()
	if len(outputs) != 2 {
		t.Fatalf("got %d outputs, want 2", len(outputs))
	}
	if outputs[0].Name != "DP-1" || !outputs[0].IsFocused || outputs[1].IsFocused {
		t.Errorf("unexpected outputs %+v", outputs)
	}

	rows := l.RowsInfo()
	focused := 0
	for _, r := range rows {
		if r.IsFocused {
			focused++
			if r.Output != "DP-1" || r.ActiveWindowID == nil || *r.ActiveWindowID != 1 || r.Columns != 1 {
				t.Errorf("unexpected focused row %+v", r)
			}
		}
	}
	if focused != 1 {
		t.Errorf("got %d focused rows, want 1", focused)
	}

	windows := l.Windows()
	if len(windows) != 1 || !windows[0].IsFocused || windows[0].RowID == nil {
		t.Fatalf("unexpected windows %+v", windows)
	}
	if pos := windows[0].Layout.PosInScrollingLayout; pos == nil || pos.X != 1 || pos.Y != 1 {
		t.Errorf("pos in scrolling layout = %v, want (1, 1)", pos)
	}
}

func TestLayoutInteractiveMoveCancelRestoresColumn(t *testing.T) {
	l, _ := newTestLayout(t, "DP-1")
	l.AddWindow(newTestWindow(1, 800, 600), AddWindowTarget{}, true)
	l.AddWindow(newTestWindow(2, 800, 600), AddWindowTarget{}, true)
	canvas := l.ActiveCanvas()

	if !l.InteractiveMoveBegin(2, "DP-1", generaldata.Pt(1000, 100)) {
		t.Fatal("move did not begin")
	}
	if l.InteractiveMoveBegin(1, "DP-1", generaldata.Pt(100, 100)) {
		t.Error("second move began while one is ongoing")
	}
	l.InteractiveMoveUpdate(2, "DP-1", generaldata.Pt(1000, 105))
	if !canvas.HasWindow(2) {
		t.Fatal("window picked up below the threshold")
	}

	l.InteractiveMoveUpdate(2, "DP-1", generaldata.Pt(600, 400))
	if canvas.HasWindow(2) {
		t.Fatal("window still in the row while moving")
	}
	if !l.HasWindow(2) {
		t.Fatal("moving window is not known to the layout")
	}
	if id, _ := l.FocusedWindow(); id != 2 {
		t.Errorf("focused = %v, want the moving window", id)
	}
	if w := l.Windows(); len(w) != 2 || w[0].ID != 2 || w[0].RowID != nil {
		t.Errorf("unexpected windows while moving %+v", w)
	}
	mustValidLayout(t, l)

	l.InteractiveMoveCancel()
	if l.IsInteractiveMoveOngoing() {
		t.Fatal("move still ongoing after cancel")
	}
	if got := columnIDs(canvas.ActiveRow()); len(got) != 2 || got[1][0] != 2 {
		t.Errorf("columns = %v, want [[1] [2]]", got)
	}
	mustValidLayout(t, l)
}

func TestLayoutInteractiveMoveEndInsertsIntoColumn(t *testing.T) {
	l, _ := newTestLayout(t, "DP-1")
	l.AddWindow(newTestWindow(1, 800, 600), AddWindowTarget{}, true)
	l.AddWindow(newTestWindow(2, 800, 600), AddWindowTarget{}, true)

	l.InteractiveMoveBegin(2, "DP-1", generaldata.Pt(1000, 100))
	l.InteractiveMoveUpdate(2, "DP-1", generaldata.Pt(500, 900))
	if !l.InteractiveMoveEnd(2) {
		t.Fatal("move did not end")
	}
	got := columnIDs(l.ActiveCanvas().ActiveRow())
	if len(got) != 1 || len(got[0]) != 2 || got[0][1] != 2 {
		t.Errorf("columns = %v, want [[1 2]]", got)
	}
	if id, _ := l.FocusedWindow(); id != 2 {
		t.Errorf("focused = %v, want 2", id)
	}
	mustValidLayout(t, l)
}

func TestLayoutInteractiveMoveFloating(t *testing.T) {
	l, _ := newTestLayout(t, "DP-1")
	w := newTestWindow(1, 800, 600)
	floating := true
	w.rules.OpenFloating = &floating
	l.AddWindow(w, AddWindowTarget{}, true)
	canvas := l.ActiveCanvas()
	if rect, _ := canvas.floating.WindowRect(1); !approx(rect.Loc.X, 560) || !approx(rect.Loc.Y, 200) {
		t.Fatalf("floating window at %v, want (560, 200)", rect.Loc)
	}

	l.InteractiveMoveBegin(1, "DP-1", generaldata.Pt(960, 210))
	l.InteractiveMoveUpdate(1, "DP-1", generaldata.Pt(1160, 410))
	l.InteractiveMoveEnd(1)

	if !canvas.floating.HasWindow(1) {
		t.Fatal("window is no longer floating")
	}
	if rect, _ := canvas.floating.WindowRect(1); !approx(rect.Loc.X, 760) || !approx(rect.Loc.Y, 400) {
		t.Errorf("floating window at %v, want (760, 400)", rect.Loc)
	}
	mustValidLayout(t, l)
}

func TestLayoutMoveWindowToOutput(t *testing.T) {
	l, _ := newTestLayout(t, "DP-1", "DP-2")
	l.AddWindow(newTestWindow(1, 800, 600), AddWindowTarget{}, true)
	if !l.MoveWindowToOutput(1, "DP-2") {
		t.Fatal("move to output failed")
	}
	if !l.MonitorByName("DP-2").Canvas().HasWindow(1) {
		t.Error("window is not on DP-2")
	}
	if l.ActiveMonitor().Name() != "DP-2" {
		t.Errorf("active monitor = %q, want DP-2", l.ActiveMonitor().Name())
	}
	if l.MoveWindowToOutput(1, "DP-3") {
		t.Error("moved to an unknown output")
	}
	mustValidLayout(t, l)
}
