// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
	"github.com/veighnsche/niri-sub001/config"
	generaldata "github.com/veighnsche/niri-sub001/general-data"
	"github.com/veighnsche/niri-sub001/tiler"
)

// wlWindow is an xdg toplevel as seen by the layout
type wlWindow struct {
	server   *Server
	id       tiler.WindowID
	topLevel wlroots.XDGTopLevel
	appID    string
	title    string
	rules    config.ResolvedWindowRules

	// Geometry of the last commit
	size generaldata.Size
	mode tiler.SizingMode

	requested    generaldata.Vector2i
	hasRequested bool
	pendingMode  tiler.SizingMode
	pendingTx    *tiler.Transaction
	snapshot     *generaldata.Size

	activated bool
	bounds    generaldata.Size
}

func newWlWindow(server *Server, id tiler.WindowID, topLevel wlroots.XDGTopLevel) *wlWindow {
	w := &wlWindow{
		server:   server,
		id:       id,
		topLevel: topLevel,
		appID:    topLevel.AppID(),
		title:    topLevel.Title(),
	}
	w.rules = server.rules.Resolve(w.appID, w.title)
	w.size = w.geometry()
	return w
}

func (w *wlWindow) geometry() generaldata.Size {
	box := w.topLevel.Base().Geometry()
	return generaldata.Sz(float64(box.Width), float64(box.Height))
}

func (w *wlWindow) ID() tiler.WindowID { return w.id }
func (w *wlWindow) AppID() string      { return w.appID }
func (w *wlWindow) Title() string      { return w.title }

func (w *wlWindow) Size() generaldata.Size { return w.size }

func (w *wlWindow) ExpectedSize() (generaldata.Size, bool) {
	if !w.hasRequested {
		return generaldata.Size{}, false
	}
	return w.requested.ToSize(), true
}

// xdg size constraints are not exposed by go-wlroots
func (w *wlWindow) MinSize() generaldata.Size { return generaldata.Size{} }
func (w *wlWindow) MaxSize() generaldata.Size { return generaldata.Size{} }

func (w *wlWindow) RequestSize(size generaldata.Vector2i, mode tiler.SizingMode, animate bool, tx *tiler.Transaction) {
	if w.hasRequested && size == w.requested && mode == w.pendingMode {
		return
	}
	if animate && !w.size.IsEmpty() {
		snap := w.size
		w.snapshot = &snap
	}
	w.requested = size
	w.hasRequested = true
	w.pendingMode = mode
	if tx != nil {
		tx.Register()
		w.ackPending()
		w.pendingTx = tx
	}
	logrus.WithFields(logrus.Fields{
		"window": w.id,
		"size":   size,
		"mode":   mode,
	}).Debugln("Requesting window size")
	w.topLevel.Base().TopLevelSetSize(uint32(max(size.X, 0)), uint32(max(size.Y, 0)))
}

func (w *wlWindow) ackPending() {
	if w.pendingTx != nil {
		w.pendingTx.Ack()
		w.pendingTx = nil
	}
}

func (w *wlWindow) SizingMode() tiler.SizingMode { return w.mode }

func (w *wlWindow) Rules() *config.ResolvedWindowRules { return &w.rules }

// Parent links are not exposed by go-wlroots
func (w *wlWindow) ParentID() (tiler.WindowID, bool) { return 0, false }

func (w *wlWindow) TakeAnimationSnapshot() (generaldata.Size, bool) {
	if w.snapshot == nil {
		return generaldata.Size{}, false
	}
	snap := *w.snapshot
	w.snapshot = nil
	return snap, true
}

func (w *wlWindow) IsUrgent() bool { return false }

func (w *wlWindow) SetActivated(active bool) {
	if w.activated == active {
		return
	}
	w.activated = active
	w.topLevel.SetActivated(active)
	if active {
		w.topLevel.Base().SceneTree().Node().RaiseToTop()
		w.server.seat.NotifyKeyboardEnter(w.topLevel.Base().Surface(), w.server.seat.Keyboard())
	}
}

func (w *wlWindow) SetBounds(bounds generaldata.Size) {
	w.bounds = bounds
}

// refresh picks up a new commit. Returns whether the layout has to hear about it.
func (w *wlWindow) refresh() bool {
	size := w.geometry()
	changed := size != w.size
	w.size = size
	if changed {
		w.ackPending()
	}
	if w.hasRequested && w.mode != w.pendingMode && (changed || size == w.requested.ToSize()) {
		w.mode = w.pendingMode
		changed = true
	}
	return changed
}

// placeAt moves the scene node to layout coordinates
func (w *wlWindow) placeAt(pos generaldata.Point) {
	p := pos.Vector2i()
	w.topLevel.Base().SceneTree().Node().SetPosition(float64(p.X), float64(p.Y))
}
