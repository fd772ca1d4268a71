// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	"fmt"
	"sync/atomic"

	"github.com/veighnsche/niri-sub001/config"
	generaldata "github.com/veighnsche/niri-sub001/general-data"
)

// WindowID identifies a window for its whole lifetime. Ids are handed out by the backend.
type WindowID uint64

func (id WindowID) String() string {
	return fmt.Sprintf("window#%d", uint64(id))
}

type SizingMode int

const (
	SIZING_NORMAL = SizingMode(iota)
	SIZING_MAXIMIZED
	SIZING_FULLSCREEN
)

func (m SizingMode) IsNormal() bool { return m == SIZING_NORMAL }
func (m SizingMode) IsMaximized() bool { return m == SIZING_MAXIMIZED }
func (m SizingMode) IsFullscreen() bool { return m == SIZING_FULLSCREEN }

func (m SizingMode) String() string {
	switch m {
	case SIZING_NORMAL:
		return "normal"
	case SIZING_MAXIMIZED:
		return "maximized"
	case SIZING_FULLSCREEN:
		return "fullscreen"
	}
	return "unknown"
}

// Window is everything the layout needs from a client window.
// Each backend (wlroots toplevels, test windows) provides its own implementation.
type Window interface {
	ID() WindowID
	AppID() string
	Title() string

	// Size is the size of the last committed buffer in logical pixels
	Size() generaldata.Size
	// ExpectedSize is the size the window will have once it acks the last request
	ExpectedSize() (generaldata.Size, bool)
	// MinSize and MaxSize are the client constraints, a zero component means unconstrained
	MinSize() generaldata.Size
	MaxSize() generaldata.Size

	// RequestSize asks the client to resize. The commit is latched until tx completes, if given.
	RequestSize(size generaldata.Vector2i, mode SizingMode, animate bool, tx *Transaction)
	// SizingMode is the mode the window currently presents in
	SizingMode() SizingMode

	// Rules returns the window rules that currently apply, never nil
	Rules() *config.ResolvedWindowRules
	// ParentID is set for transient (dialog) windows
	ParentID() (WindowID, bool)
	// TakeAnimationSnapshot returns the size of the content shown before the last resize, once
	TakeAnimationSnapshot() (generaldata.Size, bool)

	IsUrgent() bool
	SetActivated(active bool)
	// SetBounds tells the client how large it can reasonably be
	SetBounds(bounds generaldata.Size)
}

// Transaction ties together the size requests of one layout pass, so that the resulting
// commits can be shown at the same time.
type Transaction struct {
	id      uint64
	pending atomic.Int32
	onDone  []func()
}

var transactionCounter atomic.Uint64

func NewTransaction() *Transaction {
	return &Transaction{id: transactionCounter.Add(1)}
}

func (t *Transaction) ID() uint64 {
	return t.id
}

// Register adds one participant that has to ack before the transaction completes
func (t *Transaction) Register() {
	t.pending.Add(1)
}

// Ack marks one participant as done. Extra acks are ignored.
func (t *Transaction) Ack() {
	for {
		cur := t.pending.Load()
		if cur <= 0 {
			return
		}
		if t.pending.CompareAndSwap(cur, cur-1) {
			if cur == 1 {
				for _, f := range t.onDone {
					f()
				}
				t.onDone = nil
			}
			return
		}
	}
}

// IsCompleted reports whether every registered participant acked
func (t *Transaction) IsCompleted() bool {
	return t.pending.Load() <= 0
}

// OnDone runs f once the transaction completes, or right away if it already has
func (t *Transaction) OnDone(f func()) {
	if t.IsCompleted() {
		f()
		return
	}
	t.onDone = append(t.onDone, f)
}
