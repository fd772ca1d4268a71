// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import "fmt"

type EventKind int

const (
	EVENT_WINDOW_OPENED = EventKind(iota)
	EVENT_WINDOW_CLOSED
	EVENT_WINDOW_FOCUSED
	EVENT_ROW_ACTIVATED
	EVENT_OUTPUT_ADDED
	EVENT_OUTPUT_REMOVED
)

func (k EventKind) String() string {
	switch k {
	case EVENT_WINDOW_OPENED:
		return "window-opened"
	case EVENT_WINDOW_CLOSED:
		return "window-closed"
	case EVENT_WINDOW_FOCUSED:
		return "window-focused"
	case EVENT_ROW_ACTIVATED:
		return "row-activated"
	case EVENT_OUTPUT_ADDED:
		return "output-added"
	case EVENT_OUTPUT_REMOVED:
		return "output-removed"
	}
	return "unknown"
}

// Event tells protocol managers and other observers that something in the layout changed.
// Only the fields relevant to the kind are set.
type Event struct {
	Kind EventKind
	// Zero for EVENT_WINDOW_FOCUSED means nothing is focused anymore
	Window WindowID
	Row    RowID
	Output string
}

func (e Event) String() string {
	switch e.Kind {
	case EVENT_ROW_ACTIVATED:
		return fmt.Sprintf("%s %s on %q", e.Kind, e.Row, e.Output)
	case EVENT_OUTPUT_ADDED, EVENT_OUTPUT_REMOVED:
		return fmt.Sprintf("%s %q", e.Kind, e.Output)
	}
	return fmt.Sprintf("%s %s", e.Kind, e.Window)
}
