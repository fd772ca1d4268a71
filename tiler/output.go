// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import (
	generaldata "github.com/veighnsche/niri-sub001/general-data"
)

// OutputInfo describes the output a canvas is shown on
type OutputInfo struct {
	Name string
	// Logical size of the output
	Size generaldata.Size
	// Area left over by exclusive zones, relative to the output. Empty means the whole output.
	UsableArea generaldata.Rectangle
	Scale      float64
}

// Geometry the windows get laid out in while no output is connected
var noOutputInfo = OutputInfo{
	Size:  generaldata.Size{W: 1280, H: 720},
	Scale: 1,
}

func (o OutputInfo) usableArea() generaldata.Rectangle {
	if o.UsableArea.Size.IsEmpty() {
		return generaldata.Rectangle{Size: o.Size}
	}
	return o.UsableArea
}

func (o OutputInfo) scale() float64 {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}
