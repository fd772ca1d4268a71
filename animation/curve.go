// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package animation

import (
	"fmt"
	"math"
	"strings"
)

type Curve int

const (
	CURVE_LINEAR = Curve(iota)
	CURVE_EASE_OUT_QUAD
	CURVE_EASE_OUT_CUBIC
	CURVE_EASE_OUT_EXPO
	CURVE_CUBIC_BEZIER
)

// ParseCurve maps a config name to a curve.
// Unknown names fall back to ease-out-cubic.
func ParseCurve(name string) (Curve, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "linear":
		return CURVE_LINEAR, nil
	case "ease-out-quad":
		return CURVE_EASE_OUT_QUAD, nil
	case "ease-out-cubic", "":
		return CURVE_EASE_OUT_CUBIC, nil
	case "ease-out-expo":
		return CURVE_EASE_OUT_EXPO, nil
	case "cubic-bezier":
		return CURVE_CUBIC_BEZIER, nil
	default:
		return CURVE_EASE_OUT_CUBIC, fmt.Errorf("unknown curve %q", name)
	}
}

func (c Curve) String() string {
	switch c {
	case CURVE_LINEAR:
		return "linear"
	case CURVE_EASE_OUT_QUAD:
		return "ease-out-quad"
	case CURVE_EASE_OUT_CUBIC:
		return "ease-out-cubic"
	case CURVE_EASE_OUT_EXPO:
		return "ease-out-expo"
	case CURVE_CUBIC_BEZIER:
		return "cubic-bezier"
	}
	return "unknown"
}

// Bezier holds the two control points of a CSS style cubic bezier. The end points are (0,0) and (1,1).
type Bezier struct {
	X1, Y1, X2, Y2 float64
}

// y evaluates the curve at progress x in [0, 1]
func (c Curve) y(x float64, b Bezier) float64 {
	x = min(max(x, 0), 1)
	switch c {
	case CURVE_LINEAR:
		return x
	case CURVE_EASE_OUT_QUAD:
		return 1 - (1-x)*(1-x)
	case CURVE_EASE_OUT_CUBIC:
		return 1 - math.Pow(1-x, 3)
	case CURVE_EASE_OUT_EXPO:
		if x == 1 {
			return 1
		}
		return 1 - math.Pow(2, -10*x)
	case CURVE_CUBIC_BEZIER:
		return b.solve(x)
	}
	return x
}

func bezierCoord(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t
}

// solve finds y for a given x by bisecting t
func (b Bezier) solve(x float64) float64 {
	lo, hi := 0.0, 1.0
	t := x
	for range 64 {
		cx := bezierCoord(t, b.X1, b.X2)
		if math.Abs(cx-x) < 1e-7 {
			break
		}
		if cx < x {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return bezierCoord(t, b.Y1, b.Y2)
}
