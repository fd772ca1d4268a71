// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package animation

// RubberBand resists movement past a boundary, the further out the stronger.
// Stiffness controls how fast resistance grows, Limit is the asymptotic maximum overshoot.
type RubberBand struct {
	Stiffness float64
	Limit     float64
}

// Band maps an unbounded overshoot x to a bounded one
func (r RubberBand) Band(x float64) float64 {
	c := r.Stiffness
	d := r.Limit
	if d == 0 {
		return 0
	}
	return (1 - (1 / (x*c/d + 1))) * d
}

// Derivative of Band at x
func (r RubberBand) Derivative(x float64) float64 {
	c := r.Stiffness
	d := r.Limit
	denom := c*x + d
	if denom == 0 {
		return 0
	}
	return c * d * d / (denom * denom)
}

// Clamp applies the band to whatever part of x lies outside [minRange, maxRange]
func (r RubberBand) Clamp(minRange, maxRange, x float64) float64 {
	clamped := min(max(x, minRange), maxRange)
	sign := 1.0
	if x < clamped {
		sign = -1
	}
	diff := x - clamped
	if diff < 0 {
		diff = -diff
	}
	return clamped + sign*r.Band(diff)
}

// ClampDerivative is the derivative of Clamp at x
func (r RubberBand) ClampDerivative(minRange, maxRange, x float64) float64 {
	if minRange <= x && x <= maxRange {
		return 1
	}
	clamped := min(max(x, minRange), maxRange)
	diff := x - clamped
	if diff < 0 {
		diff = -diff
	}
	return r.Derivative(diff)
}
