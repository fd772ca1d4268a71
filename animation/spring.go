// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package animation

import (
	"math"
	"time"
)

// SpringParams describes a damped harmonic oscillator with unit mass
type SpringParams struct {
	DampingRatio float64
	Stiffness    float64
	Epsilon      float64
}

// NewSpringParams clamps the parameters into a usable range
func NewSpringParams(dampingRatio, stiffness, epsilon float64) SpringParams {
	return SpringParams{
		DampingRatio: max(dampingRatio, 0),
		Stiffness:    max(stiffness, 0),
		Epsilon:      max(epsilon, 0),
	}
}

func (p SpringParams) damping() float64 {
	const mass = 1.0
	return p.DampingRatio * 2 * math.Sqrt(mass*p.Stiffness)
}

// Spring is one oscillation from From to To
type Spring struct {
	From            float64
	To              float64
	InitialVelocity float64
	Params          SpringParams
}

// springMaxDuration bounds undamped or diverging springs
const springMaxDuration = 10 * time.Second

// ValueAt returns the position at time t after start
func (s Spring) ValueAt(t time.Duration) float64 {
	return s.oscillate(t.Seconds())
}

func (s Spring) oscillate(t float64) float64 {
	const mass = 1.0
	b := s.Params.damping()
	beta := b / (2 * mass)
	omega0 := math.Sqrt(s.Params.Stiffness / mass)

	x0 := s.From - s.To
	v0 := s.InitialVelocity

	envelope := math.Exp(-beta * t)

	switch {
	case math.Abs(beta-omega0) <= 1e-9:
		// critically damped
		return s.To + envelope*(x0+(beta*x0+v0)*t)
	case beta < omega0:
		omega1 := math.Sqrt(omega0*omega0 - beta*beta)
		return s.To + envelope*(x0*math.Cos(omega1*t)+((beta*x0+v0)/omega1)*math.Sin(omega1*t))
	default:
		omega2 := math.Sqrt(beta*beta - omega0*omega0)
		return s.To + envelope*(x0*math.Cosh(omega2*t)+((beta*x0+v0)/omega2)*math.Sinh(omega2*t))
	}
}

// Duration is how long it takes for the oscillation to settle within epsilon of To
func (s Spring) Duration() time.Duration {
	const mass = 1.0
	const delta = 0.001

	beta := s.Params.damping() / (2 * mass)
	if beta <= 1e-9 {
		return springMaxDuration
	}
	if math.Abs(s.To-s.From) <= 1e-9 {
		return 0
	}
	if s.Params.Epsilon <= 0 {
		return springMaxDuration
	}

	omega0 := math.Sqrt(s.Params.Stiffness / mass)

	// The envelope dropping below epsilon is a good enough estimate for the oscillating cases
	// and a starting point for Newton's method in the overdamped one.
	x0 := -math.Log(s.Params.Epsilon) / beta
	if math.Abs(beta-omega0) <= 1e-9 || beta < omega0 {
		return secondsToDuration(x0)
	}

	y0 := s.oscillate(x0)
	m := (s.oscillate(x0+delta) - y0) / delta
	x1 := (s.To - y0 + m*x0) / m
	y1 := s.oscillate(x1)

	for i := 0; math.Abs(s.To-y1) > s.Params.Epsilon; i++ {
		if i > 1000 || math.IsNaN(x1) {
			return 0
		}
		x0 = x1
		y0 = y1
		m = (s.oscillate(x0+delta) - y0) / delta
		x1 = (s.To - y0 + m*x0) / m
		y1 = s.oscillate(x1)
	}
	return secondsToDuration(x1)
}

// ClampedDuration is the time the spring first reaches To, or false if it does not within 3 seconds
func (s Spring) ClampedDuration() (time.Duration, bool) {
	beta := s.Params.damping() / 2
	if beta <= 1e-9 {
		return 0, false
	}
	if math.Abs(s.To-s.From) <= 1e-9 {
		return 0, true
	}

	i := 1
	y := s.oscillate(float64(i) / 1000)
	for (s.To-s.From > 1e-9 && s.To-y > s.Params.Epsilon) || (s.From-s.To > 1e-9 && y-s.To > s.Params.Epsilon) {
		if i == 3000 {
			return 0, false
		}
		i++
		y = s.oscillate(float64(i) / 1000)
	}
	return time.Duration(i) * time.Millisecond, true
}

func secondsToDuration(s float64) time.Duration {
	if s <= 0 || math.IsNaN(s) {
		return 0
	}
	d := time.Duration(s * float64(time.Second))
	return min(d, springMaxDuration)
}
