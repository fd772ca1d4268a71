// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package generaldata holds geometry types shared between the layout engine and the backends.
// Everything layout related is in logical (scale independent) coordinates stored as float64,
// the backends round to integer pixels at the edge.
package generaldata

import (
	"fmt"
	"math"
)

// Vector2i is an integer position or size, as used by backends
type Vector2i struct {
	X int
	Y int
}

func (v Vector2i) Add(o Vector2i) Vector2i { return Vector2i{v.X + o.X, v.Y + o.Y} }
func (v Vector2i) Sub(o Vector2i) Vector2i { return Vector2i{v.X - o.X, v.Y - o.Y} }

// ToPoint converts the vector to a logical point
func (v Vector2i) ToPoint() Point { return Point{X: float64(v.X), Y: float64(v.Y)} }

// ToSize converts the vector to a logical size
func (v Vector2i) ToSize() Size { return Size{W: float64(v.X), H: float64(v.Y)} }

// Point is a logical position
type Point struct {
	X float64
	Y float64
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(o Point) Point { return Point{p.X + o.X, p.Y + o.Y} }
func (p Point) Sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }
func (p Point) ToSize() Size { return Size{W: p.X, H: p.Y} }
func (p Point) Dist(o Point) float64 { return math.Hypot(p.X-o.X, p.Y-o.Y) }
func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }
func (p Point) Vector2i() Vector2i { return Vector2i{int(math.Round(p.X)), int(math.Round(p.Y))} }
func (p Point) AddSize(s Size) Point { return Point{p.X + s.W, p.Y + s.H} }
func (p Point) Upscale(s Size) Point { return Point{p.X * s.W, p.Y * s.H} }
func (p Point) Eq(o Point, eps float64) bool {
	return math.Abs(p.X-o.X) <= eps && math.Abs(p.Y-o.Y) <= eps
}

// ToPhysicalPrecise rounds the point to the nearest physical pixel at the given scale.
func (p Point) ToPhysicalPrecise(scale float64) Point {
	return Point{X: RoundLogicalInPhysical(scale, p.X), Y: RoundLogicalInPhysical(scale, p.Y)}
}

// Size is a logical size. Negative components are not meaningful.
type Size struct {
	W float64
	H float64
}

func Sz(w, h float64) Size { return Size{W: w, H: h} }

func (s Size) Add(o Size) Size { return Size{s.W + o.W, s.H + o.H} }
func (s Size) Sub(o Size) Size { return Size{s.W - o.W, s.H - o.H} }
func (s Size) Scale(f float64) Size { return Size{s.W * f, s.H * f} }
func (s Size) ToPoint() Point { return Point{X: s.W, Y: s.H} }
func (s Size) IsEmpty() bool { return s.W <= 0 || s.H <= 0 }
func (s Size) String() string { return fmt.Sprintf("%gx%g", s.W, s.H) }

// Max returns the component-wise maximum
func (s Size) Max(o Size) Size { return Size{math.Max(s.W, o.W), math.Max(s.H, o.H)} }

// Floor rounds both components down, as used when asking clients for a size
func (s Size) Floor() Vector2i {
	return Vector2i{int(math.Floor(s.W)), int(math.Floor(s.H))}
}

// Rectangle is a logical rectangle
type Rectangle struct {
	Loc  Point
	Size Size
}

func Rect(x, y, w, h float64) Rectangle {
	return Rectangle{Loc: Point{x, y}, Size: Size{w, h}}
}

func (r Rectangle) Right() float64 { return r.Loc.X + r.Size.W }
func (r Rectangle) Bottom() float64 { return r.Loc.Y + r.Size.H }
func (r Rectangle) Center() Point {
	return Point{X: r.Loc.X + r.Size.W/2, Y: r.Loc.Y + r.Size.H/2}
}

// Contains reports whether the point lies inside the rectangle, right and bottom edges excluded
func (r Rectangle) Contains(p Point) bool {
	return p.X >= r.Loc.X && p.X < r.Right() && p.Y >= r.Loc.Y && p.Y < r.Bottom()
}

// Overlaps reports whether both rectangles share a non-empty area
func (r Rectangle) Overlaps(o Rectangle) bool {
	return r.Loc.X < o.Right() && o.Loc.X < r.Right() && r.Loc.Y < o.Bottom() && o.Loc.Y < r.Bottom()
}

func (r Rectangle) Translate(p Point) Rectangle {
	return Rectangle{Loc: r.Loc.Add(p), Size: r.Size}
}

func (r Rectangle) String() string {
	return fmt.Sprintf("%s@%s", r.Size, r.Loc)
}

// RoundLogicalInPhysical rounds a logical coordinate so that it lands on a physical pixel
func RoundLogicalInPhysical(scale, logical float64) float64 {
	return math.Round(logical*scale) / scale
}

// RoundLogicalInPhysicalMax1 is RoundLogicalInPhysical, but never returns less than one physical pixel
// for positive input. Used for border widths.
func RoundLogicalInPhysicalMax1(scale, logical float64) float64 {
	if logical == 0 {
		return 0
	}
	return math.Max(1, math.Round(logical*scale)) / scale
}
