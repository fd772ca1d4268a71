// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"time"

	"github.com/veighnsche/niri-sub001/animation"
)

// Resolve turns the file representation into animation parameters.
// Bad curve names fall back to the default curve and are reported through the error.
func (a AnimationConfig) Resolve() (animation.Config, error) {
	if a.Off {
		return animation.Config{Off: true}, nil
	}
	switch a.Kind {
	case "spring":
		return animation.SpringConfig(a.DampingRatio, a.Stiffness, a.Epsilon), nil
	case "easing", "":
		curve, err := animation.ParseCurve(a.Curve)
		params := animation.EasingParams{
			Duration: time.Duration(max(a.DurationMs, 0)) * time.Millisecond,
			Curve:    curve,
		}
		if curve == animation.CURVE_CUBIC_BEZIER {
			if len(a.Bezier) != 4 {
				return animation.Config{Easing: &animation.DefaultEasing}, fmt.Errorf("cubic-bezier needs 4 control values, got %d", len(a.Bezier))
			}
			params.Bezier = animation.Bezier{X1: a.Bezier[0], Y1: a.Bezier[1], X2: a.Bezier[2], Y2: a.Bezier[3]}
		}
		return animation.Config{Easing: &params}, err
	default:
		return animation.Config{Easing: &animation.DefaultEasing}, fmt.Errorf("unknown animation kind %q", a.Kind)
	}
}

// ResolvedAnimations holds every animation kind the layout uses
type ResolvedAnimations struct {
	Off                    bool
	Slowdown               float64
	WindowOpen             animation.Config
	WindowMovement         animation.Config
	WindowResize           animation.Config
	HorizontalViewMovement animation.Config
	RowSwitch              animation.Config
}

// Resolve resolves all animation kinds. The first resolution error is returned along with
// a fully usable result.
func (a AnimationsConfig) Resolve() (ResolvedAnimations, error) {
	var firstErr error
	resolve := func(name string, c AnimationConfig) animation.Config {
		res, err := c.Resolve()
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", name, err)
		}
		if a.Off {
			res.Off = true
		}
		return res
	}
	return ResolvedAnimations{
		Off:                    a.Off,
		Slowdown:               a.Slowdown,
		WindowOpen:             resolve("window_open", a.WindowOpen),
		WindowMovement:         resolve("window_movement", a.WindowMovement),
		WindowResize:           resolve("window_resize", a.WindowResize),
		HorizontalViewMovement: resolve("horizontal_view_movement", a.HorizontalViewMovement),
		RowSwitch:              resolve("row_switch", a.RowSwitch),
	}, firstErr
}
