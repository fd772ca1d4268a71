// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tiler

import "testing"

func TestParseSizeChange(t *testing.T) {
	tests := []struct {
		in   string
		want SizeChange
	}{
		{"800", SizeChange{Kind: SET_FIXED, Value: 800}},
		{"+10", SizeChange{Kind: ADJUST_FIXED, Value: 10}},
		{"-10", SizeChange{Kind: ADJUST_FIXED, Value: -10}},
		{"50%", SizeChange{Kind: SET_PROPORTION, Value: 50}},
		{" +5% ", SizeChange{Kind: ADJUST_PROPORTION, Value: 5}},
		{"-12.5%", SizeChange{Kind: ADJUST_PROPORTION, Value: -12.5}},
	}
	for _, tt := range tests {
		got, err := ParseSizeChange(tt.in)
		if err != nil {
			t.Errorf("ParseSizeChange(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSizeChange(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"", "abc", "%", "+", "10px"} {
		if _, err := ParseSizeChange(in); err == nil {
			t.Errorf("ParseSizeChange(%q) should fail", in)
		}
	}
}

func TestParsePositionChange(t *testing.T) {
	tests := []struct {
		in      string
		want    PositionChange
		applied float64
	}{
		{"100", PositionChange{Kind: POSITION_SET, Value: 100}, 100},
		{"+10", PositionChange{Kind: POSITION_ADJUST, Value: 10}, 60},
		{"-10", PositionChange{Kind: POSITION_ADJUST, Value: -10}, 40},
	}
	for _, tt := range tests {
		got, err := ParsePositionChange(tt.in)
		if err != nil {
			t.Errorf("ParsePositionChange(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePositionChange(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
		if a := got.apply(50); a != tt.applied {
			t.Errorf("%q applied to 50 = %v, want %v", tt.in, a, tt.applied)
		}
	}
	if _, err := ParsePositionChange("left"); err == nil {
		t.Error("ParsePositionChange(\"left\") should fail")
	}
}

func TestColumnWidthResolve(t *testing.T) {
	o := testOptions()
	tests := []struct {
		width ColumnWidth
		want  float64
	}{
		{WidthProportion(0.5), 936},
		{WidthProportion(1), 1888},
		{WidthProportion(0.25), 460},
		{WidthFixed(700), 700},
		{WidthFixed(0), 1},
		{WidthPreset(2), 1412},
		{WidthPreset(10), 1412},
	}
	for _, tt := range tests {
		if got := tt.width.Resolve(o, 1920); !approx(got, tt.want) {
			t.Errorf("%v.Resolve(1920) = %v, want %v", tt.width, got, tt.want)
		}
	}

	// Two half width columns and their gaps fill the area exactly
	half := WidthProportion(0.5).Resolve(o, 1920)
	if total := o.Gaps + half + o.Gaps + half + o.Gaps; !approx(total, 1920) {
		t.Errorf("two half columns span %v, want 1920", total)
	}
}

func TestPresetHeights(t *testing.T) {
	o := testOptions()
	if got := resolvePresetHeight(o, 1000, 1); got != 400 {
		t.Errorf("preset 1 = %v, want 400", got)
	}
	if got := resolvePresetHeight(o, 1000, -3); got != 200 {
		t.Errorf("preset -3 = %v, want 200", got)
	}
	o.PresetWindowHeights = nil
	if got := resolvePresetHeight(o, 1000, 0); got != 476 {
		t.Errorf("default preset = %v, want 476", got)
	}
}

func TestSizeStrings(t *testing.T) {
	if got := HeightAuto(0).String(); got != "auto(1)" {
		t.Errorf("HeightAuto(0) = %q, want auto(1)", got)
	}
	if got := HeightFixed(300).String(); got != "fixed(300)" {
		t.Errorf("HeightFixed(300) = %q", got)
	}
}
