// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package util

import "testing"

func TestUnpack(t *testing.T) {
	var a, b, c string
	c = "untouched"
	if n := Unpack([]string{"x", "y"}, &a, &b, &c); n != 2 {
		t.Errorf("expected 2 unpacked, got %d", n)
	}
	if a != "x" || b != "y" || c != "untouched" {
		t.Errorf("unexpected values %q %q %q", a, b, c)
	}
	if n := Unpack([]string{"1", "2", "3"}, &a); n != 1 || a != "1" {
		t.Errorf("expected only first element, got %q (%d)", a, n)
	}
}

func TestSplitCommand(t *testing.T) {
	name, args := SplitCommand("  Focus   left  now ")
	if name != "focus" || len(args) != 2 || args[0] != "left" {
		t.Errorf("unexpected split %q %v", name, args)
	}
	if name, args := SplitCommand("   "); name != "" || args != nil {
		t.Errorf("expected empty split, got %q %v", name, args)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Errorf("clamp broken")
	}
	if Clamp(1.0, 10.0, 5.0) != 10 {
		t.Errorf("lo must win when range is inverted")
	}
}
