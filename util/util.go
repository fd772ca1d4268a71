// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package util

import (
	"cmp"
	"strings"
)

// Unpacks a slice into arguments
// If the slice has less elements than variables passed in, the rest of the variables are not modified
// If the slice has more elements than the variables passed in, the additional elements are ignored
// Returns how many variables were written
func Unpack[T any](toUnpack []T, unpackInto ...*T) int {
	n := min(len(toUnpack), len(unpackInto))
	for i := 0; i < n; i++ {
		*unpackInto[i] = toUnpack[i]
	}
	return n
}

// SplitCommand splits a command line into its name and the remaining fields
func SplitCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

// Clamp limits v to [lo, hi]. If lo > hi, lo wins.
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(min(v, hi), lo)
}
