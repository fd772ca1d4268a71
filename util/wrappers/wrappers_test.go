// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package wrappers

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReaderWrapperDetachesOnClose(t *testing.T) {
	r := NewReaderWrapper(strings.NewReader("hello"))
	buf := make([]byte, 2)
	if n, err := r.Read(buf); err != nil || n != 2 || string(buf) != "he" {
		t.Fatalf("read = %d %v %q", n, err, buf)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := r.Read(buf); !errors.Is(err, ErrClosed) {
		t.Errorf("read after close = %v, want ErrClosed", err)
	}
}

func TestWriterWrapperDetachesOnClose(t *testing.T) {
	var out bytes.Buffer
	w := NewWriterWrapper(&out)
	if _, err := w.Write([]byte("a")); err != nil {
		t.Fatalf("write: %v", err)
	}
	w.Close()
	if _, err := w.Write([]byte("b")); !errors.Is(err, ErrClosed) {
		t.Errorf("write after close = %v, want ErrClosed", err)
	}
	if out.String() != "a" {
		t.Errorf("wrapped writer got %q, want %q", out.String(), "a")
	}
}
