// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package wrappers

import (
	"errors"
	"io"
	"sync/atomic"
)

var ErrClosed = errors.New("closed")

// ReaderWrapper gives a reader that must stay open (like stdin) a Close that only detaches it.
// Reads after Close fail with ErrClosed, the wrapped reader is never closed.
type ReaderWrapper struct {
	isClosed atomic.Bool
	wrapped  io.Reader
}

func NewReaderWrapper(wraps io.Reader) *ReaderWrapper {
	return &ReaderWrapper{wrapped: wraps}
}

// Close implements repl.ReadCloser.
func (r *ReaderWrapper) Close() error {
	r.isClosed.Store(true)
	return nil
}

// Read implements repl.ReadCloser.
func (r *ReaderWrapper) Read(p []byte) (n int, err error) {
	if r.isClosed.Load() {
		return 0, ErrClosed
	}
	n, err = r.wrapped.Read(p)
	// The repl may have been closed while blocked in Read, drop whatever arrived
	if r.isClosed.Load() {
		return 0, ErrClosed
	}
	return n, err
}
