// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package wrappers

import (
	"io"
	"sync"
)

// WriterWrapper serializes writes to a shared writer (like stdout) and detaches on Close.
// Command output and repl replies share stdout, so writes are never interleaved mid-line.
type WriterWrapper struct {
	lock     sync.Mutex
	isClosed bool
	wrapped  io.Writer
}

func NewWriterWrapper(wraps io.Writer) *WriterWrapper {
	return &WriterWrapper{wrapped: wraps}
}

func (w *WriterWrapper) Close() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.isClosed = true
	return nil
}

func (w *WriterWrapper) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	if w.isClosed {
		return 0, ErrClosed
	}
	return w.wrapped.Write(p)
}
