// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package multiplexer

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("multiplexer has been closed")

// A many to one multiplexer
// Any number of goroutines send, one consumer drains. Sending after Close returns ErrClosed
// instead of panicking like a raw closed channel would.
type ManyToOne[T any] struct {
	lock     sync.RWMutex
	outbound chan T
	closed   bool
}

// NewManyToOne creates a new ManyToOne multiplexer with room for size queued messages
func NewManyToOne[T any](size int) *ManyToOne[T] {
	return &ManyToOne[T]{
		outbound: make(chan T, size),
	}
}

// Send queues a message, blocking while the queue is full
func (m *ManyToOne[T]) Send(ctx context.Context, msg T) error {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.closed {
		return ErrClosed
	}
	select {
	case m.outbound <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receiver is the channel the consumer reads from. It is closed by Close.
func (m *ManyToOne[T]) Receiver() <-chan T {
	return m.outbound
}

// Drain hands every message that is queued right now to f without blocking.
// Returns how many messages were handled.
func (m *ManyToOne[T]) Drain(f func(T)) int {
	n := 0
	for {
		select {
		case msg, ok := <-m.outbound:
			if !ok {
				return n
			}
			f(msg)
			n++
		default:
			return n
		}
	}
}

// Closes the channel and marks the plexer as closed. Safe to call more than once.
func (m *ManyToOne[T]) Close() {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.outbound)
}
