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

	"github.com/sirupsen/logrus"
)

var ErrReceiverExists = errors.New("receiver with that name already exists")

// OneToMany copies every published message to all named receivers.
// Publishing never blocks: the publisher is the compositor thread and must not wait on slow
// readers, so a receiver whose buffer is full misses the message.
type OneToMany[T any] struct {
	inbound   chan T
	outbound  map[string]chan T // Use map here to give names to outbound channels
	lock      sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
	dropped   map[string]int
}

// NewOneToMany creates a plexer whose inbound queue holds size messages
func NewOneToMany[T any](size int) *OneToMany[T] {
	return &OneToMany[T]{
		inbound:  make(chan T, size),
		outbound: make(map[string]chan T),
		done:     make(chan struct{}),
		dropped:  make(map[string]int),
	}
}

// Publish queues a message for distribution. Returns false if it had to be dropped.
func (o *OneToMany[T]) Publish(msg T) bool {
	select {
	case <-o.done:
		return false
	default:
	}
	select {
	case o.inbound <- msg:
		return true
	default:
		logrus.Debugln("Event queue full, dropping message")
		return false
	}
}

// Create a new receiver for the multiplexer to send messages to.
// Please do not close this manually, instead use the CloseReceiver func
func (o *OneToMany[T]) MakeReceiver(name string, size int) (<-chan T, error) {
	o.lock.Lock()
	defer o.lock.Unlock()
	select {
	case <-o.done:
		return nil, ErrClosed
	default:
	}
	if _, ok := o.outbound[name]; ok {
		return nil, ErrReceiverExists
	}
	rec := make(chan T, size)
	o.outbound[name] = rec
	return rec, nil
}

// Closes a receiver channel with the given name and removes it from the multiplexer
func (o *OneToMany[T]) CloseReceiver(name string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	if val, ok := o.outbound[name]; ok {
		close(val)
		delete(o.outbound, name)
		delete(o.dropped, name)
	}
}

// Dropped returns how many messages a receiver missed because its buffer was full
func (o *OneToMany[T]) Dropped(name string) int {
	o.lock.Lock()
	defer o.lock.Unlock()
	return o.dropped[name]
}

func (o *OneToMany[T]) distribute(msg T) {
	o.lock.Lock()
	defer o.lock.Unlock()
	for name, c := range o.outbound {
		select {
		case c <- msg:
		default:
			o.dropped[name]++
		}
	}
}

func (o *OneToMany[T]) String() string {
	return "one-to-many multiplexer"
}

// Serve distributes messages until ctx is done or the plexer is closed.
// Meant to run as a supervised service.
func (o *OneToMany[T]) Serve(ctx context.Context) error {
	for {
		select {
		case msg := <-o.inbound:
			o.distribute(msg)
		case <-o.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close stops distribution and closes all receiver channels
func (o *OneToMany[T]) Close() {
	o.closeOnce.Do(func() {
		o.lock.Lock()
		defer o.lock.Unlock()
		close(o.done)
		for name, c := range o.outbound {
			close(c)
			delete(o.outbound, name)
		}
	})
}
