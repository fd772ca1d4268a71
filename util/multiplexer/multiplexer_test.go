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
	"testing"
	"time"
)

func TestManyToOneDrain(t *testing.T) {
	m := NewManyToOne[int](16)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := m.Send(context.Background(), i); err != nil {
				t.Errorf("send %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	sum := 0
	if n := m.Drain(func(v int) { sum += v }); n != 4 {
		t.Errorf("drained %d messages, want 4", n)
	}
	if sum != 6 {
		t.Errorf("sum = %d, want 6", sum)
	}
	if n := m.Drain(func(int) {}); n != 0 {
		t.Errorf("drained %d messages from an empty queue", n)
	}
}

func TestManyToOneClosed(t *testing.T) {
	m := NewManyToOne[string](1)
	m.Close()
	m.Close()
	if err := m.Send(context.Background(), "x"); !errors.Is(err, ErrClosed) {
		t.Errorf("send after close = %v, want ErrClosed", err)
	}
	if _, ok := <-m.Receiver(); ok {
		t.Error("receiver still open after close")
	}
}

func TestManyToOneSendHonoursContext(t *testing.T) {
	m := NewManyToOne[int](1)
	if err := m.Send(context.Background(), 1); err != nil {
		t.Fatalf("first send: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := m.Send(ctx, 2); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("send to full queue = %v, want deadline exceeded", err)
	}
}

func TestOneToManyDistributes(t *testing.T) {
	o := NewOneToMany[int](8)
	a, err := o.MakeReceiver("a", 4)
	if err != nil {
		t.Fatalf("make receiver: %v", err)
	}
	b, _ := o.MakeReceiver("b", 4)
	if _, err := o.MakeReceiver("a", 4); !errors.Is(err, ErrReceiverExists) {
		t.Errorf("duplicate receiver = %v, want ErrReceiverExists", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- o.Serve(ctx) }()

	if !o.Publish(42) {
		t.Fatal("publish dropped a message")
	}
	for name, c := range map[string]<-chan int{"a": a, "b": b} {
		select {
		case v := <-c:
			if v != 42 {
				t.Errorf("%s got %d, want 42", name, v)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s got nothing", name)
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("serve returned %v, want context canceled", err)
	}
}

func TestOneToManyDropsForSlowReceivers(t *testing.T) {
	o := NewOneToMany[int](1)
	_, _ = o.MakeReceiver("slow", 1)
	o.distribute(1)
	o.distribute(2)
	if got := o.Dropped("slow"); got != 1 {
		t.Errorf("dropped = %d, want 1", got)
	}

	o.Publish(3)
	if o.Publish(4) {
		t.Error("publish into a full inbound queue should drop")
	}
}

func TestOneToManyClose(t *testing.T) {
	o := NewOneToMany[int](1)
	c, _ := o.MakeReceiver("a", 1)
	o.Close()
	o.Close()
	if _, ok := <-c; ok {
		t.Error("receiver still open after close")
	}
	if o.Publish(1) {
		t.Error("publish after close succeeded")
	}
	if _, err := o.MakeReceiver("b", 1); !errors.Is(err, ErrClosed) {
		t.Errorf("make receiver after close = %v, want ErrClosed", err)
	}
	if err := o.Serve(context.Background()); err != nil {
		t.Errorf("serve after close = %v, want nil", err)
	}
}
