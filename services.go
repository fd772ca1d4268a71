// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/thejerf/suture/v4"
	"github.com/veighnsche/niri-sub001/tiler"
)

const serviceStopTimeout = 2 * time.Second

// Everything but the wayland event loop runs as a supervised service.
// The event loop has to stay on the main thread.
func newSupervisor() *suture.Supervisor {
	return suture.New("way2gay", suture.Spec{
		EventHook: supervisorEventHook,
		// The repl can be stuck reading stdin, don't hold up the exit for it
		Timeout: serviceStopTimeout,
	})
}

func supervisorEventHook(ei suture.Event) {
	switch e := ei.(type) {
	case suture.EventStopTimeout:
		logrus.WithFields(logrus.Fields{
			"supervisor": e.SupervisorName,
			"service":    e.ServiceName,
		}).Infoln("Service failed to terminate in a timely manner")
	case suture.EventServicePanic:
		logrus.WithField("panic", e.PanicMsg).Warnln("Caught a service panic")
		logrus.Debugln(e.Stacktrace)
	case suture.EventServiceTerminate:
		logrus.WithError(asError(e.Err)).WithFields(logrus.Fields{
			"supervisor": e.SupervisorName,
			"service":    e.ServiceName,
		}).Errorln("Service failed")
	case suture.EventBackoff:
		logrus.WithField("supervisor", e.SupervisorName).Debugln("Too many service failures, backing off")
	case suture.EventResume:
		logrus.WithField("supervisor", e.SupervisorName).Debugln("Leaving backoff")
	default:
		logrus.WithField("type", int(e.Type())).Warnln("Unknown supervisor event")
	}
}

// suture hands over service errors as interface{}
func asError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return nil
}

type serviceFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (s serviceFunc) String() string                  { return s.name }
func (s serviceFunc) Serve(ctx context.Context) error { return s.fn(ctx) }

// oneShot wraps a service that is finished once it returns without an error
func oneShot(name string, fn func(ctx context.Context) error) serviceFunc {
	return serviceFunc{name: name, fn: func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return suture.ErrDoNotRestart
	}}
}

const recentEvents = 32

// eventLog logs layout events and remembers the most recent ones for the repl
type eventLog struct {
	lock   sync.Mutex
	recent []tiler.Event
}

func (l *eventLog) add(ev tiler.Event) {
	l.lock.Lock()
	defer l.lock.Unlock()
	if len(l.recent) == recentEvents {
		l.recent = append(l.recent[:0], l.recent[1:]...)
	}
	l.recent = append(l.recent, ev)
}

// Recent returns the remembered events, oldest first
func (l *eventLog) Recent() []tiler.Event {
	l.lock.Lock()
	defer l.lock.Unlock()
	return append([]tiler.Event(nil), l.recent...)
}

// follow consumes a receiver until it is closed
func (l *eventLog) follow(ctx context.Context, events <-chan tiler.Event) error {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			logrus.WithField("event", ev.Kind).Debugln(ev.String())
			l.add(ev)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
