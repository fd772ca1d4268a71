// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/swaywm/go-wlroots/wlroots"
	"github.com/veighnsche/niri-sub001/config"
)

func wlLogBridge() {
	wlroots.OnLog(wlroots.LogImportanceError, func(importance wlroots.LogImportance, msg string) {
		switch importance {
		case wlroots.LogImportanceDebug:
			logrus.Debugln(msg)
		case wlroots.LogImportanceInfo:
			logrus.Infoln(msg)
		case wlroots.LogImportanceError:
			logrus.Errorln(msg)
		case wlroots.LogImportanceSilent:
			return
		}
	})
}

// wlMain runs the compositor until the wayland display is terminated
func wlMain(ctx context.Context, conf *config.Config) error {
	wlLogBridge()

	server, err := NewServer(conf)
	if err != nil {
		return fmt.Errorf("failed to initialise server: %w", err)
	}
	if err = server.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := &eventLog{}
	received, err := server.events.MakeReceiver("event-log", eventQueueSize)
	if err != nil {
		return err
	}

	super := newSupervisor()
	super.Add(oneShot("layout-events", server.events.Serve))
	super.Add(oneShot("event-log", func(ctx context.Context) error {
		return events.follow(ctx, received)
	}))

	switch conf.StartType {
	case config.START_REPL:
		super.Add(oneShot("repl", func(ctx context.Context) error {
			return replRunner(ctx, server, events)
		}))
	case config.START_SINGLE_COMMAND:
		if err = spawn(conf.StartCommand, os.Stdout); err != nil {
			logrus.WithError(err).Warnln("Start command failed, the compositor keeps running")
		}
	case config.START_NONE:
	}
	superDone := super.ServeBackground(ctx)

	// The wayland event loop blocks until Stop
	err = server.Run()
	cancel()
	if superErr := <-superDone; superErr != nil && superErr != context.Canceled {
		logrus.WithError(superErr).Warnln("Supervisor stopped with an error")
	}
	if err != nil {
		return fmt.Errorf("compositor stopped: %w", err)
	}
	logrus.Infoln("Compositor stopped")
	return nil
}
