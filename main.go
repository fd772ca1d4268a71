// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/veighnsche/niri-sub001/config"
)

type rootOptions struct {
	configPath string
	debug      bool
	// Run the consistency checks after every layout change
	checkInvariants bool
}

// loadConfig reads the config and applies its log level. --debug always wins.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	conf, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.checkInvariants {
		conf.Debug.CheckInvariants = true
	}
	if o.debug {
		logrus.SetLevel(logrus.DebugLevel)
		return conf, nil
	}
	level, err := logrus.ParseLevel(conf.LogLevel)
	if err != nil {
		logrus.WithError(err).WithField("level", conf.LogLevel).Warnln("Invalid log level in config, keeping info")
		return conf, nil
	}
	logrus.SetLevel(level)
	return conf, nil
}

func (o *rootOptions) runCompositor(cmd *cobra.Command, _ []string) error {
	conf, err := o.loadConfig()
	if err != nil {
		return err
	}
	logrus.WithField("start-type", conf.StartType).Debugln("Starting compositor")
	return wlMain(cmd.Context(), conf)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "way2gay",
		Short:        "A scrollable canvas wayland compositor",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
		RunE: opts.runCompositor,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to the config file, defaults to the xdg config dir")
	root.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&opts.checkInvariants, "check-invariants", false, "verify the layout after every change")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the compositor",
		Args:  cobra.NoArgs,
		RunE:  opts.runCompositor,
	})
	root.AddCommand(newToolCmd(opts))
	return root
}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logrus.WithError(err).Errorln("way2gay failed")
		os.Exit(1)
	}
}
