// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/swaywm/go-wlroots/wlroots"
	"gitlab.com/mstarongitlab/goutils/sliceutils"
)

// In tool mode, way2gay offers various tools for figuring out configurations and similar
func newToolCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tool",
		Short: "Tools for figuring out a configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "outputs",
		Short: "List available outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withToolServer(opts, func(server *Server) error {
				utilListOutputs(cmd.OutOrStdout(), server)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "modes <output>",
		Short: "List available modes for an output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withToolServer(opts, func(server *Server) error {
				return utilListOutputModes(cmd.OutOrStdout(), server, args[0])
			})
		},
	})
	return cmd
}

// Init a server, used for stuff like getting displays
func withToolServer(opts *rootOptions, f func(server *Server) error) error {
	conf, err := opts.loadConfig()
	if err != nil {
		return err
	}
	wlLogBridge()
	server, err := NewServer(conf)
	if err != nil {
		return fmt.Errorf("failed to initialise server: %w", err)
	}
	if err = server.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	defer server.Close()
	return f(server)
}

func utilListOutputs(out io.Writer, server *Server) {
	outputs := server.GetOutputs()
	if len(outputs) == 0 {
		fmt.Fprintln(out, "No outputs found")
		return
	}
	for i, output := range outputs {
		fmt.Fprintf(out, "Output %v: %s\n", i, output.Name())
	}
}

func utilListOutputModes(out io.Writer, server *Server, outputName string) error {
	outputs := server.GetOutputs()
	filtered := sliceutils.Filter(outputs, func(output wlroots.Output) bool {
		return output.Name() == outputName
	})
	if len(filtered) == 0 {
		return fmt.Errorf("output %s not found", outputName)
	}
	modes := filtered[0].Modes()
	logrus.WithFields(logrus.Fields{"output": outputName, "modes": len(modes)}).Debugln("Listing modes")
	fmt.Fprintf(out, "Modes for output %s:\n", outputName)
	for _, mode := range modes {
		if mode.Preferred() {
			fmt.Fprintf(out, "\t- %dx%d@%d(Ratio: %d) (preferred)\n", mode.Width(), mode.Height(), mode.Refresh(), mode.PictureAspectRatio())
		} else {
			fmt.Fprintf(out, "\t- %dx%d@%d(Ratio: %d)\n", mode.Width(), mode.Height(), mode.Refresh(), mode.PictureAspectRatio())
		}
	}
	return nil
}
