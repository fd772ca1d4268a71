// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package repl

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/veighnsche/niri-sub001/util"
)

var ErrUsage = errors.New("wrong arguments")

// Command is one entry of the repl's command table
type Command struct {
	Name string
	// Argument synopsis shown by help, e.g. "<left|right>"
	Args string
	Help string
	Run  func(args []string) (string, error)
}

type Commands struct {
	byName map[string]Command
}

func NewCommands() *Commands {
	return &Commands{byName: map[string]Command{}}
}

// Register adds a command. Names are case insensitive and must be unique.
func (c *Commands) Register(cmd Command) error {
	name := strings.ToLower(cmd.Name)
	if name == "" || cmd.Run == nil {
		return fmt.Errorf("command %q is missing a name or handler", cmd.Name)
	}
	if name == "help" {
		return errors.New("help is built in")
	}
	if _, ok := c.byName[name]; ok {
		return fmt.Errorf("command %q registered twice", name)
	}
	cmd.Name = name
	c.byName[name] = cmd
	return nil
}

// MustRegister is Register for static command tables
func (c *Commands) MustRegister(cmds ...Command) {
	for _, cmd := range cmds {
		if err := c.Register(cmd); err != nil {
			panic(err)
		}
	}
}

func (c *Commands) Names() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (c *Commands) help(args []string) string {
	if len(args) > 0 {
		cmd, ok := c.byName[strings.ToLower(args[0])]
		if !ok {
			return fmt.Sprintf("Unknown command %q", args[0])
		}
		return usage(cmd) + "\n\t" + cmd.Help
	}
	var b strings.Builder
	b.WriteString("Commands:")
	for _, name := range c.Names() {
		cmd := c.byName[name]
		fmt.Fprintf(&b, "\n\t%-32s %s", usage(cmd), cmd.Help)
	}
	return b.String()
}

func usage(cmd Command) string {
	if cmd.Args == "" {
		return cmd.Name
	}
	return cmd.Name + " " + cmd.Args
}

// Handle dispatches one input line. It has the shape of a MessageHandler.
// Command failures become the reply, only ErrQuit is passed on.
func (c *Commands) Handle(line string, _ *Repl) (string, error) {
	name, args := util.SplitCommand(line)
	if name == "" {
		return "", nil
	}
	if name == "help" {
		return c.help(args), nil
	}
	cmd, ok := c.byName[name]
	if !ok {
		return fmt.Sprintf("Unknown command %q, try help", name), nil
	}
	res, err := cmd.Run(args)
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, ErrQuit):
		return res, err
	case errors.Is(err, ErrUsage):
		return "Usage: " + usage(cmd), nil
	default:
		logrus.WithError(err).WithField("command", name).Debugln("Repl command failed")
		return "Error: " + err.Error(), nil
	}
}
