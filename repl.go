// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/k0kubun/pp"
	"github.com/sirupsen/logrus"
	"github.com/veighnsche/niri-sub001/repl"
	"github.com/veighnsche/niri-sub001/tiler"
	"github.com/veighnsche/niri-sub001/util"
	"github.com/veighnsche/niri-sub001/util/wrappers"
)

// How long a repl command waits for the compositor thread to pick it up
const commandTimeout = 5 * time.Second

// TODO: schedule an output frame when a command is queued, an idle output only picks it up on the next damage

// call runs f on the compositor thread and waits for its reply
func (server *Server) call(ctx context.Context, f func() string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	reply := make(chan string, 1)
	if err := server.Schedule(ctx, func() { reply <- f() }); err != nil {
		return "", fmt.Errorf("failed to queue command: %w", err)
	}
	select {
	case res := <-reply:
		return res, nil
	case <-ctx.Done():
		return "", fmt.Errorf("compositor did not run the command: %w", ctx.Err())
	}
}

// spawn starts a command line in the background, its output going to out
func spawn(cmdString string, out io.Writer) error {
	parts := strings.Fields(cmdString)
	if len(parts) == 0 {
		return errors.New("empty command")
	}
	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Start(); err != nil {
		logrus.WithError(err).WithField("command", cmdString).Errorln("Command failed to start")
		return err
	}
	go func() {
		err := cmd.Wait()
		if exiterr, ok := err.(*exec.ExitError); ok {
			logrus.WithError(err).WithFields(logrus.Fields{
				"exit-code": exiterr.ExitCode(),
				"command":   cmdString,
			}).Warningln("Bad command completion")
		}
	}()
	return nil
}

func parseWindowID(s string) (tiler.WindowID, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q: %w", s, err)
	}
	return tiler.WindowID(id), nil
}

// targetWindow is the window named by args[0], or the focused one
func (server *Server) targetWindow(args []string) (tiler.WindowID, error) {
	if len(args) > 0 {
		return parseWindowID(args[0])
	}
	id, ok := server.layout.FocusedWindow()
	if !ok {
		return 0, errors.New("no window is focused")
	}
	return id, nil
}

func formatWindows(server *Server) string {
	var b strings.Builder
	for _, w := range server.layout.Windows() {
		marker := " "
		if w.IsFocused {
			marker = "*"
		}
		where := "floating"
		if pos := w.Layout.PosInScrollingLayout; pos != nil {
			where = fmt.Sprintf("column %d, tile %d", pos.X, pos.Y)
		}
		fmt.Fprintf(&b, "%s %d %q (%s) on %q, %s, %gx%g\n",
			marker, w.ID, w.Title, w.AppID, w.Output, where, w.Layout.TileSize.X, w.Layout.TileSize.Y)
	}
	if b.Len() == 0 {
		return "No windows"
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatRows(server *Server) string {
	var b strings.Builder
	for _, r := range server.layout.RowsInfo() {
		marker := " "
		if r.IsFocused {
			marker = "*"
		} else if r.IsActive {
			marker = "-"
		}
		name := ""
		if r.Name != nil {
			name = fmt.Sprintf(" %q", *r.Name)
		}
		fmt.Fprintf(&b, "%s %q row %d%s: %d columns\n", marker, r.Output, r.Index, name, r.Columns)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatOutputs(server *Server) string {
	var b strings.Builder
	for _, o := range server.layout.OutputsInfo() {
		marker := " "
		if o.IsFocused {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s %gx%g@%g, row %d\n", marker, o.Name, o.LogicalSize.X, o.LogicalSize.Y, o.Scale, o.ActiveRow)
	}
	if b.Len() == 0 {
		return "No outputs"
	}
	return strings.TrimRight(b.String(), "\n")
}

// newCommandTable builds the repl commands of a running compositor
func newCommandTable(ctx context.Context, server *Server, events *eventLog, out io.Writer) *repl.Commands {
	// onLayout runs a layout command on the compositor thread
	onLayout := func(f func() string) func(args []string) (string, error) {
		return func([]string) (string, error) {
			return server.call(ctx, f)
		}
	}
	done := func(ok bool) string {
		if ok {
			return "Ok"
		}
		return "Nothing to do"
	}

	cmds := repl.NewCommands()
	cmds.MustRegister(
		repl.Command{
			Name: "run",
			Args: "<command...>",
			Help: "Start a program on this compositor",
			Run: func(args []string) (string, error) {
				if len(args) == 0 {
					return "", repl.ErrUsage
				}
				if err := spawn(strings.Join(args, " "), out); err != nil {
					return "", err
				}
				return "Running " + args[0], nil
			},
		},
		repl.Command{
			Name: "quit",
			Help: "Stop the compositor",
			Run: func([]string) (string, error) {
				if err := server.Schedule(ctx, server.Stop); err != nil {
					return "", err
				}
				return "Quitting", repl.ErrQuit
			},
		},
		repl.Command{
			Name: "windows",
			Help: "List all windows",
			Run:  onLayout(func() string { return formatWindows(server) }),
		},
		repl.Command{
			Name: "rows",
			Help: "List the rows of every output",
			Run:  onLayout(func() string { return formatRows(server) }),
		},
		repl.Command{
			Name: "outputs",
			Help: "List the outputs the layout knows about",
			Run:  onLayout(func() string { return formatOutputs(server) }),
		},
		repl.Command{
			Name: "events",
			Help: "Show the most recent layout events",
			Run: func([]string) (string, error) {
				recent := events.Recent()
				if len(recent) == 0 {
					return "No events yet", nil
				}
				lines := make([]string, 0, len(recent))
				for _, ev := range recent {
					lines = append(lines, ev.String())
				}
				return strings.Join(lines, "\n"), nil
			},
		},
		repl.Command{
			Name: "inspect",
			Args: "<windows|rows|outputs|focused|cursor|options>",
			Help: "Dump the state of a part of the compositor",
			Run: func(args []string) (string, error) {
				if len(args) == 0 {
					return "", repl.ErrUsage
				}
				target := args[0]
				return server.call(ctx, func() string {
					switch target {
					case "windows":
						return pp.Sprint(server.layout.Windows())
					case "rows":
						return pp.Sprint(server.layout.RowsInfo())
					case "outputs":
						return pp.Sprint(server.layout.OutputsInfo())
					case "focused":
						id, ok := server.layout.FocusedWindow()
						if !ok {
							return "Nothing focused"
						}
						for _, w := range server.layout.Windows() {
							if w.ID == uint64(id) {
								return pp.Sprint(w)
							}
						}
						return "Focused window not found"
					case "cursor":
						return fmt.Sprintf("Cursor: Location (%f:%f), mode %s", server.cursor.X(), server.cursor.Y(), server.cursorMode)
					case "options":
						return pp.Sprint(server.layout.Options())
					}
					return fmt.Sprintf("Unknown inspect target %q", target)
				})
			},
		},
		repl.Command{
			Name: "check",
			Help: "Verify the layout invariants",
			Run: onLayout(func() string {
				if err := server.layout.VerifyInvariants(); err != nil {
					return "Invariant violated: " + err.Error()
				}
				return "Layout is consistent"
			}),
		},
		repl.Command{
			Name: "focus",
			Args: "<left|right|up|down|row-up|row-down|row <idx>|window <id>|output <name>>",
			Help: "Move the focus",
			Run: func(args []string) (string, error) {
				var target, arg string
				if util.Unpack(args, &target, &arg) == 0 {
					return "", repl.ErrUsage
				}
				switch target {
				case "left":
					return onLayout(func() string { server.layout.FocusLeft(); return "Ok" })(nil)
				case "right":
					return onLayout(func() string { server.layout.FocusRight(); return "Ok" })(nil)
				case "up":
					return onLayout(func() string { server.layout.FocusUp(); return "Ok" })(nil)
				case "down":
					return onLayout(func() string { server.layout.FocusDown(); return "Ok" })(nil)
				case "row-up":
					return onLayout(func() string { return done(server.layout.FocusRowUp()) })(nil)
				case "row-down":
					return onLayout(func() string { return done(server.layout.FocusRowDown()) })(nil)
				case "row":
					idx, err := strconv.Atoi(arg)
					if err != nil {
						return "", repl.ErrUsage
					}
					return onLayout(func() string {
						return done(server.layout.DoRowSwitch("focus-row", func(c *tiler.Canvas2D) bool {
							return c.FocusRowIndex(idx)
						}))
					})(nil)
				case "window":
					id, err := parseWindowID(arg)
					if err != nil {
						return "", err
					}
					return onLayout(func() string { return done(server.layout.ActivateWindow(id)) })(nil)
				case "output":
					return onLayout(func() string { return done(server.layout.FocusOutput(arg)) })(nil)
				}
				return "", repl.ErrUsage
			},
		},
		repl.Command{
			Name: "move",
			Args: "<left|right|up|down|row-up|row-down|to-row <idx>|to-output <name>>",
			Help: "Move the focused window",
			Run: func(args []string) (string, error) {
				var target, arg string
				if util.Unpack(args, &target, &arg) == 0 {
					return "", repl.ErrUsage
				}
				switch target {
				case "left":
					return onLayout(func() string { server.layout.MoveLeft(); return "Ok" })(nil)
				case "right":
					return onLayout(func() string { server.layout.MoveRight(); return "Ok" })(nil)
				case "up":
					return onLayout(func() string {
						server.layout.Do("move-up", func(c *tiler.Canvas2D) { c.MoveUp() })
						return "Ok"
					})(nil)
				case "down":
					return onLayout(func() string {
						server.layout.Do("move-down", func(c *tiler.Canvas2D) { c.MoveDown() })
						return "Ok"
					})(nil)
				case "row-up":
					return onLayout(func() string { return done(server.layout.MoveWindowToRowUp()) })(nil)
				case "row-down":
					return onLayout(func() string { return done(server.layout.MoveWindowToRowDown()) })(nil)
				case "to-row":
					idx, err := strconv.Atoi(arg)
					if err != nil {
						return "", repl.ErrUsage
					}
					return onLayout(func() string {
						return done(server.layout.DoRowSwitch("move-window-to-row", func(c *tiler.Canvas2D) bool {
							return c.MoveWindowToRowIndex(idx)
						}))
					})(nil)
				case "to-output":
					if arg == "" {
						return "", repl.ErrUsage
					}
					return onLayout(func() string {
						if server.outputByName(arg) == nil {
							return fmt.Sprintf("Output %s not found", arg)
						}
						return done(server.layout.MoveWindowToOutput(0, arg))
					})(nil)
				}
				return "", repl.ErrUsage
			},
		},
		repl.Command{
			Name: "width",
			Args: "<800|+10|-10|50%|+5%|-5%>",
			Help: "Change the width of the focused column",
			Run: func(args []string) (string, error) {
				if len(args) != 1 {
					return "", repl.ErrUsage
				}
				change, err := tiler.ParseSizeChange(args[0])
				if err != nil {
					return "", err
				}
				return onLayout(func() string { server.layout.SetColumnWidth(change); return "Ok" })(nil)
			},
		},
		repl.Command{
			Name: "height",
			Args: "<800|+10|-10|50%|+5%|-5%|reset>",
			Help: "Change the height of the focused window",
			Run: func(args []string) (string, error) {
				if len(args) != 1 {
					return "", repl.ErrUsage
				}
				if args[0] == "reset" {
					return onLayout(func() string {
						id, ok := server.layout.FocusedWindow()
						if !ok {
							return "Nothing focused"
						}
						server.layout.Do("reset-window-height", func(c *tiler.Canvas2D) { c.ResetWindowHeight(id) })
						return "Ok"
					})(nil)
				}
				change, err := tiler.ParseSizeChange(args[0])
				if err != nil {
					return "", err
				}
				return onLayout(func() string {
					id, ok := server.layout.FocusedWindow()
					if !ok {
						return "Nothing focused"
					}
					server.layout.Do("set-window-height", func(c *tiler.Canvas2D) { c.SetWindowHeight(id, change) })
					return "Ok"
				})(nil)
			},
		},
		repl.Command{
			Name: "fullscreen",
			Args: "[window id]",
			Help: "Toggle fullscreen",
			Run: func(args []string) (string, error) {
				return onLayout(func() string {
					id, err := server.targetWindow(args)
					if err != nil {
						return err.Error()
					}
					server.layout.ToggleFullscreen(id)
					return "Ok"
				})(nil)
			},
		},
		repl.Command{
			Name: "maximize",
			Args: "[window id]",
			Help: "Toggle maximized",
			Run: func(args []string) (string, error) {
				return onLayout(func() string {
					id, err := server.targetWindow(args)
					if err != nil {
						return err.Error()
					}
					server.layout.ToggleMaximized(id)
					return "Ok"
				})(nil)
			},
		},
		repl.Command{
			Name: "float",
			Args: "[window id]",
			Help: "Move a window between the floating layer and the rows",
			Run: func(args []string) (string, error) {
				return onLayout(func() string {
					id, err := server.targetWindow(args)
					if err != nil {
						return err.Error()
					}
					server.layout.ToggleWindowFloating(id)
					return "Ok"
				})(nil)
			},
		},
		repl.Command{
			Name: "center",
			Help: "Center the focused column",
			Run: onLayout(func() string {
				server.layout.Do("center-column", func(c *tiler.Canvas2D) { c.CenterColumn() })
				return "Ok"
			}),
		},
		repl.Command{
			Name: "name-row",
			Args: "<idx> [name]",
			Help: "Name a row so it stays around when empty, no name removes it",
			Run: func(args []string) (string, error) {
				if len(args) == 0 {
					return "", repl.ErrUsage
				}
				idx, err := strconv.Atoi(args[0])
				if err != nil {
					return "", repl.ErrUsage
				}
				name := strings.Join(args[1:], " ")
				return onLayout(func() string {
					server.layout.Do("name-row", func(c *tiler.Canvas2D) {
						if name == "" {
							c.UnsetRowName(idx)
						} else {
							c.SetRowName(idx, name)
						}
					})
					return "Ok"
				})(nil)
			},
		},
	)
	return cmds
}

// replRunner runs the command repl on stdin and stdout until ctx is done or the user quits
func replRunner(ctx context.Context, server *Server, events *eventLog) error {
	// Wrappers so the repl closes those instead of stdin & stdout themselves
	out := wrappers.NewWriterWrapper(os.Stdout)
	commandRepl := repl.NewRepl(wrappers.NewReaderWrapper(os.Stdin), out)
	cmds := newCommandTable(ctx, server, events, out)

	stop := context.AfterFunc(ctx, commandRepl.Close)
	defer stop()

	logrus.Debugln("Starting repl")
	if err := commandRepl.Run(cmds.Handle); err != nil && !errors.Is(err, wrappers.ErrClosed) {
		return fmt.Errorf("repl stopped: %w", err)
	}
	return nil
}
