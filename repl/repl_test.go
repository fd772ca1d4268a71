// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package repl

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func testCommands(t *testing.T) *Commands {
	t.Helper()
	c := NewCommands()
	c.MustRegister(
		Command{
			Name: "echo",
			Args: "<text...>",
			Help: "Repeat the arguments",
			Run: func(args []string) (string, error) {
				if len(args) == 0 {
					return "", ErrUsage
				}
				return strings.Join(args, " "), nil
			},
		},
		Command{
			Name: "fail",
			Run:  func([]string) (string, error) { return "", errors.New("boom") },
		},
		Command{
			Name: "quit",
			Run:  func([]string) (string, error) { return "bye", ErrQuit },
		},
	)
	return c
}

func TestCommandsHandle(t *testing.T) {
	c := testCommands(t)
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"echo a  b", "a b"},
		{"ECHO x", "x"},
		{"echo", "Usage: echo <text...>"},
		{"fail", "Error: boom"},
		{"nope", `Unknown command "nope", try help`},
	}
	for _, tt := range tests {
		got, err := c.Handle(tt.in, nil)
		if err != nil {
			t.Errorf("Handle(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Handle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got, err := c.Handle("quit", nil); !errors.Is(err, ErrQuit) || got != "bye" {
		t.Errorf("quit = %q %v", got, err)
	}
	help, _ := c.Handle("help", nil)
	if !strings.Contains(help, "echo <text...>") || !strings.Contains(help, "Repeat the arguments") {
		t.Errorf("help is missing echo: %q", help)
	}
}

func TestCommandsRegisterRejectsDuplicates(t *testing.T) {
	c := testCommands(t)
	run := func([]string) (string, error) { return "", nil }
	if err := c.Register(Command{Name: "Echo", Run: run}); err == nil {
		t.Error("duplicate command registered")
	}
	if err := c.Register(Command{Name: "help", Run: run}); err == nil {
		t.Error("help was overridden")
	}
	if err := c.Register(Command{Name: "x"}); err == nil {
		t.Error("command without handler registered")
	}
}

func TestReplRunStopsOnQuit(t *testing.T) {
	c := testCommands(t)
	var out bytes.Buffer
	r := NewRepl(io.NopCloser(strings.NewReader("echo hi\n\nquit\necho never\n")), nopWriteCloser{&out})
	if err := r.Run(c.Handle); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); got != "hi\nbye\n" {
		t.Errorf("output = %q, want %q", got, "hi\nbye\n")
	}
}

func TestReplRunReturnsHandlerErrors(t *testing.T) {
	var out bytes.Buffer
	r := NewRepl(io.NopCloser(strings.NewReader("x\n")), nopWriteCloser{&out})
	err := r.Run(func(string, *Repl) (string, error) { return "", errors.New("broken") })
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Errorf("run = %v, want the handler error", err)
	}
}
