// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// runner.go - command dispatch.

package cli

import (
	"context"
	"io"
	"os"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/app"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/config"
)

// Runner executes parsed commands. The zero value is not usable; build one
// with NewRunner and override fields in tests.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	// Prompter answers interactive questions. NewRunner installs a liner
	// prompter when stdin is a terminal and a line prompter otherwise.
	Prompter Prompter

	// LoadConfig defaults to config.Load.
	LoadConfig func() (*config.Config, error)
	// AppOptions are passed to app.Open for every command.
	AppOptions app.Options

	ownPrompter bool
}

// NewRunner returns a runner on the process's standard streams.
func NewRunner() *Runner {
	return &Runner{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Stdin:      os.Stdin,
		LoadConfig: config.Load,
	}
}

// handler runs one command against an open app.
type handler func(ctx context.Context, r *Runner, a *app.App, args Args) error

var handlers = map[Command]handler{
	CmdLogin:    handleLogin,
	CmdRegister: handleRegister,
	CmdLogout:   handleLogout,
	CmdStatus:   handleStatus,
	CmdRefresh:  handleRefresh,
	CmdHistory:  handleHistory,
	CmdAccount:  handleAccount,
}

// Run executes cmd. Errors are returned undisplayed.
func (r *Runner) Run(ctx context.Context, cmd Command, args Args) error {
	if args.NoColor {
		ForceColorsEnabled(false)
	}

	switch cmd {
	case CmdHelp:
		PrintUsage(r.Stdout)
		if args.Unknown != "" {
			return ErrUnknownSubcommand("propmatch", args.Unknown)
		}
		return nil
	case CmdVersion:
		PrintVersion(r.Stdout)
		return nil
	}

	cfg, err := r.LoadConfig()
	if err != nil {
		return err
	}
	if cmd == CmdConfig {
		return handleConfig(r, cfg, args)
	}

	opts := r.AppOptions
	if cmd == CmdTUI {
		opts.Interactive = true
		opts.Stderr = false
	} else {
		opts.Stderr = true
		if args.Verbose {
			cfg.Logging.Level = "debug"
		}
	}
	a, err := app.Open(cfg, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if cmd == CmdTUI {
		return a.RunTUI(ctx)
	}
	h, ok := handlers[cmd]
	if !ok {
		return ErrUnknownSubcommand("propmatch", cmd.String())
	}
	return h(ctx, r, a, args)
}

// prompter returns the configured prompter, creating one on first use.
func (r *Runner) prompter() Prompter {
	if r.Prompter == nil {
		if IsTTY() && r.Stdin == os.Stdin {
			r.Prompter = NewTerminalPrompter()
		} else {
			r.Prompter = NewLinePrompter(r.Stdin, r.Stderr)
		}
		r.ownPrompter = true
	}
	return r.Prompter
}

// closePrompter releases a prompter the runner created itself, so the
// terminal is back to normal before output resumes.
func (r *Runner) closePrompter() {
	if r.ownPrompter && r.Prompter != nil {
		_ = r.Prompter.Close()
		r.Prompter = nil
		r.ownPrompter = false
	}
}

// emit writes data as the JSON envelope, or calls human otherwise.
func (r *Runner) emit(cmd Command, args Args, data any, human func(w io.Writer)) error {
	if args.JSON {
		return NewJSONResponse(cmd.String(), data).Write(r.Stdout)
	}
	if !args.Quiet || cmd == CmdStatus {
		human(r.Stdout)
	}
	return nil
}
