// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - the config command.

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/config"
)

func handleConfig(r *Runner, cfg *config.Config, args Args) error {
	p := args.Parser()
	switch p.Subcommand() {
	case "", "show":
		return r.emit(CmdConfig, args, cfg, func(w io.Writer) {
			fmt.Fprintln(w, TitleStyle.Render("Effective configuration"))
			for _, key := range config.Keys() {
				v, _ := cfg.Get(key)
				printRow(w, key, fmt.Sprint(v))
			}
			printRow(w, "api url", cfg.APIURL())
		})

	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		return r.emit(CmdConfig, args, map[string]string{"path": path}, func(w io.Writer) {
			fmt.Fprintln(w, path)
		})

	case "keys":
		keys := config.Keys()
		return r.emit(CmdConfig, args, keys, func(w io.Writer) {
			fmt.Fprintln(w, strings.Join(keys, "\n"))
		})

	case "get":
		key := p.Positional(1)
		if key == "" {
			return ErrMissingArgument("key", "propmatch config get <key>")
		}
		v, err := cfg.Get(key)
		if err != nil {
			return NewValidationError("key", err.Error())
		}
		return r.emit(CmdConfig, args, map[string]any{key: v}, func(w io.Writer) {
			fmt.Fprintln(w, v)
		})

	case "set":
		key, value := p.Positional(1), p.Positional(2)
		if key == "" || p.PositionalCount() < 3 {
			return ErrMissingArgument("key and value", "propmatch config set <key> <value>")
		}
		return configSet(r, args, key, value)

	case "init":
		return configInit(r, args, p.BoolFlag("force"))

	default:
		return ErrUnknownSubcommand("config", p.Subcommand())
	}
}

// configSet edits the config file itself, so environment overrides in
// effect for this run are not written back.
func configSet(r *Runner, args Args, key, value string) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	file := config.Default()
	if _, err := os.Stat(path); err == nil {
		if file, err = config.LoadFileOnly(path); err != nil {
			return err
		}
	}
	if err := file.Set(key, value); err != nil {
		return NewValidationError(key, err.Error())
	}
	if err := file.Validate(); err != nil {
		return err
	}
	if err := config.SaveTOML(file, path); err != nil {
		return err
	}
	v, _ := file.Get(key)
	return r.emit(CmdConfig, args, map[string]any{key: v}, func(w io.Writer) {
		printOK(w, "%s = %v (saved to %s)", key, v, path)
	})
}

func configInit(r *Runner, args Args, force bool) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return NewValidationError("config", path+" already exists (use --force to overwrite)")
	}
	if err := config.SaveTOML(config.Default(), path); err != nil {
		return err
	}
	return r.emit(CmdConfig, args, map[string]string{"path": path}, func(w io.Writer) {
		printOK(w, "Wrote %s", path)
	})
}
