// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app wires configuration, logging, the credential store, the API
// client, the session authority and the search history tracker into one
// process-wide bundle. Both the TUI and the one-shot CLI commands start here.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/api"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/config"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/history"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/logging"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/session"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/storage"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/styles"
)

// Options tune Open for the caller.
type Options struct {
	// Interactive keeps the store watch running so another instance's
	// logout is noticed. One-shot commands leave it off.
	Interactive bool
	// Stderr mirrors warnings to stderr. The TUI owns the terminal and
	// leaves it off.
	Stderr bool
	// Transport replaces the HTTP transport. Tests point it at httptest.
	Transport http.RoundTripper
	// Clock replaces the system clock.
	Clock session.Clock
}

// App is the wired process state. Close it before exiting.
type App struct {
	Config    *config.Config
	Log       *logging.Logger
	Store     storage.Store
	Client    *api.Client
	Activity  *session.Broadcaster
	Notices   *ui.Notices
	Authority *session.Authority
	History   *history.Tracker

	clock session.Clock
}

// Open builds every component from cfg and restores any persisted session.
func Open(cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}

	logCfg, err := cfg.LoggingOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve log path: %w", err)
	}
	logCfg.Stderr = opts.Stderr
	log, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start logging: %w", err)
	}

	kind, err := cfg.StoreKind()
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	path, err := cfg.StorePath()
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	store, err := openStore(kind, path, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	apiOpts := cfg.APIOptions(log)
	apiOpts.Transport = opts.Transport
	client := api.NewClient(apiOpts)

	clock := opts.Clock
	if clock == nil {
		clock = session.SystemClock()
	}

	a := &App{
		Config:   cfg,
		Log:      log,
		Store:    store,
		Client:   client,
		Activity: session.NewBroadcaster(),
		Notices:  ui.NewNotices(),
		clock:    clock,
	}
	a.Authority = session.NewAuthority(session.Options{
		Store:                 store,
		Clock:                 clock,
		Activity:              a.Activity,
		Authorizer:            client.Auth(),
		Profiles:              client,
		Logger:                log,
		Timeout:               cfg.SessionTimeout(),
		WarningBefore:         cfg.SessionWarning(),
		ActivityWriteInterval: session.DefaultActivityWriteInterval,
		WatchStore:            opts.Interactive && cfg.Session.Watch,
		OnExpired:             a.Notices.Post,
	})
	a.History = history.NewTracker(history.Options{
		Store:  store,
		UserID: func() string { return a.Authority.User().ID() },
		Now:    clock.Now,
		Logger: log,
	})

	a.Authority.Initialize()
	log.Debug("app opened",
		zap.String("store", string(kind)),
		zap.String("api", client.BaseURL()),
		zap.Bool("authenticated", a.Authority.IsAuthenticated()))
	return a, nil
}

// openStore opens the credential store. A backend that cannot be opened
// leaves the process without a persisted session: it falls back to a
// memory store, so the user starts signed out and a login lasts until exit.
func openStore(kind storage.Kind, path string, log *logging.Logger) (storage.Store, error) {
	var err error
	if kind != storage.KindMemory {
		if dirErr := config.EnsureConfigDir(); dirErr != nil {
			err = fmt.Errorf("%w: create config directory: %w", storage.ErrUnavailable, dirErr)
		}
	}
	if err == nil {
		var store storage.Store
		if store, err = storage.Open(kind, path); err == nil {
			return store, nil
		}
	}
	if !errors.Is(err, storage.ErrUnavailable) {
		return nil, err
	}
	log.Warn("credential store unavailable, sessions will not persist",
		zap.String("store", string(kind)),
		zap.String("path", path),
		zap.Error(err))
	return storage.NewMemoryStore(), nil
}

// Now reads the app clock.
func (a *App) Now() time.Time { return a.clock.Now() }

// Close stops the authority without ending the session, then releases the
// store and flushes the log.
func (a *App) Close() error {
	a.Authority.Close()
	err := storage.Close(a.Store)
	_ = a.Log.Sync()
	return err
}

// RunTUI runs the terminal UI until the user quits or ctx ends.
func (a *App) RunTUI(ctx context.Context) error {
	model := ui.New(ui.Deps{
		Authority: a.Authority,
		Activity:  a.Activity,
		Backend:   a.Client,
		History:   a.History,
		Notices:   a.Notices,
		Theme:     styles.NewThemeFor(a.Config.UI.Theme),
		Logger:    a.Log,
		Now:       a.clock.Now,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if a.Config.UI.Mouse {
		opts = append(opts, tea.WithMouseAllMotion())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
