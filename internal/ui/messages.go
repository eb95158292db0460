// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/api"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/profile"
)

// requestTimeout bounds every call the UI makes.
const requestTimeout = 30 * time.Second

// Backend is the part of the API client the UI calls directly. Profile
// refreshes go through the session authority instead.
type Backend interface {
	Login(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error)
	Register(ctx context.Context, reg api.Registration) (*api.RegisterResponse, error)
	Usage(ctx context.Context) (*api.Usage, error)
}

// ProfileRefresher re-fetches the signed-in user. *session.Authority
// implements it.
type ProfileRefresher interface {
	RefreshProfile(ctx context.Context) error
}

// =============================================================================
// MESSAGES
// =============================================================================

// tickMsg drives expiry checks, the warning overlay and toast expiry.
type tickMsg time.Time

type loginResultMsg struct {
	user  profile.Profile
	token string
	err   error
}

type registerResultMsg struct {
	email   string
	message string
	err     error
}

type usageResultMsg struct {
	usage *api.Usage
	err   error
}

type refreshResultMsg struct {
	err error
}

// =============================================================================
// COMMANDS
// =============================================================================

// TickInterval is how often the session clock is re-evaluated.
const TickInterval = time.Second

func tickCmd() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func loginCmd(b Backend, creds api.Credentials) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := b.Login(ctx, creds)
		if err != nil {
			return loginResultMsg{err: err}
		}
		return loginResultMsg{user: resp.User, token: resp.Token}
	}
}

func registerCmd(b Backend, reg api.Registration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := b.Register(ctx, reg)
		if err != nil {
			return registerResultMsg{err: err}
		}
		return registerResultMsg{email: reg.Email, message: resp.Message}
	}
}

func usageCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		usage, err := b.Usage(ctx)
		return usageResultMsg{usage: usage, err: err}
	}
}

func refreshCmd(r ProfileRefresher) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return refreshResultMsg{err: r.RefreshProfile(ctx)}
	}
}

// errorText is the message shown for a failed request: the backend's own
// detail when it sent one, otherwise a classified description.
func errorText(err error) string {
	if detail := api.DetailOf(err); detail != "" {
		return detail
	}
	return api.Classify(err, "").Message
}
