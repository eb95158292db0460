// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, register, logout and refresh.

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/api"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/app"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/logging"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/profile"
)

// requestTimeout bounds each backend call made by a command.
const requestTimeout = 30 * time.Second

// =============================================================================
// LOGIN
// =============================================================================

func handleLogin(ctx context.Context, r *Runner, a *app.App, args Args) error {
	p := args.Parser()
	if p.Subcommand() == "google" {
		return loginGoogle(ctx, r, a, args, p)
	}

	email := strings.TrimSpace(p.Flag("email"))
	if email == "" {
		email = strings.TrimSpace(p.Positional(0))
	}
	var password string
	var err error
	if p.BoolFlag("password-stdin") {
		if email == "" {
			return NewValidationError("email", "--email is required with --password-stdin")
		}
		if password, err = readSecret(r.Stdin); err != nil {
			return err
		}
	} else {
		prompt := r.prompter()
		if email == "" {
			if email, err = prompt.Prompt("Email: "); err != nil {
				return err
			}
		}
		if password, err = prompt.Password("Password: "); err != nil {
			return err
		}
		r.closePrompter()
	}
	if email == "" || password == "" {
		return NewValidationError("", "Please enter your email and password.")
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	resp, err := a.Client.Login(reqCtx, api.Credentials{Email: email, Password: password})
	if err != nil {
		a.Log.Warn("login failed", logging.Event(logging.EventLoginFailed), zap.Error(err))
		return err
	}
	return finishLogin(r, a, args, resp)
}

func loginGoogle(ctx context.Context, r *Runner, a *app.App, args Args, p *ArgParser) error {
	id := api.GoogleIdentity{
		GoogleID:  p.Flag("google-id"),
		Email:     strings.TrimSpace(p.Flag("email")),
		FirstName: p.Flag("first-name"),
		LastName:  p.Flag("last-name"),
	}
	if id.GoogleID == "" || id.Email == "" {
		return ErrMissingArgument("--google-id and --email", "propmatch login google --google-id ID --email EMAIL")
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	resp, err := a.Client.GoogleLogin(reqCtx, id)
	if err != nil {
		a.Log.Warn("google login failed", logging.Event(logging.EventLoginFailed), zap.Error(err))
		return err
	}
	return finishLogin(r, a, args, resp)
}

// finishLogin hands the response to the session authority, which persists
// it and attaches the bearer credential.
func finishLogin(r *Runner, a *app.App, args Args, resp *api.AuthResponse) error {
	if err := a.Authority.Login(resp.User, resp.Token); err != nil {
		return fmt.Errorf("could not save the session: %w", err)
	}
	user := a.Authority.User()
	return r.emit(CmdLogin, args, userSummary(user, a.Now()), func(w io.Writer) {
		printOK(w, "Signed in as %s (%s)", user.DisplayName(), user.Email())
	})
}

// =============================================================================
// REGISTER
// =============================================================================

func handleRegister(ctx context.Context, r *Runner, a *app.App, args Args) error {
	p := args.Parser()
	reg := api.Registration{
		FirstName:   strings.TrimSpace(p.Flag("first-name")),
		LastName:    strings.TrimSpace(p.Flag("last-name")),
		Email:       strings.TrimSpace(p.Flag("email")),
		PhoneNumber: strings.TrimSpace(p.Flag("phone")),
	}

	var confirmPassword string
	var err error
	if p.BoolFlag("password-stdin") {
		if reg.Password, err = readSecret(r.Stdin); err != nil {
			return err
		}
		confirmPassword = reg.Password
	} else {
		prompt := r.prompter()
		ask := func(dst *string, label string) error {
			if *dst != "" {
				return nil
			}
			v, err := prompt.Prompt(label)
			*dst = v
			return err
		}
		for _, q := range []struct {
			dst   *string
			label string
		}{
			{&reg.FirstName, "First name: "},
			{&reg.LastName, "Last name: "},
			{&reg.Email, "Email: "},
			{&reg.PhoneNumber, "Phone (optional): "},
		} {
			if err := ask(q.dst, q.label); err != nil {
				return err
			}
		}
		if reg.Password, err = prompt.Password("Password: "); err != nil {
			return err
		}
		if confirmPassword, err = prompt.Password("Confirm password: "); err != nil {
			return err
		}
		r.closePrompter()
	}
	if err := reg.Validate(confirmPassword); err != nil {
		return NewValidationError("", err.Error())
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	resp, err := a.Client.Register(reqCtx, reg)
	if err != nil {
		return err
	}
	a.Log.Info("account registered", logging.Event(logging.EventRegistered))
	data := map[string]any{"email": reg.Email, "message": resp.Message}
	return r.emit(CmdRegister, args, data, func(w io.Writer) {
		printOK(w, "%s", resp.Message)
		printInfo(w, "Sign in with: propmatch login --email %s", reg.Email)
	})
}

// =============================================================================
// LOGOUT / REFRESH
// =============================================================================

func handleLogout(_ context.Context, r *Runner, a *app.App, args Args) error {
	was := a.Authority.IsAuthenticated()
	a.Authority.Logout()
	return r.emit(CmdLogout, args, map[string]bool{"was_signed_in": was}, func(w io.Writer) {
		if was {
			printOK(w, "Signed out.")
		} else {
			printInfo(w, "Not signed in.")
		}
	})
}

func handleRefresh(ctx context.Context, r *Runner, a *app.App, args Args) error {
	if !a.Authority.IsAuthenticated() {
		return ErrNotSignedIn
	}
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	if err := a.Authority.RefreshProfile(reqCtx); err != nil {
		if api.IsAuthRejected(err) {
			return fmt.Errorf("%w: the server no longer accepts this session", ErrNotSignedIn)
		}
		return err
	}
	user := a.Authority.User()
	return r.emit(CmdRefresh, args, userSummary(user, a.Now()), func(w io.Writer) {
		printOK(w, "Profile refreshed for %s", user.Email())
	})
}

// =============================================================================
// SHARED
// =============================================================================

// userJSON is the user as commands report it.
type userJSON struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Plan          string `json:"plan"`
	TrialDaysLeft *int   `json:"trial_days_left,omitempty"`
}

func userSummary(user profile.Profile, now time.Time) userJSON {
	u := userJSON{
		ID:    user.ID(),
		Email: user.Email(),
		Name:  user.DisplayName(),
		Plan:  user.PlanLabel(),
	}
	if user.IsTrial() {
		days := user.TrialDaysLeft(now)
		u.TrialDaysLeft = &days
	}
	return u
}
