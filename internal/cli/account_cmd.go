// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// account_cmd.go - usage, profile edits, password change and plan cancel.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/api"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/app"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/logging"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/profile"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/components"
)

// profileFlags maps update flags to profile fields.
var profileFlags = []struct {
	flag  string
	field string
}{
	{"first-name", profile.FieldFirstName},
	{"last-name", profile.FieldLastName},
	{"phone", profile.FieldPhoneNumber},
	{"email", profile.FieldEmail},
}

func handleAccount(ctx context.Context, r *Runner, a *app.App, args Args) error {
	if !a.Authority.IsAuthenticated() {
		return ErrNotSignedIn
	}
	p := args.Parser()
	var err error
	switch p.Subcommand() {
	case "", "usage":
		err = accountUsage(ctx, r, a, args)
	case "update", "edit":
		err = accountUpdate(ctx, r, a, args, p)
	case "password", "passwd":
		err = accountPassword(ctx, r, a, args)
	case "cancel", "cancel-subscription":
		err = accountCancel(ctx, r, a, args, p)
	default:
		return ErrUnknownSubcommand("account", p.Subcommand())
	}
	return rejectSession(a, err)
}

// rejectSession ends the local session when the server refuses the token,
// as a failed profile refresh does.
func rejectSession(a *app.App, err error) error {
	if err != nil && api.IsAuthRejected(err) {
		a.Authority.Logout()
		return fmt.Errorf("%w: the server no longer accepts this session", ErrNotSignedIn)
	}
	return err
}

func accountUsage(ctx context.Context, r *Runner, a *app.App, args Args) error {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	usage, err := a.Client.Usage(reqCtx)
	if err != nil {
		return err
	}
	return r.emit(CmdAccount, args, usage, func(w io.Writer) {
		fmt.Fprintln(w, TitleStyle.Render("Usage this period"))
		fmt.Fprintln(w, components.RenderUsage(usage))
	})
}

func accountUpdate(ctx context.Context, r *Runner, a *app.App, args Args, p *ArgParser) error {
	fields := map[string]any{}
	for _, f := range profileFlags {
		if p.HasFlag(f.flag) {
			fields[f.field] = strings.TrimSpace(p.Flag(f.flag))
		}
	}
	if len(fields) == 0 {
		return ErrMissingArgument("field", "propmatch account update --first-name NAME [--last-name NAME] [--phone N] [--email E]")
	}
	if email, ok := fields[profile.FieldEmail]; ok && email == "" {
		return NewValidationError("email", "cannot be empty")
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	user, err := a.Client.UpdateProfile(reqCtx, fields)
	if err != nil {
		return err
	}
	if err := a.Authority.UpdateUser(user); err != nil {
		a.Log.Warn("updated profile not stored", zap.Error(err))
	}
	a.Log.Info("profile updated", logging.Event(logging.EventProfileUpdated))
	return r.emit(CmdAccount, args, userSummary(user, a.Now()), func(w io.Writer) {
		printOK(w, "Profile updated for %s", user.DisplayName())
	})
}

func accountPassword(ctx context.Context, r *Runner, a *app.App, args Args) error {
	if args.JSON {
		return NewValidationError("", "password changes are interactive and cannot run in JSON mode")
	}
	prompt := r.prompter()
	current, err := prompt.Password("Current password: ")
	if err != nil {
		return err
	}
	next, err := prompt.Password("New password: ")
	if err != nil {
		return err
	}
	again, err := prompt.Password("Confirm new password: ")
	if err != nil {
		return err
	}
	r.closePrompter()
	if current == "" {
		return NewValidationError("current password", "required")
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	if err := a.Client.ChangePassword(reqCtx, current, next, again); err != nil {
		var apiErr *api.Error
		if !errors.As(err, &apiErr) {
			return NewValidationError("", err.Error())
		}
		return err
	}
	a.Log.Info("password changed", logging.Event(logging.EventPasswordChanged))
	printOK(r.Stdout, "Password changed.")
	return nil
}

func accountCancel(ctx context.Context, r *Runner, a *app.App, args Args, p *ArgParser) error {
	if !p.BoolFlag("confirm") {
		if args.JSON {
			return NewValidationError("confirm", "use --confirm to cancel the plan in JSON mode")
		}
		ok, err := confirm(r.prompter(), "Cancel your subscription at the end of the billing period?")
		r.closePrompter()
		if err != nil {
			return err
		}
		if !ok {
			printInfo(r.Stdout, "Subscription unchanged.")
			return nil
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	if err := a.Client.CancelSubscription(reqCtx); err != nil {
		return err
	}
	a.Log.Info("subscription cancelled", logging.Event(logging.EventPlanCancelled))

	// The plan fields changed server-side.
	if err := a.Authority.RefreshProfile(reqCtx); err != nil {
		printWarn(r.Stderr, "Subscription cancelled, but the profile could not be refreshed: %s", UserMessage(err))
	}
	return r.emit(CmdAccount, args, map[string]bool{"cancelled": true}, func(w io.Writer) {
		printOK(w, "Subscription cancelled. Access continues until the end of the billing period.")
	})
}
