// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - the status/whoami command.
//
// The account card is markdown rendered with glamour, falling back to the
// raw markdown when stdout is not a terminal.

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/app"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/profile"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/session"
)

// StatusJSON is the --json form of status.
type StatusJSON struct {
	Authenticated bool        `json:"authenticated"`
	User          *userJSON   `json:"user,omitempty"`
	Session       sessionJSON `json:"session"`
	API           string      `json:"api"`
}

type sessionJSON struct {
	State            string     `json:"state"`
	StartedAt        *time.Time `json:"started_at,omitempty"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	RemainingSeconds int        `json:"remaining_seconds"`
	TimeoutSeconds   int        `json:"timeout_seconds"`
}

func handleStatus(_ context.Context, r *Runner, a *app.App, args Args) error {
	st := a.Authority.Status()
	user := a.Authority.User()

	out := StatusJSON{
		Authenticated: st.State == session.StateAuthenticated,
		API:           a.Client.BaseURL(),
		Session: sessionJSON{
			State:            st.State.String(),
			RemainingSeconds: int(st.RemainingTime / time.Second),
			TimeoutSeconds:   int(st.Timeout / time.Second),
		},
	}
	if out.Authenticated {
		u := userSummary(user, a.Now())
		out.User = &u
		start, expires := st.SessionStart, st.ExpiresAt
		out.Session.StartedAt = &start
		out.Session.ExpiresAt = &expires
	}

	return r.emit(CmdStatus, args, out, func(w io.Writer) {
		if !out.Authenticated {
			fmt.Fprintln(w, "Not signed in. Run 'propmatch login' to sign in.")
			return
		}
		if args.Quiet {
			fmt.Fprintln(w, user.Email())
			return
		}
		fmt.Fprint(w, renderMarkdown(statusMarkdown(user, st, a.Now()), GetTerminalWidth()))
	})
}

// statusMarkdown builds the account card.
func statusMarkdown(user profile.Profile, st session.Status, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", user.DisplayName())
	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Email | %s |\n", mdEscape(user.Email()))
	if phone := user.String(profile.FieldPhoneNumber); phone != "" {
		fmt.Fprintf(&b, "| Phone | %s |\n", mdEscape(phone))
	}
	plan := user.PlanLabel()
	if user.IsTrial() {
		plan = fmt.Sprintf("%s (%s)", plan, trialRemaining(user.TrialDaysLeft(now)))
	}
	fmt.Fprintf(&b, "| Plan | %s |\n", mdEscape(plan))
	fmt.Fprintf(&b, "| Signed in | %s |\n", st.SessionStart.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "| Session ends | in %s unless there is activity |\n", session.FormatDuration(st.RemainingTime))
	return b.String()
}

func trialRemaining(days int) string {
	switch {
	case days <= 0:
		return "ends today"
	case days == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

func mdEscape(s string) string {
	return strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`).Replace(s)
}

// renderMarkdown renders md for the terminal. Plain output keeps the
// markdown as written.
func renderMarkdown(md string, width int) string {
	if !ColorsEnabled() {
		return md
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
