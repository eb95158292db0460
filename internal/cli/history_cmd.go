// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - the property search history command.

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/app"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/history"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/logging"
)

// defaultHistoryLimit is how many entries "history list" prints.
const defaultHistoryLimit = 20

func handleHistory(_ context.Context, r *Runner, a *app.App, args Args) error {
	p := args.Parser()
	switch p.Subcommand() {
	case "", "list", "ls":
		return historyList(r, a, args, p)
	case "latest", "last":
		return historyLatest(r, a, args)
	case "find", "search":
		return historyFind(r, a, args, p)
	case "record", "add":
		return historyRecord(r, a, args, p)
	case "clear":
		return historyClear(r, a, args, p)
	case "stats":
		return historyStats(r, a, args)
	default:
		return ErrUnknownSubcommand("history", p.Subcommand())
	}
}

func historyList(r *Runner, a *app.App, args Args, p *ArgParser) error {
	entries, err := a.History.History()
	if err != nil {
		return err
	}
	limit := p.FlagIntOrDefault("limit", defaultHistoryLimit)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return r.emit(CmdHistory, args, entries, func(w io.Writer) {
		if len(entries) == 0 {
			fmt.Fprintln(w, "No searches yet.")
			return
		}
		fmt.Fprintln(w, TitleStyle.Render("Recent searches"))
		for _, q := range entries {
			fmt.Fprintf(w, "  %s  %s\n", DimStyle.Render(searchTime(q).Local().Format("2006-01-02 15:04")), q.DisplayAddress())
		}
	})
}

func historyLatest(r *Runner, a *app.App, args Args) error {
	q, ok, err := a.History.Latest()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no searches yet", ErrNoMatch)
	}
	return r.emit(CmdHistory, args, q, func(w io.Writer) { printQuery(w, q) })
}

func historyFind(r *Runner, a *app.App, args Args, p *ArgParser) error {
	address := strings.TrimSpace(JoinPositionalArgs(p, 1))
	if address == "" {
		return ErrMissingArgument("address", "propmatch history find <address>")
	}
	q, ok, err := a.History.FindByAddress(address)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: no search for %q", ErrNoMatch, address)
	}
	return r.emit(CmdHistory, args, q, func(w io.Writer) { printQuery(w, q) })
}

// historyRecord runs the address step of a search and completes it, the
// same sequence the terminal UI uses.
func historyRecord(r *Runner, a *app.App, args Args, p *ArgParser) error {
	address := strings.TrimSpace(JoinPositionalArgs(p, 1))
	if address == "" {
		return ErrMissingArgument("address", "propmatch history record <address>")
	}
	if _, err := a.History.InitSession(); err != nil {
		return err
	}
	id, err := a.History.StartSearch(address)
	if err != nil {
		return err
	}
	step := history.StepData{ConfirmedAddress: address}
	if err := a.History.UpdateStep(id, history.StepAddressSearch, step); err != nil {
		return err
	}
	if err := a.History.CompleteSearch(id, step); err != nil {
		return err
	}
	q, _, err := a.History.Latest()
	if err != nil {
		return err
	}
	return r.emit(CmdHistory, args, q, func(w io.Writer) {
		printOK(w, "Search recorded: %s", address)
	})
}

func historyClear(r *Runner, a *app.App, args Args, p *ArgParser) error {
	if !p.BoolFlag("confirm") && !p.BoolFlag("yes") && !p.BoolFlag("y") {
		if args.JSON {
			return NewValidationError("confirm", "use --confirm to clear history in JSON mode")
		}
		ok, err := confirm(r.prompter(), "Delete your search history?")
		r.closePrompter()
		if err != nil {
			return err
		}
		if !ok {
			printInfo(r.Stdout, "Cancelled.")
			return nil
		}
	}
	if err := a.History.ClearHistory(); err != nil {
		return err
	}
	a.Log.Info("search history cleared", logging.Event(logging.EventHistoryCleared))
	return r.emit(CmdHistory, args, map[string]bool{"cleared": true}, func(w io.Writer) {
		printOK(w, "Search history cleared.")
	})
}

// statsJSON is the --json form of history stats.
type statsJSON struct {
	SessionID         string         `json:"session_id,omitempty"`
	UserID            string         `json:"user_id"`
	SessionAgeSeconds int            `json:"session_age_seconds"`
	TotalSearches     int            `json:"total_searches"`
	HistoryCount      int            `json:"history_count"`
	CurrentQuery      *history.Query `json:"current_query,omitempty"`
}

func historyStats(r *Runner, a *app.App, args Args) error {
	st, err := a.History.Stats()
	if err != nil {
		return err
	}
	out := statsJSON{
		SessionID:         st.SessionID,
		UserID:            st.UserID,
		SessionAgeSeconds: int(st.SessionAge / time.Second),
		TotalSearches:     st.TotalSearches,
		HistoryCount:      st.HistoryCount,
		CurrentQuery:      st.CurrentQuery,
	}
	return r.emit(CmdHistory, args, out, func(w io.Writer) {
		fmt.Fprintln(w, TitleStyle.Render("Search statistics"))
		printRow(w, "User", st.UserID)
		if st.SessionID == "" {
			printRow(w, "Search session", "none")
		} else {
			printRow(w, "Search session", st.SessionID)
			printRow(w, "Session age", st.SessionAge.Round(time.Second).String())
		}
		printRow(w, "Searches", fmt.Sprint(st.TotalSearches))
		printRow(w, "History entries", fmt.Sprint(st.HistoryCount))
		if st.CurrentQuery != nil {
			printRow(w, "In progress", st.CurrentQuery.DisplayAddress())
		}
	})
}

func printQuery(w io.Writer, q *history.Query) {
	fmt.Fprintln(w, TitleStyle.Render(q.DisplayAddress()))
	if q.ConfirmedAddress != "" && !strings.EqualFold(q.ConfirmedAddress, q.Address) {
		printRow(w, "Typed", q.Address)
	}
	printRow(w, "Status", q.Status)
	printRow(w, "Started", q.StartedAt.Local().Format("2006-01-02 15:04"))
	if q.CompletedAt != nil {
		printRow(w, "Completed", q.CompletedAt.Local().Format("2006-01-02 15:04"))
	}
	printRow(w, "Steps", fmt.Sprintf("%d of %d", q.CompletedSteps(), len(history.Steps())))
	if q.PropertyID != "" {
		printRow(w, "Property", q.PropertyID)
	}
}

// searchTime is when a history entry finished, or started if it never did.
func searchTime(q history.Query) time.Time {
	if q.CompletedAt != nil {
		return *q.CompletedAt
	}
	return q.StartedAt
}
