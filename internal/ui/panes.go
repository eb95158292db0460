// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strconv"
	"strings"
	"time"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/history"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/profile"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/session"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/components"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/styles"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/util"
)

// fit truncates s to width cells. A width that is not yet known leaves s
// whole.
func fit(s string, width int) string {
	if width <= 0 {
		return s
	}
	return util.TruncateWidth(s, width)
}

func formatDate(t time.Time) string {
	return t.Local().Format("Jan 2, 2006 15:04")
}

// row renders a label/value pair; empty values are shown as a dash.
func (d *dashboard) row(label, value string) string {
	if value == "" {
		value = "-"
	}
	return d.theme.Label.Render(label) + d.theme.Value.Render(value) + "\n"
}

// =============================================================================
// OVERVIEW
// =============================================================================

func (d *dashboard) overviewView() string {
	t := d.theme
	var b strings.Builder
	name := "there"
	if d.user != nil {
		name = d.user.DisplayName()
	}
	b.WriteString(t.PaneTitle.Render("Welcome back, " + name))
	b.WriteString("\n")

	if d.user != nil {
		b.WriteString(d.row("Email", d.user.Email()))
		b.WriteString(d.row("Plan", components.PlanText(d.user, d.now())))
	}
	b.WriteString("\n")

	b.WriteString(t.PaneTitle.Render("Session"))
	b.WriteString("\n")
	b.WriteString(d.sessionRows(d.session))
	b.WriteString("\n")

	b.WriteString(t.PaneTitle.Render("Searches"))
	b.WriteString("\n")
	b.WriteString(d.row("This session", strconv.Itoa(d.stats.TotalSearches)))
	b.WriteString(d.row("In history", strconv.Itoa(d.stats.HistoryCount)))
	if len(d.entries) > 0 {
		latest := d.entries[0]
		b.WriteString(d.row("Latest", latest.DisplayAddress()))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (d *dashboard) sessionRows(st session.Status) string {
	if st.State != session.StateAuthenticated {
		return d.row("Status", "signed out")
	}
	var b strings.Builder
	b.WriteString(d.row("Active since", formatDate(st.SessionStart)))
	b.WriteString(d.row("Signs out in", session.FormatDuration(st.RemainingTime)))
	b.WriteString(d.row("Idle timeout", session.FormatDuration(st.Timeout)))
	return b.String()
}

// =============================================================================
// HISTORY
// =============================================================================

func (d *dashboard) historyView(width int) string {
	t := d.theme
	var b strings.Builder
	b.WriteString(t.PaneTitle.Render("Search History"))
	b.WriteString("\n")

	switch {
	case d.historyErr != "":
		b.WriteString(styles.RenderError(d.historyErr))
		return b.String()
	case len(d.entries) == 0:
		b.WriteString(t.Hint.Render("No searches yet. Use Property Search to start one."))
		return b.String()
	}

	visible := d.bodyHeight() - 6
	if visible < 1 {
		visible = len(d.entries)
	}
	end := d.historyOffset + visible
	if end > len(d.entries) {
		end = len(d.entries)
	}

	total := len(history.Steps())
	for i := d.historyOffset; i < end; i++ {
		q := d.entries[i]
		meta := formatDate(q.StartedAt) + "  " + q.Status + "  " +
			strconv.Itoa(q.CompletedSteps()) + "/" + strconv.Itoa(total) + " steps"
		num := strconv.Itoa(i+1) + ". "
		addrWidth := width - len(num) - len(meta) - 2
		b.WriteString(t.Value.Render(num + fit(q.DisplayAddress(), addrWidth)))
		b.WriteString("  ")
		b.WriteString(t.Hint.Render(meta))
		b.WriteString("\n")
	}
	if end < len(d.entries) || d.historyOffset > 0 {
		b.WriteString(t.Hint.Render("showing " + strconv.Itoa(d.historyOffset+1) + "-" +
			strconv.Itoa(end) + " of " + strconv.Itoa(len(d.entries)) + ", scroll for more"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// =============================================================================
// ACCOUNT
// =============================================================================

func (d *dashboard) accountView() string {
	t := d.theme
	var b strings.Builder
	b.WriteString(t.PaneTitle.Render("Account"))
	b.WriteString("\n")

	if d.user != nil {
		first := d.user.String(profile.FieldFirstName)
		last := d.user.String(profile.FieldLastName)
		b.WriteString(d.row("Name", strings.TrimSpace(first+" "+last)))
		b.WriteString(d.row("Email", d.user.Email()))
		b.WriteString(d.row("Phone", d.user.String(profile.FieldPhoneNumber)))
		b.WriteString(d.row("Plan", components.PlanText(d.user, d.now())))
	}
	b.WriteString("\n")

	b.WriteString(t.PaneTitle.Render("Usage this period"))
	b.WriteString("\n")
	switch {
	case d.usageLoading && d.usage == nil:
		b.WriteString(t.Hint.Render("Loading usage..."))
	case d.usageErr != "":
		b.WriteString(styles.RenderError(d.usageErr))
	default:
		b.WriteString(components.RenderUsage(d.usage))
	}
	return b.String()
}
