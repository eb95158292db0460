// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/profile"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/styles"
)

// Brand is the product name shown at the left of the navbar.
const Brand = "PropMatch"

// Navbar is the top bar of the dashboard.
type Navbar struct {
	theme *styles.Theme
	width int
	user  profile.Profile
	now   func() time.Time
}

// NewNavbar creates a navbar. now defaults to time.Now and is used for the
// trial countdown.
func NewNavbar(theme *styles.Theme, now func() time.Time) *Navbar {
	if now == nil {
		now = time.Now
	}
	return &Navbar{theme: theme, now: now}
}

// SetWidth sets the available width.
func (n *Navbar) SetWidth(width int) { n.width = width }

// SetUser sets the signed-in user; nil clears it.
func (n *Navbar) SetUser(user profile.Profile) { n.user = user }

// PlanText is the badge text: the plan label, plus days left on a trial.
func PlanText(user profile.Profile, now time.Time) string {
	label := user.PlanLabel()
	if !user.IsTrial() {
		return label
	}
	days := user.TrialDaysLeft(now)
	switch days {
	case 0:
		return label + " (ends today)"
	case 1:
		return label + " (1 day left)"
	default:
		return label + " (" + strconv.Itoa(days) + " days left)"
	}
}

// View renders the navbar on one line.
func (n *Navbar) View() string {
	t := n.theme
	brand := t.NavBrand.Render(Brand)
	if n.user == nil {
		return n.fill(brand, "")
	}

	badgeStyle := t.PlanBadge.Foreground(styles.PlanColor(n.user.PlanType()))
	if n.user.IsTrial() {
		badgeStyle = t.TrialBadge
	}
	badge := badgeStyle.Render(PlanText(n.user, n.now()))
	avatar := t.Avatar.Render(n.user.Initials())

	// The name gets whatever the brand, badge and avatar leave over.
	fixed := lipgloss.Width(brand) + lipgloss.Width(badge) + lipgloss.Width(avatar) + 6
	nameWidth := n.width - fixed
	if n.width == 0 {
		nameWidth = 32
	}
	var right []string
	if nameWidth < 4 {
		right = []string{avatar}
	} else {
		name := t.NavUser.Render(truncate(n.user.DisplayName(), nameWidth))
		right = []string{badge, name, avatar}
	}
	return n.fill(brand, strings.Join(right, " "))
}

func (n *Navbar) fill(left, right string) string {
	gap := n.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return n.theme.Navbar.Render(left + strings.Repeat(" ", gap) + right)
}
