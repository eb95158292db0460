// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/session"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/styles"
)

// StatusBar is the bottom line: shortcuts or a toast on the left, the
// session clock on the right.
type StatusBar struct {
	theme     *styles.Theme
	width     int
	shortcuts []key.Binding
	toast     Toast
	status    session.Status
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme}
}

// SetWidth sets the available width.
func (s *StatusBar) SetWidth(width int) { s.width = width }

// SetShortcuts sets the bindings whose help text is shown.
func (s *StatusBar) SetShortcuts(bindings ...key.Binding) { s.shortcuts = bindings }

// SetToast shows t until it expires.
func (s *StatusBar) SetToast(t Toast) { s.toast = t }

// Toast returns the current toast.
func (s *StatusBar) Toast() Toast { return s.toast }

// Tick drops an expired toast.
func (s *StatusBar) Tick(now time.Time) {
	if s.toast.Expired(now) {
		s.toast = Toast{}
	}
}

// SetSession sets the session snapshot shown on the right.
func (s *StatusBar) SetSession(status session.Status) { s.status = status }

// SessionText is the right-hand clock, empty when signed out.
func SessionText(status session.Status) string {
	if status.State != session.StateAuthenticated {
		return ""
	}
	return "Session " + session.FormatDuration(status.RemainingTime)
}

// View renders the status bar.
func (s *StatusBar) View() string {
	t := s.theme

	right := SessionText(s.status)
	if right != "" {
		style := t.ShortcutDesc
		if s.status.Warning {
			style = lipgloss.NewStyle().Foreground(styles.Amber).Bold(true)
		}
		right = style.Render(right)
	}

	leftWidth := s.width - lipgloss.Width(right) - 3
	if s.width == 0 {
		leftWidth = 0
	}

	var left string
	if s.toast.Message != "" {
		left = s.toast.Render(leftWidth)
	} else {
		left = s.renderShortcuts(leftWidth)
	}

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return t.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

// renderShortcuts drops trailing shortcuts that do not fit.
func (s *StatusBar) renderShortcuts(width int) string {
	t := s.theme
	var parts []string
	used := 0
	for _, b := range s.shortcuts {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		part := t.ShortcutKey.Render(h.Key) + " " + t.ShortcutDesc.Render(h.Desc)
		w := lipgloss.Width(part)
		if width > 0 && used+w > width {
			break
		}
		parts = append(parts, part)
		used += w + 2
	}
	return strings.Join(parts, "  ")
}
