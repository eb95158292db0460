// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/session"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/styles"
)

// =============================================================================
// SESSION TIMEOUT OVERLAY
// =============================================================================

// SessionTimeoutOverlay covers the screen while a session is about to expire
// and, once it has expired, until the user acknowledges the notice.
type SessionTimeoutOverlay struct {
	visible       bool
	expired       bool
	timeRemaining time.Duration
	message       string

	width  int
	height int
}

// NewSessionTimeoutOverlay creates a hidden overlay.
func NewSessionTimeoutOverlay() SessionTimeoutOverlay {
	return SessionTimeoutOverlay{}
}

// SetSize sets the overlay dimensions.
func (o *SessionTimeoutOverlay) SetSize(width, height int) {
	o.width = width
	o.height = height
}

// ShowWarning displays the countdown.
func (o *SessionTimeoutOverlay) ShowWarning(remaining time.Duration) {
	o.visible = true
	o.expired = false
	o.timeRemaining = remaining
}

// ShowExpired replaces any warning with the expiry notice.
func (o *SessionTimeoutOverlay) ShowExpired(message string) {
	if message == "" {
		message = session.ExpiredMessage
	}
	o.visible = true
	o.expired = true
	o.timeRemaining = 0
	o.message = message
}

// Hide hides the overlay.
func (o *SessionTimeoutOverlay) Hide() {
	o.visible = false
	o.expired = false
	o.message = ""
}

// IsVisible reports whether the overlay is showing.
func (o *SessionTimeoutOverlay) IsVisible() bool { return o.visible }

// IsExpired reports whether the expiry notice is showing.
func (o *SessionTimeoutOverlay) IsExpired() bool { return o.visible && o.expired }

// TimeRemaining returns the last countdown value.
func (o *SessionTimeoutOverlay) TimeRemaining() time.Duration { return o.timeRemaining }

// Message returns the expiry notice text.
func (o *SessionTimeoutOverlay) Message() string { return o.message }

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// SessionExtendedMsg is sent when input dismisses the warning.
type SessionExtendedMsg struct{}

// SessionNoticeDismissedMsg is sent when the expiry notice is acknowledged.
type SessionNoticeDismissedMsg struct{}

// Update handles input while the overlay is visible. Any key or mouse press
// dismisses it.
func (o SessionTimeoutOverlay) Update(msg tea.Msg) (SessionTimeoutOverlay, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		o.SetSize(msg.Width, msg.Height)
		return o, nil
	case tea.KeyMsg:
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return o, nil
		}
	default:
		return o, nil
	}

	if !o.visible {
		return o, nil
	}
	expired := o.expired
	o.Hide()
	if expired {
		return o, func() tea.Msg { return SessionNoticeDismissedMsg{} }
	}
	return o, func() tea.Msg { return SessionExtendedMsg{} }
}

// View renders the overlay, or "" when hidden.
func (o SessionTimeoutOverlay) View() string {
	if !o.visible {
		return ""
	}
	if o.expired {
		return o.place(styles.Rose,
			styles.StatusIndicators.Error+" Session Expired",
			o.message,
			"Press any key to sign in again")
	}
	countdown := lipgloss.NewStyle().Foreground(styles.Amber).Bold(true).
		Render(session.FormatCountdown(o.timeRemaining))
	return o.place(styles.Amber,
		styles.StatusIndicators.Warning+" Session Timeout Warning",
		"You will be signed out for inactivity in "+countdown,
		"Press any key to stay signed in")
}

func (o SessionTimeoutOverlay) place(accent lipgloss.AdaptiveColor, title, body, hint string) string {
	width := o.width
	if width == 0 {
		width = 80
	}
	height := o.height
	if height == 0 {
		height = 24
	}

	boxWidth := width - 8
	if boxWidth < 40 {
		boxWidth = 40
	}
	if boxWidth > 60 {
		boxWidth = 60
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Foreground(accent).Bold(true).Render(title),
		"",
		lipgloss.NewStyle().Foreground(styles.TextPrimary).
			Width(boxWidth-6).Align(lipgloss.Center).Render(body),
		"",
		lipgloss.NewStyle().Foreground(styles.TextSecondary).Italic(true).Render(hint),
	)

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(accent).
		Padding(1, 3).
		Width(boxWidth).
		Align(lipgloss.Center).
		Render(content)

	return lipgloss.Place(width, height,
		lipgloss.Center, lipgloss.Center,
		box,
		lipgloss.WithWhitespaceBackground(styles.SurfaceDim),
	)
}
