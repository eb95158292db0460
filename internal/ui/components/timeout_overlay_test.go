// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/session"
)

func TestSessionTimeoutOverlay_HiddenByDefault(t *testing.T) {
	o := NewSessionTimeoutOverlay()
	if o.IsVisible() || o.IsExpired() {
		t.Fatal("new overlay should be hidden")
	}
	if o.View() != "" {
		t.Error("hidden overlay should render nothing")
	}
	o, cmd := o.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("hidden overlay should ignore keys")
	}
}

func TestSessionTimeoutOverlay_Warning(t *testing.T) {
	o := NewSessionTimeoutOverlay()
	o.SetSize(80, 24)
	o.ShowWarning(95 * time.Second)

	view := o.View()
	for _, want := range []string{"Session Timeout Warning", "1:35", "Press any key to stay signed in"} {
		if !strings.Contains(view, want) {
			t.Errorf("warning view missing %q", want)
		}
	}

	o, cmd := o.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if o.IsVisible() {
		t.Error("a key should dismiss the warning")
	}
	if cmd == nil {
		t.Fatal("dismissing the warning should emit a command")
	}
	if _, ok := cmd().(SessionExtendedMsg); !ok {
		t.Errorf("expected SessionExtendedMsg, got %T", cmd())
	}
}

func TestSessionTimeoutOverlay_MouseMotionDoesNotDismiss(t *testing.T) {
	o := NewSessionTimeoutOverlay()
	o.ShowWarning(time.Minute)

	o, cmd := o.Update(tea.MouseMsg{X: 3, Y: 3, Action: tea.MouseActionMotion})
	if !o.IsVisible() || cmd != nil {
		t.Error("pointer motion should leave the warning up")
	}

	o, cmd = o.Update(tea.MouseMsg{X: 3, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if o.IsVisible() || cmd == nil {
		t.Error("a click should dismiss the warning")
	}
}

func TestSessionTimeoutOverlay_Expired(t *testing.T) {
	o := NewSessionTimeoutOverlay()
	o.ShowWarning(10 * time.Second)
	o.ShowExpired("")

	if !o.IsExpired() {
		t.Fatal("overlay should be in the expired state")
	}
	if o.Message() != session.ExpiredMessage {
		t.Errorf("Message() = %q, want the default expiry message", o.Message())
	}
	view := o.View()
	if !strings.Contains(view, "Session Expired") || !strings.Contains(view, "Please log in again") {
		t.Errorf("expired view missing notice:\n%s", view)
	}

	o, cmd := o.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if o.IsVisible() {
		t.Error("a key should dismiss the notice")
	}
	if _, ok := cmd().(SessionNoticeDismissedMsg); !ok {
		t.Errorf("expected SessionNoticeDismissedMsg, got %T", cmd())
	}
}

func TestSessionTimeoutOverlay_WindowSize(t *testing.T) {
	o := NewSessionTimeoutOverlay()
	o, _ = o.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	o.ShowWarning(time.Minute)

	lines := strings.Split(o.View(), "\n")
	if len(lines) != 40 {
		t.Errorf("overlay should fill the height, got %d lines", len(lines))
	}
}
