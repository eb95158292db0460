// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/session"
)

// ActivitySink receives the activity signals derived from terminal input.
// *session.Broadcaster implements it.
type ActivitySink interface {
	Emit(session.Signal)
}

// SignalFor maps a terminal input message to an activity signal. Mouse
// releases and non-input messages carry no signal.
func SignalFor(msg tea.Msg) (session.Signal, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return session.SignalKeyPress, true
	case tea.MouseMsg:
		if tea.MouseEvent(msg).IsWheel() {
			return session.SignalScroll, true
		}
		switch msg.Action {
		case tea.MouseActionPress:
			return session.SignalPointerPress, true
		case tea.MouseActionMotion:
			return session.SignalPointerMove, true
		}
	}
	return 0, false
}
