// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/api"
)

const (
	loginEmail = iota
	loginPassword
)

const (
	loginButtonSignIn = iota
	loginButtonRegister
)

func newLoginForm() form {
	return newForm(
		"Sign in to PropMatch",
		"Property analysis for real estate professionals",
		[]field{
			newField("Email", "you@example.com", false),
			newField("Password", "", true),
		},
		"Sign in", "Create account",
	)
}

// updateLogin handles input on the login screen.
func (m Model) updateLogin(msg tea.Msg) (Model, tea.Cmd) {
	action, cmd := m.login.update(msg, m.keys)
	if action != formPress {
		return m, cmd
	}

	switch m.login.button() {
	case loginButtonRegister:
		m.route = routeRegister
		m.register.reset()
		return m, nil
	case loginButtonSignIn:
		creds := api.Credentials{
			Email:    m.login.value(loginEmail),
			Password: m.login.raw(loginPassword),
		}
		if creds.Email == "" || creds.Password == "" {
			m.login.err = "Please enter your email and password."
			cmd = m.login.setFocus(loginEmail)
			return m, cmd
		}
		cmd = tea.Batch(m.login.start(), loginCmd(m.backend, creds))
		return m, cmd
	}
	return m, nil
}

// handleLoginResult finishes a sign-in attempt.
func (m Model) handleLoginResult(msg loginResultMsg) (Model, tea.Cmd) {
	m.login.busy = false
	if msg.err != nil {
		m.login.err = errorText(msg.err)
		m.log.Info("login failed")
		return m, nil
	}
	if err := m.auth.Login(msg.user, msg.token); err != nil {
		m.login.err = "Could not save your session: " + err.Error()
		return m, nil
	}
	m.login.reset()
	return m.enterDashboard()
}
