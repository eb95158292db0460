// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/api"
)

const (
	registerFirstName = iota
	registerLastName
	registerEmail
	registerPhone
	registerPassword
	registerConfirm
)

const (
	registerButtonCreate = iota
	registerButtonBack
)

func newRegisterForm() form {
	return newForm(
		"Create your PropMatch account",
		"Start with a free 14-day trial",
		[]field{
			newField("First name", "", false),
			newField("Last name", "", false),
			newField("Email", "you@example.com", false),
			newField("Phone (optional)", "", false),
			newField("Password", "at least "+strconv.Itoa(api.MinPasswordLength)+" characters", true),
			newField("Confirm password", "", true),
		},
		"Create account", "Back to sign in",
	)
}

// updateRegister handles input on the registration screen.
func (m Model) updateRegister(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && !m.register.busy && key.Matches(k, m.keys.Cancel) {
		m.route = routeLogin
		cmd := m.login.setFocus(loginEmail)
		return m, cmd
	}

	action, cmd := m.register.update(msg, m.keys)
	if action != formPress {
		return m, cmd
	}

	switch m.register.button() {
	case registerButtonBack:
		m.route = routeLogin
		cmd = m.login.setFocus(loginEmail)
		return m, cmd
	case registerButtonCreate:
		reg := api.Registration{
			FirstName:   m.register.value(registerFirstName),
			LastName:    m.register.value(registerLastName),
			Email:       m.register.value(registerEmail),
			PhoneNumber: m.register.value(registerPhone),
			Password:    m.register.raw(registerPassword),
		}
		if err := reg.Validate(m.register.raw(registerConfirm)); err != nil {
			m.register.err = err.Error()
			return m, nil
		}
		cmd = tea.Batch(m.register.start(), registerCmd(m.backend, reg))
		return m, cmd
	}
	return m, nil
}

// handleRegisterResult returns to the login screen with the email filled in;
// registering does not sign in.
func (m Model) handleRegisterResult(msg registerResultMsg) (Model, tea.Cmd) {
	m.register.busy = false
	if msg.err != nil {
		m.register.err = errorText(msg.err)
		return m, nil
	}
	m.register.reset()
	m.route = routeLogin
	m.login.reset()
	m.login.setValue(loginEmail, msg.email)
	m.login.info = msg.message
	cmd := m.login.setFocus(loginPassword)
	return m, cmd
}
