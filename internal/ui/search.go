// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/history"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/components"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/styles"
)

// searchPane takes an address, asks for confirmation, and records the
// search in the history tracker.
type searchPane struct {
	input   textinput.Model
	pending *pendingSearch
	last    *history.Query
	err     string
}

// pendingSearch is a started query awaiting address confirmation.
type pendingSearch struct {
	queryID string
	address string
	// previous is the most recent earlier search for the same address.
	previous *history.Query
}

func newSearchPane() searchPane {
	ti := textinput.New()
	ti.Placeholder = "123 Main St, Springfield, IL"
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = 48
	return searchPane{input: ti}
}

func (s *searchPane) focused() bool { return s.input.Focused() }

func (s *searchPane) focus() tea.Cmd { return s.input.Focus() }

func (s *searchPane) blur() { s.input.Blur() }

func (s *searchPane) reset() {
	s.input.Reset()
	s.input.Blur()
	s.pending = nil
	s.last = nil
	s.err = ""
}

// updateSearch handles input while the address field has focus.
func (m Model) updateSearch(msg tea.Msg) (Model, tea.Cmd) {
	s := &m.dash.search
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.Submit):
			if s.pending != nil {
				return m.confirmSearch(), nil
			}
			return m.startSearch(), nil
		case key.Matches(k, m.keys.Cancel):
			if s.pending != nil {
				s.pending = nil
			} else {
				s.blur()
			}
			return m, nil
		case k.Type == tea.KeyTab:
			m.dash.sidebar.Next()
			return m.selectPane(m.dash.sidebar.Selected())
		case k.Type == tea.KeyShiftTab:
			m.dash.sidebar.Prev()
			return m.selectPane(m.dash.sidebar.Selected())
		}
		if s.pending != nil {
			return m, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return m, cmd
}

// startSearch records the typed address as the current query.
func (m Model) startSearch() Model {
	s := &m.dash.search
	address := strings.TrimSpace(s.input.Value())
	if address == "" {
		s.err = "Enter a property address."
		return m
	}

	previous, found, err := m.history.FindByAddress(address)
	if err != nil {
		found = false
	}
	if _, err := m.history.InitSession(); err != nil {
		s.err = "Could not start a search session: " + err.Error()
		return m
	}
	id, err := m.history.StartSearch(address)
	if err != nil {
		s.err = err.Error()
		return m
	}

	s.err = ""
	s.pending = &pendingSearch{queryID: id, address: address}
	if found {
		s.pending.previous = previous
	}
	return m
}

// confirmSearch completes the pending query and adds it to history.
func (m Model) confirmSearch() Model {
	s := &m.dash.search
	p := s.pending
	data := history.StepData{ConfirmedAddress: p.address}

	if err := m.history.UpdateStep(p.queryID, history.StepAddressSearch, data); err != nil {
		s.pending = nil
		s.err = "Search could not be recorded: " + err.Error()
		return m
	}
	if err := m.history.CompleteSearch(p.queryID, data); err != nil {
		s.pending = nil
		s.err = "Search could not be recorded: " + err.Error()
		return m
	}

	s.pending = nil
	s.err = ""
	s.input.Reset()
	if latest, ok, err := m.history.Latest(); err == nil && ok {
		s.last = latest
	}
	m = m.loadHistory()
	m.dash.toast(components.ToastSuccess, "Search recorded: "+p.address)
	return m
}

func (d *dashboard) searchView(width int) string {
	t := d.theme
	s := &d.search
	var b strings.Builder

	b.WriteString(t.PaneTitle.Render("Property Search"))
	b.WriteString("\n")
	b.WriteString(t.Hint.Render("Enter an address to analyse. Searches are saved to your history."))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	switch {
	case s.pending != nil:
		b.WriteString(t.Label.Render("Confirm address"))
		b.WriteString(t.Value.Render(fit(s.pending.address, width-16)))
		b.WriteString("\n")
		if prev := s.pending.previous; prev != nil {
			b.WriteString(styles.RenderInfo("You searched this address on " + formatDate(prev.StartedAt) + "."))
			b.WriteString("\n")
		}
		b.WriteString(t.Hint.Render("enter to confirm, esc to edit"))
	case s.err != "":
		b.WriteString(styles.RenderError(s.err))
	case !s.focused():
		b.WriteString(t.Hint.Render("Press enter to type an address."))
	}

	if s.last != nil {
		b.WriteString("\n\n")
		b.WriteString(t.Label.Render("Last recorded"))
		b.WriteString(t.Value.Render(fit(s.last.DisplayAddress(), width-16)))
	}
	return b.String()
}
