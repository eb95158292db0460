// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/styles"
)

// field is one labelled input.
type field struct {
	label string
	input textinput.Model
}

func newField(label, placeholder string, secret bool) field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 254
	ti.Width = 36
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}
	return field{label: label, input: ti}
}

// form is a vertical list of inputs followed by a row of buttons. Focus
// moves through the inputs and then the buttons.
type form struct {
	title    string
	subtitle string
	fields   []field
	buttons  []string
	focus    int
	busy     bool
	err      string
	info     string
	spinner  spinner.Model
}

func newForm(title, subtitle string, fields []field, buttons ...string) form {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Brand)
	f := form{
		title:    title,
		subtitle: subtitle,
		fields:   fields,
		buttons:  buttons,
		spinner:  sp,
	}
	f.setFocus(0)
	return f
}

func (f *form) size() int { return len(f.fields) + len(f.buttons) }

// button returns the index of the focused button, or -1 when an input has
// focus.
func (f *form) button() int {
	if f.focus < len(f.fields) {
		return -1
	}
	return f.focus - len(f.fields)
}

func (f *form) setFocus(i int) tea.Cmd {
	n := f.size()
	f.focus = ((i % n) + n) % n
	var cmd tea.Cmd
	for j := range f.fields {
		if j == f.focus {
			cmd = f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
	return cmd
}

func (f *form) value(i int) string { return strings.TrimSpace(f.fields[i].input.Value()) }

// raw returns the untrimmed value, for passwords.
func (f *form) raw(i int) string { return f.fields[i].input.Value() }

func (f *form) setValue(i int, v string) { f.fields[i].input.SetValue(v) }

func (f *form) reset() {
	for i := range f.fields {
		f.fields[i].input.Reset()
	}
	f.err = ""
	f.info = ""
	f.busy = false
	f.setFocus(0)
}

// start marks the form busy and returns the spinner's first tick.
func (f *form) start() tea.Cmd {
	f.busy = true
	f.err = ""
	f.info = ""
	return f.spinner.Tick
}

// formAction is what a key press asked the owning view to do.
type formAction int

const (
	formNone formAction = iota
	// formPress means a button was activated; see form.button.
	formPress
)

// update handles navigation and typing. Enter on an input advances to the
// next control; enter on a button reports formPress.
func (f *form) update(msg tea.Msg, keys KeyMap) (formAction, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !f.busy {
			return formNone, nil
		}
		var cmd tea.Cmd
		f.spinner, cmd = f.spinner.Update(msg)
		return formNone, cmd

	case tea.KeyMsg:
		if f.busy {
			return formNone, nil
		}
		switch {
		case key.Matches(msg, keys.NextField):
			return formNone, f.setFocus(f.focus + 1)
		case key.Matches(msg, keys.PrevField):
			return formNone, f.setFocus(f.focus - 1)
		case key.Matches(msg, keys.Submit):
			if f.button() >= 0 {
				return formPress, nil
			}
			if f.focus == len(f.fields)-1 {
				// Enter on the last input presses the primary button.
				f.setFocus(len(f.fields))
				return formPress, nil
			}
			return formNone, f.setFocus(f.focus + 1)
		}
	}

	// Typing and cursor blinks go to the focused input.
	if f.button() < 0 {
		var cmd tea.Cmd
		f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
		return formNone, cmd
	}
	return formNone, nil
}

func (f *form) view(theme *styles.Theme, width, height int) string {
	var b strings.Builder
	b.WriteString(theme.FormTitle.Render(f.title))
	b.WriteString("\n")
	if f.subtitle != "" {
		b.WriteString(theme.FormSubtitle.Render(f.subtitle))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, fl := range f.fields {
		label := theme.InputLabel
		if i == f.focus {
			label = theme.InputFocused
		}
		b.WriteString(label.Render(fl.label))
		b.WriteString("\n")
		b.WriteString(fl.input.View())
		b.WriteString("\n\n")
	}

	buttons := make([]string, 0, len(f.buttons))
	for i, name := range f.buttons {
		style := theme.Button
		if f.button() == i {
			style = theme.ButtonActive
		}
		buttons = append(buttons, style.Render(name))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, buttons...))

	switch {
	case f.busy:
		b.WriteString("\n\n" + f.spinner.View() + " Please wait...")
	case f.err != "":
		b.WriteString("\n\n" + styles.RenderError(f.err))
	case f.info != "":
		b.WriteString("\n\n" + styles.RenderSuccess(f.info))
	}

	box := theme.FormBox.Render(b.String())
	if width == 0 || height == 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
