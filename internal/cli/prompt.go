// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// prompt.go - interactive input for login, register and account commands.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("cancelled")

// Prompter reads answers from the user.
type Prompter interface {
	// Prompt reads one line, echoing it.
	Prompt(label string) (string, error)
	// Password reads one line without echo.
	Password(label string) (string, error)
	// Close releases the terminal.
	Close() error
}

// =============================================================================
// LINER PROMPTER
// =============================================================================

// linerPrompter edits lines in a real terminal.
type linerPrompter struct {
	line *liner.State
}

// NewTerminalPrompter takes over the terminal for line editing. Close it
// before writing anything else to the terminal.
func NewTerminalPrompter() Prompter {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &linerPrompter{line: line}
}

func (p *linerPrompter) Prompt(label string) (string, error) {
	s, err := p.line.Prompt(label)
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		return "", ErrCancelled
	}
	return strings.TrimSpace(s), err
}

func (p *linerPrompter) Password(label string) (string, error) {
	s, err := p.line.PasswordPrompt(label)
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		return "", ErrCancelled
	}
	return s, err
}

func (p *linerPrompter) Close() error {
	return p.line.Close()
}

// =============================================================================
// LINE PROMPTER
// =============================================================================

// linePrompter reads plain lines from a reader. It serves piped input and
// tests. Labels go to out.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter reads answers from r, one per line.
func NewLinePrompter(r io.Reader, out io.Writer) Prompter {
	return &linePrompter{in: bufio.NewReader(r), out: out}
}

func (p *linePrompter) Prompt(label string) (string, error) {
	s, err := p.read(label)
	return strings.TrimSpace(s), err
}

func (p *linePrompter) Password(label string) (string, error) {
	return p.read(label)
}

func (p *linePrompter) read(label string) (string, error) {
	if p.out != nil {
		fmt.Fprint(p.out, label)
	}
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrCancelled
		}
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func (p *linePrompter) Close() error { return nil }

// readSecret reads a whole-stream secret such as --password-stdin input.
// Only the first line counts.
func readSecret(r io.Reader) (string, error) {
	s, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	s = strings.TrimRight(s, "\r\n")
	if s == "" {
		return "", NewValidationError("password", "nothing was read from stdin")
	}
	return s, nil
}

// confirm asks a yes/no question. Without a prompter it declines.
func confirm(p Prompter, question string) (bool, error) {
	if p == nil {
		return false, nil
	}
	answer, err := p.Prompt(question + " [y/N]: ")
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			return false, nil
		}
		return false, err
	}
	ok, err := ParseBoolString(answer)
	return ok && err == nil, nil
}
