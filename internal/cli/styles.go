// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - shared output styles for CLI commands.
//
// Colours are disabled for piped output and when NO_COLOR is set.

package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

func init() {
	applyColorProfile()
}

func applyColorProfile() {
	lipgloss.SetColorProfile(GetColorProfile())
	color.NoColor = !ColorsEnabled()
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for command titles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")). // Cyan
			MarginBottom(1)

	// LabelStyle is used for field labels
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Light gray
			Width(20)

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))
)

// Status prefixes for one-line results.
var (
	okColor   = color.New(color.FgGreen, color.Bold)
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
	infoColor = color.New(color.FgCyan)
)

// RenderLabel pads label to the label column.
func RenderLabel(label string) string {
	return LabelStyle.Render(label)
}

// printRow writes one "label value" line.
func printRow(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", RenderLabel(label), ValueStyle.Render(value))
}

func printOK(w io.Writer, format string, args ...any) {
	okColor.Fprint(w, "[OK] ")
	fmt.Fprintf(w, format+"\n", args...)
}

func printWarn(w io.Writer, format string, args ...any) {
	warnColor.Fprint(w, "[!] ")
	fmt.Fprintf(w, format+"\n", args...)
}

func printInfo(w io.Writer, format string, args ...any) {
	infoColor.Fprint(w, "[i] ")
	fmt.Fprintf(w, format+"\n", args...)
}

func printError(w io.Writer, msg string) {
	errColor.Fprint(w, "[ERROR] ")
	fmt.Fprintln(w, msg)
}
