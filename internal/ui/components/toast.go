// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/styles"
)

// ToastKind selects a toast's colour and indicator.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// Toast lifetimes.
const (
	DefaultToastDuration = 4 * time.Second
	ErrorToastDuration   = 8 * time.Second
)

// Toast is a transient one-line message shown in the status bar.
type Toast struct {
	Message string
	Kind    ToastKind
	Expires time.Time
}

// NewToast creates a toast that expires after the default duration for its
// kind.
func NewToast(kind ToastKind, message string, now time.Time) Toast {
	d := DefaultToastDuration
	if kind == ToastError {
		d = ErrorToastDuration
	}
	return Toast{Message: message, Kind: kind, Expires: now.Add(d)}
}

// Expired reports whether the toast should be dropped. The zero Toast is
// always expired.
func (t Toast) Expired(now time.Time) bool {
	return t.Message == "" || !now.Before(t.Expires)
}

// Render draws the toast within width cells.
func (t Toast) Render(width int) string {
	var color lipgloss.AdaptiveColor
	var icon string
	switch t.Kind {
	case ToastSuccess:
		color, icon = styles.Emerald, styles.StatusIndicators.Success
	case ToastWarning:
		color, icon = styles.Amber, styles.StatusIndicators.Warning
	case ToastError:
		color, icon = styles.Rose, styles.StatusIndicators.Error
	default:
		color, icon = styles.Cyan, styles.StatusIndicators.Info
	}
	text := icon + " " + t.Message
	if width > 0 {
		text = truncate(text, width)
	}
	return lipgloss.NewStyle().Foreground(color).Bold(t.Kind == ToastError).Render(text)
}
