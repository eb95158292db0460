// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER
	// ==========================================================================

	App lipgloss.Style

	// ==========================================================================
	// NAVBAR
	// ==========================================================================

	Navbar     lipgloss.Style
	NavBrand   lipgloss.Style
	NavUser    lipgloss.Style
	Avatar     lipgloss.Style
	PlanBadge  lipgloss.Style
	TrialBadge lipgloss.Style

	// ==========================================================================
	// SIDEBAR
	// ==========================================================================

	Sidebar       lipgloss.Style
	SidebarItem   lipgloss.Style
	SidebarActive lipgloss.Style

	// ==========================================================================
	// CONTENT PANES
	// ==========================================================================

	Pane      lipgloss.Style
	PaneTitle lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Hint      lipgloss.Style

	// ==========================================================================
	// FORMS
	// ==========================================================================

	FormBox      lipgloss.Style
	FormTitle    lipgloss.Style
	FormSubtitle lipgloss.Style
	InputLabel   lipgloss.Style
	InputFocused lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style

	// ==========================================================================
	// STATUS
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	ErrorText    lipgloss.Style
	SuccessText  lipgloss.Style
	NoticeBox    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// NewThemeFor builds a theme for an explicit "dark" or "light" preference.
// "auto" and anything else detect the terminal background.
func NewThemeFor(preference string) *Theme {
	t := NewTheme()
	switch preference {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		t.IsDark = true
	case "light":
		lipgloss.SetHasDarkBackground(false)
		t.IsDark = false
	}
	return t
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()

	// Navbar
	t.Navbar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextPrimary).
		Padding(0, 1)
	t.NavBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Brand)
	t.NavUser = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.Avatar = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(BrandDeep).
		Padding(0, 1)
	t.PlanBadge = lipgloss.NewStyle().
		Bold(true).
		Foreground(Emerald)
	t.TrialBadge = lipgloss.NewStyle().
		Bold(true).
		Foreground(Amber)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(1, 1)
	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)
	t.SidebarActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(Brand).
		Background(SurfaceBright).
		Padding(0, 1)

	// Panes
	t.Pane = lipgloss.NewStyle().
		Padding(1, 2)
	t.PaneTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary).
		MarginBottom(1)
	t.Label = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(16)
	t.Value = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.Hint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Forms
	t.FormBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Brand).
		Padding(1, 3)
	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Brand)
	t.FormSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary)
	t.InputLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)
	t.InputFocused = lipgloss.NewStyle().
		Foreground(Cyan)
	t.Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2)
	t.ButtonActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Brand).
		Padding(0, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Brand)

	// Status
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(SurfaceDim).
		Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.ErrorText = lipgloss.NewStyle().
		Foreground(ErrorHighContrast)
	t.SuccessText = lipgloss.NewStyle().
		Foreground(SuccessHighContrast)
	t.NoticeBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Foreground(TextPrimary).
		Padding(0, 2)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// SidebarWidth returns the sidebar column width for the layout, 0 when the
// sidebar collapses into the navbar.
func (t *Theme) SidebarWidth() int {
	switch t.GetLayoutMode() {
	case LayoutNarrow:
		return 0
	case LayoutMedium:
		return 20
	default:
		return 24
	}
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)
