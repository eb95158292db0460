// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the PropMatch TUI.

All colors are Lip Gloss AdaptiveColor values so the interface follows the
terminal's light or dark background.

# Colors (colors.go)

  - Brand - navbar brand, active navigation, primary buttons
  - Cyan - focused inputs and keyboard shortcuts
  - Emerald - success and paid plans
  - Amber - warnings, trial plan, session countdown
  - Rose - errors and expired sessions

Status messages always pair a color with an ASCII indicator ([OK], [X],
[!], [i]) so meaning survives monochrome terminals.

# Theme (theme.go)

Theme detects color support with termenv and builds every lipgloss.Style
used by the navbar, sidebar, forms and panes. Layout adapts to width:

	LayoutNarrow  < 60 columns, sidebar folds into the navbar
	LayoutMedium  60-100 columns
	LayoutWide    >= 100 columns

# Usage

	theme := styles.NewThemeFor(cfg.UI.Theme)
	theme.SetSize(msg.Width, msg.Height)
	bar := styles.RenderProgressBar(20, entry.Percent())
*/
package styles
