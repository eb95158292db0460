// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/api"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/styles"
)

// UsageBarWidth is the width of one usage meter.
const UsageBarWidth = 20

// RenderUsage draws one meter per feature, sorted by name. Features at or
// above their limit are drawn in the error colour.
func RenderUsage(usage *api.Usage) string {
	if usage == nil || len(usage.Usage) == 0 {
		return lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true).
			Render("No usage recorded this period.")
	}

	keys := usage.Keys()
	labelWidth := 0
	for _, k := range keys {
		if w := len(humanize(k)); w > labelWidth {
			labelWidth = w
		}
	}

	label := lipgloss.NewStyle().Foreground(styles.TextSecondary).Width(labelWidth + 2)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		e := usage.Usage[k]
		lines = append(lines, label.Render(humanize(k))+renderMeter(e))
	}
	return strings.Join(lines, "\n")
}

func renderMeter(e api.UsageEntry) string {
	if e.Unlimited() {
		return lipgloss.NewStyle().Foreground(styles.Emerald).
			Render(fmtNumber(e.Count()) + " used, unlimited")
	}

	color := styles.Brand
	switch pct := e.Percent(); {
	case pct >= 100:
		color = styles.Rose
	case pct >= 80:
		color = styles.Amber
	}
	bar := lipgloss.NewStyle().Foreground(color).
		Render(styles.RenderProgressBar(UsageBarWidth, e.Percent()))
	return fmt.Sprintf("%s %s / %s", bar, fmtNumber(e.Count()), fmtNumber(e.Limit))
}
