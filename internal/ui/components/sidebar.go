// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/styles"
)

// NavItem is a dashboard section.
type NavItem int

const (
	NavOverview NavItem = iota
	NavSearch
	NavHistory
	NavAccount
)

// String returns the sidebar label.
func (i NavItem) String() string {
	switch i {
	case NavOverview:
		return "Overview"
	case NavSearch:
		return "Property Search"
	case NavHistory:
		return "History"
	case NavAccount:
		return "Account"
	default:
		return "Unknown"
	}
}

// NavItems lists the sections in display order.
func NavItems() []NavItem {
	return []NavItem{NavOverview, NavSearch, NavHistory, NavAccount}
}

// Sidebar is the dashboard's section list. In the narrow layout it renders
// as a row of tabs instead.
type Sidebar struct {
	theme    *styles.Theme
	selected NavItem
	width    int
	height   int
}

// NewSidebar creates a sidebar with Overview selected.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{theme: theme}
}

// SetSize sets the column width and height. Width 0 selects tabs.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Selected returns the active section.
func (s *Sidebar) Selected() NavItem { return s.selected }

// Select activates item; out-of-range values are ignored.
func (s *Sidebar) Select(item NavItem) {
	if item < NavOverview || item > NavAccount {
		return
	}
	s.selected = item
}

// Next moves the selection down, wrapping.
func (s *Sidebar) Next() {
	s.selected = (s.selected + 1) % NavItem(len(NavItems()))
}

// Prev moves the selection up, wrapping.
func (s *Sidebar) Prev() {
	n := NavItem(len(NavItems()))
	s.selected = (s.selected + n - 1) % n
}

// ItemAt maps a click at (x, y), relative to the sidebar's top-left corner,
// to a section.
func (s *Sidebar) ItemAt(x, y int) (NavItem, bool) {
	if s.width == 0 {
		return s.tabAt(x, y)
	}
	// One row of padding precedes the first item.
	row := y - 1
	if x < 0 || x >= s.width || row < 0 || row >= len(NavItems()) {
		return 0, false
	}
	return NavItems()[row], true
}

func (s *Sidebar) tabAt(x, y int) (NavItem, bool) {
	if y != 0 || x < 0 {
		return 0, false
	}
	offset := 0
	for _, item := range NavItems() {
		w := lipgloss.Width(s.renderItem(item, item.String()))
		if x < offset+w {
			return item, true
		}
		offset += w + 1
	}
	return 0, false
}

// View renders the sidebar column or the tab row.
func (s *Sidebar) View() string {
	items := NavItems()
	if s.width == 0 {
		tabs := make([]string, 0, len(items))
		for _, item := range items {
			tabs = append(tabs, s.renderItem(item, item.String()))
		}
		return strings.Join(tabs, " ")
	}

	// Border and padding take three columns; item padding takes two more.
	labelWidth := s.width - 5
	lines := make([]string, 0, len(items))
	for _, item := range items {
		label := truncate(item.String(), labelWidth)
		lines = append(lines, s.renderItem(item, label))
	}
	style := s.theme.Sidebar.Width(s.width - 1)
	if s.height > 0 {
		style = style.Height(s.height - 2)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (s *Sidebar) renderItem(item NavItem, label string) string {
	if item == s.selected {
		return s.theme.SidebarActive.Render(label)
	}
	return s.theme.SidebarItem.Render(label)
}
