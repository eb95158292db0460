// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/api"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/history"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/profile"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/session"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/components"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/styles"
)

// dashboard is the signed-in shell: navbar, sidebar, one pane and the
// status bar.
type dashboard struct {
	theme   *styles.Theme
	keys    KeyMap
	now     func() time.Time
	navbar  *components.Navbar
	sidebar *components.Sidebar
	status  *components.StatusBar
	search  searchPane

	user    profile.Profile
	session session.Status

	usage        *api.Usage
	usageErr     string
	usageLoading bool
	refreshing   bool

	entries       []history.Query
	stats         history.Stats
	historyErr    string
	historyOffset int

	width  int
	height int
}

func newDashboard(theme *styles.Theme, now func() time.Time) dashboard {
	return dashboard{
		theme:   theme,
		keys:    DefaultKeyMap(),
		now:     now,
		navbar:  components.NewNavbar(theme, now),
		sidebar: components.NewSidebar(theme),
		status:  components.NewStatusBar(theme),
		search:  newSearchPane(),
	}
}

// reset forgets everything tied to the signed-in user.
func (d *dashboard) reset() {
	d.user = nil
	d.navbar.SetUser(nil)
	d.sidebar.Select(components.NavOverview)
	d.status.SetToast(components.Toast{})
	d.search.reset()
	d.usage = nil
	d.usageErr = ""
	d.usageLoading = false
	d.refreshing = false
	d.entries = nil
	d.stats = history.Stats{}
	d.historyErr = ""
	d.historyOffset = 0
}

func (d *dashboard) setUser(user profile.Profile) {
	d.user = user
	d.navbar.SetUser(user)
}

func (d *dashboard) setSize(width, height int) {
	d.width = width
	d.height = height
	d.navbar.SetWidth(width)
	d.status.SetWidth(width)
	d.sidebar.SetSize(d.theme.SidebarWidth(), d.bodyHeight())
}

// bodyHeight is the height left between the navbar and the status bar.
func (d *dashboard) bodyHeight() int {
	h := d.height - 2
	if h < 0 {
		return 0
	}
	return h
}

func (d *dashboard) tick(now time.Time, status session.Status) {
	d.session = status
	d.status.SetSession(status)
	d.status.Tick(now)
}

func (d *dashboard) toast(kind components.ToastKind, message string) {
	d.status.SetToast(components.NewToast(kind, message, d.now()))
}

// =============================================================================
// MODEL INTEGRATION
// =============================================================================

// enterDashboard switches to the dashboard for the authority's user.
func (m Model) enterDashboard() (Model, tea.Cmd) {
	m.route = routeDashboard
	m.dash.reset()
	m.dash.setUser(m.auth.User())
	m.dash.tick(m.now(), m.auth.Status())
	if _, err := m.history.InitSession(); err != nil {
		m.log.Warn("search session unavailable", zap.Error(err))
	}
	m.dash.usageLoading = true
	return m, usageCmd(m.backend)
}

func (m Model) updateDashboard(msg tea.Msg) (Model, tea.Cmd) {
	if mouse, ok := msg.(tea.MouseMsg); ok {
		return m.handleDashboardMouse(mouse)
	}

	if m.dash.sidebar.Selected() == components.NavSearch && m.dash.search.focused() {
		return m.updateSearch(msg)
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(k, m.keys.Overview):
		return m.selectPane(components.NavOverview)
	case key.Matches(k, m.keys.Search):
		return m.selectPane(components.NavSearch)
	case key.Matches(k, m.keys.History):
		return m.selectPane(components.NavHistory)
	case key.Matches(k, m.keys.Account):
		return m.selectPane(components.NavAccount)
	case key.Matches(k, m.keys.NextPane):
		m.dash.sidebar.Next()
		return m.selectPane(m.dash.sidebar.Selected())
	case key.Matches(k, m.keys.PrevPane):
		m.dash.sidebar.Prev()
		return m.selectPane(m.dash.sidebar.Selected())
	case key.Matches(k, m.keys.Refresh):
		return m.refresh()
	case key.Matches(k, m.keys.Logout):
		return m.logout(), nil
	case key.Matches(k, m.keys.ClearHistory):
		if m.dash.sidebar.Selected() == components.NavHistory {
			return m.clearHistory(), nil
		}
	case key.Matches(k, m.keys.Submit):
		if m.dash.sidebar.Selected() == components.NavSearch {
			cmd := m.dash.search.focus()
			return m, cmd
		}
	}
	return m, nil
}

// selectPane activates item and loads whatever it shows.
func (m Model) selectPane(item components.NavItem) (Model, tea.Cmd) {
	m.dash.sidebar.Select(item)
	m.dash.search.blur()
	m.dash.historyOffset = 0

	switch item {
	case components.NavOverview:
		m = m.loadHistory()
	case components.NavSearch:
		cmd := m.dash.search.focus()
		return m, cmd
	case components.NavHistory:
		m = m.loadHistory()
	case components.NavAccount:
		// After a failure, r retries.
		if m.dash.usage == nil && m.dash.usageErr == "" && !m.dash.usageLoading {
			m.dash.usageLoading = true
			return m, usageCmd(m.backend)
		}
	}
	return m, nil
}

// refresh re-fetches the profile and usage.
func (m Model) refresh() (Model, tea.Cmd) {
	if m.dash.refreshing {
		return m, nil
	}
	m.dash.refreshing = true
	m.dash.usageLoading = true
	m.dash.toast(components.ToastInfo, "Refreshing account...")
	return m, tea.Batch(refreshCmd(m.auth), usageCmd(m.backend))
}

func (m Model) handleRefreshResult(msg refreshResultMsg) (Model, tea.Cmd) {
	m.dash.refreshing = false
	if m.route != routeDashboard {
		return m, nil
	}
	if !m.auth.IsAuthenticated() {
		// The backend rejected the token and the authority logged out.
		m = m.toLogin()
		m.login.err = "Your session is no longer valid. Please log in again."
		return m, nil
	}
	if msg.err != nil {
		m.dash.toast(components.ToastError, errorText(msg.err))
		return m, nil
	}
	m.dash.setUser(m.auth.User())
	m.dash.toast(components.ToastSuccess, "Profile refreshed")
	return m, nil
}

func (m Model) handleUsageResult(msg usageResultMsg) (Model, tea.Cmd) {
	m.dash.usageLoading = false
	if m.route != routeDashboard {
		return m, nil
	}
	if msg.err != nil {
		m.dash.usageErr = errorText(msg.err)
		return m, nil
	}
	m.dash.usage = msg.usage
	m.dash.usageErr = ""
	return m, nil
}

// logout ends the session and returns to the login screen.
func (m Model) logout() Model {
	m.auth.Logout()
	m = m.toLogin()
	m.login.info = SignedOutMessage
	return m
}

func (m Model) loadHistory() Model {
	entries, err := m.history.History()
	if err != nil {
		m.dash.historyErr = err.Error()
		return m
	}
	stats, err := m.history.Stats()
	if err != nil {
		m.dash.historyErr = err.Error()
		return m
	}
	m.dash.entries = entries
	m.dash.stats = stats
	m.dash.historyErr = ""
	return m
}

func (m Model) clearHistory() Model {
	if err := m.history.ClearHistory(); err != nil {
		m.dash.toast(components.ToastError, "Could not clear history: "+err.Error())
		return m
	}
	m = m.loadHistory()
	m.dash.toast(components.ToastSuccess, "Search history cleared")
	return m
}

// handleDashboardMouse selects sidebar items on click and scrolls the
// history list with the wheel.
func (m Model) handleDashboardMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	ev := tea.MouseEvent(msg)
	if ev.IsWheel() {
		if m.dash.sidebar.Selected() == components.NavHistory {
			switch ev.Button {
			case tea.MouseButtonWheelUp:
				m.dash.scrollHistory(-1)
			case tea.MouseButtonWheelDown:
				m.dash.scrollHistory(1)
			}
		}
		return m, nil
	}
	if ev.Action != tea.MouseActionPress || ev.Button != tea.MouseButtonLeft {
		return m, nil
	}
	// Row 0 is the navbar; the sidebar or tab row starts below it.
	if item, ok := m.dash.sidebar.ItemAt(ev.X, ev.Y-1); ok {
		return m.selectPane(item)
	}
	return m, nil
}

func (d *dashboard) scrollHistory(delta int) {
	d.historyOffset += delta
	if last := len(d.entries) - 1; d.historyOffset > last {
		d.historyOffset = last
	}
	if d.historyOffset < 0 {
		d.historyOffset = 0
	}
}

// =============================================================================
// VIEW
// =============================================================================

func (d *dashboard) shortcuts() []key.Binding {
	keys := d.keys
	switch d.sidebar.Selected() {
	case components.NavSearch:
		if d.search.focused() {
			return []key.Binding{keys.Submit, keys.Cancel, keys.NextPane}
		}
		return []key.Binding{keys.Submit, keys.NextPane, keys.Logout, keys.Quit}
	case components.NavHistory:
		return []key.Binding{keys.NextPane, keys.ClearHistory, keys.Logout, keys.Quit}
	default:
		return []key.Binding{keys.NextPane, keys.Refresh, keys.Logout, keys.Quit}
	}
}

func (d *dashboard) view() string {
	d.status.SetShortcuts(d.shortcuts()...)

	sidebarWidth := d.theme.SidebarWidth()
	paneWidth := d.width - sidebarWidth
	paneHeight := d.bodyHeight()
	if sidebarWidth == 0 {
		paneHeight--
	}

	pane := d.theme.Pane.
		Width(paneWidth).
		Height(paneHeight).
		Render(d.paneView(paneWidth - 4))

	var body string
	if sidebarWidth == 0 {
		body = lipgloss.JoinVertical(lipgloss.Left, d.sidebar.View(), pane)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, d.sidebar.View(), pane)
	}
	return lipgloss.JoinVertical(lipgloss.Left, d.navbar.View(), body, d.status.View())
}

func (d *dashboard) paneView(width int) string {
	switch d.sidebar.Selected() {
	case components.NavSearch:
		return d.searchView(width)
	case components.NavHistory:
		return d.historyView(width)
	case components.NavAccount:
		return d.accountView()
	default:
		return d.overviewView()
	}
}
