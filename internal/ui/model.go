// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/history"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/logging"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/session"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/components"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/ui/styles"
)

// =============================================================================
// ROUTING
// =============================================================================

type route int

const (
	routeLogin route = iota
	routeRegister
	routeDashboard
)

func (r route) String() string {
	switch r {
	case routeLogin:
		return "login"
	case routeRegister:
		return "register"
	case routeDashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}

// SignedOutMessage is shown on the login screen after a logout that did not
// come from the inactivity timer.
const SignedOutMessage = "You have been signed out."

// =============================================================================
// MODEL
// =============================================================================

// Deps are the collaborators of the root model. Authority, Activity and
// Backend are required.
type Deps struct {
	Authority *session.Authority
	Activity  ActivitySink
	Backend   Backend
	History   *history.Tracker
	Notices   *Notices
	Theme     *styles.Theme
	Logger    *logging.Logger
	// Now defaults to time.Now. It drives toasts and the trial countdown.
	Now func() time.Time
}

// Model is the root bubbletea model. It routes between the login, register
// and dashboard screens and owns the session timeout overlay.
type Model struct {
	auth     *session.Authority
	activity ActivitySink
	backend  Backend
	history  *history.Tracker
	notices  *Notices
	theme    *styles.Theme
	log      *logging.Logger
	now      func() time.Time
	keys     KeyMap

	route    route
	width    int
	height   int
	login    form
	register form
	dash     dashboard
	overlay  components.SessionTimeoutOverlay
	quitting bool
}

// New builds the root model. The authority should already be initialized so
// a restored session opens straight onto the dashboard.
func New(deps Deps) Model {
	if deps.Theme == nil {
		deps.Theme = styles.NewTheme()
	}
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	if deps.Notices == nil {
		deps.Notices = NewNotices()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.History == nil {
		deps.History = history.NewTracker(history.Options{Logger: deps.Logger})
	}

	m := Model{
		auth:     deps.Authority,
		activity: deps.Activity,
		backend:  deps.Backend,
		history:  deps.History,
		notices:  deps.Notices,
		theme:    deps.Theme,
		log:      deps.Logger.Named("ui"),
		now:      deps.Now,
		keys:     DefaultKeyMap(),
		login:    newLoginForm(),
		register: newRegisterForm(),
		dash:     newDashboard(deps.Theme, deps.Now),
		overlay:  components.NewSessionTimeoutOverlay(),
	}
	if m.auth.IsAuthenticated() {
		m, _ = m.enterDashboard()
	}
	return m
}

// Init starts the session clock.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), textinput.Blink}
	if m.route == routeDashboard {
		cmds = append(cmds, usageCmd(m.backend))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	// Input counts as activity before anything else looks at it, so a key
	// pressed on the warning overlay extends the session.
	if sig, ok := SignalFor(msg); ok {
		m.activity.Emit(sig)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.overlay.IsVisible() {
			var cmd tea.Cmd
			m.overlay, cmd = m.overlay.Update(msg)
			return m, cmd
		}

	case tea.MouseMsg:
		if m.overlay.IsVisible() {
			var cmd tea.Cmd
			m.overlay, cmd = m.overlay.Update(msg)
			return m, cmd
		}

	case tickMsg:
		return m.handleTick()

	case components.SessionExtendedMsg:
		m.log.Debug("session warning dismissed")
		return m, nil

	case components.SessionNoticeDismissedMsg:
		m.route = routeLogin
		cmd := m.login.setFocus(loginEmail)
		return m, cmd

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case registerResultMsg:
		return m.handleRegisterResult(msg)

	case usageResultMsg:
		return m.handleUsageResult(msg)

	case refreshResultMsg:
		return m.handleRefreshResult(msg)
	}

	switch m.route {
	case routeRegister:
		return m.updateRegister(msg)
	case routeDashboard:
		return m.updateDashboard(msg)
	default:
		return m.updateLogin(msg)
	}
}

// handleTick re-checks the session and keeps the overlay in step with it.
func (m Model) handleTick() (Model, tea.Cmd) {
	m.auth.CheckExpiry()

	if message, ok := m.notices.Poll(); ok {
		m = m.showExpired(message)
	} else if m.route == routeDashboard && !m.auth.IsAuthenticated() {
		// Logged out by another instance.
		m = m.toLogin()
		m.login.info = SignedOutMessage
	}

	status := m.auth.Status()
	if !m.overlay.IsExpired() {
		switch {
		case status.State == session.StateAuthenticated && status.Warning:
			m.overlay.ShowWarning(status.RemainingTime)
		case m.overlay.IsVisible():
			m.overlay.Hide()
		}
	}

	m.dash.tick(m.now(), status)
	return m, tickCmd()
}

// showExpired puts up the blocking notice over the login screen.
func (m Model) showExpired(message string) Model {
	m = m.toLogin()
	m.overlay.ShowExpired(message)
	m.log.Info("session expired notice shown")
	return m
}

// toLogin tears down dashboard state and shows a fresh login form.
func (m Model) toLogin() Model {
	m.route = routeLogin
	m.login.reset()
	m.dash.reset()
	return m
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.overlay.SetSize(width, height)
	m.dash.setSize(width, height)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.overlay.IsVisible() {
		return m.overlay.View()
	}
	switch m.route {
	case routeRegister:
		return m.register.view(m.theme, m.width, m.height)
	case routeDashboard:
		return m.dash.view()
	default:
		return m.login.view(m.theme, m.width, m.height)
	}
}
