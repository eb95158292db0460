// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package ui is the PropMatch terminal interface.

The root Model routes between three screens:

  - login: email and password, with a link to registration
  - register: account creation; success returns to login with the email filled in
  - dashboard: navbar, sidebar (Overview, Property Search, History, Account)
    and status bar

# Session handling

Every key and mouse message is turned into a session.Signal and emitted to
the ActivitySink before the screen sees it. A one-second tick calls
Authority.CheckExpiry, shows the warning overlay inside the warning window,
and drains Notices, where the authority's OnExpired callback posts the
expiry message. When a notice arrives the dashboard is torn down and the
blocking expiry overlay is shown over the login screen.

# Usage

	notices := ui.NewNotices()
	auth := session.NewAuthority(session.Options{OnExpired: notices.Post, ...})
	auth.Initialize()
	m := ui.New(ui.Deps{Authority: auth, Activity: activity, Backend: client, Notices: notices})
	tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
*/
package ui
