// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the reusable pieces of the PropMatch TUI.

Each component is a plain struct with setters and a View method; the root
model owns them and forwards the messages they care about.

# Layout

Navbar (navbar.go) - brand, plan badge, display name and initials avatar.
Sidebar (sidebar.go) - dashboard navigation with mouse hit testing.
StatusBar (statusbar.go) - shortcuts, transient toasts and the session clock.

# Session

SessionTimeoutOverlay (timeout_overlay.go) - the countdown shown shortly
before the inactivity timeout and the blocking notice once it has passed.

# Feedback

Toast (toast.go) - one-line success, warning and error messages that expire.
RenderUsage (usage.go) - per-feature usage meters for the account pane.
*/
package components
