// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session is the client's session authority: the one place that
// holds the signed-in identity, persists it across restarts, expires it after
// a period of inactivity and attaches it to outgoing requests.
//
// # Key Types
//
//   - Authority: owns the session state machine (Unauthenticated <-> Authenticated)
//   - Timer: single-shot cancellable countdown over an injected Clock
//   - ActivityMonitor: turns activity signals into session extensions
//   - Broadcaster: in-process ActivitySource fed by the terminal UI
//
// # Usage
//
// Build the authority once at startup and share it:
//
//	auth := session.NewAuthority(session.Options{
//		Store:      store,
//		Activity:   broadcaster,
//		Authorizer: bearer,
//		Profiles:   client,
//		OnExpired:  func(msg string) { ... },
//	})
//	auth.Initialize()
//
//	if err := auth.Login(user, token); err != nil {
//		// nothing was persisted
//	}
//
// Every key press or mouse event the UI sees is passed to
// Broadcaster.Emit before anything else handles it, which keeps the session
// alive while the user is active.
//
// # Timeout
//
// Sessions expire DefaultTimeout (30 minutes) after the last recorded
// activity. The persisted session_start is rewritten on activity, so a
// restart restores the session with the remaining time only.
package session
