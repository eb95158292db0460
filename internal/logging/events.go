// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import "go.uber.org/zap"

// EventKey is the field that carries a stable event name.
const EventKey = "event"

// Session lifecycle events.
const (
	EventSessionRestored  = "SESSION_RESTORED"
	EventSessionStart     = "SESSION_START"
	EventSessionExtended  = "SESSION_EXTENDED"
	EventSessionTimeout   = "SESSION_TIMEOUT"
	EventSessionLogout    = "SESSION_LOGOUT"
	EventSessionRejected  = "SESSION_REJECTED"
	EventSessionCleared   = "SESSION_CLEARED"
	EventProfileRefreshed = "PROFILE_REFRESHED"
)

// Account events.
const (
	EventLoginFailed     = "LOGIN_FAILED"
	EventRegistered      = "ACCOUNT_REGISTERED"
	EventProfileUpdated  = "PROFILE_UPDATED"
	EventPasswordChanged = "PASSWORD_CHANGED"
	EventPlanCancelled   = "PLAN_CANCELLED"
	EventHistoryCleared  = "HISTORY_CLEARED"
)

// Event tags an entry with a stable event name.
func Event(name string) zap.Field {
	return zap.String(EventKey, name)
}
