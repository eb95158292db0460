// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strconv"
	"time"
)

// State is the authority's position in the session state machine.
type State int

const (
	// StateUnauthenticated is the initial state: no token, no user.
	StateUnauthenticated State = iota
	// StateAuthenticated means token and user are both held.
	StateAuthenticated
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Status is a point-in-time snapshot of the session.
type Status struct {
	State         State
	SessionStart  time.Time
	ExpiresAt     time.Time
	IdleTime      time.Duration
	RemainingTime time.Duration
	Timeout       time.Duration
	// Warning is set once RemainingTime drops inside the warning window.
	Warning bool
}

// FormatDuration renders d as "45s", "12m" or "12m 5s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return strconv.Itoa(int(d.Seconds())) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return strconv.Itoa(mins) + "m"
	}
	return strconv.Itoa(mins) + "m " + strconv.Itoa(secs) + "s"
}

// FormatCountdown renders d as "M:SS" for the warning overlay.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	secs := total % 60
	pad := ""
	if secs < 10 {
		pad = "0"
	}
	return strconv.Itoa(total/60) + ":" + pad + strconv.Itoa(secs)
}
