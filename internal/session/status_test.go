// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session_test

import (
	"testing"
	"time"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/session"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, "0s"},
		{0, "0s"},
		{45 * time.Second, "45s"},
		{12 * time.Minute, "12m"},
		{12*time.Minute + 5*time.Second, "12m 5s"},
		{90 * time.Minute, "90m"},
	}
	for _, tt := range tests {
		if got := session.FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, "0:00"},
		{2 * time.Minute, "2:00"},
		{time.Minute + 5*time.Second, "1:05"},
		{59*time.Second + 600*time.Millisecond, "1:00"},
		{9 * time.Second, "0:09"},
	}
	for _, tt := range tests {
		if got := session.FormatCountdown(tt.in); got != tt.want {
			t.Errorf("FormatCountdown(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestState_String(t *testing.T) {
	if got := session.StateAuthenticated.String(); got != "authenticated" {
		t.Errorf("got %q", got)
	}
	if got := session.StateUnauthenticated.String(); got != "unauthenticated" {
		t.Errorf("got %q", got)
	}
	if got := session.State(9).String(); got != "unknown" {
		t.Errorf("got %q", got)
	}
}
