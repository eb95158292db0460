// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"sync"
	"time"
)

// Timer is a single-shot countdown with at most one outstanding expiry.
// Re-arming supersedes the previous schedule; a callback belonging to a
// superseded or cancelled arm never runs, even if its underlying clock timer
// had already fired and was waiting on the lock.
type Timer struct {
	clock Clock

	mu       sync.Mutex
	gen      uint64
	pending  Stopper
	deadline time.Time
}

// NewTimer returns an idle timer on clock.
func NewTimer(clock Clock) *Timer {
	if clock == nil {
		clock = SystemClock()
	}
	return &Timer{clock: clock}
}

// Arm cancels any outstanding expiry and schedules onExpire after d.
func (t *Timer) Arm(d time.Duration, onExpire func()) {
	if d < 0 {
		d = 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.gen++
	gen := t.gen
	t.deadline = t.clock.Now().Add(d)
	t.pending = t.clock.AfterFunc(d, func() {
		t.mu.Lock()
		if t.gen != gen {
			t.mu.Unlock()
			return
		}
		t.pending = nil
		t.deadline = time.Time{}
		t.mu.Unlock()

		onExpire()
	})
}

// Cancel clears the outstanding expiry without running it. Cancelling an
// idle timer is a no-op.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.gen++
}

// Deadline returns when the pending expiry is due. ok is false when idle.
func (t *Timer) Deadline() (deadline time.Time, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending == nil {
		return time.Time{}, false
	}
	return t.deadline, true
}

// Armed reports whether an expiry is pending.
func (t *Timer) Armed() bool {
	_, ok := t.Deadline()
	return ok
}

func (t *Timer) stopLocked() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	t.deadline = time.Time{}
}
