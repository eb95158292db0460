// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "sync"

// Signal is a class of user activity.
type Signal int

const (
	SignalPointerPress Signal = iota + 1
	SignalPointerMove
	SignalKeyPress
	SignalScroll
	SignalTouchStart
)

// String returns the signal name.
func (s Signal) String() string {
	switch s {
	case SignalPointerPress:
		return "pointer_press"
	case SignalPointerMove:
		return "pointer_move"
	case SignalKeyPress:
		return "key_press"
	case SignalScroll:
		return "scroll"
	case SignalTouchStart:
		return "touch_start"
	default:
		return "unknown"
	}
}

// Continuous reports whether s arrives in bursts (pointer motion, scroll)
// rather than once per user action.
func (s Signal) Continuous() bool {
	return s == SignalPointerMove || s == SignalScroll
}

// ActivitySource delivers activity signals. Implementations must not hold
// internal locks while invoking subscribers, and unsubscribe must be safe to
// call from any goroutine more than once.
type ActivitySource interface {
	Subscribe(fn func(Signal)) (unsubscribe func())
}

// =============================================================================
// BROADCASTER
// =============================================================================

// Broadcaster is an in-process ActivitySource. The UI calls Emit for every
// input event before routing it anywhere else.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[uint64]func(Signal)
	nextID uint64
}

// NewBroadcaster returns a broadcaster with no subscribers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[uint64]func(Signal))}
}

// Subscribe implements ActivitySource.
func (b *Broadcaster) Subscribe(fn func(Signal)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Emit delivers sig to every current subscriber on the caller's goroutine.
func (b *Broadcaster) Emit(sig Signal) {
	b.mu.RLock()
	fns := make([]func(Signal), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(sig)
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// =============================================================================
// ACTIVITY MONITOR
// =============================================================================

// ActivityMonitor holds at most one subscription to a source. It is started
// when a session begins and stopped before the session is torn down.
type ActivityMonitor struct {
	source ActivitySource

	mu    sync.Mutex
	unsub func()
}

// NewActivityMonitor returns a stopped monitor. A nil source yields a monitor
// that never reports activity.
func NewActivityMonitor(source ActivitySource) *ActivityMonitor {
	return &ActivityMonitor{source: source}
}

// Start subscribes handler, replacing any previous subscription.
func (m *ActivityMonitor) Start(handler func(Signal)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
	if m.source == nil {
		return
	}
	m.unsub = m.source.Subscribe(handler)
}

// Stop removes the subscription. Safe to call when stopped.
func (m *ActivityMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
}

// Running reports whether a subscription is held.
func (m *ActivityMonitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unsub != nil
}
