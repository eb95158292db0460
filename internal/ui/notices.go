// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

// Notices carries session-expiry notices from the authority's timer
// goroutine to the UI loop, which drains it on every tick.
type Notices struct {
	ch chan string
}

// NewNotices creates an empty queue.
func NewNotices() *Notices {
	return &Notices{ch: make(chan string, 1)}
}

// Post queues message without blocking. While a notice is already pending
// further ones are dropped; they would all say the same thing.
func (n *Notices) Post(message string) {
	select {
	case n.ch <- message:
	default:
	}
}

// Poll returns the pending notice, if any.
func (n *Notices) Poll() (string, bool) {
	select {
	case msg := <-n.ch:
		return msg, true
	default:
		return "", false
	}
}
