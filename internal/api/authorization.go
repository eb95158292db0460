// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"net/http"
	"sync"
)

// BearerAuth adds the session token to every outgoing request while
// attached. It is installed once on the shared client's transport.
type BearerAuth struct {
	next http.RoundTripper

	mu    sync.RWMutex
	token string
}

// NewBearerAuth wraps next. A nil next uses http.DefaultTransport.
func NewBearerAuth(next http.RoundTripper) *BearerAuth {
	if next == nil {
		next = http.DefaultTransport
	}
	return &BearerAuth{next: next}
}

// Attach sets the token used for subsequent requests.
func (b *BearerAuth) Attach(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = token
}

// Detach stops adding the header.
func (b *BearerAuth) Detach() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = ""
}

// Header returns the Authorization value that would be sent.
func (b *BearerAuth) Header() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.token == "" {
		return "", false
	}
	return "Bearer " + b.token, true
}

// RoundTrip implements http.RoundTripper. An Authorization header already
// on the request wins. The request is cloned before modification.
func (b *BearerAuth) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Authorization") != "" {
		return b.next.RoundTrip(req)
	}
	value, ok := b.Header()
	if !ok {
		return b.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", value)
	return b.next.RoundTrip(clone)
}
