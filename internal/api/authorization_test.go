// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// headerRecorder captures the Authorization header of every request.
type headerRecorder struct {
	mu      sync.Mutex
	headers []string
}

func (h *headerRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.headers = append(h.headers, r.Header.Get("Authorization"))
		h.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user":{"email":"a@b.c"}}`))
	}
}

func (h *headerRecorder) last() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.headers) == 0 {
		return "<none>"
	}
	return h.headers[len(h.headers)-1]
}

func TestBearerAuth_AttachDetach(t *testing.T) {
	rec := &headerRecorder{}
	server := httptest.NewServer(rec.handler())
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL})
	ctx := context.Background()

	_, err := client.Profile(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "", rec.last(), "no header before attach")

	client.Auth().Attach("tok-1")
	_, err = client.Profile(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", rec.last())

	// Every client request goes through the same transport.
	_, err = client.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", rec.last())

	client.Auth().Detach()
	_, err = client.Profile(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "", rec.last(), "old token sent after detach")
}

func TestBearerAuth_ExplicitHeaderWins(t *testing.T) {
	rec := &headerRecorder{}
	server := httptest.NewServer(rec.handler())
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL})
	client.Auth().Attach("attached")

	_, err := client.Profile(context.Background(), "explicit")
	require.NoError(t, err)
	assert.Equal(t, "Bearer explicit", rec.last())
}

func TestBearerAuth_DoesNotMutateRequest(t *testing.T) {
	rec := &headerRecorder{}
	server := httptest.NewServer(rec.handler())
	defer server.Close()

	auth := NewBearerAuth(http.DefaultTransport)
	auth.Attach("tok")

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := auth.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer tok", rec.last())
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestBearerAuth_Header(t *testing.T) {
	auth := NewBearerAuth(nil)
	_, ok := auth.Header()
	assert.False(t, ok)

	auth.Attach("abc")
	v, ok := auth.Header()
	assert.True(t, ok)
	assert.Equal(t, "Bearer abc", v)

	auth.Detach()
	_, ok = auth.Header()
	assert.False(t, ok)
}
