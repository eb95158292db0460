// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/api"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/profile"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/session"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/session/sessiontest"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/storage"
)

// headerRecorder serves the profile and usage endpoints and remembers the
// Authorization header of every request.
type headerRecorder struct {
	mu      sync.Mutex
	headers []string
	status  int
}

func (h *headerRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.headers = append(h.headers, r.Header.Get("Authorization"))
	status := h.status
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"detail":"Invalid token"}`))
		return
	}
	switch r.URL.Path {
	case api.PathProfile:
		_, _ = w.Write([]byte(`{"user":{"email":"jane@example.com","plan_type":"basic"}}`))
	default:
		_, _ = w.Write([]byte(`{"usage":{}}`))
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

func newWiredAuthority(t *testing.T, rec *headerRecorder) (*session.Authority, *api.Client, *storage.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)

	client := api.NewClient(api.Options{BaseURL: srv.URL, MaxRetries: 0})
	store := storage.NewMemoryStore()
	a := session.NewAuthority(session.Options{
		Store:      store,
		Clock:      sessiontest.NewFakeClock(epoch),
		Authorizer: client.Auth(),
		Profiles:   client,
	})
	a.Initialize()
	return a, client, store
}

func TestAuthorization_HeaderFollowsSession(t *testing.T) {
	rec := &headerRecorder{}
	a, client, _ := newWiredAuthority(t, rec)
	ctx := context.Background()

	require.NoError(t, a.Login(profile.Profile{"email": "jane@example.com"}, "tok-1"))
	_, err := client.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", rec.last())

	a.Logout()
	_, err = client.Usage(ctx)
	require.NoError(t, err)
	assert.Empty(t, rec.last(), "request after logout carried a credential")
}

func TestAuthorization_RefreshUsesSessionToken(t *testing.T) {
	rec := &headerRecorder{}
	a, _, store := newWiredAuthority(t, rec)

	require.NoError(t, a.Login(profile.Profile{"email": "jane@example.com"}, "tok-1"))
	require.NoError(t, a.RefreshProfile(context.Background()))

	assert.Equal(t, "Bearer tok-1", rec.last())
	assert.Equal(t, "basic", a.User().PlanType())
	raw, ok, err := store.Get(storage.KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"plan_type":"basic"`)
}

func TestAuthorization_ServerRejectionEndsSession(t *testing.T) {
	rec := &headerRecorder{status: http.StatusUnauthorized}
	a, client, store := newWiredAuthority(t, rec)

	require.NoError(t, a.Login(profile.Profile{"email": "jane@example.com"}, "tok-1"))
	err := a.RefreshProfile(context.Background())
	assert.ErrorIs(t, err, api.ErrUnauthorized)

	assert.False(t, a.IsAuthenticated())
	assert.Equal(t, 0, store.Len())
	_, attached := client.Auth().Header()
	assert.False(t, attached)
}
