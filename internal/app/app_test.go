// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/api"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/config"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/profile"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/storage"
)

func testConfig(t *testing.T, store string) *config.Config {
	t.Helper()
	home := t.TempDir()
	t.Setenv("PROPMATCH_HOME", home)

	cfg := config.Default()
	cfg.Session.Store = store
	cfg.Logging.File = filepath.Join(home, "test.log")
	return cfg
}

func TestOpen_NilConfig(t *testing.T) {
	_, err := Open(nil, Options{})
	assert.Error(t, err)
}

func TestOpen_FreshStoreIsSignedOut(t *testing.T) {
	a, err := Open(testConfig(t, "memory"), Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.Authority.IsAuthenticated())
	assert.False(t, a.Authority.IsLoading())
	_, ok := a.Client.Auth().Header()
	assert.False(t, ok)
}

func TestOpen_SessionSurvivesRestart(t *testing.T) {
	cfg := testConfig(t, "file")

	a, err := Open(cfg, Options{})
	require.NoError(t, err)
	user := profile.Profile{profile.FieldID: "u-7", profile.FieldEmail: "ada@example.com"}
	require.NoError(t, a.Authority.Login(user, "tok-7"))
	require.NoError(t, a.Close())

	b, err := Open(cfg, Options{})
	require.NoError(t, err)
	defer b.Close()

	require.True(t, b.Authority.IsAuthenticated())
	assert.Equal(t, "tok-7", b.Authority.Token())
	assert.Equal(t, "ada@example.com", b.Authority.User().Email())

	header, ok := b.Client.Auth().Header()
	require.True(t, ok)
	assert.Equal(t, "Bearer tok-7", header)

	path, err := cfg.StorePath()
	require.NoError(t, err)
	raw, found, err := storage.NewFileStore(path).Get(storage.KeyToken)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok-7", raw)
}

func TestOpen_HistoryUsesSignedInUser(t *testing.T) {
	a, err := Open(testConfig(t, "memory"), Options{})
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Authority.Login(profile.Profile{profile.FieldID: "u-9"}, "tok"))
	id, err := a.History.UserID()
	require.NoError(t, err)
	assert.Equal(t, "u-9", id)
}

func TestOpen_RefreshReachesBackend(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, api.PathProfile, r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": "u-1", "email": "new@example.com"},
		})
	}))
	defer srv.Close()

	cfg := testConfig(t, "memory")
	cfg.API.Environment = config.EnvDevelopment
	cfg.API.BaseURL = srv.URL

	a, err := Open(cfg, Options{})
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Authority.Login(profile.Profile{profile.FieldID: "u-1"}, "tok-1"))
	require.NoError(t, a.Authority.RefreshProfile(context.Background()))

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "new@example.com", a.Authority.User().Email())
}

func TestOpen_UnavailableStoreFallsBackToMemory(t *testing.T) {
	for _, kind := range []string{"sqlite", "file"} {
		t.Run(kind, func(t *testing.T) {
			cfg := testConfig(t, kind)
			blocker := filepath.Join(t.TempDir(), "notadir")
			require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))
			cfg.Session.StorePath = filepath.Join(blocker, "credentials")

			a, err := Open(cfg, Options{})
			require.NoError(t, err)
			defer a.Close()

			assert.IsType(t, &storage.MemoryStore{}, a.Store)
			assert.False(t, a.Authority.IsAuthenticated())
			assert.False(t, a.Authority.IsLoading())

			require.NoError(t, a.Authority.Login(profile.Profile{profile.FieldID: "u-3"}, "tok-3"))
			assert.True(t, a.Authority.IsAuthenticated())
			header, ok := a.Client.Auth().Header()
			require.True(t, ok)
			assert.Equal(t, "Bearer tok-3", header)

			_ = a.Log.Sync()
			logged, err := os.ReadFile(cfg.Logging.File)
			require.NoError(t, err)
			assert.Contains(t, string(logged), "credential store unavailable")
		})
	}
}

func TestOpen_BadStoreKind(t *testing.T) {
	cfg := testConfig(t, "memory")
	cfg.Session.Store = "redis"
	_, err := Open(cfg, Options{})
	assert.Error(t, err)
}
