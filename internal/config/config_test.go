// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/api"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/storage"
)

// isolate points the config directory at a temp dir, runs from an empty
// working directory and clears every variable the loader reads.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("PROPMATCH_HOME", home)
	for _, name := range []string{
		"NEXT_PUBLIC_API_URL", "NEXT_PUBLIC_PRODUCTION_API_URL", "PROPMATCH_ENV",
		"NEXT_PUBLIC_DEBUG_MODE", "PROPMATCH_SESSION_TIMEOUT", "PROPMATCH_STORE",
		"PROPMATCH_STORE_PATH", "PROPMATCH_LOG_LEVEL",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	chdir(t, t.TempDir())
	return home
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout())
	assert.Equal(t, 2*time.Minute, cfg.SessionWarning())
	assert.Equal(t, api.DefaultProductionURL, cfg.APIURL())
}

func TestLoad_NoFiles(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path, err := cfg.StorePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "session.db"), path)

	logPath, err := cfg.LogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "propmatch.log"), logPath)
}

func TestLoad_TOML(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.toml"), `
[api]
environment = "development"
base_url = "http://127.0.0.1:9000"

[session]
timeout_secs = 900
store = "json"
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.APIURL())
	assert.Equal(t, 15*time.Minute, cfg.SessionTimeout())
	assert.Equal(t, 120, cfg.Session.WarningSecs, "missing values keep defaults")

	kind, err := cfg.StoreKind()
	require.NoError(t, err)
	assert.Equal(t, storage.KindFile, kind)
	path, _ := cfg.StorePath()
	assert.Equal(t, filepath.Join(home, "session.json"), path)
}

func TestLoad_JSONFallback(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.json"), `{"logging":{"level":"debug"}}`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_TOMLPreferredOverJSON(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.toml"), "[logging]\nlevel = \"warn\"\n")
	writeFile(t, filepath.Join(home, "config.json"), `{"logging":{"level":"debug"}}`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_CorruptFile(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.toml"), "[api\n")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_FixesPermissions(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.toml")
	writeFile(t, path, "version = \"1\"\n")
	require.NoError(t, os.Chmod(path, 0644))

	_, err := Load()
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoad_InvalidValues(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, "config.toml"), `
[api]
environment = "staging"
max_retries = 50

[session]
store = "redis"

[ui]
theme = "neon"
`)

	_, err := Load()
	require.Error(t, err)

	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	var fields []string
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"api.environment", "api.max_retries", "session.store", "ui.theme"}, fields)
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("NEXT_PUBLIC_PRODUCTION_API_URL", "https://api.example.com")
	t.Setenv("NEXT_PUBLIC_DEBUG_MODE", "true")
	t.Setenv("PROPMATCH_SESSION_TIMEOUT", "10m")
	t.Setenv("PROPMATCH_STORE", "memory")
	t.Setenv("PROPMATCH_LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIURL())
	assert.True(t, cfg.API.Debug)
	assert.Equal(t, 10*time.Minute, cfg.SessionTimeout())
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestApplyEnvOverrides_APIURLSelectsDevelopment(t *testing.T) {
	isolate(t)
	t.Setenv("NEXT_PUBLIC_API_URL", "http://localhost:8000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.API.Environment)
	assert.Equal(t, "http://localhost:8000", cfg.APIURL())
}

func TestApplyEnvOverrides_ExplicitEnvironmentWins(t *testing.T) {
	isolate(t)
	t.Setenv("NEXT_PUBLIC_API_URL", "http://localhost:8000")
	t.Setenv("PROPMATCH_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, api.DefaultProductionURL, cfg.APIURL())
}

func TestApplyEnvOverrides_BadValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"bad bool", "NEXT_PUBLIC_DEBUG_MODE", "sometimes"},
		{"bad duration", "PROPMATCH_SESSION_TIMEOUT", "soon"},
		{"sub-second duration", "PROPMATCH_SESSION_TIMEOUT", "5ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	writeFile(t, ".env", "PROPMATCH_LOG_LEVEL=debug\nPROPMATCH_STORE=file\n")
	writeFile(t, ".env.local", "PROPMATCH_LOG_LEVEL=error\nPROPMATCH_ENV=development\n")
	t.Cleanup(func() {
		os.Unsetenv("PROPMATCH_LOG_LEVEL")
		os.Unsetenv("PROPMATCH_STORE")
		os.Unsetenv("PROPMATCH_ENV")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level, ".env loaded first")
	assert.Equal(t, "file", cfg.Session.Store)
	assert.Equal(t, EnvDevelopment, cfg.API.Environment)
}

func TestLoadDotEnv_ProcessEnvironmentWins(t *testing.T) {
	isolate(t)
	writeFile(t, ".env", "PROPMATCH_LOG_LEVEL=debug\n")
	t.Setenv("PROPMATCH_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Session.TimeoutSecs = 600
	cfg.UI.Mouse = false
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveJSON_RoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.API.MaxRetries = 0
	require.NoError(t, SaveJSON(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.API.MaxRetries)
}

func TestGetSet(t *testing.T) {
	cfg := Default()

	v, err := cfg.Get("session.timeout_secs")
	require.NoError(t, err)
	assert.Equal(t, 1800, v)

	require.NoError(t, cfg.Set("session.timeout_secs", "600"))
	require.NoError(t, cfg.Set("ui.mouse", "false"))
	require.NoError(t, cfg.Set("api.requests_per_second", 2.5))
	require.NoError(t, cfg.Set("logging.max-backups", 7))
	assert.Equal(t, 600, cfg.Session.TimeoutSecs)
	assert.False(t, cfg.UI.Mouse)
	assert.Equal(t, 2.5, cfg.API.RequestsPerSecond)
	assert.Equal(t, 7, cfg.Logging.MaxBackups)

	_, err = cfg.Get("session.nope")
	assert.Error(t, err)
	_, err = cfg.Get("session")
	assert.Error(t, err)
	assert.Error(t, cfg.Set("session.timeout_secs", "lots"))
	assert.Error(t, cfg.Set("ui.mouse", "maybe"))
	assert.Error(t, cfg.Set("", "x"))
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "api.base_url")
	assert.Contains(t, keys, "session.timeout_secs")
	assert.Contains(t, keys, "ui.theme")
	assert.Contains(t, keys, "version")
	assert.NotContains(t, keys, "session")

	cfg := Default()
	for _, k := range keys {
		_, err := cfg.Get(k)
		assert.NoError(t, err, k)
	}
}

func TestValidate_WarningLongerThanTimeout(t *testing.T) {
	cfg := Default()
	cfg.Session.TimeoutSecs = 120
	cfg.Session.WarningSecs = 300
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session.warning_secs")
}

func TestValidate_BadURL(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "ftp://example.com"
	cfg.API.ProductionURL = "https://"
	var verrs ValidateErrors
	require.True(t, errors.As(cfg.Validate(), &verrs))
	assert.Len(t, verrs, 2)
}

func TestLoadFileOnly_IgnoresEnvironment(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "config.toml")
	writeFile(t, path, "[session]\ntimeout_secs = 600\n")
	t.Setenv("PROPMATCH_SESSION_TIMEOUT", "5m")

	cfg, err := LoadFileOnly(path)
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Session.TimeoutSecs)
	assert.Equal(t, 120, cfg.Session.WarningSecs, "missing values are defaulted")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
