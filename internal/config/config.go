// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for propmatch.
//
// Supports both TOML and JSON configuration formats, with defaults,
// .env files, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.propmatch/config.toml
//   - ~/.propmatch/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/api"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/logging"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/storage"
	"github.com/zeeshan-tahir185/propmatch-temp2-sub000/internal/util"
)

// CurrentVersion is the config schema version written by Save.
const CurrentVersion = "1"

// Environments accepted in api.environment.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete propmatch configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	API     APIConfig     `toml:"api" json:"api"`
	Session SessionConfig `toml:"session" json:"session"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
	UI      UIConfig      `toml:"ui" json:"ui"`
}

// APIConfig locates and tunes the backend client.
type APIConfig struct {
	// BaseURL is the non-production backend (NEXT_PUBLIC_API_URL).
	BaseURL string `toml:"base_url" json:"base_url"`
	// ProductionURL is used when Environment is "production".
	ProductionURL string `toml:"production_url" json:"production_url"`
	// Environment is "production" or "development".
	Environment string `toml:"environment" json:"environment"`

	TimeoutSecs       int     `toml:"timeout_secs" json:"timeout_secs"`
	MaxRetries        int     `toml:"max_retries" json:"max_retries"`
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `toml:"burst" json:"burst"`

	// Debug logs request lines and response statuses.
	Debug bool `toml:"debug" json:"debug"`
}

// SessionConfig controls the login session and where it is kept.
type SessionConfig struct {
	// TimeoutSecs is the inactivity limit. Default 1800.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// WarningSecs is how long before expiry the TUI warns. Default 120.
	WarningSecs int `toml:"warning_secs" json:"warning_secs"`
	// Store is sqlite, file or memory.
	Store string `toml:"store" json:"store"`
	// StorePath overrides the store location. Empty uses ~/.propmatch.
	StorePath string `toml:"store_path" json:"store_path"`
	// Watch re-checks the session when another process changes the store.
	Watch bool `toml:"watch" json:"watch"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	Level      string `toml:"level" json:"level"`
	File       string `toml:"file" json:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" json:"max_age_days"`
}

// UIConfig contains terminal UI preferences.
type UIConfig struct {
	// Mouse enables mouse reporting so pointer motion counts as activity.
	Mouse bool `toml:"mouse" json:"mouse"`
	// Theme is dark, light or auto.
	Theme string `toml:"theme" json:"theme"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		API: APIConfig{
			ProductionURL:     api.DefaultProductionURL,
			Environment:       EnvProduction,
			TimeoutSecs:       int(api.DefaultTimeout / time.Second),
			MaxRetries:        api.DefaultMaxRetries,
			RequestsPerSecond: 5,
			Burst:             10,
		},
		Session: SessionConfig{
			TimeoutSecs: 1800,
			WarningSecs: 120,
			Store:       string(storage.KindSQLite),
			Watch:       true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		UI: UIConfig{
			Mouse: true,
			Theme: "auto",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the propmatch configuration directory path.
// PROPMATCH_HOME replaces it entirely.
func ConfigDir() (string, error) {
	if dir := os.Getenv("PROPMATCH_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".propmatch"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir creates the config directory owner-only.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, util.PrivateDirPerm)
}

// ensureSecurePermissions tightens a config file to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads .env files, then the config file (TOML first, then JSON),
// then applies environment overrides, fills defaults and validates.
// A config file that exists but cannot be decoded is an error.
func Load() (*Config, error) {
	LoadDotEnv()

	cfg := Default()
	var path string
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return nil, err
	}
	jsonPath, err := ConfigPathJSON()
	if err != nil {
		return nil, err
	}
	if fileExists(tomlPath) {
		path = tomlPath
	} else if fileExists(jsonPath) {
		path = jsonPath
	}

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}
	return finish(cfg)
}

// LoadFromPath loads configuration from a specific file path with full
// validation. .env files are not read.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := loadFile(cfg, path); err != nil {
		return nil, err
	}
	return finish(cfg)
}

// LoadFileOnly decodes path over the defaults without environment
// overrides or validation. "config set" edits files through it so values
// from the environment are never written back.
func LoadFileOnly(path string) (*Config, error) {
	cfg := Default()
	if err := loadFile(cfg, path); err != nil {
		return nil, err
	}
	fillDefaults(cfg)
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
		return nil
	}
	if err := LoadTOML(cfg, path); err != nil {
		return fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}
	return nil
}

func finish(cfg *Config) (*Config, error) {
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadDotEnv reads .env and then .env.local from the working directory.
// Variables already set in the environment win, and .env wins over
// .env.local because godotenv never overwrites.
func LoadDotEnv() {
	for _, name := range []string{".env", ".env.local"} {
		if fileExists(name) {
			if err := godotenv.Load(name); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not load %s: %v\n", name, err)
			}
		}
	}
}

// fillDefaults fills in any missing or out-of-range values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	if cfg.API.ProductionURL == "" {
		cfg.API.ProductionURL = defaults.API.ProductionURL
	}
	if cfg.API.Environment == "" {
		cfg.API.Environment = defaults.API.Environment
	}
	cfg.API.Environment = strings.ToLower(cfg.API.Environment)
	if cfg.API.TimeoutSecs <= 0 {
		cfg.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if cfg.API.RequestsPerSecond < 0 {
		cfg.API.RequestsPerSecond = 0
	}
	if cfg.API.Burst <= 0 {
		cfg.API.Burst = defaults.API.Burst
	}

	if cfg.Session.TimeoutSecs <= 0 {
		cfg.Session.TimeoutSecs = defaults.Session.TimeoutSecs
	}
	if cfg.Session.WarningSecs <= 0 {
		cfg.Session.WarningSecs = defaults.Session.WarningSecs
	}
	if cfg.Session.Store == "" {
		cfg.Session.Store = defaults.Session.Store
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}
	if cfg.Logging.MaxSizeMB <= 0 {
		cfg.Logging.MaxSizeMB = defaults.Logging.MaxSizeMB
	}
	if cfg.Logging.MaxBackups <= 0 {
		cfg.Logging.MaxBackups = defaults.Logging.MaxBackups
	}
	if cfg.Logging.MaxAgeDays <= 0 {
		cfg.Logging.MaxAgeDays = defaults.Logging.MaxAgeDays
	}

	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// envOverrides maps environment variables onto the config. Pointer fields
// stay nil when the variable is unset.
type envOverrides struct {
	APIURL        *string        `env:"NEXT_PUBLIC_API_URL"`
	ProductionURL *string        `env:"NEXT_PUBLIC_PRODUCTION_API_URL"`
	Environment   *string        `env:"PROPMATCH_ENV"`
	Debug         *bool          `env:"NEXT_PUBLIC_DEBUG_MODE"`
	Timeout       *time.Duration `env:"PROPMATCH_SESSION_TIMEOUT"`
	Store         *string        `env:"PROPMATCH_STORE"`
	StorePath     *string        `env:"PROPMATCH_STORE_PATH"`
	LogLevel      *string        `env:"PROPMATCH_LOG_LEVEL"`
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - NEXT_PUBLIC_API_URL: overrides api.base_url and, unless PROPMATCH_ENV
//     is set, selects the development environment
//   - NEXT_PUBLIC_PRODUCTION_API_URL: overrides api.production_url
//   - PROPMATCH_ENV: overrides api.environment
//   - NEXT_PUBLIC_DEBUG_MODE: overrides api.debug
//   - PROPMATCH_SESSION_TIMEOUT: overrides session.timeout_secs (Go duration)
//   - PROPMATCH_STORE / PROPMATCH_STORE_PATH: override session.store / store_path
//   - PROPMATCH_LOG_LEVEL: overrides logging.level
func (c *Config) ApplyEnvOverrides() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return err
	}

	if o.APIURL != nil && *o.APIURL != "" {
		c.API.BaseURL = *o.APIURL
		if o.Environment == nil {
			c.API.Environment = EnvDevelopment
		}
	}
	if o.ProductionURL != nil && *o.ProductionURL != "" {
		c.API.ProductionURL = *o.ProductionURL
	}
	if o.Environment != nil && *o.Environment != "" {
		c.API.Environment = *o.Environment
	}
	if o.Debug != nil {
		c.API.Debug = *o.Debug
	}
	if o.Timeout != nil {
		if *o.Timeout < time.Second {
			return fmt.Errorf("PROPMATCH_SESSION_TIMEOUT %s is shorter than one second", *o.Timeout)
		}
		c.Session.TimeoutSecs = int(*o.Timeout / time.Second)
	}
	if o.Store != nil && *o.Store != "" {
		c.Session.Store = *o.Store
	}
	if o.StorePath != nil && *o.StorePath != "" {
		c.Session.StorePath = *o.StorePath
	}
	if o.LogLevel != nil && *o.LogLevel != "" {
		c.Logging.Level = *o.LogLevel
	}
	return nil
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// APIURL returns the backend root for the configured environment.
func (c *Config) APIURL() string {
	if c.API.Environment == EnvProduction {
		if c.API.ProductionURL != "" {
			return c.API.ProductionURL
		}
		return api.DefaultProductionURL
	}
	if c.API.BaseURL != "" {
		return c.API.BaseURL
	}
	return api.DefaultDevelopmentURL
}

// APIOptions builds client options. The logger is supplied by the caller.
func (c *Config) APIOptions(log *logging.Logger) api.Options {
	return api.Options{
		BaseURL:           c.APIURL(),
		Timeout:           time.Duration(c.API.TimeoutSecs) * time.Second,
		MaxRetries:        c.API.MaxRetries,
		RequestsPerSecond: c.API.RequestsPerSecond,
		Burst:             c.API.Burst,
		Debug:             c.API.Debug,
		Logger:            log,
	}
}

// SessionTimeout returns the inactivity limit.
func (c *Config) SessionTimeout() time.Duration {
	return time.Duration(c.Session.TimeoutSecs) * time.Second
}

// SessionWarning returns how long before expiry the warning appears.
func (c *Config) SessionWarning() time.Duration {
	return time.Duration(c.Session.WarningSecs) * time.Second
}

// StoreKind returns the parsed store backend.
func (c *Config) StoreKind() (storage.Kind, error) {
	return storage.ParseKind(c.Session.Store)
}

// StorePath returns the configured store location or the default one for
// the backend: session.db for sqlite, session.json for file.
func (c *Config) StorePath() (string, error) {
	if c.Session.StorePath != "" {
		return c.Session.StorePath, nil
	}
	kind, err := c.StoreKind()
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	switch kind {
	case storage.KindFile:
		return filepath.Join(dir, "session.json"), nil
	case storage.KindMemory:
		return "", nil
	default:
		return filepath.Join(dir, "session.db"), nil
	}
}

// LogPath returns the configured log file or ~/.propmatch/propmatch.log.
func (c *Config) LogPath() (string, error) {
	if c.Logging.File != "" {
		return c.Logging.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "propmatch.log"), nil
}

// LoggingOptions builds the logger configuration.
func (c *Config) LoggingOptions() (logging.Config, error) {
	path, err := c.LogPath()
	if err != nil {
		return logging.Config{}, err
	}
	return logging.Config{
		Level:      c.Logging.Level,
		File:       path,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
	}, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg as TOML with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), util.PrivateDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# propmatch configuration file\n")
	b.WriteString("# Generated by propmatch - edit with care\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes cfg as indented JSON with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), util.PrivateDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate returns ValidateErrors listing every invalid field, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// API
	switch c.API.Environment {
	case EnvProduction, EnvDevelopment:
	default:
		add("api.environment", "invalid environment '%s', must be one of: production, development", c.API.Environment)
	}
	for field, raw := range map[string]string{
		"api.base_url":       c.API.BaseURL,
		"api.production_url": c.API.ProductionURL,
	} {
		if raw == "" {
			continue
		}
		if err := validateURL(raw); err != nil {
			add(field, "%v", err)
		}
	}
	if c.API.TimeoutSecs > 300 {
		add("api.timeout_secs", "must be at most 300, got %d", c.API.TimeoutSecs)
	}
	if c.API.MaxRetries < 0 || c.API.MaxRetries > 10 {
		add("api.max_retries", "must be between 0 and 10, got %d", c.API.MaxRetries)
	}

	// Session
	if c.Session.TimeoutSecs < 60 || c.Session.TimeoutSecs > 24*3600 {
		add("session.timeout_secs", "must be between 60 and 86400, got %d", c.Session.TimeoutSecs)
	}
	if c.Session.WarningSecs >= c.Session.TimeoutSecs {
		add("session.warning_secs", "must be shorter than session.timeout_secs")
	}
	if _, err := storage.ParseKind(c.Session.Store); err != nil {
		add("session.store", "%v", err)
	}

	// Logging
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		add("logging.level", "%v", err)
	}

	// UI
	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light", "auto":
	default:
		add("ui.theme", "invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme)
	}

	if len(errs) > 0 {
		sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })
		return errs
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https, got '%s'", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host: '%s'", raw)
	}
	return nil
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "session.timeout_secs").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation. String values are
// converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if strings.TrimSpace(key) == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")
	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			if field.Kind() == reflect.Struct {
				return reflect.Value{}, fmt.Errorf("field '%s' is a section", key)
			}
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// fieldByTag finds the struct field whose toml tag is name.
func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	name = strings.ReplaceAll(strings.ToLower(name), "-", "_")
	for i := 0; i < t.NumField(); i++ {
		if tag := strings.Split(t.Field(i).Tag.Get("toml"), ",")[0]; tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %w", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %w", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strVal)
			if err != nil {
				return fmt.Errorf("invalid boolean value: %w", err)
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return errors.New("nil value")
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() != reflect.String {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// Keys returns every settable key in dot notation, sorted.
func Keys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			tag := strings.Split(f.Tag.Get("toml"), ",")[0]
			if tag == "" || tag == "-" {
				continue
			}
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, prefix+tag+".")
				continue
			}
			keys = append(keys, prefix+tag)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	sort.Strings(keys)
	return keys
}

// String returns the config as indented JSON.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
