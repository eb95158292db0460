// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Credential keys. Only the session authority writes these.
const (
	KeyToken        = "token"
	KeyUser         = "user"
	KeySessionStart = "session_start"
)

// CredentialKeys lists the keys that make up a persisted session.
var CredentialKeys = []string{KeyToken, KeyUser, KeySessionStart}

// ErrUnavailable wraps every failure to open, read or write a backend.
var ErrUnavailable = errors.New("storage unavailable")

// Store is a string key/value store.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
}

// Watcher is implemented by stores that can report changes, including
// changes made by another process.
type Watcher interface {
	// Watch calls fn after the store changes until ctx is cancelled. It
	// returns once the watch is established.
	Watch(ctx context.Context, fn func()) error
}

// Kind selects a backend.
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindFile   Kind = "file"
	KindMemory Kind = "memory"
)

// ParseKind accepts the backend names used in configuration.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindSQLite, "":
		return KindSQLite, nil
	case KindFile, "json":
		return KindFile, nil
	case KindMemory:
		return KindMemory, nil
	default:
		return "", fmt.Errorf("unknown store %q (want sqlite, file or memory)", s)
	}
}

// Open creates the backend of the given kind. path is ignored for memory.
func Open(kind Kind, path string) (Store, error) {
	switch kind {
	case KindSQLite:
		return OpenSQLite(path)
	case KindFile:
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, unavailable("create directory", err)
		}
		return NewFileStore(path), nil
	case KindMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store %q", kind)
	}
}

// Close releases the store if it holds resources.
func Close(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
