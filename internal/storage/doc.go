// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the persisted key/value store that survives client
// restarts.
//
// The session layer keeps exactly three keys here (KeyToken, KeyUser and
// KeySessionStart); the search-history tracker keeps its own keys alongside
// them. Values are plain strings. Nothing is encrypted and nothing expires at
// this layer.
//
// # Backends
//
//   - SQLiteStore: default, a single-table database under ~/.propmatch/
//   - FileStore: one JSON object file, written atomically
//   - MemoryStore: process local, for tests and throwaway sessions
//
// # Usage
//
//	store, err := storage.Open(storage.KindSQLite, path)
//	if err != nil {
//		return err
//	}
//	defer storage.Close(store)
//
//	token, ok, err := store.Get(storage.KeyToken)
//
// Backends that implement Watcher report writes made by other processes so
// a second client instance logging out is noticed promptly.
package storage
