// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps values in a map. Instances share nothing, so two
// authorities built on the same MemoryStore behave like two windows of one
// browser profile.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string]string
	watchers map[int]func()
	nextID   int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]string),
		watchers: make(map[int]func()),
	}
}

// Get implements Store.
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements Store.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	fns := m.snapshotWatchers()
	m.mu.Unlock()

	notify(fns)
	return nil
}

// Remove implements Store.
func (m *MemoryStore) Remove(key string) error {
	m.mu.Lock()
	_, existed := m.data[key]
	delete(m.data, key)
	fns := m.snapshotWatchers()
	m.mu.Unlock()

	if existed {
		notify(fns)
	}
	return nil
}

// Len returns the number of keys held.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Watch implements Watcher. fn runs on its own goroutine so watchers may
// take locks the writer already holds.
func (m *MemoryStore) Watch(ctx context.Context, fn func()) error {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.watchers[id] = fn
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.watchers, id)
		m.mu.Unlock()
	}()
	return nil
}

func (m *MemoryStore) snapshotWatchers() []func() {
	if len(m.watchers) == 0 {
		return nil
	}
	fns := make([]func(), 0, len(m.watchers))
	for _, fn := range m.watchers {
		fns = append(fns, fn)
	}
	return fns
}

func notify(fns []func()) {
	for _, fn := range fns {
		go fn()
	}
}
