// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events one atomic write produces.
const watchDebounce = 50 * time.Millisecond

// Watch implements Watcher. The parent directory is watched rather than the
// file itself because atomic writes replace the inode.
func (f *FileStore) Watch(ctx context.Context, fn func()) error {
	base := filepath.Base(f.path)
	return watchDir(ctx, filepath.Dir(f.path), func(name string) bool {
		return name == base
	}, fn)
}

// Watch implements Watcher. Writes land in the -wal and -shm side files as
// well as the main database, so all three are matched.
func (s *SQLiteStore) Watch(ctx context.Context, fn func()) error {
	base := filepath.Base(s.path)
	return watchDir(ctx, filepath.Dir(s.path), func(name string) bool {
		return strings.HasPrefix(name, base)
	}, fn)
}

func watchDir(ctx context.Context, dir string, match func(name string) bool, fn func()) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	schedule := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(watchDebounce, func() {
			if ctx.Err() == nil {
				fn()
			}
		})
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				mu.Unlock()
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op == fsnotify.Chmod {
					continue
				}
				if match(filepath.Base(ev.Name)) {
					schedule()
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}
