// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// configDebounce coalesces the burst of events editors emit on save.
const configDebounce = 250 * time.Millisecond

// WatchConfig reloads the config file at path whenever it changes and passes
// the result to onChange. Invalid files are reported to onError and the
// previous config stays in effect. A removed file is reported the same way
// rather than reverting to defaults; an editor that replaces the file on save
// recreates it within the debounce window. The watcher stops when ctx is done.
//
// The parent directory is watched rather than the file so that editors which
// replace the file on save keep triggering reloads.
func WatchConfig(ctx context.Context, path string, onChange func(Config), onError func(error)) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	if onError == nil {
		onError = func(error) {}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	target := filepath.Clean(path)

	go func() {
		defer func() { _ = watcher.Close() }()

		var debounce *time.Timer
		reload := func() {
			if _, err := os.Stat(target); errors.Is(err, fs.ErrNotExist) {
				onError(fmt.Errorf("config file %s removed", target))
				return
			}
			cfg, err := LoadConfigFromPath(target)
			if err != nil {
				onError(err)
				return
			}
			onChange(cfg)
		}

		for {
			select {
			case <-ctx.Done():
				if debounce != nil {
					debounce.Stop()
				}
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(configDebounce, reload)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				onError(fmt.Errorf("config watcher: %w", err))
			}
		}
	}()

	return nil
}
