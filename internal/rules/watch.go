package rules

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 500 * time.Millisecond

// Watch reloads the store whenever a rule-set document in one of dirs
// changes. Reloads swap in a fresh copy-on-write population, so scans
// holding an older snapshot keep running against it. Blocks until ctx
// is done.
func Watch(ctx context.Context, store *Store, dirs []string, onReload func(warnings []string, err error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create rules watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := 0
	for _, dir := range uniquePaths(dirs) {
		if err := watcher.Add(dir); err != nil {
			continue
		}
		watched++
	}
	if watched == 0 {
		return fmt.Errorf("no watchable rules directories")
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isRuleDocument(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// Editors fire bursts of events per save; coalesce them.
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				timerC = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			warnings, reloadErr := store.Load(dirs)
			if onReload != nil {
				onReload(warnings, reloadErr)
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onReload != nil {
				onReload(nil, watchErr)
			}
		}
	}
}

func isRuleDocument(path string) bool {
	return strings.HasSuffix(path, ".rules.yaml") || strings.HasSuffix(path, ".rules.yml")
}
