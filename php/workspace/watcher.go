package workspace

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"
	"time"
)

const DefaultPollInterval = time.Second

// Change describes what a watcher scan did to one file.
type Change struct {
	Path    string
	Removed bool
	File    *File
	Err     error
}

// Watcher polls the workspace root and reparses files whose modification
// time moved forward. Files that disappear are removed from the workspace.
type Watcher struct {
	ws       *Workspace
	interval time.Duration
	onChange func(Change)

	stopCh   chan struct{}
	stopOnce sync.Once
	modTimes map[string]time.Time
}

func NewWatcher(ws *Workspace, interval time.Duration, onChange func(Change)) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if onChange == nil {
		onChange = func(Change) {}
	}
	return &Watcher{
		ws:       ws,
		interval: interval,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		modTimes: make(map[string]time.Time),
	}
}

func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
}

func (w *Watcher) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Scan(ctx)

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Scan(ctx)
		}
	}
}

// Scan runs one polling pass. It is not safe to call concurrently with a
// running watcher.
func (w *Watcher) Scan(ctx context.Context) {
	current := make(map[string]bool)

	filepath.WalkDir(w.ws.Root(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if w.ws.skipDir(path, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.ws.IsSource(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}

		current[path] = true

		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			err := w.ws.ScanFile(ctx, path)
			// A failed scan is retried on the next poll.
			if err == nil {
				w.modTimes[path] = info.ModTime()
			}
			w.onChange(Change{Path: path, File: w.ws.File(path), Err: err})
		}
		return nil
	})

	for path := range w.modTimes {
		if !current[path] {
			delete(w.modTimes, path)
			w.ws.RemoveFile(path)
			log.Debugf("removed %s", path)
			w.onChange(Change{Path: path, Removed: true})
		}
	}
}
