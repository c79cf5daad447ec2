// Package watcher turns a drop folder into a file chooser: audio files
// created in the folder are handed to a callback, newest last.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/chaz8081/voicesum/internal/holder"
)

// Handler is called for each new audio file.
type Handler func(ctx context.Context, path string) error

// Watcher monitors one directory for new audio files.
type Watcher struct {
	dir     string
	handler Handler
	log     *slog.Logger
	watcher *fsnotify.Watcher

	// Settle is how long to wait after a file appears before handing it
	// off, so writers can finish.
	Settle time.Duration
}

// New creates a watcher on dir. Call Close() when done.
func New(dir string, handler Handler, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: create: %w", err)
	}

	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watcher: add %s: %w", dir, err)
	}

	return &Watcher{
		dir:     dir,
		handler: handler,
		log:     log,
		watcher: fw,
		Settle:  500 * time.Millisecond,
	}, nil
}

// Run dispatches new audio files until ctx is cancelled or the watcher
// is closed.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info("watching drop folder", "dir", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !holder.IsAudioFile(event.Name) {
				w.log.Debug("ignoring non-audio file", "path", event.Name)
				continue
			}

			w.log.Info("new audio file", "path", event.Name)

			select {
			case <-time.After(w.Settle):
			case <-ctx.Done():
				return ctx.Err()
			}

			if err := w.handler(ctx, event.Name); err != nil {
				w.log.Error("handling audio file failed", "path", event.Name, "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error", "error", err)
		}
	}
}

// Close stops the underlying file watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
