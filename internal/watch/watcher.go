// Package watch triggers a callback when the durable record is replaced on
// disk, so a running display picks up changes made by other invocations.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"briefing/internal/config"
	"briefing/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is used when Options.Debounce is not positive.
const DefaultDebounce = 250 * time.Millisecond

// Options configure a Watcher.
type Options struct {
	// Path is the durable record to watch. Its directory must exist.
	Path string
	// Debounce collapses bursts of events into one callback.
	Debounce time.Duration
}

// NewOptions constructs an Options value from the application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Path:     cfg.Store.Path,
		Debounce: cfg.Watch.Debounce,
	}
}

// OnChange is called after the record changed and the debounce interval
// passed without further events. Errors are logged; watching continues.
type OnChange func(ctx context.Context) error

// Watcher watches the directory holding the record, because atomic saves
// replace the file and a watch on the file itself would be lost.
type Watcher struct {
	fs       *fsnotify.Watcher
	dir      string
	target   string
	debounce time.Duration
	onChange OnChange
}

// New creates a Watcher. Call Run to start delivering callbacks.
func New(opts Options, onChange OnChange) (*Watcher, error) {
	if onChange == nil {
		return nil, errors.New("watch callback must not be nil")
	}

	target, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s: %w", opts.Path, err)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create fs watcher: %w", err)
	}
	dir := filepath.Dir(target)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()

		return nil, fmt.Errorf("could not watch %s: %w", dir, err)
	}

	return &Watcher{
		fs:       fw,
		dir:      dir,
		target:   target,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Run delivers callbacks until ctx is cancelled, then releases the
// underlying watch. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		if err := w.fs.Close(); err != nil {
			logger.Warn(ctx, "could not close fs watcher", zap.Error(err))
		}
	}()

	ctx = logger.WithFields(ctx, zap.String("record", w.target))
	logger.Info(ctx, "watching record", zap.Duration("debounce", w.debounce))

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "record watcher stopped")

			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return errors.New("fs watcher event channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug(ctx, "record event", zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return errors.New("fs watcher error channel closed")
			}
			logger.Warn(ctx, "fs watcher error", zap.Error(err))

		case <-timer.C:
			if err := w.onChange(ctx); err != nil {
				logger.Error(ctx, "record change handler failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	return name == w.target
}
