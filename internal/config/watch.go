package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long Watch waits after the last file event before
// reloading.
const DefaultDebounce = 500 * time.Millisecond

// ErrNoConfigFile is returned by Watch when there is no file to watch.
var ErrNoConfigFile = errors.New("no config file to watch")

type watchOptions struct {
	logger   *zap.Logger
	debounce time.Duration
}

// WatchOption configures Watch.
type WatchOption func(*watchOptions)

// WithWatchLogger sets the logger for reload events.
func WithWatchLogger(l *zap.Logger) WatchOption {
	return func(o *watchOptions) { o.logger = l }
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) { o.debounce = d }
}

// Watch reloads the configuration file at path whenever it changes and
// hands the result to onChange. A reload that fails to parse or validate is
// logged and skipped; onChange only sees valid configurations. Bursts of
// events are coalesced. Watch blocks until ctx is cancelled.
//
// The parent directory is watched rather than the file so that editors
// which replace the file on save keep triggering reloads.
func Watch(ctx context.Context, path string, onChange func(*Config), opts ...WatchOption) error {
	if path == "" {
		return ErrNoConfigFile
	}
	o := watchOptions{logger: zap.NewNop(), debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(&o)
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	timer := time.NewTimer(o.debounce)
	timer.Stop()
	defer timer.Stop()

	o.logger.Info("watching config", zap.String("path", target))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(o.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.logger.Warn("config watch error", zap.Error(err))

		case <-timer.C:
			cfg, err := LoadFile(target)
			if err != nil {
				o.logger.Warn("config reload failed", zap.String("path", target), zap.Error(err))
				continue
			}
			o.logger.Info("config reloaded", zap.String("path", target))
			onChange(cfg)
		}
	}
}
