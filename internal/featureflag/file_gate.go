package featureflag

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	apperrors "github.com/allisson/catalog/internal/errors"
)

const reloadDebounce = 100 * time.Millisecond

// FileGate answers flags from a YAML, JSON or TOML file such as
//
//	EnableRedisCaching: true
//	EnableKafkaPublishing: false
//
// Watch reloads the file when it changes. A file that fails to parse keeps the last
// good flags in place.
type FileGate struct {
	path     string
	defaults map[string]bool
	logger   *slog.Logger

	mu    sync.RWMutex
	flags map[string]bool
}

// NewFileGate loads path once and returns the gate.
func NewFileGate(path string, defaults map[string]bool, logger *slog.Logger) (*FileGate, error) {
	g := &FileGate{
		path:     filepath.Clean(path),
		defaults: defaults,
		logger:   logger,
	}
	if err := g.reload(); err != nil {
		return nil, err
	}
	return g, nil
}

// IsEnabled reports whether flag is enabled. Keys are matched case-insensitively.
func (g *FileGate) IsEnabled(ctx context.Context, flag string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if enabled, ok := g.flags[strings.ToLower(flag)]; ok {
		return enabled
	}
	return g.defaults[flag]
}

func (g *FileGate) reload() error {
	v := viper.New()
	v.SetConfigFile(g.path)
	if err := v.ReadInConfig(); err != nil {
		return apperrors.Wrapf(err, "failed to read feature flags file %s", g.path)
	}

	flags := make(map[string]bool, len(v.AllKeys()))
	for _, key := range v.AllKeys() {
		flags[key] = v.GetBool(key)
	}

	g.mu.Lock()
	g.flags = flags
	g.mu.Unlock()
	return nil
}

// Watch reloads the flags file on change until ctx is done.
func (g *FileGate) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return apperrors.Wrap(err, "failed to create feature flags watcher")
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Editors replace files by rename, so the directory is watched instead of the file.
	if err := watcher.Add(filepath.Dir(g.path)); err != nil {
		return apperrors.Wrap(err, "failed to watch feature flags directory")
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.logger.Warn("feature flags watcher error", slog.Any("error", err))
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != g.path {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(reloadDebounce)
		case <-timerC(timer):
			timer = nil
			if err := g.reload(); err != nil {
				g.logger.Warn("feature flags reload failed, keeping previous flags", slog.Any("error", err))
				continue
			}
			g.logger.Info("feature flags reloaded", slog.String("path", g.path))
		}
	}
}

func timerC(timer *time.Timer) <-chan time.Time {
	if timer == nil {
		return nil
	}
	return timer.C
}
