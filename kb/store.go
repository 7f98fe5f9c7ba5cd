package kb

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is how long the watcher waits for more file changes before
// reloading.
const defaultDebounce = 500 * time.Millisecond

// Store holds the current Index and supports hot reload by whole-index
// replacement: a reload builds a fresh Index from the backing files and swaps
// it in atomically. Readers always see a fully-loaded, never-mutated index,
// so no locking is needed on the read path.
type Store struct {
	dir               string
	systemsGlob       string
	organizationsGlob string
	logger            *slog.Logger

	current atomic.Pointer[Index]
}

// Open loads the knowledge base from dir and returns a store serving it.
// Empty globs default to DefaultSystemsGlob and DefaultOrganizationsGlob.
// The initial load failing is fatal: the error is a *LoadError.
func Open(dir, systemsGlob, organizationsGlob string, logger *slog.Logger) (*Store, error) {
	if systemsGlob == "" {
		systemsGlob = DefaultSystemsGlob
	}
	if organizationsGlob == "" {
		organizationsGlob = DefaultOrganizationsGlob
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		dir:               dir,
		systemsGlob:       systemsGlob,
		organizationsGlob: organizationsGlob,
		logger:            logger,
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Index returns the current index snapshot. Callers hold the snapshot for the
// duration of one request; a concurrent reload does not disturb it.
func (s *Store) Index() *Index {
	return s.current.Load()
}

// Reload rebuilds the index from the backing files and swaps it in. On
// failure the previous index stays in service.
func (s *Store) Reload() error {
	ix, err := Load(s.dir, s.systemsGlob, s.organizationsGlob)
	if err != nil {
		return err
	}
	s.current.Store(ix)

	systems, organizations := ix.Size()
	s.logger.Info("knowledge base loaded",
		slog.String("dir", s.dir),
		slog.Int("systems", systems),
		slog.Int("organizations", organizations))
	return nil
}

// Watch reloads the knowledge base when files under its directory change.
// Changes are debounced so a burst of writes triggers one reload. Watch
// blocks until ctx is cancelled; run it in its own goroutine. A debounce of
// zero uses the default.
func (s *Store) Watch(ctx context.Context, debounce time.Duration) error {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return err
	}
	s.logger.Info("watching knowledge base", slog.String("dir", s.dir))

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
			if !event.Op.Has(fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			if filepath.Ext(event.Name) != ".jsonld" {
				continue
			}
			// Collect further changes before reloading.
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			if err := s.Reload(); err != nil {
				s.logger.Warn("knowledge base reload failed, keeping previous index",
					slog.String("error", err.Error()))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("knowledge base watch error", slog.String("error", err.Error()))
		}
	}
}
