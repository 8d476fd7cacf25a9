package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/SHAH-MEER/tbatlas/core"
	"github.com/SHAH-MEER/tbatlas/snapshot"
	"github.com/SHAH-MEER/tbatlas/telemetry"
)

// StoreStats describes the state of the memoized store.
type StoreStats struct {
	Path        string    `json:"path"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Rows        int       `json:"rows"`
	Source      string    `json:"source,omitempty"`
	LoadedAt    time.Time `json:"loaded_at,omitempty"`
	Loads       int       `json:"loads"`
	Watching    bool      `json:"watching"`
	Load        LoadStats `json:"load_stats"`
}

// Store memoizes the parsed dataset behind a file fingerprint. Every view
// request goes through Get; the CSV is only re-parsed when the file changes
// or the cache is explicitly invalidated. An optional snapshot store lets a
// restart skip the parse entirely when the file is unchanged.
type Store struct {
	path   string
	loader *Loader
	snaps  snapshot.Store
	logger *zap.Logger

	mu          sync.RWMutex
	current     *core.Dataset
	catalog     Catalog
	loadStats   LoadStats
	fingerprint string
	source      string
	loadedAt    time.Time
	loads       int
	watching    bool
}

// NewStore creates a store for the burden file at path. The snapshot store
// may be nil, in which case every cold start parses the CSV.
func NewStore(path string, loader *Loader, snaps snapshot.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loader == nil {
		loader = NewLoader(logger)
	}
	return &Store{path: path, loader: loader, snaps: snaps, logger: logger}
}

// Get returns the current dataset and catalog, parsing or restoring it
// first if the memoized copy is stale. Concurrent callers share one load.
func (s *Store) Get(ctx context.Context) (*core.Dataset, Catalog, error) {
	fp, err := fingerprintFile(s.path)
	if err != nil {
		telemetry.DatasetLoads.WithLabelValues("csv", "error").Inc()
		return nil, Catalog{}, fmt.Errorf("stat dataset: %w", err)
	}

	s.mu.RLock()
	if s.current != nil && s.fingerprint == fp {
		ds, cat := s.current, s.catalog
		s.mu.RUnlock()
		return ds, cat, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.fingerprint == fp {
		return s.current, s.catalog, nil
	}

	ds, stats, source, err := s.load(ctx, fp)
	if err != nil {
		return nil, Catalog{}, err
	}

	s.current = ds
	s.catalog = BuildCatalog(ds)
	s.loadStats = stats
	s.fingerprint = fp
	s.source = source
	s.loadedAt = time.Now()
	s.loads++
	telemetry.DatasetRows.Set(float64(ds.Len()))
	return s.current, s.catalog, nil
}

// load tries the snapshot store first, then falls back to parsing the CSV.
func (s *Store) load(ctx context.Context, fp string) (*core.Dataset, LoadStats, string, error) {
	if s.snaps != nil {
		ds, err := s.snaps.Load(ctx, fp)
		if err == nil {
			telemetry.DatasetLoads.WithLabelValues("snapshot", "ok").Inc()
			s.logger.Info("dataset restored from snapshot",
				zap.String("fingerprint", fp), zap.Int("rows", ds.Len()))
			return ds, LoadStats{Rows: ds.Len()}, "snapshot", nil
		}
		if !errors.Is(err, snapshot.ErrNotFound) {
			s.logger.Warn("snapshot load failed", zap.Error(err))
		}
	}

	ds, stats, err := s.loader.Load(s.path)
	if err != nil {
		telemetry.DatasetLoads.WithLabelValues("csv", "error").Inc()
		return nil, stats, "", err
	}
	telemetry.DatasetLoads.WithLabelValues("csv", "ok").Inc()

	if s.snaps != nil {
		if err := s.snaps.Save(ctx, fp, ds); err != nil {
			s.logger.Warn("snapshot save failed", zap.Error(err))
		}
	}
	return ds, stats, "csv", nil
}

// Invalidate drops the memoized dataset. The next Get re-parses.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.fingerprint = ""
}

// Watch invalidates the cache whenever the dataset file changes on disk.
// It blocks until ctx is cancelled, so run it in its own goroutine.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors and atomic
	// replacers swap the inode out from under a file watch.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	s.mu.Lock()
	s.watching = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.watching = false
		s.mu.Unlock()
	}()

	target := filepath.Clean(s.path)
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
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			s.logger.Info("dataset file changed, invalidating cache",
				zap.String("path", event.Name), zap.String("op", event.Op.String()))
			s.Invalidate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// Stats reports the store's current state.
func (s *Store) Stats() StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreStats{
		Path:        s.path,
		Fingerprint: s.fingerprint,
		Rows:        s.current.Len(),
		Source:      s.source,
		LoadedAt:    s.loadedAt,
		Loads:       s.loads,
		Watching:    s.watching,
		Load:        s.loadStats,
	}
}

// fingerprintFile derives a cache key from the file's path, size and
// modification time. File contents are never hashed.
func fingerprintFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())))
	return hex.EncodeToString(h[:8]), nil
}
