// Package snapshot caches parsed datasets across restarts. The store is
// keyed by a fingerprint of the source file, so a restart against an
// unchanged CSV restores the dataset without re-parsing it, and any change
// to the file naturally misses the cache.
package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/SHAH-MEER/tbatlas/core"
)

// ErrNotFound is returned when no snapshot exists under the requested key.
var ErrNotFound = errors.New("snapshot not found")

// Type selects the snapshot backend.
type Type string

const (
	TypeMemory Type = "memory"
	TypeBolt   Type = "bolt"
	TypeBadger Type = "badger"
)

// Config holds snapshot store configuration.
type Config struct {
	Type Type   `json:"type" yaml:"type"`
	Path string `json:"path" yaml:"path"`
}

// Store persists parsed datasets keyed by source fingerprint.
type Store interface {
	Save(ctx context.Context, key string, ds *core.Dataset) error
	Load(ctx context.Context, key string) (*core.Dataset, error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// ValidateConfig checks that the configuration names a usable backend.
func ValidateConfig(cfg Config) error {
	switch cfg.Type {
	case TypeMemory:
	case TypeBolt, TypeBadger:
		if cfg.Path == "" {
			return fmt.Errorf("snapshot type %s requires a path", cfg.Type)
		}
	default:
		return fmt.Errorf("unsupported snapshot type: %s", cfg.Type)
	}
	return nil
}

// New creates the store described by cfg.
func New(cfg Config) (Store, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid snapshot configuration: %w", err)
	}

	switch cfg.Type {
	case TypeMemory:
		return NewMemoryStore(), nil
	case TypeBolt:
		return NewBoltStore(cfg.Path)
	case TypeBadger:
		return NewBadgerStore(cfg.Path)
	}
	return nil, fmt.Errorf("unsupported snapshot type: %s", cfg.Type)
}
