// Package localstate persists the client's per-profile state: the auth token,
// the cached user object and the non-authoritative per-chapter counters. It is
// the localStorage of this client, modeled as a flat string key-value store
// with interchangeable backends.
package localstate

import (
	"context"
	"fmt"
	"path/filepath"
)

// Store is a flat key-value store. Implementations are safe for concurrent
// use within one process; cross-process writers race with last-write-wins
// semantics, which the counters explicitly tolerate.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and parameterizes a backend.
type Config struct {
	Backend       string
	DataDir       string
	RedisAddr     string
	RedisPassword string
}

// Open builds the configured backend. The file and sqlite backends live under
// DataDir; redis suits shared-terminal deployments where state follows the
// account rather than the machine.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(filepath.Join(cfg.DataDir, "state.json"))
	case "sqlite":
		return NewSQLiteStore(filepath.Join(cfg.DataDir, "state.db"))
	case "redis":
		return NewRedisStore(cfg.RedisAddr, cfg.RedisPassword), nil
	default:
		return nil, fmt.Errorf("localstate: unknown backend %q", cfg.Backend)
	}
}
