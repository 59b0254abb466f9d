package db

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/balkashynov/daybook/internal/config"
)

// Open returns the medium selected by configuration
func Open(ctx context.Context, cfg config.Config) (Medium, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		return OpenSQLite(filepath.Join(cfg.Storage.DataDir, DatabaseFile))
	case "files":
		return OpenFiles(filepath.Join(cfg.Storage.DataDir, "slots"))
	case "redis":
		return OpenRedis(ctx, RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Storage.Backend)
	}
}
