package storage

import (
	"context"
	"fmt"

	"github.com/mind-engage/mindengage-quiz/internal/config"
	"github.com/mind-engage/mindengage-quiz/internal/db"
)

// Open builds the medium selected by cfg.KVDriver.
func Open(ctx context.Context, cfg config.Config) (KV, error) {
	switch cfg.KVDriver {
	case "", "fs":
		return NewFSStore(cfg.KVBasePath)
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, cfg.RedisAddr)
	case string(db.DriverSQLite), string(db.DriverPostgres):
		dbh, err := db.Open(ctx, db.Driver(cfg.KVDriver), cfg.KVDSN)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(dbh), nil
	default:
		return nil, fmt.Errorf("unsupported kv driver: %s", cfg.KVDriver)
	}
}
