package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ykvlv/forecast-bot/internal/config"
	"github.com/ykvlv/forecast-bot/internal/domain"
)

// Store persists per-user preferences. It never merges: Set replaces the whole
// record, so partial updates are read-modify-write by the caller.
type Store interface {
	// Get returns the user's preferences, or the zero value if the user is unknown.
	Get(ctx context.Context, userID int64) (domain.Preferences, error)
	// Set overwrites the user's preferences entirely.
	Set(ctx context.Context, userID int64, p domain.Preferences) error
	// List returns every stored user.
	List(ctx context.Context) (map[int64]domain.Preferences, error)
	Close() error
}

// Open creates the backend selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (Store, error) {
	switch cfg.StoreDriver {
	case "", "json":
		return OpenJSON(cfg.UsersFile, log)
	case "sqlite":
		return OpenSQLite(ctx, cfg.DBPath)
	case "redis":
		return OpenRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
		})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
