package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"mealplan-generator/internal/infrastructure/config"
	"mealplan-generator/internal/pkg/common"

	"go.uber.org/zap"
)

// Store caches generated illustration references so a regenerated plan does
// not re-spend image capacity on meals the user has already seen. A miss is
// reported as an error so callers can fall through to generation.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// NewStore picks the backing store from configuration: redis when an
// address is configured, the in-memory store otherwise. A disabled cache
// yields nil; callers treat a nil store as "always miss".
func NewStore(cfg *config.Config) Store {
	if !cfg.Cache.Enabled {
		common.LogInfo("illustration cache disabled")
		return nil
	}

	if cfg.Cache.RedisAddr != "" {
		store, err := NewRedisStore(cfg)
		if err != nil {
			common.LogWarn("redis unavailable, falling back to in-memory cache",
				zap.Error(err),
				zap.String("addr", cfg.Cache.RedisAddr),
			)
			return NewMemoryStore(cfg)
		}
		return store
	}

	return NewMemoryStore(cfg)
}

// Key derives a stable cache key from its parts.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "illustration:" + hex.EncodeToString(hash[:])
}
