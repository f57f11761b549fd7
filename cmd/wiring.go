package cmd

import (
	"fmt"

	"github.com/pable/go-br-leaderboard/internal/sessions"
	"github.com/pable/go-br-leaderboard/internal/storage"
	"github.com/pable/go-br-leaderboard/internal/yunite"
)

func newYuniteClient() (*yunite.Client, error) {
	if err := cfg.RequireYunite(); err != nil {
		return nil, err
	}
	return yunite.NewClient(cfg.YuniteAPIKey, cfg.YuniteBaseURL, cfg.GuildID, cfg.RequestTimeout), nil
}

// newSessionCache returns the shared Redis cache when REDIS_URL is set and a
// process-local cache otherwise. The returned func releases it.
func newSessionCache() (sessions.Cache, func(), error) {
	if cfg.RedisURL == "" {
		return sessions.NewMemoryCache(), func() {}, nil
	}
	c, err := sessions.NewRedisCacheFromURL(cfg.RedisURL, 0)
	if err != nil {
		return nil, nil, err
	}
	return c, func() { c.Close() }, nil
}

func openStore() (*storage.DB, error) {
	if err := ensureDBDir(); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
