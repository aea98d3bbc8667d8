package app

import (
	"fmt"
	"time"

	"ticket-store/internal/cache"
	"ticket-store/internal/config"
	"ticket-store/internal/logger"
	"ticket-store/internal/redis"
)

type Infra struct {
	Cache   cache.Cache
	cleanup func() error
}

func setupInfra(cfg config.Config) (*Infra, error) {
	switch cfg.Backend {

	case "redis":
		client, err := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("redis backend: %w", err)
		}

		logger.Info("redis backend ready", map[string]any{
			"addr": cfg.RedisAddr,
		})

		return &Infra{
			Cache:   cache.NewRedis(client.Client),
			cleanup: client.Close,
		}, nil

	case "bolt":
		store, err := cache.OpenBolt(cfg.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("bolt backend: %w", err)
		}

		logger.Info("bolt backend ready", map[string]any{
			"path": cfg.BoltPath,
		})

		return &Infra{
			Cache:   store,
			cleanup: store.Close,
		}, nil

	case "memory", "":
		store := cache.NewMemory(1 * time.Minute)

		logger.Info("memory backend ready", nil)

		return &Infra{
			Cache:   store,
			cleanup: store.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown ticket backend %q", cfg.Backend)
	}
}
