package config

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates the client used by the redis session backend.
// Timeouts are short because every session call is on the user's critical path.
func NewRedisClient(cfg SessionConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,

		MaxRetries:   2,
		PoolSize:     4,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolTimeout:  3 * time.Second,

		ConnMaxIdleTime: 5 * time.Minute,
	})
}
