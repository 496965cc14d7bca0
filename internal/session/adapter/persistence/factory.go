package persistence

import (
	"context"
	"fmt"

	"careerhub-client/internal/config"
	"careerhub-client/internal/session/domain/repository"
	apperrors "careerhub-client/internal/shared/errors"
)

// NewSessionStore builds the backend selected by cfg.Backend.
func NewSessionStore(ctx context.Context, cfg config.SessionConfig) (repository.SessionStore, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendFile:
		return NewFileStore(cfg.FilePath)
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case config.BackendRedis:
		client := config.NewRedisClient(cfg)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("ping redis at %s: %w", cfg.RedisAddr, err)
		}
		return NewRedisStore(client, cfg.RedisKey), nil
	case config.BackendMongoDB:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownBackend, cfg.Backend)
	}
}
