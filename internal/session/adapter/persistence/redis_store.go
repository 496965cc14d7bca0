package persistence

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"careerhub-client/internal/session/domain/model"
	apperrors "careerhub-client/internal/shared/errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the session in one Redis hash. Save rewrites the hash inside
// MULTI/EXEC so readers never see a mix of old and new fields.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Save(ctx context.Context, session *model.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	savedAt := session.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now().UTC()
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		pipe.HSet(ctx, s.key,
			"token", session.Token,
			"user_id", session.UserID,
			"display_name", session.DisplayName,
			"saved_at", savedAt.UnixMilli(),
		)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Current(ctx context.Context) (*model.Session, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("read session from redis: %w", err)
	}
	if fields["token"] == "" {
		return nil, apperrors.ErrNoSession
	}

	userID, err := strconv.ParseInt(fields["user_id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode session user_id: %w", err)
	}
	savedAt, _ := strconv.ParseInt(fields["saved_at"], 10, 64)

	return &model.Session{
		Token:       fields["token"],
		UserID:      userID,
		DisplayName: fields["display_name"],
		SavedAt:     time.UnixMilli(savedAt).UTC(),
	}, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clear session in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) IsActive(ctx context.Context) bool {
	n, err := s.client.HExists(ctx, s.key, "token").Result()
	return err == nil && n
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
