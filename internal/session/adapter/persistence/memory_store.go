package persistence

import (
	"context"
	"sync"
	"time"

	"careerhub-client/internal/session/domain/model"
	apperrors "careerhub-client/internal/shared/errors"
)

// MemoryStore keeps the session in process memory. It is used by tests and by
// one-shot invocations that must not touch disk.
type MemoryStore struct {
	mu      sync.RWMutex
	session *model.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(ctx context.Context, session *model.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	c := session.Clone()
	if c.SavedAt.IsZero() {
		c.SavedAt = time.Now().UTC()
	}
	s.mu.Lock()
	s.session = c
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Current(ctx context.Context) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, apperrors.ErrNoSession
	}
	return s.session.Clone(), nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) IsActive(ctx context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil
}

func (s *MemoryStore) Close() error { return nil }
