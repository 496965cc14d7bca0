package repository

import (
	"context"

	"careerhub-client/internal/session/domain/model"
)

// SessionStore persists the single active session of this client.
//
// Save and Clear are atomic: a reader never observes a token without its
// user id, or a half-cleared session. Current returns errors.ErrNoSession
// when nothing is stored.
type SessionStore interface {
	Save(ctx context.Context, session *model.Session) error
	Current(ctx context.Context) (*model.Session, error)
	Clear(ctx context.Context) error
	IsActive(ctx context.Context) bool
	Close() error
}
