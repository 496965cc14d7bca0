package model

import (
	"strconv"
	"strings"
	"time"

	apperrors "careerhub-client/internal/shared/errors"
)

// Session is the client's proof of login. The token is opaque; the client never
// inspects it and tracks no expiry of its own.
type Session struct {
	Token       string    `json:"token" bson:"token"`
	UserID      int64     `json:"user_id" bson:"user_id"`
	DisplayName string    `json:"display_name" bson:"display_name"`
	SavedAt     time.Time `json:"saved_at" bson:"saved_at"`
}

// Validate rejects sessions that must never be persisted.
func (s *Session) Validate() error {
	if s == nil {
		return apperrors.NewValidationError("session cannot be nil")
	}
	if strings.TrimSpace(s.Token) == "" {
		return apperrors.NewValidationError("session token cannot be empty")
	}
	return nil
}

// UserIDString formats the user id for context values and request bodies.
func (s *Session) UserIDString() string {
	return strconv.FormatInt(s.UserID, 10)
}

// Clone returns a copy callers may mutate freely.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
