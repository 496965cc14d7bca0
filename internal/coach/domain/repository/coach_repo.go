package repository

import (
	"context"

	"careerhub-client/internal/coach/domain/model"
)

// CoachRepository talks to the remote career coach.
type CoachRepository interface {
	Chat(ctx context.Context, message string) (*model.Reply, error)
	Plan(ctx context.Context) (*model.LearningPlan, error)
}
