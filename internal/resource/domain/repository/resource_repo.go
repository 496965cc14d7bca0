package repository

import (
	"context"

	"careerhub-client/internal/resource/domain/model"
)

// ResourceRepository is the remote learning resource catalog.
type ResourceRepository interface {
	Search(ctx context.Context, query string) ([]model.Resource, error)
	All(ctx context.Context) ([]model.Resource, error)
}
