package repository

import (
	"context"

	"careerhub-client/internal/opportunity/domain/model"
)

// OpportunityRepository is the remote source of listings and saved state.
type OpportunityRepository interface {
	// All returns the full listing in server order.
	All(ctx context.Context) ([]model.Opportunity, error)
	// Saved returns the signed-in user's bookmarked opportunities.
	Saved(ctx context.Context) ([]model.Opportunity, error)
	Save(ctx context.Context, id int64) error
	Unsave(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*model.Stats, error)
	// SavedCount is the server's count of the user's bookmarks.
	SavedCount(ctx context.Context) (int, error)
}
