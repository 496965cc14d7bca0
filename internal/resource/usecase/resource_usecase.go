package usecase

import (
	"context"
	"strings"

	"careerhub-client/internal/resource/domain/model"
	"careerhub-client/internal/resource/domain/repository"
	apperrors "careerhub-client/internal/shared/errors"
	"careerhub-client/internal/shared/logger"
)

// DefaultRecommendationQuery is searched when the profile has neither a
// career goal nor skills.
const DefaultRecommendationQuery = "programming software development"

// ResourceUsecaseInterface defines the learning resource use cases.
type ResourceUsecaseInterface interface {
	Search(ctx context.Context, query string) ([]model.Resource, error)
	Catalog(ctx context.Context, limit int) ([]model.Resource, error)
	Recommended(ctx context.Context, careerGoal string, skills []string, limit int) ([]model.Resource, error)
}

// ResourceUsecase implements ResourceUsecaseInterface
type ResourceUsecase struct {
	repo repository.ResourceRepository
	log  logger.Logger
}

func NewResourceUsecase(repo repository.ResourceRepository, log logger.Logger) *ResourceUsecase {
	if log == nil {
		log = logger.NewNop()
	}
	return &ResourceUsecase{repo: repo, log: log.WithComponent("resource")}
}

// Search returns the server's matches for query in the order it ranked them.
// A blank query is rejected without a request.
func (uc *ResourceUsecase) Search(ctx context.Context, query string) ([]model.Resource, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("Please enter a search query").WithComponent("resource")
	}
	results, err := uc.repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	uc.log.WithContext(ctx).Debugf("search %q returned %d resources", query, len(results))
	return results, nil
}

// Catalog returns the first limit resources of the full catalog.
func (uc *ResourceUsecase) Catalog(ctx context.Context, limit int) ([]model.Resource, error) {
	all, err := uc.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	return head(all, limit), nil
}

// Recommended searches for resources matching the user's goal and skills
// and keeps the first limit.
func (uc *ResourceUsecase) Recommended(ctx context.Context, careerGoal string, skills []string, limit int) ([]model.Resource, error) {
	results, err := uc.repo.Search(ctx, RecommendationQuery(careerGoal, skills))
	if err != nil {
		return nil, err
	}
	return head(results, limit), nil
}

// RecommendationQuery joins the career goal and skill names into a search
// query, falling back to DefaultRecommendationQuery.
func RecommendationQuery(careerGoal string, skills []string) string {
	parts := make([]string, 0, len(skills)+1)
	if goal := strings.TrimSpace(careerGoal); goal != "" {
		parts = append(parts, goal)
	}
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return DefaultRecommendationQuery
	}
	return strings.Join(parts, " ")
}

func head(list []model.Resource, n int) []model.Resource {
	if n <= 0 || n >= len(list) {
		return list
	}
	return list[:n]
}
