package api

import (
	"context"
	"net/http"

	"careerhub-client/internal/gateway"
	"careerhub-client/internal/opportunity/domain/model"
	"careerhub-client/internal/opportunity/domain/repository"
)

type listResponse struct {
	Opportunities []model.Opportunity `json:"opportunities"`
}

type statsResponse struct {
	Stats model.Stats `json:"stats"`
}

type userStatsResponse struct {
	Stats struct {
		SavedOpportunities int `json:"saved_opportunities"`
	} `json:"stats"`
}

// OpportunityAPI implements repository.OpportunityRepository over the gateway.
type OpportunityAPI struct {
	api gateway.API
}

// NewOpportunityAPI creates a repository backed by the remote API.
func NewOpportunityAPI(api gateway.API) repository.OpportunityRepository {
	return &OpportunityAPI{api: api}
}

func (r *OpportunityAPI) list(ctx context.Context, path string, authenticated bool) ([]model.Opportunity, error) {
	var resp listResponse
	req := gateway.Request{Method: http.MethodGet, Path: path, Authenticated: authenticated}
	if err := r.api.Do(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.Opportunities == nil {
		return []model.Opportunity{}, nil
	}
	return resp.Opportunities, nil
}

func (r *OpportunityAPI) All(ctx context.Context) ([]model.Opportunity, error) {
	return r.list(ctx, "/opportunities/all", false)
}

func (r *OpportunityAPI) Saved(ctx context.Context) ([]model.Opportunity, error) {
	return r.list(ctx, "/opportunities/saved", true)
}

func (r *OpportunityAPI) Save(ctx context.Context, id int64) error {
	req := gateway.Request{Method: http.MethodPost, Path: gateway.PathEscape("/opportunities/save/%d", id), Authenticated: true}
	return r.api.Do(ctx, req, nil)
}

func (r *OpportunityAPI) Unsave(ctx context.Context, id int64) error {
	req := gateway.Request{Method: http.MethodDelete, Path: gateway.PathEscape("/opportunities/unsave/%d", id), Authenticated: true}
	return r.api.Do(ctx, req, nil)
}

func (r *OpportunityAPI) Stats(ctx context.Context) (*model.Stats, error) {
	var resp statsResponse
	if err := r.api.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/opportunities/stats"}, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}

func (r *OpportunityAPI) SavedCount(ctx context.Context) (int, error) {
	var resp userStatsResponse
	req := gateway.Request{Method: http.MethodGet, Path: "/user/stats", Authenticated: true}
	if err := r.api.Do(ctx, req, &resp); err != nil {
		return 0, err
	}
	return resp.Stats.SavedOpportunities, nil
}
