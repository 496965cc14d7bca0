package api

import (
	"context"
	"net/http"

	"careerhub-client/internal/gateway"
	"careerhub-client/internal/resource/domain/model"
	"careerhub-client/internal/resource/domain/repository"
)

type searchRequest struct {
	Query string `json:"query"`
}

type resourcesResponse struct {
	Resources []model.Resource `json:"resources"`
}

// ResourceAPI implements repository.ResourceRepository over the gateway.
// Neither endpoint needs a session.
type ResourceAPI struct {
	api gateway.API
}

func NewResourceAPI(api gateway.API) repository.ResourceRepository {
	return &ResourceAPI{api: api}
}

func (r *ResourceAPI) Search(ctx context.Context, query string) ([]model.Resource, error) {
	var resp resourcesResponse
	req := gateway.Request{Method: http.MethodPost, Path: "/resources/search", Body: searchRequest{Query: query}}
	if err := r.api.Do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Resources), nil
}

func (r *ResourceAPI) All(ctx context.Context) ([]model.Resource, error) {
	var resp resourcesResponse
	if err := r.api.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/resources/all"}, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp.Resources), nil
}

func nonNil(list []model.Resource) []model.Resource {
	if list == nil {
		return []model.Resource{}
	}
	return list
}
