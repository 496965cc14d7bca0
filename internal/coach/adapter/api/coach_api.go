package api

import (
	"context"
	"net/http"

	"careerhub-client/internal/coach/domain/model"
	"careerhub-client/internal/coach/domain/repository"
	"careerhub-client/internal/gateway"
)

type chatRequest struct {
	Message string `json:"message"`
}

type planResponse struct {
	Plan model.LearningPlan `json:"plan"`
}

// CoachAPI implements repository.CoachRepository over the gateway.
type CoachAPI struct {
	api gateway.API
}

func NewCoachAPI(api gateway.API) repository.CoachRepository {
	return &CoachAPI{api: api}
}

func (r *CoachAPI) Chat(ctx context.Context, message string) (*model.Reply, error) {
	var reply model.Reply
	req := gateway.Request{Method: http.MethodPost, Path: "/coach/chat", Body: chatRequest{Message: message}, Authenticated: true}
	if err := r.api.Do(ctx, req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func (r *CoachAPI) Plan(ctx context.Context) (*model.LearningPlan, error) {
	var resp planResponse
	if err := r.api.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/coach/plan", Authenticated: true}, &resp); err != nil {
		return nil, err
	}
	return &resp.Plan, nil
}
