package usecase

import (
	"context"
	"net/http"

	"careerhub-client/internal/career/domain/model"
	"careerhub-client/internal/gateway"
	"careerhub-client/internal/session/domain/repository"
	apperrors "careerhub-client/internal/shared/errors"
	"careerhub-client/internal/shared/logger"
)

// RecommendFailedMessage is shown when the server gives no reason.
const RecommendFailedMessage = "Error getting recommendations: Unknown error"

type pathRequest struct {
	UserID int64 `json:"user_id"`
}

type pathResponse struct {
	CareerPaths []model.CareerPath `json:"career_paths"`
}

// CareerUsecase recommends career paths for the signed-in user.
type CareerUsecase struct {
	api      gateway.API
	sessions repository.SessionStore
	log      logger.Logger
}

func NewCareerUsecase(api gateway.API, sessions repository.SessionStore, log logger.Logger) *CareerUsecase {
	if log == nil {
		log = logger.NewNop()
	}
	return &CareerUsecase{api: api, sessions: sessions, log: log.WithComponent("career")}
}

// Recommend asks for career paths for the session's user, in server order.
func (uc *CareerUsecase) Recommend(ctx context.Context) ([]model.CareerPath, error) {
	session, err := uc.sessions.Current(ctx)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("").WithCause(apperrors.ErrNoSession).WithComponent("career")
	}

	var resp pathResponse
	req := gateway.Request{
		Method:        http.MethodPost,
		Path:          "/career/path",
		Body:          pathRequest{UserID: session.UserID},
		Authenticated: true,
	}
	if err := uc.api.Do(ctx, req, &resp); err != nil {
		return nil, err
	}
	uc.log.WithContext(ctx).Debugf("received %d career paths", len(resp.CareerPaths))
	if resp.CareerPaths == nil {
		return []model.CareerPath{}, nil
	}
	return resp.CareerPaths, nil
}
