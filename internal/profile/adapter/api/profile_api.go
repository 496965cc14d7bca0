package api

import (
	"context"
	"io"
	"net/http"

	"careerhub-client/internal/gateway"
	"careerhub-client/internal/profile/domain/model"
	"careerhub-client/internal/profile/domain/repository"
)

const resumeField = "file"

type profileResponse struct {
	Profile *model.Profile `json:"profile"`
}

type uploadResponse struct {
	ResumeURL string `json:"resume_url"`
}

type skillsResponse struct {
	Skills []model.Skill `json:"skills"`
}

type statsResponse struct {
	Stats model.UserStats `json:"stats"`
}

// ProfileAPI implements repository.ProfileRepository over the gateway.
type ProfileAPI struct {
	api gateway.API
}

func NewProfileAPI(api gateway.API) repository.ProfileRepository {
	return &ProfileAPI{api: api}
}

func (r *ProfileAPI) profile(ctx context.Context, req gateway.Request) (*model.Profile, error) {
	var resp profileResponse
	if err := r.api.Do(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.Profile == nil {
		return &model.Profile{}, nil
	}
	return resp.Profile, nil
}

func (r *ProfileAPI) Get(ctx context.Context) (*model.Profile, error) {
	return r.profile(ctx, gateway.Request{Method: http.MethodGet, Path: "/user/profile", Authenticated: true})
}

func (r *ProfileAPI) Update(ctx context.Context, update model.Update) (*model.Profile, error) {
	return r.profile(ctx, gateway.Request{Method: http.MethodPost, Path: "/user/update", Body: update, Authenticated: true})
}

func (r *ProfileAPI) UploadResume(ctx context.Context, filename string, content io.Reader) (string, error) {
	var resp uploadResponse
	file := gateway.UploadFile{Field: resumeField, Filename: filename, Content: content}
	if err := r.api.Upload(ctx, "/user/upload_resume", file, &resp); err != nil {
		return "", err
	}
	return resp.ResumeURL, nil
}

func (r *ProfileAPI) SkillCatalog(ctx context.Context) ([]model.Skill, error) {
	var resp skillsResponse
	if err := r.api.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/user/skills/all"}, &resp); err != nil {
		return nil, err
	}
	if resp.Skills == nil {
		return []model.Skill{}, nil
	}
	return resp.Skills, nil
}

func (r *ProfileAPI) Stats(ctx context.Context) (*model.UserStats, error) {
	var resp statsResponse
	if err := r.api.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/user/stats", Authenticated: true}, &resp); err != nil {
		return nil, err
	}
	return &resp.Stats, nil
}
