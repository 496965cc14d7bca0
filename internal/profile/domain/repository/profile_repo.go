package repository

import (
	"context"
	"io"

	"careerhub-client/internal/profile/domain/model"
)

// ProfileRepository reads and writes the signed-in user's profile.
type ProfileRepository interface {
	Get(ctx context.Context) (*model.Profile, error)
	// Update applies a partial update and returns the resulting profile.
	Update(ctx context.Context, update model.Update) (*model.Profile, error)
	// UploadResume stores a PDF and returns its URL.
	UploadResume(ctx context.Context, filename string, content io.Reader) (string, error)
	SkillCatalog(ctx context.Context) ([]model.Skill, error)
	Stats(ctx context.Context) (*model.UserStats, error)
}

// ResumeValidator checks that a document is a readable PDF.
type ResumeValidator interface {
	Validate(data []byte) (pages int, err error)
}
