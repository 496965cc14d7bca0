package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"careerhub-client/internal/profile/domain/model"
	"careerhub-client/internal/profile/domain/repository"
	apperrors "careerhub-client/internal/shared/errors"
	"careerhub-client/internal/shared/eventbus"
	"careerhub-client/internal/shared/logger"
)

// Banner fallbacks for server failures without a detail.
const (
	UpdateProfileFailedMessage = "Error updating profile"
	UpdateSkillsFailedMessage  = "Error updating skills"
	UploadResumeFailedMessage  = "Error uploading resume"
)

const componentName = "profile"

// ProfileStore keeps the last profile the server returned.
type ProfileStore struct {
	repo           repository.ProfileRepository
	validator      repository.ResumeValidator
	maxResumeBytes int64
	events         eventbus.Publisher
	log            logger.Logger

	mu      sync.RWMutex
	profile *model.Profile
}

// NewProfileStore creates a store. maxResumeBytes bounds uploads.
func NewProfileStore(repo repository.ProfileRepository, validator repository.ResumeValidator, maxResumeBytes int64, events eventbus.Publisher, log logger.Logger) *ProfileStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &ProfileStore{
		repo:           repo,
		validator:      validator,
		maxResumeBytes: maxResumeBytes,
		events:         events,
		log:            log.WithComponent(componentName),
	}
}

// Subscribe forgets the profile when the session ends.
func (s *ProfileStore) Subscribe(bus eventbus.EventBusInterface) {
	forget := func(ctx context.Context, _ eventbus.Event) error {
		s.mu.Lock()
		s.profile = nil
		s.mu.Unlock()
		return nil
	}
	bus.Subscribe(eventbus.EventTypeSessionCleared, forget)
	bus.Subscribe(eventbus.EventTypeSessionUnauthorized, forget)
}

// Current returns a copy of the cached profile, or nil before the first fetch.
func (s *ProfileStore) Current() *model.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile.Clone()
}

func (s *ProfileStore) replace(p *model.Profile) *model.Profile {
	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()
	return p.Clone()
}

// Fetch loads the profile from the server and replaces the cached copy.
func (s *ProfileStore) Fetch(ctx context.Context) (*model.Profile, error) {
	p, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.replace(p), nil
}

// UpdateDetails sets degree and career goal.
func (s *ProfileStore) UpdateDetails(ctx context.Context, degree, careerGoal string) (*model.Profile, error) {
	degree = strings.TrimSpace(degree)
	careerGoal = strings.TrimSpace(careerGoal)
	return s.update(ctx, model.Update{Degree: &degree, CareerGoal: &careerGoal})
}

// UpdateSkills replaces the user's skills with ids, each at
// model.DefaultProficiency. Duplicates are sent once, in first-seen order.
func (s *ProfileStore) UpdateSkills(ctx context.Context, ids []int64) (*model.Profile, error) {
	seen := make(map[int64]bool, len(ids))
	levels := make([]model.SkillLevel, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("Invalid skill id %d", id)).WithComponent(componentName)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		levels = append(levels, model.SkillLevel{SkillID: id, Proficiency: model.DefaultProficiency})
	}
	return s.update(ctx, model.Update{Skills: &levels})
}

func (s *ProfileStore) update(ctx context.Context, u model.Update) (*model.Profile, error) {
	p, err := s.repo.Update(ctx, u)
	if err != nil {
		return nil, err
	}
	updated := s.replace(p)
	s.publishUpdated(ctx, updated.UserID)
	return updated, nil
}

// UploadResume uploads the PDF at path and then re-fetches the profile.
// Files that are not .pdf, exceed the size limit or do not parse as PDF are
// rejected before anything is sent.
func (s *ProfileStore) UploadResume(ctx context.Context, path string) (*model.Profile, error) {
	name := filepath.Base(path)
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return nil, apperrors.NewValidationError("Only PDF files are allowed").WithComponent(componentName)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Cannot read %s", name)).WithComponent(componentName).WithDetail("error", err.Error())
	}
	defer f.Close()

	// One byte past the limit marks an oversized file.
	data, err := io.ReadAll(io.LimitReader(f, s.maxResumeBytes+1))
	if err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Cannot read %s", name)).WithComponent(componentName).WithDetail("error", err.Error())
	}
	if int64(len(data)) > s.maxResumeBytes {
		return nil, apperrors.NewValidationError(fmt.Sprintf("File size must be less than %s", formatBytes(s.maxResumeBytes))).WithComponent(componentName)
	}
	if s.validator != nil {
		pages, err := s.validator.Validate(data)
		if err != nil {
			s.log.WithContext(ctx).Infof("rejected resume %s: %v", name, err)
			return nil, apperrors.NewValidationError("File is not a readable PDF").WithComponent(componentName)
		}
		s.log.WithContext(ctx).Debugf("resume %s has %d page(s)", name, pages)
	}

	url, err := s.repo.UploadResume(ctx, name, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	s.log.WithContext(ctx).Infof("resume uploaded to %s", url)

	p, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	s.publishUpdated(ctx, p.UserID)
	return p, nil
}

// SkillCatalog returns the skills a user can pick from.
func (s *ProfileStore) SkillCatalog(ctx context.Context) ([]model.Skill, error) {
	return s.repo.SkillCatalog(ctx)
}

// Stats returns the user's counters.
func (s *ProfileStore) Stats(ctx context.Context) (*model.UserStats, error) {
	return s.repo.Stats(ctx)
}

func (s *ProfileStore) publishUpdated(ctx context.Context, userID int64) {
	if s.events == nil {
		return
	}
	event := eventbus.NewEvent(eventbus.EventTypeProfileUpdated, eventbus.SessionPayload{UserID: userID}, componentName)
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.WithContext(ctx).Errorf("failed to publish %s: %v", event.Type(), err)
	}
}

func formatBytes(n int64) string {
	const mb = 1 << 20
	if n%mb == 0 {
		return fmt.Sprintf("%dMB", n/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
