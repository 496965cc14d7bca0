package usecase

import (
	"context"

	oppmodel "careerhub-client/internal/opportunity/domain/model"
	profilemodel "careerhub-client/internal/profile/domain/model"
	"careerhub-client/internal/session/domain/repository"
	apperrors "careerhub-client/internal/shared/errors"
	"careerhub-client/internal/shared/logger"

	"golang.org/x/sync/errgroup"
)

// OpportunitySource is the part of the opportunity repository the dashboard reads.
type OpportunitySource interface {
	All(ctx context.Context) ([]oppmodel.Opportunity, error)
	Stats(ctx context.Context) (*oppmodel.Stats, error)
	SavedCount(ctx context.Context) (int, error)
}

// ProfileSource is the part of the profile repository the dashboard reads.
type ProfileSource interface {
	Get(ctx context.Context) (*profilemodel.Profile, error)
}

// Summary is what the dashboard shows. Fields whose request failed are zero
// and named in Degraded.
type Summary struct {
	DisplayName      string
	OpportunityCount int
	SkillCount       int
	SavedCount       int
	Recent           []oppmodel.Opportunity
	Degraded         []string
}

// DashboardUsecase assembles the dashboard from independent requests.
type DashboardUsecase struct {
	sessions      repository.SessionStore
	opportunities OpportunitySource
	profiles      ProfileSource
	recentLimit   int
	log           logger.Logger
}

func NewDashboardUsecase(sessions repository.SessionStore, opportunities OpportunitySource, profiles ProfileSource, recentLimit int, log logger.Logger) *DashboardUsecase {
	if log == nil {
		log = logger.NewNop()
	}
	return &DashboardUsecase{
		sessions:      sessions,
		opportunities: opportunities,
		profiles:      profiles,
		recentLimit:   recentLimit,
		log:           log.WithComponent("dashboard"),
	}
}

// Load fetches the dashboard's parts concurrently. A part that fails is
// left empty, except that an Unauthorized response aborts the whole load.
func (uc *DashboardUsecase) Load(ctx context.Context) (*Summary, error) {
	session, err := uc.sessions.Current(ctx)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("").WithCause(apperrors.ErrNoSession).WithComponent("dashboard")
	}

	var (
		stats   *oppmodel.Stats
		profile *profilemodel.Profile
		saved   int
		all     []oppmodel.Opportunity
		failed  [4]bool
	)

	g, gctx := errgroup.WithContext(ctx)
	degrade := func(i int, part string, err error) error {
		if apperrors.IsUnauthorized(err) {
			return err
		}
		uc.log.WithContext(ctx).Warnf("dashboard %s unavailable: %v", part, err)
		failed[i] = true
		return nil
	}

	g.Go(func() error {
		var err error
		if stats, err = uc.opportunities.Stats(gctx); err != nil {
			return degrade(0, "opportunities", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if profile, err = uc.profiles.Get(gctx); err != nil {
			return degrade(1, "skills", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if saved, err = uc.opportunities.SavedCount(gctx); err != nil {
			return degrade(2, "saved", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if all, err = uc.opportunities.All(gctx); err != nil {
			return degrade(3, "recent", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{DisplayName: session.DisplayName, SavedCount: saved}
	if stats != nil {
		summary.OpportunityCount = stats.Total
	}
	if profile != nil {
		summary.SkillCount = len(profile.Skills)
	}
	summary.Recent = all
	if uc.recentLimit > 0 && len(all) > uc.recentLimit {
		summary.Recent = all[:uc.recentLimit]
	}
	for i, part := range []string{"opportunities", "skills", "saved", "recent"} {
		if failed[i] {
			summary.Degraded = append(summary.Degraded, part)
		}
	}
	return summary, nil
}
