package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"careerhub-client/internal/career/usecase"
	coachapi "careerhub-client/internal/coach/adapter/api"
	coachusecase "careerhub-client/internal/coach/usecase"
	"careerhub-client/internal/config"
	dashboardusecase "careerhub-client/internal/dashboard/usecase"
	"careerhub-client/internal/gateway"
	"careerhub-client/internal/navigation"
	oppapi "careerhub-client/internal/opportunity/adapter/api"
	"careerhub-client/internal/opportunity/adapter/expression"
	oppusecase "careerhub-client/internal/opportunity/usecase"
	profileapi "careerhub-client/internal/profile/adapter/api"
	"careerhub-client/internal/profile/adapter/resume"
	profileusecase "careerhub-client/internal/profile/usecase"
	resourceapi "careerhub-client/internal/resource/adapter/api"
	resourceusecase "careerhub-client/internal/resource/usecase"
	"careerhub-client/internal/session/adapter/persistence"
	"careerhub-client/internal/session/domain/repository"
	sessionusecase "careerhub-client/internal/session/usecase"
	apperrors "careerhub-client/internal/shared/errors"
	"careerhub-client/internal/shared/eventbus"
	"careerhub-client/internal/shared/logger"
)

// Container owns every component of the client and the order they are
// built and torn down in.
type Container struct {
	mu sync.RWMutex

	Config *config.Config
	Logger logger.Logger
	Bus    *eventbus.EventBus
	Store  repository.SessionStore
	API    *gateway.Client

	Auth          *sessionusecase.AuthUsecase
	Navigator     *navigation.Navigator
	Opportunities *oppusecase.Cache
	Profile       *profileusecase.ProfileStore
	Resources     *resourceusecase.ResourceUsecase
	Coach         *coachusecase.ChatSession
	Career        *usecase.CareerUsecase
	Dashboard     *dashboardusecase.DashboardUsecase

	closed bool
}

// Option overrides a collaborator, mostly for tests.
type Option func(*options)

type options struct {
	store      repository.SessionStore
	httpClient *http.Client
	logger     logger.Logger
}

// WithSessionStore uses store instead of the configured backend.
func WithSessionStore(store repository.SessionStore) Option {
	return func(o *options) { o.store = store }
}

// WithHTTPClient sends every request through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewContainer builds and wires the client from cfg.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	c := &Container{Config: cfg}

	c.Logger = o.logger
	if c.Logger == nil {
		c.Logger = logger.New(logger.Config{
			Backend: cfg.Log.Backend,
			Level:   cfg.Log.Level,
			Format:  cfg.Log.Format,
		})
	}
	logger.SetDefault(c.Logger)

	c.Bus = eventbus.NewEventBus(c.Logger)

	c.Store = o.store
	if c.Store == nil {
		store, err := persistence.NewSessionStore(ctx, cfg.Session)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s session store: %w", cfg.Session.Backend, err)
		}
		c.Store = store
	}

	gwOpts := []gateway.Option{gateway.WithEvents(c.Bus), gateway.WithLogger(c.Logger)}
	if o.httpClient != nil {
		gwOpts = append(gwOpts, gateway.WithHTTPClient(o.httpClient))
	}
	c.API = gateway.NewClient(cfg.APIBaseURL, c.Store, cfg.HTTPTimeout, gwOpts...)

	if err := c.initializeModules(); err != nil {
		c.Store.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) initializeModules() error {
	compiler, err := expression.NewCompiler()
	if err != nil {
		return fmt.Errorf("failed to create expression compiler: %w", err)
	}

	oppRepo := oppapi.NewOpportunityAPI(c.API)
	profileRepo := profileapi.NewProfileAPI(c.API)

	c.Auth = sessionusecase.NewAuthUsecase(c.API, c.Store, c.Bus, c.Logger)
	c.Navigator = navigation.NewNavigator(c.Store, c.Bus, c.Logger)
	c.Opportunities = oppusecase.NewCache(oppRepo, c.Store, compiler, c.Bus, c.Logger)
	c.Profile = profileusecase.NewProfileStore(profileRepo, resume.NewPDFValidator(), c.Config.ResumeMaxBytes, c.Bus, c.Logger)
	c.Resources = resourceusecase.NewResourceUsecase(resourceapi.NewResourceAPI(c.API), c.Logger)
	c.Coach = coachusecase.NewChatSession(coachapi.NewCoachAPI(c.API), c.Logger)
	c.Career = usecase.NewCareerUsecase(c.API, c.Store, c.Logger)
	c.Dashboard = dashboardusecase.NewDashboardUsecase(c.Store, oppRepo, profileRepo, c.Config.Display.DashboardRecent, c.Logger)

	c.Navigator.Subscribe(c.Bus)
	c.Opportunities.Subscribe(c.Bus)
	c.Profile.Subscribe(c.Bus)
	c.Coach.Subscribe(c.Bus)
	return nil
}

// HealthCheck reports whether the session store is reachable.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return fmt.Errorf("container is closed")
	}
	if _, err := c.Store.Current(ctx); err != nil && !errors.Is(err, apperrors.ErrNoSession) {
		return fmt.Errorf("session store health check failed: %w", err)
	}
	return nil
}

// Close releases the session store and flushes the logger. It is safe to
// call more than once.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	if err := c.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close session store: %w", err))
	}
	if syncer, ok := c.Logger.(interface{ Sync() error }); ok {
		// zap reports EINVAL when syncing a terminal; nothing to act on.
		_ = syncer.Sync()
	}
	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}
	return nil
}
