package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"careerhub-client/internal/session/domain/repository"
	apperrors "careerhub-client/internal/shared/errors"
	"careerhub-client/internal/shared/eventbus"
	"careerhub-client/internal/shared/logger"
	"careerhub-client/internal/shared/utils"
)

// Route names a view.
type Route string

const (
	RouteLogin         Route = "login"
	RouteDashboard     Route = "dashboard"
	RouteProfile       Route = "profile"
	RouteOpportunities Route = "opportunities"
	RouteLearning      Route = "learning"
	RouteCoach         Route = "coach"
	RouteCareer        Route = "career"
)

// Redirect reasons carried by route.changed.
const (
	ReasonNavigate       = "navigate"
	ReasonLoginRequired  = "login_required"
	ReasonSessionExpired = "session_expired"
)

var (
	// ErrLoginRequired is returned when a protected route is entered without a session.
	ErrLoginRequired = errors.New("login required")
	ErrUnknownRoute  = errors.New("unknown route")
)

var routes = map[Route]bool{
	RouteLogin:         false,
	RouteDashboard:     true,
	RouteProfile:       true,
	RouteOpportunities: true,
	RouteLearning:      true,
	RouteCoach:         true,
	RouteCareer:        true,
}

// ParseRoute validates a route name.
func ParseRoute(s string) (Route, error) {
	r := Route(s)
	if _, ok := routes[r]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, s)
	}
	return r, nil
}

// Protected reports whether r needs an active session.
func (r Route) Protected() bool {
	return routes[r]
}

// Navigator tracks the current view. Every transition bumps a generation;
// work started under an older generation must not be applied.
type Navigator struct {
	sessions repository.SessionStore
	events   eventbus.Publisher
	log      logger.Logger

	mu     sync.Mutex
	route  Route
	gen    uint64
	notice string
}

func NewNavigator(sessions repository.SessionStore, events eventbus.Publisher, log logger.Logger) *Navigator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Navigator{sessions: sessions, events: events, log: log.WithComponent("navigation"), route: RouteLogin}
}

// Subscribe redirects to login whenever the session is refused. Only a
// session that existed leaves the "expired" notice behind.
func (n *Navigator) Subscribe(bus eventbus.EventBusInterface) {
	bus.Subscribe(eventbus.EventTypeSessionUnauthorized, func(ctx context.Context, e eventbus.Event) error {
		if p, ok := e.Data().(eventbus.SessionPayload); ok && p.Reason == eventbus.ReasonSessionMissing {
			n.redirect(ctx, ReasonLoginRequired, "")
			return nil
		}
		n.redirect(ctx, ReasonSessionExpired, apperrors.SessionExpiredMsg)
		return nil
	})
}

// Enter moves to route and returns the new generation. Entering a protected
// route without a session redirects to login and returns ErrLoginRequired.
func (n *Navigator) Enter(ctx context.Context, route Route) (uint64, error) {
	if _, ok := routes[route]; !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRoute, route)
	}
	if route.Protected() && !n.sessions.IsActive(ctx) {
		gen := n.redirect(ctx, ReasonLoginRequired, "")
		return gen, ErrLoginRequired
	}
	return n.move(ctx, route, ReasonNavigate), nil
}

func (n *Navigator) redirect(ctx context.Context, reason, notice string) uint64 {
	n.mu.Lock()
	if notice != "" {
		n.notice = notice
	}
	n.mu.Unlock()
	return n.move(ctx, RouteLogin, reason)
}

func (n *Navigator) move(ctx context.Context, to Route, reason string) uint64 {
	n.mu.Lock()
	from := n.route
	n.route = to
	n.gen++
	gen := n.gen
	n.mu.Unlock()

	ctx = utils.WithRoute(ctx, string(to))
	n.log.WithContext(ctx).Debugf("route %s -> %s (%s)", from, to, reason)
	if n.events != nil {
		event := eventbus.NewEvent(eventbus.EventTypeRouteChanged,
			eventbus.RoutePayload{From: string(from), To: string(to), Reason: reason}, "navigation")
		if err := n.events.Publish(ctx, event); err != nil {
			n.log.WithContext(ctx).Errorf("failed to publish %s: %v", event.Type(), err)
		}
	}
	return gen
}

// Route returns the current route.
func (n *Navigator) Route() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.route
}

// Generation returns the current generation.
func (n *Navigator) Generation() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.gen
}

// Current reports whether gen is still the latest generation.
func (n *Navigator) Current(gen uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.gen == gen
}

// TakeNotice returns and clears the message left by the last forced
// redirect, if any.
func (n *Navigator) TakeNotice() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	notice := n.notice
	n.notice = ""
	return notice
}
