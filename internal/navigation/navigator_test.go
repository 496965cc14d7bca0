package navigation

import (
	"context"
	"net/http"
	"testing"
	"time"

	"careerhub-client/internal/gateway"
	"careerhub-client/internal/session/adapter/persistence"
	sessionmodel "careerhub-client/internal/session/domain/model"
	apperrors "careerhub-client/internal/shared/errors"
	"careerhub-client/internal/shared/eventbus"
	"careerhub-client/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signIn(t *testing.T, store *persistence.MemoryStore, token string) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), &sessionmodel.Session{Token: token, UserID: testutil.DefaultUserID}))
}

func TestParseRoute(t *testing.T) {
	r, err := ParseRoute("opportunities")
	require.NoError(t, err)
	assert.Equal(t, RouteOpportunities, r)
	assert.True(t, r.Protected())
	assert.False(t, RouteLogin.Protected())

	_, err = ParseRoute("admin")
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestEnter_ProtectedWithoutSessionRedirects(t *testing.T) {
	store := persistence.NewMemoryStore()
	bus := eventbus.NewEventBus(nil)
	var changes []eventbus.RoutePayload
	bus.Subscribe(eventbus.EventTypeRouteChanged, func(ctx context.Context, e eventbus.Event) error {
		changes = append(changes, e.Data().(eventbus.RoutePayload))
		return nil
	})
	nav := NewNavigator(store, bus, nil)

	_, err := nav.Enter(context.Background(), RouteCoach)
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, RouteLogin, nav.Route())
	require.Len(t, changes, 1)
	assert.Equal(t, ReasonLoginRequired, changes[0].Reason)
	assert.Empty(t, nav.TakeNotice())

	gen, err := nav.Enter(context.Background(), RouteLogin)
	require.NoError(t, err)
	assert.True(t, nav.Current(gen))
}

func TestSubscribe_CallWithoutSessionLeavesNoExpiredNotice(t *testing.T) {
	store := persistence.NewMemoryStore()
	bus := eventbus.NewEventBus(nil)
	backend := testutil.NewBackend()
	api := gateway.NewClient(testutil.BaseURL, store, time.Second,
		gateway.WithHTTPClient(backend.HTTPClient()), gateway.WithEvents(bus))
	nav := NewNavigator(store, bus, nil)
	nav.Subscribe(bus)

	err := api.Get(context.Background(), "/user/profile", true, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Zero(t, backend.TotalCalls())

	assert.Equal(t, RouteLogin, nav.Route())
	assert.Empty(t, nav.TakeNotice())
}

func TestEnter_BumpsGeneration(t *testing.T) {
	store := persistence.NewMemoryStore()
	signIn(t, store, "token")
	nav := NewNavigator(store, nil, nil)

	first, err := nav.Enter(context.Background(), RouteOpportunities)
	require.NoError(t, err)
	assert.True(t, nav.Current(first))

	second, err := nav.Enter(context.Background(), RouteOpportunities)
	require.NoError(t, err)
	assert.Greater(t, second, first)
	assert.False(t, nav.Current(first), "re-entering the same view supersedes earlier work")
	assert.Equal(t, second, nav.Generation())
}

func TestEnter_UnknownRoute(t *testing.T) {
	nav := NewNavigator(persistence.NewMemoryStore(), nil, nil)
	_, err := nav.Enter(context.Background(), Route("admin"))
	assert.ErrorIs(t, err, ErrUnknownRoute)
	assert.Zero(t, nav.Generation())
}

func TestUnauthorizedResponseRedirectsToLogin(t *testing.T) {
	backend := testutil.NewBackend()
	store := persistence.NewMemoryStore()
	signIn(t, store, backend.IssueToken(testutil.DefaultUserID))
	bus := eventbus.NewEventBus(nil)
	nav := NewNavigator(store, bus, nil)
	nav.Subscribe(bus)
	client := gateway.NewClient(testutil.BaseURL, store, time.Second,
		gateway.WithHTTPClient(backend.HTTPClient()), gateway.WithEvents(bus))

	gen, err := nav.Enter(context.Background(), RouteProfile)
	require.NoError(t, err)

	backend.ExpireAll()
	err = client.Get(context.Background(), "/user/profile", true, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))

	assert.Equal(t, RouteLogin, nav.Route())
	assert.False(t, nav.Current(gen), "results for the profile view are now stale")
	assert.Equal(t, apperrors.SessionExpiredMsg, nav.TakeNotice())
	assert.Empty(t, nav.TakeNotice())

	_, err = nav.Enter(context.Background(), RouteProfile)
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Equal(t, 1, backend.Calls(http.MethodGet, "/user/profile"))
}
