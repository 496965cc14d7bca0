package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"careerhub-client/internal/gateway"
	oppapi "careerhub-client/internal/opportunity/adapter/api"
	profileapi "careerhub-client/internal/profile/adapter/api"
	"careerhub-client/internal/session/adapter/persistence"
	sessionmodel "careerhub-client/internal/session/domain/model"
	apperrors "careerhub-client/internal/shared/errors"
	"careerhub-client/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsecase(t *testing.T, signedIn bool, recent int) (*testutil.Backend, *DashboardUsecase) {
	t.Helper()
	backend := testutil.NewBackend()
	store := persistence.NewMemoryStore()
	if signedIn {
		require.NoError(t, store.Save(context.Background(), &sessionmodel.Session{
			Token: backend.IssueToken(testutil.DefaultUserID), UserID: testutil.DefaultUserID, DisplayName: testutil.DefaultName,
		}))
	}
	client := gateway.NewClient(testutil.BaseURL, store, time.Second, gateway.WithHTTPClient(backend.HTTPClient()))
	uc := NewDashboardUsecase(store, oppapi.NewOpportunityAPI(client), profileapi.NewProfileAPI(client), recent, nil)
	return backend, uc
}

func TestLoad(t *testing.T) {
	_, uc := newUsecase(t, true, 3)

	summary, err := uc.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testutil.DefaultName, summary.DisplayName)
	assert.Equal(t, 5, summary.OpportunityCount)
	assert.Equal(t, 2, summary.SkillCount)
	assert.Equal(t, 1, summary.SavedCount)
	require.Len(t, summary.Recent, 3)
	assert.Equal(t, int64(101), summary.Recent[0].ID)
	assert.Equal(t, int64(103), summary.Recent[2].ID)
	assert.Empty(t, summary.Degraded)
}

func TestLoad_RecentLimitIsConfigurable(t *testing.T) {
	_, uc := newUsecase(t, true, 2)
	summary, err := uc.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, summary.Recent, 2)
}

func TestLoad_FailedPartDegrades(t *testing.T) {
	backend, uc := newUsecase(t, true, 3)
	backend.FailNext(http.MethodGet, "/opportunities/stats", http.StatusInternalServerError, map[string]string{})
	backend.FailNext(http.MethodGet, "/opportunities/all", http.StatusBadGateway, map[string]string{})

	summary, err := uc.Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.OpportunityCount)
	assert.Empty(t, summary.Recent)
	assert.Equal(t, 2, summary.SkillCount)
	assert.Equal(t, []string{"opportunities", "recent"}, summary.Degraded)
}

func TestLoad_UnauthorizedAborts(t *testing.T) {
	backend, uc := newUsecase(t, true, 3)
	backend.ExpireAll()

	_, err := uc.Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestLoad_WithoutSession(t *testing.T) {
	backend, uc := newUsecase(t, false, 3)

	_, err := uc.Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Zero(t, backend.TotalCalls())
}
