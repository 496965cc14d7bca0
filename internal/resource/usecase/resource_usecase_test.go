package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"careerhub-client/internal/gateway"
	"careerhub-client/internal/resource/adapter/api"
	"careerhub-client/internal/resource/domain/model"
	"careerhub-client/internal/session/adapter/persistence"
	apperrors "careerhub-client/internal/shared/errors"
	"careerhub-client/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsecase(t *testing.T) (*testutil.Backend, *ResourceUsecase) {
	t.Helper()
	backend := testutil.NewBackend()
	client := gateway.NewClient(testutil.BaseURL, persistence.NewMemoryStore(), time.Second,
		gateway.WithHTTPClient(backend.HTTPClient()))
	return backend, NewResourceUsecase(api.NewResourceAPI(client), nil)
}

func titles(list []model.Resource) []int64 {
	ids := make([]int64, len(list))
	for i, r := range list {
		ids[i] = r.ID
	}
	return ids
}

func TestSearch_BlankQuerySendsNothing(t *testing.T) {
	backend, uc := newUsecase(t)
	for _, q := range []string{"", " ", "\t\n"} {
		_, err := uc.Search(context.Background(), q)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	}
	assert.Zero(t, backend.TotalCalls())
}

func TestSearch_PreservesServerOrder(t *testing.T) {
	_, uc := newUsecase(t)
	results, err := uc.Search(context.Background(), "  python sql ")
	require.NoError(t, err)
	assert.Equal(t, []int64{202, 204}, titles(results))
	assert.Equal(t, model.TierHigh, results[0].Tier())
	assert.Equal(t, 92, results[0].MatchPercent())
}

func TestSearch_NoMatches(t *testing.T) {
	_, uc := newUsecase(t)
	results, err := uc.Search(context.Background(), "haskell")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearch_ServerValidationDetail(t *testing.T) {
	backend, uc := newUsecase(t)
	backend.FailNext(http.MethodPost, "/resources/search", http.StatusUnprocessableEntity,
		map[string]interface{}{"detail": []map[string]string{{"msg": "query too long"}}})

	_, err := uc.Search(context.Background(), "go")
	require.Error(t, err)
	assert.True(t, apperrors.IsRequestFailed(err))
	assert.Equal(t, "query too long", apperrors.UserMessage(err))
}

func TestSearch_NetworkFailure(t *testing.T) {
	failing := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}
	client := gateway.NewClient(testutil.BaseURL, persistence.NewMemoryStore(), time.Second, gateway.WithHTTPClient(failing))
	uc := NewResourceUsecase(api.NewResourceAPI(client), nil)

	_, err := uc.Search(context.Background(), "go")
	require.Error(t, err)
	assert.True(t, apperrors.IsNetwork(err))
	assert.True(t, apperrors.IsRetryable(err))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestCatalog(t *testing.T) {
	_, uc := newUsecase(t)

	first, err := uc.Catalog(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, []int64{201, 202, 203, 204, 205, 206}, titles(first))

	all, err := uc.Catalog(context.Background(), 50)
	require.NoError(t, err)
	assert.Len(t, all, 7)
}

func TestRecommended(t *testing.T) {
	_, uc := newUsecase(t)

	got, err := uc.Recommended(context.Background(), "Backend Engineer", []string{"Python", "SQL"}, 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{202, 204}, titles(got))

	got, err = uc.Recommended(context.Background(), "", nil, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{201, 203}, titles(got))
}

func TestRecommendationQuery(t *testing.T) {
	assert.Equal(t, "Backend Engineer Python SQL", RecommendationQuery(" Backend Engineer ", []string{"Python", "", "SQL"}))
	assert.Equal(t, "Python", RecommendationQuery("", []string{"Python"}))
	assert.Equal(t, "Data Scientist", RecommendationQuery("Data Scientist", nil))
	assert.Equal(t, DefaultRecommendationQuery, RecommendationQuery("  ", nil))
}
