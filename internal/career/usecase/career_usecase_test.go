package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"careerhub-client/internal/gateway"
	"careerhub-client/internal/session/adapter/persistence"
	sessionmodel "careerhub-client/internal/session/domain/model"
	apperrors "careerhub-client/internal/shared/errors"
	"careerhub-client/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsecase(t *testing.T, userID int64) (*testutil.Backend, *persistence.MemoryStore, *CareerUsecase) {
	t.Helper()
	backend := testutil.NewBackend()
	store := persistence.NewMemoryStore()
	if userID != 0 {
		require.NoError(t, store.Save(context.Background(), &sessionmodel.Session{
			Token: backend.IssueToken(testutil.DefaultUserID), UserID: userID,
		}))
	}
	client := gateway.NewClient(testutil.BaseURL, store, time.Second, gateway.WithHTTPClient(backend.HTTPClient()))
	return backend, store, NewCareerUsecase(client, store, nil)
}

func TestRecommend(t *testing.T) {
	_, _, uc := newUsecase(t, testutil.DefaultUserID)

	paths, err := uc.Recommend(context.Background())
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "Backend Engineer", paths[0].Title)
	assert.Equal(t, []string{"Go", "Docker"}, paths[0].MissingSkills)
	assert.Equal(t, []string{"Learn Go", "Build a REST API", "Containerise it"}, paths[0].Roadmap)
	assert.Equal(t, "Data Engineer", paths[1].Title)
}

func TestRecommend_SendsSessionUserID(t *testing.T) {
	// The token belongs to user 1; a session claiming another id is refused.
	_, _, uc := newUsecase(t, 42)

	_, err := uc.Recommend(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsRequestFailed(err))
	assert.Equal(t, "Cannot request career paths for another user", apperrors.UserMessage(err))
}

func TestRecommend_WithoutSession(t *testing.T) {
	backend, _, uc := newUsecase(t, 0)

	_, err := uc.Recommend(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Zero(t, backend.TotalCalls())
}

func TestRecommend_ServerFailureWithoutDetail(t *testing.T) {
	backend, _, uc := newUsecase(t, testutil.DefaultUserID)
	backend.FailNext(http.MethodPost, "/career/path", http.StatusInternalServerError, map[string]string{})

	_, err := uc.Recommend(context.Background())
	require.Error(t, err)
	assert.Equal(t, RecommendFailedMessage, apperrors.UserMessageOr(err, RecommendFailedMessage))
}
