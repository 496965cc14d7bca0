package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"careerhub-client/internal/session/adapter/persistence"
	"careerhub-client/internal/session/domain/model"
	apperrors "careerhub-client/internal/shared/errors"
	"careerhub-client/internal/shared/eventbus"
	"careerhub-client/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(t *testing.T, backend *testutil.Backend) (*Client, *persistence.MemoryStore, *eventbus.EventBus) {
	t.Helper()
	store := persistence.NewMemoryStore()
	bus := eventbus.NewEventBus(nil)
	c := NewClient(testutil.BaseURL, store, time.Second,
		WithHTTPClient(backend.HTTPClient()), WithEvents(bus))
	return c, store, bus
}

func signIn(t *testing.T, backend *testutil.Backend, store *persistence.MemoryStore) {
	t.Helper()
	require.NoError(t, store.Save(context.Background(), &model.Session{
		Token: backend.IssueToken(testutil.DefaultUserID), UserID: testutil.DefaultUserID, DisplayName: testutil.DefaultName,
	}))
}

func TestClient_AuthenticatedCallCarriesBearerToken(t *testing.T) {
	backend := testutil.NewBackend()
	c, store, _ := newTestClient(t, backend)
	signIn(t, backend, store)

	var out struct {
		Success bool  `json:"success"`
		UserID  int64 `json:"user_id"`
	}
	require.NoError(t, c.Get(context.Background(), "/auth/verify", true, &out))
	assert.True(t, out.Success)
	assert.Equal(t, testutil.DefaultUserID, out.UserID)
}

func TestClient_HeadersAndUnauthenticatedCallsOmitToken(t *testing.T) {
	var seen *http.Request
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = r
		return &http.Response{StatusCode: 200, Body: http.NoBody, Header: http.Header{}, Request: r}, nil
	})}
	store := persistence.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), &model.Session{Token: "tok", UserID: 1}))
	c := NewClient("http://api.test/api/", store, time.Second, WithHTTPClient(hc), WithRequestIDFunc(func() string { return "req-fixed" }))

	require.NoError(t, c.Post(context.Background(), "/resources/search", map[string]string{"query": "go"}, false, nil))
	require.NotNil(t, seen)
	assert.Equal(t, "http://api.test/api/resources/search", seen.URL.String())
	assert.Empty(t, seen.Header.Get("Authorization"))
	assert.Equal(t, "req-fixed", seen.Header.Get("X-Request-ID"))
	assert.Equal(t, "application/json", seen.Header.Get("Content-Type"))

	require.NoError(t, c.Get(context.Background(), "/user/profile", true, nil))
	assert.Equal(t, "Bearer tok", seen.Header.Get("Authorization"))
	assert.Empty(t, seen.Header.Get("Content-Type"))
}

func TestClient_UnauthorizedClearsSessionAndPublishes(t *testing.T) {
	backend := testutil.NewBackend()
	c, store, bus := newTestClient(t, backend)
	signIn(t, backend, store)

	var published []eventbus.SessionPayload
	bus.Subscribe(eventbus.EventTypeSessionUnauthorized, func(ctx context.Context, e eventbus.Event) error {
		published = append(published, e.Data().(eventbus.SessionPayload))
		return nil
	})

	backend.ExpireAll()
	err := c.Get(context.Background(), "/user/profile", true, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, "Invalid or expired session", apperrors.UserMessage(err))
	assert.False(t, store.IsActive(context.Background()))
	require.Len(t, published, 1)
	assert.Equal(t, testutil.DefaultUserID, published[0].UserID)
	assert.Equal(t, "rejected", published[0].Reason)
}

func TestClient_AnyEndpoint401ClearsSession(t *testing.T) {
	endpoints := []struct{ method, path string }{
		{http.MethodGet, "/user/profile"},
		{http.MethodGet, "/user/stats"},
		{http.MethodGet, "/opportunities/saved"},
		{http.MethodPost, "/opportunities/save/101"},
		{http.MethodDelete, "/opportunities/unsave/101"},
		{http.MethodPost, "/coach/chat"},
		{http.MethodGet, "/coach/plan"},
		{http.MethodPost, "/career/path"},
	}
	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			backend := testutil.NewBackend()
			c, store, _ := newTestClient(t, backend)
			signIn(t, backend, store)
			backend.FailNext(ep.method, ep.path, http.StatusUnauthorized, map[string]string{"detail": "expired"})

			err := c.Do(context.Background(), Request{Method: ep.method, Path: ep.path, Body: map[string]string{"message": "hi"}, Authenticated: true}, nil)
			assert.True(t, apperrors.IsUnauthorized(err))
			assert.False(t, store.IsActive(context.Background()))
		})
	}
}

func TestClient_UnauthenticatedLogin401KeepsStoreUntouched(t *testing.T) {
	backend := testutil.NewBackend()
	c, store, _ := newTestClient(t, backend)
	signIn(t, backend, store)
	backend.FailNext(http.MethodPost, "/auth/login", http.StatusUnauthorized, map[string]string{"detail": "bad credentials"})

	err := c.Post(context.Background(), "/auth/login", map[string]string{"email": "x@y.z", "password": "nope"}, false, nil)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, "bad credentials", apperrors.UserMessage(err))
	assert.True(t, store.IsActive(context.Background()))
}

func TestClient_AuthenticatedWithoutSessionSendsNothing(t *testing.T) {
	backend := testutil.NewBackend()
	c, _, bus := newTestClient(t, backend)
	var reasons []string
	bus.Subscribe(eventbus.EventTypeSessionUnauthorized, func(ctx context.Context, e eventbus.Event) error {
		reasons = append(reasons, e.Data().(eventbus.SessionPayload).Reason)
		return nil
	})

	err := c.Get(context.Background(), "/user/profile", true, nil)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.ErrorIs(t, err, apperrors.ErrNoSession)
	assert.Zero(t, backend.TotalCalls())
	assert.Equal(t, []string{"missing"}, reasons)
}

func TestClient_RequestFailedUsesServerDetailOrFallback(t *testing.T) {
	backend := testutil.NewBackend()
	c, store, _ := newTestClient(t, backend)
	signIn(t, backend, store)

	err := c.Post(context.Background(), "/opportunities/save/999", nil, true, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsRequestFailed(err))
	assert.Equal(t, "Opportunity not found", apperrors.UserMessage(err))

	backend.FailNext(http.MethodGet, "/opportunities/all", http.StatusInternalServerError, map[string]string{})
	err = c.Get(context.Background(), "/opportunities/all", false, nil)
	assert.True(t, apperrors.IsRequestFailed(err))
	assert.Equal(t, apperrors.RequestFailedMessage, apperrors.UserMessage(err))
	assert.True(t, store.IsActive(context.Background()))
}

func TestClient_ValidationDetailList(t *testing.T) {
	backend := testutil.NewBackend()
	c, _, _ := newTestClient(t, backend)

	err := c.Post(context.Background(), "/resources/search", map[string]string{"query": ""}, false, nil)
	assert.True(t, apperrors.IsRequestFailed(err))
	assert.Equal(t, "query must not be empty", apperrors.UserMessage(err))
}

func TestClient_SuccessFalseIsRequestFailed(t *testing.T) {
	backend := testutil.NewBackend()
	c, store, _ := newTestClient(t, backend)
	signIn(t, backend, store)
	backend.SetCoachReply(func(string) (string, []string, bool) { return "", nil, false })

	err := c.Post(context.Background(), "/coach/chat", map[string]string{"message": "hello"}, true, nil)
	assert.True(t, apperrors.IsRequestFailed(err))
	assert.Equal(t, "Coach is unavailable", apperrors.UserMessage(err))
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	dialErr := errors.New("dial tcp 127.0.0.1:8000: connect: connection refused")
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, dialErr
	})}
	c := NewClient("http://api.test/api", persistence.NewMemoryStore(), time.Second, WithHTTPClient(hc))

	err := c.Get(context.Background(), "/opportunities/all", false, nil)
	assert.True(t, apperrors.IsNetwork(err))
	assert.True(t, apperrors.IsRetryable(err))
	assert.ErrorIs(t, err, dialErr)
	assert.Equal(t, apperrors.NetworkMessage, apperrors.UserMessage(err))
}

func TestClient_MalformedSuccessBody(t *testing.T) {
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 200, Header: http.Header{}, Request: r,
			Body: http.NoBody}, nil
	})}
	c := NewClient("http://api.test/api", persistence.NewMemoryStore(), time.Second, WithHTTPClient(hc))
	var out struct{ Success bool }
	assert.NoError(t, c.Get(context.Background(), "/opportunities/all", false, &out))

	hc.Transport = roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 200, Header: http.Header{}, Request: r,
			Body: httpBody("<html>oops</html>")}, nil
	})
	err := c.Get(context.Background(), "/opportunities/all", false, &out)
	assert.True(t, apperrors.IsRequestFailed(err))
}

func TestClient_Upload(t *testing.T) {
	backend := testutil.NewBackend()
	c, store, _ := newTestClient(t, backend)
	signIn(t, backend, store)

	var out struct {
		ResumeURL string `json:"resume_url"`
	}
	err := c.Upload(context.Background(), "/user/upload_resume",
		UploadFile{Field: "file", Filename: "cv.pdf", Content: strings.NewReader("%PDF-1.4")}, &out)
	require.NoError(t, err)
	assert.Equal(t, "https://files.careerhub.test/resumes/1/cv.pdf", out.ResumeURL)
}

func TestPathEscape(t *testing.T) {
	assert.Equal(t, "/opportunities/save/101", PathEscape("/opportunities/save/%d", 101))
	assert.Equal(t, "/things/a%2Fb", PathEscape("/things/%s", "a/b"))
}

func httpBody(s string) *readCloser { return &readCloser{strings.NewReader(s)} }

type readCloser struct{ *strings.Reader }

func (readCloser) Close() error { return nil }
