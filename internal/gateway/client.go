package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"careerhub-client/internal/session/domain/repository"
	apperrors "careerhub-client/internal/shared/errors"
	"careerhub-client/internal/shared/eventbus"
	"careerhub-client/internal/shared/logger"
	"careerhub-client/internal/shared/utils"

	"github.com/google/uuid"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	headerContentType   = "Content-Type"
	contentTypeJSON     = "application/json"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 8 << 20

	componentName = "gateway"
)

// Request describes one call to the remote API.
type Request struct {
	Method        string
	Path          string
	Body          interface{}
	Authenticated bool
}

// API is the surface the feature components depend on.
type API interface {
	Do(ctx context.Context, req Request, out interface{}) error
	Upload(ctx context.Context, path string, file UploadFile, out interface{}) error
}

// Client is the only place requests are built and responses are classified.
//
// Every authenticated call carries the bearer token of the current session.
// A 401 on an authenticated call clears the session store and publishes
// session.unauthorized before the error is returned.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      repository.SessionStore
	events     eventbus.Publisher
	log        logger.Logger
	requestID  func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithEvents sets where session.unauthorized is published.
func WithEvents(p eventbus.Publisher) Option {
	return func(c *Client) { c.events = p }
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l.WithComponent(componentName) }
}

// WithRequestIDFunc overrides X-Request-ID generation.
func WithRequestIDFunc(fn func() string) Option {
	return func(c *Client) { c.requestID = fn }
}

// NewClient creates a gateway client for baseURL.
func NewClient(baseURL string, store repository.SessionStore, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		store:      store,
		log:        logger.NewNop(),
		requestID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, authenticated bool, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Authenticated: authenticated}, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}, authenticated bool, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body, Authenticated: authenticated}, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, authenticated bool, out interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Authenticated: authenticated}, out)
}

// Do performs req and decodes a successful response into out (which may be nil).
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	var body io.Reader
	contentType := ""
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return apperrors.NewInternalError("encode request body").WithCause(err).WithComponent(componentName)
		}
		body = bytes.NewReader(payload)
		contentType = contentTypeJSON
	}
	return c.send(ctx, req, body, contentType, out)
}

func (c *Client) send(ctx context.Context, req Request, body io.Reader, contentType string, out interface{}) error {
	requestID := c.requestID()
	ctx = utils.WithRequestID(ctx, requestID)
	log := c.log.WithContext(ctx).WithFields(map[string]interface{}{
		"method": req.Method,
		"path":   req.Path,
	})

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return apperrors.NewInternalError("build request").WithCause(err).WithComponent(componentName)
	}
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set(headerRequestID, requestID)
	if contentType != "" {
		httpReq.Header.Set(headerContentType, contentType)
	}

	if req.Authenticated {
		session, err := c.store.Current(ctx)
		if err != nil {
			log.Debug("authenticated call without a session, not sent")
			c.publishUnauthorized(ctx, 0, eventbus.ReasonSessionMissing)
			return apperrors.NewUnauthorizedError("").WithCause(apperrors.ErrNoSession).WithComponent(componentName)
		}
		httpReq.Header.Set(headerAuthorization, "Bearer "+session.Token)
		log = log.WithFields(map[string]interface{}{"user_id": session.UserID})
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Warnf("request failed in transport: %v", err)
		return apperrors.NewNetworkError(err).WithComponent(componentName)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Warnf("reading response body failed: %v", err)
		return apperrors.NewNetworkError(err).WithComponent(componentName)
	}
	log = log.WithFields(map[string]interface{}{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if err := c.classify(ctx, req, resp.StatusCode, raw); err != nil {
		log.Warnf("request rejected: %v", err)
		return err
	}
	log.Debug("request completed")

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperrors.NewRequestFailedError("", resp.StatusCode).WithCause(err).WithComponent(componentName)
	}
	return nil
}

// classify maps a response to nil or one of Unauthorized/RequestFailed.
func (c *Client) classify(ctx context.Context, req Request, status int, raw []byte) error {
	env := decodeEnvelope(raw)

	switch {
	case status == http.StatusUnauthorized:
		msg := env.message()
		err := apperrors.NewUnauthorizedError(msg).WithComponent(componentName).WithDetail("path", req.Path)
		if req.Authenticated {
			c.expireSession(ctx)
		} else if msg == "" {
			// A refused login or signup is not an expired session.
			err = err.WithCode(apperrors.CodeNoDetail)
		}
		return err
	case status < 200 || status > 299:
		return apperrors.NewRequestFailedError(env.message(), status).
			WithComponent(componentName).WithDetail("path", req.Path)
	case env.Success != nil && !*env.Success:
		return apperrors.NewRequestFailedError(env.message(), status).
			WithComponent(componentName).WithDetail("path", req.Path)
	}
	return nil
}

// expireSession clears the store and announces it; failures are logged, never
// returned, because the caller must still see the Unauthorized.
func (c *Client) expireSession(ctx context.Context) {
	var userID int64
	if s, err := c.store.Current(ctx); err == nil {
		userID = s.UserID
	}
	if err := c.store.Clear(ctx); err != nil {
		c.log.WithContext(ctx).Errorf("failed to clear session after 401: %v", err)
	}
	c.publishUnauthorized(ctx, userID, eventbus.ReasonSessionRejected)
}

func (c *Client) publishUnauthorized(ctx context.Context, userID int64, reason string) {
	if c.events == nil {
		return
	}
	event := eventbus.NewEvent(eventbus.EventTypeSessionUnauthorized,
		eventbus.SessionPayload{UserID: userID, Reason: reason}, componentName)
	if err := c.events.Publish(ctx, event); err != nil {
		c.log.WithContext(ctx).Errorf("failed to publish %s: %v", event.Type(), err)
	}
}

// PathEscape builds a path segment from an identifier.
func PathEscape(format string, args ...interface{}) string {
	return fmt.Sprintf(format, escapeAll(args)...)
}
