package usecase

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"careerhub-client/internal/gateway"
	"careerhub-client/internal/session/domain/model"
	"careerhub-client/internal/session/domain/repository"
	apperrors "careerhub-client/internal/shared/errors"
	"careerhub-client/internal/shared/eventbus"
	"careerhub-client/internal/shared/logger"
)

// Banner fallbacks used when the server rejects a request without a detail.
const (
	LoginFailedMessage  = "Login failed. Please try again."
	SignupFailedMessage = "Signup failed. Please try again."
)

const minPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthUsecaseInterface defines the contract for session lifecycle use cases.
type AuthUsecaseInterface interface {
	Login(ctx context.Context, req LoginRequest) (*model.Session, error)
	Signup(ctx context.Context, req SignupRequest) (*model.Session, error)
	Logout(ctx context.Context) error
	Verify(ctx context.Context) error
	Current(ctx context.Context) (*model.Session, error)
}

// LoginRequest represents the login form
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest represents the signup form
type SignupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Degree     string `json:"degree"`
	CareerGoal string `json:"career_goal"`
}

// authResponse is the body of a successful login or signup.
type authResponse struct {
	Success      bool   `json:"success"`
	SessionToken string `json:"session_token"`
	UserID       int64  `json:"user_id"`
	Name         string `json:"name"`
}

// AuthUsecase implements AuthUsecaseInterface
type AuthUsecase struct {
	api    gateway.API
	store  repository.SessionStore
	events eventbus.Publisher
	log    logger.Logger
}

// NewAuthUsecase creates a new auth use case
func NewAuthUsecase(api gateway.API, store repository.SessionStore, events eventbus.Publisher, log logger.Logger) *AuthUsecase {
	if log == nil {
		log = logger.NewNop()
	}
	return &AuthUsecase{api: api, store: store, events: events, log: log.WithComponent("auth")}
}

func validateEmail(ve *apperrors.ValidationErrors, email string) {
	if email == "" {
		ve.Add("email", "Email is required", email)
	} else if !emailRegex.MatchString(email) {
		ve.Add("email", "Please enter a valid email address", email)
	}
}

// Login authenticates and persists the returned session. On failure nothing is stored.
func (uc *AuthUsecase) Login(ctx context.Context, req LoginRequest) (*model.Session, error) {
	req.Email = strings.TrimSpace(req.Email)

	ve := apperrors.NewValidationErrors()
	validateEmail(ve, req.Email)
	if req.Password == "" {
		ve.Add("password", "Password is required", "")
	}
	if ve.HasErrors() {
		return nil, ve.ToAppError()
	}

	var resp authResponse
	if err := uc.api.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "/auth/login", Body: req}, &resp); err != nil {
		uc.log.WithContext(ctx).Infof("login rejected for %s: %v", req.Email, err)
		return nil, err
	}
	// The server's name is authoritative on login.
	return uc.start(ctx, resp, resp.Name)
}

// Signup registers and persists the returned session. The display name comes
// from the form.
func (uc *AuthUsecase) Signup(ctx context.Context, req SignupRequest) (*model.Session, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	ve := apperrors.NewValidationErrors()
	if req.Name == "" {
		ve.Add("name", "Name is required", "")
	}
	validateEmail(ve, req.Email)
	if len(req.Password) < minPasswordLength {
		ve.Add("password", "Password must be at least 6 characters", "")
	}
	if ve.HasErrors() {
		return nil, ve.ToAppError()
	}

	var resp authResponse
	if err := uc.api.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "/auth/signup", Body: req}, &resp); err != nil {
		return nil, err
	}
	return uc.start(ctx, resp, req.Name)
}

func (uc *AuthUsecase) start(ctx context.Context, resp authResponse, displayName string) (*model.Session, error) {
	if resp.SessionToken == "" {
		return nil, apperrors.NewRequestFailedError("", 200).WithComponent("auth")
	}
	session := &model.Session{Token: resp.SessionToken, UserID: resp.UserID, DisplayName: displayName}
	if err := uc.store.Save(ctx, session); err != nil {
		return nil, apperrors.WrapError(err, "persist session")
	}
	uc.publish(ctx, eventbus.EventTypeSessionStarted, session.UserID, "login")
	uc.log.WithContext(ctx).Infof("session started for user %d", session.UserID)
	return session, nil
}

// Logout tells the server, then clears the local session whatever the server said.
func (uc *AuthUsecase) Logout(ctx context.Context) error {
	session, err := uc.store.Current(ctx)
	if err != nil {
		return uc.store.Clear(ctx)
	}
	if err := uc.api.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "/auth/logout", Authenticated: true}, nil); err != nil {
		uc.log.WithContext(ctx).Warnf("server logout failed, clearing locally: %v", err)
	}
	if err := uc.store.Clear(ctx); err != nil {
		return apperrors.WrapError(err, "clear session")
	}
	uc.publish(ctx, eventbus.EventTypeSessionCleared, session.UserID, "logout")
	return nil
}

// Verify checks the stored session with the server. A session the server does
// not accept is cleared.
func (uc *AuthUsecase) Verify(ctx context.Context) error {
	if !uc.store.IsActive(ctx) {
		return apperrors.NewUnauthorizedError("").WithCause(apperrors.ErrNoSession)
	}
	err := uc.api.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/auth/verify", Authenticated: true}, nil)
	if err != nil && apperrors.IsRequestFailed(err) {
		// The gateway only clears on 401; any other refusal of /auth/verify
		// also means the session is unusable.
		if clearErr := uc.store.Clear(ctx); clearErr != nil {
			uc.log.WithContext(ctx).Errorf("failed to clear rejected session: %v", clearErr)
		}
		uc.publish(ctx, eventbus.EventTypeSessionUnauthorized, 0, "verify")
	}
	return err
}

// Current returns the stored session.
func (uc *AuthUsecase) Current(ctx context.Context) (*model.Session, error) {
	return uc.store.Current(ctx)
}

func (uc *AuthUsecase) publish(ctx context.Context, eventType string, userID int64, reason string) {
	if uc.events == nil {
		return
	}
	event := eventbus.NewEvent(eventType, eventbus.SessionPayload{UserID: userID, Reason: reason}, "auth")
	if err := uc.events.Publish(ctx, event); err != nil {
		uc.log.WithContext(ctx).Errorf("failed to publish %s: %v", eventType, err)
	}
}
