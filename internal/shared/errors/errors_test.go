package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Behavior(t *testing.T) {
	err := NewRequestFailedError("opportunity not found", http.StatusNotFound).
		WithCode("REQ404").WithDetail("path", "/opportunities/save/9").WithComponent("gateway")
	assert.Equal(t, ErrorTypeRequestFailed, err.Type)
	assert.Equal(t, "opportunity not found", err.Message)
	assert.Equal(t, "REQ404", err.Code)
	assert.Equal(t, "gateway", err.Component)
	assert.Equal(t, http.StatusNotFound, err.HTTPCode)
	assert.Equal(t, "/opportunities/save/9", err.Details["path"])
	assert.Equal(t, "opportunity not found", err.Error())
}

func TestAppError_WithCause_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewNetworkError(cause)
	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, err.Retryable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestConstructors_Fallbacks(t *testing.T) {
	assert.Equal(t, RequestFailedMessage, NewRequestFailedError("", 500).Message)
	assert.Equal(t, SessionExpiredMsg, NewUnauthorizedError("").Message)
	assert.Equal(t, "bad credentials", NewUnauthorizedError("bad credentials").Message)
}

func TestValidationErrors(t *testing.T) {
	ve := NewValidationErrors()
	assert.Nil(t, ve.ToAppError())
	ve.Add("email", "Please enter a valid email address", "nope")
	ve.Add("password", "Password is required", "")
	assert.True(t, ve.HasErrors())
	appErr := ve.ToAppError()
	assert.NotNil(t, appErr)
	assert.Equal(t, ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "Please enter a valid email address", appErr.Message)
	assert.ErrorIs(t, appErr, ErrInvalidInput)
}

func TestPredicates(t *testing.T) {
	netErr := NewNetworkError(errors.New("timeout"))
	assert.True(t, IsNetwork(netErr))
	assert.True(t, IsRetryable(netErr))
	assert.False(t, IsUnauthorized(netErr))

	unauth := NewUnauthorizedError("expired")
	assert.True(t, IsUnauthorized(unauth))
	assert.False(t, IsRetryable(unauth))
	assert.True(t, IsUnauthorized(ErrNoSession))

	failed := NewRequestFailedError("nope", 500)
	assert.True(t, IsRequestFailed(failed))
	assert.False(t, IsValidation(failed))

	assert.True(t, IsValidation(NewValidationError("query must not be empty")))

	wrapped := fmt.Errorf("load opportunities: %w", failed)
	assert.True(t, IsRequestFailed(wrapped))
}

func TestWrapError(t *testing.T) {
	classified := NewValidationError("bad")
	assert.Same(t, classified, WrapError(fmt.Errorf("ctx: %w", classified), "ignored"))

	plain := errors.New("boom")
	wrapped := WrapError(plain, "decode profile")
	assert.Equal(t, ErrorTypeInternal, wrapped.Type)
	assert.ErrorIs(t, wrapped, plain)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, NetworkMessage, UserMessage(NewNetworkError(errors.New("x"))))
	assert.Equal(t, "bad credentials", UserMessage(NewUnauthorizedError("bad credentials")))
	assert.Equal(t, "Query must not be empty", UserMessage(NewValidationError("Query must not be empty")))
	assert.Equal(t, SessionExpiredMsg, UserMessage(ErrNoSession))
	assert.Equal(t, RequestFailedMessage, UserMessage(errors.New("anything")))
	assert.Equal(t, RequestFailedMessage, UserMessage(NewInternalError("decode")))
}

func TestUserMessageOr(t *testing.T) {
	const fallback = "Login failed. Please try again."
	assert.Equal(t, fallback, UserMessageOr(NewRequestFailedError("", 500), fallback))
	assert.Equal(t, "email taken", UserMessageOr(NewRequestFailedError("email taken", 400), fallback))
	assert.Equal(t, NetworkMessage, UserMessageOr(NewNetworkError(errors.New("x")), fallback))

	assert.Equal(t, fallback, UserMessageOr(NewUnauthorizedError("").WithCode(CodeNoDetail), fallback))
	assert.Equal(t, SessionExpiredMsg, UserMessageOr(NewUnauthorizedError(""), fallback))
	assert.Equal(t, "bad credentials", UserMessageOr(NewUnauthorizedError("bad credentials"), fallback))
}
