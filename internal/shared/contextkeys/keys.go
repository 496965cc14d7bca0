package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "careerhub-client context key " + string(c)
}

const (
	// UserIDKey carries the signed-in user's id, formatted as a string.
	UserIDKey = contextKey("userID")
	// RequestIDKey carries the X-Request-ID of the outgoing API call.
	RequestIDKey = contextKey("requestID")
	ComponentKey = contextKey("component")
	OperationKey = contextKey("operation")
	// RouteKey carries the view the user is on when the call was made.
	RouteKey = contextKey("route")
)
