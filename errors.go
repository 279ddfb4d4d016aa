package authgate

import "errors"

// The closed set of failure kinds crossing the engine boundary. Raw storage
// and crypto errors never escape; they are wrapped into one of these and
// matched with errors.Is.
var (
	// ErrAuthenticationFailed covers bad credentials and disabled accounts
	// alike, so a failed login never reveals whether the username existed.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrTokenNotFound is returned on logout/refresh when a token was
	// presented but no record conclusively matches it.
	ErrTokenNotFound = errors.New("token not found")
	// ErrTokenExpired marks an expired token. It only surfaces inside the
	// login flow, where it triggers reissue rather than propagating.
	ErrTokenExpired = errors.New("token expired")
	// ErrUserNotFound means the account vanished between token issuance and
	// refresh.
	ErrUserNotFound = errors.New("user not found")
	// ErrCannotSave wraps persistence failures during issuance.
	ErrCannotSave = errors.New("cannot save token")
	// ErrCannotDelete wraps persistence failures during revocation.
	ErrCannotDelete = errors.New("cannot delete token")
	// ErrNotAuthenticated is returned by FindLoggedInUser when no principal
	// was established on the context by upstream request authentication.
	ErrNotAuthenticated = errors.New("no authenticated principal")
	// ErrEngineNotReady is returned when a required collaborator is missing.
	ErrEngineNotReady = errors.New("engine not ready")
)
