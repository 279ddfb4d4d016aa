package authgate

import (
	"errors"
	"net/http"
)

// AuthError is the localizable envelope around a sentinel error kind. The
// boundary layer renders Message to the caller and maps Status onto its
// transport; the engine itself only ever branches on the kind.
type AuthError struct {
	kind    error
	key     string
	status  int
	locale  string
	message string
}

// Error returns the localized message.
func (e *AuthError) Error() string { return e.message }

// Unwrap exposes the sentinel kind so errors.Is sees through the envelope.
func (e *AuthError) Unwrap() error { return e.kind }

// MessageKey returns the localization key, e.g. "token.not.found".
func (e *AuthError) MessageKey() string { return e.key }

// Status returns the HTTP-equivalent severity of the failure.
func (e *AuthError) Status() int { return e.status }

// Locale returns the normalized locale the message was rendered in.
func (e *AuthError) Locale() string { return e.locale }

type kindInfo struct {
	kind   error
	key    string
	status int
}

// Order matters: wrapped chains are matched top to bottom and the first hit
// wins.
var kindTable = []kindInfo{
	{ErrAuthenticationFailed, "auth.bad.credentials", http.StatusUnauthorized},
	{ErrTokenExpired, "token.expired", http.StatusUnauthorized},
	{ErrTokenNotFound, "token.not.found", http.StatusNotFound},
	{ErrUserNotFound, "user.not.found", http.StatusNotFound},
	{ErrNotAuthenticated, "auth.not.authenticated", http.StatusUnauthorized},
	{ErrCannotSave, "token.save.failed", http.StatusInternalServerError},
	{ErrCannotDelete, "token.delete.failed", http.StatusInternalServerError},
	{ErrEngineNotReady, "engine.not.ready", http.StatusInternalServerError},
}

// signal wraps err into an [*AuthError] for the given locale. Errors that are
// already signaled, nil errors, and unknown kinds (which should not occur)
// pass through unchanged.
func (e *Engine) signal(locale string, err error) error {
	if err == nil {
		return nil
	}
	var existing *AuthError
	if errors.As(err, &existing) {
		return err
	}

	for _, info := range kindTable {
		if errors.Is(err, info.kind) {
			normalized := e.catalog.Locale(locale)
			return &AuthError{
				kind:    info.kind,
				key:     info.key,
				status:  info.status,
				locale:  normalized,
				message: e.catalog.Message(info.key, normalized),
			}
		}
	}
	return err
}
