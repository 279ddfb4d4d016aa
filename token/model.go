package token

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no record matches the lookup key.
	ErrNotFound = errors.New("token record not found")
	// ErrUnavailable wraps backend connectivity failures.
	ErrUnavailable = errors.New("token store unavailable")
	// ErrCorrupt is returned when a stored record blob cannot be decoded.
	ErrCorrupt = errors.New("token record corrupt")
)

// Record is the persisted token tuple. Token strings are stored in canonical
// form, without any scheme prefix.
type Record struct {
	Token     string
	UserID    int64
	Username  string
	IssuedAt  int64
	ExpiresAt int64
}

// Expired reports whether the record's token expiry is at or before now.
func (r *Record) Expired(now time.Time) bool {
	return r.ExpiresAt <= now.Unix()
}
