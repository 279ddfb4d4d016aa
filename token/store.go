package token

import "context"

// Store is the persistence port for token records.
//
// Save must atomically replace any prior record for the same user id; see the
// package documentation for how each backend guarantees this.
type Store interface {
	// GetByUsername returns the live record for username, or ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*Record, error)

	// ExistsByToken reports whether a record with this exact token exists.
	ExistsByToken(ctx context.Context, tok string) (bool, error)

	// Save upserts rec, replacing any prior record owned by rec.UserID.
	Save(ctx context.Context, rec *Record) error

	// DeleteByToken removes the record with this token, or returns
	// ErrNotFound when no such record exists.
	DeleteByToken(ctx context.Context, tok string) error

	// DeleteByUserID removes the user's record if present. Absence is not an
	// error; this is the administrative logout path.
	DeleteByUserID(ctx context.Context, userID int64) error
}
