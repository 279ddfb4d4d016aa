package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a Postgres-backed [Store]. It expects the following table,
// owned by the host application's migrations:
//
//	CREATE TABLE user_tokens (
//	    user_id    BIGINT      PRIMARY KEY,
//	    username   TEXT        NOT NULL UNIQUE,
//	    token      TEXT        NOT NULL UNIQUE,
//	    issued_at  TIMESTAMPTZ NOT NULL,
//	    expires_at TIMESTAMPTZ NOT NULL
//	);
//
// The primary key on user_id is what enforces the single-session invariant:
// Save upserts with ON CONFLICT, so concurrent logins serialize on the row
// and exactly one token survives.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore wraps an existing connection pool. The store never closes
// the pool; its lifecycle belongs to the caller.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Save(ctx context.Context, rec *Record) error {
	const query = `
		INSERT INTO user_tokens (user_id, username, token, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			username   = EXCLUDED.username,
			token      = EXCLUDED.token,
			issued_at  = EXCLUDED.issued_at,
			expires_at = EXCLUDED.expires_at`

	_, err := s.pool.Exec(ctx, query,
		rec.UserID,
		rec.Username,
		rec.Token,
		time.Unix(rec.IssuedAt, 0).UTC(),
		time.Unix(rec.ExpiresAt, 0).UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) GetByUsername(ctx context.Context, username string) (*Record, error) {
	const query = `
		SELECT user_id, username, token, issued_at, expires_at
		FROM user_tokens
		WHERE username = $1`

	var (
		rec       Record
		issuedAt  time.Time
		expiresAt time.Time
	)
	err := s.pool.QueryRow(ctx, query, username).Scan(
		&rec.UserID, &rec.Username, &rec.Token, &issuedAt, &expiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	rec.IssuedAt = issuedAt.Unix()
	rec.ExpiresAt = expiresAt.Unix()
	return &rec, nil
}

func (s *PostgresStore) ExistsByToken(ctx context.Context, tok string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM user_tokens WHERE token = $1)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, tok).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return exists, nil
}

func (s *PostgresStore) DeleteByToken(ctx context.Context, tok string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM user_tokens WHERE token = $1`, tok)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteByUserID(ctx context.Context, userID int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM user_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// ReapExpired deletes records whose retention window has fully elapsed. The
// Redis backend expires records on its own; for Postgres the host should run
// this periodically.
func (s *PostgresStore) ReapExpired(ctx context.Context, now time.Time, retention time.Duration) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM user_tokens WHERE expires_at < $1`,
		now.Add(-retention).UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return tag.RowsAffected(), nil
}
