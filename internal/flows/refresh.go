package flows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/authgate/token"
)

// RefreshResult carries the surviving or replacement token.
type RefreshResult struct {
	Token     string
	ExpiresAt time.Time
	Rotated   bool
}

// RefreshMetrics carries metric IDs needed by the refresh flow.
type RefreshMetrics struct {
	Rotated    int
	Noop       int
	Failure    int
	StoreError int
}

// RefreshErrors carries host-level sentinel errors used by the refresh flow.
type RefreshErrors struct {
	EngineNotReady error
	TokenNotFound  error
	CannotSave     error
	CannotDelete   error
}

// RefreshDeps captures refresh flow dependencies.
type RefreshDeps struct {
	Now func() time.Time

	ExtractUsername   func(tok string) (string, error)
	ExtractExpiration func(tok string) (time.Time, error)
	IsExpired         func(tok string, now time.Time) (bool, error)

	// LoadPrincipal fetches a fresh identity for the token's subject. Its
	// error is passed through unchanged (the host maps user-not-found).
	LoadPrincipal func(ctx context.Context, username string) (Principal, error)

	DeleteRecord func(ctx context.Context, tok string) error
	SaveRecord   func(ctx context.Context, rec *token.Record) error
	Reissue      func(oldToken string, p Principal, now time.Time) (string, time.Time, error)

	MetricInc func(int)
	Info      func(string, ...any)

	Metrics RefreshMetrics
	Errors  RefreshErrors
}

// RunRefresh executes the refresh state machine: decode the subject from the
// old token, reload the identity, and either return the still-valid token
// unchanged or rotate an expired one.
func RunRefresh(ctx context.Context, raw string, deps RefreshDeps) (*RefreshResult, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.Info == nil {
		deps.Info = func(string, ...any) {}
	}
	if deps.ExtractUsername == nil ||
		deps.ExtractExpiration == nil ||
		deps.IsExpired == nil ||
		deps.LoadPrincipal == nil ||
		deps.DeleteRecord == nil ||
		deps.SaveRecord == nil ||
		deps.Reissue == nil {
		return nil, deps.Errors.EngineNotReady
	}

	if raw == "" {
		deps.MetricInc(deps.Metrics.Failure)
		return nil, deps.Errors.TokenNotFound
	}
	oldToken := CanonicalToken(raw)

	// Subject extraction only needs structural validity; expired tokens are
	// exactly what this path exists for.
	username, err := deps.ExtractUsername(oldToken)
	if err != nil {
		deps.MetricInc(deps.Metrics.Failure)
		return nil, fmt.Errorf("%w: %v", deps.Errors.TokenNotFound, err)
	}

	principal, err := deps.LoadPrincipal(ctx, username)
	if err != nil {
		deps.MetricInc(deps.Metrics.Failure)
		return nil, err
	}

	now := deps.Now()
	expired, err := deps.IsExpired(oldToken, now)
	if err != nil {
		deps.MetricInc(deps.Metrics.Failure)
		return nil, fmt.Errorf("%w: %v", deps.Errors.TokenNotFound, err)
	}

	if !expired {
		expiresAt, err := deps.ExtractExpiration(oldToken)
		if err != nil {
			deps.MetricInc(deps.Metrics.Failure)
			return nil, fmt.Errorf("%w: %v", deps.Errors.TokenNotFound, err)
		}
		deps.MetricInc(deps.Metrics.Noop)
		return &RefreshResult{
			Token:     oldToken,
			ExpiresAt: expiresAt,
		}, nil
	}

	if err := deps.DeleteRecord(ctx, oldToken); err != nil {
		if errors.Is(err, token.ErrNotFound) {
			deps.MetricInc(deps.Metrics.Failure)
			return nil, deps.Errors.TokenNotFound
		}
		deps.MetricInc(deps.Metrics.StoreError)
		return nil, fmt.Errorf("%w: %v", deps.Errors.CannotDelete, err)
	}

	newToken, expiresAt, err := deps.Reissue(oldToken, principal, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", deps.Errors.CannotSave, err)
	}

	rec := &token.Record{
		Token:     newToken,
		UserID:    principal.ID,
		Username:  principal.Username,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	if err := deps.SaveRecord(ctx, rec); err != nil {
		deps.MetricInc(deps.Metrics.StoreError)
		return nil, fmt.Errorf("%w: %v", deps.Errors.CannotSave, err)
	}

	deps.Info("token rotated on refresh", "username", username)
	deps.MetricInc(deps.Metrics.Rotated)
	return &RefreshResult{
		Token:     newToken,
		ExpiresAt: expiresAt,
		Rotated:   true,
	}, nil
}
