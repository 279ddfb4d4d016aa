package flows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/authgate/token"
)

// LoginOutcome records which state transition a successful login took.
type LoginOutcome int

const (
	// LoginIssued: no prior session existed, a fresh token was minted.
	LoginIssued LoginOutcome = iota
	// LoginReused: a live token existed and was returned unchanged.
	LoginReused
	// LoginReissued: the prior token had expired and was replaced.
	LoginReissued
)

// LoginResult is the flow-local login response shape.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Outcome   LoginOutcome
}

// LoginMetrics carries metric IDs needed by the login flow.
type LoginMetrics struct {
	Success    int
	Failure    int
	Reused     int
	Issued     int
	StoreError int
}

// LoginErrors carries host-level sentinel errors used by the login flow.
type LoginErrors struct {
	EngineNotReady error
	CannotSave     error
	CannotDelete   error
}

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	Now func() time.Time

	// Authenticate verifies credentials and returns the identity snapshot.
	// Its error is passed through unchanged so the host keeps control of the
	// authentication-failure kind.
	Authenticate func(ctx context.Context, username, password string) (Principal, error)

	GetRecord    func(ctx context.Context, username string) (*token.Record, error)
	DeleteRecord func(ctx context.Context, tok string) error
	SaveRecord   func(ctx context.Context, rec *token.Record) error

	IssueToken func(p Principal, now time.Time) (string, time.Time, error)

	MetricInc func(int)
	Info      func(string, ...any)
	Warn      func(string, ...any)

	Metrics LoginMetrics
	Errors  LoginErrors
}

// RunLogin executes the login state machine: authenticate, then
// reuse-or-reissue against the stored record, then mint-and-persist.
func RunLogin(ctx context.Context, username, password string, deps LoginDeps) (*LoginResult, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.Info == nil {
		deps.Info = func(string, ...any) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
	if deps.Authenticate == nil ||
		deps.GetRecord == nil ||
		deps.DeleteRecord == nil ||
		deps.SaveRecord == nil ||
		deps.IssueToken == nil {
		return nil, deps.Errors.EngineNotReady
	}

	principal, err := deps.Authenticate(ctx, username, password)
	if err != nil {
		deps.MetricInc(deps.Metrics.Failure)
		return nil, err
	}

	now := deps.Now()
	outcome := LoginIssued

	existing, err := deps.GetRecord(ctx, username)
	switch {
	case err == nil:
		if !existing.Expired(now) {
			deps.Info("token still valid, reusing", "username", username)
			deps.MetricInc(deps.Metrics.Reused)
			deps.MetricInc(deps.Metrics.Success)
			return &LoginResult{
				Token:     existing.Token,
				ExpiresAt: time.Unix(existing.ExpiresAt, 0),
				Outcome:   LoginReused,
			}, nil
		}

		deps.Info("token expired, reissuing", "username", username)
		if derr := deps.DeleteRecord(ctx, existing.Token); derr != nil && !errors.Is(derr, token.ErrNotFound) {
			deps.MetricInc(deps.Metrics.StoreError)
			return nil, fmt.Errorf("%w: %v", deps.Errors.CannotDelete, derr)
		}
		outcome = LoginReissued

	case errors.Is(err, token.ErrNotFound):
		// First session for this user.

	default:
		deps.MetricInc(deps.Metrics.StoreError)
		return nil, fmt.Errorf("%w: %v", deps.Errors.CannotSave, err)
	}

	tok, expiresAt, err := deps.IssueToken(principal, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", deps.Errors.CannotSave, err)
	}

	rec := &token.Record{
		Token:     tok,
		UserID:    principal.ID,
		Username:  principal.Username,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	if err := deps.SaveRecord(ctx, rec); err != nil {
		deps.MetricInc(deps.Metrics.StoreError)
		return nil, fmt.Errorf("%w: %v", deps.Errors.CannotSave, err)
	}

	deps.MetricInc(deps.Metrics.Issued)
	deps.MetricInc(deps.Metrics.Success)
	return &LoginResult{
		Token:     tok,
		ExpiresAt: expiresAt,
		Outcome:   outcome,
	}, nil
}
