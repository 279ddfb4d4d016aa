package authgate

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/authgate/internal/flows"
	"github.com/MrEthical07/authgate/token"
)

// Login authenticates the credentials and returns the user's bearer token.
//
// At most one token is live per user: a still-valid stored token is returned
// unchanged, an expired one is removed and replaced, and only a user with no
// stored token gets a genuinely fresh session. Bad credentials, unknown
// usernames, and disabled accounts all surface as ErrAuthenticationFailed.
func (e *Engine) Login(ctx context.Context, locale, username, password string) (string, error) {
	loc := e.resolveLocale(ctx, locale)

	result, err := flows.RunLogin(ctx, username, password, flows.LoginDeps{
		Now: e.now,
		Authenticate: func(ctx context.Context, username, password string) (flows.Principal, error) {
			p, err := e.verifier.Authenticate(ctx, username, password)
			if err != nil {
				return flows.Principal{}, err
			}
			return *p, nil
		},
		GetRecord:    e.store.GetByUsername,
		DeleteRecord: e.store.DeleteByToken,
		SaveRecord:   e.store.Save,
		IssueToken: func(p flows.Principal, now time.Time) (string, time.Time, error) {
			return e.codec.Issue(subjectOf(p), now)
		},
		MetricInc: e.metricInc,
		Info: func(msg string, args ...any) {
			e.log.Info(ctx, msg, args...)
		},
		Warn: func(msg string, args ...any) {
			e.log.Warn(ctx, msg, args...)
		},
		Metrics: flows.LoginMetrics{
			Success:    int(MetricLoginSuccess),
			Failure:    int(MetricLoginFailure),
			Reused:     int(MetricLoginReused),
			Issued:     int(MetricLoginIssued),
			StoreError: int(MetricStoreError),
		},
		Errors: flows.LoginErrors{
			EngineNotReady: ErrEngineNotReady,
			CannotSave:     ErrCannotSave,
			CannotDelete:   ErrCannotDelete,
		},
	})
	if err != nil {
		e.emitAudit(ctx, AuditEvent{
			EventType: AuditLogin,
			Username:  username,
			Success:   false,
			Error:     errText(err),
		})
		return "", e.signal(loc, err)
	}

	eventType := AuditLogin
	switch result.Outcome {
	case flows.LoginReused:
		eventType = AuditLoginReused
	case flows.LoginReissued:
		e.metrics.Inc(MetricLoginReissued)
		eventType = AuditLoginReissued
	}
	e.emitAudit(ctx, AuditEvent{
		EventType: eventType,
		Username:  username,
		Success:   true,
	})
	return result.Token, nil
}

// FindLoggedInUser resolves the identity of the principal recorded on ctx by
// an upstream token check. It returns ErrNotAuthenticated when the context
// carries no principal, and ErrUserNotFound when the account has vanished
// since the token was minted.
func (e *Engine) FindLoggedInUser(ctx context.Context, locale string) (*Identity, error) {
	loc := e.resolveLocale(ctx, locale)

	username, ok := PrincipalFromContext(ctx)
	if !ok || username == "" {
		return nil, e.signal(loc, ErrNotAuthenticated)
	}

	ident, err := e.verifier.LoadIdentity(ctx, username)
	if err != nil {
		return nil, e.signal(loc, err)
	}
	return ident, nil
}

// CurrentSession returns the stored token record for a username, or
// ErrTokenNotFound when the user has no session.
func (e *Engine) CurrentSession(ctx context.Context, locale, username string) (*token.Record, error) {
	loc := e.resolveLocale(ctx, locale)

	rec, err := e.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, token.ErrNotFound) {
			return nil, e.signal(loc, ErrTokenNotFound)
		}
		e.metrics.Inc(MetricStoreError)
		return nil, e.signal(loc, ErrCannotSave)
	}
	return rec, nil
}
