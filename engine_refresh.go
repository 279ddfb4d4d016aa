package authgate

import (
	"context"
	"time"

	"github.com/MrEthical07/authgate/internal/flows"
)

// RefreshToken exchanges the carried token for a live one. A token that has
// not expired yet is returned unchanged; an expired token is rotated, its
// record replaced atomically with the replacement. The subject's account
// must still exist, or ErrUserNotFound is returned.
func (e *Engine) RefreshToken(ctx context.Context, locale string, carrier TokenCarrier) (string, error) {
	loc := e.resolveLocale(ctx, locale)

	raw := ""
	if carrier != nil {
		raw = carrier.Token()
	}

	result, err := flows.RunRefresh(ctx, raw, flows.RefreshDeps{
		Now:               e.now,
		ExtractUsername:   e.codec.ExtractUsername,
		ExtractExpiration: e.codec.ExtractExpiration,
		IsExpired:         e.codec.IsExpired,
		LoadPrincipal: func(ctx context.Context, username string) (flows.Principal, error) {
			user, err := e.verifier.users.FindByUsername(ctx, username)
			if err != nil {
				return flows.Principal{}, ErrUserNotFound
			}
			return flows.Principal{
				ID:          user.ID,
				Username:    user.Username,
				Name:        user.Name,
				Role:        user.Role,
				Authorities: user.Permissions,
			}, nil
		},
		DeleteRecord: e.store.DeleteByToken,
		SaveRecord:   e.store.Save,
		Reissue: func(oldToken string, p flows.Principal, now time.Time) (string, time.Time, error) {
			return e.codec.Refresh(oldToken, subjectOf(p), now)
		},
		MetricInc: e.metricInc,
		Info: func(msg string, args ...any) {
			e.log.Info(ctx, msg, args...)
		},
		Metrics: flows.RefreshMetrics{
			Rotated:    int(MetricRefreshRotated),
			Noop:       int(MetricRefreshNoop),
			Failure:    int(MetricRefreshFailure),
			StoreError: int(MetricStoreError),
		},
		Errors: flows.RefreshErrors{
			EngineNotReady: ErrEngineNotReady,
			TokenNotFound:  ErrTokenNotFound,
			CannotSave:     ErrCannotSave,
			CannotDelete:   ErrCannotDelete,
		},
	})
	if err != nil {
		e.emitAudit(ctx, AuditEvent{
			EventType: AuditRefresh,
			Success:   false,
			Error:     errText(err),
		})
		return "", e.signal(loc, err)
	}

	if result.Rotated {
		e.emitAudit(ctx, AuditEvent{
			EventType: AuditRefresh,
			Success:   true,
			Metadata:  map[string]string{"rotated": "true"},
		})
	}
	return result.Token, nil
}
