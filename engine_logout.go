package authgate

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/authgate/internal/flows"
	"github.com/MrEthical07/authgate/token"
)

// Logout removes the session owning the carried token. An empty carrier is a
// tolerated no-op; a token with no stored record comes back as
// ErrTokenNotFound. The carried value may include a "Bearer " marker.
func (e *Engine) Logout(ctx context.Context, locale string, carrier TokenCarrier) error {
	loc := e.resolveLocale(ctx, locale)

	raw := ""
	if carrier != nil {
		raw = carrier.Token()
	}

	err := flows.RunLogout(ctx, raw, flows.LogoutDeps{
		ExistsByToken: e.store.ExistsByToken,
		DeleteByToken: e.store.DeleteByToken,
		MetricInc:     e.metricInc,
		Info: func(msg string, args ...any) {
			e.log.Info(ctx, msg, args...)
		},
		Warn: func(msg string, args ...any) {
			e.log.Warn(ctx, msg, args...)
		},
		LogoutMetric: int(MetricLogout),
		Errors: flows.LogoutErrors{
			EngineNotReady: ErrEngineNotReady,
			TokenNotFound:  ErrTokenNotFound,
			CannotDelete:   ErrCannotDelete,
		},
	})
	if err != nil {
		e.emitAudit(ctx, AuditEvent{
			EventType: AuditLogout,
			Success:   false,
			Error:     errText(err),
		})
		return e.signal(loc, err)
	}
	if raw != "" {
		e.emitAudit(ctx, AuditEvent{
			EventType: AuditLogout,
			Success:   true,
		})
	}
	return nil
}

// LogoutByUserID removes a user's session by numeric id. Administrative
// path: a user with no session is a tolerated no-op, not an error.
func (e *Engine) LogoutByUserID(ctx context.Context, locale string, userID int64) error {
	loc := e.resolveLocale(ctx, locale)

	if err := e.store.DeleteByUserID(ctx, userID); err != nil {
		if errors.Is(err, token.ErrNotFound) {
			e.log.Info(ctx, "no session to remove", "user_id", userID)
			return nil
		}
		e.metrics.Inc(MetricStoreError)
		return e.signal(loc, fmt.Errorf("%w: %v", ErrCannotDelete, err))
	}

	e.log.Info(ctx, "session removed by user id", "user_id", userID)
	e.metrics.Inc(MetricLogoutByUser)
	e.emitAudit(ctx, AuditEvent{
		EventType: AuditLogoutByUser,
		UserID:    userID,
		Success:   true,
	})
	return nil
}
