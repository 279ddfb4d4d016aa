package flows

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/authgate/token"
)

// LogoutErrors carries host-level sentinel errors used by the logout flow.
type LogoutErrors struct {
	EngineNotReady error
	TokenNotFound  error
	CannotDelete   error
}

// LogoutDeps captures logout flow dependencies.
type LogoutDeps struct {
	ExistsByToken func(ctx context.Context, tok string) (bool, error)
	DeleteByToken func(ctx context.Context, tok string) error

	MetricInc func(int)
	Info      func(string, ...any)
	Warn      func(string, ...any)

	LogoutMetric int
	Errors       LogoutErrors
}

// RunLogout deletes the record owning raw's token. A missing token in the
// carrier is a tolerated no-op; a conclusively absent record is
// TokenNotFound. Records are stored in canonical (stripped) form, but the
// raw form is retried for records written before canonicalization.
func RunLogout(ctx context.Context, raw string, deps LogoutDeps) error {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.Info == nil {
		deps.Info = func(string, ...any) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, ...any) {}
	}
	if deps.ExistsByToken == nil || deps.DeleteByToken == nil {
		return deps.Errors.EngineNotReady
	}

	if raw == "" {
		deps.Warn("no token found in request")
		return nil
	}

	canonical := CanonicalToken(raw)
	candidates := []string{canonical}
	if raw != canonical {
		candidates = append(candidates, raw)
	}

	for _, candidate := range candidates {
		exists, err := deps.ExistsByToken(ctx, candidate)
		if err != nil {
			return fmt.Errorf("%w: %v", deps.Errors.CannotDelete, err)
		}
		if !exists {
			continue
		}

		if err := deps.DeleteByToken(ctx, candidate); err != nil {
			if errors.Is(err, token.ErrNotFound) {
				// Lost a race with another logout; the record is gone either way.
				break
			}
			return fmt.Errorf("%w: %v", deps.Errors.CannotDelete, err)
		}

		deps.Info("token invalidated")
		deps.MetricInc(deps.LogoutMetric)
		return nil
	}

	return deps.Errors.TokenNotFound
}
