package authgate

import (
	"context"
	"time"

	"github.com/MrEthical07/authgate/internal/flows"
	"github.com/MrEthical07/authgate/jwt"
	"github.com/MrEthical07/authgate/language"
	"github.com/MrEthical07/authgate/logging"
	"github.com/MrEthical07/authgate/token"
)

// Engine is the authentication facade. It owns the token codec, the token
// store, the credential verifier, and the ambient services (logging, metrics,
// audit, localization), and exposes the session lifecycle operations.
//
// An Engine is built once via [New] and is safe for concurrent use.
type Engine struct {
	config   Config
	codec    *jwt.Manager
	store    token.Store
	verifier *Verifier
	catalog  *language.Catalog
	log      logging.Logger
	metrics  *Metrics
	audit    *auditDispatcher
	now      func() time.Time

	closers []func() error
}

// Close flushes the audit queue and releases any connections the builder
// opened. Stores and sinks injected by the caller are not touched.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	e.audit.Close()
	var first error
	for _, fn := range e.closers {
		if err := fn(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// MetricsSnapshot returns a copy of the engine's counters, including the
// audit drop count.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	snap := e.metrics.Snapshot()
	if e.metrics.Enabled() && e.audit != nil {
		snap.Counters[MetricAuditDropped] = e.audit.Dropped()
	}
	return snap
}

// AuditDropped reports how many audit events were discarded under load.
func (e *Engine) AuditDropped() uint64 {
	return e.audit.Dropped()
}

// TokenTTL returns the configured token lifetime.
func (e *Engine) TokenTTL() time.Duration {
	return e.codec.TTL()
}

func (e *Engine) metricInc(id int) {
	e.metrics.Inc(MetricID(id))
}

// resolveLocale prefers the explicit locale argument, falls back to the
// request context, then to the configured default.
func (e *Engine) resolveLocale(ctx context.Context, locale string) string {
	if locale == "" {
		locale = localeFromContext(ctx)
	}
	return e.catalog.Locale(locale)
}

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent) {
	if e.audit == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = e.now()
	}
	if event.IP == "" {
		event.IP = clientIPFromContext(ctx)
	}
	e.audit.Emit(ctx, event)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func subjectOf(p flows.Principal) jwt.Subject {
	return jwt.Subject{
		Username:    p.Username,
		Name:        p.Name,
		Role:        p.Role,
		Authorities: p.Authorities,
	}
}
