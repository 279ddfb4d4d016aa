package authgate

import (
	"github.com/MrEthical07/authgate/internal/flows"
)

// ValidateToken reports whether the token's signature and expiry check out.
// This is the stateless fast path: no store lookup is made, so a token
// removed by logout stays acceptable here until its expiry passes.
// Revocation is enforced by the login, logout, and refresh boundaries.
func (e *Engine) ValidateToken(tok string) bool {
	start := e.now()

	ok := flows.RunValidate(tok, flows.ValidateDeps{
		Verify: func(t string) error {
			_, err := e.codec.Verify(t)
			return err
		},
		MetricInc:     e.metricInc,
		ValidMetric:   int(MetricValidateValid),
		InvalidMetric: int(MetricValidateInvalid),
	})

	e.metrics.Observe(MetricValidateLatency, e.now().Sub(start))
	return ok
}

// Subject decodes the username a token was minted for without verifying it.
// Intended for logging and diagnostics only; use ValidateToken before
// trusting anything about the token.
func (e *Engine) Subject(tok string) (string, error) {
	return e.codec.ExtractUsername(flows.CanonicalToken(tok))
}
