package flows

// ValidateDeps captures validation dependencies.
type ValidateDeps struct {
	// Verify performs the full signature+expiry check.
	Verify func(tok string) error

	MetricInc     func(int)
	ValidMetric   int
	InvalidMetric int
}

// RunValidate is the stateless fast path: signature and expiry only, no
// store lookup, no errors outward. Revocation is enforced at the logout and
// refresh boundaries instead, trading instantaneous revocation for
// throughput.
func RunValidate(raw string, deps ValidateDeps) bool {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.Verify == nil {
		return false
	}

	tok := CanonicalToken(raw)
	if tok == "" {
		deps.MetricInc(deps.InvalidMetric)
		return false
	}

	if err := deps.Verify(tok); err != nil {
		deps.MetricInc(deps.InvalidMetric)
		return false
	}

	deps.MetricInc(deps.ValidMetric)
	return true
}
