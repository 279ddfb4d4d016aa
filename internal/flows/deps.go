package flows

import "strings"

// Principal is the flow-local identity snapshot used to mint token claims.
type Principal struct {
	ID          int64
	Username    string
	Name        string
	Role        string
	Authorities []string
}

const bearerPrefix = "Bearer "

// CanonicalToken strips an optional "Bearer " marker. Tokens are stored in
// stripped form; callers may hand either form to logout/refresh.
func CanonicalToken(raw string) string {
	if strings.HasPrefix(raw, bearerPrefix) {
		return strings.TrimSpace(raw[len(bearerPrefix):])
	}
	return strings.TrimSpace(raw)
}
