package authgate

import "context"

type principalContextKey struct{}
type localeContextKey struct{}
type clientIPContextKey struct{}

// WithPrincipal attaches the authenticated username to ctx. Upstream request
// authentication establishes it after a successful ValidateToken;
// [Engine.FindLoggedInUser] reads it back. There is deliberately no ambient
// global equivalent.
func WithPrincipal(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, principalContextKey{}, username)
}

// PrincipalFromContext returns the username attached by [WithPrincipal].
func PrincipalFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	username, _ := ctx.Value(principalContextKey{}).(string)
	return username, username != ""
}

// WithLocale attaches the caller's preferred locale to ctx. An explicit
// locale argument on an Engine method takes precedence.
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeContextKey{}, locale)
}

// WithClientIP attaches the caller's IP address to ctx for audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

func localeFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	locale, _ := ctx.Value(localeContextKey{}).(string)
	return locale
}

func clientIPFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}
