package authgate

import (
	"net/http"
	"strings"
)

// TokenCarrier supplies the raw bearer token to logout and refresh. The
// carried value may or may not include a "Bearer " marker; the engine strips
// it before consulting the store, since records are persisted in stripped
// canonical form.
type TokenCarrier interface {
	// Token returns the carried value, or "" when none was supplied.
	Token() string
}

// RawToken carries an already-extracted token string.
type RawToken string

func (r RawToken) Token() string { return string(r) }

type requestCarrier struct {
	request *http.Request
}

// FromRequest carries the token out of r's Authorization header.
func FromRequest(r *http.Request) TokenCarrier {
	return requestCarrier{request: r}
}

func (c requestCarrier) Token() string {
	if c.request == nil {
		return ""
	}
	return strings.TrimSpace(c.request.Header.Get("Authorization"))
}
