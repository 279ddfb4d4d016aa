package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SigningMethod selects the token signature algorithm.
type SigningMethod string

const (
	// MethodEd25519 signs with EdDSA over Curve25519 (default).
	MethodEd25519 SigningMethod = "ed25519"
	// MethodHS256 signs with HMAC-SHA256 using a shared secret.
	MethodHS256 SigningMethod = "hs256"
)

var (
	// ErrMalformed is returned when a token is structurally unparsable.
	ErrMalformed = errors.New("token malformed")
	// ErrInvalidSignature is returned when the signature check fails.
	ErrInvalidSignature = errors.New("token signature invalid")
	// ErrExpired is returned by Verify when the token is past its expiry.
	ErrExpired = errors.New("token expired")
)

// Config holds codec parameters.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	TTL           time.Duration
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration

	// Now overrides the verification clock. Zero value means time.Now.
	// Issuance always uses the explicit now argument.
	Now func() time.Time
}

// Subject is the identity snapshot a token is minted for.
type Subject struct {
	Username    string
	Name        string
	Role        string
	Authorities []string
}

// Claims is the signed token payload.
type Claims struct {
	Name        string   `json:"name,omitempty"`
	Role        string   `json:"role,omitempty"`
	Authorities []string `json:"authorities,omitempty"`
	jwt.RegisteredClaims
}

// Manager encodes, signs, and verifies bearer tokens.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a codec.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) == 0 {
			return nil, errors.New("hs256 requires a signing key")
		}
	case MethodEd25519:
		if _, err := parseEdPrivateKey(cfg.PrivateKey); err != nil {
			return nil, err
		}
		if len(cfg.PublicKey) > 0 {
			if _, err := parseEdPublicKey(cfg.PublicKey); err != nil {
				return nil, err
			}
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return &Manager{config: cfg}, nil
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.config.TTL
}

// Issue mints a signed token for sub with expiry now + TTL. It returns the
// compact token string and its expiry instant.
func (m *Manager) Issue(sub Subject, now time.Time) (string, time.Time, error) {
	if strings.TrimSpace(sub.Username) == "" {
		return "", time.Time{}, errors.New("empty subject username")
	}

	expiresAt := now.Add(m.config.TTL)
	claims := Claims{
		Name:        sub.Name,
		Role:        sub.Role,
		Authorities: sub.Authorities,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	if m.config.Issuer != "" {
		claims.Issuer = m.config.Issuer
	}

	token := jwt.NewWithClaims(m.getMethod(), claims)
	signKey, err := m.getSignKey()
	if err != nil {
		return "", time.Time{}, err
	}

	signed, err := token.SignedString(signKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Refresh re-issues a token for sub with a fresh expiry. oldToken only needs
// to be structurally valid; an expired signature-valid token is acceptable,
// since refresh is exactly the path that outlives expiry.
func (m *Manager) Refresh(oldToken string, sub Subject, now time.Time) (string, time.Time, error) {
	if _, err := m.decodeUnverified(oldToken); err != nil {
		return "", time.Time{}, err
	}
	return m.Issue(sub, now)
}

// Verify checks signature, structure, and expiry, returning the decoded
// claims. Failures map to [ErrMalformed], [ErrInvalidSignature], or
// [ErrExpired]; other registered-claim violations surface as
// [ErrInvalidSignature] since the token cannot be trusted.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.getMethod().Alg()}),
		jwt.WithTimeFunc(m.config.Now),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != m.getMethod().Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return m.getVerifyKey()
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrExpired, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSignature
	}
	return claims, nil
}

// ExtractUsername decodes the subject without verifying the signature.
func (m *Manager) ExtractUsername(tokenStr string) (string, error) {
	claims, err := m.decodeUnverified(tokenStr)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrMalformed)
	}
	return claims.Subject, nil
}

// ExtractExpiration decodes the expiry without verifying the signature.
func (m *Manager) ExtractExpiration(tokenStr string) (time.Time, error) {
	claims, err := m.decodeUnverified(tokenStr)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: missing expiry", ErrMalformed)
	}
	return claims.ExpiresAt.Time, nil
}

// IsExpired reports whether the token's embedded expiry is at or before now.
// Structural decode failures are returned as errors, not treated as expired.
func (m *Manager) IsExpired(tokenStr string, now time.Time) (bool, error) {
	expiresAt, err := m.ExtractExpiration(tokenStr)
	if err != nil {
		return false, err
	}
	return !expiresAt.After(now), nil
}

func (m *Manager) decodeUnverified(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return claims, nil
}

func (m *Manager) getMethod() jwt.SigningMethod {
	switch m.config.SigningMethod {
	case MethodHS256:
		return jwt.SigningMethodHS256
	default:
		return jwt.SigningMethodEdDSA
	}
}

func (m *Manager) getSignKey() (interface{}, error) {
	switch m.config.SigningMethod {
	case MethodHS256:
		return m.config.PrivateKey, nil
	default:
		return parseEdPrivateKey(m.config.PrivateKey)
	}
}

func (m *Manager) getVerifyKey() (interface{}, error) {
	switch m.config.SigningMethod {
	case MethodHS256:
		return m.config.PrivateKey, nil
	default:
		if len(m.config.PublicKey) > 0 {
			return parseEdPublicKey(m.config.PublicKey)
		}
		priv, err := parseEdPrivateKey(m.config.PrivateKey)
		if err != nil {
			return nil, err
		}
		return priv.Public(), nil
	}
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
