package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestManager(t *testing.T, mutate func(*Config)) *Manager {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("key generation failed: %v", err)
	}

	cfg := Config{
		TTL:           time.Hour,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		Issuer:        "authgate-test",
	}
	if mutate != nil {
		mutate(&cfg)
	}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func testSubject() Subject {
	return Subject{
		Username:    "alice",
		Name:        "Alice Doe",
		Role:        "ADMIN",
		Authorities: []string{"READ_ALL", "WRITE_ALL"},
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := newTestManager(t, nil)
	now := time.Now()

	tok, expiresAt, err := m.Issue(testSubject(), now)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if want := now.Add(time.Hour); !expiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, expiresAt)
	}

	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("expected subject alice, got %q", claims.Subject)
	}
	if claims.Role != "ADMIN" {
		t.Fatalf("expected role ADMIN, got %q", claims.Role)
	}
	if claims.Name != "Alice Doe" {
		t.Fatalf("expected name claim, got %q", claims.Name)
	}
	if len(claims.Authorities) != 2 {
		t.Fatalf("expected 2 authorities, got %v", claims.Authorities)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti claim")
	}
}

func TestIssueHS256(t *testing.T) {
	m := newTestManager(t, func(cfg *Config) {
		cfg.SigningMethod = MethodHS256
		cfg.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	})

	tok, _, err := m.Issue(testSubject(), time.Now())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := m.Verify(tok); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	m := newTestManager(t, nil)

	tok, _, err := m.Issue(testSubject(), time.Now())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", tok)
	}
	// Flip a payload byte; signature no longer covers the content.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := m.Verify(tampered); !errors.Is(err, ErrInvalidSignature) && !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected signature or malformed error, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(t, nil)

	if _, err := m.Verify("definitely-not-a-jwt"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	clock := time.Now()
	m := newTestManager(t, func(cfg *Config) {
		cfg.Now = func() time.Time { return clock }
	})

	tok, _, err := m.Issue(testSubject(), clock.Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := m.Verify(tok); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestExtractFromExpiredToken(t *testing.T) {
	m := newTestManager(t, nil)
	issuedAt := time.Now().Add(-2 * time.Hour)

	tok, expiresAt, err := m.Issue(testSubject(), issuedAt)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	username, err := m.ExtractUsername(tok)
	if err != nil {
		t.Fatalf("ExtractUsername failed: %v", err)
	}
	if username != "alice" {
		t.Fatalf("expected alice, got %q", username)
	}

	got, err := m.ExtractExpiration(tok)
	if err != nil {
		t.Fatalf("ExtractExpiration failed: %v", err)
	}
	if got.Unix() != expiresAt.Unix() {
		t.Fatalf("expected expiry %v, got %v", expiresAt, got)
	}

	expired, err := m.IsExpired(tok, time.Now())
	if err != nil {
		t.Fatalf("IsExpired failed: %v", err)
	}
	if !expired {
		t.Fatal("expected token to be expired")
	}
}

func TestIsExpiredFreshToken(t *testing.T) {
	m := newTestManager(t, nil)
	now := time.Now()

	tok, _, err := m.Issue(testSubject(), now)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	expired, err := m.IsExpired(tok, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("IsExpired failed: %v", err)
	}
	if expired {
		t.Fatal("expected token to still be valid")
	}
}

func TestRefreshMintsFreshExpiry(t *testing.T) {
	m := newTestManager(t, nil)
	issuedAt := time.Now().Add(-2 * time.Hour)

	old, _, err := m.Issue(testSubject(), issuedAt)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	now := time.Now()
	fresh, expiresAt, err := m.Refresh(old, testSubject(), now)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if fresh == old {
		t.Fatal("expected a new token string")
	}
	if want := now.Add(time.Hour); !expiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, expiresAt)
	}
	if _, err := m.Verify(fresh); err != nil {
		t.Fatalf("Verify of refreshed token failed: %v", err)
	}
}

func TestRefreshRejectsGarbageOldToken(t *testing.T) {
	m := newTestManager(t, nil)

	if _, _, err := m.Refresh("garbage", testSubject(), time.Now()); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestIssueRejectsEmptySubject(t *testing.T) {
	m := newTestManager(t, nil)

	if _, _, err := m.Issue(Subject{}, time.Now()); err == nil {
		t.Fatal("expected error for empty subject")
	}
}

func TestNewManagerValidation(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("key generation failed: %v", err)
	}

	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero ttl", Config{SigningMethod: MethodEd25519, PrivateKey: priv}},
		{"bad method", Config{TTL: time.Hour, SigningMethod: "rs256", PrivateKey: priv}},
		{"hs256 no key", Config{TTL: time.Hour, SigningMethod: MethodHS256}},
		{"bad ed25519 key", Config{TTL: time.Hour, SigningMethod: MethodEd25519, PrivateKey: []byte("short")}},
		{"excess leeway", Config{TTL: time.Hour, SigningMethod: MethodEd25519, PrivateKey: priv, Leeway: time.Hour}},
	}
	for _, tc := range cases {
		if _, err := NewManager(tc.cfg); err == nil {
			t.Fatalf("%s: expected configuration error", tc.name)
		}
	}
}
