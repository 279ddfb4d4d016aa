package authgate

import (
	"fmt"
	"time"

	"github.com/MrEthical07/authgate/password"
)

// Backend selects the token storage implementation.
type Backend string

const (
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
)

// JWTConfig controls token issuance and verification.
type JWTConfig struct {
	// TTL is the token lifetime. Defaults to 10 minutes.
	TTL time.Duration `mapstructure:"ttl"`

	// SigningMethod selects the signature algorithm, "hs256" or "ed25519".
	SigningMethod string `mapstructure:"signing_method"`

	// Secret is the HMAC key for hs256. Required for hs256.
	Secret string `mapstructure:"secret"`

	// PrivateKeyPEM and PublicKeyPEM hold PEM-encoded Ed25519 keys.
	// Required for ed25519.
	PrivateKeyPEM string `mapstructure:"private_key_pem"`
	PublicKeyPEM  string `mapstructure:"public_key_pem"`

	// Issuer, when set, is stamped into and verified on every token.
	Issuer string `mapstructure:"issuer"`

	// Leeway tolerates clock skew during expiry checks.
	Leeway time.Duration `mapstructure:"leeway"`
}

// TokenConfig controls the token store.
type TokenConfig struct {
	Backend Backend `mapstructure:"backend"`

	// RedisPrefix namespaces all keys. Defaults to "ag".
	RedisPrefix string `mapstructure:"redis_prefix"`

	// Retention keeps expired records readable for this long after expiry
	// so that re-login and refresh can observe and replace them. Defaults
	// to one hour.
	Retention time.Duration `mapstructure:"retention"`
}

// LanguageConfig controls localized error messages.
type LanguageConfig struct {
	// DefaultLocale is used when a request carries no locale or an
	// unsupported one. Defaults to "en".
	DefaultLocale string `mapstructure:"default_locale"`
}

// AuditConfig controls the audit event dispatcher.
type AuditConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// BufferSize is the dispatcher queue depth. Defaults to 256.
	BufferSize int `mapstructure:"buffer_size"`

	// DropIfFull drops events instead of blocking when the queue is full.
	DropIfFull bool `mapstructure:"drop_if_full"`
}

// MetricsConfig controls the in-process counters.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// EnableLatencyHistograms additionally records a validation latency
	// histogram. Has no effect unless Enabled is set.
	EnableLatencyHistograms bool `mapstructure:"enable_latency_histograms"`
}

// DatabaseConfig carries connection settings for the storage backends.
// Only the fields of the selected backend are consulted.
type DatabaseConfig struct {
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// Config is the full engine configuration.
type Config struct {
	JWT      JWTConfig       `mapstructure:"jwt"`
	Token    TokenConfig     `mapstructure:"token"`
	Password password.Config `mapstructure:"password"`
	Language LanguageConfig  `mapstructure:"language"`
	Audit    AuditConfig     `mapstructure:"audit"`
	Metrics  MetricsConfig   `mapstructure:"metrics"`
	Database DatabaseConfig  `mapstructure:"database"`
}

// DefaultConfig returns a Config with every tunable at its default. The JWT
// key material is intentionally left empty and must be supplied.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			TTL:           10 * time.Minute,
			SigningMethod: "hs256",
		},
		Token: TokenConfig{
			Backend:     BackendRedis,
			RedisPrefix: "ag",
			Retention:   time.Hour,
		},
		Password: password.DefaultConfig(),
		Language: LanguageConfig{DefaultLocale: "en"},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("jwt: ttl must be positive, got %v", c.JWT.TTL)
	}
	switch c.JWT.SigningMethod {
	case "hs256":
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt: secret required for hs256")
		}
	case "ed25519":
		if c.JWT.PrivateKeyPEM == "" || c.JWT.PublicKeyPEM == "" {
			return fmt.Errorf("jwt: key pair required for ed25519")
		}
	default:
		return fmt.Errorf("jwt: unknown signing method %q", c.JWT.SigningMethod)
	}
	if c.JWT.Leeway < 0 {
		return fmt.Errorf("jwt: leeway must not be negative")
	}

	switch c.Token.Backend {
	case BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("token: unknown backend %q", c.Token.Backend)
	}
	if c.Token.Retention < 0 {
		return fmt.Errorf("token: retention must not be negative")
	}

	if c.Language.DefaultLocale == "" {
		return fmt.Errorf("language: default locale required")
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return fmt.Errorf("audit: buffer size must be positive")
	}
	return nil
}
