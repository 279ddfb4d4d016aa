package authgate

import (
	"time"

	"github.com/spf13/viper"
)

// LoadConfig builds a Config from environment variables, with an optional
// .env file as a lower-priority source. Unset variables keep the defaults of
// DefaultConfig. A missing .env file is ignored. The result is validated
// before it is returned.
func LoadConfig() (Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	def := DefaultConfig()

	v.SetDefault("AUTHGATE_JWT_TTL", def.JWT.TTL.String())
	v.SetDefault("AUTHGATE_JWT_SIGNING_METHOD", def.JWT.SigningMethod)
	v.SetDefault("AUTHGATE_JWT_SECRET", "")
	v.SetDefault("AUTHGATE_JWT_PRIVATE_KEY", "")
	v.SetDefault("AUTHGATE_JWT_PUBLIC_KEY", "")
	v.SetDefault("AUTHGATE_JWT_ISSUER", "")
	v.SetDefault("AUTHGATE_JWT_LEEWAY", "0s")

	v.SetDefault("AUTHGATE_TOKEN_BACKEND", string(def.Token.Backend))
	v.SetDefault("AUTHGATE_TOKEN_REDIS_PREFIX", def.Token.RedisPrefix)
	v.SetDefault("AUTHGATE_TOKEN_RETENTION", def.Token.Retention.String())

	v.SetDefault("AUTHGATE_DEFAULT_LOCALE", def.Language.DefaultLocale)

	v.SetDefault("AUTHGATE_AUDIT_ENABLED", def.Audit.Enabled)
	v.SetDefault("AUTHGATE_AUDIT_BUFFER_SIZE", def.Audit.BufferSize)
	v.SetDefault("AUTHGATE_AUDIT_DROP_IF_FULL", def.Audit.DropIfFull)

	v.SetDefault("AUTHGATE_METRICS_ENABLED", def.Metrics.Enabled)

	v.SetDefault("AUTHGATE_REDIS_ADDR", "localhost:6379")
	v.SetDefault("AUTHGATE_REDIS_PASSWORD", "")
	v.SetDefault("AUTHGATE_REDIS_DB", 0)
	v.SetDefault("AUTHGATE_POSTGRES_DSN", "")

	cfg := def
	cfg.JWT.TTL = durationOr(v.GetString("AUTHGATE_JWT_TTL"), def.JWT.TTL)
	cfg.JWT.SigningMethod = v.GetString("AUTHGATE_JWT_SIGNING_METHOD")
	cfg.JWT.Secret = v.GetString("AUTHGATE_JWT_SECRET")
	cfg.JWT.PrivateKeyPEM = v.GetString("AUTHGATE_JWT_PRIVATE_KEY")
	cfg.JWT.PublicKeyPEM = v.GetString("AUTHGATE_JWT_PUBLIC_KEY")
	cfg.JWT.Issuer = v.GetString("AUTHGATE_JWT_ISSUER")
	cfg.JWT.Leeway = durationOr(v.GetString("AUTHGATE_JWT_LEEWAY"), 0)

	cfg.Token.Backend = Backend(v.GetString("AUTHGATE_TOKEN_BACKEND"))
	cfg.Token.RedisPrefix = v.GetString("AUTHGATE_TOKEN_REDIS_PREFIX")
	cfg.Token.Retention = durationOr(v.GetString("AUTHGATE_TOKEN_RETENTION"), def.Token.Retention)

	cfg.Language.DefaultLocale = v.GetString("AUTHGATE_DEFAULT_LOCALE")

	cfg.Audit.Enabled = v.GetBool("AUTHGATE_AUDIT_ENABLED")
	cfg.Audit.BufferSize = v.GetInt("AUTHGATE_AUDIT_BUFFER_SIZE")
	cfg.Audit.DropIfFull = v.GetBool("AUTHGATE_AUDIT_DROP_IF_FULL")

	cfg.Metrics.Enabled = v.GetBool("AUTHGATE_METRICS_ENABLED")

	cfg.Database.RedisAddr = v.GetString("AUTHGATE_REDIS_ADDR")
	cfg.Database.RedisPassword = v.GetString("AUTHGATE_REDIS_PASSWORD")
	cfg.Database.RedisDB = v.GetInt("AUTHGATE_REDIS_DB")
	cfg.Database.PostgresDSN = v.GetString("AUTHGATE_POSTGRES_DSN")

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func durationOr(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
