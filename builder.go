package authgate

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/authgate/jwt"
	"github.com/MrEthical07/authgate/language"
	"github.com/MrEthical07/authgate/logging"
	"github.com/MrEthical07/authgate/password"
	"github.com/MrEthical07/authgate/token"
)

// Builder assembles an Engine. Configure it with the With* methods and call
// Build once.
type Builder struct {
	config Config

	redis  redis.UniversalClient
	pool   *pgxpool.Pool
	store  token.Store
	users  UserProvider
	hasher PasswordHasher
	log    logging.Logger
	sink   AuditSink
	clock  func() time.Time

	built bool
}

// New returns a Builder preloaded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis injects a Redis client for the token store. The client's
// lifecycle stays with the caller.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithPostgres injects a pgx pool for the token store. The pool's lifecycle
// stays with the caller.
func (b *Builder) WithPostgres(pool *pgxpool.Pool) *Builder {
	b.pool = pool
	return b
}

// WithStore injects a prebuilt token store, overriding the backend choice in
// the config.
func (b *Builder) WithStore(store token.Store) *Builder {
	b.store = store
	return b
}

// WithUserProvider injects the external identity store. Required.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.users = up
	return b
}

// WithHasher overrides the password hasher. The default is argon2id built
// from the config's password section.
func (b *Builder) WithHasher(h PasswordHasher) *Builder {
	b.hasher = h
	return b
}

// WithLogger injects a structured logger. The default discards everything.
func (b *Builder) WithLogger(log logging.Logger) *Builder {
	b.log = log
	return b
}

// WithAuditSink injects the audit event consumer.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// WithClock overrides the engine's time source. Intended for tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.clock = now
	return b
}

// Build validates the configuration, wires the components, and returns the
// Engine. Connections the builder opens itself (from Config.Database) are
// closed by Engine.Close; injected clients are not.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.users == nil {
		return nil, errors.New("user provider required")
	}

	log := b.log
	if log == nil {
		log = logging.Nop{}
	}
	now := b.clock
	if now == nil {
		now = time.Now
	}

	engine := &Engine{
		config:  cfg,
		catalog: language.NewCatalog(cfg.Language.DefaultLocale),
		log:     log,
		metrics: NewMetrics(cfg.Metrics),
		audit:   newAuditDispatcher(cfg.Audit, b.sink),
		now:     now,
	}

	store, closer, err := b.buildStore(cfg)
	if err != nil {
		return nil, err
	}
	engine.store = store
	if closer != nil {
		engine.closers = append(engine.closers, closer)
	}

	hasher := b.hasher
	if hasher == nil {
		ph, err := password.NewArgon2(cfg.Password)
		if err != nil {
			return nil, err
		}
		hasher = ph
	}

	verifier, err := NewVerifier(b.users, hasher, log)
	if err != nil {
		return nil, err
	}
	engine.verifier = verifier

	codec, err := jwt.NewManager(jwtConfig(cfg.JWT, now))
	if err != nil {
		return nil, err
	}
	engine.codec = codec

	b.built = true
	return engine, nil
}

func (b *Builder) buildStore(cfg Config) (token.Store, func() error, error) {
	if b.store != nil {
		return b.store, nil, nil
	}

	switch cfg.Token.Backend {
	case BackendRedis:
		client := b.redis
		var closer func() error
		if client == nil {
			if cfg.Database.RedisAddr == "" {
				return nil, nil, errors.New("redis backend requires a client or an address")
			}
			c := redis.NewClient(&redis.Options{
				Addr:     cfg.Database.RedisAddr,
				Password: cfg.Database.RedisPassword,
				DB:       cfg.Database.RedisDB,
			})
			client = c
			closer = c.Close
		}
		return token.NewRedisStore(client, cfg.Token.RedisPrefix, cfg.Token.Retention), closer, nil

	case BackendPostgres:
		pool := b.pool
		var closer func() error
		if pool == nil {
			if cfg.Database.PostgresDSN == "" {
				return nil, nil, errors.New("postgres backend requires a pool or a DSN")
			}
			p, err := pgxpool.New(context.Background(), cfg.Database.PostgresDSN)
			if err != nil {
				return nil, nil, err
			}
			pool = p
			closer = func() error {
				p.Close()
				return nil
			}
		}
		return token.NewPostgresStore(pool), closer, nil
	}
	return nil, nil, errors.New("no token store configured")
}

func jwtConfig(cfg JWTConfig, now func() time.Time) jwt.Config {
	out := jwt.Config{
		TTL:           cfg.TTL,
		SigningMethod: jwt.SigningMethod(cfg.SigningMethod),
		Issuer:        cfg.Issuer,
		Leeway:        cfg.Leeway,
		Now:           now,
	}
	switch jwt.SigningMethod(cfg.SigningMethod) {
	case jwt.MethodHS256:
		out.PrivateKey = []byte(cfg.Secret)
	case jwt.MethodEd25519:
		out.PrivateKey = []byte(cfg.PrivateKeyPEM)
		out.PublicKey = []byte(cfg.PublicKeyPEM)
	}
	return out
}
