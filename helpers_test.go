package authgate

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/authgate/password"
)

const testPassword = "correct-password-123"

// testClock is a manually advanced time source shared by the engine, the
// token codec, and the Redis fixture.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type mockUserProvider struct {
	mu    sync.Mutex
	users map[string]*UserRecord
}

func (p *mockUserProvider) FindByUsername(_ context.Context, username string) (*UserRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (p *mockUserProvider) FindByID(_ context.Context, id int64) (*UserRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, u := range p.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (p *mockUserProvider) remove(username string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.users, username)
}

// fastHashConfig keeps argon2 cheap enough for tests.
func fastHashConfig() password.Config {
	return password.Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.Secret = "test-secret-key-material"
	cfg.JWT.TTL = 10 * time.Minute
	cfg.Password = fastHashConfig()
	cfg.Metrics.Enabled = true
	return cfg
}

func newTestUsers(t *testing.T) *mockUserProvider {
	t.Helper()

	hasher, err := password.NewArgon2(fastHashConfig())
	if err != nil {
		t.Fatalf("hasher init failed: %v", err)
	}
	hash, err := hasher.Hash(testPassword)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	users := map[string]*UserRecord{}
	for i, name := range []string{"alice", "bob"} {
		users[name] = &UserRecord{
			ID:           int64(i + 1),
			Username:     name,
			Name:         "User " + strconv.Itoa(i+1),
			Role:         "member",
			Permissions:  []string{"read"},
			PasswordHash: hash,
		}
	}
	return &mockUserProvider{users: users}
}

func newTestEngine(t *testing.T) (*Engine, *testClock, *mockUserProvider) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := newTestClock()
	users := newTestUsers(t)

	engine, err := New().
		WithConfig(testConfig()).
		WithRedis(client).
		WithUserProvider(users).
		WithClock(clock.Now).
		Build()
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })

	return engine, clock, users
}
