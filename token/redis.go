package token

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key layout (all under the configured prefix):
//
//	<p>:u:<username>   hash {rec: binary record, th: token hash, uid: user id}
//	<p>:t:<tokenhash>  -> username
//	<p>:id:<userid>    -> username
//
// Token pointer keys use the SHA-256 of the token, not the token itself, so
// key names stay bounded and a Redis key dump never discloses live bearer
// tokens.
const saveScript = `
local ukey = KEYS[1]
local idkey = KEYS[2]
local tprefix = ARGV[1]
local th = ARGV[2]
local blob = ARGV[3]
local uid = ARGV[4]
local username = ARGV[5]
local px = tonumber(ARGV[6])

local old = redis.call("HGET", ukey, "th")
if old and old ~= th then
  redis.call("DEL", tprefix .. old)
end

redis.call("DEL", ukey)
redis.call("HSET", ukey, "rec", blob, "th", th, "uid", uid)
redis.call("PEXPIRE", ukey, px)
redis.call("SET", tprefix .. th, username, "PX", px)
redis.call("SET", idkey, username, "PX", px)
return 1
`

const deleteByTokenScript = `
local tkey = KEYS[1]
local uprefix = ARGV[1]
local idprefix = ARGV[2]

local username = redis.call("GET", tkey)
if not username then
  return 0
end

local ukey = uprefix .. username
local uid = redis.call("HGET", ukey, "uid")
redis.call("DEL", tkey)
redis.call("DEL", ukey)
if uid then
  redis.call("DEL", idprefix .. uid)
end
return 1
`

const deleteByUserScript = `
local idkey = KEYS[1]
local uprefix = ARGV[1]
local tprefix = ARGV[2]

local username = redis.call("GET", idkey)
if not username then
  return 0
end

local ukey = uprefix .. username
local th = redis.call("HGET", ukey, "th")
redis.call("DEL", idkey)
redis.call("DEL", ukey)
if th then
  redis.call("DEL", tprefix .. th)
end
return 1
`

var (
	saveLua          = redis.NewScript(saveScript)
	deleteByTokenLua = redis.NewScript(deleteByTokenScript)
	deleteByUserLua  = redis.NewScript(deleteByUserScript)
)

// RedisStore is a Redis-backed [Store]. All mutations run inside Lua scripts
// so the replace-on-save and the three-key delete are atomic.
type RedisStore struct {
	redis     redis.UniversalClient
	prefix    string
	retention time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store under the given key prefix. retention is how
// long a record outlives its token's expiry before Redis reclaims it; zero
// selects one hour.
func NewRedisStore(client redis.UniversalClient, prefix string, retention time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "ag"
	}
	if retention <= 0 {
		retention = time.Hour
	}
	return &RedisStore{
		redis:     client,
		prefix:    prefix,
		retention: retention,
	}
}

func (s *RedisStore) userKey(username string) string {
	return s.prefix + ":u:" + username
}

func (s *RedisStore) userPrefix() string {
	return s.prefix + ":u:"
}

func (s *RedisStore) tokenKey(tok string) string {
	return s.prefix + ":t:" + hashToken(tok)
}

func (s *RedisStore) tokenPrefix() string {
	return s.prefix + ":t:"
}

func (s *RedisStore) idKey(userID int64) string {
	return s.prefix + ":id:" + strconv.FormatInt(userID, 10)
}

func (s *RedisStore) idPrefix() string {
	return s.prefix + ":id:"
}

func hashToken(tok string) string {
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:])
}

// Save atomically replaces any prior record for rec.UserID's user.
func (s *RedisStore) Save(ctx context.Context, rec *Record) error {
	blob, err := Encode(rec)
	if err != nil {
		return err
	}

	px := time.Until(time.Unix(rec.ExpiresAt, 0)) + s.retention
	if px <= 0 {
		px = s.retention
	}

	keys := []string{s.userKey(rec.Username), s.idKey(rec.UserID)}
	argv := []interface{}{
		s.tokenPrefix(),
		hashToken(rec.Token),
		blob,
		strconv.FormatInt(rec.UserID, 10),
		rec.Username,
		px.Milliseconds(),
	}
	if err := saveLua.Run(ctx, s.redis, keys, argv...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// GetByUsername returns the record for username, expired or not, or
// ErrNotFound once the retention window has reclaimed it.
func (s *RedisStore) GetByUsername(ctx context.Context, username string) (*Record, error) {
	data, err := s.redis.HGet(ctx, s.userKey(username), "rec").Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return Decode(data)
}

// ExistsByToken reports whether tok's pointer key is present.
func (s *RedisStore) ExistsByToken(ctx context.Context, tok string) (bool, error) {
	n, err := s.redis.Exists(ctx, s.tokenKey(tok)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n == 1, nil
}

// DeleteByToken removes the record owning tok, or returns ErrNotFound.
func (s *RedisStore) DeleteByToken(ctx context.Context, tok string) error {
	keys := []string{s.tokenKey(tok)}
	deleted, err := deleteByTokenLua.Run(ctx, s.redis, keys, s.userPrefix(), s.idPrefix()).Int64()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByUserID removes the user's record; absence is a no-op.
func (s *RedisStore) DeleteByUserID(ctx context.Context, userID int64) error {
	keys := []string{s.idKey(userID)}
	if err := deleteByUserLua.Run(ctx, s.redis, keys, s.userPrefix(), s.tokenPrefix()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
