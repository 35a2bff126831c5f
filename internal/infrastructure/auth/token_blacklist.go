package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist invalidates JWTs before they expire, on logout or when the
// owning account is deleted.
type TokenBlacklist interface {
	// AddToBlacklist revokes one token by its JTI for ttl
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error

	// IsBlacklisted checks if a token's JTI has been revoked
	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// InvalidateUserTokens revokes every token of the user issued up to now
	InvalidateUserTokens(ctx context.Context, userID int64, ttl time.Duration) error

	// IsUserTokenInvalidated reports whether a token issued at issuedAt was
	// revoked by InvalidateUserTokens
	IsUserTokenInvalidated(ctx context.Context, userID int64, issuedAt time.Time) (bool, error)
}

// ErrBlacklistUnavailable wraps failures of the revocation store itself.
// A token checked against an unavailable store is neither valid nor revoked.
var ErrBlacklistUnavailable = errors.New("token blacklist unavailable")

// DefaultBlacklistKeyPrefix namespaces blacklist keys in a shared Redis
const DefaultBlacklistKeyPrefix = "tm:token:blacklist:"

// RedisTokenBlacklist implements TokenBlacklist using Redis
type RedisTokenBlacklist struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisTokenBlacklist creates a token blacklist on an existing Redis client
func NewRedisTokenBlacklist(client redis.UniversalClient) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{
		client:    client,
		keyPrefix: DefaultBlacklistKeyPrefix,
	}
}

func (b *RedisTokenBlacklist) jtiKey(jti string) string {
	return b.keyPrefix + "jti:" + jti
}

func (b *RedisTokenBlacklist) userKey(userID int64) string {
	return b.keyPrefix + "user:" + strconv.FormatInt(userID, 10)
}

// AddToBlacklist stores the JTI until the token would have expired anyway
func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, b.jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: add token: %w", ErrBlacklistUnavailable, err)
	}
	return nil
}

// IsBlacklisted checks if a token's JTI is in the blacklist
func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := b.client.Exists(ctx, b.jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: check token: %w", ErrBlacklistUnavailable, err)
	}
	return exists > 0, nil
}

// InvalidateUserTokens stores the current Unix time as the user's cut-off
func (b *RedisTokenBlacklist) InvalidateUserTokens(ctx context.Context, userID int64, ttl time.Duration) error {
	if err := b.client.Set(ctx, b.userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("%w: invalidate user tokens: %w", ErrBlacklistUnavailable, err)
	}
	return nil
}

// IsUserTokenInvalidated compares issuedAt against the stored cut-off
func (b *RedisTokenBlacklist) IsUserTokenInvalidated(ctx context.Context, userID int64, issuedAt time.Time) (bool, error) {
	raw, err := b.client.Get(ctx, b.userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: check user cut-off: %w", ErrBlacklistUnavailable, err)
	}

	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("%w: parse user cut-off %q: %w", ErrBlacklistUnavailable, raw, err)
	}
	return issuedAt.Unix() <= cutoff, nil
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)

// InMemoryTokenBlacklist keeps revocations in process memory.
// Revocations are lost on restart and not shared between instances.
type InMemoryTokenBlacklist struct {
	mu       sync.Mutex
	jtis     map[string]time.Time // JTI -> expiry of the entry
	userCuts map[int64]userCut
	now      func() time.Time
}

type userCut struct {
	at      time.Time
	expires time.Time // zero means never
}

func (c userCut) expiredAt(now time.Time) bool {
	return !c.expires.IsZero() && now.After(c.expires)
}

// NewInMemoryTokenBlacklist creates a new in-memory token blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		jtis:     make(map[string]time.Time),
		userCuts: make(map[int64]userCut),
		now:      time.Now,
	}
}

// AddToBlacklist adds a token's JTI to the in-memory blacklist
func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.purgeLocked()
	b.jtis[jti] = b.now().Add(ttl)
	return nil
}

// IsBlacklisted checks if a token's JTI is blacklisted and not expired
func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	expiry, ok := b.jtis[jti]
	if !ok {
		return false, nil
	}
	if b.now().After(expiry) {
		delete(b.jtis, jti)
		return false, nil
	}
	return true, nil
}

// InvalidateUserTokens records the invalidation time for the user. The
// cut-off is kept for ttl, after which every token it covers has expired;
// a non-positive ttl keeps it for the life of the process, as Redis does.
func (b *InMemoryTokenBlacklist) InvalidateUserTokens(_ context.Context, userID int64, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.purgeLocked()
	cut := userCut{at: b.now()}
	if ttl > 0 {
		cut.expires = cut.at.Add(ttl)
	}
	b.userCuts[userID] = cut
	return nil
}

// IsUserTokenInvalidated reports whether issuedAt is at or before the cut-off
func (b *InMemoryTokenBlacklist) IsUserTokenInvalidated(_ context.Context, userID int64, issuedAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cut, ok := b.userCuts[userID]
	if !ok {
		return false, nil
	}
	if cut.expiredAt(b.now()) {
		delete(b.userCuts, userID)
		return false, nil
	}
	// JWT iat has second precision
	return issuedAt.Unix() <= cut.at.Unix(), nil
}

// Len returns the number of live JTI entries
func (b *InMemoryTokenBlacklist) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.purgeLocked()
	return len(b.jtis)
}

// UserCutoffs returns the number of live per-user cut-offs
func (b *InMemoryTokenBlacklist) UserCutoffs() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.purgeLocked()
	return len(b.userCuts)
}

func (b *InMemoryTokenBlacklist) purgeLocked() {
	now := b.now()
	for jti, expiry := range b.jtis {
		if now.After(expiry) {
			delete(b.jtis, jti)
		}
	}
	for userID, cut := range b.userCuts {
		if cut.expiredAt(now) {
			delete(b.userCuts, userID)
		}
	}
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
