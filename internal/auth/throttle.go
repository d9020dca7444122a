package auth

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultThrottleWindow is the minimum spacing between two token issuances
// for one identity.
const DefaultThrottleWindow = 15 * time.Minute

// Throttle gates repeated token issuance per identity. Allow never mutates
// state; Record is called only after a token has been stored.
type Throttle interface {
	Allow(ctx context.Context, key string, now time.Time) (bool, error)
	Record(ctx context.Context, key string, now time.Time) error
}

// ThrottleKey returns the bucket for a stored user. Buckets follow user IDs so
// two accounts never share one.
func ThrottleKey(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}

// MemoryThrottle keeps last issuance times in process memory.
type MemoryThrottle struct {
	window time.Duration

	mu   sync.Mutex
	last map[string]time.Time
}

// NewMemoryThrottle constructs a MemoryThrottle.
func NewMemoryThrottle(window time.Duration) *MemoryThrottle {
	if window <= 0 {
		window = DefaultThrottleWindow
	}
	return &MemoryThrottle{window: window, last: make(map[string]time.Time)}
}

// Allow reports whether key is outside the throttle window at now.
func (t *MemoryThrottle) Allow(_ context.Context, key string, now time.Time) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.last[key]
	if !ok {
		return true, nil
	}
	return now.Sub(last) >= t.window, nil
}

// Record stores now as the last issuance for key and drops stale entries.
func (t *MemoryThrottle) Record(_ context.Context, key string, now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, last := range t.last {
		if now.Sub(last) >= t.window {
			delete(t.last, k)
		}
	}
	t.last[key] = now
	return nil
}

// Len reports the number of tracked identities.
func (t *MemoryThrottle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.last)
}

// RedisThrottle shares throttle state between instances through Redis.
// Keys expire with the window so Redis holds no stale identities.
type RedisThrottle struct {
	client *redis.Client
	window time.Duration
	prefix string
}

// NewRedisThrottle constructs a RedisThrottle.
func NewRedisThrottle(client *redis.Client, window time.Duration, prefix string) *RedisThrottle {
	if window <= 0 {
		window = DefaultThrottleWindow
	}
	if prefix == "" {
		prefix = "login:throttle"
	}
	return &RedisThrottle{client: client, window: window, prefix: prefix}
}

// Allow reports whether key is outside the throttle window at now.
func (t *RedisThrottle) Allow(ctx context.Context, key string, now time.Time) (bool, error) {
	millis, err := t.client.Get(ctx, t.redisKey(key)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return true, err
	}
	return now.Sub(time.UnixMilli(millis)) >= t.window, nil
}

// Record stores now as the last issuance for key.
func (t *RedisThrottle) Record(ctx context.Context, key string, now time.Time) error {
	return t.client.Set(ctx, t.redisKey(key), now.UnixMilli(), t.window).Err()
}

func (t *RedisThrottle) redisKey(key string) string {
	return t.prefix + ":" + key
}

var (
	_ Throttle = (*MemoryThrottle)(nil)
	_ Throttle = (*RedisThrottle)(nil)
)
