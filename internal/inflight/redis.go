package inflight

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"idea-analyzer/internal/shared/telemetry"
)

const (
	defaultKeyPrefix = "idea-analyzer:inflight:"
	// DefaultTTL bounds how long a crashed holder can block its key.
	DefaultTTL = 2 * time.Minute
)

// releaseScript deletes the key only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard shares the busy flag across API instances.
type RedisGuard struct {
	Client redis.UniversalClient
	Prefix string
	TTL    time.Duration
}

// NewRedisGuard parses a redis:// URL and returns a guard on that server.
func NewRedisGuard(redisURL string, ttl time.Duration) (*RedisGuard, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisGuard{Client: redis.NewClient(opts), Prefix: defaultKeyPrefix, TTL: ttl}, nil
}

func (g *RedisGuard) Acquire(ctx context.Context, key string) (func(), error) {
	ttl := g.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	fullKey := g.Prefix + key
	token := uuid.NewString()
	ok, err := g.Client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, ErrBusy
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, g.Client, []string{fullKey}, token).Err(); err != nil {
				telemetry.Error("inflight.release_failed", map[string]any{
					"key":   key,
					"error": err.Error(),
				})
			}
		})
	}, nil
}

// Close closes the underlying client.
func (g *RedisGuard) Close() error {
	return g.Client.Close()
}
