package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/srgjo27/venue_booking/internal/core/domain"
	"github.com/srgjo27/venue_booking/internal/core/ports"
	"go.uber.org/zap"
)

// releaseScript deletes the key only while it still carries our token, so an
// expired lock taken over by another admission is never removed.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

const defaultPollInterval = 25 * time.Millisecond

// RedisLocker holds one SET NX key per resource. Keys expire after ttl so a
// crashed process cannot block a resource forever.
type RedisLocker struct {
	client       *redis.Client
	ttl          time.Duration
	pollInterval time.Duration
	newToken     func() string
	logger       *zap.Logger
}

type RedisOption func(*RedisLocker)

func WithPollInterval(d time.Duration) RedisOption {
	return func(l *RedisLocker) { l.pollInterval = d }
}

// WithTokenSource replaces the random per-acquisition token.
func WithTokenSource(fn func() string) RedisOption {
	return func(l *RedisLocker) { l.newToken = fn }
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, logger *zap.Logger, opts ...RedisOption) *RedisLocker {
	l := &RedisLocker{
		client:       client,
		ttl:          ttl,
		pollInterval: defaultPollInterval,
		newToken:     func() string { return uuid.NewString() },
		logger:       logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *RedisLocker) Acquire(ctx context.Context, keys []string, wait time.Duration) (ports.Release, error) {
	token := l.newToken()
	deadline := time.Now().Add(wait)

	held := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := l.acquireOne(ctx, key, token, deadline); err != nil {
			l.release(context.WithoutCancel(ctx), held, token)
			return nil, err
		}
		held = append(held, key)
	}

	return func(ctx context.Context) {
		l.release(ctx, held, token)
	}, nil
}

func (l *RedisLocker) acquireOne(ctx context.Context, key, token string, deadline time.Time) error {
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return &domain.ConcurrencyError{Op: "acquire lock " + key}
		}

		pause := l.pollInterval
		if pause > remaining {
			pause = remaining
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pause):
		}
	}
}

func (l *RedisLocker) release(ctx context.Context, keys []string, token string) {
	for i := len(keys) - 1; i >= 0; i-- {
		if err := l.client.Eval(ctx, releaseScript, []string{keys[i]}, token).Err(); err != nil {
			l.logger.Warn("failed to release lock",
				zap.String("key", keys[i]),
				zap.Error(err),
			)
		}
	}
}

var _ ports.Locker = (*RedisLocker)(nil)
