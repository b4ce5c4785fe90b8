package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

const (
	defaultLockTTL  = 30 * time.Second
	defaultLockWait = 2 * time.Second
	lockRetry       = 25 * time.Millisecond
)

// unlockScript deletes a lock only while it still carries the caller's token,
// so an expired lock taken over by another batch is left alone.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Locker serializes batch reservation work across instances.
// Key format: lock:clothes:<id>
type Locker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewLocker creates a Locker. ttl bounds how long a crashed holder can block
// an item; zero selects a default.
func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Locker{client: client, ttl: ttl, wait: defaultLockWait}
}

// Ping reports whether the lock server is reachable.
func (l *Locker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Lock takes every item lock in the order given, retrying each until the wait
// deadline. On failure every lock already taken is released.
func (l *Locker) Lock(ctx context.Context, ids []int64) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	held := make([]string, 0, len(ids))
	release := func() { l.release(held, token) }

	for _, id := range ids {
		key := lockKey(id)
		if err := l.acquire(ctx, key, token, deadline); err != nil {
			release()
			return nil, err
		}
		held = append(held, key)
	}
	return release, nil
}

func (l *Locker) acquire(ctx context.Context, key, token string, deadline time.Time) error {
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("redis lock %s: %w", key, err)
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return domain.ErrItemsBusy.WithDescription("%s is held by another batch", key)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetry):
		}
	}
}

// release runs detached from the request context, which may already be done.
func (l *Locker) release(keys []string, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	for _, key := range keys {
		_ = unlockScript.Run(ctx, l.client, []string{key}, token).Err()
	}
}

func lockKey(id int64) string {
	return fmt.Sprintf("lock:clothes:%d", id)
}
