package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

func TestLockKey(t *testing.T) {
	if got := lockKey(42); got != "lock:clothes:42" {
		t.Errorf("lockKey(42) = %q", got)
	}
}

func TestNewLockerDefaults(t *testing.T) {
	l := NewLocker(nil, 0)
	if l.ttl != defaultLockTTL || l.wait != defaultLockWait {
		t.Errorf("unexpected defaults: ttl=%v wait=%v", l.ttl, l.wait)
	}
}

func newTestLocker(t *testing.T) *Locker {
	t.Helper()
	addr := os.Getenv("CLOSET_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CLOSET_TEST_REDIS_ADDR not set")
	}
	client, err := Connect(context.Background(), Config{Addr: addr})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	l := NewLocker(client, time.Minute)
	l.wait = 100 * time.Millisecond
	return l
}

func TestLockerContention(t *testing.T) {
	l := newTestLocker(t)
	ctx := context.Background()
	ids := []int64{time.Now().UnixNano(), time.Now().UnixNano() + 1}

	release, err := l.Lock(ctx, ids)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}

	if _, err := l.Lock(ctx, ids[1:]); !errors.Is(err, domain.ErrItemsBusy) {
		t.Fatalf("expected ErrItemsBusy, got %v", err)
	}

	release()
	again, err := l.Lock(ctx, ids)
	if err != nil {
		t.Fatalf("lock after release: %v", err)
	}
	again()
}

func TestReleaseTimeoutIsBounded(t *testing.T) {
	if defaultTimeout <= 0 || defaultTimeout > dialTimeout {
		t.Errorf("release timeout %v must be positive and no longer than the dial timeout %v", defaultTimeout, dialTimeout)
	}
}

func TestLockerReleaseAfterRequestCancelled(t *testing.T) {
	l := newTestLocker(t)
	ctx, cancel := context.WithCancel(context.Background())
	ids := []int64{time.Now().UnixNano()}

	release, err := l.Lock(ctx, ids)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	cancel()
	release()

	again, err := l.Lock(context.Background(), ids)
	if err != nil {
		t.Fatalf("lock after release on a cancelled request: %v", err)
	}
	again()
}
