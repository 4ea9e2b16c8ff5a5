package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestAttemptLockStampAndReject(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	locks := NewAttemptLockStore(client)
	cooldown := 5 * time.Second

	allowed, _, err := locks.CheckAndStamp(ctx, "u1", "q1", time.Now(), cooldown)
	if err != nil || !allowed {
		t.Fatalf("first attempt must pass: allowed=%v err=%v", allowed, err)
	}

	mr.FastForward(2 * time.Second)
	allowed, wait, err := locks.CheckAndStamp(ctx, "u1", "q1", time.Now(), cooldown)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if allowed {
		t.Fatalf("attempt inside cooldown must be rejected")
	}
	if wait != 3*time.Second {
		t.Fatalf("expected 3s wait from PTTL, got %v", wait)
	}

	mr.FastForward(3*time.Second + time.Millisecond)
	allowed, _, err = locks.CheckAndStamp(ctx, "u1", "q1", time.Now(), cooldown)
	if err != nil || !allowed {
		t.Fatalf("key expired, attempt must pass: allowed=%v err=%v", allowed, err)
	}
}

func TestAttemptLockRejectionDoesNotExtendTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	locks := NewAttemptLockStore(client)
	cooldown := 5 * time.Second

	locks.CheckAndStamp(ctx, "u1", "q1", time.Now(), cooldown)

	mr.FastForward(2 * time.Second)
	locks.CheckAndStamp(ctx, "u1", "q1", time.Now(), cooldown)

	// Had the rejection restamped, 3 more seconds would not be enough.
	mr.FastForward(3 * time.Second)
	allowed, _, err := locks.CheckAndStamp(ctx, "u1", "q1", time.Now(), cooldown)
	if err != nil || !allowed {
		t.Fatalf("wait must be measured from the original stamp: allowed=%v err=%v", allowed, err)
	}
}

func TestAttemptLockScopedPerPair(t *testing.T) {
	ctx := context.Background()
	_, client := newTestClient(t)
	locks := NewAttemptLockStore(client)
	cooldown := time.Minute

	if allowed, _, _ := locks.CheckAndStamp(ctx, "u1", "q1", time.Now(), cooldown); !allowed {
		t.Fatalf("fresh pair must pass")
	}
	if allowed, _, _ := locks.CheckAndStamp(ctx, "u1", "q2", time.Now(), cooldown); !allowed {
		t.Fatalf("other question must not be locked")
	}
	if allowed, _, _ := locks.CheckAndStamp(ctx, "u2", "q1", time.Now(), cooldown); !allowed {
		t.Fatalf("other user must not be locked")
	}
	if allowed, _, _ := locks.CheckAndStamp(ctx, "u1", "q1", time.Now(), cooldown); allowed {
		t.Fatalf("same pair must be locked")
	}
}

func TestAttemptLockZeroCooldownSkipsRedis(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	locks := NewAttemptLockStore(client)

	for i := 0; i < 3; i++ {
		if allowed, _, _ := locks.CheckAndStamp(ctx, "u1", "q1", time.Now(), 0); !allowed {
			t.Fatalf("zero cooldown must never reject")
		}
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("zero cooldown must not write keys, got %v", mr.Keys())
	}
}
