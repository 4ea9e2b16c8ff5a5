package memory

import (
	"context"
	"testing"
	"time"
)

func TestAttemptLockCooldownWindow(t *testing.T) {
	ctx := context.Background()
	locks := NewAttemptLockStore()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	cooldown := 5 * time.Second

	allowed, _, err := locks.CheckAndStamp(ctx, "u1", "q1", base, cooldown)
	if err != nil || !allowed {
		t.Fatalf("first attempt must pass: allowed=%v err=%v", allowed, err)
	}

	allowed, wait, err := locks.CheckAndStamp(ctx, "u1", "q1", base.Add(2*time.Second), cooldown)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if allowed || wait != 3*time.Second {
		t.Fatalf("expected rejection with 3s wait, got allowed=%v wait=%v", allowed, wait)
	}

	// The rejection above must not have moved the stamp: at base+5.001s the
	// original cooldown has elapsed.
	allowed, _, err = locks.CheckAndStamp(ctx, "u1", "q1", base.Add(5*time.Second+time.Millisecond), cooldown)
	if err != nil || !allowed {
		t.Fatalf("cooldown elapsed from the original stamp: allowed=%v err=%v", allowed, err)
	}
}

func TestAttemptLockKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	locks := NewAttemptLockStore()
	now := time.Now()
	cooldown := time.Minute

	if allowed, _, _ := locks.CheckAndStamp(ctx, "u1", "q1", now, cooldown); !allowed {
		t.Fatalf("fresh key must pass")
	}
	// Different question, same user.
	if allowed, _, _ := locks.CheckAndStamp(ctx, "u1", "q2", now, cooldown); !allowed {
		t.Fatalf("lock must be scoped per question")
	}
	// Different user, same question.
	if allowed, _, _ := locks.CheckAndStamp(ctx, "u2", "q1", now, cooldown); !allowed {
		t.Fatalf("lock must be scoped per user")
	}
	if allowed, _, _ := locks.CheckAndStamp(ctx, "u1", "q1", now, cooldown); allowed {
		t.Fatalf("same pair inside cooldown must be rejected")
	}
}

func TestAttemptLockZeroCooldownDisablesGate(t *testing.T) {
	ctx := context.Background()
	locks := NewAttemptLockStore()
	now := time.Now()

	for i := 0; i < 3; i++ {
		if allowed, _, _ := locks.CheckAndStamp(ctx, "u1", "q1", now, 0); !allowed {
			t.Fatalf("zero cooldown must never reject (attempt %d)", i)
		}
	}
}

func TestAttemptLockLastAttempt(t *testing.T) {
	ctx := context.Background()
	locks := NewAttemptLockStore()
	stamp := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	if _, ok := locks.LastAttempt("u1", "q1"); ok {
		t.Fatalf("no stamp expected before any attempt")
	}
	locks.CheckAndStamp(ctx, "u1", "q1", stamp, time.Minute)
	got, ok := locks.LastAttempt("u1", "q1")
	if !ok || !got.Equal(stamp) {
		t.Fatalf("expected stamp %v, got %v ok=%v", stamp, got, ok)
	}
}
