package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptLockStore keeps per-(user, question) submission stamps in Redis,
// so the cooldown gate holds across service instances.
//
// A stamp is a key written with SET NX PX cooldown: taking the slot and
// starting the cooldown clock are one atomic Redis operation. While the
// key lives, PTTL is the remaining wait; rejected attempts never touch the
// key, so the wait only shrinks.
type AttemptLockStore struct {
	client *redis.Client
}

func NewAttemptLockStore(client *redis.Client) *AttemptLockStore {
	return &AttemptLockStore{client: client}
}

func (s *AttemptLockStore) CheckAndStamp(ctx context.Context, userID, questionID string, now time.Time, cooldown time.Duration) (bool, time.Duration, error) {
	if cooldown <= 0 {
		return true, 0, nil
	}

	key := s.key(userID, questionID)
	ok, err := s.client.SetNX(ctx, key, now.UnixMilli(), cooldown).Result()
	if err != nil {
		return false, 0, fmt.Errorf("stamp attempt lock: %w", err)
	}
	if ok {
		return true, 0, nil
	}

	wait, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("read attempt lock ttl: %w", err)
	}
	if wait <= 0 {
		// The key expired between SetNX and PTTL; take the slot.
		if err := s.client.Set(ctx, key, now.UnixMilli(), cooldown).Err(); err != nil {
			return false, 0, fmt.Errorf("stamp attempt lock: %w", err)
		}
		return true, 0, nil
	}
	return false, wait, nil
}

func (s *AttemptLockStore) key(userID, questionID string) string {
	return "attempt:lock:" + userID + ":" + questionID
}
