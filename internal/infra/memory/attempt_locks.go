package memory

import (
	"context"
	"sync"
	"time"
)

// AttemptLockStore tracks last-submission stamps per (user, question) in
// process. Check and stamp happen under one lock, so two racing attempts
// cannot both pass the cooldown gate.
type AttemptLockStore struct {
	mu     sync.Mutex
	stamps map[string]time.Time
}

func NewAttemptLockStore() *AttemptLockStore {
	return &AttemptLockStore{stamps: make(map[string]time.Time)}
}

func (s *AttemptLockStore) CheckAndStamp(_ context.Context, userID, questionID string, now time.Time, cooldown time.Duration) (bool, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := lockKey(userID, questionID)
	last, ok := s.stamps[key]
	if cooldown <= 0 || !ok || now.Sub(last) >= cooldown {
		s.stamps[key] = now
		return true, 0, nil
	}
	// Rejections do not move the stamp; the wait only ever shrinks.
	return false, cooldown - now.Sub(last), nil
}

// LastAttempt reports the stamp for a (user, question) pair, if any.
func (s *AttemptLockStore) LastAttempt(userID, questionID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.stamps[lockKey(userID, questionID)]
	return t, ok
}

func lockKey(userID, questionID string) string {
	return userID + "|" + questionID
}
