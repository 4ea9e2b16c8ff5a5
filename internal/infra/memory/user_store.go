package memory

import (
	"context"
	"sync"

	"classquiz-service/internal/domain"
)

// UserStore is an in-memory implementation of app.UserRepository.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*domain.User)}
}

// Register adds a user or refreshes the name and role of an existing one.
// Accumulated points survive re-registration.
func (s *UserStore) Register(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.users[u.ID]; ok {
		existing.DisplayName = u.DisplayName
		existing.Role = u.Role
		return nil
	}
	copied := u
	s.users[u.ID] = &copied
	return nil
}

func (s *UserStore) Get(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return *u, nil
}

func (s *UserStore) All(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (s *UserStore) Students(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		if u.Role == domain.RoleStudent {
			out = append(out, *u)
		}
	}
	return out, nil
}

// CreditPoints atomically adds points to a user and returns the new total.
func (s *UserStore) CreditPoints(_ context.Context, id string, points int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	u.Points += points
	return u.Points, nil
}
