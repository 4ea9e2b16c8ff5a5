package app

import (
	"context"
	"sort"

	"classquiz-service/internal/domain"
)

// Rank orders students by cumulative points descending and assigns 1-based
// ranks. Ties break by display name, then user id, so re-ranking an
// unchanged list always yields the same order.
func Rank(students []domain.User) []domain.LeaderboardEntry {
	sorted := make([]domain.User, len(students))
	copy(sorted, students)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		if sorted[i].DisplayName != sorted[j].DisplayName {
			return sorted[i].DisplayName < sorted[j].DisplayName
		}
		return sorted[i].ID < sorted[j].ID
	})

	entries := make([]domain.LeaderboardEntry, len(sorted))
	for i, u := range sorted {
		entries[i] = domain.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      u.ID,
			DisplayName: u.DisplayName,
			Points:      u.Points,
		}
	}
	return entries
}

// Leaderboard returns the ranked student standings. When limited is
// requested and the limit setting allows it, the board is cut to the top N
// with the viewer's own row kept (at its true rank) even below the cut.
func (s *Service) Leaderboard(ctx context.Context, viewerID string, limited bool) (domain.Leaderboard, error) {
	students, err := s.users.Students(ctx)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	entries := Rank(students)

	if limited && s.settings.LeaderboardLimited() {
		if limit := s.settings.LeaderboardLimit(); limit > 0 && len(entries) > limit {
			kept := entries[:limit:limit]
			for _, e := range entries[limit:] {
				if e.UserID == viewerID {
					kept = append(kept, e)
					break
				}
			}
			entries = kept
		}
	}

	return domain.Leaderboard{Entries: entries, UpdatedAt: s.now()}, nil
}

// SubscribeLeaderboard returns a channel receiving a full leaderboard
// snapshot on every points change, starting with the current one. The
// caller must invoke the returned cancel function to avoid leaks.
func (s *Service) SubscribeLeaderboard(ctx context.Context) (<-chan domain.Leaderboard, func(), error) {
	initial, err := s.Leaderboard(ctx, "", false)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan domain.Leaderboard, 8)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel, nil
}

func (s *Service) broadcastLeaderboard(ctx context.Context) {
	lb, err := s.Leaderboard(ctx, "", false)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- lb:
		default:
			// Drop the stale snapshot so a slow client never blocks scoring.
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}
