package app

import (
	"context"
	"sync"
	"time"

	"classquiz-service/internal/domain"
)

// QuestionRepository stores question aggregates. Update and the comment and
// reply variants run fn inside the owning question's critical section, so a
// read-modify-write against one question is serialized against concurrent
// submissions and votes.
type QuestionRepository interface {
	Get(ctx context.Context, id string) (domain.Question, error)
	List(ctx context.Context) ([]domain.Question, error)
	Update(ctx context.Context, id string, fn func(*domain.Question) error) (domain.Question, error)
	UpdateComment(ctx context.Context, commentID string, fn func(*domain.Comment) error) (domain.Comment, error)
	UpdateReply(ctx context.Context, replyID string, fn func(*domain.Reply) error) (domain.Reply, error)
}

// UserRepository resolves user identity and owns cumulative points.
type UserRepository interface {
	Get(ctx context.Context, id string) (domain.User, error)
	All(ctx context.Context) ([]domain.User, error)
	Students(ctx context.Context) ([]domain.User, error)
	// CreditPoints atomically adds points and returns the new total.
	CreditPoints(ctx context.Context, id string, points int) (int, error)
	Register(ctx context.Context, u domain.User) error
}

// AttemptLockStore tracks per-(user, question) submission stamps.
// CheckAndStamp is atomic: when the cooldown has elapsed (or no stamp
// exists) it records now and allows the attempt; otherwise it reports the
// remaining wait without moving the stamp. A cooldown of zero disables
// locking entirely.
type AttemptLockStore interface {
	CheckAndStamp(ctx context.Context, userID, questionID string, now time.Time, cooldown time.Duration) (allowed bool, wait time.Duration, err error)
}

// Settings is the read-only configuration surface the engine consults.
type Settings interface {
	AttemptCooldown() time.Duration
	LeaderboardLimited() bool
	LeaderboardLimit() int
	DiscussionVisibility() domain.Visibility
	DislikesEnabled() bool
}

// Service contains the quiz engagement use cases: answer submission,
// discussion, ratings and the leaderboard.
type Service struct {
	questions QuestionRepository
	users     UserRepository
	locks     AttemptLockStore
	settings  Settings
	now       func() time.Time

	mu          sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewService(questions QuestionRepository, users UserRepository, locks AttemptLockStore, settings Settings) *Service {
	return NewServiceWithClock(questions, users, locks, settings, time.Now)
}

// NewServiceWithClock allows deterministic timestamps in tests.
func NewServiceWithClock(questions QuestionRepository, users UserRepository, locks AttemptLockStore, settings Settings, now func() time.Time) *Service {
	return &Service{
		questions:   questions,
		users:       users,
		locks:       locks,
		settings:    settings,
		now:         now,
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

// RegisterUser adds or refreshes a user record.
func (s *Service) RegisterUser(ctx context.Context, u domain.User) error {
	return s.users.Register(ctx, u)
}

// GetQuestion loads a question for a viewer. Hidden questions resolve only
// for admins.
func (s *Service) GetQuestion(ctx context.Context, questionID, viewerID string) (domain.Question, error) {
	viewer, err := s.users.Get(ctx, viewerID)
	if err != nil {
		return domain.Question{}, err
	}
	q, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return domain.Question{}, err
	}
	if !q.Visible && viewer.Role == domain.RoleStudent {
		return domain.Question{}, domain.ErrQuestionHidden
	}
	return q, nil
}

// Topics returns the distinct topics across all questions.
func (s *Service) Topics(ctx context.Context) ([]string, error) {
	qs, err := s.questions.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	topics := make([]string, 0)
	for _, q := range qs {
		if q.Topic == "" {
			continue
		}
		if _, ok := seen[q.Topic]; ok {
			continue
		}
		seen[q.Topic] = struct{}{}
		topics = append(topics, q.Topic)
	}
	return topics, nil
}
