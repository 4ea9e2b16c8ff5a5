package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"classquiz-service/internal/domain"
)

// CachedQuestionLoader wraps a QuestionLoader with a TTL cache to avoid
// repeated backing-store hits for question content.
type CachedQuestionLoader struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedQuestion
}

type cachedQuestion struct {
	question  domain.Question
	expiresAt time.Time
}

func NewCachedQuestionLoader(loader QuestionLoader, ttl time.Duration) *CachedQuestionLoader {
	return &CachedQuestionLoader{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedQuestion),
	}
}

func (l *CachedQuestionLoader) LoadQuestion(ctx context.Context, id string) (domain.Question, error) {
	now := l.clock()

	l.mu.RLock()
	if entry, ok := l.cache[id]; ok && entry.expiresAt.After(now) {
		l.mu.RUnlock()
		return entry.question, nil
	}
	l.mu.RUnlock()

	result, err, _ := l.sf.Do(id, func() (interface{}, error) {
		now := l.clock()
		l.mu.RLock()
		if entry, ok := l.cache[id]; ok && entry.expiresAt.After(now) {
			l.mu.RUnlock()
			return entry.question, nil
		}
		l.mu.RUnlock()

		q, err := l.loader.LoadQuestion(ctx, id)
		if err != nil {
			return domain.Question{}, err
		}

		l.mu.Lock()
		l.cache[id] = cachedQuestion{
			question:  q,
			expiresAt: now.Add(l.ttlWithJitter()),
		}
		l.mu.Unlock()
		return q, nil
	})
	if err != nil {
		return domain.Question{}, err
	}
	return result.(domain.Question), nil
}

// ListQuestions always goes to the backing store; the list is only read at
// seed time.
func (l *CachedQuestionLoader) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	return l.loader.ListQuestions(ctx)
}

func (l *CachedQuestionLoader) ttlWithJitter() time.Duration {
	if l.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(l.ttl) / 10
	return l.ttl + time.Duration(l.rnd.Int63n(jitterMax+1))
}

// StaticQuestionLoader is a map-backed loader for tests and demos.
type StaticQuestionLoader struct {
	questions map[string]domain.Question
}

func NewStaticQuestionLoader(questions map[string]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{questions: questions}
}

func (l *StaticQuestionLoader) LoadQuestion(_ context.Context, id string) (domain.Question, error) {
	if q, ok := l.questions[id]; ok {
		return q, nil
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (l *StaticQuestionLoader) ListQuestions(_ context.Context) ([]domain.Question, error) {
	out := make([]domain.Question, 0, len(l.questions))
	for _, q := range l.questions {
		out = append(out, q)
	}
	return out, nil
}
