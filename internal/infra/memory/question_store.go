package memory

import (
	"context"
	"sort"
	"sync"

	"classquiz-service/internal/domain"
)

// QuestionLoader fetches question content from a backing store.
type QuestionLoader interface {
	LoadQuestion(ctx context.Context, id string) (domain.Question, error)
	ListQuestions(ctx context.Context) ([]domain.Question, error)
}

// QuestionStore is the in-memory implementation of app.QuestionRepository.
//
// Each question aggregate carries its own mutex, so submissions, votes and
// comments against one question serialize while different questions stay
// concurrent. Updates apply to a copy and commit only on success, so a
// failed mutation never leaves partial state. Comment and reply ids are
// indexed back to their owning question.
type QuestionStore struct {
	loader QuestionLoader // optional: fills misses lazily

	mu        sync.RWMutex
	questions map[string]*questionState
	comments  map[string]string // comment id -> question id
	replies   map[string]string // reply id -> comment id
}

type questionState struct {
	mu sync.Mutex
	q  domain.Question
}

func NewQuestionStore(loader QuestionLoader) *QuestionStore {
	return &QuestionStore{
		loader:    loader,
		questions: make(map[string]*questionState),
		comments:  make(map[string]string),
		replies:   make(map[string]string),
	}
}

// Put seeds or replaces a question aggregate.
func (s *QuestionStore) Put(q domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions[q.ID] = &questionState{q: cloneQuestion(q)}
	s.indexLocked(q)
}

func (s *QuestionStore) Get(ctx context.Context, id string) (domain.Question, error) {
	state, err := s.state(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	return cloneQuestion(state.q), nil
}

func (s *QuestionStore) List(ctx context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	states := make([]*questionState, 0, len(s.questions))
	for _, st := range s.questions {
		states = append(states, st)
	}
	s.mu.RUnlock()

	out := make([]domain.Question, 0, len(states))
	for _, st := range states {
		st.mu.Lock()
		out = append(out, cloneQuestion(st.q))
		st.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *QuestionStore) Update(ctx context.Context, id string, fn func(*domain.Question) error) (domain.Question, error) {
	state, err := s.state(ctx, id)
	if err != nil {
		return domain.Question{}, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	next := cloneQuestion(state.q)
	if err := fn(&next); err != nil {
		return domain.Question{}, err
	}
	state.q = next

	s.mu.Lock()
	s.indexLocked(next)
	s.mu.Unlock()

	return cloneQuestion(next), nil
}

func (s *QuestionStore) UpdateComment(ctx context.Context, commentID string, fn func(*domain.Comment) error) (domain.Comment, error) {
	s.mu.RLock()
	questionID, ok := s.comments[commentID]
	s.mu.RUnlock()
	if !ok {
		return domain.Comment{}, domain.ErrCommentNotFound
	}

	var updated domain.Comment
	_, err := s.Update(ctx, questionID, func(q *domain.Question) error {
		for i := range q.Comments {
			if q.Comments[i].ID == commentID {
				if err := fn(&q.Comments[i]); err != nil {
					return err
				}
				updated = q.Comments[i]
				return nil
			}
		}
		return domain.ErrCommentNotFound
	})
	if err != nil {
		return domain.Comment{}, err
	}
	return cloneComment(updated), nil
}

func (s *QuestionStore) UpdateReply(ctx context.Context, replyID string, fn func(*domain.Reply) error) (domain.Reply, error) {
	s.mu.RLock()
	commentID, ok := s.replies[replyID]
	s.mu.RUnlock()
	if !ok {
		return domain.Reply{}, domain.ErrCommentNotFound
	}

	var updated domain.Reply
	_, err := s.UpdateComment(ctx, commentID, func(c *domain.Comment) error {
		for i := range c.Replies {
			if c.Replies[i].ID == replyID {
				if err := fn(&c.Replies[i]); err != nil {
					return err
				}
				updated = c.Replies[i]
				return nil
			}
		}
		return domain.ErrCommentNotFound
	})
	if err != nil {
		return domain.Reply{}, err
	}
	return cloneReply(updated), nil
}

// state resolves the aggregate, loading it from the backing store on a
// miss when a loader is configured.
func (s *QuestionStore) state(ctx context.Context, id string) (*questionState, error) {
	s.mu.RLock()
	state, ok := s.questions[id]
	s.mu.RUnlock()
	if ok {
		return state, nil
	}
	if s.loader == nil {
		return nil, domain.ErrQuestionNotFound
	}

	q, err := s.loader.LoadQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.questions[id]; ok {
		return state, nil
	}
	state = &questionState{q: cloneQuestion(q)}
	s.questions[id] = state
	s.indexLocked(q)
	return state, nil
}

func (s *QuestionStore) indexLocked(q domain.Question) {
	for _, c := range q.Comments {
		s.comments[c.ID] = q.ID
		for _, r := range c.Replies {
			s.replies[r.ID] = c.ID
		}
	}
}

func cloneQuestion(q domain.Question) domain.Question {
	out := q
	out.CorrectOptions = append([]string(nil), q.CorrectOptions...)
	out.CorrectPairs = append([]domain.MatchPair(nil), q.CorrectPairs...)
	out.CorrectOrder = append([]string(nil), q.CorrectOrder...)
	out.Options = append([]domain.Option(nil), q.Options...)
	out.Attempts = append([]domain.Attempt(nil), q.Attempts...)
	out.Ratings = append([]domain.Rating(nil), q.Ratings...)
	if q.Comments != nil {
		out.Comments = make([]domain.Comment, len(q.Comments))
		for i, c := range q.Comments {
			out.Comments[i] = cloneComment(c)
		}
	}
	return out
}

func cloneComment(c domain.Comment) domain.Comment {
	out := c
	out.Likes = append([]string(nil), c.Likes...)
	out.Dislikes = append([]string(nil), c.Dislikes...)
	if c.Replies != nil {
		out.Replies = make([]domain.Reply, len(c.Replies))
		for i, r := range c.Replies {
			out.Replies[i] = cloneReply(r)
		}
	}
	return out
}

func cloneReply(r domain.Reply) domain.Reply {
	out := r
	out.Likes = append([]string(nil), r.Likes...)
	out.Dislikes = append([]string(nil), r.Dislikes...)
	return out
}
