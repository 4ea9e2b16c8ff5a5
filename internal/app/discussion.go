package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"classquiz-service/internal/domain"
)

// AddComment appends a comment to a question's discussion board.
func (s *Service) AddComment(ctx context.Context, questionID, userID, text string) (domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Comment{}, domain.ErrEmptyContent
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return domain.Comment{}, err
	}

	comment := domain.Comment{
		ID:         uuid.NewString(),
		QuestionID: questionID,
		UserID:     userID,
		Text:       text,
		CreatedAt:  s.now(),
		Likes:      []string{},
		Dislikes:   []string{},
		Replies:    []domain.Reply{},
	}
	_, err = s.questions.Update(ctx, questionID, func(q *domain.Question) error {
		if !q.Visible && user.Role == domain.RoleStudent {
			return domain.ErrQuestionHidden
		}
		q.Comments = append(q.Comments, comment)
		return nil
	})
	if err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}

// AddReply appends a reply to an existing comment. Replies nest one level
// only; there is no reply-to-reply.
func (s *Service) AddReply(ctx context.Context, commentID, userID, text string) (domain.Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Reply{}, domain.ErrEmptyContent
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return domain.Reply{}, err
	}

	reply := domain.Reply{
		ID:        uuid.NewString(),
		CommentID: commentID,
		UserID:    userID,
		Text:      text,
		CreatedAt: s.now(),
		Likes:     []string{},
		Dislikes:  []string{},
	}
	_, err := s.questions.UpdateComment(ctx, commentID, func(c *domain.Comment) error {
		c.Replies = append(c.Replies, reply)
		return nil
	})
	if err != nil {
		return domain.Reply{}, err
	}
	return reply, nil
}

// VoteOnComment toggles the voter's like/dislike state on a comment and
// returns the updated counts.
func (s *Service) VoteOnComment(ctx context.Context, commentID, voterID string, direction int) (domain.VoteResult, error) {
	if err := s.checkVoteDirection(direction); err != nil {
		return domain.VoteResult{}, err
	}
	if _, err := s.users.Get(ctx, voterID); err != nil {
		return domain.VoteResult{}, err
	}

	var value int
	updated, err := s.questions.UpdateComment(ctx, commentID, func(c *domain.Comment) error {
		likes, dislikes, v, err := domain.ApplyVote(c.Likes, c.Dislikes, voterID, direction)
		if err != nil {
			return err
		}
		c.Likes, c.Dislikes, value = likes, dislikes, v
		return nil
	})
	if err != nil {
		return domain.VoteResult{}, err
	}
	return domain.VoteResult{Likes: len(updated.Likes), Dislikes: len(updated.Dislikes), VoteValue: value}, nil
}

// VoteOnReply toggles the voter's like/dislike state on a reply.
func (s *Service) VoteOnReply(ctx context.Context, replyID, voterID string, direction int) (domain.VoteResult, error) {
	if err := s.checkVoteDirection(direction); err != nil {
		return domain.VoteResult{}, err
	}
	if _, err := s.users.Get(ctx, voterID); err != nil {
		return domain.VoteResult{}, err
	}

	var value int
	updated, err := s.questions.UpdateReply(ctx, replyID, func(r *domain.Reply) error {
		likes, dislikes, v, err := domain.ApplyVote(r.Likes, r.Dislikes, voterID, direction)
		if err != nil {
			return err
		}
		r.Likes, r.Dislikes, value = likes, dislikes, v
		return nil
	})
	if err != nil {
		return domain.VoteResult{}, err
	}
	return domain.VoteResult{Likes: len(updated.Likes), Dislikes: len(updated.Dislikes), VoteValue: value}, nil
}

// DiscussionBoard returns the question's comment tree for a viewer, with
// mentions of the viewer's own name wrapped for highlighting.
//
// Visibility modes: under "none" students see nothing; under "answered"
// students see the board only once they have a correct attempt on the
// question; "all" is unrestricted. Admins always see everything.
func (s *Service) DiscussionBoard(ctx context.Context, questionID, viewerID string) ([]domain.Comment, error) {
	viewer, err := s.users.Get(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	q, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if !s.canViewDiscussion(q, viewer) {
		return nil, domain.ErrDiscussionHidden
	}

	comments := q.Comments
	for i := range comments {
		comments[i].Text = HighlightMentions(comments[i].Text, viewer.DisplayName)
		for j := range comments[i].Replies {
			comments[i].Replies[j].Text = HighlightMentions(comments[i].Replies[j].Text, viewer.DisplayName)
		}
	}
	return comments, nil
}

// MentionCandidates lists the display names a viewer may mention on a
// question's board, per the visibility mode: everyone under "all", the
// correct solvers plus admins under "answered", nobody under "none". The
// viewer is never a candidate.
func (s *Service) MentionCandidates(ctx context.Context, questionID, viewerID string) ([]string, error) {
	q, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return nil, err
	}
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(users))
	switch s.settings.DiscussionVisibility() {
	case domain.VisibilityAll:
		for _, u := range users {
			if u.ID != viewerID {
				names = append(names, u.DisplayName)
			}
		}
	case domain.VisibilityAnswered:
		for _, u := range users {
			if u.ID == viewerID {
				continue
			}
			if u.Role == domain.RoleAdmin || q.AnsweredBy(u.ID) {
				names = append(names, u.DisplayName)
			}
		}
	}
	return names, nil
}

func (s *Service) checkVoteDirection(direction int) error {
	if direction != 1 && direction != -1 {
		return domain.ErrInvalidVoteDirection
	}
	if direction == -1 && !s.settings.DislikesEnabled() {
		return domain.ErrInvalidVoteDirection
	}
	return nil
}

func (s *Service) canViewDiscussion(q domain.Question, viewer domain.User) bool {
	if viewer.Role == domain.RoleAdmin {
		return true
	}
	switch s.settings.DiscussionVisibility() {
	case domain.VisibilityAll:
		return true
	case domain.VisibilityAnswered:
		return q.AnsweredBy(viewer.ID)
	default:
		return false
	}
}

// HighlightMentions wraps occurrences of "@<full name>" matching the
// viewer's own display name in <b> tags. Matching is an exact full-name
// substring split; duplicate display names across users are not
// disambiguated.
func HighlightMentions(text, viewerName string) string {
	if viewerName == "" {
		return text
	}
	mention := "@" + viewerName
	if !strings.Contains(text, mention) {
		return text
	}
	parts := strings.Split(text, mention)
	return strings.Join(parts, "<b>"+mention+"</b>")
}
