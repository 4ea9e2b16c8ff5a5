package app

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"classquiz-service/internal/domain"
	"classquiz-service/internal/domain/eval"
	"classquiz-service/internal/domain/scoring"
)

// SubmitAnswer runs one submission end to end: lock gate, evaluation,
// scoring and the atomic question/user mutations.
//
// A rejected-while-locked attempt and an incorrect answer are both normal
// outcomes. Admin submissions are evaluated and scored for feedback but
// never recorded: they do not stamp locks, touch the attempt counters, or
// credit points.
func (s *Service) SubmitAnswer(ctx context.Context, userID, questionID string, rawAnswer json.RawMessage, now time.Time) (domain.SubmissionOutcome, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return domain.SubmissionOutcome{}, err
	}

	q, err := s.questions.Get(ctx, questionID)
	if err != nil {
		return domain.SubmissionOutcome{}, err
	}
	if !q.Visible && user.Role == domain.RoleStudent {
		return domain.SubmissionOutcome{}, domain.ErrQuestionHidden
	}

	if user.Role == domain.RoleStudent {
		allowed, wait, err := s.locks.CheckAndStamp(ctx, userID, questionID, now, s.settings.AttemptCooldown())
		if err != nil {
			return domain.SubmissionOutcome{}, err
		}
		if !allowed {
			// The answer is not evaluated at all while locked.
			return domain.SubmissionOutcome{Locked: true, WaitRemaining: wait}, nil
		}
	}

	answer, err := eval.ParseAnswer(q.Type, rawAnswer)
	if err != nil {
		return domain.SubmissionOutcome{}, err
	}
	correct, err := eval.Evaluate(q, answer)
	if err != nil {
		return domain.SubmissionOutcome{}, err
	}

	outcome := domain.SubmissionOutcome{Correct: correct}
	if !correct {
		outcome.Hint = q.Hint
	}

	if user.Role == domain.RoleAdmin {
		if correct {
			outcome.Points = scoring.Award(q.MinPoints, q.MaxPoints, q.CorrectAttemptsCount)
		}
		return outcome, nil
	}

	attempt := domain.Attempt{
		ID:          uuid.NewString(),
		UserID:      userID,
		Answer:      string(rawAnswer),
		Correct:     correct,
		SubmittedAt: now,
	}

	// Scoring reads the pre-increment count and the increment happens in
	// the same per-question critical section, so two concurrent correct
	// submissions cannot observe the same count or both claim first solve.
	if _, err := s.questions.Update(ctx, questionID, func(q *domain.Question) error {
		if correct {
			attempt.Points = scoring.Award(q.MinPoints, q.MaxPoints, q.CorrectAttemptsCount)
			q.CorrectAttemptsCount++
			if q.FirstAnswer == "" {
				q.FirstAnswer = userID
			}
		}
		q.Attempts = append(q.Attempts, attempt)
		return nil
	}); err != nil {
		return domain.SubmissionOutcome{}, err
	}

	if correct {
		total, err := s.users.CreditPoints(ctx, userID, attempt.Points)
		if err != nil {
			return domain.SubmissionOutcome{}, err
		}
		outcome.Points = attempt.Points
		outcome.TotalPoints = total
		s.broadcastLeaderboard(ctx)
	}
	return outcome, nil
}

// SubmitRating records a user's 1-5 rating of a question, replacing any
// prior rating from the same user.
func (s *Service) SubmitRating(ctx context.Context, questionID, userID string, rating int) error {
	if rating < 1 || rating > 5 {
		return domain.ErrRatingOutOfRange
	}
	if _, err := s.users.Get(ctx, userID); err != nil {
		return err
	}
	_, err := s.questions.Update(ctx, questionID, func(q *domain.Question) error {
		for i := range q.Ratings {
			if q.Ratings[i].UserID == userID {
				q.Ratings[i].Value = rating
				return nil
			}
		}
		q.Ratings = append(q.Ratings, domain.Rating{UserID: userID, Value: rating})
		return nil
	})
	return err
}
