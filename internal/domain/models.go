package domain

import "time"

// Role distinguishes administrators from students. Admins author content
// and may see hidden questions; only students appear on the leaderboard.
type Role int

const (
	RoleAdmin Role = iota
	RoleStudent
)

// QuestionType selects the answer shape and evaluation rule for a question.
type QuestionType string

const (
	QuestionRegular        QuestionType = "regular"
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionTrueFalse      QuestionType = "true-false"
	QuestionChooseAll      QuestionType = "choose-all"
	QuestionMatching       QuestionType = "matching"
	QuestionOrdering       QuestionType = "ordering"
)

// Visibility controls who can read a question's discussion board.
type Visibility string

const (
	VisibilityNone     Visibility = "none"
	VisibilityAnswered Visibility = "answered"
	VisibilityAll      Visibility = "all"
)

// Option is a selectable choice on multiple-choice and choose-all questions.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// MatchPair links a left-side item to its right-side counterpart.
type MatchPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Question is the aggregate root: content, canonical answer, and the
// mutable submission state that accrues as students answer it.
//
// Exactly one of the canonical-answer fields is populated, depending on
// Type. CorrectAttemptsCount only ever increases and FirstAnswer is set
// at most once; both are mutated only under the owning store's
// per-question critical section.
type Question struct {
	ID        string       `json:"id"`
	Type      QuestionType `json:"type"`
	Topic     string       `json:"topic"`
	Prompt    string       `json:"prompt"`
	Hint      string       `json:"hint,omitempty"`
	MinPoints int          `json:"minPoints"`
	MaxPoints int          `json:"maxPoints"`
	Visible   bool         `json:"visible"`

	// Canonical answer, one per type.
	AnswerPattern  string      `json:"answerPattern,omitempty"`  // regular: exact text or regex
	CaseSensitive  bool        `json:"caseSensitive,omitempty"`  // regular only
	CorrectOption  string      `json:"correctOption,omitempty"`  // multiple-choice, true-false
	CorrectOptions []string    `json:"correctOptions,omitempty"` // choose-all
	CorrectPairs   []MatchPair `json:"correctPairs,omitempty"`   // matching
	CorrectOrder   []string    `json:"correctOrder,omitempty"`   // ordering

	Options []Option `json:"options,omitempty"` // presented choices, where applicable

	CorrectAttemptsCount int       `json:"correctAttemptsCount"`
	FirstAnswer          string    `json:"firstAnswer,omitempty"` // user id of the first solver
	Attempts             []Attempt `json:"attempts,omitempty"`
	Ratings              []Rating  `json:"ratings,omitempty"`
	Comments             []Comment `json:"comments,omitempty"`
}

// AnsweredBy reports whether the user has at least one correct attempt.
func (q Question) AnsweredBy(userID string) bool {
	for _, a := range q.Attempts {
		if a.Correct && a.UserID == userID {
			return true
		}
	}
	return false
}

// Attempt is the audit record of one submission against a question.
type Attempt struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Answer      string    `json:"answer"` // raw submitted payload
	Correct     bool      `json:"correct"`
	Points      int       `json:"points"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Rating is one user's 1-5 rating of a question; re-rating replaces it.
type Rating struct {
	UserID string `json:"userId"`
	Value  int    `json:"value"`
}

// Comment is a top-level discussion post on a question. Replies nest one
// level deep; a user id appears in at most one of Likes/Dislikes.
type Comment struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"questionId"`
	UserID     string    `json:"userId"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
	Likes      []string  `json:"likes"`
	Dislikes   []string  `json:"dislikes"`
	Replies    []Reply   `json:"replies"`
}

// Reply is a response to a comment. Replies cannot themselves be replied to.
type Reply struct {
	ID        string    `json:"id"`
	CommentID string    `json:"commentId"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	Likes     []string  `json:"likes"`
	Dislikes  []string  `json:"dislikes"`
}

// User is an identified caller. Points are cumulative and only credited
// through the submission path.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
	Points      int    `json:"points"`
}

// SubmissionOutcome is the ephemeral result of one submission. A locked
// rejection and an incorrect answer are both normal outcomes, not errors.
type SubmissionOutcome struct {
	Correct       bool          `json:"correct"`
	Points        int           `json:"points"`
	TotalPoints   int           `json:"totalPoints,omitempty"`
	Hint          string        `json:"hint,omitempty"` // only set on incorrect outcomes
	Locked        bool          `json:"locked,omitempty"`
	WaitRemaining time.Duration `json:"waitRemaining,omitempty"`
}

// VoteResult reports the state of a comment or reply after a vote toggle.
// VoteValue is the voter's resulting state: 1 liked, -1 disliked, 0 none.
type VoteResult struct {
	Likes     int `json:"likes"`
	Dislikes  int `json:"dislikes"`
	VoteValue int `json:"voteValue"`
}

// LeaderboardEntry is one ranked row of the scoreboard.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Points      int    `json:"points"`
}

// Leaderboard is an ordered snapshot of student standings.
type Leaderboard struct {
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
