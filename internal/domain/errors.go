package domain

import "errors"

var (
	// ErrQuestionNotFound indicates the question id does not resolve.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrQuestionHidden is returned when a student addresses an invisible question.
	ErrQuestionHidden = errors.New("question is not visible")
	// ErrMalformedAnswer indicates the submitted answer does not match the
	// shape the question type expects. Distinct from an incorrect answer.
	ErrMalformedAnswer = errors.New("malformed answer for question type")
	// ErrUserNotFound indicates the caller's user id does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrCommentNotFound indicates a comment or reply id does not resolve.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrInvalidVoteDirection is returned when a vote is not +1 or -1.
	ErrInvalidVoteDirection = errors.New("vote direction must be 1 or -1")
	// ErrEmptyContent rejects blank comment or reply text.
	ErrEmptyContent = errors.New("content is empty")
	// ErrRatingOutOfRange rejects ratings outside 1-5.
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")
	// ErrDiscussionHidden is returned when the board's visibility mode
	// excludes the viewer.
	ErrDiscussionHidden = errors.New("discussion board not visible to user")
)
