package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"classquiz-service/internal/app"
	"classquiz-service/internal/domain"
)

// Handler exposes the quiz engagement use cases over JSON endpoints.
// Callers identify themselves with a userId field; authentication is the
// surrounding deployment's concern.
type Handler struct {
	service *app.Service
}

func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// Register attaches all routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/submitanswer", h.SubmitAnswer)
	mux.HandleFunc("/question", h.GetQuestion)
	mux.HandleFunc("/question/rating", h.SubmitRating)
	mux.HandleFunc("/discussion", h.DiscussionBoard)
	mux.HandleFunc("/discussion/comment", h.AddComment)
	mux.HandleFunc("/discussion/reply", h.AddReply)
	mux.HandleFunc("/discussion/comment/vote", h.VoteOnComment)
	mux.HandleFunc("/discussion/reply/vote", h.VoteOnReply)
	mux.HandleFunc("/discussion/mentions", h.MentionCandidates)
	mux.HandleFunc("/leaderboard", h.Leaderboard)
	mux.HandleFunc("/topics", h.Topics)
}

type submitAnswerRequest struct {
	UserID     string          `json:"userId"`
	QuestionID string          `json:"questionId"`
	Answer     json.RawMessage `json:"answer"`
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	log.Printf("user %s attempting question %s", req.UserID, req.QuestionID)
	outcome, err := h.service.SubmitAnswer(r.Context(), req.UserID, req.QuestionID, req.Answer, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	switch {
	case outcome.Locked:
		status = http.StatusLocked
	case !outcome.Correct:
		status = http.StatusMethodNotAllowed
	}
	writeJSON(w, status, outcome)
}

func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.GetQuestion(r.Context(), r.URL.Query().Get("id"), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sanitizeQuestion(q))
}

// sanitizeQuestion strips the canonical answer before a question leaves
// the service.
func sanitizeQuestion(q domain.Question) domain.Question {
	q.AnswerPattern = ""
	q.CorrectOption = ""
	q.CorrectOptions = nil
	q.CorrectPairs = nil
	q.CorrectOrder = nil
	return q
}

type ratingRequest struct {
	UserID     string `json:"userId"`
	QuestionID string `json:"questionId"`
	Rating     int    `json:"rating"`
}

func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.service.SubmitRating(r.Context(), req.QuestionID, req.UserID, req.Rating); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "rating submitted"})
}

func (h *Handler) DiscussionBoard(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.DiscussionBoard(r.Context(), r.URL.Query().Get("questionId"), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

type commentRequest struct {
	UserID     string `json:"userId"`
	QuestionID string `json:"questionId"`
	Text       string `json:"text"`
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	comment, err := h.service.AddComment(r.Context(), req.QuestionID, req.UserID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

type replyRequest struct {
	UserID    string `json:"userId"`
	CommentID string `json:"commentId"`
	Text      string `json:"text"`
}

func (h *Handler) AddReply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	reply, err := h.service.AddReply(r.Context(), req.CommentID, req.UserID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

type voteRequest struct {
	UserID    string `json:"userId"`
	CommentID string `json:"commentId,omitempty"`
	ReplyID   string `json:"replyId,omitempty"`
	Vote      int    `json:"vote"`
}

func (h *Handler) VoteOnComment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	result, err := h.service.VoteOnComment(r.Context(), req.CommentID, req.UserID, req.Vote)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) VoteOnReply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	result, err := h.service.VoteOnReply(r.Context(), req.ReplyID, req.UserID, req.Vote)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) MentionCandidates(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.MentionCandidates(r.Context(), r.URL.Query().Get("questionId"), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limited := r.URL.Query().Get("smallBoard") == "true"
	lb, err := h.service.Leaderboard(r.Context(), r.URL.Query().Get("userId"), limited)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (h *Handler) Topics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.service.Topics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, topics)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCommentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrQuestionHidden),
		errors.Is(err, domain.ErrDiscussionHidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrMalformedAnswer),
		errors.Is(err, domain.ErrInvalidVoteDirection),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, domain.ErrRatingOutOfRange):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
