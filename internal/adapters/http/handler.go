package httpadapter

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jobjitsu/interview-api/internal/app/interview"
	"github.com/jobjitsu/interview-api/internal/domain"
)

type Server struct {
	svc *interview.Service
}

// NewServer wires the interview service behind the HTTP surface.
// Everything under /sessions requires a verified bearer token.
func NewServer(svc *interview.Service, verifier domain.TokenVerifier, allowedOrigins string) http.Handler {
	s := &Server{svc: svc}
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())

	// /sessions            → POST: start, GET: list caller's sessions
	// /sessions/{id}       → GET: full session view
	// /sessions/{id}/...   → interview operations
	sessions := http.NewServeMux()
	sessions.HandleFunc("/sessions", s.handleSessions)
	sessions.HandleFunc("/sessions/", s.handleSessionWithID)
	mux.Handle("/sessions", withAuth(verifier, sessions))
	mux.Handle("/sessions/", withAuth(verifier, sessions))

	return chainMiddlewares(mux, withLogging, withCORS(allowedOrigins), withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type startSessionRequest struct {
	Role    string `json:"role"`
	Company string `json:"company"`
}

type questionResponse struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Answer string `json:"answer,omitempty"`
}

type followUpResponse struct {
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
}

type feedbackResponse struct {
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}

type sessionResponse struct {
	ID        string             `json:"session_id"`
	UserID    string             `json:"user_id"`
	Role      string             `json:"role"`
	Company   string             `json:"company"`
	Status    string             `json:"status"`
	Questions []questionResponse `json:"questions"`
	FollowUp  *followUpResponse  `json:"follow_up,omitempty"`
	Feedback  *feedbackResponse  `json:"feedback,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type startSessionResponse struct {
	SessionID string             `json:"session_id"`
	Questions []questionResponse `json:"questions"`
}

type nextQuestionResponse struct {
	QuestionNumber int    `json:"question_number,omitempty"`
	Question       string `json:"question,omitempty"`
	IsLastQuestion bool   `json:"is_last_question"`
	IsComplete     bool   `json:"is_complete"`
}

type submitAnswerRequest struct {
	Index  int    `json:"question_number"`
	Answer string `json:"answer"`
}

type followUpQuestionResponse struct {
	FollowUp string `json:"follow_up"`
	AudioB64 string `json:"audio_b64,omitempty"`
}

type followUpAnswerRequest struct {
	Answer string `json:"answer"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type ackResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "JobJitsu interview API is running",
		"version": "1.0.0",
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// /sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleStartSession(w, r)
	case http.MethodGet:
		s.handleListSessions(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /sessions/{id} or /sessions/{id}/{op}
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := domain.SessionID(parts[0])
	if id == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetSession(w, r, id)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}

	switch parts[1] {
	case "next":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleNextQuestion(w, r, id)
	case "answers":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleSubmitAnswer(w, r, id)
	case "followup":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleRequestFollowUp(w, r, id)
	case "followup-answer":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleSubmitFollowUpAnswer(w, r, id)
	case "feedback":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleRequestFeedback(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.svc.StartSession(r.Context(), interview.StartSessionInput{
		Caller:  caller,
		Role:    req.Role,
		Company: req.Company,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := startSessionResponse{SessionID: string(out.Session.ID)}
	for _, q := range out.Session.Questions {
		resp.Questions = append(resp.Questions, questionResponse{Index: q.Index, Text: q.Text})
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	caller, ok := identityFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	sessions, err := s.svc.ListSessions(r.Context(), caller, 50)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := listSessionsResponse{Sessions: make([]sessionResponse, 0, len(sessions))}
	for _, sess := range sessions {
		resp.Sessions = append(resp.Sessions, toSessionResponse(sess))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	caller, ok := identityFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	session, err := s.svc.GetSession(r.Context(), caller, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	caller, ok := identityFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	out, err := s.svc.NextQuestion(r.Context(), caller, id)
	if err != nil {
		writeError(w, err)
		return
	}

	if out.Complete {
		writeJSON(w, http.StatusOK, nextQuestionResponse{IsComplete: true})
		return
	}

	writeJSON(w, http.StatusOK, nextQuestionResponse{
		QuestionNumber: out.Question.Index,
		Question:       out.Question.Text,
		IsLastQuestion: out.Question.Index == domain.QuestionCount,
	})
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	caller, ok := identityFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	updated, err := s.svc.SubmitAnswer(r.Context(), interview.SubmitAnswerInput{
		Caller:    caller,
		SessionID: id,
		Index:     req.Index,
		Answer:    req.Answer,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ackResponse{Message: "answer saved", Status: string(updated.Status)})
}

func (s *Server) handleRequestFollowUp(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	caller, ok := identityFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	out, err := s.svc.RequestFollowUp(r.Context(), caller, id)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := followUpQuestionResponse{FollowUp: out.Question}
	if len(out.Audio) > 0 {
		resp.AudioB64 = base64.StdEncoding.EncodeToString(out.Audio)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitFollowUpAnswer(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	caller, ok := identityFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req followUpAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	updated, err := s.svc.SubmitFollowUpAnswer(r.Context(), interview.SubmitFollowUpAnswerInput{
		Caller:    caller,
		SessionID: id,
		Answer:    req.Answer,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ackResponse{Message: "follow-up answer saved", Status: string(updated.Status)})
}

func (s *Server) handleRequestFeedback(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	caller, ok := identityFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	out, err := s.svc.RequestFeedback(r.Context(), caller, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, feedbackResponse{
		Score:       out.Feedback.Score,
		Description: out.Feedback.Description,
	})
}

// ─────────────────────────────────────────────
// Response mapping
// ─────────────────────────────────────────────

func toSessionResponse(s *domain.Session) sessionResponse {
	resp := sessionResponse{
		ID:        string(s.ID),
		UserID:    string(s.UserID),
		Role:      s.Role,
		Company:   s.Company,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	for _, q := range s.Questions {
		resp.Questions = append(resp.Questions, questionResponse{Index: q.Index, Text: q.Text, Answer: q.Answer})
	}
	if s.FollowUp != nil {
		resp.FollowUp = &followUpResponse{Question: s.FollowUp.Question, Answer: s.FollowUp.Answer}
	}
	if s.Feedback != nil {
		resp.Feedback = &feedbackResponse{Score: s.Feedback.Score, Description: s.Feedback.Description}
	}
	return resp
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates the domain error taxonomy into status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeTaggedError(w, http.StatusBadRequest, "validation", err)
	case errors.Is(err, domain.ErrNotFound):
		writeTaggedError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, domain.ErrUnauthorized):
		writeTaggedError(w, http.StatusForbidden, "authorization", err)
	case errors.Is(err, domain.ErrPrecondition):
		writeTaggedError(w, http.StatusConflict, "precondition", err)
	case errors.Is(err, domain.ErrConflict):
		writeTaggedError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, domain.ErrUpstreamTimeout):
		writeTaggedError(w, http.StatusGatewayTimeout, "upstream_timeout", err)
	case errors.Is(err, domain.ErrUpstream):
		writeTaggedError(w, http.StatusBadGateway, "upstream", err)
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "internal server error",
		})
	}
}

func writeTaggedError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  code,
	})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
		"code":  "validation",
	})
}

func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{
		"error": "missing or invalid token",
		"code":  "authorization",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
