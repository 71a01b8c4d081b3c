package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jobjitsu/interview-api/internal/adapters/auth"
	httpadapter "github.com/jobjitsu/interview-api/internal/adapters/http"
	"github.com/jobjitsu/interview-api/internal/adapters/llm"
	memstore "github.com/jobjitsu/interview-api/internal/adapters/storage/memory"
	"github.com/jobjitsu/interview-api/internal/adapters/tts"
	"github.com/jobjitsu/interview-api/internal/app/interview"
	"github.com/jobjitsu/interview-api/internal/app/recovery"
	"github.com/jobjitsu/interview-api/internal/domain"
)

func newTestServer() http.Handler {
	svc := interview.NewService(
		llm.NewMockGenerator(),
		tts.NewMockSynthesizer(),
		memstore.NewSessionStore(),
		recovery.NewQuestionSetBuilder(recovery.DefaultQuestionTemplates),
		5*time.Second,
		5*time.Second,
	)
	verifier := auth.NewStaticVerifier(map[string]domain.UserID{
		"tok-u1": "u1",
		"tok-u2": "u2",
	})
	return httpadapter.NewServer(svc, verifier, "*")
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

func startTestSession(t *testing.T, h http.Handler, token string) string {
	t.Helper()

	rec := doJSON(t, h, http.MethodPost, "/sessions", token, map[string]string{
		"role":    "Software Engineer",
		"company": "Acme",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start session returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		SessionID string `json:"session_id"`
		Questions []struct {
			Index int    `json:"index"`
			Text  string `json:"text"`
		} `json:"questions"`
	}
	decodeBody(t, rec, &resp)

	if resp.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if len(resp.Questions) != domain.QuestionCount {
		t.Fatalf("expected %d questions, got %d", domain.QuestionCount, len(resp.Questions))
	}
	return resp.SessionID
}

func TestHealthzUnauthenticated(t *testing.T) {
	h := newTestServer()

	rec := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRootInfo(t *testing.T) {
	h := newTestServer()

	rec := doJSON(t, h, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["message"] == "" {
		t.Fatal("expected an info message")
	}
}

func TestSessionsRequireToken(t *testing.T) {
	h := newTestServer()

	rec := doJSON(t, h, http.MethodPost, "/sessions", "", map[string]string{
		"role": "SE", "company": "Acme",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/sessions", "bogus", map[string]string{
		"role": "SE", "company": "Acme",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown token, got %d", rec.Code)
	}
}

func TestStartSessionValidationError(t *testing.T) {
	h := newTestServer()

	rec := doJSON(t, h, http.MethodPost, "/sessions", "tok-u1", map[string]string{
		"role": "", "company": "Acme",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestForeignSessionForbidden(t *testing.T) {
	h := newTestServer()
	id := startTestSession(t, h, "tok-u1")

	rec := doJSON(t, h, http.MethodGet, "/sessions/"+id, "tok-u2", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestUnknownSessionNotFound(t *testing.T) {
	h := newTestServer()

	rec := doJSON(t, h, http.MethodGet, "/sessions/does-not-exist", "tok-u1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestFeedbackBeforeAnswersConflicts(t *testing.T) {
	h := newTestServer()
	id := startTestSession(t, h, "tok-u1")

	rec := doJSON(t, h, http.MethodPost, "/sessions/"+id+"/feedback", "tok-u1", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer()
	id := startTestSession(t, h, "tok-u1")

	rec := doJSON(t, h, http.MethodDelete, "/sessions/"+id, "tok-u1", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestInterviewFlowOverHTTP(t *testing.T) {
	h := newTestServer()
	id := startTestSession(t, h, "tok-u1")

	// First question is up.
	rec := doJSON(t, h, http.MethodGet, "/sessions/"+id+"/next", "tok-u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("next question returned %d", rec.Code)
	}
	var next struct {
		QuestionNumber int    `json:"question_number"`
		Question       string `json:"question"`
		IsLastQuestion bool   `json:"is_last_question"`
		IsComplete     bool   `json:"is_complete"`
	}
	decodeBody(t, rec, &next)
	if next.QuestionNumber != 1 || next.IsComplete {
		t.Fatalf("expected question 1, got %+v", next)
	}

	// Answer all three.
	for i := 1; i <= domain.QuestionCount; i++ {
		rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/answers", "tok-u1", map[string]any{
			"question_number": i,
			"answer":          "my answer",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("answer %d returned %d: %s", i, rec.Code, rec.Body.String())
		}
	}

	rec = doJSON(t, h, http.MethodGet, "/sessions/"+id+"/next", "tok-u1", nil)
	decodeBody(t, rec, &next)
	if !next.IsComplete {
		t.Fatalf("expected completion after all answers, got %+v", next)
	}

	// Follow-up, twice, same text both times.
	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/followup", "tok-u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("follow-up returned %d: %s", rec.Code, rec.Body.String())
	}
	var followUp struct {
		FollowUp string `json:"follow_up"`
		AudioB64 string `json:"audio_b64"`
	}
	decodeBody(t, rec, &followUp)
	if followUp.FollowUp == "" {
		t.Fatal("expected follow-up text")
	}
	if followUp.AudioB64 == "" {
		t.Fatal("expected base64 audio from mock synthesizer")
	}

	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/followup", "tok-u1", nil)
	var followUpAgain struct {
		FollowUp string `json:"follow_up"`
	}
	decodeBody(t, rec, &followUpAgain)
	if followUpAgain.FollowUp != followUp.FollowUp {
		t.Fatalf("follow-up text changed between calls: %q vs %q", followUp.FollowUp, followUpAgain.FollowUp)
	}

	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/followup-answer", "tok-u1", map[string]string{
		"answer": "the deadline",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("follow-up answer returned %d: %s", rec.Code, rec.Body.String())
	}

	// Feedback completes the session.
	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/feedback", "tok-u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("feedback returned %d: %s", rec.Code, rec.Body.String())
	}
	var feedback struct {
		Score       float64 `json:"score"`
		Description string  `json:"description"`
	}
	decodeBody(t, rec, &feedback)
	if feedback.Score < 0 || feedback.Score > 10 {
		t.Fatalf("score out of range: %f", feedback.Score)
	}
	if feedback.Description == "" {
		t.Fatal("expected feedback description")
	}

	// Answers after completion conflict.
	rec = doJSON(t, h, http.MethodPost, "/sessions/"+id+"/answers", "tok-u1", map[string]any{
		"question_number": 1,
		"answer":          "too late",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 after completion, got %d", rec.Code)
	}

	// Full session view reflects the final state.
	rec = doJSON(t, h, http.MethodGet, "/sessions/"+id, "tok-u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get session returned %d", rec.Code)
	}
	var session struct {
		Status   string `json:"status"`
		FollowUp *struct {
			Question string `json:"question"`
			Answer   string `json:"answer"`
		} `json:"follow_up"`
		Feedback *struct {
			Score float64 `json:"score"`
		} `json:"feedback"`
	}
	decodeBody(t, rec, &session)
	if session.Status != string(domain.StatusCompleted) {
		t.Fatalf("expected completed, got %s", session.Status)
	}
	if session.FollowUp == nil || session.FollowUp.Answer != "the deadline" {
		t.Fatalf("expected stored follow-up answer, got %+v", session.FollowUp)
	}
	if session.Feedback == nil {
		t.Fatal("expected stored feedback")
	}
}

func TestListSessions(t *testing.T) {
	h := newTestServer()
	startTestSession(t, h, "tok-u1")
	startTestSession(t, h, "tok-u1")
	startTestSession(t, h, "tok-u2")

	rec := doJSON(t, h, http.MethodGet, "/sessions", "tok-u1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list sessions returned %d", rec.Code)
	}

	var resp struct {
		Sessions []struct {
			ID     string `json:"session_id"`
			UserID string `json:"user_id"`
		} `json:"sessions"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Sessions) != 2 {
		t.Fatalf("expected 2 sessions for u1, got %d", len(resp.Sessions))
	}
	for _, s := range resp.Sessions {
		if s.UserID != "u1" {
			t.Fatalf("foreign session leaked into listing: %+v", s)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer()

	req := httptest.NewRequest(http.MethodOptions, "/sessions", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Fatal("expected CORS headers on preflight response")
	}
}
