// Package interview implements the session orchestration engine: the
// state machine that walks a session from three fixed questions
// through an adaptive follow-up to a scored feedback summary.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jobjitsu/interview-api/internal/app/recovery"
	"github.com/jobjitsu/interview-api/internal/domain"
	"github.com/jobjitsu/interview-api/internal/observability"
)

type Service struct {
	generator    domain.TextGenerator
	synthesizer  domain.SpeechSynthesizer
	sessionStore domain.SessionStore
	questions    *recovery.QuestionSetBuilder

	genTimeout time.Duration
	ttsTimeout time.Duration

	now   func() time.Time
	newID func() domain.SessionID
}

func NewService(
	generator domain.TextGenerator,
	synthesizer domain.SpeechSynthesizer,
	sessionStore domain.SessionStore,
	questions *recovery.QuestionSetBuilder,
	genTimeout time.Duration,
	ttsTimeout time.Duration,
) *Service {
	return &Service{
		generator:    generator,
		synthesizer:  synthesizer,
		sessionStore: sessionStore,
		questions:    questions,
		genTimeout:   genTimeout,
		ttsTimeout:   ttsTimeout,
		now:          time.Now,
		newID:        func() domain.SessionID { return domain.SessionID(uuid.NewString()) },
	}
}

// casRetries bounds re-reads when a CAS update loses a race with a
// concurrent writer of the same session.
const casRetries = 3

type StartSessionInput struct {
	Caller  domain.Identity
	Role    string
	Company string
}

type StartSessionOutput struct {
	Session *domain.Session
}

// StartSession creates a session with exactly three questions and all
// answers empty. Generator formatting problems never fail the start:
// the deterministic fallback set is used instead. Generator transport
// failures do propagate.
func (s *Service) StartSession(ctx context.Context, in StartSessionInput) (*StartSessionOutput, error) {
	if strings.TrimSpace(in.Role) == "" || strings.TrimSpace(in.Company) == "" {
		return nil, fmt.Errorf("role and company are required: %w", domain.ErrValidation)
	}

	log := observability.LoggerFromContext(ctx).With(
		"user_id", in.Caller.CallerID,
		"role", in.Role,
		"company", in.Company,
	)
	log.Info("starting new session")

	generated, err := s.generate(ctx, "questions", buildQuestionsPrompt(in.Role, in.Company))
	if err != nil {
		log.Error("question generation failed", "error", err)
		return nil, err
	}

	questions, fellBack := s.questions.Build(in.Role, in.Company, generated)
	if fellBack {
		observability.RecoveryFallbacks.WithLabelValues("questions").Inc()
		log.Warn("generator question payload unusable, using fallback set")
	}

	session := domain.NewSession(s.newID(), in.Caller.CallerID, in.Role, in.Company, questions, s.now())
	if err := s.sessionStore.CreateSession(ctx, session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}

	observability.SessionsStarted.Inc()
	log.Info("session started", "session_id", session.ID)

	return &StartSessionOutput{Session: session}, nil
}

type NextQuestionOutput struct {
	Question domain.Question
	Complete bool
}

// NextQuestion returns the lowest-indexed unanswered question, or
// Complete=true once every question has an answer. Pure query, no
// state transition, idempotent across repeated calls.
func (s *Service) NextQuestion(ctx context.Context, caller domain.Identity, sessionID domain.SessionID) (*NextQuestionOutput, error) {
	session, err := s.authorizedSession(ctx, caller, sessionID)
	if err != nil {
		return nil, err
	}

	q, done := session.NextQuestion()
	return &NextQuestionOutput{Question: q, Complete: done}, nil
}

type SubmitAnswerInput struct {
	Caller    domain.Identity
	SessionID domain.SessionID
	Index     int
	Answer    string
}

// SubmitAnswer records an answer for a question index. Resubmitting an
// answered index overwrites it (idempotent set). Writing the last
// remaining answer moves the session to all-answered.
func (s *Service) SubmitAnswer(ctx context.Context, in SubmitAnswerInput) (*domain.Session, error) {
	session, err := s.authorizedSession(ctx, in.Caller, in.SessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", in.SessionID,
		"question_index", in.Index,
	)

	for attempt := 0; attempt < casRetries; attempt++ {
		updated, err := s.sessionStore.UpdateSessionIf(ctx, in.SessionID, session.Status, func(sess *domain.Session) error {
			return sess.SubmitAnswer(in.Index, in.Answer, s.now())
		})
		if err == nil {
			log.Info("answer recorded", "status", updated.Status)
			return updated, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}

		// Lost a race; re-read and retry against the fresh status.
		session, err = s.sessionStore.GetSession(ctx, in.SessionID)
		if err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("submit answer for session %s kept conflicting: %w", in.SessionID, domain.ErrConflict)
}

type FollowUpOutput struct {
	Question string
	Audio    []byte
}

// RequestFollowUp generates the single adaptive follow-up question
// from the three answered questions. Idempotent: once a follow-up
// exists it is returned as-is, never regenerated, so concurrent or
// repeated requests cannot produce two different questions.
func (s *Service) RequestFollowUp(ctx context.Context, caller domain.Identity, sessionID domain.SessionID) (*FollowUpOutput, error) {
	session, err := s.authorizedSession(ctx, caller, sessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	if session.FollowUp != nil {
		return &FollowUpOutput{
			Question: session.FollowUp.Question,
			Audio:    s.synthesize(ctx, session.FollowUp.Question),
		}, nil
	}
	if session.Status == domain.StatusCompleted {
		return nil, fmt.Errorf("session %s already completed: %w", sessionID, domain.ErrConflict)
	}
	if session.Status != domain.StatusAllAnswered {
		return nil, fmt.Errorf("follow-up requires all %d answers (status %s): %w", domain.QuestionCount, session.Status, domain.ErrPrecondition)
	}

	generated, err := s.generate(ctx, "follow_up", buildFollowUpPrompt(session.QAPairs()))
	if err != nil {
		log.Error("follow-up generation failed", "error", err)
		return nil, err
	}

	question := recovery.CleanText(generated)
	if question == "" {
		observability.RecoveryFallbacks.WithLabelValues("follow_up").Inc()
		log.Warn("generator returned empty follow-up, using default")
		question = recovery.DefaultFollowUpQuestion
	}

	updated, err := s.sessionStore.UpdateSessionIf(ctx, sessionID, domain.StatusAllAnswered, func(sess *domain.Session) error {
		return sess.AttachFollowUp(question, s.now())
	})
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		// A concurrent request won the race. Return its follow-up so
		// both callers observe identical text.
		current, readErr := s.sessionStore.GetSession(ctx, sessionID)
		if readErr != nil {
			return nil, readErr
		}
		if current.FollowUp == nil {
			return nil, err
		}
		updated = current
	}

	log.Info("follow-up attached")

	return &FollowUpOutput{
		Question: updated.FollowUp.Question,
		Audio:    s.synthesize(ctx, updated.FollowUp.Question),
	}, nil
}

type SubmitFollowUpAnswerInput struct {
	Caller    domain.Identity
	SessionID domain.SessionID
	Answer    string
}

// SubmitFollowUpAnswer records the candidate's answer to the
// follow-up question.
func (s *Service) SubmitFollowUpAnswer(ctx context.Context, in SubmitFollowUpAnswerInput) (*domain.Session, error) {
	session, err := s.authorizedSession(ctx, in.Caller, in.SessionID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		updated, err := s.sessionStore.UpdateSessionIf(ctx, in.SessionID, session.Status, func(sess *domain.Session) error {
			return sess.AnswerFollowUp(in.Answer, s.now())
		})
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}

		session, err = s.sessionStore.GetSession(ctx, in.SessionID)
		if err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("follow-up answer for session %s kept conflicting: %w", in.SessionID, domain.ErrConflict)
}

type FeedbackOutput struct {
	Feedback domain.Feedback
}

// RequestFeedback produces the scored summary, exactly once. Repeat
// and concurrent calls return the stored feedback unchanged; after
// completion this is a plain read.
func (s *Service) RequestFeedback(ctx context.Context, caller domain.Identity, sessionID domain.SessionID) (*FeedbackOutput, error) {
	session, err := s.authorizedSession(ctx, caller, sessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	if session.Feedback != nil {
		return &FeedbackOutput{Feedback: *session.Feedback}, nil
	}
	if !session.AllAnswered() {
		return nil, fmt.Errorf("feedback requires all %d answers (status %s): %w", domain.QuestionCount, session.Status, domain.ErrPrecondition)
	}

	generated, err := s.generate(ctx, "feedback", buildFeedbackPrompt(session.QAPairs()))
	if err != nil {
		log.Error("feedback generation failed", "error", err)
		return nil, err
	}

	feedback := recovery.ParseFeedback(generated)

	updated, err := s.sessionStore.UpdateSessionIf(ctx, sessionID, session.Status, func(sess *domain.Session) error {
		return sess.AttachFeedback(feedback, s.now())
	})
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		// A concurrent request materialized feedback first; return the
		// stored record so both callers observe the same score.
		current, readErr := s.sessionStore.GetSession(ctx, sessionID)
		if readErr != nil {
			return nil, readErr
		}
		if current.Feedback == nil {
			return nil, err
		}
		updated = current
	}

	observability.FeedbackScores.Observe(updated.Feedback.Score)
	log.Info("feedback attached", "score", updated.Feedback.Score)

	return &FeedbackOutput{Feedback: *updated.Feedback}, nil
}

// GetSession returns the caller's full session view.
func (s *Service) GetSession(ctx context.Context, caller domain.Identity, sessionID domain.SessionID) (*domain.Session, error) {
	return s.authorizedSession(ctx, caller, sessionID)
}

// ListSessions returns the caller's sessions, newest first where the
// store supports ordering.
func (s *Service) ListSessions(ctx context.Context, caller domain.Identity, limit int) ([]*domain.Session, error) {
	return s.sessionStore.ListSessionsByUser(ctx, caller.CallerID, limit)
}

// authorizedSession loads a session and checks ownership. Session
// content is private to its creator, so reads are gated the same way
// as mutations.
func (s *Service) authorizedSession(ctx context.Context, caller domain.Identity, sessionID domain.SessionID) (*domain.Session, error) {
	session, err := s.sessionStore.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != caller.CallerID {
		return nil, fmt.Errorf("caller %s does not own session %s: %w", caller.CallerID, sessionID, domain.ErrUnauthorized)
	}
	return session, nil
}

// generate calls the text generator under the configured timeout and
// translates failures into the upstream error taxonomy.
func (s *Service) generate(ctx context.Context, operation, prompt string) (string, error) {
	gctx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()

	text, err := s.generator.GenerateText(gctx, prompt)
	if err != nil {
		observability.GenerationFailures.WithLabelValues(operation).Inc()
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(gctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%s generation: %w", operation, domain.ErrUpstreamTimeout)
		}
		return "", fmt.Errorf("%s generation: %w", operation, domain.ErrUpstream)
	}
	return text, nil
}

// synthesize converts text to audio. Failure only suppresses the audio
// field; it never fails the surrounding operation.
func (s *Service) synthesize(ctx context.Context, text string) []byte {
	if s.synthesizer == nil {
		return nil
	}

	tctx, cancel := context.WithTimeout(ctx, s.ttsTimeout)
	defer cancel()

	audio, err := s.synthesizer.Synthesize(tctx, text)
	if err != nil {
		observability.SynthesisFailures.Inc()
		observability.LoggerFromContext(ctx).Warn("speech synthesis failed, omitting audio", "error", err)
		return nil
	}
	return audio
}
