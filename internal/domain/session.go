package domain

import (
	"fmt"
	"strings"
	"time"
)

// Question is one of the three fixed interview questions. Index is
// 1-based and stable for the life of the session.
type Question struct {
	Index  int
	Text   string
	Answer string
}

// Answered reports whether the candidate has answered this question.
func (q Question) Answered() bool {
	return strings.TrimSpace(q.Answer) != ""
}

// FollowUp is the single adaptive question generated after the three
// fixed questions are answered.
type FollowUp struct {
	Question string
	Answer   string
}

// Feedback is the scored summary, created exactly once.
type Feedback struct {
	Score       float64
	Description string
}

// Session is the aggregate root: one interview attempt by one user
// for one role/company.
type Session struct {
	ID        SessionID
	UserID    UserID
	Role      string
	Company   string
	Questions [QuestionCount]Question
	FollowUp  *FollowUp
	Feedback  *Feedback
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession creates an open session with the given question texts and
// all answers empty. Questions are indexed 1..QuestionCount and never
// reordered or resized afterwards.
func NewSession(id SessionID, userID UserID, role, company string, questions [QuestionCount]string, now time.Time) *Session {
	s := &Session{
		ID:        id,
		UserID:    userID,
		Role:      role,
		Company:   company,
		Status:    StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, text := range questions {
		s.Questions[i] = Question{Index: i + 1, Text: text}
	}
	return s
}

// NextQuestion returns the lowest-indexed unanswered question.
// Once every question is answered it reports done=true.
func (s *Session) NextQuestion() (Question, bool) {
	for _, q := range s.Questions {
		if !q.Answered() {
			return q, false
		}
	}
	return Question{}, true
}

// AllAnswered reports whether all three fixed questions have answers.
func (s *Session) AllAnswered() bool {
	_, done := s.NextQuestion()
	return done
}

// SubmitAnswer records the answer for a question index. Resubmitting
// an already-answered index overwrites the previous answer (idempotent
// set). Writing the last remaining answer moves an open session to
// AllAnswered.
func (s *Session) SubmitAnswer(index int, answer string, now time.Time) error {
	if s.Status == StatusCompleted {
		return fmt.Errorf("session %s already completed: %w", s.ID, ErrConflict)
	}
	if index < 1 || index > QuestionCount {
		return fmt.Errorf("question index %d out of range 1..%d: %w", index, QuestionCount, ErrValidation)
	}
	if strings.TrimSpace(answer) == "" {
		return fmt.Errorf("answer must not be empty: %w", ErrValidation)
	}

	s.Questions[index-1].Answer = answer
	s.UpdatedAt = now

	if s.Status == StatusOpen && s.AllAnswered() {
		s.Status = StatusAllAnswered
	}
	return nil
}

// AttachFollowUp records the generated follow-up question. Only legal
// from AllAnswered; idempotent re-requests are resolved by the caller
// returning the existing follow-up instead.
func (s *Session) AttachFollowUp(question string, now time.Time) error {
	if s.Status == StatusCompleted {
		return fmt.Errorf("session %s already completed: %w", s.ID, ErrConflict)
	}
	if s.Status != StatusAllAnswered {
		return fmt.Errorf("follow-up requires all %d answers (status %s): %w", QuestionCount, s.Status, ErrPrecondition)
	}
	s.FollowUp = &FollowUp{Question: question}
	s.Status = StatusFollowUpPending
	s.UpdatedAt = now
	return nil
}

// AnswerFollowUp records the candidate's answer to the follow-up.
func (s *Session) AnswerFollowUp(answer string, now time.Time) error {
	if s.Status == StatusCompleted {
		return fmt.Errorf("session %s already completed: %w", s.ID, ErrConflict)
	}
	if s.FollowUp == nil {
		return fmt.Errorf("no follow-up question issued yet: %w", ErrPrecondition)
	}
	if strings.TrimSpace(answer) == "" {
		return fmt.Errorf("answer must not be empty: %w", ErrValidation)
	}
	s.FollowUp.Answer = answer
	s.Status = StatusFollowUpAnswered
	s.UpdatedAt = now
	return nil
}

// AttachFeedback stores the scored summary and completes the session.
// Legal whenever all three questions are answered; the follow-up is
// optional context. Exactly-once creation is enforced by the caller
// returning stored feedback on re-request.
func (s *Session) AttachFeedback(fb Feedback, now time.Time) error {
	if s.Status == StatusCompleted {
		return fmt.Errorf("session %s already completed: %w", s.ID, ErrConflict)
	}
	if !s.AllAnswered() {
		return fmt.Errorf("feedback requires all %d answers (status %s): %w", QuestionCount, s.Status, ErrPrecondition)
	}
	s.Feedback = &fb
	s.Status = StatusCompleted
	s.UpdatedAt = now
	return nil
}

// QAPairs returns the question/answer transcript used as generation
// context. The follow-up exchange is included once it has an answer.
func (s *Session) QAPairs() []QAPair {
	pairs := make([]QAPair, 0, QuestionCount+1)
	for _, q := range s.Questions {
		pairs = append(pairs, QAPair{Question: q.Text, Answer: q.Answer})
	}
	if s.FollowUp != nil && strings.TrimSpace(s.FollowUp.Answer) != "" {
		pairs = append(pairs, QAPair{Question: s.FollowUp.Question, Answer: s.FollowUp.Answer})
	}
	return pairs
}

// QAPair is one exchange of the interview transcript.
type QAPair struct {
	Question string
	Answer   string
}

// Clone returns a deep copy. Stores hand out clones so callers never
// alias the persisted record.
func (s *Session) Clone() *Session {
	c := *s
	if s.FollowUp != nil {
		fu := *s.FollowUp
		c.FollowUp = &fu
	}
	if s.Feedback != nil {
		fb := *s.Feedback
		c.Feedback = &fb
	}
	return &c
}
