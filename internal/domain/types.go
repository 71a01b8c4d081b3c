package domain

type SessionID string
type UserID string

// Status tracks where a session is in the interview flow.
type Status string

const (
	StatusOpen             Status = "open"
	StatusAllAnswered      Status = "all_answered"
	StatusFollowUpPending  Status = "follow_up_pending"
	StatusFollowUpAnswered Status = "follow_up_answered"
	StatusCompleted        Status = "completed"
)

// QuestionCount is fixed: every session asks exactly this many
// questions before the adaptive follow-up.
const QuestionCount = 3

// Identity is the verified caller, produced once by the token
// verifier. Nothing downstream probes raw token payloads.
type Identity struct {
	CallerID UserID
}
