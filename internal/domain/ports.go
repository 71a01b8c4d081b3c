package domain

import "context"

// TextGenerator defines how the core talks to the external
// text-generation capability (prompt in, free text out).
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// SpeechSynthesizer converts text to audio. Failures are non-fatal to
// callers: the text result is still returned, audio is omitted.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// TokenVerifier turns a bearer token into a verified caller identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// SessionStore defines session persistence. The store is the sole
// arbiter of consistency: the core never caches a session across
// calls, and all mutations after creation go through UpdateSessionIf.
type SessionStore interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id SessionID) (*Session, error)

	// UpdateSessionIf applies mutate to the stored session only if its
	// current status still equals expected (compare-and-set). On a
	// status mismatch it returns ErrConflict and the caller re-reads
	// the now-current record instead of regenerating.
	UpdateSessionIf(ctx context.Context, id SessionID, expected Status, mutate func(*Session) error) (*Session, error)

	ListSessionsByUser(ctx context.Context, userID UserID, limit int) ([]*Session, error)
}
