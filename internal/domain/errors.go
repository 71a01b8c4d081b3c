package domain

import "errors"

// Error taxonomy for the interview flow. Services wrap these with
// fmt.Errorf("...: %w", err) so callers can branch with errors.Is.
var (
	// ErrValidation: malformed input (bad question index, empty text).
	ErrValidation = errors.New("validation failed")

	// ErrPrecondition: the operation is legal, but not from the
	// session's current state.
	ErrPrecondition = errors.New("precondition not met")

	// ErrConflict: a concurrent or duplicate mutation was detected;
	// the already-materialized result should be re-read instead.
	ErrConflict = errors.New("conflicting update")

	// ErrNotFound: unknown session id.
	ErrNotFound = errors.New("session not found")

	// ErrUnauthorized: the verified caller does not own the session,
	// or no valid identity was presented.
	ErrUnauthorized = errors.New("caller not authorized")

	// ErrUpstream / ErrUpstreamTimeout: the text-generation
	// collaborator failed or did not answer in time.
	ErrUpstream        = errors.New("generation upstream failed")
	ErrUpstreamTimeout = errors.New("generation upstream timed out")

	// ErrRecovery: the sanitizer could not extract a usable structure
	// from generator output. Always absorbed with a deterministic
	// fallback; never surfaced to callers.
	ErrRecovery = errors.New("no structure recoverable from generator output")
)
