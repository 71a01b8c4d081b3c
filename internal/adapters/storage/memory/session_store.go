package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jobjitsu/interview-api/internal/domain"
)

// SessionStore keeps sessions in memory. It hands out clones so
// callers never mutate the stored record outside UpdateSessionIf.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.SessionID]*domain.Session),
	}
}

func (s *SessionStore) CreateSession(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists: %w", session.ID, domain.ErrConflict)
	}

	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *SessionStore) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}

	return sess.Clone(), nil
}

// UpdateSessionIf applies mutate only while the stored status still
// equals expected. The whole check-mutate-replace runs under the lock,
// so concurrent updates for the same session serialize here.
func (s *SessionStore) UpdateSessionIf(ctx context.Context, id domain.SessionID, expected domain.Status, mutate func(*domain.Session) error) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	if stored.Status != expected {
		return nil, fmt.Errorf("session %s status is %s, expected %s: %w", id, stored.Status, expected, domain.ErrConflict)
	}

	updated := stored.Clone()
	if err := mutate(updated); err != nil {
		return nil, err
	}

	s.sessions[id] = updated
	return updated.Clone(), nil
}

func (s *SessionStore) ListSessionsByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Session
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			result = append(result, sess.Clone())
			if limit > 0 && len(result) >= limit {
				break
			}
		}
	}

	return result, nil
}
