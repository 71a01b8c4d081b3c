package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jobjitsu/interview-api/internal/domain"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore-backed session store.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

// Close releases the underlying client. Called at process shutdown.
func (s *Store) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("sessions")
}

func (s *Store) sessionDocRef(id domain.SessionID) *firestore.DocumentRef {
	return s.sessionsCol().Doc(string(id))
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type questionDoc struct {
	Index  int    `firestore:"index"`
	Text   string `firestore:"text"`
	Answer string `firestore:"answer"`
}

type followUpDoc struct {
	Question string `firestore:"question"`
	Answer   string `firestore:"answer"`
}

type feedbackDoc struct {
	Score       float64 `firestore:"score"`
	Description string  `firestore:"description"`
}

type sessionDoc struct {
	UserID    string        `firestore:"user_id"`
	Role      string        `firestore:"role"`
	Company   string        `firestore:"company"`
	Status    string        `firestore:"status"`
	Questions []questionDoc `firestore:"questions"`
	FollowUp  *followUpDoc  `firestore:"follow_up"`
	Feedback  *feedbackDoc  `firestore:"feedback"`
	CreatedAt time.Time     `firestore:"created_at"`
	UpdatedAt time.Time     `firestore:"updated_at"`
}

func toSessionDoc(session *domain.Session) sessionDoc {
	doc := sessionDoc{
		UserID:    string(session.UserID),
		Role:      session.Role,
		Company:   session.Company,
		Status:    string(session.Status),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
	for _, q := range session.Questions {
		doc.Questions = append(doc.Questions, questionDoc{Index: q.Index, Text: q.Text, Answer: q.Answer})
	}
	if session.FollowUp != nil {
		doc.FollowUp = &followUpDoc{Question: session.FollowUp.Question, Answer: session.FollowUp.Answer}
	}
	if session.Feedback != nil {
		doc.Feedback = &feedbackDoc{Score: session.Feedback.Score, Description: session.Feedback.Description}
	}
	return doc
}

func fromSessionDoc(id domain.SessionID, doc sessionDoc) (*domain.Session, error) {
	if len(doc.Questions) != domain.QuestionCount {
		return nil, fmt.Errorf("session %s has %d questions, expected %d", id, len(doc.Questions), domain.QuestionCount)
	}

	session := &domain.Session{
		ID:        id,
		UserID:    domain.UserID(doc.UserID),
		Role:      doc.Role,
		Company:   doc.Company,
		Status:    domain.Status(doc.Status),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	for i, q := range doc.Questions {
		session.Questions[i] = domain.Question{Index: q.Index, Text: q.Text, Answer: q.Answer}
	}
	if doc.FollowUp != nil {
		session.FollowUp = &domain.FollowUp{Question: doc.FollowUp.Question, Answer: doc.FollowUp.Answer}
	}
	if doc.Feedback != nil {
		session.Feedback = &domain.Feedback{Score: doc.Feedback.Score, Description: doc.Feedback.Description}
	}
	return session, nil
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.sessionDocRef(session.ID).Create(ctx, toSessionDoc(session))
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("session %s already exists: %w", session.ID, domain.ErrConflict)
		}
		return fmt.Errorf("firestore CreateSession: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	snap, err := s.sessionDocRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("firestore GetSession: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetSession decode: %w", err)
	}

	return fromSessionDoc(id, doc)
}

// UpdateSessionIf runs the status check and the mutation inside one
// Firestore transaction, so concurrent updaters of the same session
// cannot both commit.
func (s *Store) UpdateSessionIf(ctx context.Context, id domain.SessionID, expected domain.Status, mutate func(*domain.Session) error) (*domain.Session, error) {
	var updated *domain.Session

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(s.sessionDocRef(id))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
			}
			return fmt.Errorf("firestore UpdateSessionIf get: %w", err)
		}

		var doc sessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("firestore UpdateSessionIf decode: %w", err)
		}

		session, err := fromSessionDoc(id, doc)
		if err != nil {
			return err
		}
		if session.Status != expected {
			return fmt.Errorf("session %s status is %s, expected %s: %w", id, session.Status, expected, domain.ErrConflict)
		}

		if err := mutate(session); err != nil {
			return err
		}

		if err := tx.Set(s.sessionDocRef(id), toSessionDoc(session)); err != nil {
			return fmt.Errorf("firestore UpdateSessionIf set: %w", err)
		}

		updated = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Store) ListSessionsByUser(ctx context.Context, userID domain.UserID, limit int) ([]*domain.Session, error) {
	q := s.sessionsCol().Where("user_id", "==", string(userID)).OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Session
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListSessionsByUser: %w", err)
		}

		var doc sessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode sessionDoc: %w", err)
		}

		session, err := fromSessionDoc(domain.SessionID(snap.Ref.ID), doc)
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	return out, nil
}
