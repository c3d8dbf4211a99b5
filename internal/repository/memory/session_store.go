package memory

import (
	"context"
	"sync"
	"time"

	"carpool/internal/domain/entities"
)

// SessionStore holds one session per user identity. Sessions are created on
// first contact and never deleted; they live for the process lifetime.
//
// The store's lock only guards the map. Mutation of a session's state
// machine is serialized per identity by the conversation service's keyed
// mutex, so two concurrent turns from the same user never interleave.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entities.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*entities.Session),
	}
}

// GetOrCreate returns the user's session, creating it on first message. The
// contact handle is refreshed on every call; the transport may learn a
// better handle after the first turn.
func (s *SessionStore) GetOrCreate(ctx context.Context, userID, contact string) (*entities.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, exists := s.sessions[userID]; exists {
		if contact != "" {
			session.Contact = contact
		}
		session.LastSeenAt = time.Now()
		return session, nil
	}

	session := entities.NewSession(userID, contact)
	s.sessions[userID] = session
	return session, nil
}

func (s *SessionStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
