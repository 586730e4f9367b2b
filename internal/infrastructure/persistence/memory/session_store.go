package memory

import (
	"context"
	"sync"
	"time"

	"github.com/laptora/checkout-service/internal/domain/checkout"
	domainErrors "github.com/laptora/checkout-service/internal/domain/errors"
	"github.com/laptora/checkout-service/internal/pkg/clock"
)

// SessionStore keeps checkout sessions in process memory. Sessions are
// deliberately ephemeral: the pending-payment marker in Redis is the
// only checkout state that must survive the process.
//
// The store owns its copies: lookups return clones and Save stores a
// clone, so callers never share mutable session state across requests.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*checkout.Session
	byUser   map[string]string
	clk      clock.Clock
}

func NewSessionStore(clk clock.Clock) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*checkout.Session),
		byUser:   make(map[string]string),
		clk:      clk,
	}
}

func (s *SessionStore) GetByID(ctx context.Context, id string) (*checkout.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, domainErrors.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *SessionStore) GetByUser(ctx context.Context, userID string) (*checkout.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUser[userID]
	if !ok {
		return nil, domainErrors.ErrSessionNotFound
	}

	session, ok := s.sessions[id]
	if !ok {
		return nil, domainErrors.ErrSessionNotFound
	}
	return session.Clone(), nil
}

func (s *SessionStore) Save(ctx context.Context, session *checkout.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session.Clone()
	s.byUser[session.UserID] = session.ID
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil
	}

	delete(s.sessions, id)
	if s.byUser[session.UserID] == id {
		delete(s.byUser, session.UserID)
	}
	return nil
}

func (s *SessionStore) DeleteIdle(ctx context.Context, maxIdle time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if s.clk.Since(session.UpdatedAt) <= maxIdle {
			continue
		}

		delete(s.sessions, id)
		if s.byUser[session.UserID] == id {
			delete(s.byUser, session.UserID)
		}
		removed++
	}
	return removed, nil
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
