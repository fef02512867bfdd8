package session

import (
	"context"
	"ips-timeline-service/internal/app/contracts"
	"ips-timeline-service/internal/app/models"
	"sync"
	"time"
)

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	now      func() time.Time
}

// NewMemoryStore returns a process local SessionStore. Expired sessions are
// dropped lazily on read.
func NewMemoryStore() contracts.SessionStore {
	return &memoryStore{
		sessions: make(map[string]*models.Session),
		now:      time.Now,
	}
}

func (s *memoryStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if session.IsExpired(s.now()) {
		s.mu.Lock()
		if current, ok := s.sessions[sessionID]; ok && current == session {
			delete(s.sessions, sessionID)
		}
		s.mu.Unlock()
		return nil, nil
	}

	copied := *session
	return &copied, nil
}

func (s *memoryStore) Save(ctx context.Context, session *models.Session) error {
	copied := *session
	s.mu.Lock()
	s.sessions[session.SessionID] = &copied
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}
