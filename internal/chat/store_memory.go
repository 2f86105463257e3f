package chat

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process. Used when no Redis is configured.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
	writes   int
}

// sweepEvery is how many writes pass between full scans for expired sessions.
const sweepEvery = 256

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[userID]
	if !ok {
		return Session{}, false, nil
	}
	if s.ttl > 0 && !s.now().Before(entry.expiresAt) {
		delete(s.sessions, userID)
		return Session{}, false, nil
	}
	return entry.session, true, nil
}

func (s *MemoryStore) Set(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sessions[sess.UserID] = memoryEntry{session: sess, expiresAt: now.Add(s.ttl)}

	// Get drops expired entries it reads; the rest are swept every sweepEvery writes.
	s.writes++
	if s.ttl > 0 && s.writes%sweepEvery == 0 {
		for id, e := range s.sessions {
			if !now.Before(e.expiresAt) {
				delete(s.sessions, id)
			}
		}
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
