package memory

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

const cleanupInterval = 10 * time.Minute

// SessionStore keeps sessions in process memory; entries expire after ttl of inactivity.
type SessionStore struct {
	c   *cache.Cache
	ttl time.Duration
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{c: cache.New(ttl, cleanupInterval), ttl: ttl}
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	v, ok := s.c.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return v.(*domain.Session).Clone(), nil
}

func (s *SessionStore) Save(_ context.Context, sess *domain.Session) error {
	s.c.Set(sess.ID, sess.Clone(), s.ttl)
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.c.Delete(id)
	return nil
}

// TurnLock is the in-process ports.TurnLock.
type TurnLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewTurnLock() *TurnLock {
	return &TurnLock{held: make(map[string]struct{})}
}

func (l *TurnLock) Acquire(_ context.Context, sessionID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[sessionID]; busy {
		return false, nil
	}
	l.held[sessionID] = struct{}{}
	return true, nil
}

func (l *TurnLock) Release(_ context.Context, sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, sessionID)
	return nil
}
