package ports

import (
	"context"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

// SessionStore keeps session state keyed by session id.
type SessionStore interface {
	// Get returns domain.ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id string) error
}

// TurnLock serialises actions on a single session.
type TurnLock interface {
	// Acquire reports false when another action already holds the session.
	Acquire(ctx context.Context, sessionID string) (bool, error)
	Release(ctx context.Context, sessionID string) error
}
