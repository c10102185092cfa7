package ports

import (
	"context"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

// SessionService drives the conversational state machine.
type SessionService interface {
	Session(ctx context.Context, id string) (*domain.Session, error)
	Login(ctx context.Context, id, username, password string) (*domain.Session, error)
	Ask(ctx context.Context, id, question string) (*domain.Session, error)
	FollowUp(ctx context.Context, id, topic string) (*domain.Session, error)
	Logout(ctx context.Context, id string) (*domain.Session, error)
}
