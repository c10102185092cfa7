package ports

import (
	"context"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

// Repository is the read-only view over users and their transactions.
type Repository interface {
	// GetUser returns domain.ErrUserNotFound when id is unknown.
	GetUser(ctx context.Context, id int64) (*domain.UserRecord, error)
	// FindByUsername matches the username exactly (case-sensitive).
	FindByUsername(ctx context.Context, username string) (*domain.UserRecord, error)
	// GetTransactions returns the user's transactions, most recent first.
	GetTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error)
}
