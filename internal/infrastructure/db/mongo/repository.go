package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

// Repository implements ports.Repository over the users and transactions collections.
type Repository struct {
	users *UserRepository
	txs   *TransactionRepository
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		users: NewUserRepository(db),
		txs:   NewTransactionRepository(db),
	}
}

func (r *Repository) GetUser(ctx context.Context, id int64) (*domain.UserRecord, error) {
	return r.users.FindByID(ctx, id)
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*domain.UserRecord, error) {
	return r.users.FindByUsername(ctx, username)
}

func (r *Repository) GetTransactions(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	return r.txs.ListByUser(ctx, userID)
}
