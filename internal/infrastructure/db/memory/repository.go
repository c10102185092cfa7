package memory

import (
	"context"
	"sort"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

// Repository is an immutable in-memory ports.Repository, safe for concurrent reads.
type Repository struct {
	users        map[int64]domain.UserRecord
	byUsername   map[string]int64
	transactions map[int64][]domain.Transaction
}

// NewRepository indexes seed; transactions are stored most recent first.
func NewRepository(seed *Seed) *Repository {
	r := &Repository{
		users:        make(map[int64]domain.UserRecord, len(seed.Users)),
		byUsername:   make(map[string]int64, len(seed.Users)),
		transactions: make(map[int64][]domain.Transaction),
	}
	for _, u := range seed.Users {
		r.users[u.ID] = u
		r.byUsername[u.Username] = u.ID
	}
	for _, tx := range seed.Transactions {
		r.transactions[tx.UserID] = append(r.transactions[tx.UserID], tx)
	}
	for _, txs := range r.transactions {
		sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })
	}
	return r
}

func (r *Repository) GetUser(_ context.Context, id int64) (*domain.UserRecord, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*domain.UserRecord, error) {
	id, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.GetUser(ctx, id)
}

func (r *Repository) GetTransactions(_ context.Context, userID int64) ([]domain.Transaction, error) {
	txs := r.transactions[userID]
	out := make([]domain.Transaction, len(txs))
	copy(out, txs)
	return out, nil
}
