package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	seed, err := DefaultSeed()
	require.NoError(t, err)
	return NewRepository(seed)
}

func TestDefaultSeed(t *testing.T) {
	seed, err := DefaultSeed()
	require.NoError(t, err)

	assert.Len(t, seed.Users, 2)
	assert.Len(t, seed.Transactions, 5)
	assert.Equal(t, "15.75", seed.Transactions[2].Amount.String())
	assert.True(t, seed.Transactions[1].IsForeign)
}

func TestParseSeed_RejectsBadAmount(t *testing.T) {
	_, err := ParseSeed([]byte(`transactions: [{transaction_id: 1, amount: "lots", date: "2025-04-01"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")
}

func TestParseSeed_RejectsBadDate(t *testing.T) {
	_, err := ParseSeed([]byte(`transactions: [{transaction_id: 1, amount: "1", date: "04/01/2025"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date")
}

func TestRepository_FindByUsername(t *testing.T) {
	repo := newTestRepository(t)

	u, err := repo.FindByUsername(context.Background(), "SallyLee")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "sally@example.com", u.Email)

	_, err = repo.FindByUsername(context.Background(), "sallylee")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRepository_GetUser(t *testing.T) {
	repo := newTestRepository(t)

	u, err := repo.GetUser(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "CooperGu", u.Username)

	_, err = repo.GetUser(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRepository_GetTransactions_MostRecentFirst(t *testing.T) {
	repo := newTestRepository(t)

	txs, err := repo.GetTransactions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	ids := []int64{txs[0].ID, txs[1].ID, txs[2].ID}
	assert.Equal(t, []int64{103, 102, 101}, ids)

	// Callers get their own copy.
	txs[0].Location = "changed"
	again, _ := repo.GetTransactions(context.Background(), 1)
	assert.Equal(t, "USA", again[0].Location)
}

func TestRepository_GetTransactions_UnknownUserIsEmpty(t *testing.T) {
	repo := newTestRepository(t)

	txs, err := repo.GetTransactions(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, txs)
}
