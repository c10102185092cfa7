package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

func mustDecimal(t *testing.T, s string) primitive.Decimal128 {
	t.Helper()
	d, err := primitive.ParseDecimal128(s)
	require.NoError(t, err)
	return d
}

func TestRepository_GetUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "fraudchat.users", mtest.FirstBatch, bson.D{
			{Key: "user_id", Value: int64(1)},
			{Key: "username", Value: "SallyLee"},
			{Key: "password_hash", Value: "$2a$10$hash"},
			{Key: "email", Value: "sally@example.com"},
		}))

		user, err := NewRepository(mt.DB).GetUser(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "SallyLee", user.Username)
		assert.Equal(t, "$2a$10$hash", user.PasswordHash)
		assert.Empty(t, user.Password)
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "fraudchat.users", mtest.FirstBatch))

		_, err := NewRepository(mt.DB).FindByUsername(context.Background(), "nobody")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestRepository_GetTransactions(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes decimal amounts", func(mt *mtest.T) {
		d1 := time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)
		d2 := time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "fraudchat.transactions", mtest.FirstBatch,
			bson.D{
				{Key: "transaction_id", Value: int64(102)},
				{Key: "user_id", Value: int64(1)},
				{Key: "amount", Value: mustDecimal(t, "1200.00")},
				{Key: "location", Value: "Paris, France"},
				{Key: "date", Value: primitive.NewDateTimeFromTime(d1)},
				{Key: "is_foreign", Value: true},
			},
			bson.D{
				{Key: "transaction_id", Value: int64(101)},
				{Key: "user_id", Value: int64(1)},
				{Key: "amount", Value: mustDecimal(t, "45.5")},
				{Key: "location", Value: "Austin, TX"},
				{Key: "date", Value: primitive.NewDateTimeFromTime(d2)},
				{Key: "is_foreign", Value: false},
			},
		))

		txs, err := NewRepository(mt.DB).GetTransactions(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, "1200.00", txs[0].Amount.StringFixed(2))
		assert.True(t, txs[0].IsForeign)
		assert.True(t, d1.Equal(txs[0].Date))
		assert.Equal(t, "45.50", txs[1].Amount.StringFixed(2))
	})

	mt.Run("server error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 2, Message: "bad query"}))

		_, err := NewRepository(mt.DB).GetTransactions(context.Background(), 1)
		require.Error(t, err)
	})
}

func TestTurnRepository_InsertTurn(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ok", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := NewTurnRepository(mt.DB).InsertTurn(context.Background(), domain.TurnRecord{
			SessionID: "s1",
			UserID:    1,
			Action:    domain.ActionAsk,
			Input:     "Was this charge mine?",
			Reply:     "Let's check.",
			Timestamp: time.Now(),
		})
		require.NoError(t, err)
	})
}

func TestUserRepository_Upsert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ok", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}))

		err := NewUserRepository(mt.DB).Upsert(context.Background(), domain.UserRecord{
			ID: 1, Username: "SallyLee", PasswordHash: "$2a$10$hash",
		})
		require.NoError(t, err)
	})
}
