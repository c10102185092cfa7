package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

const collectionTransactions = "transactions"

type TransactionRepository struct {
	col *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection(collectionTransactions)}
}

// Amounts are stored as Decimal128 so cents survive the round trip.
type mongoTransaction struct {
	TransactionID int64                `bson:"transaction_id"`
	UserID        int64                `bson:"user_id"`
	Amount        primitive.Decimal128 `bson:"amount"`
	Location      string               `bson:"location"`
	Date          time.Time            `bson:"date"`
	IsForeign     bool                 `bson:"is_foreign"`
}

func (m mongoTransaction) toDomain() (domain.Transaction, error) {
	amount, err := decimal.NewFromString(m.Amount.String())
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %d amount: %w", m.TransactionID, err)
	}
	return domain.Transaction{
		ID:        m.TransactionID,
		UserID:    m.UserID,
		Amount:    amount,
		Location:  m.Location,
		Date:      m.Date.UTC(),
		IsForeign: m.IsForeign,
	}, nil
}

// ListByUser returns the user's transactions, most recent first.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "transaction_id", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoTransaction
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}

	txs := make([]domain.Transaction, 0, len(docs))
	for _, d := range docs {
		tx, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Upsert writes tx keyed by transaction_id.
func (r *TransactionRepository) Upsert(ctx context.Context, tx domain.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	amount, err := primitive.ParseDecimal128(tx.Amount.String())
	if err != nil {
		return fmt.Errorf("transaction %d amount: %w", tx.ID, err)
	}
	doc := mongoTransaction{
		TransactionID: tx.ID,
		UserID:        tx.UserID,
		Amount:        amount,
		Location:      tx.Location,
		Date:          tx.Date.UTC(),
		IsForeign:     tx.IsForeign,
	}
	_, err = r.col.ReplaceOne(ctx, bson.M{"transaction_id": tx.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert transaction %d: %w", tx.ID, err)
	}
	return nil
}

func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "transaction_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
