package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

const collectionTurns = "conversation_turns"

// TurnRepository implements ports.TurnRepository using MongoDB.
type TurnRepository struct {
	col *mongo.Collection
}

func NewTurnRepository(db *mongo.Database) *TurnRepository {
	return &TurnRepository{col: db.Collection(collectionTurns)}
}

// InsertTurn persists a completed turn to the audit collection.
func (r *TurnRepository) InsertTurn(ctx context.Context, rec domain.TurnRecord) error {
	doc := bson.M{
		"session_id":   rec.SessionID,
		"user_id":      rec.UserID,
		"action":       string(rec.Action),
		"input":        rec.Input,
		"reply":        rec.Reply,
		"timestamp":    rec.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}

func (r *TurnRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	return err
}
