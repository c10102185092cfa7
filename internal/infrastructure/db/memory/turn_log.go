package memory

import (
	"context"
	"sync"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

// TurnLog is a bounded in-memory ports.TurnRepository; the oldest records are
// dropped once limit is reached.
type TurnLog struct {
	mu      sync.Mutex
	limit   int
	records []domain.TurnRecord
}

func NewTurnLog(limit int) *TurnLog {
	if limit <= 0 {
		limit = 1000
	}
	return &TurnLog{limit: limit}
}

func (l *TurnLog) InsertTurn(_ context.Context, rec domain.TurnRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.records) == l.limit {
		l.records = l.records[1:]
	}
	l.records = append(l.records, rec)
	return nil
}

// Records returns a snapshot in insertion order.
func (l *TurnLog) Records() []domain.TurnRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.TurnRecord, len(l.records))
	copy(out, l.records)
	return out
}
