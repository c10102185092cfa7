package ports

import (
	"context"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

// TurnRecorder receives completed turns for the audit trail. Record must not block.
type TurnRecorder interface {
	Record(rec domain.TurnRecord)
}

// TurnRepository persists audit records.
type TurnRepository interface {
	InsertTurn(ctx context.Context, rec domain.TurnRecord) error
}
