package ports

import (
	"context"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

// LanguageModel generates a reply for prompt given the conversation so far.
// Failures wrap domain.ErrModelUnavailable.
type LanguageModel interface {
	Generate(ctx context.Context, prompt string, history []domain.Turn) (string, error)
}
