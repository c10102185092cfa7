package metrics

import (
	"context"
	"time"

	"github.com/minibank/fraud-chat/internal/core/domain"
	"github.com/minibank/fraud-chat/internal/core/ports"
)

type instrumentedModel struct {
	next ports.LanguageModel
}

// InstrumentModel wraps m so every call is observed in ModelRequestDuration.
func InstrumentModel(m ports.LanguageModel) ports.LanguageModel {
	return &instrumentedModel{next: m}
}

func (m *instrumentedModel) Generate(ctx context.Context, prompt string, history []domain.Turn) (string, error) {
	start := time.Now()
	reply, err := m.next.Generate(ctx, prompt, history)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	ModelRequestDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	return reply, err
}
