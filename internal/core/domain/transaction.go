package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used in prompts and seed data.
const DateLayout = "2006-01-02"

// Transaction is a single card movement belonging to a user.
type Transaction struct {
	ID        int64           `json:"transaction_id"`
	UserID    int64           `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Location  string          `json:"location"`
	Date      time.Time       `json:"date"`
	IsForeign bool            `json:"is_foreign"`
}
