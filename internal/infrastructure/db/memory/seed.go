package memory

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is the reference data set: users and their transactions.
type Seed struct {
	Users        []domain.UserRecord
	Transactions []domain.Transaction
}

type seedFile struct {
	Users []struct {
		ID       int64  `yaml:"user_id"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Email    string `yaml:"email"`
	} `yaml:"users"`
	Transactions []struct {
		ID        int64  `yaml:"transaction_id"`
		UserID    int64  `yaml:"user_id"`
		Amount    string `yaml:"amount"`
		Location  string `yaml:"location"`
		Date      string `yaml:"date"`
		IsForeign bool   `yaml:"is_foreign"`
	} `yaml:"transactions"`
}

// DefaultSeed returns the bundled sample users and transactions.
func DefaultSeed() (*Seed, error) {
	return ParseSeed(defaultSeed)
}

// ParseSeed decodes a YAML seed document.
func ParseSeed(raw []byte) (*Seed, error) {
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	seed := &Seed{
		Users:        make([]domain.UserRecord, 0, len(f.Users)),
		Transactions: make([]domain.Transaction, 0, len(f.Transactions)),
	}
	for _, u := range f.Users {
		seed.Users = append(seed.Users, domain.UserRecord{
			ID:       u.ID,
			Username: u.Username,
			Password: u.Password,
			Email:    u.Email,
		})
	}
	for _, t := range f.Transactions {
		amount, err := decimal.NewFromString(t.Amount)
		if err != nil {
			return nil, fmt.Errorf("parse seed: transaction %d amount: %w", t.ID, err)
		}
		date, err := time.Parse(domain.DateLayout, t.Date)
		if err != nil {
			return nil, fmt.Errorf("parse seed: transaction %d date: %w", t.ID, err)
		}
		seed.Transactions = append(seed.Transactions, domain.Transaction{
			ID:        t.ID,
			UserID:    t.UserID,
			Amount:    amount,
			Location:  t.Location,
			Date:      date,
			IsForeign: t.IsForeign,
		})
	}
	return seed, nil
}
