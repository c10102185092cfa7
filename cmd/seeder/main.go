// Command seeder loads the bundled sample users and transactions into MongoDB.
// Passwords are stored as bcrypt hashes; re-running it is idempotent.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/minibank/fraud-chat/internal/infrastructure/config"
	"github.com/minibank/fraud-chat/internal/infrastructure/db/memory"
	"github.com/minibank/fraud-chat/internal/infrastructure/db/mongo"
	"github.com/minibank/fraud-chat/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "seeder:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// the seeder never calls the model
	cfg, err := config.LoadWith(ctx, map[string]string{"LLM_PROVIDER": config.ProviderOffline})
	if err != nil {
		return err
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "fraud-chat-seeder"})
	log := logger.Get()

	seed, err := memory.DefaultSeed()
	if err != nil {
		return err
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	users := mongo.NewUserRepository(db)
	for _, u := range seed.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.Username, err)
		}
		u.Password, u.PasswordHash = "", string(hash)
		if err := users.Upsert(ctx, u); err != nil {
			return err
		}
	}

	txs := mongo.NewTransactionRepository(db)
	for _, tx := range seed.Transactions {
		if err := txs.Upsert(ctx, tx); err != nil {
			return err
		}
	}

	log.Info().
		Str("database", cfg.Mongo.Database).
		Int("users", len(seed.Users)).
		Int("transactions", len(seed.Transactions)).
		Msg("seed complete")
	return nil
}
