package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minibank/fraud-chat/internal/api"
	"github.com/minibank/fraud-chat/internal/api/handler"
	"github.com/minibank/fraud-chat/internal/api/metrics"
	"github.com/minibank/fraud-chat/internal/core/ports"
	"github.com/minibank/fraud-chat/internal/core/service"
	"github.com/minibank/fraud-chat/internal/infrastructure/config"
	"github.com/minibank/fraud-chat/internal/infrastructure/db/memory"
	"github.com/minibank/fraud-chat/internal/infrastructure/db/mongo"
	"github.com/minibank/fraud-chat/internal/infrastructure/db/redis"
	"github.com/minibank/fraud-chat/internal/infrastructure/llm/gemini"
	"github.com/minibank/fraud-chat/internal/infrastructure/llm/offline"
	"github.com/minibank/fraud-chat/internal/infrastructure/queue"
	"github.com/minibank/fraud-chat/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title                       MiniBank Fraud Chat API
// @version                     1.0
// @description                 Conversational fraud assistant for MiniBank customers.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fraud-chat-api:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "fraud-chat-api",
	})
	log := logger.Get()

	var (
		checks  []handler.HealthCheck
		closers []func(context.Context) error
	)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](closeCtx); err != nil {
				log.Warn().Err(err).Msg("close failed")
			}
		}
	}()

	// --- Reference data and audit store ---
	var (
		repo  ports.Repository
		turns ports.TurnRepository
	)
	switch cfg.DataBackend {
	case config.BackendMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		closers = append(closers, client.Disconnect)
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			return err
		}
		repo, turns = mongo.NewRepository(db), mongo.NewTurnRepository(db)
		checks = append(checks, handler.HealthCheck{Name: "mongodb", Ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		}})
	default:
		seed, err := memory.DefaultSeed()
		if err != nil {
			return err
		}
		repo, turns = memory.NewRepository(seed), memory.NewTurnLog(0)
	}

	// --- Session state ---
	var (
		store ports.SessionStore
		lock  ports.TurnLock
	)
	switch cfg.SessionBackend {
	case config.BackendRedis:
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		closers = append(closers, func(context.Context) error { return rdb.Close() })
		store = redis.NewSessionStore(rdb, cfg.SessionTTL)
		// the lock outlives the slowest model call
		lock = redis.NewTurnLock(rdb, cfg.LLM.Timeout+30*time.Second)
		checks = append(checks, handler.HealthCheck{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	default:
		store, lock = memory.NewSessionStore(cfg.SessionTTL), memory.NewTurnLock()
	}

	// --- Language model ---
	var model ports.LanguageModel
	switch cfg.LLM.Provider {
	case config.ProviderOffline:
		model = offline.New()
	default:
		model, err = gemini.New(ctx, gemini.Config{APIKey: cfg.LLM.APIKey, Model: cfg.LLM.Model, Timeout: cfg.LLM.Timeout})
		if err != nil {
			return err
		}
	}

	// Audit workers get their own context so queued turns are flushed after
	// the HTTP server has stopped.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, turns, log)
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	sessions := service.NewSessionService(repo, metrics.InstrumentModel(model), store, lock, dispatcher, log)
	e := api.NewRouter(api.Deps{
		Sessions:     sessions,
		Tokens:       service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL),
		JWTSecret:    cfg.JWTSecret,
		HealthChecks: checks,
		Log:          log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("data_backend", cfg.DataBackend).
			Str("session_backend", cfg.SessionBackend).
			Str("llm_provider", cfg.LLM.Provider).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

