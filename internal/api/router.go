package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/minibank/fraud-chat/docs"
	"github.com/minibank/fraud-chat/internal/api/handler"
	"github.com/minibank/fraud-chat/internal/api/middleware"
	"github.com/minibank/fraud-chat/internal/core/ports"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Sessions     ports.SessionService
	Tokens       ports.TokenIssuer
	JWTSecret    string
	HealthChecks []handler.HealthCheck
	Log          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	// Request metrics live in a per-router registry; /metrics serves them
	// together with the process-wide collectors.
	reg := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "fraudchat_http",
		Registerer: reg,
	}))

	authHandler := handler.NewAuthHandler(d.Sessions, d.Tokens, d.Log)
	chatHandler := handler.NewChatHandler(d.Sessions)
	healthHandler := handler.NewHealthHandler(d.HealthChecks...)
	requireAuth := middleware.Auth(d.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, requireAuth)

	// --- Chat routes ---
	v1 := e.Group("/v1/chat")
	v1.GET("/topics", chatHandler.Topics)
	v1.GET("/session", chatHandler.GetSession, requireAuth)
	v1.POST("/questions", chatHandler.Ask, requireAuth)
	v1.POST("/follow-ups", chatHandler.FollowUp, requireAuth)

	// --- Operations ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, prometheus.DefaultGatherer},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
