package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

type stubSessionService struct {
	sessionFn  func(ctx context.Context, id string) (*domain.Session, error)
	loginFn    func(ctx context.Context, id, username, password string) (*domain.Session, error)
	askFn      func(ctx context.Context, id, question string) (*domain.Session, error)
	followUpFn func(ctx context.Context, id, topic string) (*domain.Session, error)
	logoutFn   func(ctx context.Context, id string) (*domain.Session, error)
}

func (s *stubSessionService) Session(ctx context.Context, id string) (*domain.Session, error) {
	return s.sessionFn(ctx, id)
}

func (s *stubSessionService) Login(ctx context.Context, id, username, password string) (*domain.Session, error) {
	return s.loginFn(ctx, id, username, password)
}

func (s *stubSessionService) Ask(ctx context.Context, id, question string) (*domain.Session, error) {
	return s.askFn(ctx, id, question)
}

func (s *stubSessionService) FollowUp(ctx context.Context, id, topic string) (*domain.Session, error) {
	return s.followUpFn(ctx, id, topic)
}

func (s *stubSessionService) Logout(ctx context.Context, id string) (*domain.Session, error) {
	return s.logoutFn(ctx, id)
}

type stubTokens struct {
	token string
	err   error
}

func (s stubTokens) Issue(*domain.Session) (string, error) {
	return s.token, s.err
}

// askingSession returns a signed-in session for SallyLee.
func askingSession(id string) *domain.Session {
	s := domain.NewSession(id, time.Now())
	_ = s.SignIn(1, "SallyLee", time.Now())
	return s
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newContext builds a JSON request; sid, when set, mimics the Auth middleware.
func newContext(e *echo.Echo, method, path, body, sid string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sid != "" {
		c.Set("session_id", sid)
	}
	return c, rec
}
