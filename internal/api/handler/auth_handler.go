package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/minibank/fraud-chat/internal/api/metrics"
	"github.com/minibank/fraud-chat/internal/core/domain"
	"github.com/minibank/fraud-chat/internal/core/ports"
)

type AuthHandler struct {
	sessions ports.SessionService
	tokens   ports.TokenIssuer
	log      zerolog.Logger
	newID    func() string
}

func NewAuthHandler(sessions ports.SessionService, tokens ports.TokenIssuer, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, tokens: tokens, log: log, newID: uuid.NewString}
}

// Login opens a new session and signs a token bound to it.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	sess, err := h.sessions.Login(c.Request().Context(), h.newID(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	token, err := h.tokens.Issue(sess)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.log.Debug().Str("session_id", sess.ID).Msg("token issued")
	return c.JSON(http.StatusOK, loginResponse{Token: token, Session: toSessionView(sess)})
}

// Logout clears the session bound to the token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionView
// @Failure      401  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	sess, err := h.sessions.Logout(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionView(sess))
}
