package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minibank/fraud-chat/internal/api/metrics"
	"github.com/minibank/fraud-chat/internal/core/domain"
	"github.com/minibank/fraud-chat/internal/core/ports"
)

// ChatHandler exposes the conversation of the session bound to the caller's token.
type ChatHandler struct {
	sessions ports.SessionService
}

func NewChatHandler(sessions ports.SessionService) *ChatHandler {
	return &ChatHandler{sessions: sessions}
}

// GetSession returns the current phase and transcript.
//
// @Summary      Current session
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionView
// @Failure      401  {object}  errorResponse
// @Router       /v1/chat/session [get]
func (h *ChatHandler) GetSession(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	sess, err := h.sessions.Session(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionView(sess))
}

// Ask submits a free-text question about the account.
//
// @Summary      Ask a question
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      askRequest  true  "Question"
// @Success      200   {object}  sessionView
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/chat/questions [post]
func (h *ChatHandler) Ask(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var req askRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	sess, err := h.sessions.Ask(ctx, sid, req.Question)
	if errors.Is(err, domain.ErrEmptyInput) {
		metrics.TurnsTotal.WithLabelValues(string(domain.ActionAsk), "empty").Inc()
		if sess, err = h.sessions.Session(ctx, sid); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, toSessionView(sess))
	}
	if err != nil {
		metrics.TurnsTotal.WithLabelValues(string(domain.ActionAsk), turnResult(err)).Inc()
		return err
	}

	metrics.TurnsTotal.WithLabelValues(string(domain.ActionAsk), "success").Inc()
	return c.JSON(http.StatusOK, toSessionView(sess))
}

// FollowUp picks one of the follow-up options offered after a question.
//
// @Summary      Choose a follow-up
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      followUpRequest  true  "Topic label or number 1-3"
// @Success      200   {object}  sessionView
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/chat/follow-ups [post]
func (h *ChatHandler) FollowUp(c echo.Context) error {
	sid, err := ctxSessionID(c)
	if err != nil {
		return err
	}

	var req followUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	topic, ok := domain.ParseTopic(req.Topic)
	if !ok {
		metrics.TurnsTotal.WithLabelValues(string(domain.ActionFollowUp), "rejected").Inc()
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "unknown follow-up topic")
	}

	sess, err := h.sessions.FollowUp(c.Request().Context(), sid, topic)
	if err != nil {
		metrics.TurnsTotal.WithLabelValues(string(domain.ActionFollowUp), turnResult(err)).Inc()
		return err
	}

	metrics.TurnsTotal.WithLabelValues(string(domain.ActionFollowUp), "success").Inc()
	return c.JSON(http.StatusOK, toSessionView(sess))
}

// Topics lists the follow-up menu.
//
// @Summary      Follow-up topics
// @Tags         chat
// @Produce      json
// @Success      200  {object}  topicsResponse
// @Router       /v1/chat/topics [get]
func (h *ChatHandler) Topics(c echo.Context) error {
	return c.JSON(http.StatusOK, toTopicsResponse())
}

func turnResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrSessionBusy):
		return "busy"
	case errors.Is(err, domain.ErrModelUnavailable):
		return "model_error"
	case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, domain.ErrInvalidTransition):
		return "rejected"
	default:
		return "error"
	}
}
