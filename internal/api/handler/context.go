package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxSessionID returns the session id injected by the Auth middleware. An
// empty value means the middleware did not run or the token carried no sid.
func ctxSessionID(c echo.Context) (string, error) {
	sid, _ := c.Get("session_id").(string)
	if sid == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing session claim")
	}
	return sid, nil
}
