package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func signed(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sid":      "session-1",
		"uid":      1,
		"username": "SallyLee",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

func runAuth(t *testing.T, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret")(func(c echo.Context) error {
		called = true
		if c.Get("session_id") != "session-1" {
			t.Fatalf("session_id not set")
		}
		if c.Get("user_id") != int64(1) {
			t.Fatalf("user_id not set: %v", c.Get("user_id"))
		}
		if c.Get("username") != "SallyLee" {
			t.Fatalf("username not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	rec, called := runAuth(t, "Bearer "+signed(t, jwt.SigningMethodHS256, []byte("secret"), validClaims()))
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	noExp := validClaims()
	delete(noExp, "exp")
	noSID := validClaims()
	delete(noSID, "sid")

	cases := map[string]string{
		"missing header":   "",
		"wrong scheme":     "Token abc",
		"garbage":          "Bearer not-a-token",
		"wrong secret":     "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("other"), validClaims()),
		"wrong algorithm":  "Bearer " + signed(t, jwt.SigningMethodHS512, []byte("secret"), validClaims()),
		"expired":          "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("secret"), expired),
		"no expiry":        "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("secret"), noExp),
		"no session claim": "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("secret"), noSID),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec, called := runAuth(t, header)
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}
