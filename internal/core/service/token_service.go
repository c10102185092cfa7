package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

// TokenService signs the bearer tokens that bind an HTTP client to its session.
type TokenService struct {
	secret string
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: secret, ttl: ttl}
}

// Issue signs a token for an authenticated session.
func (t *TokenService) Issue(sess *domain.Session) (string, error) {
	if !sess.Authenticated || sess.UserID == nil {
		return "", errors.New("issue token: session is not authenticated")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sid":      sess.ID,
		"uid":      *sess.UserID,
		"username": sess.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(t.ttl).Unix(),
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tkn.SignedString([]byte(t.secret))
}
