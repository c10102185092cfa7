package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/minibank/fraud-chat/internal/core/domain"
	"github.com/minibank/fraud-chat/internal/core/ports"
)

// Authenticator resolves a username/password pair to a user id.
type Authenticator struct {
	repo ports.Repository
}

func NewAuthenticator(repo ports.Repository) *Authenticator {
	return &Authenticator{repo: repo}
}

// Authenticate returns domain.ErrUserNotFound when no record matches both
// fields exactly. Any other error comes from the repository.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (int64, error) {
	user, err := a.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return 0, domain.ErrUserNotFound
		}
		return 0, fmt.Errorf("authenticate: %w", err)
	}

	if !credentialMatches(user, password) {
		return 0, domain.ErrUserNotFound
	}
	return user.ID, nil
}

func credentialMatches(user *domain.UserRecord, password string) bool {
	if user.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(user.Password), []byte(password)) == 1
}
