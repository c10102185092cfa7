package ports

import "github.com/minibank/fraud-chat/internal/core/domain"

// TokenIssuer binds an authenticated session to a bearer token.
type TokenIssuer interface {
	Issue(sess *domain.Session) (string, error)
}
