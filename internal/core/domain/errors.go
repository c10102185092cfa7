package domain

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmptyInput           = errors.New("empty input")
	ErrModelUnavailable     = errors.New("language model unavailable")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	ErrInvalidTransition    = errors.New("invalid session transition")
	ErrSessionBusy          = errors.New("session is busy")
	ErrSessionNotFound      = errors.New("session not found")
)
