package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/minibank/fraud-chat/internal/core/domain"
	"github.com/minibank/fraud-chat/internal/core/ports"
)

// SessionService implements ports.SessionService. Every mutating action holds
// the session's turn lock from load to save, so at most one action per
// session is in flight.
type SessionService struct {
	auth     *Authenticator
	repo     ports.Repository
	model    ports.LanguageModel
	store    ports.SessionStore
	lock     ports.TurnLock
	recorder ports.TurnRecorder
	log      zerolog.Logger
	now      func() time.Time
}

// NewSessionService wires the state machine. recorder may be nil.
func NewSessionService(
	repo ports.Repository,
	model ports.LanguageModel,
	store ports.SessionStore,
	lock ports.TurnLock,
	recorder ports.TurnRecorder,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		auth:     NewAuthenticator(repo),
		repo:     repo,
		model:    model,
		store:    store,
		lock:     lock,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

// Session returns the current state; unknown ids read as a fresh logged-out session.
func (s *SessionService) Session(ctx context.Context, id string) (*domain.Session, error) {
	return s.load(ctx, id)
}

// Login authenticates and opens the asking phase. Failures leave the session untouched.
func (s *SessionService) Login(ctx context.Context, id, username, password string) (*domain.Session, error) {
	return s.withTurn(ctx, id, func(sess *domain.Session) error {
		if err := sess.Check(domain.ActionLogin); err != nil {
			return err
		}

		userID, err := s.auth.Authenticate(ctx, username, password)
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Info().Str("session_id", id).Msg("login rejected")
			return domain.ErrInvalidCredentials
		}
		if err != nil {
			return err
		}

		if err := sess.SignIn(userID, username, s.now()); err != nil {
			return err
		}
		s.log.Info().Str("session_id", id).Int64("user_id", userID).Msg("user logged in")
		return nil
	})
}

// Ask sends a free-text question with the user's transaction history.
// A blank question returns domain.ErrEmptyInput and changes nothing.
func (s *SessionService) Ask(ctx context.Context, id, question string) (*domain.Session, error) {
	sess, err := s.withTurn(ctx, id, func(sess *domain.Session) error {
		if err := sess.Check(domain.ActionAsk); err != nil {
			return err
		}
		if strings.TrimSpace(question) == "" {
			return domain.ErrEmptyInput
		}

		user, err := s.repo.GetUser(ctx, *sess.UserID)
		if err != nil {
			return fmt.Errorf("ask: load user: %w", err)
		}
		txs, err := s.repo.GetTransactions(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("ask: load transactions: %w", err)
		}

		reply, err := s.generate(ctx, sess, BuildInitialPrompt(*user, txs, question))
		if err != nil {
			return err
		}
		return sess.RecordQuestion(question, reply, s.now())
	})
	if err != nil {
		return nil, err
	}
	s.record(sess, domain.ActionAsk)
	return sess, nil
}

// FollowUp answers one of the follow-up menu choices.
func (s *SessionService) FollowUp(ctx context.Context, id, topic string) (*domain.Session, error) {
	sess, err := s.withTurn(ctx, id, func(sess *domain.Session) error {
		if err := sess.Check(domain.ActionFollowUp); err != nil {
			return err
		}

		reply, err := s.generate(ctx, sess, BuildFollowUpPrompt(topic))
		if err != nil {
			return err
		}
		return sess.RecordFollowUp(topic, reply, s.now())
	})
	if err != nil {
		return nil, err
	}
	s.record(sess, domain.ActionFollowUp)
	return sess, nil
}

// Logout resets the session to its initial values. Logging out twice is a no-op.
func (s *SessionService) Logout(ctx context.Context, id string) (*domain.Session, error) {
	return s.withTurn(ctx, id, func(sess *domain.Session) error {
		if sess.Authenticated {
			s.log.Info().Str("session_id", id).Int64("user_id", *sess.UserID).Msg("user logged out")
		}
		sess.Reset(s.now())
		return nil
	})
}

// withTurn runs fn under the session's turn lock and persists the result only
// when fn succeeds.
func (s *SessionService) withTurn(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error) {
	ok, err := s.lock.Acquire(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("acquire turn lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrSessionBusy
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), id); err != nil {
			s.log.Warn().Err(err).Str("session_id", id).Msg("failed to release turn lock")
		}
	}()

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func (s *SessionService) load(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return domain.NewSession(id, s.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

func (s *SessionService) generate(ctx context.Context, sess *domain.Session, prompt string) (string, error) {
	reply, err := s.model.Generate(ctx, prompt, slices.Clone(sess.Transcript))
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sess.ID).Str("phase", string(sess.Phase())).Msg("language model call failed")
		if !errors.Is(err, domain.ErrModelUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
		}
		return "", err
	}
	return reply, nil
}

// record hands the latest turn to the audit trail.
func (s *SessionService) record(sess *domain.Session, action domain.Action) {
	if s.recorder == nil || len(sess.Transcript) < 2 {
		return
	}
	n := len(sess.Transcript)
	s.recorder.Record(domain.TurnRecord{
		SessionID: sess.ID,
		UserID:    *sess.UserID,
		Action:    action,
		Input:     sess.Transcript[n-2].Text,
		Reply:     sess.Transcript[n-1].Text,
		Timestamp: sess.UpdatedAt,
	})
}
