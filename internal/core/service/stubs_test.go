package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubRepo struct {
	users   map[int64]*domain.UserRecord
	txs     []domain.Transaction
	findErr error
}

func newStubRepo() *stubRepo {
	day := func(d int) time.Time { return time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC) }
	return &stubRepo{
		users: map[int64]*domain.UserRecord{
			1: {ID: 1, Username: "SallyLee", Password: "pass1234", Email: "sally@example.com"},
			2: {ID: 2, Username: "CooperGu", Password: "abcd1234", Email: "cooper@example.com"},
		},
		txs: []domain.Transaction{
			{ID: 101, UserID: 1, Amount: decimal.NewFromFloat(500), Location: "USA", Date: day(1)},
			{ID: 102, UserID: 1, Amount: decimal.NewFromFloat(4000), Location: "France", Date: day(2), IsForeign: true},
			{ID: 103, UserID: 1, Amount: decimal.NewFromFloat(15.75), Location: "USA", Date: day(3)},
			{ID: 201, UserID: 2, Amount: decimal.NewFromFloat(100), Location: "USA", Date: day(1)},
			{ID: 202, UserID: 2, Amount: decimal.NewFromFloat(2500), Location: "Japan", Date: day(5), IsForeign: true},
		},
	}
}

func (r *stubRepo) GetUser(_ context.Context, id int64) (*domain.UserRecord, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubRepo) FindByUsername(_ context.Context, username string) (*domain.UserRecord, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubRepo) GetTransactions(_ context.Context, userID int64) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, tx := range r.txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

type modelCall struct {
	prompt  string
	history []domain.Turn
}

type stubModel struct {
	reply string
	err   error
	calls []modelCall
	// onCall runs inside Generate, while the turn lock is held.
	onCall func()
}

func (m *stubModel) Generate(_ context.Context, prompt string, history []domain.Turn) (string, error) {
	m.calls = append(m.calls, modelCall{prompt: prompt, history: history})
	if m.onCall != nil {
		m.onCall()
	}
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

type stubStore struct {
	sessions map[string]*domain.Session
	saveErr  error
	saves    int
}

func newStubStore() *stubStore {
	return &stubStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubStore) Get(_ context.Context, id string) (*domain.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return sess.Clone(), nil
}

func (s *stubStore) Save(_ context.Context, sess *domain.Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.sessions[sess.ID] = sess.Clone()
	return nil
}

func (s *stubStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

type stubLock struct {
	mu       sync.Mutex
	held     map[string]bool
	acquired int
	released int
}

func newStubLock() *stubLock {
	return &stubLock{held: make(map[string]bool)}
}

func (l *stubLock) Acquire(_ context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[id] {
		return false, nil
	}
	l.held[id] = true
	l.acquired++
	return true, nil
}

func (l *stubLock) Release(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, id)
	l.released++
	return nil
}

type stubRecorder struct {
	records []domain.TurnRecord
}

func (r *stubRecorder) Record(rec domain.TurnRecord) {
	r.records = append(r.records, rec)
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type fixture struct {
	repo     *stubRepo
	model    *stubModel
	store    *stubStore
	lock     *stubLock
	recorder *stubRecorder
	svc      *SessionService
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newStubRepo(),
		model:    &stubModel{reply: "We reviewed your account."},
		store:    newStubStore(),
		lock:     newStubLock(),
		recorder: &stubRecorder{},
	}
	f.svc = NewSessionService(f.repo, f.model, f.store, f.lock, f.recorder, zerolog.Nop())
	return f
}

var errBoom = errors.New("boom")
