package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

func TestSessionStore_SaveGetDelete(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	sess := domain.NewSession("s1", time.Now())
	require.NoError(t, sess.SignIn(1, "SallyLee", time.Now()))
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.Authenticated)
	assert.Equal(t, int64(1), *got.UserID)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_ReturnsCopies(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	sess := domain.NewSession("s1", time.Now())
	require.NoError(t, sess.SignIn(1, "SallyLee", time.Now()))
	require.NoError(t, sess.RecordQuestion("q", "a", time.Now()))
	require.NoError(t, store.Save(ctx, sess))

	sess.Transcript[0].Text = "mutated after save"
	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "q", got.Transcript[0].Text)
}

func TestSessionStore_Expires(t *testing.T) {
	store := NewSessionStore(20 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewSession("s1", time.Now())))
	time.Sleep(50 * time.Millisecond)

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestTurnLock(t *testing.T) {
	lock := NewTurnLock()
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = lock.Acquire(ctx, "s1")
	assert.False(t, ok, "second acquire must fail while held")

	ok, _ = lock.Acquire(ctx, "s2")
	assert.True(t, ok, "locks are per session")

	require.NoError(t, lock.Release(ctx, "s1"))
	ok, _ = lock.Acquire(ctx, "s1")
	assert.True(t, ok)
}

func TestTurnLog_DropsOldest(t *testing.T) {
	log := NewTurnLog(2)
	ctx := context.Background()

	for _, in := range []string{"a", "b", "c"} {
		require.NoError(t, log.InsertTurn(ctx, domain.TurnRecord{Input: in}))
	}

	recs := log.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].Input)
	assert.Equal(t, "c", recs[1].Input)
}
