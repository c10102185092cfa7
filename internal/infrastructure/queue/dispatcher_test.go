package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/minibank/fraud-chat/internal/api/metrics"
	"github.com/minibank/fraud-chat/internal/core/domain"
)

type recordingRepo struct {
	mu      sync.Mutex
	records []domain.TurnRecord
	err     error
}

func (r *recordingRepo) InsertTurn(_ context.Context, rec domain.TurnRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *recordingRepo) snapshot() []domain.TurnRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.TurnRecord(nil), r.records...)
}

func turn(sessionID string, n int) domain.TurnRecord {
	return domain.TurnRecord{SessionID: sessionID, UserID: 1, Action: domain.ActionAsk, Input: fmt.Sprint(n)}
}

func TestDispatcher_PreservesPerSessionOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for i := 0; i < 50; i++ {
		d.Record(turn("a", i))
		d.Record(turn("b", i))
	}
	cancel()
	d.Wait()

	got := repo.snapshot()
	if len(got) != 100 {
		t.Fatalf("expected 100 records, got %d", len(got))
	}
	next := map[string]int{}
	for _, rec := range got {
		want := fmt.Sprint(next[rec.SessionID])
		if rec.Input != want {
			t.Fatalf("session %s: expected input %s, got %s", rec.SessionID, want, rec.Input)
		}
		next[rec.SessionID]++
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	repo := &recordingRepo{}
	d := newDispatcher(1, 2, repo, zerolog.Nop())
	before := testutil.ToFloat64(metrics.AuditDroppedTotal)

	// not started: the channel fills up and the third record is dropped
	done := make(chan struct{})
	go func() {
		for i := 0; i < 3; i++ {
			d.Record(turn("a", i))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}

	if got := testutil.ToFloat64(metrics.AuditDroppedTotal) - before; got != 1 {
		t.Fatalf("expected 1 drop, got %v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()
	if got := len(repo.snapshot()); got != 2 {
		t.Fatalf("expected the 2 queued records to be flushed, got %d", got)
	}
}

func TestDispatcher_WriteErrorsAreCounted(t *testing.T) {
	repo := &recordingRepo{err: errors.New("mongo down")}
	d := NewDispatcher(1, repo, zerolog.Nop())
	before := testutil.ToFloat64(metrics.AuditWriteErrorsTotal)

	d.Record(turn("a", 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	if got := testutil.ToFloat64(metrics.AuditWriteErrorsTotal) - before; got != 1 {
		t.Fatalf("expected 1 write error, got %v", got)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingRepo{}, zerolog.Nop())
	for _, id := range []string{"a", "session-1", "7f1c"} {
		first := d.shardIndex(id)
		if first < 0 || first >= 8 {
			t.Fatalf("index %d out of range", first)
		}
		if d.shardIndex(id) != first {
			t.Fatalf("unstable shard for %s", id)
		}
	}
}
