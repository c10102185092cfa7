package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/minibank/fraud-chat/internal/api/metrics"
	"github.com/minibank/fraud-chat/internal/core/domain"
	"github.com/minibank/fraud-chat/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
	drainTimeout   = 10 * time.Second
)

// Dispatcher is a ports.TurnRecorder that persists turns on a fixed set of
// workers. Records are sharded by session id, so one session's turns are
// written in order.
type Dispatcher struct {
	workers []chan domain.TurnRecord
	repo    ports.TurnRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.TurnRepository, log zerolog.Logger) *Dispatcher {
	return newDispatcher(numWorkers, channelBuffer, repo, log)
}

func newDispatcher(numWorkers, buffer int, repo ports.TurnRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.TurnRecord, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.TurnRecord, buffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// flushes what is already queued and exits; Wait blocks until they are done.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record enqueues rec without blocking. A full worker channel drops the record.
func (d *Dispatcher) Record(rec domain.TurnRecord) {
	idx := d.shardIndex(rec.SessionID)
	select {
	case d.workers[idx] <- rec:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.AuditDroppedTotal.Inc()
		d.log.Warn().Str("session_id", rec.SessionID).Int("worker_id", idx).Msg("audit queue full, turn dropped")
	}
}

// shardIndex maps a session id deterministically to a worker index.
func (d *Dispatcher) shardIndex(sessionID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.TurnRecord) {
	defer d.wg.Done()
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx), id, ch)
			return
		case rec := <-ch:
			depth.Dec()
			d.write(ctx, id, rec)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.TurnRecord) {
	ctx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case rec := <-ch:
			depth.Dec()
			d.write(ctx, id, rec)
		default:
			return
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, id int, rec domain.TurnRecord) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := d.repo.InsertTurn(ctx, rec); err != nil {
		metrics.AuditWriteErrorsTotal.Inc()
		d.log.Error().Err(err).
			Str("session_id", rec.SessionID).
			Int("worker_id", id).
			Msg("turn audit write failed")
	}
}
