package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/performile/courier-platform/internal/api/metrics"
	"github.com/performile/courier-platform/internal/core/domain"
	"github.com/performile/courier-platform/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes ranking tasks to a fixed set of workers using consistent
// hashing on the courier id, so concurrent recomputes for the same courier
// never race each other. Tasks carry no result: a failed task is logged and
// dropped, and the next triggering event repairs the score.
type Dispatcher struct {
	workers  []chan domain.RankingTask
	store    ports.RankingStore
	debounce ports.RankingDebouncer
	log      zerolog.Logger
	inflight sync.WaitGroup

	// ctx is the worker lifetime, set by Start. Enqueue consults it so a
	// task submitted after shutdown is dropped instead of stranding WaitIdle.
	ctx context.Context
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. debounce may be nil.
func NewDispatcher(numWorkers int, store ports.RankingStore, debounce ports.RankingDebouncer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.RankingTask, numWorkers),
		store:    store,
		debounce: debounce,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.RankingTask, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	d.ctx = ctx
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue submits a task to the worker responsible for its courier id.
// Non-blocking up to channelBuffer capacity. Tasks submitted before Start or
// after the worker context is cancelled are dropped with a log line: no
// worker will ever pick them up, and fire-and-forget tolerates the loss.
func (d *Dispatcher) Enqueue(task domain.RankingTask) {
	if d.ctx == nil || d.ctx.Err() != nil {
		d.dropTask(task)
		return
	}

	d.inflight.Add(1)
	i := d.shardIndex(task.CourierID)
	select {
	case d.workers[i] <- task:
		metrics.RankingQueueDepth.WithLabelValues(strconv.Itoa(i)).Set(float64(len(d.workers[i])))
	case <-d.ctx.Done():
		d.inflight.Done()
		d.dropTask(task)
	}
}

func (d *Dispatcher) dropTask(task domain.RankingTask) {
	metrics.RankingUpdatesTotal.WithLabelValues("dropped").Inc()
	d.log.Warn().
		Str("courier_id", task.CourierID).
		Str("context", task.Context).
		Msg("dispatcher stopped, ranking task dropped")
}

// WaitIdle blocks until every enqueued task has been processed. Intended for
// tests and shutdown draining.
func (d *Dispatcher) WaitIdle() {
	d.inflight.Wait()
}

// shardIndex maps a courier id deterministically to a worker index.
func (d *Dispatcher) shardIndex(courierID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(courierID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.RankingTask) {
	for {
		select {
		case <-ctx.Done():
			d.drain(ctx, id, ch)
			return
		case task, ok := <-ch:
			if !ok {
				return
			}
			d.process(ctx, id, task)
		}
	}
}

// drain processes tasks still buffered when the worker context is cancelled,
// so WaitIdle can complete during shutdown. Draining runs detached from the
// cancelled context; store timeouts still bound each recompute.
func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.RankingTask) {
	detached := context.WithoutCancel(ctx)
	for {
		select {
		case task := <-ch:
			d.process(detached, id, task)
		default:
			return
		}
	}
}

// process runs one recompute. Every failure is logged with courier id,
// postal code, and context, and never propagated: ranking freshness is not a
// correctness requirement of the triggering request.
func (d *Dispatcher) process(ctx context.Context, workerID int, task domain.RankingTask) {
	defer d.inflight.Done()
	defer func() {
		metrics.RankingQueueDepth.WithLabelValues(strconv.Itoa(workerID)).Set(float64(len(d.workers[workerID])))
	}()

	postal := ""
	if task.PostalCode != nil {
		postal = *task.PostalCode
	}

	if d.debounce != nil {
		skip, err := d.debounce.ShouldSkip(ctx, task.CourierID, task.PostalCode)
		if err != nil {
			// Debounce is an optimization; fall through and recompute.
			d.log.Warn().Err(err).Str("courier_id", task.CourierID).Msg("ranking debounce check failed")
		} else if skip {
			metrics.RankingUpdatesTotal.WithLabelValues("debounced").Inc()
			return
		}
	}

	if err := d.store.RecomputeScore(ctx, task.CourierID, task.PostalCode); err != nil {
		metrics.RankingUpdatesTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("courier_id", task.CourierID).
			Str("postal_code", postal).
			Str("context", task.Context).
			Int("worker_id", workerID).
			Msg("ranking score recompute failed")
		return
	}

	if d.debounce != nil {
		if err := d.debounce.Mark(ctx, task.CourierID, task.PostalCode); err != nil {
			d.log.Warn().Err(err).Str("courier_id", task.CourierID).Msg("ranking debounce mark failed")
		}
	}

	metrics.RankingUpdatesTotal.WithLabelValues("ok").Inc()
	d.log.Debug().
		Str("courier_id", task.CourierID).
		Str("postal_code", postal).
		Str("context", task.Context).
		Msg("ranking score recomputed")
}
