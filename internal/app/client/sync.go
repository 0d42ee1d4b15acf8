package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"grampos/internal/domain/sale"
)

// Result summarizes one drain cycle.
type Result struct {
	Submitted int
	Rejected  int
	Remaining int
	Halted    bool
	StartTime time.Time
	Duration  time.Duration
}

// SalesPusher is the slice of the API client the syncer needs.
type SalesPusher interface {
	PushSale(ctx context.Context, sl *sale.Sale) error
}

type drainJob struct {
	reply chan Result
}

// Syncer drains the pending-sales queue against the server ledger.
//
// All triggers funnel into a capacity-1 job channel consumed by a single
// worker goroutine, so two drains can never run concurrently and a trigger
// arriving mid-drain coalesces into at most one follow-up cycle. Within a
// cycle, sales go out strictly in bill-number order, one at a time; a
// network failure halts the cycle with everything unsent left queued, while
// a server rejection is skipped past so one bad record cannot dam the queue.
type Syncer struct {
	store  *Store
	api    SalesPusher
	log    *slog.Logger
	settle time.Duration

	jobs chan drainJob
	wg   sync.WaitGroup

	mu       sync.RWMutex
	draining bool
	lastRun  time.Time
}

func NewSyncer(store *Store, api SalesPusher, settle time.Duration, log *slog.Logger) *Syncer {
	return &Syncer{
		store:  store,
		api:    api,
		log:    log,
		settle: settle,
		jobs:   make(chan drainJob, 1),
	}
}

// Start launches the single consumer. Stop by cancelling ctx; Wait returns
// once the worker has exited.
func (s *Syncer) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case job := <-s.jobs:
				res := s.drain(ctx)
				if job.reply != nil {
					job.reply <- res
				}
			}
		}
	}()
}

func (s *Syncer) Wait() {
	s.wg.Wait()
}

// Trigger requests a drain cycle, fire-and-forget. Called on connectivity
// regained and after an online finalize. If a trigger is already pending
// the two coalesce; the queue is re-read fresh at the start of each cycle
// anyway.
func (s *Syncer) Trigger() {
	select {
	case s.jobs <- drainJob{}:
	default:
	}
}

// DrainNow requests a drain cycle and waits for its result. Used by the
// manual sync command. It goes through the same single-consumer queue as
// Trigger, so it serializes behind any cycle already running.
func (s *Syncer) DrainNow(ctx context.Context) (Result, error) {
	job := drainJob{reply: make(chan Result, 1)}

	select {
	case s.jobs <- job:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	select {
	case res := <-job.reply:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// IsDraining reports whether a cycle is currently running.
func (s *Syncer) IsDraining() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draining
}

// LastRun returns the start time of the most recent cycle.
func (s *Syncer) LastRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

func (s *Syncer) setDraining(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draining = v
	if v {
		s.lastRun = time.Now()
	}
}

// drain runs one cycle: settle, snapshot the queue, replay in order.
func (s *Syncer) drain(ctx context.Context) Result {
	s.setDraining(true)
	defer s.setDraining(false)

	res := Result{StartTime: time.Now()}

	// Connectivity signals and storage availability are not perfectly
	// synchronized on every platform; give the store a moment to settle
	// after a reconnect before snapshotting the queue.
	if s.settle > 0 {
		select {
		case <-time.After(s.settle):
		case <-ctx.Done():
			res.Halted = true
			res.Duration = time.Since(res.StartTime)
			return res
		}
	}

	queue := s.store.UnsyncedSales(ctx)
	if len(queue) == 0 {
		s.log.Debug("sync queue empty")
		res.Duration = time.Since(res.StartTime)
		return res
	}

	s.log.Info("draining sync queue", "pending", len(queue))

	for i := range queue {
		sl := &queue[i]

		err := s.api.PushSale(ctx, sl)
		switch {
		case err == nil:
			if rmErr := s.store.RemoveSale(ctx, sl.InvoiceID); rmErr != nil {
				// The server has the sale; leaving it queued only risks a
				// duplicate submission the ledger will deduplicate by
				// invoice id. Log and move on.
				s.log.Warn("failed to retire synced sale", "invoice_id", sl.InvoiceID, "error", rmErr)
			}
			res.Submitted++
			s.log.Debug("sale synced", "invoice_id", sl.InvoiceID)

		case isRejection(err):
			// Entry-specific refusal: keep it queued for the operator,
			// keep going so it does not block its siblings.
			res.Rejected++
			if mrErr := s.store.MarkRejected(ctx, sl.InvoiceID); mrErr != nil {
				s.log.Warn("failed to record rejection", "invoice_id", sl.InvoiceID, "error", mrErr)
			}
			s.log.Warn("sale rejected by server, left queued", "invoice_id", sl.InvoiceID, "error", err)

		default:
			// Network-level failure: halt the whole cycle. The failed sale
			// and everything behind it stay queued, in order, for the next
			// trigger.
			res.Halted = true
			res.Remaining = len(queue) - i
			s.log.Warn("network failure, halting drain",
				"invoice_id", sl.InvoiceID,
				"remaining", res.Remaining,
				"error", err,
			)
			res.Duration = time.Since(res.StartTime)
			return res
		}
	}

	res.Remaining = res.Rejected
	res.Duration = time.Since(res.StartTime)

	s.log.Info("drain cycle finished",
		"submitted", res.Submitted,
		"rejected", res.Rejected,
	)
	return res
}

func isRejection(err error) bool {
	var rej *RejectedError
	return errors.As(err, &rej)
}
