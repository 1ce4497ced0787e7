// Package worker settles finished matches off the queue: it prices them with
// the reward calculator and credits the ledger.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/shootout/internal/domain/model"
	"github.com/okian/shootout/internal/domain/reward"
	"github.com/okian/shootout/internal/domain/tier"
	"github.com/okian/shootout/pkg/logger"
	"github.com/okian/shootout/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Rewarder prices a match result.
type Rewarder interface {
	Calculate(d tier.Division, r reward.MatchResult) (reward.Payout, error)
}

// Crediter books a payout for a player once per match.
type Crediter interface {
	Credit(ctx context.Context, playerID, matchID string, won bool, payout reward.Payout) (model.Balance, error)
}

// Queue defines how workers receive settlements.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Settlement
}

// Observer sees the outcome of every settlement attempt.
type Observer func(s model.Settlement, p reward.Payout, err error)

// Worker settles matches until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue drains.
	Run(ctx context.Context)

	// Shutdown stops the worker without waiting for the queue to drain.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	rewarder Rewarder
	crediter Crediter
	name     string
	observe  Observer

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker.
func NewInMemoryWorker(q Queue, rewarder Rewarder, crediter Crediter, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		rewarder: rewarder,
		crediter: crediter,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.With(logger.String("worker", w.name))
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	// the forwarder behind ch must not outlive this loop
	dqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	ch := w.queue.Dequeue(dqCtx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case s, ok := <-ch:
			if !ok {
				return
			}
			if err := w.settle(ctx, s); err != nil {
				w.logger.Error(ctx, "settlement failed",
					logger.String("match_id", s.MatchID),
					logger.Error(err))
			}
		}
	}
}

// Shutdown implements Worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stop()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) stop() {
	w.shutdownOnce.Do(func() { close(w.shutdown) })
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) settle(ctx context.Context, s model.Settlement) (err error) { //nolint:gocritic // hugeParam: value semantics for channel
	start := time.Now()
	var payout reward.Payout
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
		if w.observe != nil {
			w.observe(s, payout, err)
		}
	}()

	payout, err = w.rewarder.Calculate(s.Division, s.Result)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "reward_error")
		return fmt.Errorf("price match %s: %w", s.MatchID, err)
	}

	bal, err := w.crediter.Credit(ctx, s.PlayerID, s.MatchID, s.Result.Won, payout)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "credit_error")
		return fmt.Errorf("credit match %s: %w", s.MatchID, err)
	}

	tokens, _ := payout.Tokens.Float64()
	metrics.RecordSettlement(s.Division.String(), s.Result.Won, tokens)
	w.logger.Debug(ctx, "match settled",
		logger.String("match_id", s.MatchID),
		logger.String("player_id", s.PlayerID),
		logger.String("division", s.Division.String()),
		logger.String("tokens", payout.Tokens.StringFixed(2)),
		logger.Int("experience", payout.Experience),
		logger.String("balance", bal.TokensString()))
	return nil
}

// Pool manages multiple workers reading the same queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	active    atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers (a CPU-based default when
// workerCount < 1). observe may be nil.
func NewPool(workerCount int, q Queue, rewarder Rewarder, crediter Crediter, observe Observer) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	track := func(s model.Settlement, pay reward.Payout, err error) {
		if err != nil {
			p.failed.Add(1)
		} else {
			p.processed.Add(1)
		}
		if observe != nil {
			observe(s, pay, err)
		}
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(q, rewarder, crediter,
			WithName("worker-"+strconv.Itoa(i)),
			WithObserver(track))
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns the number of settled matches.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Failed returns the number of settlements that errored.
func (p *Pool) Failed() int64 { return p.failed.Load() }

// Start runs every worker in its own goroutine.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go func(w *InMemoryWorker) {
			n := p.active.Add(1)
			metrics.UpdateWorkerActiveCount(int(n))
			defer func() {
				metrics.UpdateWorkerActiveCount(int(p.active.Add(-1)))
			}()
			w.Run(ctx)
		}(w)
	}
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			w.stop()
		}
	}
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}
