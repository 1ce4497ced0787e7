// Package service wires the draw, penalty and reward engines into the
// operations the HTTP API and CLI call.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/okian/shootout/internal/adapters/ledger"
	"github.com/okian/shootout/internal/adapters/mq/queue"
	workerpool "github.com/okian/shootout/internal/adapters/mq/worker"
	"github.com/okian/shootout/internal/catalog"
	"github.com/okian/shootout/internal/domain/dedupe"
	"github.com/okian/shootout/internal/domain/draw"
	"github.com/okian/shootout/internal/domain/outcome"
	"github.com/okian/shootout/internal/domain/probability"
	"github.com/okian/shootout/internal/domain/reward"
	"github.com/okian/shootout/internal/domain/rng"
	"github.com/okian/shootout/internal/domain/stats"
	"github.com/okian/shootout/internal/domain/tier"
	"github.com/okian/shootout/pkg/logger"
	"github.com/okian/shootout/pkg/metrics"
)

// Service implements the API dependencies.
type Service struct {
	mu sync.RWMutex

	// Engine
	table       *tier.Table
	model       *probability.Model
	resolver    *outcome.Resolver
	engine      *draw.Engine
	calculator  *reward.Calculator
	distributor *stats.Distributor
	catalog     *catalog.Catalog

	// Shell
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *workerpool.Pool
	ledger  ledger.Store

	// Configuration
	workerCount      int
	queueSize        int
	dedupeSize       int
	maxOrderQuantity int
	catalogPath      string
	scalarName       string
	src              rng.Source

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of settlement workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the settlement queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many order ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxOrderQuantity caps the items one order may draw.
func WithMaxOrderQuantity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxOrderQuantity = n
		}
	}
}

// WithTierTable replaces the built-in division table.
func WithTierTable(t *tier.Table) Option {
	return func(s *Service) {
		if t != nil {
			s.table = t
		}
	}
}

// WithCatalogPath loads the catalog from a YAML file instead of the embedded one.
func WithCatalogPath(path string) Option {
	return func(s *Service) {
		s.catalogPath = path
	}
}

// WithDrawScalar selects the draw scalar by name (legacy or splitmix).
func WithDrawScalar(name string) Option {
	return func(s *Service) {
		s.scalarName = name
	}
}

// WithRandomSource sets the source used for penalty draws and stat
// generation. Tests pass a seeded source.
func WithRandomSource(src rng.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.src = src
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		table:            tier.Default(),
		workerCount:      runtime.NumCPU() * 2,
		queueSize:        10_000,
		dedupeSize:       50_000,
		maxOrderQuantity: 50,
		src:              rng.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the catalog, builds the engines and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting shootout service...")

	scalar, ok := draw.ScalarByName(s.scalarName)
	if !ok {
		return fmt.Errorf("%w: unknown draw scalar %q", ErrInvalidRequest, s.scalarName)
	}
	cat, err := catalog.LoadFile(s.catalogPath, s.table)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	s.catalog = cat
	s.model = probability.NewModel(s.table)
	s.resolver = outcome.NewResolver(s.model, s.src)
	s.engine = draw.NewEngine(draw.WithScalar(scalar))
	s.calculator = reward.NewCalculator()
	s.distributor = stats.NewDistributor(s.src)

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithDropHandler(func(st queue.Settlement) {
			s.logger.Warn(context.Background(), "settlement dropped during shutdown",
				logger.String("match_id", st.MatchID),
				logger.String("player_id", st.PlayerID))
		}),
	)
	s.ledger = ledger.NewMemoryStore()
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.calculator, s.ledger, nil)
	// Workers outlive the start context so Stop can drain the queue.
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "shootout service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("catalogItems", cat.Len()),
		logger.String("drawScalar", s.scalarName),
	)
	return nil
}

// Stop closes the settlement queue and waits for queued matches to be paid.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping shootout service...")

	err := s.pool.Shutdown(ctx)
	s.started = false
	s.logger.Info(ctx, "shootout service stopped",
		logger.Int("processed", int(s.pool.Processed())),
		logger.Int("failed", int(s.pool.Failed())))
	return err
}

// running returns ErrNotStarted until Start succeeds.
func (s *Service) running() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Tiers returns the division table, weakest first.
func (s *Service) Tiers() []tier.Row {
	return s.table.Rows()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	st := map[string]interface{}{
		"started":          s.started,
		"workerCount":      s.workerCount,
		"queueSize":        s.queueSize,
		"dedupeSize":       s.dedupeSize,
		"maxOrderQuantity": s.maxOrderQuantity,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		st["queueLength"] = queueLen
		st["ordersRemembered"] = s.deduper.Size()
		st["catalogItems"] = s.catalog.Len()
		st["players"] = s.ledger.Count(ctx)
		st["settled"] = s.pool.Processed()
		st["settlementFailures"] = s.pool.Failed()

		metrics.UpdateQueueSize(queueLen, s.queueSize)
		metrics.UpdateWorkerCount(s.workerCount)
	}
	return st
}
