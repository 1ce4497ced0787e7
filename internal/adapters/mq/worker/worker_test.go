package worker_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/shootout/internal/adapters/ledger"
	"github.com/okian/shootout/internal/adapters/mq/queue"
	"github.com/okian/shootout/internal/adapters/mq/worker"
	"github.com/okian/shootout/internal/domain/model"
	"github.com/okian/shootout/internal/domain/reward"
	"github.com/okian/shootout/internal/domain/tier"
	logging "github.com/okian/shootout/pkg/logger"
)

type mockQueue struct {
	ch chan model.Settlement
}

func newMockQueue() *mockQueue {
	return &mockQueue{ch: make(chan model.Settlement, 10)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan model.Settlement { return mq.ch }

func (mq *mockQueue) Close() error {
	close(mq.ch)
	return nil
}

// ctxQueue remembers the context its reader dequeued with.
type ctxQueue struct {
	*mockQueue
	got chan context.Context
}

func (cq *ctxQueue) Dequeue(ctx context.Context) <-chan model.Settlement {
	cq.got <- ctx
	return cq.ch
}

type failingCrediter struct{}

func (failingCrediter) Credit(context.Context, string, string, bool, reward.Payout) (model.Balance, error) {
	return model.Balance{}, errors.New("ledger offline")
}

type collector struct {
	mu   sync.Mutex
	errs []error
	seen chan struct{}
}

func newCollector() *collector { return &collector{seen: make(chan struct{}, 100)} }

func (c *collector) observe(_ model.Settlement, _ reward.Payout, err error) {
	c.mu.Lock()
	c.errs = append(c.errs, err)
	c.mu.Unlock()
	c.seen <- struct{}{}
}

func (c *collector) wait(n int) bool {
	for i := 0; i < n; i++ {
		select {
		case <-c.seen:
		case <-time.After(2 * time.Second):
			return false
		}
	}
	return true
}

func win(id, player string) model.Settlement {
	return model.Settlement{
		MatchID:  id,
		PlayerID: player,
		Division: tier.Primera,
		Result:   reward.MatchResult{Won: true, PerfectShotCount: 5, Mode: reward.ModeMultiplayer},
	}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker wired to a real calculator and ledger", t, func() {
		_ = logging.Init(logging.WithWriter(io.Discard))
		q := newMockQueue()
		store := ledger.NewMemoryStore()
		obs := newCollector()
		w := worker.NewInMemoryWorker(q, reward.NewCalculator(), store,
			worker.WithName("test-worker"), worker.WithObserver(obs.observe))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When a perfect multiplayer primera win is settled", func() {
			q.ch <- win("m1", "p1")
			convey.So(obs.wait(1), convey.ShouldBeTrue)

			convey.Convey("Then the ledger is credited with the payout", func() {
				b, err := store.Balance(ctx, "p1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(b.TokensString(), convey.ShouldEqual, "112.50")
				convey.So(b.Experience, convey.ShouldEqual, 225)
				convey.So(obs.errs[0], convey.ShouldBeNil)
			})
		})

		convey.Convey("When the same match arrives twice", func() {
			q.ch <- win("m1", "p1")
			q.ch <- win("m1", "p1")
			convey.So(obs.wait(2), convey.ShouldBeTrue)

			convey.Convey("Then the duplicate is reported and not paid", func() {
				convey.So(obs.errs[0], convey.ShouldBeNil)
				convey.So(errors.Is(obs.errs[1], ledger.ErrAlreadySettled), convey.ShouldBeTrue)
				b, _ := store.Balance(ctx, "p1")
				convey.So(b.Matches, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the settlement has an unknown division", func() {
			bad := win("m2", "p2")
			bad.Division = tier.Division("cuarta")
			q.ch <- bad
			convey.So(obs.wait(1), convey.ShouldBeTrue)

			convey.Convey("Then pricing fails and nothing is credited", func() {
				convey.So(errors.Is(obs.errs[0], tier.ErrInvalidTier), convey.ShouldBeTrue)
				_, err := store.Balance(ctx, "p2")
				convey.So(errors.Is(err, ledger.ErrNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the worker is shut down", func() {
			err := w.Shutdown(context.Background())

			convey.Convey("Then it stops promptly", func() {
				convey.So(err, convey.ShouldBeNil)
				select {
				case <-w.Done():
				default:
					convey.So("worker still running", convey.ShouldBeEmpty)
				}
			})
		})
	})

	convey.Convey("Given a worker whose ledger fails", t, func() {
		_ = logging.Init(logging.WithWriter(io.Discard))
		q := newMockQueue()
		obs := newCollector()
		w := worker.NewInMemoryWorker(q, reward.NewCalculator(), failingCrediter{}, worker.WithObserver(obs.observe))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		q.ch <- win("m1", "p1")
		convey.So(obs.wait(1), convey.ShouldBeTrue)

		convey.Convey("Then the error reaches the observer", func() {
			convey.So(obs.errs[0], convey.ShouldNotBeNil)
			convey.So(obs.errs[0].Error(), convey.ShouldContainSubstring, "ledger offline")
		})
	})
}

func TestWorkerReleasesDequeue(t *testing.T) {
	convey.Convey("Given a worker running on a context that is never cancelled", t, func() {
		_ = logging.Init(logging.WithWriter(io.Discard))
		q := &ctxQueue{mockQueue: newMockQueue(), got: make(chan context.Context, 1)}
		w := worker.NewInMemoryWorker(q, reward.NewCalculator(), ledger.NewMemoryStore())
		go w.Run(context.WithoutCancel(context.Background()))
		dqCtx := <-q.got

		convey.Convey("When the worker is shut down", func() {
			convey.So(w.Shutdown(context.Background()), convey.ShouldBeNil)

			convey.Convey("Then the dequeue context is cancelled", func() {
				select {
				case <-dqCtx.Done():
				case <-time.After(time.Second):
					convey.So("dequeue context still live", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of four workers on a real queue", t, func() {
		_ = logging.Init(logging.WithWriter(io.Discard))
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		store := ledger.NewMemoryStore()
		pool := worker.NewPool(4, q, reward.NewCalculator(), store, nil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.Convey("When fifty matches are queued and the pool shuts down", func() {
			for i := 0; i < 50; i++ {
				convey.So(q.Enqueue(ctx, win(fmt.Sprintf("m%d", i), fmt.Sprintf("p%d", i%5))), convey.ShouldBeNil)
			}
			err := pool.Shutdown(ctx)

			convey.Convey("Then every match is drained and credited once", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(pool.Size(), convey.ShouldEqual, 4)
				convey.So(pool.Processed(), convey.ShouldEqual, 50)
				convey.So(pool.Failed(), convey.ShouldEqual, 0)
				convey.So(store.Count(ctx), convey.ShouldEqual, 5)
				b, err := store.Balance(ctx, "p0")
				convey.So(err, convey.ShouldBeNil)
				convey.So(b.TokensString(), convey.ShouldEqual, "1125.00")
			})
		})
	})
}
