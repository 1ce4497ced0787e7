package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/shootout/internal/catalog"
	"github.com/okian/shootout/internal/domain/draw"
	"github.com/okian/shootout/internal/domain/tier"
	"github.com/okian/shootout/pkg/logger"
	"github.com/okian/shootout/pkg/metrics"
)

// OrderRequest is a paid order waiting for its items.
type OrderRequest struct {
	OrderID  string   `json:"order_id"`
	Division string   `json:"division"`
	Quantity int      `json:"quantity"`
	Owned    []string `json:"owned"`
	// Seed is optional; the order id is used when it is empty so a repeated
	// order replays the same draw.
	Seed string `json:"seed"`
}

// OrderResult lists the drawn items with the audit trail of the draw.
type OrderResult struct {
	OrderID   string         `json:"order_id"`
	Division  tier.Division  `json:"division"`
	Seed      string         `json:"seed"`
	Items     []catalog.Item `json:"items"`
	Picks     []draw.Pick    `json:"picks"`
	Fallback  bool           `json:"fallback"`
	Duplicate bool           `json:"duplicate"`
}

// orderFingerprint identifies what an order asked for, so a reused order id
// can be told apart from a retry.
func orderFingerprint(d tier.Division, quantity int, seed string, owned map[string]struct{}) string {
	ids := make([]string, 0, len(owned))
	for id := range owned {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return fmt.Sprintf("%s|%d|%s|%s", d, quantity, seed, strings.Join(ids, ","))
}

// FulfilOrder draws Quantity items from the division's pool, skipping owned
// items while any remain. An order id seen before with the same request is
// drawn again with the same seed and flagged as a duplicate; reusing it for a
// different request fails with dedupe.ErrConflict.
func (s *Service) FulfilOrder(ctx context.Context, req OrderRequest) (OrderResult, error) {
	if err := s.running(); err != nil {
		return OrderResult{}, err
	}
	start := time.Now()

	d, err := tier.Parse(req.Division)
	if err != nil {
		return OrderResult{}, err
	}
	if req.Quantity < 1 || req.Quantity > s.maxOrderQuantity {
		return OrderResult{}, fmt.Errorf("%w: quantity must be between 1 and %d, got %d",
			ErrInvalidRequest, s.maxOrderQuantity, req.Quantity)
	}

	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		orderID = uuid.NewString()
	}
	seed := req.Seed
	if seed == "" {
		seed = orderID
	}

	pool, err := s.catalog.PoolFor(d)
	if err != nil {
		return OrderResult{}, err
	}
	excluded := make(map[string]struct{}, len(req.Owned))
	for _, id := range req.Owned {
		excluded[id] = struct{}{}
	}

	duplicate, err := s.deduper.SeenAndRecord(ctx, orderID, orderFingerprint(d, req.Quantity, seed, excluded))
	if err != nil {
		metrics.RecordErrorByComponent("draw", "order_conflict")
		return OrderResult{}, err
	}
	res, err := s.engine.Draw(pool, excluded, req.Quantity, seed)
	if err != nil {
		if !duplicate {
			s.deduper.Unrecord(ctx, orderID)
		}
		metrics.RecordErrorByComponent("draw", "draw_failed")
		return OrderResult{}, fmt.Errorf("draw order %s: %w", orderID, err)
	}

	items := make([]catalog.Item, 0, len(res.Items))
	for _, id := range res.Items {
		it, err := s.catalog.Item(id)
		if err != nil {
			return OrderResult{}, err
		}
		items = append(items, it)
	}

	if duplicate {
		metrics.RecordOrderDuplicate()
	}
	metrics.RecordOrder(d.String(), len(items), res.Fallback, float64(time.Since(start).Microseconds())/1000)
	s.logger.Debug(ctx, "order fulfilled",
		logger.String("order_id", orderID),
		logger.String("division", d.String()),
		logger.Int("items", len(items)),
		logger.Bool("fallback", res.Fallback),
		logger.Bool("duplicate", duplicate))

	return OrderResult{
		OrderID:   orderID,
		Division:  d,
		Seed:      seed,
		Items:     items,
		Picks:     res.Picks,
		Fallback:  res.Fallback,
		Duplicate: duplicate,
	}, nil
}

// DrawOdds returns each item's probability of being picked by a sub-draw of
// an order from division d that excludes owned.
func (s *Service) DrawOdds(_ context.Context, division string, owned []string) (map[string]float64, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	d, err := tier.Parse(division)
	if err != nil {
		return nil, err
	}
	pool, err := s.catalog.PoolFor(d)
	if err != nil {
		return nil, err
	}
	excluded := make(map[string]struct{}, len(owned))
	for _, id := range owned {
		excluded[id] = struct{}{}
	}
	return draw.Probabilities(pool, excluded)
}
