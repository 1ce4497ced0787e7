// Package draw implements the seeded weighted draw that fulfils orders.
package draw

import (
	"fmt"
	"math"
)

// PoolEntry is one candidate of a draw pool.
type PoolEntry struct {
	ItemID string  `json:"item_id"`
	Weight float64 `json:"weight"`
	Active bool    `json:"active"`
}

// Request bundles the inputs of a draw.
type Request struct {
	Entries  []PoolEntry
	Excluded map[string]struct{}
	Count    int
	Seed     string
}

// Pick records one sub-draw for audit.
type Pick struct {
	Index    int     `json:"index"`
	ItemID   string  `json:"item_id"`
	Scalar   float64 `json:"scalar"`
	Fallback bool    `json:"fallback"`
}

// Result is the outcome of a draw: exactly Count item ids in sub-draw order.
type Result struct {
	Items    []string `json:"items"`
	Picks    []Pick   `json:"picks"`
	Fallback bool     `json:"fallback"`
}

// Engine selects items from weighted pools. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	scalar ScalarFunc
}

// NewEngine creates an engine using LegacyScalar unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{scalar: LegacyScalar}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run draws for a Request.
func (e *Engine) Run(req Request) (Result, error) {
	return e.Draw(req.Entries, req.Excluded, req.Count, req.Seed)
}

// Draw selects count items. Each sub-draw i uses the scalar of (seed, i) to
// walk the eligible entries (active and not excluded) in pool order. When
// exclusion leaves nothing eligible the sub-draw falls back to every active
// entry, so a paid order always yields count items. The exclusion set is not
// updated between sub-draws.
func (e *Engine) Draw(entries []PoolEntry, excluded map[string]struct{}, count int, seed string) (Result, error) {
	if count <= 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	candidates, fallback, err := eligibleEntries(entries, excluded)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Items:    make([]string, 0, count),
		Picks:    make([]Pick, 0, count),
		Fallback: fallback,
	}
	for i := 0; i < count; i++ {
		s := e.scalar(seed, i)
		id := selectWeighted(candidates, s)
		res.Items = append(res.Items, id)
		res.Picks = append(res.Picks, Pick{Index: i, ItemID: id, Scalar: s, Fallback: fallback})
	}
	return res, nil
}

// selectWeighted walks entries in order subtracting weights from scalar*W and
// returns the first entry that drives the target to zero or below; the last
// entry wins when none does.
func selectWeighted(entries []PoolEntry, scalar float64) string {
	var total float64
	for _, en := range entries {
		total += en.Weight
	}
	target := scalar * total
	for _, en := range entries {
		target -= en.Weight
		if target <= 0 {
			return en.ItemID
		}
	}
	return entries[len(entries)-1].ItemID
}

// eligibleEntries applies the exclusion policy. fallback reports that every
// active entry was excluded and the full active list is returned instead.
func eligibleEntries(entries []PoolEntry, excluded map[string]struct{}) ([]PoolEntry, bool, error) {
	active := make([]PoolEntry, 0, len(entries))
	eligible := make([]PoolEntry, 0, len(entries))
	for _, en := range entries {
		if !en.Active {
			continue
		}
		if math.IsNaN(en.Weight) || math.IsInf(en.Weight, 0) || en.Weight <= 0 {
			return nil, false, fmt.Errorf("%w: %s has weight %v", ErrInvalidWeight, en.ItemID, en.Weight)
		}
		active = append(active, en)
		if _, skip := excluded[en.ItemID]; !skip {
			eligible = append(eligible, en)
		}
	}
	if len(active) == 0 {
		return nil, false, ErrEmptyPool
	}
	if len(eligible) == 0 {
		return active, true, nil
	}
	return eligible, false, nil
}

// Probabilities returns each candidate's share of the total weight under the
// same exclusion and fallback policy as Draw.
func Probabilities(entries []PoolEntry, excluded map[string]struct{}) (map[string]float64, error) {
	candidates, _, err := eligibleEntries(entries, excluded)
	if err != nil {
		return nil, err
	}
	var total float64
	for _, en := range candidates {
		total += en.Weight
	}
	out := make(map[string]float64, len(candidates))
	for _, en := range candidates {
		out[en.ItemID] += en.Weight / total
	}
	return out, nil
}
