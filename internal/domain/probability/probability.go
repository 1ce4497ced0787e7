// Package probability converts stat vectors into bounded penalty success
// chances.
package probability

import (
	"fmt"

	"github.com/okian/shootout/internal/domain/stats"
	"github.com/okian/shootout/internal/domain/tier"
)

// Hard limits on any chance. No stat vector may guarantee or forbid a goal.
const (
	MinChance = 5
	MaxChance = 95
)

// Model computes chances against a fixed division table.
type Model struct {
	table *tier.Table
}

// NewModel creates a model. A nil table uses tier.Default().
func NewModel(table *tier.Table) *Model {
	if table == nil {
		table = tier.Default()
	}
	return &Model{table: table}
}

// Table returns the division table the model evaluates against.
func (m *Model) Table() *tier.Table { return m.table }

// ComputeChance returns floor(clamp(start + (max-start)*ratio, 5, 95)) where
// ratio is the stat sum over the evaluated division's max budget, clamped to
// [0,1]. The evaluated division need not be the vector's own.
func (m *Model) ComputeChance(v stats.Vector, d tier.Division) (int, error) {
	if err := v.Validate(); err != nil {
		return 0, err
	}
	b, err := m.table.Bounds(d)
	if err != nil {
		return 0, err
	}
	return chanceFor(v.Sum(), b), nil
}

// chanceFor works on the exact rational so that no rounding error can move
// a result across an integer boundary.
func chanceFor(sum int, b tier.Bounds) int {
	if sum < 0 {
		sum = 0
	}
	if sum > b.MaxStatBudget {
		sum = b.MaxStatBudget
	}
	span := b.MaxChancePercent - b.StartingChancePercent
	raw := b.StartingChancePercent + span*sum/b.MaxStatBudget
	return clamp(raw, MinChance, MaxChance)
}

func clamp(n, lo, hi int) int {
	switch {
	case n < lo:
		return lo
	case n > hi:
		return hi
	}
	return n
}

// SumEqualsStartingBudget certifies a freshly generated starting item.
func (m *Model) SumEqualsStartingBudget(v stats.Vector, d tier.Division) (bool, error) {
	b, err := m.table.Bounds(d)
	if err != nil {
		return false, err
	}
	return v.Sum() == b.StartingStatBudget, nil
}

// SumWithinMaxBudget reports whether v stays under the division ceiling.
func (m *Model) SumWithinMaxBudget(v stats.Vector, d tier.Division) (bool, error) {
	b, err := m.table.Bounds(d)
	if err != nil {
		return false, err
	}
	return v.Sum() <= b.MaxStatBudget, nil
}

// CheckBudget fails unless v is valid and its sum lies inside the division's
// [start, max] budget.
func (m *Model) CheckBudget(v stats.Vector, d tier.Division) error {
	if err := v.Validate(); err != nil {
		return err
	}
	b, err := m.table.Bounds(d)
	if err != nil {
		return err
	}
	if s := v.Sum(); s < b.StartingStatBudget || s > b.MaxStatBudget {
		return fmt.Errorf("%w: sum %d outside %s budget [%d, %d]",
			stats.ErrInvalidStatVector, s, d, b.StartingStatBudget, b.MaxStatBudget)
	}
	return nil
}
