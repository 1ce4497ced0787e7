// Package tier holds the static division table: stat budgets and the
// success-probability bounds of each division.
package tier

import (
	"fmt"
	"strings"
)

// Division identifies a strength bracket.
type Division string

// Divisions ordered weakest to strongest.
const (
	Tercera Division = "tercera"
	Segunda Division = "segunda"
	Primera Division = "primera"
)

var ordered = []Division{Tercera, Segunda, Primera}

// Divisions returns every division, weakest first.
func Divisions() []Division {
	out := make([]Division, len(ordered))
	copy(out, ordered)
	return out
}

// Rank returns the strength index of d (0 = weakest) or -1 if unknown.
func (d Division) Rank() int {
	for i, o := range ordered {
		if o == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d belongs to the enumeration.
func (d Division) Valid() bool { return d.Rank() >= 0 }

func (d Division) String() string { return string(d) }

// Parse converts user input into a Division.
func Parse(s string) (Division, error) {
	d := Division(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTier, s)
	}
	return d, nil
}

// Bounds are the per-division budget and chance limits.
type Bounds struct {
	StartingStatBudget    int `json:"starting_stat_budget" koanf:"starting_stat_budget"`
	MaxStatBudget         int `json:"max_stat_budget" koanf:"max_stat_budget"`
	StartingChancePercent int `json:"starting_chance_percent" koanf:"starting_chance_percent"`
	MaxChancePercent      int `json:"max_chance_percent" koanf:"max_chance_percent"`
}

// Validate checks the invariants of a bounds row.
func (b Bounds) Validate() error {
	switch {
	case b.StartingStatBudget < 0:
		return fmt.Errorf("%w: negative starting stat budget %d", ErrInvalidBounds, b.StartingStatBudget)
	case b.StartingStatBudget >= b.MaxStatBudget:
		return fmt.Errorf("%w: starting stat budget %d must be below max %d", ErrInvalidBounds, b.StartingStatBudget, b.MaxStatBudget)
	case b.StartingChancePercent < 0:
		return fmt.Errorf("%w: negative starting chance %d", ErrInvalidBounds, b.StartingChancePercent)
	case b.StartingChancePercent >= b.MaxChancePercent:
		return fmt.Errorf("%w: starting chance %d must be below max %d", ErrInvalidBounds, b.StartingChancePercent, b.MaxChancePercent)
	case b.MaxChancePercent > 100:
		return fmt.Errorf("%w: max chance %d exceeds 100", ErrInvalidBounds, b.MaxChancePercent)
	}
	return nil
}

// Defaults returns the built-in division table.
func Defaults() map[Division]Bounds {
	return map[Division]Bounds{
		Tercera: {StartingStatBudget: 57, MaxStatBudget: 133, StartingChancePercent: 30, MaxChancePercent: 70},
		Segunda: {StartingStatBudget: 76, MaxStatBudget: 152, StartingChancePercent: 40, MaxChancePercent: 80},
		Primera: {StartingStatBudget: 95, MaxStatBudget: 171, StartingChancePercent: 50, MaxChancePercent: 90},
	}
}

// Table is an immutable division lookup. Build it once at startup and share
// the pointer; it is safe for concurrent reads.
type Table struct {
	rows map[Division]Bounds
}

// NewTable builds a table from the defaults with the given rows replaced.
// Overrides for unknown divisions are rejected.
func NewTable(overrides map[Division]Bounds) (*Table, error) {
	rows := Defaults()
	for d, b := range overrides {
		if !d.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTier, d)
		}
		rows[d] = b
	}
	for _, d := range ordered {
		if err := rows[d].Validate(); err != nil {
			return nil, fmt.Errorf("division %s: %w", d, err)
		}
	}
	return &Table{rows: rows}, nil
}

// Default returns a table holding only the built-in rows.
func Default() *Table {
	t, err := NewTable(nil)
	if err != nil {
		panic(err)
	}
	return t
}

// Bounds looks up the limits of d.
func (t *Table) Bounds(d Division) (Bounds, error) {
	b, ok := t.rows[d]
	if !ok {
		return Bounds{}, fmt.Errorf("%w: %q", ErrInvalidTier, d)
	}
	return b, nil
}

// Rows returns a copy of the table, weakest division first.
func (t *Table) Rows() []Row {
	out := make([]Row, 0, len(ordered))
	for _, d := range ordered {
		out = append(out, Row{Division: d, Bounds: t.rows[d]})
	}
	return out
}

// Row pairs a division with its bounds.
type Row struct {
	Division Division `json:"division"`
	Bounds
}
