package stats

import (
	"fmt"

	"github.com/okian/shootout/internal/domain/rng"
	"github.com/okian/shootout/internal/domain/tier"
)

// Distributor turns a stat total into a concrete Vector. It only reads its
// random source, so one Distributor can serve many goroutines when the source
// is safe for concurrent use.
type Distributor struct {
	src rng.Source
}

// NewDistributor creates a distributor. A nil source uses rng.Default().
func NewDistributor(src rng.Source) *Distributor {
	if src == nil {
		src = rng.Default()
	}
	return &Distributor{src: src}
}

// Distribute dispatches on role: known roles use their allocation profile,
// RoleNone and unknown roles split evenly.
func (d *Distributor) Distribute(total int, role Role) (Vector, error) {
	if !role.Known() {
		return d.DistributeEven(total)
	}
	return d.DistributeByRole(total, role)
}

// DistributeEven gives every stat floor(total/5) and hands the remainder out
// one point at a time to randomly picked stats. The same stat may be picked
// more than once.
func (d *Distributor) DistributeEven(total int) (Vector, error) {
	if total < 0 {
		return Vector{}, fmt.Errorf("%w: negative total %d", ErrInvalidStatVector, total)
	}
	base := total / statCount
	v := Vector{Speed: base, Shooting: base, Passing: base, Defending: base, Goalkeeping: base}
	for rem := total % statCount; rem > 0; rem-- {
		v.add(Stat(d.src.IntN(statCount)), 1)
	}
	return v.WithOverall(), nil
}

// DistributeByRole applies the role's percentage profile, flooring each
// component, and adds the whole rounding remainder to the primary stat.
// Unknown roles fall back to DistributeEven.
func (d *Distributor) DistributeByRole(total int, role Role) (Vector, error) {
	p, ok := profiles[role]
	if !ok {
		return d.DistributeEven(total)
	}
	if total < 0 {
		return Vector{}, fmt.Errorf("%w: negative total %d", ErrInvalidStatVector, total)
	}
	var v Vector
	assigned := 0
	for s := Speed; s <= Goalkeeping; s++ {
		n := total * p.pct[s] / 100
		v.add(s, n)
		assigned += n
	}
	v.add(p.primary, total-assigned)
	return v.WithOverall(), nil
}

// TotalForRarity maps a rarity onto a stat total inside the division's
// budget: start + (max-start)*multiplier, floored.
func TotalForRarity(b tier.Bounds, r Rarity) int {
	headroom := b.MaxStatBudget - b.StartingStatBudget
	return b.StartingStatBudget + headroom*r.multiplierPct()/100
}

// Generate authors a new item's stats for a division, rarity and role.
func (d *Distributor) Generate(b tier.Bounds, r Rarity, role Role) (Vector, error) {
	return d.Distribute(TotalForRarity(b, r), role)
}
