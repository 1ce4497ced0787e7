// Package outcome resolves single penalty attempts.
package outcome

import (
	"fmt"
	"math"

	"github.com/okian/shootout/internal/domain/probability"
	"github.com/okian/shootout/internal/domain/rng"
	"github.com/okian/shootout/internal/domain/stats"
	"github.com/okian/shootout/internal/domain/tier"
)

// snapEpsilon absorbs float error from scaling k/100 back up to k.
const snapEpsilon = 1e-9

// Decision is the auditable record of one attempt.
type Decision struct {
	Chance int     `json:"chance"`
	Roll   int     `json:"roll"`
	Draw   float64 `json:"draw"`
	Hit    bool    `json:"hit"`
}

// Resolver decides attempts from a chance model and a random source.
type Resolver struct {
	model *probability.Model
	src   rng.Source
}

// NewResolver creates a resolver. A nil source uses rng.Default().
func NewResolver(model *probability.Model, src rng.Source) *Resolver {
	if model == nil {
		model = probability.NewModel(nil)
	}
	if src == nil {
		src = rng.Default()
	}
	return &Resolver{model: model, src: src}
}

// Decide computes the shooter's chance in d and resolves one attempt. A
// non-nil draw replaces the random sample, which makes the call replayable.
func (r *Resolver) Decide(v stats.Vector, d tier.Division, draw *float64) (Decision, error) {
	chance, err := r.model.ComputeChance(v, d)
	if err != nil {
		return Decision{}, err
	}
	return r.Resolve(chance, draw)
}

// Resolve decides an attempt for an already computed chance.
func (r *Resolver) Resolve(chance int, draw *float64) (Decision, error) {
	var x float64
	if draw != nil {
		x = *draw
		if math.IsNaN(x) || x < 0 || x >= 1 {
			return Decision{}, fmt.Errorf("%w: got %v", ErrInvalidDraw, x)
		}
	} else {
		x = r.src.Float64()
	}
	roll := Roll(x)
	return Decision{Chance: chance, Roll: roll, Draw: x, Hit: roll <= chance}, nil
}

// Roll maps a draw in [0,1) to a roll in [1,100].
func Roll(draw float64) int {
	x := draw * 100
	if n := math.Round(x); math.Abs(x-n) < snapEpsilon {
		x = n
	}
	roll := int(math.Floor(x)) + 1
	switch {
	case roll < 1:
		return 1
	case roll > 100:
		return 100
	}
	return roll
}

// Hit reports whether draw scores against chance.
func Hit(chance int, draw float64) bool {
	return Roll(draw) <= chance
}
