package probability

import (
	"github.com/okian/shootout/internal/domain/stats"
	"github.com/okian/shootout/internal/domain/tier"
)

// TierChance is the chance of a vector when played in one division.
type TierChance struct {
	Division tier.Division `json:"division"`
	Chance   int           `json:"chance"`
	Eligible bool          `json:"eligible"`
}

// Recommendation names the division a player should enter.
type Recommendation struct {
	Division tier.Division `json:"division"`
	Chance   int           `json:"chance"`
	Sum      int           `json:"sum"`
	Tiers    []TierChance  `json:"tiers"`
}

// ChanceByTier evaluates v in every division, weakest first. Eligible marks
// divisions whose starting budget the vector already reaches.
func (m *Model) ChanceByTier(v stats.Vector) ([]TierChance, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	sum := v.Sum()
	rows := m.table.Rows()
	out := make([]TierChance, 0, len(rows))
	for _, row := range rows {
		out = append(out, TierChance{
			Division: row.Division,
			Chance:   chanceFor(sum, row.Bounds),
			Eligible: sum >= row.StartingStatBudget,
		})
	}
	return out, nil
}

// Recommend picks the strongest eligible division, or the weakest one when
// the vector is eligible nowhere.
func (m *Model) Recommend(v stats.Vector) (Recommendation, error) {
	tiers, err := m.ChanceByTier(v)
	if err != nil {
		return Recommendation{}, err
	}
	pick := tiers[0]
	for _, tc := range tiers {
		if tc.Eligible {
			pick = tc
		}
	}
	return Recommendation{
		Division: pick.Division,
		Chance:   pick.Chance,
		Sum:      v.Sum(),
		Tiers:    tiers,
	}, nil
}
