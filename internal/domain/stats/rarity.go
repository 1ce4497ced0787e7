package stats

import "strings"

// Rarity is the ordered scarcity grade of an item.
type Rarity string

// Rarities, most common first.
const (
	Common    Rarity = "common"
	Uncommon  Rarity = "uncommon"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
)

// Fallback values for rarities outside the enumeration.
const (
	defaultRarityWeight        = 10
	defaultRarityMultiplierPct = 50
)

// Multipliers are kept in hundredths so budget totals floor exactly.
type rarityRow struct {
	rank          int
	weight        float64
	multiplierPct int
}

var rarities = map[Rarity]rarityRow{
	Common:    {rank: 0, weight: 50, multiplierPct: 20},
	Uncommon:  {rank: 1, weight: 25, multiplierPct: 40},
	Rare:      {rank: 2, weight: 15, multiplierPct: 60},
	Epic:      {rank: 3, weight: 7, multiplierPct: 75},
	Legendary: {rank: 4, weight: 3, multiplierPct: 90},
}

// ParseRarity normalizes s. Unknown values are returned as-is and report false.
func ParseRarity(s string) (Rarity, bool) {
	r := Rarity(strings.ToLower(strings.TrimSpace(s)))
	_, ok := rarities[r]
	return r, ok
}

// Rank orders rarities (common = 0); unknown rarities rank -1.
func (r Rarity) Rank() int {
	row, ok := rarities[r]
	if !ok {
		return -1
	}
	return row.rank
}

// Weight is the default draw weight of an item of this rarity.
func (r Rarity) Weight() float64 {
	if row, ok := rarities[r]; ok {
		return row.weight
	}
	return defaultRarityWeight
}

// Multiplier is the share of the division's stat headroom granted to items
// of this rarity, in [0,1].
func (r Rarity) Multiplier() float64 {
	return float64(r.multiplierPct()) / 100
}

func (r Rarity) multiplierPct() int {
	if row, ok := rarities[r]; ok {
		return row.multiplierPct
	}
	return defaultRarityMultiplierPct
}
