package reward

import (
	"github.com/shopspring/decimal"

	"github.com/okian/shootout/internal/domain/tier"
)

// Rates are the base payouts of one division.
type Rates struct {
	WinTokens     decimal.Decimal `json:"win_tokens"`
	PerfectTokens decimal.Decimal `json:"perfect_tokens"`
	WinXP         int             `json:"win_xp"`
	PerfectXP     int             `json:"perfect_xp"`
}

// Table maps divisions to their rates.
type Table map[tier.Division]Rates

// DefaultTable returns the built-in reward table.
func DefaultTable() Table {
	return Table{
		tier.Tercera: {WinTokens: decimal.NewFromInt(10), PerfectTokens: decimal.NewFromInt(20), WinXP: 30, PerfectXP: 60},
		tier.Segunda: {WinTokens: decimal.NewFromInt(15), PerfectTokens: decimal.NewFromInt(30), WinXP: 40, PerfectXP: 80},
		tier.Primera: {WinTokens: decimal.NewFromInt(25), PerfectTokens: decimal.NewFromInt(50), WinXP: 50, PerfectXP: 100},
	}
}
