// Package reward computes token and experience payouts for finished matches.
package reward

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/okian/shootout/internal/domain/tier"
)

// Payout rules.
const (
	PerfectShotThreshold = 5
	ConsolationXP        = 10
	tokenPlaces          = 2
)

var (
	multiplayerFactor = decimal.RequireFromString("1.5")
	lossShare         = decimal.RequireFromString("0.2")
)

// Mode is the game mode a match was played in.
type Mode string

// Game modes.
const (
	ModeSingle      Mode = "single"
	ModeMultiplayer Mode = "multiplayer"
)

// ParseMode normalizes s; an empty string means single player.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeSingle:
		return ModeSingle, nil
	case ModeMultiplayer:
		return ModeMultiplayer, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// MatchResult summarizes a finished shootout.
type MatchResult struct {
	Won              bool `json:"won"`
	OwnGoals         int  `json:"own_goals"`
	OpponentGoals    int  `json:"opponent_goals"`
	PerfectShotCount int  `json:"perfect_shot_count"`
	Mode             Mode `json:"mode"`
}

// Validate rejects negative counts and unknown modes.
func (r MatchResult) Validate() error {
	if r.OwnGoals < 0 || r.OpponentGoals < 0 || r.PerfectShotCount < 0 {
		return fmt.Errorf("%w: negative goal or shot count", ErrInvalidMatchResult)
	}
	_, err := ParseMode(string(r.Mode))
	return err
}

// Payout is what a player earns from one match.
type Payout struct {
	Tokens     decimal.Decimal
	Experience int
	Perfect    bool
}

type payoutJSON struct {
	Tokens     string `json:"tokens"`
	Experience int    `json:"experience"`
	Perfect    bool   `json:"perfect,omitempty"`
}

// MarshalJSON renders tokens as a fixed two-place string.
func (p Payout) MarshalJSON() ([]byte, error) {
	return json.Marshal(payoutJSON{
		Tokens:     p.Tokens.StringFixed(tokenPlaces),
		Experience: p.Experience,
		Perfect:    p.Perfect,
	})
}

// UnmarshalJSON accepts the form written by MarshalJSON.
func (p *Payout) UnmarshalJSON(b []byte) error {
	var raw payoutJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	tokens, err := decimal.NewFromString(raw.Tokens)
	if err != nil {
		return fmt.Errorf("tokens: %w", err)
	}
	*p = Payout{Tokens: tokens, Experience: raw.Experience, Perfect: raw.Perfect}
	return nil
}

// Calculator computes payouts from a reward table.
type Calculator struct {
	table Table
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithTable replaces rows of the default table.
func WithTable(t Table) Option {
	return func(c *Calculator) {
		for d, r := range t {
			c.table[d] = r
		}
	}
}

// NewCalculator creates a calculator backed by DefaultTable.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{table: DefaultTable()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rates returns the payout rates of d.
func (c *Calculator) Rates(d tier.Division) (Rates, error) {
	r, ok := c.table[d]
	if !ok || !d.Valid() {
		return Rates{}, fmt.Errorf("%w: %q", tier.ErrInvalidTier, d)
	}
	return r, nil
}

// Calculate pays a win its base reward, adds the perfect bonus at
// PerfectShotThreshold perfect shots, and scales the whole win total by 1.5
// in multiplayer. A loss pays 20% of the base win tokens plus ConsolationXP.
func (c *Calculator) Calculate(d tier.Division, r MatchResult) (Payout, error) {
	rates, err := c.Rates(d)
	if err != nil {
		return Payout{}, err
	}
	if err := r.Validate(); err != nil {
		return Payout{}, err
	}
	mode, _ := ParseMode(string(r.Mode))

	if !r.Won {
		return Payout{
			Tokens:     rates.WinTokens.Mul(lossShare).Round(tokenPlaces),
			Experience: ConsolationXP,
		}, nil
	}

	tokens := rates.WinTokens
	xp := rates.WinXP
	perfect := r.PerfectShotCount >= PerfectShotThreshold
	if perfect {
		tokens = tokens.Add(rates.PerfectTokens)
		xp += rates.PerfectXP
	}
	if mode == ModeMultiplayer {
		tokens = tokens.Mul(multiplayerFactor)
		xp = int(decimal.NewFromInt(int64(xp)).Mul(multiplayerFactor).Floor().IntPart())
	}
	return Payout{Tokens: tokens.Round(tokenPlaces), Experience: xp, Perfect: perfect}, nil
}
