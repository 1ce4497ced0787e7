// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/shootout/internal/domain/reward"
	"github.com/okian/shootout/internal/domain/tier"
)

// Settlement is a finished match waiting to be paid out.
type Settlement struct {
	MatchID     string             // unique id; a match is paid at most once
	PlayerID    string             // player credited with the payout
	Division    tier.Division      // division the match was played in
	Result      reward.MatchResult // what happened on the pitch
	SubmittedAt time.Time
}

// Balance is a player's accumulated earnings.
type Balance struct {
	PlayerID   string          `json:"player_id"`
	Tokens     decimal.Decimal `json:"-"`
	Experience int             `json:"experience"`
	Matches    int             `json:"matches"`
	Wins       int             `json:"wins"`
}

// MarshalJSON renders tokens as a fixed two-place string.
func (b Balance) MarshalJSON() ([]byte, error) {
	type alias Balance
	return json.Marshal(struct {
		alias
		Tokens string `json:"tokens"`
	}{alias: alias(b), Tokens: b.TokensString()})
}

// TokensString renders the token balance with two decimals.
func (b Balance) TokensString() string {
	return b.Tokens.StringFixed(2)
}
