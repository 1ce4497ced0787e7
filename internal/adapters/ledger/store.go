// Package ledger keeps per-player token and experience balances.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/shootout/internal/domain/model"
	"github.com/okian/shootout/internal/domain/reward"
)

// Entry is a ranked ledger row.
type Entry struct {
	Rank int `json:"rank"`
	model.Balance
}

// MarshalJSON flattens the rank into the balance object.
func (e Entry) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(e.Balance)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	fields["rank"] = json.RawMessage(fmt.Sprint(e.Rank))
	return json.Marshal(fields)
}

// Store provides read/write access to player balances.
type Store interface {
	// Credit adds payout to playerID. Each matchID is credited at most once;
	// repeats fail with ErrAlreadySettled.
	Credit(ctx context.Context, playerID, matchID string, won bool, payout reward.Payout) (model.Balance, error)

	// Balance returns the player's balance or ErrNotFound.
	Balance(ctx context.Context, playerID string) (model.Balance, error)

	// Rank returns the player's 1-based leaderboard position with their
	// balance, or ErrNotFound.
	Rank(ctx context.Context, playerID string) (Entry, error)

	// TopN returns the n richest players, tokens desc then player id asc.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of players with a balance.
	Count(ctx context.Context) int
}
