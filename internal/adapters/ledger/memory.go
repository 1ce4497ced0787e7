package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/okian/shootout/internal/domain/model"
	"github.com/okian/shootout/internal/domain/reward"
	"github.com/okian/shootout/pkg/metrics"
)

// MemoryStore is a mutex-guarded in-memory Store. Balances live in a map and
// their ranking in a treap, so credits, rank lookups and TopN are all
// O(log n) expected.
type MemoryStore struct {
	mu       sync.RWMutex
	balances map[string]*model.Balance
	settled  map[string]struct{}
	index    rankIndex
}

// NewMemoryStore creates an empty ledger.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		balances: make(map[string]*model.Balance),
		settled:  make(map[string]struct{}),
	}
}

// Credit implements Store.
func (s *MemoryStore) Credit(_ context.Context, playerID, matchID string, won bool, payout reward.Payout) (model.Balance, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" || matchID == "" {
		return model.Balance{}, fmt.Errorf("%w: player and match ids are required", ErrInvalidCredit)
	}
	if payout.Tokens.IsNegative() || payout.Experience < 0 {
		return model.Balance{}, fmt.Errorf("%w: negative payout", ErrInvalidCredit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.settled[matchID]; dup {
		return model.Balance{}, fmt.Errorf("%w: %s", ErrAlreadySettled, matchID)
	}
	s.settled[matchID] = struct{}{}

	b, ok := s.balances[playerID]
	var old *decimal.Decimal
	if ok {
		prev := b.Tokens
		old = &prev
	} else {
		b = &model.Balance{PlayerID: playerID}
		s.balances[playerID] = b
		metrics.UpdateLedgerPlayers(len(s.balances))
	}
	b.Tokens = b.Tokens.Add(payout.Tokens)
	s.index.upsert(playerID, old, b.Tokens)
	b.Experience += payout.Experience
	b.Matches++
	if won {
		b.Wins++
	}
	return *b, nil
}

// Balance implements Store.
func (s *MemoryStore) Balance(_ context.Context, playerID string) (model.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.balances[playerID]
	if !ok {
		return model.Balance{}, fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}
	return *b, nil
}

// Rank implements Store.
func (s *MemoryStore) Rank(_ context.Context, playerID string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.balances[playerID]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, playerID)
	}
	return Entry{Rank: s.index.rank(playerID, b.Tokens), Balance: *b}, nil
}

// TopN implements Store.
func (s *MemoryStore) TopN(_ context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.index.top(n)
	out := make([]Entry, len(ids))
	for i, id := range ids {
		out[i] = Entry{Rank: i + 1, Balance: *s.balances[id]}
	}
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.size()
}
