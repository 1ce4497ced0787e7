package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/shootout/internal/adapters/ledger"
	"github.com/okian/shootout/internal/adapters/mq/queue"
	"github.com/okian/shootout/internal/domain/model"
	"github.com/okian/shootout/internal/domain/reward"
	"github.com/okian/shootout/internal/domain/tier"
	"github.com/okian/shootout/pkg/logger"
)

// QuoteReward prices a match result without crediting anyone.
func (s *Service) QuoteReward(_ context.Context, division string, r reward.MatchResult) (reward.Payout, error) {
	if err := s.running(); err != nil {
		return reward.Payout{}, err
	}
	d, err := tier.Parse(division)
	if err != nil {
		return reward.Payout{}, err
	}
	return s.calculator.Calculate(d, r)
}

// ReservedPlayerID is taken by the leaderboard route under /ledger and is
// never accepted as a player id.
const ReservedPlayerID = "top"

// SettleRequest reports a finished match for payout.
type SettleRequest struct {
	MatchID  string             `json:"match_id"`
	PlayerID string             `json:"player_id"`
	Division string             `json:"division"`
	Result   reward.MatchResult `json:"result"`
}

// SubmitSettlement validates a finished match and queues it for the workers,
// which price it and credit the ledger. It returns the match id, generated
// when the request has none.
func (s *Service) SubmitSettlement(ctx context.Context, req SettleRequest) (string, error) {
	if err := s.running(); err != nil {
		return "", err
	}
	playerID := strings.TrimSpace(req.PlayerID)
	if playerID == "" {
		return "", fmt.Errorf("%w: player_id is required", ErrInvalidRequest)
	}
	if playerID == ReservedPlayerID {
		return "", fmt.Errorf("%w: player_id %q is reserved", ErrInvalidRequest, playerID)
	}
	d, err := tier.Parse(req.Division)
	if err != nil {
		return "", err
	}
	if err := req.Result.Validate(); err != nil {
		return "", err
	}
	matchID := strings.TrimSpace(req.MatchID)
	if matchID == "" {
		matchID = uuid.NewString()
	}

	err = s.queue.Enqueue(ctx, model.Settlement{
		MatchID:     matchID,
		PlayerID:    playerID,
		Division:    d,
		Result:      req.Result,
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, queue.ErrQueueFull) {
			return "", fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		return "", err
	}
	s.logger.Debug(ctx, "settlement queued",
		logger.String("match_id", matchID),
		logger.String("player_id", playerID),
		logger.String("division", d.String()))
	return matchID, nil
}

// Balance returns the player's ledger balance.
func (s *Service) Balance(ctx context.Context, playerID string) (model.Balance, error) {
	if err := s.running(); err != nil {
		return model.Balance{}, err
	}
	return s.ledger.Balance(ctx, playerID)
}

// Rank returns the player's leaderboard position and balance.
func (s *Service) Rank(ctx context.Context, playerID string) (ledger.Entry, error) {
	if err := s.running(); err != nil {
		return ledger.Entry{}, err
	}
	return s.ledger.Rank(ctx, playerID)
}

// TopN returns the n richest players.
func (s *Service) TopN(ctx context.Context, n int) ([]ledger.Entry, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.ledger.TopN(ctx, n)
}
