package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/shootout/internal/domain/outcome"
	"github.com/okian/shootout/internal/domain/probability"
	"github.com/okian/shootout/internal/domain/stats"
	"github.com/okian/shootout/internal/domain/tier"
	"github.com/okian/shootout/pkg/logger"
	"github.com/okian/shootout/pkg/metrics"
)

// PenaltyRequest describes one attempt. The shooter is either a catalog item
// (ItemID) or an explicit stat vector. Division defaults to the item's own.
type PenaltyRequest struct {
	Division string        `json:"division"`
	ItemID   string        `json:"item_id"`
	Stats    *stats.Vector `json:"stats"`
	// Draw replays an attempt when set; it must lie in [0,1).
	Draw *float64 `json:"draw"`
}

// PenaltyResult is the decision plus what it was decided for.
type PenaltyResult struct {
	Division tier.Division `json:"division"`
	ItemID   string        `json:"item_id,omitempty"`
	outcome.Decision
}

// Penalty resolves a single penalty attempt.
func (s *Service) Penalty(ctx context.Context, req PenaltyRequest) (PenaltyResult, error) {
	if err := s.running(); err != nil {
		return PenaltyResult{}, err
	}
	v, d, err := s.shooter(req)
	if err != nil {
		return PenaltyResult{}, err
	}
	dec, err := s.resolver.Decide(v, d, req.Draw)
	if err != nil {
		return PenaltyResult{}, err
	}
	metrics.RecordPenalty(d.String(), dec.Hit, dec.Chance)
	s.logger.Debug(ctx, "penalty resolved",
		logger.String("division", d.String()),
		logger.Int("chance", dec.Chance),
		logger.Int("roll", dec.Roll),
		logger.Bool("hit", dec.Hit))
	return PenaltyResult{Division: d, ItemID: req.ItemID, Decision: dec}, nil
}

func (s *Service) shooter(req PenaltyRequest) (stats.Vector, tier.Division, error) {
	var (
		v stats.Vector
		d tier.Division
	)
	switch {
	case strings.TrimSpace(req.ItemID) != "":
		it, err := s.catalog.Item(req.ItemID)
		if err != nil {
			return stats.Vector{}, "", err
		}
		v, d = it.Stats, it.Division
	case req.Stats != nil:
		v = req.Stats.WithOverall()
	default:
		return stats.Vector{}, "", fmt.Errorf("%w: item_id or stats is required", ErrInvalidRequest)
	}
	if req.Division != "" || d == "" {
		parsed, err := tier.Parse(req.Division)
		if err != nil {
			return stats.Vector{}, "", err
		}
		d = parsed
	}
	return v, d, nil
}

// Chance computes the success chance of v in the division.
func (s *Service) Chance(_ context.Context, v stats.Vector, division string) (int, error) {
	if err := s.running(); err != nil {
		return 0, err
	}
	d, err := tier.Parse(division)
	if err != nil {
		return 0, err
	}
	return s.model.ComputeChance(v, d)
}

// Recommend evaluates v in every division and names the one to enter.
func (s *Service) Recommend(_ context.Context, v stats.Vector) (probability.Recommendation, error) {
	if err := s.running(); err != nil {
		return probability.Recommendation{}, err
	}
	return s.model.Recommend(v)
}

// GenerateRequest asks for a freshly authored stat vector.
type GenerateRequest struct {
	Division string `json:"division"`
	Rarity   string `json:"rarity"`
	Role     string `json:"role"`
}

// GeneratedStats is an authored vector with the inputs that produced it.
type GeneratedStats struct {
	Division tier.Division `json:"division"`
	Rarity   stats.Rarity  `json:"rarity"`
	Role     stats.Role    `json:"role,omitempty"`
	Total    int           `json:"total"`
	Stats    stats.Vector  `json:"stats"`
	Chance   int           `json:"chance"`
}

// GenerateStats authors a stat vector the way the catalog does for items
// without explicit stats. Unknown rarities use the fallback multiplier and
// unknown roles split evenly.
func (s *Service) GenerateStats(_ context.Context, req GenerateRequest) (GeneratedStats, error) {
	if err := s.running(); err != nil {
		return GeneratedStats{}, err
	}
	d, err := tier.Parse(req.Division)
	if err != nil {
		return GeneratedStats{}, err
	}
	b, err := s.table.Bounds(d)
	if err != nil {
		return GeneratedStats{}, err
	}
	r, _ := stats.ParseRarity(req.Rarity)
	role := stats.ParseRole(req.Role)

	v, err := s.distributor.Generate(b, r, role)
	if err != nil {
		return GeneratedStats{}, err
	}
	chance, err := s.model.ComputeChance(v, d)
	if err != nil {
		return GeneratedStats{}, err
	}
	return GeneratedStats{
		Division: d,
		Rarity:   r,
		Role:     role,
		Total:    v.Sum(),
		Stats:    v,
		Chance:   chance,
	}, nil
}
