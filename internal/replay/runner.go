package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/okian/shootout/internal/catalog"
	"github.com/okian/shootout/internal/config"
	"github.com/okian/shootout/internal/domain/draw"
	"github.com/okian/shootout/internal/domain/tier"
	"github.com/okian/shootout/pkg/logger"
)

// Run replays the draw described by cfg, writes the report as indented JSON
// to w and returns it. A recorded item list that differs from the replay is
// reported and returned as ErrMismatch.
func Run(ctx context.Context, cfg *Config, w io.Writer) (Report, error) {
	log := logger.Get().Named("replay")

	if cfg.Count < 1 {
		return Report{}, fmt.Errorf("%w: count must be positive, got %d", ErrInvalidConfig, cfg.Count)
	}
	table, catalogPath, scalarName, err := resolve(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	scalar, ok := draw.ScalarByName(scalarName)
	if !ok {
		return Report{}, fmt.Errorf("%w: unknown scalar %q", ErrInvalidConfig, cfg.Scalar)
	}
	d, err := tier.Parse(cfg.Division)
	if err != nil {
		return Report{}, err
	}

	cat, err := catalog.LoadFile(catalogPath, table)
	if err != nil {
		return Report{}, err
	}
	pool, err := cat.PoolFor(d)
	if err != nil {
		return Report{}, err
	}
	excluded := make(map[string]struct{}, len(cfg.Exclude))
	for _, id := range cfg.Exclude {
		excluded[id] = struct{}{}
	}

	log.Info(ctx, "replaying draw",
		logger.String("division", d.String()),
		logger.String("seed", cfg.Seed),
		logger.Int("count", cfg.Count),
		logger.Int("excluded", len(excluded)),
		logger.String("scalar", scalarName))

	res, err := draw.NewEngine(draw.WithScalar(scalar)).Draw(pool, excluded, cfg.Count, cfg.Seed)
	if err != nil {
		return Report{}, err
	}
	odds, err := draw.Probabilities(pool, excluded)
	if err != nil {
		return Report{}, err
	}
	if cfg.Verbose {
		for _, p := range res.Picks {
			log.Info(ctx, "sub-draw",
				logger.Int("index", p.Index),
				logger.Float64("scalar", p.Scalar),
				logger.String("item_id", p.ItemID),
				logger.Bool("fallback", p.Fallback))
		}
	}

	rep := Report{
		Config:   cfg.ServerConfig,
		Division: d.String(),
		Seed:     cfg.Seed,
		Scalar:   scalarName,
		Count:    cfg.Count,
		Excluded: cfg.Exclude,
		Result:   res,
		Odds:     odds,
	}
	var verifyErr error
	if len(cfg.Expect) > 0 {
		ok := slices.Equal(cfg.Expect, res.Items)
		rep.Verified = &ok
		if !ok {
			verifyErr = fmt.Errorf("%w: recorded %v, replayed %v", ErrMismatch, cfg.Expect, res.Items)
			log.Warn(ctx, "draw mismatch", logger.Error(verifyErr))
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return rep, fmt.Errorf("write report: %w", err)
	}
	return rep, verifyErr
}

// resolve fills the division table, catalog path and scalar name from cfg,
// falling back to the server config file and then to the built-in defaults.
func resolve(ctx context.Context, cfg *Config) (*tier.Table, string, string, error) {
	table, catalogPath, scalarName := cfg.Tiers, cfg.CatalogPath, cfg.Scalar
	if cfg.ServerConfig != "" {
		sc, err := config.LoadPath(ctx, cfg.ServerConfig)
		if err != nil {
			return nil, "", "", err
		}
		if table == nil {
			if table, err = sc.TierTable(); err != nil {
				return nil, "", "", err
			}
		}
		if catalogPath == "" {
			catalogPath = sc.CatalogPath
		}
		if scalarName == "" {
			scalarName = sc.DrawScalar
		}
	}
	if table == nil {
		table = tier.Default()
	}
	if scalarName == "" {
		scalarName = "legacy"
	}
	return table, catalogPath, scalarName, nil
}
