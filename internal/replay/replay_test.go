package replay_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	service "github.com/okian/shootout/internal/app"
	"github.com/okian/shootout/internal/catalog"
	"github.com/okian/shootout/internal/domain/draw"
	"github.com/okian/shootout/internal/domain/tier"
	"github.com/okian/shootout/internal/replay"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRun(t *testing.T) {
	Convey("Given a replay of a recorded tercera order", t, func() {
		So(replay.SetupLogging(io.Discard, true), ShouldBeNil)
		ctx := context.Background()
		cfg := &replay.Config{Division: "tercera", Seed: "order-123", Count: 4}

		Convey("When it is run", func() {
			var out bytes.Buffer
			rep, err := replay.Run(ctx, cfg, &out)

			Convey("Then it matches a direct engine draw over the embedded catalog", func() {
				So(err, ShouldBeNil)
				cat, err := catalog.Default(tier.Default())
				So(err, ShouldBeNil)
				pool, err := cat.PoolFor(tier.Tercera)
				So(err, ShouldBeNil)
				want, err := draw.NewEngine().Draw(pool, nil, 4, "order-123")
				So(err, ShouldBeNil)
				So(rep.Result, ShouldResemble, want)
				So(rep.Scalar, ShouldEqual, "legacy")
				So(rep.Verified, ShouldBeNil)
			})

			Convey("Then the report is printed as JSON", func() {
				var printed replay.Report
				So(json.Unmarshal(out.Bytes(), &printed), ShouldBeNil)
				So(printed.Result.Items, ShouldResemble, rep.Result.Items)
				So(printed.Odds, ShouldContainKey, "ter-xx-006")
			})
		})

		Convey("When the recorded items are supplied", func() {
			first, err := replay.Run(ctx, cfg, io.Discard)
			So(err, ShouldBeNil)

			cfg.Expect = first.Result.Items
			ok, errOK := replay.Run(ctx, cfg, io.Discard)

			cfg.Expect = []string{"ter-fw-007", "ter-fw-007", "ter-fw-007", "ter-fw-007"}
			bad, errBad := replay.Run(ctx, cfg, io.Discard)

			Convey("Then a match verifies and a mismatch fails", func() {
				So(errOK, ShouldBeNil)
				So(*ok.Verified, ShouldBeTrue)
				So(errors.Is(errBad, replay.ErrMismatch), ShouldBeTrue)
				So(*bad.Verified, ShouldBeFalse)
			})
		})

		Convey("When every active item is excluded", func() {
			cfg.Exclude = replay.SplitList("ter-gk-001, ter-df-002,ter-mf-003,ter-fw-004,ter-fw-005,ter-xx-006,")
			rep, err := replay.Run(ctx, cfg, io.Discard)

			Convey("Then the fallback still yields the full count", func() {
				So(err, ShouldBeNil)
				So(cfg.Exclude, ShouldHaveLength, 6)
				So(rep.Result.Fallback, ShouldBeTrue)
				So(rep.Result.Items, ShouldHaveLength, 4)
			})
		})

		Convey("When the splitmix scalar is chosen", func() {
			cfg.Scalar = "splitmix"
			rep, err := replay.Run(ctx, cfg, io.Discard)

			Convey("Then the report names it", func() {
				So(err, ShouldBeNil)
				So(rep.Scalar, ShouldEqual, "splitmix")
				So(rep.Result.Items, ShouldHaveLength, 4)
			})
		})

		Convey("When inputs are invalid", func() {
			_, errCount := replay.Run(ctx, &replay.Config{Division: "tercera", Count: 0}, io.Discard)
			_, errScalar := replay.Run(ctx, &replay.Config{Division: "tercera", Count: 1, Scalar: "xor"}, io.Discard)
			_, errDiv := replay.Run(ctx, &replay.Config{Division: "cuarta", Count: 1}, io.Discard)
			_, errCat := replay.Run(ctx, &replay.Config{Division: "tercera", Count: 1, CatalogPath: "/missing.yaml"}, io.Discard)

			Convey("Then each is rejected", func() {
				So(errors.Is(errCount, replay.ErrInvalidConfig), ShouldBeTrue)
				So(errors.Is(errScalar, replay.ErrInvalidConfig), ShouldBeTrue)
				So(errors.Is(errDiv, tier.ErrInvalidTier), ShouldBeTrue)
				So(errCat, ShouldNotBeNil)
			})
		})
	})
}

func TestShowHelp(t *testing.T) {
	Convey("ShowHelp documents every flag", t, func() {
		var buf bytes.Buffer
		replay.ShowHelp(&buf)
		for _, flag := range []string{"-config", "-catalog", "-division", "-seed", "-count", "-exclude", "-scalar", "-expect", "-verbose"} {
			So(buf.String(), ShouldContainSubstring, flag)
		}
	})
}

const overriddenCatalog = `items:
  - id: t1
    name: Veterano
    division: tercera
    rarity: legendary
    stats: {speed: 30, shooting: 30, passing: 30, defending: 30, goalkeeping: 30}
  - id: t2
    name: Juvenil
    division: tercera
    rarity: common
    role: forward
  - id: t3
    name: Suplente
    division: tercera
    rarity: rare
    role: defender
`

func TestRunWithServerConfig(t *testing.T) {
	Convey("Given a server running with a widened tercera budget", t, func() {
		So(replay.SetupLogging(io.Discard, false), ShouldBeNil)
		ctx := context.Background()
		dir := t.TempDir()

		catalogPath := filepath.Join(dir, "catalog.yaml")
		So(os.WriteFile(catalogPath, []byte(overriddenCatalog), 0o600), ShouldBeNil)
		configPath := filepath.Join(dir, "config.yaml")
		So(os.WriteFile(configPath, []byte(`catalog_path: `+catalogPath+`
draw_scalar: splitmix
tiers:
  tercera:
    starting_stat_budget: 57
    max_stat_budget: 160
    starting_chance_percent: 30
    max_chance_percent: 70
`), 0o600), ShouldBeNil)

		table, err := tier.NewTable(map[tier.Division]tier.Bounds{
			tier.Tercera: {StartingStatBudget: 57, MaxStatBudget: 160, StartingChancePercent: 30, MaxChancePercent: 70},
		})
		So(err, ShouldBeNil)
		svc := service.New(
			service.WithTierTable(table),
			service.WithCatalogPath(catalogPath),
			service.WithDrawScalar("splitmix"),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		order, err := svc.FulfilOrder(ctx, service.OrderRequest{OrderID: "o-77", Division: "tercera", Quantity: 4,
			Owned: []string{"t2"}})
		So(err, ShouldBeNil)
		recorded := make([]string, 0, len(order.Items))
		for _, it := range order.Items {
			recorded = append(recorded, it.ID)
		}

		Convey("When the order is replayed with the server config", func() {
			rep, err := replay.Run(ctx, &replay.Config{
				ServerConfig: configPath,
				Division:     "tercera",
				Seed:         order.Seed,
				Count:        4,
				Exclude:      []string{"t2"},
				Expect:       recorded,
			}, io.Discard)

			Convey("Then it loads the same catalog and verifies the draw", func() {
				So(err, ShouldBeNil)
				So(*rep.Verified, ShouldBeTrue)
				So(rep.Scalar, ShouldEqual, "splitmix")
				So(rep.Config, ShouldEqual, configPath)
				So(rep.Odds, ShouldNotContainKey, "t2")
			})
		})

		Convey("When the table is passed directly", func() {
			rep, err := replay.Run(ctx, &replay.Config{
				Tiers:       table,
				CatalogPath: catalogPath,
				Scalar:      "splitmix",
				Division:    "tercera",
				Seed:        order.Seed,
				Count:       4,
				Exclude:     []string{"t2"},
				Expect:      recorded,
			}, io.Discard)

			Convey("Then the draw verifies too", func() {
				So(err, ShouldBeNil)
				So(*rep.Verified, ShouldBeTrue)
			})
		})

		Convey("When the built-in table is used instead", func() {
			_, err := replay.Run(ctx, &replay.Config{CatalogPath: catalogPath, Division: "tercera", Seed: order.Seed, Count: 4},
				io.Discard)

			Convey("Then the catalog is rejected", func() {
				So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
			})
		})

		Convey("When the server config file is missing", func() {
			_, err := replay.Run(ctx, &replay.Config{ServerConfig: filepath.Join(dir, "nope.yaml"), Division: "tercera", Count: 1},
				io.Discard)

			Convey("Then the load error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
