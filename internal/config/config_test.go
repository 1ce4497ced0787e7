package config_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/okian/shootout/internal/config"
	"github.com/okian/shootout/internal/domain/tier"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.DrawScalar, convey.ShouldEqual, "legacy")
			convey.So(cfg.MaxOrderQuantity, convey.ShouldEqual, 50)
			convey.So(cfg.MaxTopLimit, convey.ShouldEqual, 100)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the tier table is the built-in one", func() {
			table, err := cfg.TierTable()
			convey.So(err, convey.ShouldBeNil)
			convey.So(table.Rows(), convey.ShouldResemble, tier.Default().Rows())
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		convey.Convey("When the draw scalar is unknown", func() {
			cfg.DrawScalar = "xorshift"

			convey.Convey("Then validation fails with ErrInvalidConfig", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "xorshift")
			})
		})

		convey.Convey("When a tier override names an unknown division", func() {
			cfg.Tiers = map[string]tier.Bounds{"cuarta": {StartingStatBudget: 1, MaxStatBudget: 2, StartingChancePercent: 1, MaxChancePercent: 2}}

			convey.Convey("Then validation fails", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(errors.Is(err, tier.ErrInvalidTier), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a tier override breaks its bounds", func() {
			cfg.Tiers = map[string]tier.Bounds{"primera": {StartingStatBudget: 100, MaxStatBudget: 90, StartingChancePercent: 50, MaxChancePercent: 90}}

			convey.Convey("Then validation reports invalid bounds", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, tier.ErrInvalidBounds), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When limits are not positive", func() {
			cfg.MaxTopLimit = 0

			convey.Convey("Then validation fails", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
