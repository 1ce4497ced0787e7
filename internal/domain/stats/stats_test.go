package stats_test

import (
	"errors"
	"testing"

	"github.com/okian/shootout/internal/domain/rng"
	"github.com/okian/shootout/internal/domain/stats"
	"github.com/okian/shootout/internal/domain/tier"
	. "github.com/smartystreets/goconvey/convey"
)

var allRoles = []stats.Role{stats.RoleGoalkeeper, stats.RoleDefender, stats.RoleMidfielder, stats.RoleForward}

func TestVector(t *testing.T) {
	Convey("Given a stat vector", t, func() {
		v := stats.New(10, 20, 30, 40, 51)

		Convey("Then Sum excludes Overall", func() {
			So(v.Sum(), ShouldEqual, 151)
			So(v.Overall, ShouldEqual, 30)
		})

		Convey("Then Largest reports the biggest component", func() {
			So(v.Largest(), ShouldEqual, stats.Goalkeeping)
		})

		Convey("Then a negative component fails validation", func() {
			bad := stats.New(-1, 0, 0, 0, 0)
			So(errors.Is(bad.Validate(), stats.ErrInvalidStatVector), ShouldBeTrue)
			So(v.Validate(), ShouldBeNil)
		})

		Convey("Then ties in Largest go to the earlier stat", func() {
			So(stats.New(5, 5, 5, 5, 5).Largest(), ShouldEqual, stats.Speed)
		})
	})
}

func TestDistributeEven(t *testing.T) {
	Convey("Given a seeded distributor", t, func() {
		d := stats.NewDistributor(rng.NewSeeded(7))

		Convey("When distributing totals from 0 to 300", func() {
			Convey("Then every vector sums exactly and stays near the mean", func() {
				for total := 0; total <= 300; total++ {
					v, err := d.DistributeEven(total)
					So(err, ShouldBeNil)
					So(v.Sum(), ShouldEqual, total)
					for s := stats.Speed; s <= stats.Goalkeeping; s++ {
						So(v.Get(s), ShouldBeGreaterThanOrEqualTo, total/5)
						So(v.Get(s), ShouldBeLessThanOrEqualTo, total/5+total%5)
					}
				}
			})
		})

		Convey("When the total is negative", func() {
			_, err := d.DistributeEven(-1)

			Convey("Then it fails with ErrInvalidStatVector", func() {
				So(errors.Is(err, stats.ErrInvalidStatVector), ShouldBeTrue)
			})
		})
	})
}

func TestDistributeByRole(t *testing.T) {
	Convey("Given a distributor", t, func() {
		d := stats.NewDistributor(rng.NewSeeded(1))

		Convey("When distributing for every known role", func() {
			Convey("Then sums are exact, components non-negative, and the primary stat leads", func() {
				for _, role := range allRoles {
					primary, ok := role.Primary()
					So(ok, ShouldBeTrue)
					for total := 0; total <= 300; total += 7 {
						v, err := d.DistributeByRole(total, role)
						So(err, ShouldBeNil)
						So(v.Sum(), ShouldEqual, total)
						So(v.Validate(), ShouldBeNil)
						for s := stats.Speed; s <= stats.Goalkeeping; s++ {
							So(v.Get(primary), ShouldBeGreaterThanOrEqualTo, v.Get(s))
						}
					}
				}
			})
		})

		Convey("When distributing 100 points to a forward", func() {
			v, err := d.DistributeByRole(100, stats.RoleForward)

			Convey("Then it matches the forward profile exactly", func() {
				So(err, ShouldBeNil)
				So(v, ShouldResemble, stats.New(25, 40, 20, 10, 5))
			})
		})

		Convey("When distributing 101 points to a goalkeeper", func() {
			v, err := d.DistributeByRole(101, stats.RoleGoalkeeper)

			Convey("Then the remainder lands on goalkeeping", func() {
				So(err, ShouldBeNil)
				So(v.Speed, ShouldEqual, 10)
				So(v.Shooting, ShouldEqual, 5)
				So(v.Passing, ShouldEqual, 15)
				So(v.Defending, ShouldEqual, 20)
				So(v.Goalkeeping, ShouldEqual, 51)
			})
		})

		Convey("When the role is unknown", func() {
			a, errA := d.DistributeByRole(96, stats.RoleNone)
			b, errB := stats.NewDistributor(rng.NewSeeded(1)).Distribute(96, stats.ParseRole("libero"))

			Convey("Then it falls back to the even split", func() {
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a.Sum(), ShouldEqual, 96)
				So(b.Sum(), ShouldEqual, 96)
				for s := stats.Speed; s <= stats.Goalkeeping; s++ {
					So(a.Get(s), ShouldBeGreaterThanOrEqualTo, 19)
				}
			})
		})
	})
}

func TestParseRole(t *testing.T) {
	Convey("ParseRole accepts names and abbreviations", t, func() {
		So(stats.ParseRole("GK"), ShouldEqual, stats.RoleGoalkeeper)
		So(stats.ParseRole(" defender "), ShouldEqual, stats.RoleDefender)
		So(stats.ParseRole("mid"), ShouldEqual, stats.RoleMidfielder)
		So(stats.ParseRole("striker"), ShouldEqual, stats.RoleForward)
		So(stats.ParseRole("sweeper"), ShouldEqual, stats.RoleNone)
		So(stats.RoleNone.Known(), ShouldBeFalse)
	})
}

func TestRarity(t *testing.T) {
	Convey("Given the rarity table", t, func() {
		Convey("Then weights fall as rarity rises", func() {
			order := []stats.Rarity{stats.Common, stats.Uncommon, stats.Rare, stats.Epic, stats.Legendary}
			for i := 1; i < len(order); i++ {
				So(order[i].Weight(), ShouldBeLessThan, order[i-1].Weight())
				So(order[i].Multiplier(), ShouldBeGreaterThan, order[i-1].Multiplier())
				So(order[i].Rank(), ShouldEqual, i)
			}
		})

		Convey("Then unknown rarities use the fallback row", func() {
			r, ok := stats.ParseRarity("mythic")
			So(ok, ShouldBeFalse)
			So(r.Weight(), ShouldEqual, 10)
			So(r.Multiplier(), ShouldEqual, 0.5)
			So(r.Rank(), ShouldEqual, -1)
		})

		Convey("Then ParseRarity normalizes case", func() {
			r, ok := stats.ParseRarity(" Epic ")
			So(ok, ShouldBeTrue)
			So(r, ShouldEqual, stats.Epic)
		})
	})
}

func TestTotalForRarity(t *testing.T) {
	Convey("Given the default tercera bounds", t, func() {
		b, err := tier.Default().Bounds(tier.Tercera)
		So(err, ShouldBeNil)

		Convey("Then totals scale with rarity inside the budget", func() {
			So(stats.TotalForRarity(b, stats.Common), ShouldEqual, 72)
			So(stats.TotalForRarity(b, stats.Uncommon), ShouldEqual, 87)
			So(stats.TotalForRarity(b, stats.Rare), ShouldEqual, 102)
			So(stats.TotalForRarity(b, stats.Epic), ShouldEqual, 114)
			So(stats.TotalForRarity(b, stats.Legendary), ShouldEqual, 125)
			So(stats.TotalForRarity(b, stats.Rarity("mythic")), ShouldEqual, 95)
		})

		Convey("When generating a legendary forward", func() {
			v, err := stats.NewDistributor(rng.NewSeeded(3)).Generate(b, stats.Legendary, stats.RoleForward)

			Convey("Then the vector spends exactly the rarity total", func() {
				So(err, ShouldBeNil)
				So(v.Sum(), ShouldEqual, 125)
				So(v.Sum(), ShouldBeLessThanOrEqualTo, b.MaxStatBudget)
				So(v.Largest(), ShouldEqual, stats.Shooting)
			})
		})
	})
}
