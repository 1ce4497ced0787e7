package rng_test

import (
	"testing"

	"github.com/okian/shootout/internal/domain/rng"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSources(t *testing.T) {
	Convey("Given the default source", t, func() {
		src := rng.Default()

		Convey("Then Float64 stays within [0,1)", func() {
			for i := 0; i < 1000; i++ {
				v := src.Float64()
				So(v, ShouldBeGreaterThanOrEqualTo, 0)
				So(v, ShouldBeLessThan, 1)
			}
		})

		Convey("And IntN stays within [0,n)", func() {
			for i := 0; i < 1000; i++ {
				v := src.IntN(5)
				So(v, ShouldBeBetweenOrEqual, 0, 4)
			}
		})

		Convey("And IntN panics for a non-positive bound", func() {
			So(func() { src.IntN(0) }, ShouldPanic)
		})
	})

	Convey("Given two seeded sources with the same seed", t, func() {
		a := rng.NewSeeded(42)
		b := rng.NewSeeded(42)

		Convey("Then they produce the same stream", func() {
			for i := 0; i < 100; i++ {
				So(a.Float64(), ShouldEqual, b.Float64())
				So(a.IntN(100), ShouldEqual, b.IntN(100))
			}
		})
	})

	Convey("Given seeded sources with different seeds", t, func() {
		a := rng.NewSeeded(1)
		b := rng.NewSeeded(2)

		Convey("Then their streams diverge", func() {
			same := 0
			for i := 0; i < 50; i++ {
				if a.Float64() == b.Float64() {
					same++
				}
			}
			So(same, ShouldBeLessThan, 50)
		})
	})
}
