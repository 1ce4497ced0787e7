package model_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/shootout/internal/domain/model"
)

func TestBalance(t *testing.T) {
	convey.Convey("Given a balance", t, func() {
		convey.Convey("When tokens carry fewer than two decimals", func() {
			b := model.Balance{PlayerID: "p1", Tokens: decimal.RequireFromString("12.5")}

			convey.Convey("Then TokensString pads to two places", func() {
				convey.So(b.TokensString(), convey.ShouldEqual, "12.50")
			})
		})

		convey.Convey("When marshalled to JSON", func() {
			b := model.Balance{PlayerID: "p1", Tokens: decimal.RequireFromString("3"), Experience: 40, Matches: 2, Wins: 1}
			out, err := json.Marshal(b)

			convey.Convey("Then tokens are a string field", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(out), convey.ShouldEqual, `{"player_id":"p1","experience":40,"matches":2,"wins":1,"tokens":"3.00"}`)
			})
		})

		convey.Convey("When the balance is zero", func() {
			b := model.Balance{}

			convey.Convey("Then TokensString is 0.00", func() {
				convey.So(b.TokensString(), convey.ShouldEqual, "0.00")
			})
		})
	})
}
