package schema_test

import (
	"errors"
	"testing"

	"github.com/okian/roas/internal/domain/schema"
	"github.com/okian/roas/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func TestValidate(t *testing.T) {
	Convey("Given a combined table with every required column", t, func() {
		tb := table.New("combined", "date", "platform", "product", "orders", "revenue", "name", "total_payout")

		Convey("Then validation passes even with no rows", func() {
			So(schema.Validate(tb, schema.RequiredColumns()), ShouldBeNil)
		})
	})

	Convey("Given a combined table without total_payout and name", t, func() {
		tb := table.New("combined", "date", "platform", "product", "orders", "revenue")

		Convey("When validating", func() {
			err := schema.Validate(tb, schema.RequiredColumns())

			Convey("Then it fails on the first missing column in check order", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, schema.ErrMissingColumn), ShouldBeTrue)
				var mce *schema.MissingColumnError
				So(errors.As(err, &mce), ShouldBeTrue)
				So(mce.Column, ShouldEqual, "total_payout")
				So(mce.Table, ShouldEqual, "combined")
				So(err.Error(), ShouldContainSubstring, `"total_payout"`)
			})
		})
	})

	Convey("Given a table whose required column is entirely null", t, func() {
		tb := table.New("combined", schema.RequiredColumns()...)
		tb.Append(table.Row{"orders": int64(1)})

		Convey("Then only presence is checked", func() {
			So(schema.Validate(tb, schema.RequiredColumns()), ShouldBeNil)
		})
	})
}

func TestValidatePayoutUniqueness(t *testing.T) {
	Convey("Given payouts with one row per influencer", t, func() {
		p := table.New("payouts", schema.PayoutColumns()...)
		p.Append(table.Row{"influencer_id": "A", "total_payout": 500.0})
		p.Append(table.Row{"influencer_id": "B", "total_payout": 200.0})
		p.Append(table.Row{"influencer_id": nil})
		p.Append(table.Row{"influencer_id": nil})

		Convey("Then they are unique", func() {
			So(schema.ValidatePayoutUniqueness(p), ShouldBeNil)
		})

		Convey("When an influencer appears twice", func() {
			p.Append(table.Row{"influencer_id": int64(0)})
			p.Append(table.Row{"influencer_id": "B", "total_payout": 100.0})
			err := schema.ValidatePayoutUniqueness(p)

			Convey("Then the duplicate influencer is reported", func() {
				So(errors.Is(err, schema.ErrDuplicatePayout), ShouldBeTrue)
				var dpe *schema.DuplicatePayoutError
				So(errors.As(err, &dpe), ShouldBeTrue)
				So(dpe.InfluencerID, ShouldEqual, "B")
				So(dpe.Count, ShouldEqual, 2)
			})
		})
	})

	Convey("Given payouts without an influencer_id column", t, func() {
		p := table.New("payouts", "basis")

		Convey("Then a missing column error is returned", func() {
			So(errors.Is(schema.ValidatePayoutUniqueness(p), schema.ErrMissingColumn), ShouldBeTrue)
		})
	})
}
