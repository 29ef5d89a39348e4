package join_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/roas/internal/domain/join"
	"github.com/okian/roas/internal/domain/schema"
	"github.com/okian/roas/internal/domain/table"
	. "github.com/smartystreets/goconvey/convey"
)

func influencers() *table.Table {
	t := table.New("influencers", "id", "name", "category", "platform", "follower_count")
	t.Append(table.Row{"id": int64(1), "name": "Asha", "category": "Fitness", "platform": "Instagram", "follower_count": int64(120000)})
	t.Append(table.Row{"id": int64(2), "name": "Ravi", "category": "Nutrition", "platform": "YouTube", "follower_count": int64(56000)})
	return t
}

func tracking() *table.Table {
	t := table.New("tracking", "influencer_id", "date", "platform", "product", "orders", "revenue")
	t.Append(table.Row{"influencer_id": int64(1), "date": "2024-01-01", "platform": "Amazon", "product": "ProtX", "orders": int64(2), "revenue": 2000.0})
	t.Append(table.Row{"influencer_id": int64(1), "date": "2024-01-02T18:30:00+05:30", "platform": "Amazon", "product": "ProtX", "orders": int64(1), "revenue": 1000.0})
	t.Append(table.Row{"influencer_id": int64(2), "date": "2024-01-03", "platform": "Website", "product": "Vits", "orders": int64(3), "revenue": 900.0})
	t.Append(table.Row{"influencer_id": int64(9), "date": "2024-01-04", "platform": "Website", "product": "Vits", "orders": int64(1), "revenue": 300.0})
	return t
}

func payouts() *table.Table {
	t := table.New("payouts", "influencer_id", "basis", "rate", "orders", "total_payout")
	t.Append(table.Row{"influencer_id": "1", "basis": "per_post", "rate": 500.0, "orders": int64(3), "total_payout": 500.0})
	t.Append(table.Row{"influencer_id": "2", "basis": "per_order", "rate": 50.0, "orders": int64(3), "total_payout": 150.0})
	return t
}

func TestJoin(t *testing.T) {
	Convey("Given influencers, tracking and one payout per influencer", t, func() {
		inf, tr, pay := influencers(), tracking(), payouts()

		Convey("When joining", func() {
			out, err := join.Join(inf, tr, pay)
			So(err, ShouldBeNil)

			Convey("Then every tracking row yields exactly one combined row", func() {
				So(out.Len(), ShouldEqual, tr.Len())
				So(out.Name, ShouldEqual, join.CombinedTableName)
			})

			Convey("Then required columns are present", func() {
				So(schema.Validate(out, schema.RequiredColumns()), ShouldBeNil)
			})

			Convey("Then tracking platform wins and the influencer one is renamed", func() {
				So(out.Rows[0]["platform"], ShouldEqual, "Amazon")
				So(out.Rows[0]["influencer_platform"], ShouldEqual, "Instagram")
				So(out.Has("id"), ShouldBeFalse)
			})

			Convey("Then only the slim payout columns are joined", func() {
				So(out.Has("rate"), ShouldBeFalse)
				So(out.Has("payout_orders"), ShouldBeFalse)
				So(out.Rows[0]["basis"], ShouldEqual, "per_post")
				So(out.Rows[0]["total_payout"], ShouldEqual, 500.0)
				So(out.Rows[0]["orders"], ShouldEqual, int64(2))
			})

			Convey("Then dates are calendar dates with the wall-clock day kept", func() {
				So(out.Rows[0]["date"], ShouldEqual, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
				So(out.Rows[1]["date"], ShouldEqual, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
			})

			Convey("Then unmatched tracking rows keep null attributes", func() {
				last := out.Rows[3]
				So(last["revenue"], ShouldEqual, 300.0)
				_, hasName := last["name"]
				_, hasPayout := last["total_payout"]
				So(hasName, ShouldBeFalse)
				So(hasPayout, ShouldBeFalse)
			})

			Convey("Then the inputs are not mutated", func() {
				So(tr.Rows[0]["date"], ShouldEqual, "2024-01-01")
				So(tr.Has("name"), ShouldBeFalse)
			})
		})
	})

	Convey("Given an influencer with two payout records", t, func() {
		pay := payouts()
		pay.Append(table.Row{"influencer_id": "1", "basis": "per_order", "total_payout": 80.0})

		Convey("When joining", func() {
			out, err := join.Join(influencers(), tracking(), pay)
			So(err, ShouldBeNil)

			Convey("Then that influencer's rows are multiplied, not suppressed", func() {
				So(out.Len(), ShouldEqual, tracking().Len()+2)
				So(out.Rows[0]["basis"], ShouldEqual, "per_post")
				So(out.Rows[1]["basis"], ShouldEqual, "per_order")
				So(out.Rows[0]["revenue"], ShouldEqual, out.Rows[1]["revenue"])
			})
		})
	})

	Convey("Given a tracking row with an unparseable date", t, func() {
		tr := tracking()
		tr.Rows[2]["date"] = "not-a-date"

		Convey("When joining", func() {
			out, err := join.Join(influencers(), tr, payouts())

			Convey("Then the join fails naming the row", func() {
				So(out, ShouldBeNil)
				So(errors.Is(err, join.ErrMalformedDate), ShouldBeTrue)
				var mde *join.MalformedDateError
				So(errors.As(err, &mde), ShouldBeTrue)
				So(mde.Row, ShouldEqual, 2)
				So(err.Error(), ShouldContainSubstring, "not-a-date")
			})
		})
	})

	Convey("Given a tracking row with a null date", t, func() {
		tr := tracking()
		delete(tr.Rows[0], "date")

		Convey("Then the join fails instead of dropping the row", func() {
			_, err := join.Join(influencers(), tr, payouts())
			So(errors.Is(err, join.ErrMalformedDate), ShouldBeTrue)
		})
	})

	Convey("Given payouts without a total_payout column", t, func() {
		pay := table.New("payouts", "influencer_id", "basis")

		Convey("Then the projection fails with a missing column", func() {
			_, err := join.Join(influencers(), tracking(), pay)
			var mce *schema.MissingColumnError
			So(errors.As(err, &mce), ShouldBeTrue)
			So(mce.Table, ShouldEqual, "payouts")
			So(mce.Column, ShouldEqual, "total_payout")
		})
	})

	Convey("Given tracking without a date column", t, func() {
		tr := table.New("tracking", "influencer_id", "platform", "product", "orders", "revenue")
		tr.Append(table.Row{"influencer_id": int64(1)})

		Convey("Then the join succeeds and validation catches the gap", func() {
			out, err := join.Join(influencers(), tr, payouts())
			So(err, ShouldBeNil)
			var mce *schema.MissingColumnError
			So(errors.As(schema.Validate(out, schema.RequiredColumns()), &mce), ShouldBeTrue)
			So(mce.Column, ShouldEqual, "date")
		})
	})
}

func TestNormalizeDate(t *testing.T) {
	Convey("Given several date representations", t, func() {
		layouts := join.DefaultDateLayouts()
		want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

		Convey("Then each normalizes to the same calendar date", func() {
			for _, v := range []any{"2024-03-05", "2024-03-05 10:11:12", "2024/03/05", "03/05/2024", time.Date(2024, 3, 5, 23, 0, 0, 0, time.FixedZone("IST", 19800))} {
				got, ok := join.NormalizeDate(v, layouts)
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, want)
			}
		})

		Convey("Then numbers, blanks and garbage are rejected", func() {
			for _, v := range []any{int64(20240305), "", "  ", "2024-13-45", nil, time.Time{}} {
				_, ok := join.NormalizeDate(v, layouts)
				So(ok, ShouldBeFalse)
			}
		})

		Convey("When the layouts are restricted", func() {
			_, ok := join.NormalizeDate("03/05/2024", []string{time.DateOnly})

			Convey("Then other formats no longer parse", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}
