package report_test

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/roas/internal/domain/model"
	"github.com/okian/roas/internal/domain/report"
	"github.com/okian/roas/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(id, name, category, platform, product, basis string, orders int64, revenue float64, payout *float64) model.CombinedRecord {
	r := model.CombinedRecord{
		InfluencerID: id,
		Date:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Name:         name,
		Category:     category,
		Platform:     platform,
		Product:      product,
		Basis:        basis,
		Orders:       orders,
		Revenue:      decimal.NewFromFloat(revenue),
	}
	if payout != nil {
		r.TotalPayout = decimal.NewNullDecimal(decimal.NewFromFloat(*payout))
	}
	return r
}

func p(v float64) *float64 { return &v }

func TestSummary(t *testing.T) {
	Convey("Given one influencer with two order rows and a 500 payout", t, func() {
		recs := []model.CombinedRecord{
			rec("infA", "Asha", "Fitness", "Amazon", "ProtX", "per_post", 2, 2000, p(500)),
			rec("infA", "Asha", "Fitness", "Amazon", "ProtX", "per_post", 1, 1000, p(500)),
		}

		Convey("When computing the summary with the default ratio", func() {
			s := report.NewEngine().Summary(recs)

			Convey("Then the KPIs match the worked example", func() {
				So(s.TotalRevenue, ShouldEqual, 3000)
				So(s.TotalOrders, ShouldEqual, int64(3))
				So(s.TotalPayout, ShouldEqual, 500)
				So(s.BaselineRevenue, ShouldEqual, 450)
				So(s.IncrementalRevenue, ShouldEqual, 2550)
				So(s.ROAS, ShouldEqual, 6.0)
				So(s.IncrementalROAS, ShouldEqual, 5.1)
				So(s.Influencers, ShouldEqual, 1)
			})
		})
	})

	Convey("Given an influencer with five order rows", t, func() {
		var recs []model.CombinedRecord
		for i := 0; i < 5; i++ {
			recs = append(recs, rec("infB", "Ravi", "Nutrition", "Website", "Vits", "per_order", 1, 100, p(250)))
		}

		Convey("Then the payout counts once, not five times", func() {
			So(report.NewEngine().Summary(recs).TotalPayout, ShouldEqual, 250)
		})
	})

	Convey("Given rows whose first payout cell is null", t, func() {
		recs := []model.CombinedRecord{
			rec("infC", "Meera", "Beauty", "Amazon", "Glow", "per_post", 1, 100, nil),
			rec("infC", "Meera", "Beauty", "Amazon", "Glow", "per_post", 1, 100, p(40)),
			rec("infC", "Meera", "Beauty", "Amazon", "Glow", "per_post", 1, 100, p(90)),
		}

		Convey("Then the first non-null value is used", func() {
			So(report.NewEngine().Summary(recs).TotalPayout, ShouldEqual, 40)
		})
	})

	Convey("Given zero payout", t, func() {
		recs := []model.CombinedRecord{rec("infD", "Kabir", "Fitness", "Amazon", "ProtX", "per_post", 1, 100, p(0))}

		Convey("Then ROAS and incremental ROAS are zero, not errors", func() {
			s := report.NewEngine().Summary(recs)
			So(s.TotalPayout, ShouldEqual, 0)
			So(s.ROAS, ShouldEqual, 0)
			So(s.IncrementalROAS, ShouldEqual, 0)
		})
	})

	Convey("Given an arbitrary revenue", t, func() {
		recs := []model.CombinedRecord{rec("infE", "Zoya", "Fitness", "Amazon", "ProtX", "per_post", 1, 1234.56, p(100))}

		Convey("Then incremental revenue is revenue x (1 - ratio) exactly", func() {
			s := report.NewEngine().Summary(recs)
			want := decimal.NewFromFloat(1234.56).Mul(decimal.NewFromFloat(0.85)).InexactFloat64()
			So(s.IncrementalRevenue, ShouldEqual, want)
		})

		Convey("When the organic ratio is configured", func() {
			e := report.NewEngine(report.WithOrganicRatio(0.5))

			Convey("Then the baseline follows it", func() {
				s := e.Summary(recs)
				So(s.BaselineRevenue, ShouldEqual, 617.28)
				So(e.OrganicRatio(), ShouldEqual, 0.5)
			})
		})
	})

	Convey("Given an empty working subset", t, func() {
		e := report.NewEngine()
		s, tables := e.Compute(nil)

		Convey("Then every KPI is zero and every table is empty", func() {
			So(s, ShouldResemble, types.Summary{})
			So(len(tables), ShouldEqual, 5)
			for _, tb := range tables {
				So(tb.Rows, ShouldNotBeNil)
				So(tb.Rows, ShouldBeEmpty)
			}
		})
	})
}

func TestGroupedTables(t *testing.T) {
	recs := []model.CombinedRecord{
		rec("1", "Asha", "Fitness", "Amazon", "ProtX", "per_post", 2, 2000, p(500)),
		rec("1", "Asha", "Fitness", "Website", "Vits", "per_post", 1, 1000, p(500)),
		rec("2", "Ravi", "Nutrition", "Amazon", "ProtX", "per_order", 3, 900, p(300)),
		rec("3", "Meera", "Beauty", "Amazon", "Glow", "", 1, 50, nil),
		rec("4", "Kabir", "Fitness", "Website", "Vits", "per_post", 1, 200, p(0)),
	}
	e := report.NewEngine()

	Convey("Given records for several influencers", t, func() {
		Convey("When grouping by product", func() {
			tb := e.ByProduct(recs)

			Convey("Then revenue and orders are summed and sorted by revenue", func() {
				So(tb.Dimensions, ShouldResemble, []string{"product"})
				So(len(tb.Rows), ShouldEqual, 3)
				So(tb.Rows[0].Keys, ShouldResemble, []string{"ProtX"})
				So(tb.Rows[0].Revenue, ShouldEqual, 2900)
				So(tb.Rows[0].Orders, ShouldEqual, int64(5))
			})

			Convey("Then payout is de-duplicated per influencer inside each group", func() {
				So(tb.Rows[0].Payout.Float(), ShouldEqual, 800)
				So(tb.Rows[1].Keys, ShouldResemble, []string{"Vits"})
				So(tb.Rows[1].Payout.Float(), ShouldEqual, 500)
			})

			Convey("Then a group with no known payout has undefined payout and ROAS", func() {
				glow := tb.Rows[2]
				So(glow.Keys, ShouldResemble, []string{"Glow"})
				So(glow.Payout.Finite(), ShouldBeFalse)
				So(glow.ROAS.Finite(), ShouldBeFalse)
			})
		})

		Convey("When grouping by platform", func() {
			tb := e.ByPlatform(recs)

			Convey("Then each platform's payout counts each influencer once", func() {
				So(tb.Rows[0].Keys, ShouldResemble, []string{"Amazon"})
				So(tb.Rows[0].Payout.Float(), ShouldEqual, 800)
				So(tb.Rows[0].ROAS.Float(), ShouldAlmostEqual, 2950.0/800.0, 1e-12)
			})
		})

		Convey("When building payout vs revenue", func() {
			tb := e.PayoutVsRevenue(recs)

			Convey("Then rows with a null basis are dropped and keys are ordered", func() {
				So(tb.Dimensions, ShouldResemble, []string{"name", "basis"})
				So(len(tb.Rows), ShouldEqual, 3)
				So(tb.Rows[0].Keys, ShouldResemble, []string{"Asha", "per_post"})
				So(tb.Rows[0].Revenue, ShouldEqual, 3000)
				So(tb.Rows[0].Payout.Float(), ShouldEqual, 500)
				So(tb.Rows[0].ROAS.Float(), ShouldEqual, 6)
			})

			Convey("Then a zero payout yields an infinite ROAS instead of zero", func() {
				kabir := tb.Rows[1]
				So(kabir.Keys, ShouldResemble, []string{"Kabir", "per_post"})
				So(kabir.Payout.Float(), ShouldEqual, 0)
				So(math.IsInf(kabir.ROAS.Float(), 1), ShouldBeTrue)
			})
		})

		Convey("When building the detail table", func() {
			tb := e.Detail(recs)

			Convey("Then it is keyed by name, platform, category and basis, sorted by revenue", func() {
				So(tb.Dimensions, ShouldResemble, []string{"name", "platform", "category", "basis"})
				So(tb.Rows[0].Keys, ShouldResemble, []string{"Asha", "Amazon", "Fitness", "per_post"})
				So(tb.Rows[0].ROAS.Float(), ShouldEqual, 4)
				So(tb.Rows[1].Keys, ShouldResemble, []string{"Asha", "Website", "Fitness", "per_post"})
				So(tb.Rows[2].Keys, ShouldResemble, []string{"Ravi", "Amazon", "Nutrition", "per_order"})
			})
		})

		Convey("When ROAS has many decimals in the detail table", func() {
			odd := []model.CombinedRecord{rec("5", "Tara", "Fitness", "Amazon", "ProtX", "per_post", 1, 1000, p(300))}
			tb := e.Detail(odd)

			Convey("Then it is rounded to two places", func() {
				So(tb.Rows[0].ROAS.Float(), ShouldEqual, 3.33)
			})
		})

		Convey("When detail ROAS lands exactly halfway", func() {
			even := e.Detail([]model.CombinedRecord{rec("6", "Isha", "Fitness", "Amazon", "ProtX", "per_post", 1, 17, p(8))})
			odd := e.Detail([]model.CombinedRecord{rec("7", "Rohan", "Fitness", "Amazon", "ProtX", "per_post", 1, 19, p(8))})

			Convey("Then it rounds to the even neighbour", func() {
				So(even.Rows[0].ROAS.Float(), ShouldEqual, 2.12)
				So(odd.Rows[0].ROAS.Float(), ShouldEqual, 2.38)
			})
		})
	})

	Convey("Given more influencers than the top-N size", t, func() {
		var many []model.CombinedRecord
		names := []string{"A", "B", "C", "D", "E"}
		for i, n := range names {
			many = append(many, rec(n, n, "Fitness", "Amazon", "ProtX", "per_post", 1, float64(100*(i%3)), p(10)))
		}
		e := report.NewEngine(report.WithTopN(3))

		Convey("When selecting top influencers", func() {
			tb := e.TopInfluencers(many)

			Convey("Then only N rows remain, by revenue desc with key order on ties", func() {
				So(e.TopN(), ShouldEqual, 3)
				So(len(tb.Rows), ShouldEqual, 3)
				So(tb.Rows[0].Keys, ShouldResemble, []string{"C", "Fitness"})
				So(tb.Rows[1].Keys, ShouldResemble, []string{"B", "Fitness"})
				So(tb.Rows[2].Keys, ShouldResemble, []string{"E", "Fitness"})
			})
		})
	})

	Convey("Given the same input twice", t, func() {
		Convey("Then the results are identical", func() {
			s1, t1 := e.Compute(recs)
			s2, t2 := e.Compute(recs)
			So(s1, ShouldResemble, s2)
			So(len(t1), ShouldEqual, len(t2))
			for i := range t1 {
				So(t1[i].Name, ShouldEqual, t2[i].Name)
				So(len(t1[i].Rows), ShouldEqual, len(t2[i].Rows))
			}
		})
	})
}
