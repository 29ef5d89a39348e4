package sampledata

import (
	"context"
	"testing"
	"time"

	"github.com/okian/roas/internal/domain/filter"
	"github.com/okian/roas/internal/domain/model"
	"github.com/okian/roas/internal/domain/pipeline"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	Convey("Given a small sample configuration", t, func() {
		cfg := NewConfig(WithInfluencers(5), WithDays(30), WithEvents(4), WithSeed(7))

		Convey("When generating", func() {
			src, err := Generate(ctx, cfg)
			So(err, ShouldBeNil)

			Convey("Then every table has the expected size", func() {
				So(src.Influencers.Len(), ShouldEqual, 5)
				So(src.Tracking.Len(), ShouldEqual, 20)
				So(src.Payouts.Len(), ShouldEqual, 5)
				So(src.Posts.Len(), ShouldEqual, 20)
			})

			Convey("Then dates stay inside the window", func() {
				end := cfg.Start.AddDate(0, 0, cfg.Days)
				for i := range src.Tracking.Rows {
					v, _ := src.Tracking.Get(i, "date")
					d, err := time.Parse(time.DateOnly, v.(string))
					So(err, ShouldBeNil)
					So(d.Before(cfg.Start), ShouldBeFalse)
					So(d.Before(end), ShouldBeTrue)
				}
			})

			Convey("Then payouts follow the basis", func() {
				for _, r := range src.Payouts.Rows {
					switch r["basis"] {
					case model.BasisPerOrder:
						So(r["total_payout"], ShouldAlmostEqual, r["rate"].(float64)*float64(r["orders"].(int64)), 0.01)
					case model.BasisPerPost:
						So(r["total_payout"], ShouldAlmostEqual, r["rate"].(float64)*4, 0.01)
					default:
						So(r["basis"], ShouldBeIn, model.BasisPerOrder, model.BasisPerPost)
					}
				}
			})

			Convey("Then the tables run through the pipeline", func() {
				p := pipeline.New()
				prep, err := p.Prepare(src)
				So(err, ShouldBeNil)
				rep := p.Report(prep, filter.DefaultSelection(prep.Options))
				So(rep.FilteredRows, ShouldEqual, 20)
				So(rep.Summary.Influencers, ShouldEqual, 5)
				So(rep.Summary.TotalPayout, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When generating twice with the same seed", func() {
			a, _ := Generate(ctx, cfg)
			b, _ := Generate(ctx, cfg)

			Convey("Then the datasets are identical", func() {
				So(a.Digest(), ShouldEqual, b.Digest())
			})
		})

		Convey("When the seed changes", func() {
			a, _ := Generate(ctx, cfg)
			b, _ := Generate(ctx, NewConfig(WithInfluencers(5), WithDays(30), WithEvents(4), WithSeed(8)))

			Convey("Then the datasets differ", func() {
				So(a.Digest(), ShouldNotEqual, b.Digest())
			})
		})
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Then generation stops", func() {
			_, err := Generate(ctx, NewConfig())
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given an invalid configuration", t, func() {
		Convey("Then generation fails", func() {
			_, err := Generate(context.Background(), Config{})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestNewConfig(t *testing.T) {
	Convey("Given options", t, func() {
		Convey("Then non-positive values keep defaults", func() {
			c := NewConfig(WithInfluencers(0), WithDays(-1), WithStart(time.Time{}))
			So(c.Influencers, ShouldEqual, 40)
			So(c.Days, ShouldEqual, 90)
			So(c.Start, ShouldEqual, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		})
	})
}
