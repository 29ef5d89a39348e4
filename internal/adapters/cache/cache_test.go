package cache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/roas/internal/adapters/cache"
	"github.com/okian/roas/internal/domain/filter"
	"github.com/okian/roas/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func report(id string) types.Report {
	return types.Report{RunID: id, CombinedRows: 1}
}

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new cache", t, func() {
		Convey("When created with default options", func() {
			c := cache.NewInMemoryCache()

			Convey("Then it is empty", func() {
				So(c, ShouldNotBeNil)
				So(c.Size(), ShouldEqual, 0)
				_, ok := c.Get(ctx, 1)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a report is stored", func() {
			c := cache.NewInMemoryCache()
			c.Put(ctx, 7, report("a"))

			Convey("Then it is returned for the same key", func() {
				got, ok := c.Get(ctx, 7)
				So(ok, ShouldBeTrue)
				So(got.RunID, ShouldEqual, "a")
				So(c.Size(), ShouldEqual, 1)
			})

			Convey("Then storing the key again replaces the report", func() {
				c.Put(ctx, 7, report("b"))
				got, _ := c.Get(ctx, 7)
				So(got.RunID, ShouldEqual, "b")
				So(c.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the bounded cache overflows", func() {
			c := cache.NewInMemoryCache(cache.WithMaxSize(2))
			c.Put(ctx, 1, report("1"))
			c.Put(ctx, 2, report("2"))
			c.Put(ctx, 3, report("3"))

			Convey("Then the oldest entry is evicted", func() {
				So(c.Size(), ShouldEqual, 2)
				_, ok := c.Get(ctx, 1)
				So(ok, ShouldBeFalse)
				_, ok = c.Get(ctx, 2)
				So(ok, ShouldBeTrue)
				_, ok = c.Get(ctx, 3)
				So(ok, ShouldBeTrue)
			})

			Convey("Then eviction keeps going in insertion order", func() {
				c.Put(ctx, 4, report("4"))
				_, ok := c.Get(ctx, 2)
				So(ok, ShouldBeFalse)
				So(c.Size(), ShouldEqual, 2)
			})
		})

		Convey("When a single-entry cache overflows", func() {
			c := cache.NewInMemoryCache(cache.WithMaxSize(1))
			c.Put(ctx, 1, report("1"))
			c.Put(ctx, 2, report("2"))

			Convey("Then only the newest remains", func() {
				So(c.Size(), ShouldEqual, 1)
				_, ok := c.Get(ctx, 2)
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When the cache is unbounded", func() {
			c := cache.NewInMemoryCache(cache.WithMaxSize(0))
			for i := 0; i < 1000; i++ {
				c.Put(ctx, uint64(i), report(fmt.Sprint(i)))
			}

			Convey("Then nothing is evicted", func() {
				So(c.Size(), ShouldEqual, 1000)
			})
		})

		Convey("When purged", func() {
			c := cache.NewInMemoryCache()
			c.Put(ctx, 1, report("1"))
			c.Put(ctx, 2, report("2"))
			c.Purge(ctx)

			Convey("Then it is empty and reusable", func() {
				So(c.Size(), ShouldEqual, 0)
				_, ok := c.Get(ctx, 1)
				So(ok, ShouldBeFalse)
				c.Put(ctx, 3, report("3"))
				So(c.Size(), ShouldEqual, 1)
			})
		})

		Convey("When used concurrently", func() {
			c := cache.NewInMemoryCache(cache.WithMaxSize(50))
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						k := uint64(g*100 + i)
						c.Put(ctx, k, report("x"))
						c.Get(ctx, k)
					}
				}(g)
			}
			wg.Wait()

			Convey("Then the bound holds", func() {
				So(c.Size(), ShouldEqual, 50)
			})
		})
	})
}

func TestKey(t *testing.T) {
	Convey("Given a selection", t, func() {
		day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
		sel := filter.Selection{
			Platforms:  []string{"Amazon", "Website"},
			Products:   []string{"ProtX"},
			Categories: []string{"Fitness"},
			DateRange:  &filter.DateRange{Start: day(1), End: day(31)},
		}
		base := cache.Key(42, sel, 0.15, 10)

		Convey("Then set order does not change the key", func() {
			reordered := sel
			reordered.Platforms = []string{"Website", "Amazon", "Amazon"}
			So(cache.Key(42, reordered, 0.15, 10), ShouldEqual, base)
		})

		Convey("Then every input changes the key", func() {
			So(cache.Key(43, sel, 0.15, 10), ShouldNotEqual, base)
			So(cache.Key(42, sel, 0.2, 10), ShouldNotEqual, base)
			So(cache.Key(42, sel, 0.15, 5), ShouldNotEqual, base)

			narrowed := sel
			narrowed.Platforms = []string{"Amazon"}
			So(cache.Key(42, narrowed, 0.15, 10), ShouldNotEqual, base)

			shifted := sel
			shifted.DateRange = &filter.DateRange{Start: day(2), End: day(31)}
			So(cache.Key(42, shifted, 0.15, 10), ShouldNotEqual, base)

			open := sel
			open.DateRange = nil
			So(cache.Key(42, open, 0.15, 10), ShouldNotEqual, base)
		})

		Convey("Then moving a value between sets changes the key", func() {
			a := filter.Selection{Platforms: []string{"x", "y"}, Products: []string{"z"}}
			b := filter.Selection{Platforms: []string{"x"}, Products: []string{"y", "z"}}
			So(cache.Key(1, a, 0.15, 10), ShouldNotEqual, cache.Key(1, b, 0.15, 10))
		})
	})
}
