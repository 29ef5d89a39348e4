// Package sampledata generates a synthetic, internally consistent set of
// source tables for demos and tests.
package sampledata

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/roas/internal/domain/model"
	"github.com/okian/roas/internal/domain/pipeline"
	"github.com/okian/roas/internal/domain/table"
	"github.com/okian/roas/pkg/logger"
)

// Value pools.
var (
	firstNames = []string{"Asha", "Ravi", "Meera", "Kabir", "Isha", "Arjun", "Nisha", "Vikram", "Tara", "Rohan", "Diya", "Karan"}
	lastNames  = []string{"Sharma", "Iyer", "Khan", "Patel", "Rao", "Singh", "Das", "Menon"}
	categories = []string{"Fitness", "Nutrition", "Lifestyle", "Wellness", "Sports"}
	social     = []string{"Instagram", "YouTube", "X"}
	stores     = []string{"Amazon", "Flipkart", "Website"}
	products   = []string{"Whey Protein", "Multivitamin", "Omega 3", "Pre Workout", "Kids Nutrition"}
	genders    = []string{"female", "male", "other"}
	unitPrice  = map[string]float64{
		"Whey Protein":   2499,
		"Multivitamin":   799,
		"Omega 3":        999,
		"Pre Workout":    1499,
		"Kids Nutrition": 649,
	}
)

// Constants for value ranges.
const (
	minFollowers  = 5_000
	maxFollowers  = 2_000_000
	maxOrders     = 5
	postsPerMonth = 4
	perPostMin    = 2_000
	perPostRange  = 18_000
	perOrderMin   = 50
	perOrderRange = 200
)

// namespace roots the deterministic identifiers.
var namespace = uuid.MustParse("6f1c2a4e-8d2b-4e0a-9c53-0f9a3b7d1e42")

// Generate builds the four source tables. Output is a pure function of cfg.
func Generate(ctx context.Context, cfg Config) (pipeline.Sources, error) {
	if cfg.Influencers <= 0 || cfg.Days <= 0 || cfg.Events <= 0 {
		return pipeline.Sources{}, fmt.Errorf("invalid sample config: %+v", cfg)
	}
	logger.Get().Info(ctx, "generating sample data",
		logger.Int("influencers", cfg.Influencers),
		logger.Int("days", cfg.Days),
		logger.Int("events", cfg.Events),
	)

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	src := pipeline.Sources{
		Influencers: table.New(model.TableInfluencers, model.InfluencerColumns...),
		Posts:       table.New(model.TablePosts, model.PostColumns...),
		Tracking:    table.New(model.TableTracking, model.TrackingColumns...),
		Payouts:     table.New(model.TablePayouts, model.PayoutColumns...),
	}

	for i := 0; i < cfg.Influencers; i++ {
		if err := ctx.Err(); err != nil {
			return pipeline.Sources{}, fmt.Errorf("context cancelled during generation: %w", err)
		}
		generateInfluencer(rng, cfg, i, &src)
	}

	logger.Get().Info(ctx, "generated sample data successfully",
		logger.Int("tracking", src.Tracking.Len()),
		logger.Int("posts", src.Posts.Len()),
	)
	return src, nil
}

func generateInfluencer(rng *rand.Rand, cfg Config, index int, src *pipeline.Sources) {
	id := uuid.NewSHA1(namespace, fmt.Appendf(nil, "influencer-%d-%d", cfg.Seed, index)).String()
	name := pick(rng, firstNames) + " " + pick(rng, lastNames)
	channel := pick(rng, social)

	src.Influencers.Append(model.Influencer{
		ID:            id,
		Name:          name,
		Category:      pick(rng, categories),
		Gender:        pick(rng, genders),
		FollowerCount: int64(minFollowers + rng.IntN(maxFollowers-minFollowers)),
		Platform:      channel,
	}.Row())

	posts := max(1, cfg.Days*postsPerMonth/30)
	for p := 0; p < posts; p++ {
		reach := int64(1_000 + rng.IntN(200_000))
		src.Posts.Append(model.Post{
			InfluencerID: id,
			Platform:     channel,
			Date:         day(cfg, rng),
			URL:          fmt.Sprintf("https://%s.example/p/%s-%d", channel, id[:8], p),
			Caption:      "Fuel your day #ad",
			Reach:        reach,
			Likes:        reach / int64(10+rng.IntN(40)),
			Comments:     reach / int64(200+rng.IntN(800)),
		}.Row())
	}

	campaign := fmt.Sprintf("CMP-%03d", index%12)
	var orders int64
	for e := 0; e < cfg.Events; e++ {
		product := pick(rng, products)
		n := int64(1 + rng.IntN(maxOrders))
		orders += n
		src.Tracking.Append(model.TrackingEvent{
			Source:       "influencer",
			Campaign:     campaign,
			InfluencerID: id,
			UserID:       uuid.NewSHA1(namespace, fmt.Appendf(nil, "user-%d-%d-%d", cfg.Seed, index, e)).String(),
			Product:      product,
			Date:         day(cfg, rng),
			Platform:     pick(rng, stores),
			Orders:       n,
			Revenue:      money(float64(n) * unitPrice[product] * (0.9 + 0.2*rng.Float64())),
		}.Row())
	}

	payout := model.PayoutRecord{InfluencerID: id, Orders: orders}
	if rng.IntN(2) == 0 {
		payout.Basis = model.BasisPerPost
		payout.Rate = float64(perPostMin + rng.IntN(perPostRange))
		payout.TotalPayout = money(payout.Rate * float64(posts))
	} else {
		payout.Basis = model.BasisPerOrder
		payout.Rate = float64(perOrderMin + rng.IntN(perOrderRange))
		payout.TotalPayout = money(payout.Rate * float64(orders))
	}
	src.Payouts.Append(payout.Row())
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.IntN(len(values))]
}

func day(cfg Config, rng *rand.Rand) time.Time {
	return cfg.Start.AddDate(0, 0, rng.IntN(cfg.Days))
}

func money(v float64) float64 {
	return math.Round(v*100) / 100
}
