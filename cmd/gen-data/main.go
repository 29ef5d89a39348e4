// Command gen-data writes a deterministic sample dataset as CSV files that the
// report server can load.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/roas/internal/adapters/repository"
	"github.com/okian/roas/internal/sampledata"
	"github.com/okian/roas/pkg/logger"
)

func main() {
	var (
		out         = flag.String("out", "data", "output directory")
		influencers = flag.Int("influencers", 40, "number of influencers")
		days        = flag.Int("days", 90, "length of the date window in days")
		events      = flag.Int("events", 25, "tracking events per influencer")
		seed        = flag.Uint64("seed", 1, "random seed")
		start       = flag.String("start", "2024-01-01", "first day of the window (YYYY-MM-DD)")
		format      = flag.String("log-format", "text", "log format: text or json")
	)
	flag.Parse()

	if err := logger.Init(logger.WithFormat(*format)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startDay, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		log.Fatal(ctx, "invalid start date", logger.String("start", *start), logger.Error(err))
	}

	cfg := sampledata.NewConfig(
		sampledata.WithInfluencers(*influencers),
		sampledata.WithDays(*days),
		sampledata.WithEvents(*events),
		sampledata.WithStart(startDay),
		sampledata.WithSeed(*seed),
	)
	src, err := sampledata.Generate(ctx, cfg)
	if err != nil {
		log.Fatal(ctx, "generate sample data", logger.Error(err))
	}

	store := repository.NewCSVStore(*out, repository.WithLogger(log.Named("repository")))
	if err := store.Save(ctx, src); err != nil {
		log.Fatal(ctx, "write sample data", logger.String("out", *out), logger.Error(err))
	}
	log.Info(ctx, "sample data written", logger.String("out", *out))
}
