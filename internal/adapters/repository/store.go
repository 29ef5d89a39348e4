// Package repository loads and stores the raw source tables.
package repository

import (
	"context"

	"github.com/okian/roas/internal/domain/pipeline"
)

// Default file names inside the data directory.
const (
	FileInfluencers = "influencers.csv"
	FilePosts       = "posts.csv"
	FileTracking    = "tracking_data.csv"
	FilePayouts     = "payouts.csv"
)

// Store provides access to the raw source tables.
type Store interface {
	// Load reads all source tables. A required table that cannot be read
	// fails with *pipeline.SourceUnavailableError.
	Load(ctx context.Context) (pipeline.Sources, error)

	// Save writes every non-nil table of src.
	Save(ctx context.Context, src pipeline.Sources) error
}
