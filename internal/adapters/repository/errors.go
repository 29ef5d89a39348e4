package repository

import (
	"errors"

	"github.com/okian/roas/internal/domain/pipeline"
)

// Sentinel kinds for source file errors.
var (
	ErrNoHeader    = errors.New("csv file has no header row")
	ErrNoDirectory = errors.New("data directory not configured")
)

// ErrSourceUnavailable is the kind carried when a required table cannot
// be read.
var ErrSourceUnavailable = pipeline.ErrSourceUnavailable
