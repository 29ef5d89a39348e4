package service

import (
	"errors"
	"fmt"

	"github.com/okian/roas/internal/domain/pipeline"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNotLoaded  = fmt.Errorf("no source data loaded: %w", pipeline.ErrSourceUnavailable)
)
