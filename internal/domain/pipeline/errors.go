package pipeline

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable is the sentinel kind for a required raw table that
// could not be obtained.
var ErrSourceUnavailable = errors.New("source unavailable")

// SourceUnavailableError names the missing source table.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("source %s unavailable", e.Source)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *SourceUnavailableError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSourceUnavailable, e.Err}
	}
	return []error{ErrSourceUnavailable}
}
