package join

import (
	"errors"
	"fmt"
)

// ErrMalformedDate is the sentinel kind for dates that cannot be normalized.
var ErrMalformedDate = errors.New("malformed date")

// MalformedDateError identifies the tracking row whose date failed to parse.
type MalformedDateError struct {
	Row   int
	Value any
}

func (e *MalformedDateError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("tracking row %d: date is null", e.Row)
	}
	return fmt.Sprintf("tracking row %d: cannot parse date %q", e.Row, fmt.Sprint(e.Value))
}

func (e *MalformedDateError) Unwrap() error { return ErrMalformedDate }
