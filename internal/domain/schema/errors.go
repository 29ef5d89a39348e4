package schema

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package.
var (
	ErrMissingColumn   = errors.New("missing column")
	ErrDuplicatePayout = errors.New("duplicate payout record")
)

// MissingColumnError names the first required column a table lacks.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("missing critical column %q", e.Column)
	}
	return fmt.Sprintf("table %s: missing critical column %q", e.Table, e.Column)
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingColumn }

// DuplicatePayoutError reports an influencer with more than one payout record.
type DuplicatePayoutError struct {
	InfluencerID string
	Count        int
}

func (e *DuplicatePayoutError) Error() string {
	return fmt.Sprintf("influencer %s has %d payout records; expected one", e.InfluencerID, e.Count)
}

func (e *DuplicatePayoutError) Unwrap() error { return ErrDuplicatePayout }
