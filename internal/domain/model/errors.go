package model

import (
	"errors"
	"fmt"
)

// ErrMalformedValue is the sentinel kind for numeric cells that do not parse.
var ErrMalformedValue = errors.New("malformed value")

// MalformedValueError identifies the combined row and column of a bad cell.
type MalformedValueError struct {
	Row    int
	Column string
	Value  any
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("combined row %d: column %s: cannot use %q as a number", e.Row, e.Column, fmt.Sprint(e.Value))
}

func (e *MalformedValueError) Unwrap() error { return ErrMalformedValue }
