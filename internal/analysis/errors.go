package analysis

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is; the typed errors below unwrap to them.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrMissingColumn     = errors.New("missing column")
	ErrDivisionUndefined = errors.New("division undefined")
)

// InvalidInputError indicates the dataset is not a usable table.
type InvalidInputError struct {
	Reason string
	Err    error
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

func (e *InvalidInputError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}

// MissingColumnError indicates an analysis needs a column the dataset lacks.
type MissingColumnError struct {
	Column   string
	Analysis string
}

func (e *MissingColumnError) Error() string {
	if e.Analysis != "" {
		return fmt.Sprintf("%s: missing column %q", e.Analysis, e.Column)
	}
	return fmt.Sprintf("missing column %q", e.Column)
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingColumn }

// DivisionUndefinedError reports a zero denominator in a derived ratio.
// Only returned when strict ratio mode is enabled.
type DivisionUndefinedError struct {
	Row         int
	Numerator   string
	Denominator string
}

func (e *DivisionUndefinedError) Error() string {
	return fmt.Sprintf("row %d: %s / %s undefined (%s is zero)", e.Row, e.Numerator, e.Denominator, e.Denominator)
}

func (e *DivisionUndefinedError) Unwrap() error { return ErrDivisionUndefined }
