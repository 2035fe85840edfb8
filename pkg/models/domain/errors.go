package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingInstanceType = errors.New("missing instance type")
	ErrInvalidCount        = errors.New("invalid count")
	ErrNonPositiveCount    = errors.New("count must be positive")
)

type RowErrorKind string

const (
	RowErrorValidation RowErrorKind = "validation"
	RowErrorLookupMiss RowErrorKind = "lookup_miss"
	RowErrorAmbiguous  RowErrorKind = "ambiguous"
)

// RowError ties a failure to the input row it came from. It never aborts a run.
type RowError struct {
	Row          int
	InstanceType string
	Kind         RowErrorKind
	Err          error
}

func (e *RowError) Error() string {
	if e.InstanceType != "" {
		return fmt.Sprintf("row %d (%s): %v", e.Row, e.InstanceType, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
