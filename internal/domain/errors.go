package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned when both record collections are empty.
	ErrNoData = errors.New("no data to export")

	// ErrMissingTemplateSheet is returned when a required sheet is absent from the template.
	ErrMissingTemplateSheet = errors.New("required worksheet not found in template")

	// ErrDuplicateIdentifier is returned when two aggregates denote the same control.
	ErrDuplicateIdentifier = errors.New("duplicate ISMS identifier")
)

// RowProcessingError reports a failure while mapping a single template row.
type RowProcessingError struct {
	Sheet string
	Row   int
	Err   error
}

func (e *RowProcessingError) Error() string {
	return fmt.Sprintf("sheet %q row %d: %v", e.Sheet, e.Row, e.Err)
}

func (e *RowProcessingError) Unwrap() error { return e.Err }

// UpstreamFetchError reports a failed scan of one of the record stores.
type UpstreamFetchError struct {
	Source string
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("fetching %s records: %v", e.Source, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }
