package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an input directory, file or model does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for out-of-range fractions and sample sizes.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMalformedDocument marks a single document that could not be processed.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrEmptyTestSet is returned when accuracy is requested over zero examples.
	ErrEmptyTestSet = errors.New("empty test set")
)

// DocumentError ties a failure to the document that caused it.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}
