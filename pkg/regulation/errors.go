package regulation

import (
	"errors"
	"fmt"
)

// Reason classifies why a load failed.
type Reason string

// Load failure reasons.
const (
	ReasonNotFound   Reason = "not_found"
	ReasonParseError Reason = "parse_error"
)

// Sentinel errors matched by LoadError.Is.
var (
	ErrNotFound = errors.New("regulation data not found")
	ErrParse    = errors.New("regulation data malformed")
)

// LoadError is the only error Load returns.
type LoadError struct {
	Reason Reason
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	var what string
	switch e.Reason {
	case ReasonNotFound:
		what = "data source not found"
	default:
		what = "failed to parse data source"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", what, e.Source)
	}
	return fmt.Sprintf("%s %s: %v", what, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is matches ErrNotFound and ErrParse against the reason.
func (e *LoadError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Reason == ReasonNotFound
	case ErrParse:
		return e.Reason == ReasonParseError
	}
	return false
}

// NotFoundError builds a LoadError for a missing source.
func NotFoundError(source string, err error) *LoadError {
	return &LoadError{Reason: ReasonNotFound, Source: source, Err: err}
}

// ParseError builds a LoadError for malformed content.
func ParseError(source string, err error) *LoadError {
	return &LoadError{Reason: ReasonParseError, Source: source, Err: err}
}

// RowError locates a problem in a specific data row.
type RowError struct {
	Row    int // 1-based, header excluded
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, column %q: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
