package types

import (
	"errors"
	"fmt"
)

var (
	ErrNoProfilesFound      = errors.New("no AWS profiles found. Please configure AWS CLI first")
	ErrNoValidProfilesFound = errors.New("none of the specified profiles were found in AWS configuration")

	// ErrEmptyInput is returned when no cost record survives the noise filter.
	ErrEmptyInput = errors.New("no cost data found")
	// ErrInvalidRecord is matched by every RecordError.
	ErrInvalidRecord = errors.New("invalid cost record")
	ErrInvalidPeriod = errors.New("invalid time period")
	// ErrInvalidTag is returned for a tag filter that is not Key=Value.
	ErrInvalidTag = errors.New("invalid tag format")

	ErrUnsupportedConfig = errors.New("unsupported config file format")
)

// RecordError describes a malformed cost record at position Index of the input.
type RecordError struct {
	Index  int
	Field  string
	Reason string
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid cost record at index %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid cost record at index %d: field %s %s", e.Index, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidRecord) true for any RecordError.
func (e *RecordError) Is(target error) bool {
	return target == ErrInvalidRecord
}
