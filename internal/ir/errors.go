package ir

import (
	"errors"
	"fmt"
)

// RangeError is returned when a truth or budget component is outside its
// legal interval.
type RangeError struct {
	Field string
	Value float64
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("%s out of range: %g", e.Field, e.Value)
}

// IsRangeError reports whether err is (or wraps) a RangeError.
func IsRangeError(err error) bool {
	var re *RangeError
	return errors.As(err, &re)
}

// MalformedInputError is returned when a sentence or task is rejected at
// intake. The cycle never sees malformed input.
type MalformedInputError struct {
	Input  string // offending text or term key, if known
	Reason string
	Err    error // underlying cause, may be nil
}

// Error implements the error interface.
func (e *MalformedInputError) Error() string {
	msg := "malformed input"
	if e.Input != "" {
		msg += fmt.Sprintf(" %q", e.Input)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// IsMalformed reports whether err is (or wraps) a MalformedInputError.
func IsMalformed(err error) bool {
	var me *MalformedInputError
	return errors.As(err, &me)
}
