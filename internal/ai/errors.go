package ai

import (
	"errors"
	"fmt"
)

// ErrMalformedOutput matches every MalformedOutputError.
var ErrMalformedOutput = errors.New("malformed reasoning output")

// FailureKind classifies why a reasoning answer was rejected.
type FailureKind string

const (
	// KindUnparsable means no JSON document could be read from the answer.
	KindUnparsable FailureKind = "unparsable"
	// KindSchema means the JSON did not have the expected shape.
	KindSchema FailureKind = "schema"
	// KindInvalidValue means a field had the right shape but a forbidden value.
	KindInvalidValue FailureKind = "invalid_value"
)

// MalformedOutputError is the failure side of parsing a reasoning answer.
type MalformedOutputError struct {
	Kind   FailureKind
	Field  string
	Detail string
	Cause  error
	// Raw is the answer that was rejected, for logging.
	Raw string
}

func (e *MalformedOutputError) Error() string {
	msg := fmt.Sprintf("%s (%s)", ErrMalformedOutput, e.Kind)
	if e.Field != "" {
		msg += " " + e.Field
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MalformedOutputError) Unwrap() error {
	return e.Cause
}

func (e *MalformedOutputError) Is(target error) bool {
	return target == ErrMalformedOutput
}

// Malformed builds a MalformedOutputError.
func Malformed(kind FailureKind, field, detail string, cause error) *MalformedOutputError {
	return &MalformedOutputError{Kind: kind, Field: field, Detail: detail, Cause: cause}
}
