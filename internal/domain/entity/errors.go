package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Kind identifies which pipeline stage raised an error, matching the error
// taxonomy: recovery behavior is keyed on kind, not on Go type.
type Kind string

const (
	KindFetch      Kind = "FetchError"
	KindParse      Kind = "ParseError"
	KindExtract    Kind = "ExtractError"
	KindTagging    Kind = "TaggingError"
	KindEmbed      Kind = "EmbedError"
	KindStore      Kind = "StoreError"
	KindAnswer     Kind = "AnswerError"
	KindValidation Kind = "ValidationError"
)

// StageError wraps a cause with a stable kind and a human-readable
// message, suitable for both structured logging and IngestionRun error
// samples.
type StageError struct {
	StageKind Kind
	Cause     error
	// Transient marks StoreError as retried-once-then-rolled-back rather
	// than run-aborting; Fetch/Parse/Extract/Tagging/Embed errors are
	// always per-article/per-source recoverable and ignore this flag.
	Transient bool
}

func (e *StageError) Error() string {
	if e.Cause == nil {
		return string(e.StageKind)
	}
	return fmt.Sprintf("%s: %v", e.StageKind, e.Cause)
}

func (e *StageError) Unwrap() error { return e.Cause }

// KindOf returns the StageError's kind, for callers that branch on the
// error kind after errors.As.
func (e *StageError) KindOf() Kind { return e.StageKind }

func NewFetchError(cause error) error   { return &StageError{StageKind: KindFetch, Cause: cause} }
func NewParseError(cause error) error   { return &StageError{StageKind: KindParse, Cause: cause} }
func NewExtractError(cause error) error { return &StageError{StageKind: KindExtract, Cause: cause} }
func NewTaggingError(cause error) error { return &StageError{StageKind: KindTagging, Cause: cause} }
func NewEmbedError(cause error) error   { return &StageError{StageKind: KindEmbed, Cause: cause} }
func NewAnswerError(cause error) error  { return &StageError{StageKind: KindAnswer, Cause: cause} }

func NewStoreError(cause error, transient bool) error {
	return &StageError{StageKind: KindStore, Cause: cause, Transient: transient}
}
