package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a file could not be loaded.
type ErrorKind int

const (
	ErrorUnexpected ErrorKind = iota
	ErrorConnection
	ErrorEmptyInput
	ErrorDatabase
)

// String returns a short name for the kind, used in logs.
func (k ErrorKind) String() string {
	switch k {
	case ErrorConnection:
		return "connection"
	case ErrorEmptyInput:
		return "empty_input"
	case ErrorDatabase:
		return "database"
	default:
		return "unexpected"
	}
}

var (
	// ErrEmptyDataset is the cause of every ErrorEmptyInput failure.
	ErrEmptyDataset = errors.New("file is empty")

	// ErrInvalidFileType is returned for uploads outside the extension allow-list.
	ErrInvalidFileType = errors.New("invalid file type")
)

// LoadError is a classified load failure. Err keeps the underlying cause
// (usually a pgx or pgconn error) for errors.Is / errors.As.
type LoadError struct {
	Kind ErrorKind
	Err  error
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case ErrorEmptyInput:
		return "File is empty"
	case ErrorDatabase:
		return "Database error: " + e.Err.Error()
	case ErrorConnection:
		return "Connection failed: " + e.Err.Error()
	default:
		return "Error: " + e.Err.Error()
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func newLoadError(kind ErrorKind, err error) *LoadError {
	return &LoadError{Kind: kind, Err: err}
}

// databaseError wraps a failure from the database layer.
func databaseError(op string, err error) *LoadError {
	return newLoadError(ErrorDatabase, fmt.Errorf("%s: %w", op, err))
}

// KindOf returns the ErrorKind of err, or ErrorUnexpected if err is not a
// LoadError.
func KindOf(err error) ErrorKind {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Kind
	}
	return ErrorUnexpected
}

// OutcomeMessage renders err as the text shown after the file name in an
// outcome line.
func OutcomeMessage(err error) string {
	if err == nil {
		return ""
	}
	var le *LoadError
	if errors.As(err, &le) {
		return le.Error()
	}
	switch {
	case errors.Is(err, ErrInvalidFileType):
		return "Invalid file type"
	case errors.Is(err, ErrEmptyDataset):
		return "File is empty"
	default:
		return err.Error()
	}
}
