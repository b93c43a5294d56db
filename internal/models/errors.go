package models

import (
	"errors"
	"strings"
)

// ProcessingError is returned for every validation and I/O failure while
// preparing or running an analysis. Message is safe to show to clients.
type ProcessingError struct {
	Message string
	Err     error
}

// NewProcessingError returns a ProcessingError with an optional cause
func NewProcessingError(message string, cause error) *ProcessingError {
	return &ProcessingError{Message: message, Err: cause}
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return strings.TrimSuffix(e.Message, ".") + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Message returns the client-facing message for err. Errors that are not a
// ProcessingError fall back to their full text.
func Message(err error) string {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return err.Error()
}
