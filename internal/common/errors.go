package common

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable marks a failed or unparseable weather/news fetch.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrGenerationFailed marks a failed or timed out rewrite call.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrDeliveryFailed marks an unreachable or rejecting notification channel.
	ErrDeliveryFailed = errors.New("delivery failed")
	// ErrConfiguration marks missing or invalid settings at startup.
	ErrConfiguration = errors.New("configuration error")
)

// SourceError describes a failed upstream fetch. Status holds the HTTP status
// code when a response was received and is zero otherwise.
type SourceError struct {
	Source string
	Status int
	Err    error
}

// NewSourceError builds a SourceError for source.
func NewSourceError(source string, status int, err error) *SourceError {
	if err == nil {
		err = errors.New("unknown failure")
	}
	return &SourceError{Source: source, Status: status, Err: err}
}

func (e *SourceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %v (status %d): %v", e.Source, ErrSourceUnavailable, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Source, ErrSourceUnavailable, e.Err)
}

// Unwrap exposes both ErrSourceUnavailable and the underlying cause.
func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceUnavailable, e.Err}
}
