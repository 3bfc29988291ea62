package utils

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidPage       = errors.New("invalid page parameter")
	ErrInvalidPageSize   = errors.New("invalid page size parameter")
	ErrDatabaseError     = errors.New("database error")
	ErrItineraryNotFound = errors.New("itinerary not found")

	ErrPreconditionViolation = errors.New("trip parameters violate preconditions")
	ErrServiceUnavailable    = errors.New("generative service unavailable")
	ErrServiceError          = errors.New("generative service returned an error")
	ErrMalformedResponse     = errors.New("malformed generator response")
	ErrIncompleteResponse    = errors.New("incomplete generator response")
	ErrGenerationFailed      = errors.New("itinerary generation failed")

	ErrFlightSearchFailed = errors.New("flight search failed")
)

// GenerationError is the single failure surfaced by the generation path.
// Kind is one of the taxonomy sentinels above.
type GenerationError struct {
	Kind error
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrGenerationFailed, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", ErrGenerationFailed, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	out := []error{ErrGenerationFailed, e.Kind}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewGenerationError classifies err into the generation taxonomy.
// Errors that match no known kind are reported as service errors.
func NewGenerationError(err error) *GenerationError {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}
	for _, kind := range []error{
		ErrPreconditionViolation,
		ErrServiceUnavailable,
		ErrServiceError,
		ErrMalformedResponse,
		ErrIncompleteResponse,
	} {
		if errors.Is(err, kind) {
			return &GenerationError{Kind: kind, Err: err}
		}
	}
	return &GenerationError{Kind: ErrServiceError, Err: err}
}
