package services

import (
	"errors"
	"time"
)

type ErrorCode string

const (
	ErrorInvalid         ErrorCode = "invalid"
	ErrorNotFound        ErrorCode = "not_found"
	ErrorConflict        ErrorCode = "conflict"
	ErrorUnauthorized    ErrorCode = "unauthorized"
	ErrorTooManyRequests ErrorCode = "too_many_requests"
	ErrorUnavailable     ErrorCode = "unavailable"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error  { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewNotFoundError(msg string) error { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func NewUnavailableError(msg string) error {
	return &ServiceError{Code: ErrorUnavailable, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ErrDuplicateWeek is returned by stores when an insert hits the
// (user, week identifier) uniqueness constraint.
var ErrDuplicateWeek = errors.New("emission entry already exists for this week")

// ValidationError carries every field violation from one survey submission.
// The Calculated* fields are set only by the score cross-check, so a client
// can see the values that tripped it.
type ValidationError struct {
	Message             string   `json:"message"`
	Errors              []string `json:"errors"`
	CalculatedEmissions float64  `json:"calculatedEmissions,omitempty"`
	CalculatedScore     int      `json:"calculatedScore,omitempty"`
}

func (e *ValidationError) Error() string { return e.Message }

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ExistingEntrySummary describes the submission that blocks a repeat attempt.
type ExistingEntrySummary struct {
	Date           time.Time `json:"date"`
	Score          int       `json:"score"`
	TotalEmissions float64   `json:"totalEmissions"`
}

// RateLimitedError rejects a second submission in the same week. It tells the
// client when the window reopens and what the accepted entry looked like.
type RateLimitedError struct {
	Message           string               `json:"message"`
	NextAvailableDate string               `json:"nextAvailableDate"`
	ExistingEntry     ExistingEntrySummary `json:"existingEntry"`
}

func (e *RateLimitedError) Error() string { return e.Message }

func AsRateLimitedError(err error) (*RateLimitedError, bool) {
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return rl, true
	}
	return nil, false
}
