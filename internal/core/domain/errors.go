package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a domain failure independently of the transport.
type ErrorCode string

const (
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeForbidden      ErrorCode = "FORBIDDEN"
	ErrCodeConflict       ErrorCode = "CONFLICT"
	ErrCodeInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrCodeProfileMissing ErrorCode = "PROFILE_MISSING"
	ErrCodeTerminalState  ErrorCode = "TERMINAL_STATE"
	ErrCodeNotBookable    ErrorCode = "NOT_BOOKABLE"
	ErrCodeUnauthorized   ErrorCode = "UNAUTHORIZED"
)

// Error is a classified domain error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError attaches a classification and message to an existing error.
// errors.Is(result, err) holds, so wrapping a sentinel keeps it matchable.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Invalid returns an INVALID_INPUT error carrying message.
func Invalid(message string) *Error {
	return WrapError(ErrCodeInvalidInput, message, ErrInvalidInput)
}

var (
	ErrActorNotFound       = NewError(ErrCodeNotFound, "actor not found")
	ErrPlaceNotFound       = NewError(ErrCodeNotFound, "place not found")
	ErrActivityNotFound    = NewError(ErrCodeNotFound, "activity not found")
	ErrCircuitNotFound     = NewError(ErrCodeNotFound, "circuit not found")
	ErrEventNotFound       = NewError(ErrCodeNotFound, "event not found")
	ErrArtisanNotFound     = NewError(ErrCodeNotFound, "artisan not found")
	ErrReservationNotFound = NewError(ErrCodeNotFound, "reservation not found")
	ErrReportNotFound      = NewError(ErrCodeNotFound, "report not found")
	ErrReviewNotFound      = NewError(ErrCodeNotFound, "review not found")
	ErrUserNotFound        = NewError(ErrCodeNotFound, "user not found")

	ErrForbidden       = NewError(ErrCodeForbidden, "access forbidden")
	ErrNotOwner        = NewError(ErrCodeForbidden, "not the owner of this resource")
	ErrAccountInactive = NewError(ErrCodeForbidden, "account is not active")

	ErrEmailTaken        = NewError(ErrCodeConflict, "email already in use")
	ErrRequestInProgress = NewError(ErrCodeConflict, "a request with this idempotency key is still in progress")

	ErrInvalidInput       = NewError(ErrCodeInvalidInput, "invalid input")
	ErrNoTargetSpecified  = NewError(ErrCodeInvalidInput, "either an activity or a circuit must be specified")
	ErrAmbiguousTarget    = NewError(ErrCodeInvalidInput, "a reservation targets either an activity or a circuit, not both")
	ErrInvalidDate        = NewError(ErrCodeInvalidInput, "reservation date must be today or later")
	ErrInvalidRating      = NewError(ErrCodeInvalidInput, "rating must be between 1 and 5")
	ErrInvalidDateRange   = NewError(ErrCodeInvalidInput, "end date must not be before start date")
	ErrInvalidStatusValue = NewError(ErrCodeInvalidInput, "unknown status value")

	ErrProfileMissing    = NewError(ErrCodeProfileMissing, "guide profile not found")
	ErrAlreadyCancelled  = NewError(ErrCodeTerminalState, "reservation already cancelled")
	ErrTargetNotBookable = NewError(ErrCodeNotBookable, "target is not available for reservation")

	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "invalid credentials")
)

// IsDomainError reports whether err carries the given code.
func IsDomainError(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the outermost domain error in err's chain, or ""
// when err is not a domain error.
func CodeOf(err error) ErrorCode {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code
	}
	return ""
}
