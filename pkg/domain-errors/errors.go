package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies domain errors so transport layers can translate them
// without inspecting message text.
type Code string

const (
	// CodeValidation marks caller-supplied input that failed validation.
	CodeValidation Code = "validation"
	// CodeInvariantViolation marks a domain invariant breach detected at
	// construction time. Services typically convert it to CodeValidation
	// before it reaches an API response.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeNotFound marks a missing entity.
	CodeNotFound Code = "not_found"
	// CodeConflict marks uniqueness or concurrent-update conflicts.
	CodeConflict Code = "conflict"
	// CodeForbidden marks a request the caller is not allowed to make.
	CodeForbidden Code = "forbidden"
	// CodeInternal marks unexpected infrastructure failures.
	CodeInternal Code = "internal"
)

// DomainError carries a classification code alongside the message. Keep it
// transport-agnostic; HTTP mapping lives in ToHTTPStatus.
type DomainError struct {
	Code    Code
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// New constructs a DomainError with the given code and message.
func New(code Code, message string) error {
	return &DomainError{Code: code, Message: message}
}

// Wrap annotates an existing error with a code and message while preserving
// the original for errors.Is/As chains.
func Wrap(err error, code Code, message string) error {
	return &DomainError{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the classification code, defaulting to CodeInternal for
// errors that did not originate in the domain layer.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus centralizes the code -> status mapping so every handler
// returns consistent responses.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvariantViolation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
