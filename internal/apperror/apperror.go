// Package apperror defines the error taxonomy shared by services and handlers.
// Every failure that reaches the HTTP boundary is rendered from an *Error.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error independently of the HTTP status it is sent with.
type Kind string

const (
	BadInput           Kind = "BAD_INPUT"
	NotFound           Kind = "NOT_FOUND"
	Forbidden          Kind = "FORBIDDEN"
	Conflict           Kind = "CONFLICT"
	InvalidCredential  Kind = "INVALID_CREDENTIAL"
	MissingCredential  Kind = "MISSING_CREDENTIAL"
	CredentialMismatch Kind = "CREDENTIAL_MISMATCH"
	Unauthorized       Kind = "UNAUTHORIZED"
	RateLimited        Kind = "RATE_LIMITED"
	UpstreamFailure    Kind = "UPSTREAM_FAILURE"
	Internal           Kind = "INTERNAL"
)

// Status codes the public API has always used for specific validation
// failures. Clients match on them, so they are kept as-is.
const (
	StatusUserExists          = 408
	StatusAvatarMissing       = 410
	StatusRegistrationFailed  = 412
	StatusFieldRequired       = 420
	StatusPasswordIncorrect   = 424
	StatusRefreshTokenMissing = 430
)

// Error is a classified application error.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Errors     []string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithStatus overrides the HTTP status sent for the error.
func (e *Error) WithStatus(code int) *Error {
	e.StatusCode = code
	return e
}

// WithErrors attaches field level details rendered in the envelope's errors array.
func (e *Error) WithErrors(details ...string) *Error {
	e.Errors = append(e.Errors, details...)
	return e
}

// WithCause records the underlying error for logging.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// New creates an error of the given kind using the default status for that kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, StatusCode: defaultStatus(kind), Message: message}
}

// Newf is New with a format string.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

func BadRequest(message string) *Error { return New(BadInput, message) }

func NotFoundf(format string, args ...interface{}) *Error { return Newf(NotFound, format, args...) }

func Forbiddenf(format string, args ...interface{}) *Error { return Newf(Forbidden, format, args...) }

func ConflictMsg(message string) *Error { return New(Conflict, message) }

// Upstream reports a failed call to an external collaborator.
func Upstream(message string, err error) *Error {
	return New(UpstreamFailure, message).WithCause(err)
}

// Wrap classifies an unexpected error as Internal.
func Wrap(err error, message string) *Error {
	return New(Internal, message).WithCause(err)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or Internal when err is not classified.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func defaultStatus(kind Kind) int {
	switch kind {
	case BadInput:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Forbidden:
		return http.StatusForbidden
	case Conflict:
		return http.StatusConflict
	case InvalidCredential, CredentialMismatch, Unauthorized:
		return http.StatusUnauthorized
	case MissingCredential:
		return StatusRefreshTokenMissing
	case RateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
