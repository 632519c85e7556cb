package singlekey

import (
	"errors"
	"strings"
)

// ErrInvalidConfig indicates invalid client configuration
var ErrInvalidConfig = errors.New("invalid singlekey configuration")

// ErrorKind tags the outcome of a failed API call
type ErrorKind int

const (
	// KindService covers transport failures, timeouts and unclassified statuses
	KindService ErrorKind = iota
	// KindAuthentication indicates the API token was rejected
	KindAuthentication
	// KindValidation indicates the service rejected the request with field errors
	KindValidation
	// KindNotFound indicates the referenced resource does not exist
	KindNotFound
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindService:
		return "service"
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by every API call.
//
// Kind discriminates the outcome; Errors is only populated for KindValidation
// and keeps the order the service reported them in.
type Error struct {
	Kind       ErrorKind
	Message    string
	Errors     []string
	StatusCode int
	Err        error
}

// Sentinels for errors.Is. Every *Error matches ErrService.
var (
	ErrService        = &Error{Kind: KindService, Message: "singlekey service error"}
	ErrAuthentication = &Error{Kind: KindAuthentication, Message: "singlekey authentication error"}
	ErrValidation     = &Error{Kind: KindValidation, Message: "singlekey validation error"}
	ErrNotFound       = &Error{Kind: KindNotFound, Message: "singlekey resource not found"}
)

// Error implements the error interface
func (e *Error) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Errors, "; ")
}

// Unwrap returns the underlying transport failure, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind
func (e *Error) Is(target error) bool {
	switch target {
	case ErrService:
		return true
	case ErrAuthentication, ErrValidation, ErrNotFound:
		return e.Kind == target.(*Error).Kind
	}
	return false
}

// KindOf returns the kind of err and whether err is a *Error at all
func KindOf(err error) (ErrorKind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return KindService, false
}

func newServiceError(message string, cause error) *Error {
	return &Error{Kind: KindService, Message: message, Err: cause}
}
