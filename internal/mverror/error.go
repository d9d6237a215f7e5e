package mverror

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// StatusExpiredAccessToken is an HTTP status code used when an access token is expired.
const StatusExpiredAccessToken = 498

// A Kind classifies an Error.
type Kind int

// Error kinds.
const (
	Unknown Kind = iota
	// MissingRequiredField is a local validation failure, no network call was made.
	MissingRequiredField
	// MissingCredentials is returned when a username or password is empty.
	MissingCredentials
	// NotAuthenticated is returned when an operation requires a session and none is present.
	NotAuthenticated
	// Rejected is a server-side semantic rejection (bad credentials, validation failure...).
	Rejected
	// Network is a transport failure, no response has been received.
	Network
	// MalformedResponse is an accepted response that does not have the expected shape.
	MalformedResponse
	// Invalid is a listing response that could not be used.
	Invalid
	// StorageFailure is a local persistence failure.
	StorageFailure
)

var kinds = map[Kind]string{
	Unknown:              "unknown",
	MissingRequiredField: "missing-required-field",
	MissingCredentials:   "missing-credentials",
	NotAuthenticated:     "not-authenticated",
	Rejected:             "rejected",
	Network:              "network",
	MalformedResponse:    "malformed-response",
	Invalid:              "invalid",
	StorageFailure:       "storage-failure",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if s, ok := kinds[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// An Error is the error type returned by every vault operation.
// It is also rendered by the development server as `{"message": "..."}`.
type Error struct {
	Kind       Kind   `json:"-"`
	Field      string `json:"field,omitempty"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

// New returns a new Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf returns a new Error with the given kind and formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns a new Error of the given kind wrapping err.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// MissingField returns a MissingRequiredField error naming the given field.
func MissingField(field string) *Error {
	return &Error{
		Kind:    MissingRequiredField,
		Field:   field,
		Message: fmt.Sprintf("%s is required", field),
	}
}

// NewWithCode returns a new Rejected error rendered with the given HTTP status code.
func NewWithCode(code int, message string) *Error {
	return &Error{Kind: Rejected, StatusCode: code, Message: message}
}

// Error implements error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Err)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause implements the github.com/pkg/errors causer interface.
func (e *Error) Cause() error {
	return e.Err
}

// KindOf returns the kind of the first Error found in err's chain.
func KindOf(err error) Kind {
	var mverr *Error
	if errors.As(err, &mverr) {
		return mverr.Kind
	}
	return Unknown
}

// Is returns true if err's chain contains an Error of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusCode returns the HTTP status code used to render err.
func StatusCode(err error) int {
	var mverr *Error
	if errors.As(err, &mverr) && mverr.StatusCode != 0 {
		return mverr.StatusCode
	}
	return http.StatusInternalServerError
}

// UserMessage returns the human-readable message displayed for err.
// Raw transport and parse errors are never part of it.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var mverr *Error
	if !errors.As(err, &mverr) {
		return "Something went wrong. Please try again."
	}

	switch mverr.Kind {
	case MissingRequiredField:
		if mverr.Field != "" {
			return fmt.Sprintf("Missing information: %s is required.", mverr.Field)
		}
		return "Missing information: title and category are required."
	case MissingCredentials:
		return "Please enter your email and password."
	case NotAuthenticated:
		return "Your session has ended. Please log in again."
	case Rejected:
		if mverr.Message != "" {
			return mverr.Message
		}
		return "Something went wrong"
	case StorageFailure:
		if mverr.Field != "" {
			return fmt.Sprintf("The attachment %s could not be read.", mverr.Field)
		}
		return "Local data could not be read or written. Please log in again."
	case Network:
		return "The vault could not be reached. Check your connection and try again."
	case Invalid:
		return "Your records could not be loaded. Please try again."
	default:
		return "The vault sent an unexpected response. Please try again."
	}
}
