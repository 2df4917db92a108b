// Package apierr defines the typed error taxonomy for the request
// pipeline. Every failure, however triggered, is represented as an
// *Error carrying an HTTP status, a human-readable message, and
// optional metadata, and is ultimately serialized as a JSON:API error
// document by the lifecycle layer.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a (status, message, metadata) triple. It is never dropped
// silently: the lifecycle catch-all converts every Error into a
// serialized error document with the matching HTTP status.
type Error struct {
	Status  int
	Message string
	Meta    map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// WithMeta attaches a metadata entry and returns the error for chaining.
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any)
	}
	e.Meta[key] = value
	return e
}

// Code returns the machine-readable error code for the status,
// e.g. "forbidden" for 403. Unknown statuses map to "http_error".
func (e *Error) Code() string {
	if k, ok := kinds[e.Status]; ok {
		return k.code
	}
	return "http_error"
}

// Title returns the human-readable error title for the status.
func (e *Error) Title() string {
	if k, ok := kinds[e.Status]; ok {
		return k.title
	}
	if t := http.StatusText(e.Status); t != "" {
		return t
	}
	return "HTTP Error"
}

type kind struct {
	code  string
	title string
}

// kinds is the fixed status-to-error mapping of the taxonomy.
var kinds = map[int]kind{
	http.StatusBadRequest:           {"bad_request", "Bad Request"},
	http.StatusForbidden:            {"forbidden", "Forbidden"},
	http.StatusNotFound:             {"not_found", "Not Found"},
	http.StatusMethodNotAllowed:     {"method_not_allowed", "Method Not Allowed"},
	http.StatusNotAcceptable:        {"not_acceptable", "Not Acceptable"},
	http.StatusConflict:             {"conflict", "Conflict"},
	http.StatusUnsupportedMediaType: {"unsupported_media_type", "Unsupported Media Type"},
	http.StatusUnprocessableEntity:  {"unprocessable_entity", "Unprocessable Entity"},
	http.StatusInternalServerError:  {"internal_error", "Internal Server Error"},
}

// New creates a typed error with the given status and message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Newf creates a typed error with a formatted message.
func Newf(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// BadRequest creates a 400 error for malformed payload or negotiation input.
func BadRequest(message string) *Error {
	if message == "" {
		message = "Malformed request"
	}
	return New(http.StatusBadRequest, message)
}

// Forbidden creates a 403 error for a failed role check.
func Forbidden(message string) *Error {
	if message == "" {
		message = "Access denied"
	}
	return New(http.StatusForbidden, message)
}

// NotFound creates a 404 error for an absent resource or route.
func NotFound(message string) *Error {
	if message == "" {
		message = "Resource not found"
	}
	return New(http.StatusNotFound, message)
}

// NotFoundID creates a 404 error identifying the missing id.
func NotFoundID(id string) *Error {
	return Newf(http.StatusNotFound, "Resource '%s' not found", id)
}

// MethodNotAllowed creates a 405 error for an authorized action with no
// registered handler.
func MethodNotAllowed(message string) *Error {
	if message == "" {
		message = "Action not supported by this resource"
	}
	return New(http.StatusMethodNotAllowed, message)
}

// NotAcceptable creates a 406 error for a response type mismatch.
func NotAcceptable(message string) *Error {
	if message == "" {
		message = "Response media type not acceptable"
	}
	return New(http.StatusNotAcceptable, message)
}

// Conflict creates a 409 error for a payload identity mismatch.
func Conflict(message string) *Error {
	if message == "" {
		message = "Payload conflicts with endpoint identity"
	}
	return New(http.StatusConflict, message)
}

// UnsupportedMediaType creates a 415 error for a request content type mismatch.
func UnsupportedMediaType(message string) *Error {
	if message == "" {
		message = "Request media type not supported"
	}
	return New(http.StatusUnsupportedMediaType, message)
}

// Unprocessable creates a 422 error for a semantic validation failure.
func Unprocessable(message string) *Error {
	if message == "" {
		message = "Validation failed"
	}
	return New(http.StatusUnprocessableEntity, message)
}

// Internal creates a 500 error. Used by the catch-all for faults that
// carry no status of their own.
func Internal(message string) *Error {
	if message == "" {
		message = "An internal error occurred"
	}
	return New(http.StatusInternalServerError, message)
}

// FromStatus converts a numeric halt into the matching typed error.
// Statuses outside 400-599 are coerced to 500 so that no halt can
// bypass the error-serialization path.
func FromStatus(status int, message string) *Error {
	if status < 400 || status > 599 {
		return Internal(message)
	}
	if _, ok := kinds[status]; ok {
		e := New(status, message)
		if message == "" {
			e.Message = e.Title()
		}
		return e
	}
	// Generic HTTP error carrying the raw code and body.
	if message == "" {
		message = http.StatusText(status)
	}
	return New(status, message)
}

// From normalizes any error into a typed Error. Typed errors pass
// through unchanged (including wrapped ones); anything else becomes a
// 500 carrying the original message.
func From(err error) *Error {
	if err == nil {
		return Internal("")
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err.Error())
}

// StatusOf returns the HTTP status an error maps to.
func StatusOf(err error) int {
	return From(err).Status
}
