package jsonapi

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/declarest/declarest/core/apierr"
)

// FromAPIError converts a typed pipeline error into a JSON:API error
// object. Each error object is stamped with a fresh uuid so individual
// failures can be correlated with logs.
func FromAPIError(e *apierr.Error) Error {
	out := Error{
		ID:     uuid.NewString(),
		Status: strconv.Itoa(e.Status),
		Code:   e.Code(),
		Title:  e.Title(),
		Detail: e.Message,
	}
	if len(e.Meta) > 0 {
		out.Meta = make(Meta, len(e.Meta))
		for k, v := range e.Meta {
			out.Meta[k] = v
		}
	}
	return out
}

// ErrorDocument serializes one or more typed errors into an error
// document. The optional onError callback is invoked exactly once per
// error before serialization; the lifecycle layer uses it for logging.
func ErrorDocument(errs []*apierr.Error, onError func(*apierr.Error)) Document {
	objects := make([]Error, 0, len(errs))
	for _, e := range errs {
		if e == nil {
			continue
		}
		if onError != nil {
			onError(e)
		}
		objects = append(objects, FromAPIError(e))
	}
	if len(objects) == 0 {
		objects = append(objects, FromAPIError(apierr.Internal("")))
	}
	return NewErrorDocument(objects...)
}

// StatusCode returns the HTTP status code as an int.
func (e Error) StatusCode() int {
	code, _ := strconv.Atoi(e.Status)
	return code
}
