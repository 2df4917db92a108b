package jsonapi

import (
	"testing"

	"github.com/declarest/declarest/core/apierr"
)

func TestFromAPIError(t *testing.T) {
	src := apierr.Forbidden("role check failed").WithMeta("action", "destroy")

	e := FromAPIError(src)
	if e.Status != "403" {
		t.Errorf("Status = %q, want 403", e.Status)
	}
	if e.Code != "forbidden" {
		t.Errorf("Code = %q", e.Code)
	}
	if e.Title != "Forbidden" {
		t.Errorf("Title = %q", e.Title)
	}
	if e.Detail != "role check failed" {
		t.Errorf("Detail = %q", e.Detail)
	}
	if e.ID == "" {
		t.Error("error objects should carry a generated id")
	}
	if e.Meta["action"] != "destroy" {
		t.Errorf("Meta = %v", e.Meta)
	}
	if e.StatusCode() != 403 {
		t.Errorf("StatusCode() = %d", e.StatusCode())
	}
}

func TestErrorDocumentInvokesCallbackOncePerError(t *testing.T) {
	errs := []*apierr.Error{
		apierr.NotFound(""),
		apierr.Conflict(""),
		nil, // skipped, callback not invoked
	}

	var seen []int
	doc := ErrorDocument(errs, func(e *apierr.Error) {
		seen = append(seen, e.Status)
	})

	if len(doc.Errors) != 2 {
		t.Fatalf("Errors length = %d, want 2", len(doc.Errors))
	}
	if len(seen) != 2 || seen[0] != 404 || seen[1] != 409 {
		t.Errorf("callback invocations = %v", seen)
	}
	if doc.Data != nil {
		t.Error("error documents must not carry data")
	}
}

func TestErrorDocumentEmptyFallsBackToInternal(t *testing.T) {
	doc := ErrorDocument(nil, nil)
	if len(doc.Errors) != 1 {
		t.Fatalf("Errors length = %d, want 1", len(doc.Errors))
	}
	if doc.Errors[0].Status != "500" {
		t.Errorf("Status = %q, want 500", doc.Errors[0].Status)
	}
}
