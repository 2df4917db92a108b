package jsonapi

import (
	"errors"
	"strings"
	"testing"
)

func TestParsePayloadSingleResource(t *testing.T) {
	body := `{"data": {"type": "posts", "id": "7", "attributes": {"title": "hi"}}}`

	p, err := ParsePayload(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if p.Resource == nil {
		t.Fatal("Resource should be set for object data")
	}
	if p.Null || p.Many != nil {
		t.Error("Null and Many should be unset for object data")
	}
	if p.Resource.Type != "posts" || p.Resource.ID != "7" {
		t.Errorf("parsed resource = %+v", p.Resource)
	}
	if p.Resource.Attributes["title"] != "hi" {
		t.Errorf("attributes = %v", p.Resource.Attributes)
	}
}

func TestParsePayloadNull(t *testing.T) {
	p, err := ParsePayload(strings.NewReader(`{"data": null}`))
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if !p.Null {
		t.Error("Null should be set for explicit null data")
	}
	if p.Resource != nil || p.Many != nil {
		t.Error("Resource and Many should be unset for null data")
	}
}

func TestParsePayloadMany(t *testing.T) {
	body := `{"data": [{"type": "comments", "id": "1"}, {"type": "comments", "id": "2"}]}`

	p, err := ParsePayload(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if len(p.Many) != 2 {
		t.Fatalf("Many length = %d, want 2", len(p.Many))
	}
	if p.Many[1].ID != "2" {
		t.Errorf("second identifier = %+v", p.Many[1])
	}
}

func TestParsePayloadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"not json", "{nope", ErrMalformed},
		{"empty body", "", ErrMalformed},
		{"no data member", `{"meta": {}}`, ErrMissingData},
		{"scalar data", `{"data": 42}`, ErrMalformed},
		{"string data", `{"data": "x"}`, ErrMalformed},
		{"bad array element", `{"data": [42]}`, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePayload(strings.NewReader(tt.body))
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}
