package jsonapi

import (
	"encoding/json"
	"errors"
	"io"
)

// Parse errors. The lifecycle layer maps all of them to 400 responses.
var (
	ErrMalformed   = errors.New("jsonapi: malformed document")
	ErrMissingData = errors.New("jsonapi: document has no data member")
)

// Payload is the parsed primary data of a request document. Exactly
// one of Null, Resource, or Many describes the data member.
type Payload struct {
	// Resource is set when data is a single resource object.
	Resource *Resource

	// Many is set when data is an array of resource objects.
	Many []Resource

	// Null is true when data is explicitly null (relationship clearing).
	Null bool
}

// requestDocument captures the raw data member so its JSON shape
// (null, object, array) can be inspected before decoding. Data is a
// non-pointer RawMessage: an absent member leaves it nil, while an
// explicit null stores the literal bytes, keeping the two cases apart.
type requestDocument struct {
	Data json.RawMessage `json:"data"`
	Meta Meta            `json:"meta,omitempty"`
}

// ParsePayload reads a request body and extracts its primary payload.
// A body that is not valid JSON, or that lacks a data member entirely,
// is a malformed request. `"data": null` is a valid payload.
func ParsePayload(r io.Reader) (*Payload, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrMalformed
	}

	var doc requestDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, ErrMalformed
	}
	if doc.Data == nil {
		return nil, ErrMissingData
	}

	raw := []byte(doc.Data)
	trimmed := trimLeft(raw)
	if len(trimmed) == 0 {
		return nil, ErrMalformed
	}

	switch trimmed[0] {
	case 'n':
		return &Payload{Null: true}, nil
	case '[':
		var many []Resource
		if err := json.Unmarshal(raw, &many); err != nil {
			return nil, ErrMalformed
		}
		return &Payload{Many: many}, nil
	case '{':
		var one Resource
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, ErrMalformed
		}
		return &Payload{Resource: &one}, nil
	default:
		return nil, ErrMalformed
	}
}

func trimLeft(raw []byte) []byte {
	for i, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return raw[i:]
		}
	}
	return nil
}
