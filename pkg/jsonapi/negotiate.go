package jsonapi

import (
	"mime"
	"strings"
)

// Acceptable reports whether the Accept header admits the document
// media type as the response type. An absent header and the catch-all
// ranges are acceptable; anything else must name the media type exactly.
func Acceptable(accept string) bool {
	if strings.TrimSpace(accept) == "" {
		return true
	}

	for _, part := range strings.Split(accept, ",") {
		mediaRange, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaRange {
		case ContentType, "*/*", "application/*":
			return true
		}
	}
	return false
}

// ValidContentType reports whether a request body's Content-Type header
// equals the document media type. A charset parameter is tolerated;
// any other media type parameter is rejected.
func ValidContentType(contentType string) bool {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	if mediaType != ContentType {
		return false
	}
	for param := range params {
		if param != "charset" {
			return false
		}
	}
	return true
}
