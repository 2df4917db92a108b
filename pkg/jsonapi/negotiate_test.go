package jsonapi

import "testing"

func TestAcceptable(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{"", true},
		{"application/vnd.api+json", true},
		{"*/*", true},
		{"application/*", true},
		{"text/html, application/vnd.api+json", true},
		{"application/vnd.api+json; q=0.9", true},
		{"application/json", false},
		{"text/html", false},
		{"application/vnd.api+xml", false},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			if got := Acceptable(tt.accept); got != tt.want {
				t.Errorf("Acceptable(%q) = %v, want %v", tt.accept, got, tt.want)
			}
		})
	}
}

func TestValidContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/vnd.api+json", true},
		{"application/vnd.api+json; charset=utf-8", true},
		{"application/vnd.api+json; profile=bulk", false},
		{"application/vnd.api+json; charset=utf-8; version=2", false},
		{"application/json", false},
		{"", false},
		{"garbage;;;", false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			if got := ValidContentType(tt.contentType); got != tt.want {
				t.Errorf("ValidContentType(%q) = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}
