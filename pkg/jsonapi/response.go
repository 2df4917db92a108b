package jsonapi

import (
	"encoding/json"
	"net/http"

	"github.com/declarest/declarest/core/apierr"
)

// WriteDocument writes a JSON:API document to the response.
func WriteDocument(w http.ResponseWriter, status int, doc Document) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(doc)
}

// WriteResource writes a single resource response.
func WriteResource(w http.ResponseWriter, status int, r Resource) {
	WriteDocument(w, status, NewSingleResourceDocument(r))
}

// WriteCollection writes a collection response with optional pagination.
func WriteCollection(w http.ResponseWriter, status int, resources []Resource, pagination *Pagination) {
	WriteDocument(w, status, NewCollectionDocument(resources, pagination))
}

// WriteCreated writes a 201 Created response with the resource and
// optional Location header.
func WriteCreated(w http.ResponseWriter, r Resource, location string) {
	if location != "" {
		w.Header().Set("Location", location)
	}
	WriteResource(w, http.StatusCreated, r)
}

// WriteNoContent writes a 204 No Content response (destroy, prune).
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError serializes typed errors into an error document. The HTTP
// status is taken from the first error; the onError callback runs once
// per error before serialization.
func WriteError(w http.ResponseWriter, onError func(*apierr.Error), errs ...*apierr.Error) {
	status := http.StatusInternalServerError
	if len(errs) > 0 && errs[0] != nil {
		status = errs[0].Status
	}
	WriteDocument(w, status, ErrorDocument(errs, onError))
}
