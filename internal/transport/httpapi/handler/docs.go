package handler

import (
	"net/http"
)

// DocsHandler serves the OpenAPI document for the dashboard API
type DocsHandler struct {
	specContent []byte
}

// NewDocsHandler creates a new docs handler
func NewDocsHandler(specContent []byte) *DocsHandler {
	return &DocsHandler{
		specContent: specContent,
	}
}

// GetOpenAPISpec handles GET /docs
func (h *DocsHandler) GetOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	if len(h.specContent) == 0 {
		respondError(w, http.StatusNotFound, "api documentation not available")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(h.specContent)
}

// GetOpenAPIJSON handles GET /docs/info
func (h *DocsHandler) GetOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"title":       "BRC-20 History Dashboard API",
		"version":     Version,
		"docs_url":    "/docs",
		"description": "Read-only REST API over UniSat BRC-20 buy and sell history",
	})
}
