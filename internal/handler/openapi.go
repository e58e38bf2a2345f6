package handler

import (
	"net/http"

	"github.com/rolodex/rolodex/api"
)

// OpenAPI serves the embedded OpenAPI document.
//
// GET /openapi.yaml
func OpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(api.OpenAPISpec)
}
