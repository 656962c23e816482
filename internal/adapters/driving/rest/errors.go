// Package rest exposes the analysis pipeline as a JSON HTTP API.
package rest

import (
	"errors"
	"net/http"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

// ErrMissingAnalysisService is returned when the router is built without an analysis service.
var ErrMissingAnalysisService = errors.New("analysis service is required")

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrExtractionFailed):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
