package httpadapter

import (
	"errors"
	"net/http"

	"github.com/kirillkom/resume-classifier/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge
	case domain.IsKind(err, domain.ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorPayload keeps the user-facing message stable per status: the kind
// message for client errors, the processing prefix for everything else.
func errorPayload(err error, status int) map[string]string {
	switch status {
	case http.StatusUnprocessableEntity:
		return map[string]string{"error": domain.ErrExtractionFailed.Error(), "detail": err.Error()}
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return map[string]string{"error": err.Error()}
	}
	if errors.Is(err, domain.ErrProcessing) {
		return map[string]string{"error": err.Error()}
	}
	return map[string]string{"error": domain.ErrProcessing.Error() + ": " + err.Error()}
}
