package httpadapter

import (
	"net/http"

	"github.com/kirillkom/handwriting-extraction/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrFormNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrAgentNotReady):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
