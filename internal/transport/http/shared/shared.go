// Package shared holds the JSON envelope helpers common to all HTTP
// handlers.
package shared

import (
	"encoding/json"
	"net/http"

	domainerrors "caseflow/pkg/domain-errors"
)

// WriteJSON writes a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates a domain error into the JSON error envelope. Codes
// map to statuses here and nowhere else, keeping services transport-agnostic.
func WriteError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	WriteJSON(w, statusOf(code), map[string]string{
		"error":   string(code),
		"message": err.Error(),
	})
}

func statusOf(code domainerrors.Code) int {
	switch code {
	case domainerrors.CodeNotFound:
		return http.StatusNotFound
	case domainerrors.CodeBadRequest, domainerrors.CodeInvalidInput:
		return http.StatusBadRequest
	case domainerrors.CodeConflict, domainerrors.CodeInvalidState:
		return http.StatusConflict
	case domainerrors.CodeUnsupported:
		return http.StatusUnprocessableEntity
	case domainerrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	case domainerrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
