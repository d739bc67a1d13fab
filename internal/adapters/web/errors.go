package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"inventory-backend/internal/app"
	"inventory-backend/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps service-layer errors to HTTP responses.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case app.IsValidation(err):
		writeError(w, r, err.Error(), "VALIDATION_ERROR", http.StatusUnprocessableEntity)
	case core.IsNotFound(err):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case core.IsConflict(err):
		writeError(w, r, err.Error(), "CONFLICT", http.StatusConflict)
	case core.IsInsufficientStock(err):
		writeError(w, r, err.Error(), "INSUFFICIENT_STOCK", http.StatusBadRequest)
	case core.IsInvalidState(err):
		writeError(w, r, err.Error(), "INVALID_STATE", http.StatusBadRequest)
	default:
		log.Printf("internal error: %v", err)
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// decodeJSON decodes the request body into v; on failure it writes the error
// response and returns false. Returns HTTP 413 when the body exceeds the
// RequestBodyLimit; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
