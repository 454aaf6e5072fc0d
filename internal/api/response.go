package api

import (
	"encoding/json"
	"net/http"

	"github.com/misterclayt0n/periodize/internal/errs"
)

// Response is the standard API envelope.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Response{Success: true, Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, status int, message, code string) {
	WriteJSON(w, status, Response{
		Success: false,
		Error:   &ErrorInfo{Message: message, Code: code},
	})
}

// WriteDomainError maps the error taxonomy onto HTTP statuses. Storage
// failures surface as a generic 500 so internal detail never reaches the
// client; permission failures carry a fixed message for the same reason.
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errs.IsValidation(err):
		WriteError(w, http.StatusBadRequest, err.Error(), "VALIDATION")
	case errs.IsNotFound(err):
		WriteError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errs.IsPermission(err):
		WriteError(w, http.StatusForbidden, "access denied", "FORBIDDEN")
	case errs.IsConflict(err):
		WriteError(w, http.StatusConflict, err.Error(), "CONFLICT")
	default:
		WriteError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
	}
}
