// Package response writes the JSON envelope for responses produced outside
// huma operations: router fallbacks, middleware rejections and panics.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	domainerrors "github.com/booknotes/booknotes-server/internal/errors"
	"github.com/booknotes/booknotes-server/internal/store"
)

// EnvelopeVersion is the envelope schema version sent as "v".
const EnvelopeVersion = 1

// Envelope is the error shape shared with huma operations.
type Envelope struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Error writes an error envelope.
func Error(w http.ResponseWriter, status int, code domainerrors.Code, message string, logger *slog.Logger) {
	write(w, status, Envelope{
		Version: EnvelopeVersion,
		Error:   message,
		Code:    string(code),
	}, logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, domainerrors.CodeNotFound, message, logger)
}

// MethodNotAllowed writes a 405 Method Not Allowed response.
func MethodNotAllowed(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusMethodNotAllowed, domainerrors.CodeInvalidInput, message, logger)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusInternalServerError, domainerrors.CodeInternal, message, logger)
}

// StoreCode maps a store error's HTTP code to a domain error code.
func StoreCode(err *store.Error) domainerrors.Code {
	switch err.HTTPCode() {
	case http.StatusNotFound:
		return domainerrors.CodeNotFound
	case http.StatusConflict:
		return domainerrors.CodeConflict
	case http.StatusBadRequest:
		return domainerrors.CodeInvalidInput
	default:
		return domainerrors.CodeInternal
	}
}

func write(w http.ResponseWriter, status int, env Envelope, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(env); err != nil && logger != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}
