package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/order-service/internal/apperror"
)

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, map[string]string{"error": message}, logger)
}

// WriteAppError classifies err and writes the matching status.
// Client errors carry their own message; internal errors are not exposed.
func WriteAppError(w http.ResponseWriter, err error, logger *slog.Logger) {
	status := apperror.StatusCode(err)
	if status == http.StatusInternalServerError {
		WriteError(w, status, "Internal server error", logger)
		return
	}

	WriteError(w, status, err.Error(), logger)
}
