package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// errorResponse is the single error body shape the API exposes. Both the
// plain handlers and the huma operations produce it; no internal detail
// crosses this boundary.
type errorResponse struct {
	Message string `json:"error"`
	status  int
}

func (e *errorResponse) Error() string {
	return e.Message
}

func (e *errorResponse) GetStatus() int {
	return e.status
}

func init() {
	// Replace huma's RFC 7807 problem model so every error renders as
	// {"error": "..."} regardless of which layer raised it.
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return &errorResponse{Message: msg, status: status}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
