package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"budgeteer/internal/core"
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

// writeResponse sends a JSON body of {"status": <status>, ...extra}.
func writeResponse(w http.ResponseWriter, code int, status string, extra map[string]any) {
	body := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		body[k] = v
	}
	body["status"] = status

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter, extra map[string]any) {
	writeResponse(w, http.StatusOK, statusSuccess, extra)
}

func writeFailure(w http.ResponseWriter, code int, message string) {
	writeResponse(w, code, statusFailure, map[string]any{"message": message})
}

// writeActionResult reports a mutation's outcome: no body beyond the
// status on success, 422 with the exact rule message for caller input
// errors, 500 with a generic message otherwise.
func writeActionResult(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case err == nil:
		writeSuccess(w, nil)
	case core.IsInputError(err):
		writeFailure(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeFailure(w, http.StatusInternalServerError, "Internal server error")
	}
}
