package api

import (
	"encoding/json"
	"net/http"

	"github.com/vytor/srsdeck/internal/errors"
	"github.com/vytor/srsdeck/internal/logger"
)

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.NewInternalError(err)
	}

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else {
		log.Warn("client error: %v", appErr)
	}

	body := map[string]any{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	// Validation failures carry the full ordered violation list so callers
	// can tell retry-worthy failures from fatal ones.
	if len(appErr.Violations) > 0 {
		body["violations"] = appErr.Violations
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	if encErr := json.NewEncoder(w).Encode(map[string]any{"error": body}); encErr != nil {
		log.Error("failed to encode error response: %v", encErr)
	}
}
