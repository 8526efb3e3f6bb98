package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"dojangkok-ai/internal/domain"
	apperrors "dojangkok-ai/pkg/errors"
)

type contextKey string

const requestIDContextKey contextKey = "request_id"

// RequestIDFromContext returns the id assigned by the request logger.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey).(string)
	return id, ok
}

func requestID(r *http.Request) string {
	id, _ := RequestIDFromContext(r.Context())
	return id
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes {"error":{"code":...,"message":...}}.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, domain.ErrorResponse{Error: domain.ErrorBody{Code: code, Message: message}})
}

// writeAppError maps err to its status and wire code. Errors that are not
// AppErrors become a generic 500 with fallbackMessage.
func writeAppError(w http.ResponseWriter, err error, fallbackMessage string) {
	appErr, ok := apperrors.As(err)
	if !ok {
		writeError(w, apperrors.GetStatusCode(err), apperrors.KindGenericFailure.Code(), fallbackMessage)
		return
	}
	writeError(w, appErr.StatusCode(), appErr.Code(), appErr.Message)
}
