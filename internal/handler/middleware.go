package handler

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"dojangkok-ai/internal/domain"
	apperrors "dojangkok-ai/pkg/errors"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// AuthMiddleware checks the static bearer token expected from the backend.
type AuthMiddleware struct {
	token  string
	logger domain.Logger
}

// NewAuthMiddleware creates the middleware. An empty token disables the check.
func NewAuthMiddleware(token string, logger domain.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		token:  token,
		logger: logger,
	}
}

// Middleware validates the Authorization header
func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.token == "" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeAppError(w, apperrors.NewUnauthorized("Authorization header required"), "")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			writeAppError(w, apperrors.NewUnauthorized("Invalid authorization header format"), "")
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(m.token)) != 1 {
			m.logger.Warn("Rejected request with invalid token", "path", r.URL.Path)
			writeAppError(w, apperrors.NewUnauthorized("Invalid token"), "")
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger assigns a request id (reusing X-Request-ID when present) and
// logs one line per request.
func RequestLogger(logger domain.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDContextKey, id)))

			logger.Info("http.request",
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
