package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type contextKey string

const ownerIDKey contextKey = "owner_id"

// OwnerID returns the authenticated owner id resolved by AuthMiddleware.
// Handlers always take ownership from here, never from request bodies.
func OwnerID(ctx context.Context) string {
	id, _ := ctx.Value(ownerIDKey).(string)
	return id
}

// AuthMiddleware resolves X-API-Key into an opaque owner id. With no
// configured keys (dev mode) any non-empty key is accepted; otherwise the key
// must be on the list. The owner id is a hash of the key, so the same key
// always maps to the same owner.
func AuthMiddleware(acceptedKeys []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(acceptedKeys))
	for _, k := range acceptedKeys {
		if k = strings.TrimSpace(k); k != "" {
			allowed[k] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				WriteError(w, http.StatusUnauthorized, "missing API key", "UNAUTHORIZED")
				return
			}
			if len(allowed) > 0 && !allowed[apiKey] {
				WriteError(w, http.StatusUnauthorized, "invalid API key", "UNAUTHORIZED")
				return
			}

			hash := sha256.Sum256([]byte(apiKey))
			ownerID := hex.EncodeToString(hash[:])[:16]

			ctx := context.WithValue(r.Context(), ownerIDKey, ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoggingMiddleware logs each request with its status and duration.
func LoggingMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			log.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// RecoveryMiddleware turns panics into plain 500s.
func RecoveryMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic recovered",
						slog.Any("error", rec),
						slog.String("path", r.URL.Path),
					)
					WriteError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
