// Package request carries per-request metadata from HTTP headers into the
// context and logs each request once it completes.
package request

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"kycflow/pkg/requestcontext"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderOperator  = "X-Operator"

	maxOperatorLen = 128
)

// Context copies the request id assigned by chi's RequestID middleware and
// the optional operator label into requestcontext, and echoes the request id.
func Context(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := chimw.GetReqID(ctx)
		if requestID == "" {
			requestID = strings.TrimSpace(r.Header.Get(HeaderRequestID))
		}
		if requestID != "" {
			ctx = requestcontext.WithRequestID(ctx, requestID)
			w.Header().Set(HeaderRequestID, requestID)
		}
		if op := strings.TrimSpace(r.Header.Get(HeaderOperator)); op != "" {
			if len(op) > maxOperatorLen {
				op = op[:maxOperatorLen]
			}
			ctx = requestcontext.WithOperator(ctx, op)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logger writes one structured line per request.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			level := slog.LevelInfo
			if ww.Status() >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(r.Context(), level, "http request",
				"request_id", GetRequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// GetRequestID returns the request id placed by Context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
