// Package trace assigns a request id to every HTTP request and logs its
// start and completion.
package trace

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"spendwise/internal/log"

	"github.com/google/uuid"
)

// HeaderRequestID is echoed on every response.
const HeaderRequestID = "X-Request-ID"

type contextKey struct{}

// Middleware handles request tracing and logging
type Middleware struct {
	extractIP func(*http.Request) string
	total     atomic.Int64
	lastMs    atomic.Int64
}

// Metrics is a snapshot of request counters.
type Metrics struct {
	TotalRequests  int64
	LastDurationMs int64
}

func NewMiddleware(extractIP func(*http.Request) string) *Middleware {
	return &Middleware{extractIP: extractIP}
}

// Handler wraps next. An incoming X-Request-ID is kept when it parses as a
// UUID; otherwise a new one is generated.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		ctx := context.WithValue(r.Context(), contextKey{}, requestID)
		logger := log.FromContext(ctx).With(log.FieldRequestID, requestID)
		ctx = log.NewContext(ctx, logger)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		logger.DebugContext(ctx, "HTTP request started",
			log.NewFields().
				WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).
				WithClientIP(clientIP).
				Args()...)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		m.total.Add(1)
		m.lastMs.Store(duration.Milliseconds())

		level := slog.LevelInfo
		switch {
		case rw.statusCode >= 500:
			level = slog.LevelError
		case rw.statusCode >= 400:
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "HTTP request completed",
			log.NewFields().
				WithHTTPRequest(r.Method, r.URL.Path, "", "").
				WithHTTPResponse(rw.statusCode, duration.Milliseconds()).
				WithClientIP(clientIP).
				Args()...)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// RequestID extracts the request ID from context
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKey{}).(string); ok {
		return id
	}
	return ""
}

// RequestIDFromRequest is RequestID for an *http.Request.
func RequestIDFromRequest(r *http.Request) string {
	return RequestID(r.Context())
}

func (m *Middleware) Metrics() Metrics {
	return Metrics{
		TotalRequests:  m.total.Load(),
		LastDurationMs: m.lastMs.Load(),
	}
}
