package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type logContextKey string

// LoggerKey holds the request-scoped *slog.Logger in a request context.
const LoggerKey = logContextKey("logger")

// RequestIDHeader carries the correlation id in both directions.
const RequestIDHeader = "X-Request-ID"

// statusRecorder remembers what the handler sent so it can be logged afterwards.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(p []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(p)
	sr.bytes += n
	return n, err
}

// Logging attaches a logger tagged with the request's correlation id to the
// context and logs one line when the request starts and one when it ends.
// Server errors end at ERROR, client errors at WARN.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		logger := slog.Default().With(
			slog.String("correlation_id", requestID),
			slog.String("http_method", r.Method),
			slog.String("http_path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("user_agent", r.UserAgent()),
		)
		logger.Info("Incoming request")

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(WithLogger(r.Context(), logger)))

		logger.Log(r.Context(), completionLevel(rec.status), "Request completed",
			slog.Int("http_status", rec.status),
			slog.Int("response_bytes", rec.bytes),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func completionLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// LoggerFromContext falls back to slog.Default outside a logged request.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return logger
	}

	return slog.Default()
}
