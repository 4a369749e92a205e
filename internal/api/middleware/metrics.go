package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/freigent-ai/freigent/internal/metrics"
)

// statusWriter wraps http.ResponseWriter to capture status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Metrics returns middleware that records Prometheus metrics.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		metrics.HTTPRequestsTotal.WithLabelValues(
			r.Method, path, strconv.Itoa(wrapped.status),
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(
			r.Method, path,
		).Observe(duration)
	})
}

// normalizePath normalizes paths to avoid high cardinality in metrics.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/freigent/"):
		rest := strings.TrimPrefix(path, "/freigent/")
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return "/freigent/:user_id/" + rest[i+1:]
		}
		return "/freigent/:user_id"
	case strings.HasPrefix(path, "/hub/a2a/inbox/"):
		return "/hub/a2a/inbox/:agent_id"
	}
	return path
}
