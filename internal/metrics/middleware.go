package metrics

import (
	"net/http"
	"strings"
	"time"
)

// UnmatchedRoute labels requests no registered route served.
const UnmatchedRoute = "unmatched"

// statusRecorder remembers the first status code written to the response.
type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

// routeLabel returns the ServeMux pattern that served r, without its method
// prefix. Raw paths carry symbols and would make the label set unbounded.
// Only valid once the mux has routed r.
func routeLabel(r *http.Request) string {
	pattern := r.Pattern
	if pattern == "" {
		return UnmatchedRoute
	}
	if _, route, ok := strings.Cut(pattern, " "); ok {
		return strings.TrimLeft(route, " ")
	}
	return pattern
}

// HTTPMiddleware records request count, latency and in-flight gauge, labelled
// by method and matched route.
func HTTPMiddleware(reg *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reg.InFlightInc()
			defer reg.InFlightDec()

			start := time.Now()
			rw := newStatusRecorder(w)
			next.ServeHTTP(rw, r)

			reg.RecordRequest(r.Method, routeLabel(r), rw.statusCode, time.Since(start).Seconds())
		})
	}
}
