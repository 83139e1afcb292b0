package middleware

import (
	"net/http"
	"strconv"
	"time"

	"ecomfleet/pkg/metrics"
)

// Metrics records HTTPRequestsTotal/HTTPRequestDuration (C9) for every
// request that reaches the REST mux, labeled by method+path and status.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := r.Method + " " + r.URL.Path
			m.RecordHTTPRequest(route, strconv.Itoa(rec.status), time.Since(start))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}
