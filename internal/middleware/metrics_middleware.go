package middleware

import (
	"net/http"
	"strconv"
	"time"

	"notes-api/pkg/metrics"

	"github.com/gorilla/mux"
)

// MetricsMiddleware labels requests by route template so path ids do not
// blow up label cardinality.
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}

			m.RequestsInFlight.Inc()
			defer m.RequestsInFlight.Dec()

			start := time.Now()
			rw := wrapResponseWriter(w)

			next.ServeHTTP(rw, r)

			m.RequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
			m.RequestCounter.WithLabelValues(route, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		})
	}
}
