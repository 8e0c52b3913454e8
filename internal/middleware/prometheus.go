// AngelaMos | 2026
// prometheus.go

package middleware

import (
	"net/http"
	"time"

	"github.com/carterperez-dev/templates/catalog-admin/internal/metrics"
)

func Prometheus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrap := wrapResponseWriter(w)

		next.ServeHTTP(wrap, r)

		if r.URL.Path == "/metrics" {
			return
		}

		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		metrics.RecordRequest(r.Method, path, wrap.status, time.Since(start).Seconds())
	})
}
