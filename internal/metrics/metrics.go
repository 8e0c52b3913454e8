// AngelaMos | 2026
// metrics.go

package metrics

import (
	"net/http"
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// AuditAppended counts audit entries durably written, by action.
	AuditAppended = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_entries_appended_total",
			Help: "Audit log entries appended",
		},
		[]string{"action"},
	)

	AuditFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_append_failures_total",
			Help: "Audit log appends that failed after the primary mutation",
		},
		[]string{"action"},
	)

	AuditPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_entries_purged_total",
			Help: "Audit log entries removed by retention purges",
		},
	)
)

var (
	idPathSegment = regexp.MustCompile(
		`/([0-9]+|[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})(/|$)`,
	)
	initOnce sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestDuration,
			RequestTotal,
			AuditAppended,
			AuditFailures,
			AuditPurged,
		)
	})
}

// NormalizePath replaces numeric and UUID segments with {id}.
// /api/products/0f8c.../image -> /api/products/{id}/image
func NormalizePath(path string) string {
	for {
		next := idPathSegment.ReplaceAllString(path, "/{id}$2")
		if next == path {
			return next
		}
		path = next
	}
}

func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

func IncAuditAppended(action string) {
	AuditAppended.WithLabelValues(action).Inc()
}

func IncAuditFailure(action string) {
	AuditFailures.WithLabelValues(action).Inc()
}

func AddAuditPurged(n int64) {
	if n > 0 {
		AuditPurged.Add(float64(n))
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
