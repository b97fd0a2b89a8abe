// Package metrics exposes Prometheus counters for the rounds API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	PatientsImportedTotal   prometheus.Counter
	FacilitiesCreatedTotal  prometheus.Counter
	SummariesGeneratedTotal prometheus.Counter
	VisitsMatchedTotal      prometheus.Counter
}

func NewCollector(serviceName string) *Collector {
	return &Collector{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		PatientsImportedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "roster",
			Name:      "patients_imported_total",
			Help:      "Total patients landed by CSV roster imports.",
		}),

		FacilitiesCreatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "roster",
			Name:      "facilities_created_total",
			Help:      "Total facilities synthesized during roster imports.",
		}),

		SummariesGeneratedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "clinical",
			Name:      "summaries_generated_total",
			Help:      "Total clinical note summaries generated.",
		}),

		VisitsMatchedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "rounds",
			Name:      "visits_matched_total",
			Help:      "Total visits confirmed against a patient record.",
		}),
	}
}

// Middleware records per-request counts and latency. The route template
// is used as the path label so ids do not explode cardinality.
func (m *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				}
			}
			labels := []string{c.Request().Method, c.Path(), strconv.Itoa(status)}
			m.RequestsTotal.WithLabelValues(labels...).Inc()
			m.RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
