// Package metric provides Prometheus metrics for one ast-keyaudit run.
package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "keyaudit"

// Registry holds all metrics of a run.
// A nil *Registry is valid and records nothing.
type Registry struct {
	registry *prometheus.Registry

	// Identity provider HTTP calls, labelled by status code and method.
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Token endpoint exchanges, labelled by result (ok, error).
	TokenExchanges *prometheus.CounterVec

	// Export results.
	SessionsExported prometheus.Gauge
	LastSuccess      prometheus.Gauge
}

// NewRegistry creates a registry with all metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "idp",
			Name:      "requests_total",
			Help:      "Requests sent to the identity provider.",
		}, []string{"code", "method"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "idp",
			Name:      "request_duration_seconds",
			Help:      "Latency of identity provider requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		TokenExchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_exchanges_total",
			Help:      "API key to bearer token exchanges.",
		}, []string{"result"}),
		SessionsExported: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_exported",
			Help:      "API key sessions written to the report by the last run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful export.",
		}),
	}

	r.registry.MustRegister(
		r.RequestsTotal,
		r.RequestDuration,
		r.TokenExchanges,
		r.SessionsExported,
		r.LastSuccess,
	)
	return r
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// InstrumentTransport wraps next so every identity provider call is counted and timed.
func (r *Registry) InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if r == nil {
		return next
	}
	return promhttp.InstrumentRoundTripperCounter(r.RequestsTotal,
		promhttp.InstrumentRoundTripperDuration(r.RequestDuration, next))
}

// TokenExchanged records one token endpoint exchange.
func (r *Registry) TokenExchanged(ok bool) {
	if r == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	r.TokenExchanges.WithLabelValues(result).Inc()
}

// Exported records a successful export of n sessions at t.
func (r *Registry) Exported(n int, t time.Time) {
	if r == nil {
		return
	}
	r.SessionsExported.Set(float64(n))
	r.LastSuccess.Set(float64(t.Unix()))
}

// WriteTextfile writes the registry to path in the text exposition format.
// The file is written to a temporary name and renamed into place.
func (r *Registry) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
