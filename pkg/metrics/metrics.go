// Package metrics exposes Prometheus collectors for the API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the application's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests      *prometheus.CounterVec
	StatementImports  *prometheus.CounterVec
	TransactionsSaved prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spendee_http_requests_total",
			Help: "HTTP requests processed, partitioned by method, route and status.",
		}, []string{"method", "route", "status"}),
		StatementImports: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "spendee_statement_imports_total",
			Help: "M-Pesa statement import attempts, partitioned by outcome.",
		}, []string{"outcome"}),
		TransactionsSaved: factory.NewCounter(prometheus.CounterOpts{
			Name: "spendee_statement_transactions_saved_total",
			Help: "Transactions persisted by statement imports.",
		}),
	}
}

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
