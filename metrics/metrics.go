// Package metrics provides Prometheus metrics collection for the
// request pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for the resource layer.
type Collector struct {
	// RequestsTotal counts processed requests by resource, method and status.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration observes request duration in seconds.
	RequestDuration *prometheus.HistogramVec

	// ErrorsTotal counts serialized error documents by status and code.
	ErrorsTotal *prometheus.CounterVec

	// SideloadsTotal counts internal sideload fetches by child resource.
	SideloadsTotal *prometheus.CounterVec
}

// New creates a collector registered on the default Prometheus registerer.
func New() *Collector {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates a collector registered on the given registerer.
// Tests use a private registry to avoid duplicate registration.
func NewWith(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "declarest",
				Name:      "requests_total",
				Help:      "Total number of requests processed",
			},
			[]string{"resource", "method", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "declarest",
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"resource", "method"},
		),
		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "declarest",
				Name:      "errors_total",
				Help:      "Total number of serialized error documents",
			},
			[]string{"status", "code"},
		),
		SideloadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "declarest",
				Name:      "sideloads_total",
				Help:      "Total number of internal sideload fetches",
			},
			[]string{"child"},
		),
	}
}
