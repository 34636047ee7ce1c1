package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the storefront collectors and the registry they live in
type Metrics struct {
	Registry       *prometheus.Registry
	RemoteRequests *prometheus.CounterVec
	RemoteDuration *prometheus.HistogramVec
	Rollbacks      *prometheus.CounterVec
	LiveStores     prometheus.Gauge
}

// New creates the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,
		RemoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_remote_requests_total",
			Help: "Remote cart API calls by action and outcome.",
		}, []string{"action", "outcome"}),
		RemoteDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_cart_remote_request_duration_seconds",
			Help:    "Remote cart API call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"action"}),
		Rollbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_cart_rollbacks_total",
			Help: "Optimistic cart updates rolled back after a failed remote call.",
		}, []string{"operation"}),
		LiveStores: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_cart_live_stores",
			Help: "Session cart stores held in memory.",
		}),
	}

	reg.MustRegister(m.RemoteRequests, m.RemoteDuration, m.Rollbacks, m.LiveStores)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveRemote records one remote call; m may be nil
func (m *Metrics) ObserveRemote(action, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.RemoteRequests.WithLabelValues(action, outcome).Inc()
	m.RemoteDuration.WithLabelValues(action).Observe(seconds)
}

// RecordRollback counts one rollback; m may be nil
func (m *Metrics) RecordRollback(operation string) {
	if m == nil {
		return
	}
	m.Rollbacks.WithLabelValues(operation).Inc()
}

// SetLiveStores records how many session stores are in memory; m may be nil
func (m *Metrics) SetLiveStores(n int) {
	if m == nil {
		return
	}
	m.LiveStores.Set(float64(n))
}
