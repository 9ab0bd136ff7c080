// Package metrics holds the prometheus collectors of one console instance.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Registry owns its collectors instead of using the global default registry,
// so several applications can live in one test binary.
type Registry struct {
	reg *prometheus.Registry

	ContentWrites   *prometheus.CounterVec
	MediaUploads    *prometheus.CounterVec
	MediaDeletes    *prometheus.CounterVec
	Backups         *prometheus.CounterVec
	Exports         *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		ContentWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cms_content_writes_total",
			Help: "Content store set operations by result.",
		}, []string{"result"}),
		MediaUploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cms_media_uploads_total",
			Help: "Media uploads by result.",
		}, []string{"result"}),
		MediaDeletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cms_media_deletes_total",
			Help: "Media deletions by result.",
		}, []string{"result"}),
		Backups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cms_backups_total",
			Help: "Backup snapshots by result.",
		}, []string{"result"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cms_exports_total",
			Help: "Data exports by result.",
		}, []string{"result"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cms_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ContentWrites,
		r.MediaUploads,
		r.MediaDeletes,
		r.Backups,
		r.Exports,
		r.RequestDuration,
	)
	return r
}

// Handler serves the registry in the prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Observe increments c with ok/error depending on err. Nil receivers are
// allowed so services can run without metrics in tests.
func Observe(c *prometheus.CounterVec, err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.WithLabelValues(ResultError).Inc()
		return
	}
	c.WithLabelValues(ResultOK).Inc()
}
