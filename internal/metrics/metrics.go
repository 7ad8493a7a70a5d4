// Package metrics holds the Prometheus collectors of the upload relay.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload results recorded by Recorder.Upload.
const (
	ResultSuccess      = "success"
	ResultBadRequest   = "bad_request"
	ResultParseError   = "parse_error"
	ResultStorageError = "storage_error"
)

// Recorder records relay metrics into its own registry.
type Recorder struct {
	registry     *prometheus.Registry
	uploads      *prometheus.CounterVec
	uploadBytes  prometheus.Histogram
	httpDuration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with Go and process collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imagerelay",
			Name:      "uploads_total",
			Help:      "Upload requests by result.",
		}, []string{"result"}),
		uploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "imagerelay",
			Name:      "upload_size_bytes",
			Help:      "Size of files relayed to object storage.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "imagerelay",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route, method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}

	r.registry.MustRegister(
		r.uploads,
		r.uploadBytes,
		r.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Upload counts one upload request with the given result.
func (r *Recorder) Upload(result string) {
	r.uploads.WithLabelValues(result).Inc()
}

// UploadSize observes the size of a stored file.
func (r *Recorder) UploadSize(size int) {
	r.uploadBytes.Observe(float64(size))
}

// Request observes one served HTTP request.
func (r *Recorder) Request(route, method string, status int, d time.Duration) {
	r.httpDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
