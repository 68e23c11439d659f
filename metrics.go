package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// runMetrics counts what a single run did. It lives in its own registry and is written out as a
// node_exporter textfile when --metrics-file is set.
type runMetrics struct {
	registry       *prometheus.Registry
	discovered     prometheus.Counter
	uploads        *prometheus.CounterVec
	bytesUploaded  prometheus.Counter
	uploadDuration prometheus.Histogram
}

func newRunMetrics() *runMetrics {
	m := &runMetrics{
		registry: prometheus.NewRegistry(),
		discovered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "github_uploader_files_discovered_total",
			Help: "Files found by the walk before filtering",
		}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "github_uploader_uploads_total",
			Help: "Upload attempts by outcome",
		}, []string{"outcome"}),
		bytesUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "github_uploader_bytes_uploaded_total",
			Help: "Bytes of file content accepted by the remote store",
		}),
		uploadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "github_uploader_upload_duration_seconds",
			Help:    "Time spent reading and uploading one file",
			Buckets: prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(m.discovered, m.uploads, m.bytesUploaded, m.uploadDuration)
	return m
}

func (m *runMetrics) observe(res Result, d time.Duration) {
	m.uploads.WithLabelValues(res.Outcome.String()).Inc()
	m.uploadDuration.Observe(d.Seconds())
	if res.OK() {
		m.bytesUploaded.Add(float64(res.Bytes))
	}
}

// writeTextfile atomically writes the registry in the text exposition format.
func (m *runMetrics) writeTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
