// Package metrics defines the Prometheus collectors recorded by the build and
// query commands and exports them in the node-exporter textfile format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for one command invocation.
type Metrics struct {
	registry *prometheus.Registry

	DocsLoadedTotal   prometheus.Counter
	TermsIndexedTotal prometheus.Counter
	IndexBytesWritten prometheus.Counter
	IndexBytesRead    prometheus.Counter
	BuildDuration     prometheus.Histogram
	LoadDuration      prometheus.Histogram
	QueriesTotal      *prometheus.CounterVec
	QueryResultsCount prometheus.Histogram
	CacheHitsTotal    prometheus.Counter
	CacheMissesTotal  prometheus.Counter
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DocsLoadedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "invindex_documents_loaded_total",
				Help: "Total documents read from the corpus.",
			},
		),
		TermsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "invindex_terms_indexed_total",
				Help: "Total distinct terms written to the index file.",
			},
		),
		IndexBytesWritten: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "invindex_index_bytes_written_total",
				Help: "Bytes written to index files.",
			},
		),
		IndexBytesRead: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "invindex_index_bytes_read_total",
				Help: "Bytes read from index files.",
			},
		),
		BuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "invindex_build_duration_seconds",
				Help:    "Time to load the corpus, build, and dump the index.",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
		),
		LoadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "invindex_load_duration_seconds",
				Help:    "Time to load an index file.",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
		),
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invindex_queries_total",
				Help: "Total queries by result type (hit, zero_result, error).",
			},
			[]string{"result_type"},
		),
		QueryResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "invindex_query_results_count",
				Help:    "Number of document IDs returned per query.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 1000},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "invindex_cache_hits_total",
				Help: "Total number of query cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "invindex_cache_misses_total",
				Help: "Total number of query cache misses.",
			},
		),
	}

	m.registry.MustRegister(
		m.DocsLoadedTotal,
		m.TermsIndexedTotal,
		m.IndexBytesWritten,
		m.IndexBytesRead,
		m.BuildDuration,
		m.LoadDuration,
		m.QueriesTotal,
		m.QueryResultsCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)

	return m
}

// WriteTextfile writes every registered metric to path in the text
// exposition format. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
