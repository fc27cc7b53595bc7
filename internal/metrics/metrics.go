// Package metrics provides Prometheus metrics for the question-answering service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
	// ResultReused marks a build request answered from an existing index.
	ResultReused = "reused"
	// ResultRejected marks a question asked before the index exists.
	ResultRejected = "rejected"
)

// Metrics lives on its own registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	IndexBuildsTotal    *prometheus.CounterVec
	IndexBuildDuration  prometheus.Histogram
	IndexedChunks       prometheus.Gauge
	QuestionsTotal      *prometheus.CounterVec
	ComposeDuration     prometheus.Histogram
	RetrievalDuration   prometheus.Histogram
	ActiveSessions      prometheus.Gauge
	EmbeddingCacheTotal *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		IndexBuildsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "censusqa_index_builds_total",
				Help: "Index build requests by result",
			},
			[]string{"result"},
		),
		IndexBuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "censusqa_index_build_duration_seconds",
			Help:    "Duration of ingest, chunk, embed and index build",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		IndexedChunks: factory.NewGauge(prometheus.GaugeOpts{
			Name: "censusqa_indexed_chunks",
			Help: "Chunks held by the most recently built index",
		}),
		QuestionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "censusqa_questions_total",
				Help: "Submitted questions by result",
			},
			[]string{"result"},
		),
		ComposeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "censusqa_compose_duration_seconds",
			Help:    "Duration of the chat-completion call",
			Buckets: prometheus.DefBuckets,
		}),
		RetrievalDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "censusqa_retrieval_duration_seconds",
			Help:    "Duration of query embedding plus similarity search",
			Buckets: prometheus.DefBuckets,
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "censusqa_active_sessions",
			Help: "Sessions currently held in memory",
		}),
		EmbeddingCacheTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "censusqa_embedding_cache_total",
				Help: "Query-embedding cache lookups by outcome",
			},
			[]string{"outcome"},
		),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
