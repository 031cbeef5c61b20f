package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query pipeline Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memovox",
			Name:      "queries_total",
			Help:      "Total number of processed queries",
		},
		[]string{"intent", "status"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "memovox",
			Name:      "query_duration_seconds",
			Help:      "End-to-end query processing duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"intent"},
	)

	ParserFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "memovox",
			Name:      "parser_fallbacks_total",
			Help:      "Times the rule-based query parser was used after a generative parse failure",
		},
	)

	TranscriptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memovox",
			Name:      "transcriptions_total",
			Help:      "Total number of audio transcription requests",
		},
		[]string{"model", "status"},
	)

	TranscriptionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "memovox",
			Name:      "transcription_duration_seconds",
			Help:      "Audio transcription request duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"model"},
	)
)

var queryMetricsRegistered bool

// RegisterQueryMetrics registers Prometheus query metrics. Must be called once from main.
func RegisterQueryMetrics() {
	if queryMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(ParserFallbacksTotal)
	prometheus.MustRegister(TranscriptionsTotal)
	prometheus.MustRegister(TranscriptionDuration)
	queryMetricsRegistered = true
}
