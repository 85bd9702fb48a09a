package manager

import "github.com/prometheus/client_golang/prometheus"

var (
	modelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llmbridge",
			Name:      "model_loads_total",
			Help:      "Model load attempts by result",
		},
		[]string{"result"},
	)

	modelLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "llmbridge",
			Name:      "model_loaded",
			Help:      "1 while an engine handle is live",
		},
	)

	generationSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llmbridge",
			Name:      "generation_sessions_total",
			Help:      "Finished generation sessions by outcome",
		},
		[]string{"outcome"},
	)

	generationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "llmbridge",
			Name:      "generation_duration_seconds",
			Help:      "Wall time of generation sessions",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)

	generatedTokensTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "llmbridge",
			Name:      "generated_tokens_total",
			Help:      "Tokens forwarded to the event stream",
		},
	)

	eventsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "llmbridge",
			Name:      "events_dropped_total",
			Help:      "Events emitted while no subscriber was attached",
		},
	)
)

func init() {
	prometheus.MustRegister(
		modelLoadsTotal,
		modelLoaded,
		generationSessionsTotal,
		generationDuration,
		generatedTokensTotal,
		eventsDroppedTotal,
	)
}
