package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 推荐管线指标。resolved_by区分结构化短路和语义链路，
// 成本控制是否生效直接看这两条曲线的比例。
var (
	PredictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "toolhub",
		Subsystem: "recommend",
		Name:      "predictions_total",
		Help:      "Total prediction requests by resolution path",
	}, []string{"resolved_by"})

	PredictionLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "toolhub",
		Subsystem: "recommend",
		Name:      "prediction_latency_seconds",
		Help:      "Prediction latency by resolution path",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 3.0, 5.0},
	}, []string{"resolved_by"})

	PredictedToolCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "toolhub",
		Subsystem: "recommend",
		Name:      "predicted_tool_count",
		Help:      "Number of tools returned per prediction",
		Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
	})

	ClassificationDegradedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "toolhub",
		Subsystem: "recommend",
		Name:      "classification_degraded_total",
		Help:      "Times LLM classification degraded to unknown",
	})

	EmbeddingFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "toolhub",
		Subsystem: "recommend",
		Name:      "embedding_fallback_total",
		Help:      "Times embedding degraded to the local hash vector",
	})

	CatalogReloadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "toolhub",
		Subsystem: "catalog",
		Name:      "reload_total",
		Help:      "Catalog snapshot reloads by result",
	}, []string{"result"})

	CatalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "toolhub",
		Subsystem: "catalog",
		Name:      "size",
		Help:      "Number of enabled tools in the active catalog snapshot",
	})
)
