package prometheus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		1, 5, 10, 25, // Regex-only passes
		50, 100, 250, // Model inference
		500, 1000, 2500, // Slow inference or LLM calls
		5000, 10000, 30000, // Retries / timeouts
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "privacyguard_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"path", "method", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "privacyguard_latency_ms",
			Help:    "Request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"path"},
	)

	OperationTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "privacyguard_operations_total",
			Help: "Anonymize and deanonymize operations by outcome",
		},
		[]string{"operation", "status"},
	)

	EntitiesTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "privacyguard_entities_total",
			Help: "Entities replaced, by label",
		},
		[]string{"label"},
	)

	DetectorLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "privacyguard_detector_latency_ms",
			Help:    "Time spent in each detector in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"detector"},
	)

	DetectorFailures = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "privacyguard_detector_failures_total",
			Help: "Detector calls that failed and were skipped",
		},
		[]string{"detector"},
	)
)

type MetricsConfig struct {
	EnableLatency  bool // Request and operation latency
	EnableDetector bool // Per-detector latency and failures
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency:  true,
		EnableDetector: true,
	}
}

var Config = DefaultMetricsConfig()

var initOnce sync.Once

func Initialize(cfg MetricsConfig) {
	Config = cfg
	initOnce.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
		prometheus.DefaultRegisterer = registry
		prometheus.DefaultGatherer = registry
	})
}

// Registry exposes the gatherer backing the metrics endpoint.
func Registry() *prometheus.Registry {
	return registry
}
