package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder records pipeline and weather client metrics in Prometheus.
type Recorder struct {
	registry *prometheus.Registry

	analysesTotal   *prometheus.CounterVec
	analysisLatency prometheus.Histogram
	anomaliesTotal  *prometheus.CounterVec
	weatherRequests *prometheus.CounterVec
	liveComparisons *prometheus.CounterVec
}

// New creates a Recorder backed by its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		analysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "temperature_analyses_total",
				Help: "Total number of pipeline runs by outcome",
			},
			[]string{"outcome"},
		),
		analysisLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "temperature_analysis_duration_seconds",
				Help:    "Duration of a full pipeline run in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		anomaliesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "temperature_anomalies_flagged_total",
				Help: "Total number of historical readings flagged as anomalous",
			},
			[]string{"city"},
		),
		weatherRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "temperature_weather_requests_total",
				Help: "Total number of weather provider calls by outcome",
			},
			[]string{"provider", "outcome"},
		),
		liveComparisons: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "temperature_live_comparisons_total",
				Help: "Total number of live comparisons by status",
			},
			[]string{"status"},
		),
	}
}

// Registry exposes the registry for the /metrics handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordAnalysis records a finished pipeline run.
func (r *Recorder) RecordAnalysis(outcome string, seconds float64) {
	r.analysesTotal.WithLabelValues(outcome).Inc()
	r.analysisLatency.Observe(seconds)
}

// RecordAnomalies adds flagged readings for a city.
func (r *Recorder) RecordAnomalies(city string, n int) {
	r.anomaliesTotal.WithLabelValues(city).Add(float64(n))
}

// RecordWeatherRequest implements weather.RequestRecorder.
func (r *Recorder) RecordWeatherRequest(provider, outcome string) {
	r.weatherRequests.WithLabelValues(provider, outcome).Inc()
}

// RecordLiveComparison records the status of a live comparison.
func (r *Recorder) RecordLiveComparison(status string) {
	r.liveComparisons.WithLabelValues(status).Inc()
}
