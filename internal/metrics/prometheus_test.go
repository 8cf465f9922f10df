package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	r := New()

	r.RecordAnalysis("ok", 0.01)
	r.RecordAnalysis("ok", 0.02)
	r.RecordAnalysis("empty_input", 0.001)
	r.RecordAnomalies("Paris", 3)
	r.RecordWeatherRequest("openweathermap", "invalid_api_key")
	r.RecordLiveComparison("skipped")

	if got := testutil.ToFloat64(r.analysesTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("expected 2 ok analyses, got %v", got)
	}
	if got := testutil.ToFloat64(r.anomaliesTotal.WithLabelValues("Paris")); got != 3 {
		t.Errorf("expected 3 anomalies, got %v", got)
	}
	if got := testutil.ToFloat64(r.weatherRequests.WithLabelValues("openweathermap", "invalid_api_key")); got != 1 {
		t.Errorf("expected 1 weather request, got %v", got)
	}

	families, err := r.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 5 {
		t.Errorf("expected 5 metric families, got %d", len(families))
	}

	// A second recorder has its own registry and must not panic on registration.
	_ = New()
}
