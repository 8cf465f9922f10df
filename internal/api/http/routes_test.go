package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/temperature-analysis/internal/dashboard"
	"github.com/i474232898/temperature-analysis/internal/metrics"
)

func newTestApp(analyzer Analyzer) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, analyzer)
	return app
}

func dailyCSV(city string, n int) string {
	var b strings.Builder
	b.WriteString("city,timestamp,temperature\n")
	start := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%s,%s,%d\n", city, start.AddDate(0, 0, i).Format("2006-01-02"), 10+i%5)
	}
	return b.String()
}

// multipartRequest builds a POST /api/v1/analysis request. An empty csv omits
// the file part.
func multipartRequest(t *testing.T, csv string, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if csv != "" {
		part, err := w.CreateFormFile("file", "temperature_data.csv")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.WriteString(part, csv); err != nil {
			t.Fatal(err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestAnalysisSuccess(t *testing.T) {
	app := newTestApp(dashboard.NewService(nil))

	resp, err := app.Test(multipartRequest(t, dailyCSV("Tokyo", 40), map[string]string{"city": "Tokyo"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var report struct {
		City    string `json:"city"`
		Summary struct {
			Min, Max int
		} `json:"summary"`
		Points []struct {
			MovingAvg *float64 `json:"movingAvg"`
		} `json:"points"`
		Live struct {
			Status string `json:"status"`
		} `json:"live"`
	}
	decodeBody(t, resp, &report)

	if report.City != "Tokyo" || len(report.Points) != 40 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Summary.Min != 10 || report.Summary.Max != 14 {
		t.Errorf("unexpected summary %+v", report.Summary)
	}
	if report.Points[0].MovingAvg != nil {
		t.Error("expected null moving average before the window is full")
	}
	if report.Live.Status != string(dashboard.LiveSkipped) {
		t.Errorf("expected skipped live comparison, got %q", report.Live.Status)
	}
}

func TestAnalysisErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		city   string
		status int
	}{
		{"missing file", "", "Paris", http.StatusBadRequest},
		{"unsupported city", dailyCSV("Paris", 5), "Gotham", http.StatusBadRequest},
		{"malformed temperature", "city,timestamp,temperature\nParis,2024-01-01,warm\n", "Paris", http.StatusBadRequest},
		{"no rows for city", dailyCSV("Paris", 5), "London", http.StatusNotFound},
		{"single row", dailyCSV("Paris", 1), "Paris", http.StatusUnprocessableEntity},
	}

	app := newTestApp(dashboard.NewService(nil))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(multipartRequest(t, tt.csv, map[string]string{"city": tt.city}))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.StatusCode)
			}

			var body struct {
				Error   bool   `json:"error"`
				Message string `json:"message"`
			}
			decodeBody(t, resp, &body)
			if !body.Error || body.Message == "" {
				t.Errorf("unexpected error body %+v", body)
			}
		})
	}
}

type failingAnalyzer struct{}

func (failingAnalyzer) Run(context.Context, dashboard.Input) (*dashboard.Report, error) {
	return nil, fmt.Errorf("boom")
}

func TestAnalysisUnexpectedError(t *testing.T) {
	app := newTestApp(failingAnalyzer{})

	resp, err := app.Test(multipartRequest(t, dailyCSV("Paris", 5), map[string]string{"city": "Paris"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, resp.StatusCode)
	}

	var body map[string]any
	decodeBody(t, resp, &body)
	if body["message"] != "An unexpected error occurred" {
		t.Errorf("internal details must not leak, got %v", body["message"])
	}
}

func TestCitiesAndHealth(t *testing.T) {
	app := newTestApp(dashboard.NewService(nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/cities", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var cities struct {
		Cities []string `json:"cities"`
	}
	decodeBody(t, resp, &cities)
	if len(cities.Cities) != len(dashboard.Cities) || cities.Cities[0] != "New York" {
		t.Errorf("unexpected cities %v", cities.Cities)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := metrics.New()
	app := newTestApp(dashboard.NewService(nil, dashboard.WithRecorder(rec)))
	RegisterMetrics(app, rec.Registry())

	if _, err := app.Test(multipartRequest(t, dailyCSV("Paris", 5), map[string]string{"city": "London"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(b), `temperature_analyses_total{outcome="empty_input"} 1`) {
		t.Errorf("expected analysis counter in metrics output:\n%s", b)
	}
}
