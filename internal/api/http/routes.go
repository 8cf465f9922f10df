package httpapi

import (
	"context"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"

	"github.com/i474232898/temperature-analysis/internal/analysis"
	"github.com/i474232898/temperature-analysis/internal/dashboard"
)

// Analyzer runs the dashboard pipeline for one upload.
type Analyzer interface {
	Run(ctx context.Context, in dashboard.Input) (*dashboard.Report, error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, analyzer Analyzer) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "temperature-analysis",
		})
	})

	v1 := app.Group("/api/v1")

	v1.Get("/cities", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"cities": dashboard.Cities})
	})

	v1.Post("/analysis", func(c *fiber.Ctx) error {
		file, err := readUpload(c, "file")
		if err != nil {
			return err
		}

		report, err := analyzer.Run(c.UserContext(), dashboard.Input{
			File:   file,
			City:   c.FormValue("city"),
			APIKey: c.FormValue("apiKey"),
		})
		if err != nil {
			return err
		}
		return c.JSON(report)
	})
}

// RegisterMetrics exposes the registry on /metrics.
func RegisterMetrics(app *fiber.App, reg *prometheus.Registry) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
}

// readUpload returns the content of a multipart file field. A missing field
// yields nil so that input validation reports it.
func readUpload(c *fiber.Ctx, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
			return nil, nil
		}
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if fh == nil {
		return nil, nil
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "failed to open uploaded file")
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "failed to read uploaded file")
	}
	return b, nil
}

// ErrorHandler renders every error as {"error": true, "message": ...} with a
// status derived from the pipeline error.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, message := statusFor(err)
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, dashboard.ErrInvalidInput), errors.Is(err, analysis.ErrMalformedInput):
		return fiber.StatusBadRequest, dashboard.Describe(err)
	case errors.Is(err, analysis.ErrEmptyInput):
		return fiber.StatusNotFound, dashboard.Describe(err)
	case errors.Is(err, analysis.ErrInsufficientData):
		return fiber.StatusUnprocessableEntity, dashboard.Describe(err)
	default:
		return fiber.StatusInternalServerError, dashboard.Describe(err)
	}
}
