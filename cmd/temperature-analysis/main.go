package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/temperature-analysis/internal/api/http"
	"github.com/i474232898/temperature-analysis/internal/dashboard"
	"github.com/i474232898/temperature-analysis/internal/scheduler"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "temperature-analysis",
		Short:         "Historical temperature analysis with live anomaly checks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults to CONFIG_FILE)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a CSV file for one city",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			city, _ := cmd.Flags().GetString("city")
			apiKey, _ := cmd.Flags().GetString("api-key")
			output, _ := cmd.Flags().GetString("output")
			return analyze(cmd.Context(), configPath, file, city, apiKey, output)
		},
	}
	analyzeCmd.Flags().StringP("file", "f", "", "CSV file with city, timestamp and temperature columns")
	analyzeCmd.Flags().StringP("city", "c", "", "city to analyze")
	analyzeCmd.Flags().StringP("api-key", "k", "", "OpenWeatherMap API key for the live comparison")
	analyzeCmd.Flags().StringP("output", "o", "text", "output format (text, json)")
	_ = analyzeCmd.MarkFlagRequired("file")
	_ = analyzeCmd.MarkFlagRequired("city")

	citiesCmd := &cobra.Command{
		Use:   "cities",
		Short: "List the supported cities",
		Run: func(cmd *cobra.Command, args []string) {
			for _, c := range dashboard.Cities {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
		},
	}

	rootCmd.AddCommand(serveCmd, analyzeCmd, citiesCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func serve(ctx context.Context, configPath string) error {
	a, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()

	cities := a.cfg.RefreshCities
	if len(cities) == 0 {
		cities = dashboard.Cities
	}
	var pruner scheduler.Pruner
	if a.memory != nil {
		pruner = a.memory
	}
	sched := scheduler.New(cities, a.cfg.CoordinatesRefreshInterval, a.cfg.OpenWeatherAPIKey, a.client, pruner, a.log)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "temperature-analysis",
		DisableStartupMessage: true,
		BodyLimit:             a.cfg.MaxUploadBytes,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, a.service)
	if a.cfg.MetricsEnabled {
		httpapi.RegisterMetrics(app, a.recorder.Registry())
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("port", a.cfg.Port).Msg("http server listening")
		errCh <- app.Listen(":" + a.cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		a.log.Error().Err(err).Msg("error during shutdown")
		return err
	}
	a.log.Info().Msg("http server stopped")
	return nil
}

func analyze(ctx context.Context, configPath, file, city, apiKey, output string) error {
	if output != "text" && output != "json" {
		return fmt.Errorf("unknown output format %q", output)
	}

	a, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	report, err := a.service.Run(ctx, dashboard.Input{File: data, City: city, APIKey: apiKey})
	if err != nil {
		return errors.New(dashboard.Describe(err))
	}

	if output == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return dashboard.RenderText(os.Stdout, report)
}
