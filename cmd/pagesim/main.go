// Command pagesim replays generated workloads against
// every cache policy and prints their hit ratios.
//
// Usage:
//
//	pagesim [-config pagesim.yaml] [-log-level info] [-log-format text] [-listen :9090]
//
// Without -config, a built-in comparison over a Zipf
// and a looping workload is run. With -listen, the final
// counters of every cache are served in the Prometheus
// exposition format until the process is interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/djdv/go-pagecache/internal/sim"
	"github.com/djdv/go-pagecache/metrics"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML simulation config (built-in comparison if empty)")
		logLevel   = flag.String("log-level", "info", "log level (debug, info, warn, error)")
		logFormat  = flag.String("log-format", "text", "log format (text, json)")
		listen     = flag.String("listen", "", "address to serve Prometheus metrics on after the run")
	)
	flag.Parse()

	logger := setupLogger(*logLevel, *logFormat)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *listen); err != nil {
		logger.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, listen string) error {
	config := sim.DefaultConfig()
	if configPath != "" {
		var err error
		if config, err = sim.LoadConfig(configPath); err != nil {
			return err
		}
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	backing, closeStore, err := sim.OpenStore(ctx, config.Store, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	runner, err := sim.NewRunner(config, backing, logger)
	if err != nil {
		return err
	}
	start := time.Now()
	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("simulation finished",
		"runs", len(report.Results),
		"elapsed", time.Since(start))
	if err := report.WriteTable(os.Stdout); err != nil {
		return err
	}

	if listen == "" {
		return nil
	}
	return serveMetrics(ctx, logger, listen, report)
}

// serveMetrics exposes the counters of report until ctx is done.
func serveMetrics(ctx context.Context, logger *slog.Logger, address string, report *sim.Report) error {
	collector, err := report.Collector(metrics.DefaultNamespace)
	if err != nil {
		return err
	}
	registry := prometheus.NewRegistry()
	if err := registry.Register(collector); err != nil {
		return fmt.Errorf("failed to register cache collector: %w", err)
	}
	registry.MustRegister(collectors.NewGoCollector())

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "address", address)
		errs <- server.ListenAndServe()
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down metrics server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func setupLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: level == "debug",
	}
	// Logs go to stderr so the result table
	// on stdout stays machine readable.
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
