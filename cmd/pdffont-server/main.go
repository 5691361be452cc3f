// Command pdffont-server serves the font checker as a web application.
//
// Usage:
//
//	pdffont-server                          # defaults, listens on :8080
//	pdffont-server -config pdffont.yaml     # with config file
//	PORT=9000 LOG_LEVEL=debug pdffont-server
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

	"github.com/pyhub-apps/pdffont-golang/pkg/checker"
	"github.com/pyhub-apps/pdffont-golang/pkg/config"
	"github.com/pyhub-apps/pdffont-golang/pkg/server"
)

func main() {
	configPath := flag.String("config", env("PDFFONT_CONFIG", ""), "path to pdffont.yaml config file")
	flag.Parse()

	cfg, err := resolveConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdffont-server: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("pdffont-server: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	normalizer, err := cfg.Normalizer()
	if err != nil {
		return fmt.Errorf("fonts: %w", err)
	}

	c, err := checker.New(checker.Config{
		Normalizer: normalizer,
		Report:     cfg.Report,
		Chart:      cfg.ChartOptions(),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	s := server.New(c, server.Config{
		MaxUploadBytes: cfg.MaxUploadBytes(),
		OutputName:     cfg.OutputName,
		Report:         cfg.Report,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("pdffont-server: listening", "addr", cfg.Listen, "target", c.Target(), "max_upload_mb", cfg.MaxUploadMB)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("pdffont-server: shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// resolveConfig loads the config file when given, then applies PORT and LOG_LEVEL.
func resolveConfig(path string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = config.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Listen = ":" + port
	}
	cfg.LogLevel = env("LOG_LEVEL", cfg.LogLevel)
	return cfg, cfg.Validate()
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
