package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookshelf/internal/config"
	"bookshelf/internal/events"
	"bookshelf/internal/logger"
	"bookshelf/internal/platform/googlebooks"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.SetDefault(log)

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var publisher events.Publisher = events.Nop{}
	if cfg.KafkaBroker != "" {
		producer := events.NewKafkaProducer(cfg.KafkaBroker, cfg.KafkaTopic, cfg.StorageNamespace)
		defer func() {
			if err := producer.Close(); err != nil {
				slog.Warn("close kafka producer", "error", err)
			}
		}()
		publisher = producer
		slog.Info("publishing library events", "broker", cfg.KafkaBroker, "topic", cfg.KafkaTopic)
	}

	client := googlebooks.NewClient(cfg.GoogleBooksBaseURL, cfg.GoogleBooksAPIKey, cfg.CatalogRPS, cfg.CatalogTimeout)
	if cfg.GoogleBooksAPIKey == "" {
		slog.Warn("GOOGLE_BOOKS_API_KEY is not set, catalog calls are anonymous")
	}

	limiter := newRateLimiter(cfg)
	defer limiter.Stop()

	handler := newRouter(routerDeps{
		cfg:       cfg,
		store:     store,
		client:    client,
		publisher: publisher,
		limiter:   limiter,
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.CatalogTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.Addr, "storage", cfg.StorageDriver, "namespace", cfg.StorageNamespace)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
