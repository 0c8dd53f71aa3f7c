package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"budgeteer/internal/amqp"
	"budgeteer/internal/backend"
	"budgeteer/internal/config"
	"budgeteer/internal/export/sheets"
	apphttp "budgeteer/internal/http"
	"budgeteer/internal/ingest"
	"budgeteer/internal/ingest/spool"
	applog "budgeteer/internal/log"
	"budgeteer/internal/services"
	"budgeteer/internal/worker"
	"budgeteer/web"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(slog.LevelInfo)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := backend.NewFactory(logger.WithComponent(applog.ComponentStore).Logger).CreateStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Store cleanup failed", "error", err)
			}
		}()
	}

	ledger, err := services.New(result.Store)
	if err != nil {
		logger.Error("Failed to load ledger", "error", err)
		os.Exit(1)
	}
	logger.Info("Ledger loaded", "month", ledger.ActiveKey().String())

	source, sourceCleanup, err := buildSource(cfg)
	if err != nil {
		logger.Error("Failed to initialize ingestion source", "error", err, "source", cfg.IngestSource)
		os.Exit(1)
	}
	if sourceCleanup != nil {
		defer func() {
			if err := sourceCleanup(); err != nil {
				logger.Error("Ingestion source cleanup failed", "error", err)
			}
		}()
	}

	var mirror worker.Mirror
	if cfg.MirrorEnabled() {
		client, err := sheets.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize spreadsheet mirror", "error", err)
			os.Exit(1)
		}
		mirror = client
		logger.Info("Spreadsheet mirror enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	}

	static, err := web.Static()
	if err != nil {
		logger.Error("Failed to load embedded assets", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        apphttp.NewRouter(apphttp.NewHandler(ledger), static),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting budgeteer server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := worker.NewIngestWorker(ledger, source, mirror, cfg.FetchInterval).Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// buildSource picks the ingestion source from configuration.
func buildSource(cfg *config.Config) (ingest.Source, func() error, error) {
	switch cfg.IngestSource {
	case "amqp":
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	case "spool":
		src, err := spool.New(cfg.SpoolDir)
		if err != nil {
			return nil, nil, err
		}
		return src, nil, nil
	default:
		return ingest.None, nil, nil
	}
}
