// budgeteer-feeder publishes a batch of raw expense records to the
// ingestion queue. A scraper or bank-export script writes the records
// as a JSON array, then pipes or points this tool at them.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"budgeteer/internal/amqp"
	"budgeteer/internal/config"
	"budgeteer/internal/core"
	applog "budgeteer/internal/log"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(slog.LevelInfo).WithComponent(applog.ComponentFeeder)
	applog.SetDefault(logger)

	file := flag.String("file", "-", "path to a JSON array of raw expense records, - for stdin")
	source := flag.String("source", "feeder", "source label stamped on the batch")
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	records, err := readRecords(*file)
	if err != nil {
		logger.Error("Failed to read records", "error", err, "file", *file)
		os.Exit(1)
	}
	if len(records) == 0 {
		logger.Info("No records to publish")
		return
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := client.PublishRawExpenses(ctx, *source, records); err != nil {
		logger.Error("Failed to publish batch", "error", err)
		os.Exit(1)
	}
	logger.Info("Batch published", "records", len(records), "queue", cfg.AMQPQueue)
}

func readRecords(path string) ([]core.RawExpense, error) {
	var reader io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}

	var records []core.RawExpense
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}
	return records, nil
}
