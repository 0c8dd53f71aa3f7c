// Package worker runs the periodic ingestion cycle: roll the month if
// the calendar moved on, pull a batch from the configured source, and
// merge it into the ledger.
package worker

import (
	"context"
	"log/slog"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/ingest"
	"budgeteer/internal/services"
)

// Mirror receives newly merged expenses for best-effort export.
type Mirror interface {
	AppendExpenses(ctx context.Context, month string, records []core.RawExpense) error
}

// IngestWorker drives the fetch loop. Cycles run inline on the ticker
// goroutine, so a slow source delays the next cycle instead of
// overlapping it.
type IngestWorker struct {
	ledger   *services.Ledger
	source   ingest.Source
	mirror   Mirror
	interval time.Duration
}

func NewIngestWorker(ledger *services.Ledger, source ingest.Source, mirror Mirror, interval time.Duration) *IngestWorker {
	return &IngestWorker{
		ledger:   ledger,
		source:   source,
		mirror:   mirror,
		interval: interval,
	}
}

// Run executes one cycle immediately, then one per interval until ctx
// is cancelled. Cycle failures are logged, never fatal; the next tick
// retries from scratch.
func (w *IngestWorker) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Ingestion worker started", "interval", w.interval)

	w.runCycle(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Ingestion worker stopped")
			return ctx.Err()
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

func (w *IngestWorker) runCycle(ctx context.Context) {
	key, err := w.ledger.EnsureCurrentMonth()
	if err != nil {
		slog.ErrorContext(ctx, "Failed to roll month partition", "error", err)
		return
	}

	records, err := w.source.Produce(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to fetch expense batch", "error", err)
		return
	}
	if len(records) == 0 {
		slog.DebugContext(ctx, "Ingestion cycle found nothing to merge", "month", key.String())
		return
	}

	fetched := len(records)
	records = ingest.ExcludePending(records)
	records = ingest.FilterForMonth(records, key)

	added, err := w.ledger.MergeIngested(records)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to merge expense batch", "error", err)
		return
	}

	slog.InfoContext(ctx, "Ingestion cycle complete",
		"month", key.String(),
		"fetched", fetched,
		"eligible", len(records),
		"added", len(added))

	if w.mirror != nil && len(added) > 0 {
		if err := w.mirror.AppendExpenses(ctx, key.String(), added); err != nil {
			slog.WarnContext(ctx, "Failed to mirror merged expenses", "error", err)
		}
	}
}
