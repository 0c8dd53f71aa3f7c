// Package spool reads raw expense batches dropped as JSON files into a
// directory. Exports and scrapers that cannot speak AMQP can feed the
// ledger by writing a file per batch.
package spool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"budgeteer/internal/core"
)

// Source drains *.json files from a directory. Each file holds a JSON
// array of raw expense records and is removed once parsed; a file that
// fails to parse is renamed aside with a .bad suffix so it is not
// retried every cycle.
type Source struct {
	dir string
}

func New(dir string) (*Source, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create spool directory: %w", err)
	}
	return &Source{dir: dir}, nil
}

func (s *Source) Produce(ctx context.Context) ([]core.RawExpense, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan spool directory: %w", err)
	}
	sort.Strings(files)

	var batch []core.RawExpense
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		records, err := readBatchFile(file)
		if err != nil {
			slog.WarnContext(ctx, "Setting aside unreadable spool file", "file", file, "error", err)
			if renameErr := os.Rename(file, file+".bad"); renameErr != nil {
				slog.ErrorContext(ctx, "Failed to set aside spool file", "file", file, "error", renameErr)
			}
			continue
		}
		if err := os.Remove(file); err != nil {
			return batch, fmt.Errorf("consume spool file %s: %w", file, err)
		}
		slog.DebugContext(ctx, "Consumed spool file", "file", file, "records", len(records))
		batch = append(batch, records...)
	}
	return batch, nil
}

func readBatchFile(path string) ([]core.RawExpense, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []core.RawExpense
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse batch: %w", err)
	}
	return records, nil
}
