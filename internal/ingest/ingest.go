// Package ingest defines where raw expense records come from and how a
// fetched batch is narrowed down before it reaches the ledger.
package ingest

import (
	"context"

	"budgeteer/internal/core"
)

// Source produces one batch of raw expense records per call. A source
// that currently has nothing to offer returns an empty batch, not an
// error.
type Source interface {
	Produce(ctx context.Context) ([]core.RawExpense, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]core.RawExpense, error)

func (f SourceFunc) Produce(ctx context.Context) ([]core.RawExpense, error) {
	return f(ctx)
}

// None is a Source that never produces anything, used when ingestion is
// disabled.
var None Source = SourceFunc(func(context.Context) ([]core.RawExpense, error) {
	return nil, nil
})

// ExcludePending drops records still marked pending by the upstream
// institution; their amount or description may change before they post,
// which would change their identity hash.
func ExcludePending(records []core.RawExpense) []core.RawExpense {
	out := records[:0:0]
	for _, r := range records {
		if !r.Pending() {
			out = append(out, r)
		}
	}
	return out
}

// FilterForMonth keeps only records dated inside the given month.
func FilterForMonth(records []core.RawExpense, key core.MonthKey) []core.RawExpense {
	out := records[:0:0]
	for _, r := range records {
		if key.Covers(r.Date) {
			out = append(out, r)
		}
	}
	return out
}
