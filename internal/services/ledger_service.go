package services

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/store"
)

// Ledger owns the in-memory document as process-wide state, with the
// store as a write-through mirror: loaded once at startup, saved after
// every mutation, never read back during normal operation.
//
// A single mutex serializes the HTTP handlers and the ingestion worker,
// so every mutating operation (including its persist step) completes
// before the next one starts.
type Ledger struct {
	mu     sync.Mutex
	store  store.Store
	doc    *core.Document
	active core.MonthKey
	now    func() time.Time
}

// New loads the document from the store and resolves the active month.
// A malformed store is a fatal startup error.
func New(st store.Store) (*Ledger, error) {
	return NewWithClock(st, time.Now)
}

// NewWithClock is New with an injectable clock, used by tests and month
// rollover checks.
func NewWithClock(st store.Store, now func() time.Time) (*Ledger, error) {
	doc, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	l := &Ledger{store: st, doc: doc, now: now}
	if _, err := l.EnsureCurrentMonth(); err != nil {
		return nil, err
	}
	return l, nil
}

// EnsureCurrentMonth resolves the key for the current calendar month and
// makes sure its partition exists. On rollover the new partition starts
// with empty expenses and a deep copy of the previous month's buckets;
// on first run over an existing document the key is adopted without
// touching the partition. Persists only when a partition was created.
// Idempotent within a calendar month.
func (l *Ledger) EnsureCurrentMonth() (core.MonthKey, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ensureCurrentMonthLocked()
}

func (l *Ledger) ensureCurrentMonthLocked() (core.MonthKey, error) {
	key := core.KeyFor(l.now())
	if _, ok := l.doc.Months[key.String()]; !ok {
		month := core.NewMonth()
		if l.active != "" {
			if prev, ok := l.doc.Months[l.active.String()]; ok {
				month.Buckets = prev.CopyBuckets()
			}
		}
		l.doc.Months[key.String()] = month
		l.active = key
		if err := l.store.Save(l.doc); err != nil {
			return key, fmt.Errorf("persist new month %s: %w", key, err)
		}
		slog.Info("Month partition created", "month", key.String(), "buckets", len(month.Buckets))
		return key, nil
	}
	l.active = key
	return key, nil
}

// month returns the active partition. ensureCurrentMonthLocked has
// always run at least once by the time this is called.
func (l *Ledger) month() *core.Month {
	return l.doc.Months[l.active.String()]
}

// ActiveKey reports the key of the active month partition.
func (l *Ledger) ActiveKey() core.MonthKey {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Buckets returns a snapshot of the active month's buckets.
func (l *Ledger) Buckets() (map[string]core.Bucket, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.ensureCurrentMonthLocked(); err != nil {
		return nil, err
	}
	m := l.month()
	out := make(map[string]core.Bucket, len(m.Buckets))
	for name, b := range m.Buckets {
		out[name] = *b
	}
	return out, nil
}

// Expenses returns a snapshot of the active month's expenses.
func (l *Ledger) Expenses() (map[string]core.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.ensureCurrentMonthLocked(); err != nil {
		return nil, err
	}
	m := l.month()
	out := make(map[string]core.Expense, len(m.Expenses))
	for hash, e := range m.Expenses {
		out[hash] = *e
	}
	return out, nil
}

// AddBucket creates a bucket in the active month and persists.
func (l *Ledger) AddBucket(name, budget string) error {
	return l.mutate(func(m *core.Month) error {
		return m.AddBucket(name, budget)
	})
}

// UpdateBucket renames and/or rebudgets a bucket, cascading a rename to
// every assigned expense, and persists.
func (l *Ledger) UpdateBucket(oldName, newName, newBudget string) error {
	return l.mutate(func(m *core.Month) error {
		return m.UpdateBucket(oldName, newName, newBudget)
	})
}

// DeleteBucket removes a bucket, unassigning its expenses, and persists.
func (l *Ledger) DeleteBucket(name string) error {
	return l.mutate(func(m *core.Month) error {
		return m.DeleteBucket(name)
	})
}

// AssignExpense points an expense at a bucket (or nil) and persists.
func (l *Ledger) AssignExpense(hash string, bucket *string) error {
	return l.mutate(func(m *core.Month) error {
		return m.AssignExpense(hash, bucket)
	})
}

// MergeIngested deduplicates a batch of raw records into the active
// month and persists once for the whole batch. Records already present
// are kept untouched. Returns the records that were actually inserted.
func (l *Ledger) MergeIngested(records []core.RawExpense) ([]core.RawExpense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.ensureCurrentMonthLocked(); err != nil {
		return nil, err
	}
	m := l.month()

	var added []core.RawExpense
	for _, r := range records {
		if _, ok := m.MergeExpense(r); ok {
			added = append(added, r)
		}
	}
	if len(added) == 0 {
		return nil, nil
	}
	if err := l.store.Save(l.doc); err != nil {
		return added, fmt.Errorf("persist merged expenses: %w", err)
	}
	slog.Info("Expenses merged", "month", l.active.String(), "added", len(added), "batch", len(records))
	return added, nil
}

// mutate runs a partition operation under the lock and persists on
// success. Caller-input errors come back unchanged; a failed persist is
// reported as the operation's failure even though the in-memory state
// already carries the change (the next successful save reconciles).
func (l *Ledger) mutate(op func(*core.Month) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.ensureCurrentMonthLocked(); err != nil {
		return err
	}
	if err := op(l.month()); err != nil {
		return err
	}
	if err := l.store.Save(l.doc); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}
