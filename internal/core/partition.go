package core

import (
	"strconv"
	"strings"
)

// ParseBudget validates a budget input string. Budgets must parse as a
// number and be strictly positive; zero is rejected outright.
func ParseBudget(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, ErrInvalidBudget
	}
	if v <= 0 {
		return 0, ErrInvalidBudget
	}
	return v, nil
}

// AddBucket inserts a new bucket. Budget arrives as the caller sent it; an
// empty string means it was absent.
func (m *Month) AddBucket(name, budget string) error {
	if _, ok := m.Buckets[name]; ok {
		return ErrDuplicateBucket
	}
	if name == "" {
		return ErrMissingName
	}
	if budget == "" {
		return ErrMissingBudget
	}
	v, err := ParseBudget(budget)
	if err != nil {
		return err
	}
	m.Buckets[name] = &Bucket{Budget: v}
	return nil
}

// UpdateBucket renames and/or rebudgets a bucket. Empty newName or
// newBudget means "leave unchanged". A rename re-keys the bucket map and
// cascades to every expense assigned to the old name; callers observe the
// rename and the cascade as one step.
func (m *Month) UpdateBucket(oldName, newName, newBudget string) error {
	b, ok := m.Buckets[oldName]
	if !ok {
		return ErrNoSuchBucket
	}
	if newName != "" && newName != oldName {
		if _, exists := m.Buckets[newName]; exists {
			return ErrDuplicateBucket
		}
	}

	var budget float64
	if newBudget != "" {
		v, err := ParseBudget(newBudget)
		if err != nil {
			return err
		}
		budget = v
	}

	// All inputs validated; mutations below cannot fail.
	if newName != "" && newName != oldName {
		m.Buckets[newName] = b
		delete(m.Buckets, oldName)
		for _, e := range m.Expenses {
			if e.Bucket != nil && *e.Bucket == oldName {
				name := newName
				e.Bucket = &name
			}
		}
	}
	if newBudget != "" {
		b.Budget = budget
	}
	return nil
}

// DeleteBucket removes a bucket and unassigns (never deletes) every
// expense pointing at it.
func (m *Month) DeleteBucket(name string) error {
	if _, ok := m.Buckets[name]; !ok {
		return ErrNoSuchBucket
	}
	for _, e := range m.Expenses {
		if e.Bucket != nil && *e.Bucket == name {
			e.Bucket = nil
		}
	}
	delete(m.Buckets, name)
	return nil
}

// AssignExpense points an expense at a bucket, or at nil to unassign it.
func (m *Month) AssignExpense(hash string, bucket *string) error {
	e, ok := m.Expenses[hash]
	if !ok {
		return ErrNoSuchExpense
	}
	if bucket != nil {
		if _, exists := m.Buckets[*bucket]; !exists {
			return ErrNoSuchBucket
		}
		name := *bucket
		e.Bucket = &name
		return nil
	}
	e.Bucket = nil
	return nil
}

// MergeExpense inserts a raw record unless its content hash is already
// present; the existing record is never overwritten. Reports the hash and
// whether a new expense was added.
func (m *Month) MergeExpense(r RawExpense) (string, bool) {
	hash := r.Hash()
	if _, ok := m.Expenses[hash]; ok {
		return hash, false
	}
	m.Expenses[hash] = r.Expense()
	return hash, true
}

// CopyBuckets returns a deep copy of the bucket map, used when budgets
// carry forward into a new month partition.
func (m *Month) CopyBuckets() map[string]*Bucket {
	out := make(map[string]*Bucket, len(m.Buckets))
	for name, b := range m.Buckets {
		copied := *b
		out[name] = &copied
	}
	return out
}
