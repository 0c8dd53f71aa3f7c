package core

import (
	"strings"
)

type (
	// Document is the root persisted object: every month partition the
	// ledger has ever seen, keyed by month key.
	Document struct {
		Months map[string]*Month `json:"months"`
	}

	// Month holds one calendar month's budget state. Bucket names and
	// expense hashes are unique within a partition by construction.
	Month struct {
		Buckets  map[string]*Bucket  `json:"buckets"`
		Expenses map[string]*Expense `json:"expenses"`
	}

	// Bucket is a named spending category. Its identity is the map key in
	// Month.Buckets, not a field here.
	Bucket struct {
		Budget float64 `json:"budget"`
	}

	// Expense is a single imported transaction. Bucket is nil while
	// unassigned and serializes as JSON null.
	Expense struct {
		Date        string  `json:"date"`
		Type        string  `json:"type"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Status      string  `json:"status"`
		Bucket      *string `json:"bucket"`
	}

	// RawExpense is a candidate record produced by an ingestion source
	// before it has been deduplicated into a partition.
	RawExpense struct {
		Date        string  `json:"date"`
		Type        string  `json:"type"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Status      string  `json:"status"`
	}
)

// NewDocument returns an empty document ready for its first partition.
func NewDocument() *Document {
	return &Document{Months: make(map[string]*Month)}
}

// NewMonth returns an empty partition.
func NewMonth() *Month {
	return &Month{
		Buckets:  make(map[string]*Bucket),
		Expenses: make(map[string]*Expense),
	}
}

// Expense builds the ledger record for a raw ingested expense, unassigned.
func (r RawExpense) Expense() *Expense {
	return &Expense{
		Date:        r.Date,
		Type:        r.Type,
		Description: r.Description,
		Amount:      r.Amount,
		Status:      r.Status,
		Bucket:      nil,
	}
}

// Pending reports whether the source still considers this record
// unsettled. Pending records never reach the ledger.
func (r RawExpense) Pending() bool {
	return strings.EqualFold(strings.TrimSpace(r.Status), "pending")
}
