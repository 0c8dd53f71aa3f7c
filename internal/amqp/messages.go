package amqp

import (
	"encoding/json"
	"time"

	"budgeteer/internal/core"
)

// RawExpenseBatch is the wire message carrying one batch of scraped
// expense records toward the ledger.
type RawExpenseBatch struct {
	Source    string            `json:"source"`
	Timestamp time.Time         `json:"timestamp"`
	Records   []core.RawExpense `json:"records"`
}

// NewRawExpenseBatch wraps records in a batch message stamped now.
func NewRawExpenseBatch(source string, records []core.RawExpense) *RawExpenseBatch {
	return &RawExpenseBatch{
		Source:    source,
		Timestamp: time.Now(),
		Records:   records,
	}
}

// ToJSON converts the batch to JSON bytes.
func (m *RawExpenseBatch) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RawExpenseBatchFromJSON parses a batch from JSON bytes.
func RawExpenseBatchFromJSON(data []byte) (*RawExpenseBatch, error) {
	var msg RawExpenseBatch
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
