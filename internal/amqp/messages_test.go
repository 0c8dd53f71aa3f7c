package amqp

import (
	"testing"
	"time"

	"budgeteer/internal/core"
)

func TestRawExpenseBatchRoundTrip(t *testing.T) {
	msg := NewRawExpenseBatch("chase-export", []core.RawExpense{
		{Date: "3/2/2024", Type: "Debit", Description: "GROCER", Amount: 42.5, Status: "Posted"},
		{Date: "3/3/2024", Type: "Debit", Description: "COFFEE SHOP", Amount: 3.75, Status: "Pending"},
	})

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	got, err := RawExpenseBatchFromJSON(data)
	if err != nil {
		t.Fatalf("RawExpenseBatchFromJSON() error = %v", err)
	}
	if got.Source != "chase-export" {
		t.Errorf("Source = %q, want %q", got.Source, "chase-export")
	}
	if len(got.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got.Records))
	}
	if got.Records[0] != msg.Records[0] || got.Records[1] != msg.Records[1] {
		t.Errorf("records changed in transit: %+v", got.Records)
	}
	if got.Timestamp.IsZero() || time.Since(got.Timestamp) > time.Minute {
		t.Errorf("suspicious timestamp %v", got.Timestamp)
	}
}

func TestRawExpenseBatchFromJSONRejectsGarbage(t *testing.T) {
	if _, err := RawExpenseBatchFromJSON([]byte(`{broken`)); err == nil {
		t.Fatal("expected parse error")
	}
}
