package core

import (
	"testing"
	"time"
)

func TestKeyFor(t *testing.T) {
	cases := []struct {
		t    time.Time
		want MonthKey
	}{
		{time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), "3--2024"},
		{time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), "12--2024"},
		{time.Date(2025, time.January, 31, 23, 59, 0, 0, time.UTC), "1--2025"},
	}
	for _, tc := range cases {
		if got := KeyFor(tc.t); got != tc.want {
			t.Fatalf("KeyFor(%v) = %q, want %q", tc.t, got, tc.want)
		}
	}
}

func TestCovers(t *testing.T) {
	key := MonthKey("3--2024")
	cases := []struct {
		date string
		want bool
	}{
		{"3/2/2024", true},
		{"03/02/2024", true}, // zero-padded source dates normalize
		{"4/2/2024", false},
		{"3/2/2023", false},
		{"not-a-date", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := key.Covers(tc.date); got != tc.want {
			t.Fatalf("Covers(%q) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestPending(t *testing.T) {
	if !(RawExpense{Status: "Pending"}).Pending() {
		t.Fatal("Pending status not detected")
	}
	if !(RawExpense{Status: " pending "}).Pending() {
		t.Fatal("Pending detection should be case and space insensitive")
	}
	if (RawExpense{Status: "Posted"}).Pending() {
		t.Fatal("Posted flagged as pending")
	}
}
