package core

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
)

// ExpenseHash derives the content identity of an expense record: the hex
// MD5 of date, type, description and amount concatenated in that order.
// The amount renders in its shortest decimal form ("120", "25.5") so the
// same source record always yields the same hash, which is what makes
// ingestion idempotent.
func ExpenseHash(date, typ, description string, amount float64) string {
	sum := md5.Sum([]byte(date + typ + description + FormatAmount(amount)))
	return hex.EncodeToString(sum[:])
}

// Hash returns the content hash identifying this raw record.
func (r RawExpense) Hash() string {
	return ExpenseHash(r.Date, r.Type, r.Description, r.Amount)
}

// FormatAmount renders an amount the way it enters the hash input:
// shortest decimal representation, no trailing zeros.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
