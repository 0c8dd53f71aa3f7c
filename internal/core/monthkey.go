package core

import (
	"strconv"
	"strings"
	"time"
)

// MonthKeySeparator joins calendar month and year into a partition key.
const MonthKeySeparator = "--"

// MonthKey identifies one month partition, serialized as "<month>--<year>"
// with no zero padding (March 2024 is "3--2024").
type MonthKey string

// KeyFor derives the month key for the calendar month containing t.
func KeyFor(t time.Time) MonthKey {
	return MonthKey(strconv.Itoa(int(t.Month())) + MonthKeySeparator + strconv.Itoa(t.Year()))
}

func (k MonthKey) String() string { return string(k) }

// Covers reports whether a source-formatted expense date (M/D/YYYY, as
// bank sites render it) falls inside this key's month.
func (k MonthKey) Covers(date string) bool {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return false
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return false
	}
	return MonthKey(strconv.Itoa(month)+MonthKeySeparator+strconv.Itoa(year)) == k
}
