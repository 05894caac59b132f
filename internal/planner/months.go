package planner

import (
	"fmt"
	"time"
)

// Month is a calendar month, January = 1 through December = 12.
// The notes document keys months by display name, so the enumeration
// maps both ways instead of relying on locale name tables.
type Month int

const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// String returns the canonical English display name of the month.
func (m Month) String() string {
	if m < January || m > December {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return monthNames[m-1]
}

// Valid reports whether m is in January..December.
func (m Month) Valid() bool {
	return m >= January && m <= December
}

// MonthFromName resolves a canonical display name back to a Month.
func MonthFromName(name string) (Month, bool) {
	for i, n := range monthNames {
		if n == name {
			return Month(i + 1), true
		}
	}
	return 0, false
}

// MarshalJSON encodes the month as its display name, matching the keys
// used in the persisted documents.
func (m Month) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("planner: month out of range: %d", int(m))
	}
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts a canonical month display name.
func (m *Month) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("planner: month must be a string: %s", data)
	}
	parsed, ok := MonthFromName(string(data[1 : len(data)-1]))
	if !ok {
		return fmt.Errorf("planner: unknown month name: %s", data)
	}
	*m = parsed
	return nil
}

// MonthNames returns the twelve display names in calendar order.
func MonthNames() []string {
	names := make([]string, len(monthNames))
	copy(names, monthNames[:])
	return names
}

// IsLeapYear reports whether year is a leap year in the Gregorian calendar.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var monthLengths = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days in the given month,
// accounting for leap-year February.
func DaysInMonth(year int, m Month) int {
	if !m.Valid() {
		panic(fmt.Sprintf("planner: month out of range: %d", int(m)))
	}
	if m == February && IsLeapYear(year) {
		return 29
	}
	return monthLengths[m-1]
}

// WeekdayOfFirst returns the weekday of the 1st of the month,
// Monday = 0 through Sunday = 6.
func WeekdayOfFirst(year int, m Month) int {
	if !m.Valid() {
		panic(fmt.Sprintf("planner: month out of range: %d", int(m)))
	}
	first := time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
	return (int(first.Weekday()) + 6) % 7
}

// BuildGrid lays out a month as full weeks of 7 columns, Monday first.
// A cell holds the day number, or 0 for the blank cells that pad the
// first and last week. Month out of range panics: the grid builder has
// no recoverable error conditions.
func BuildGrid(year int, m Month) [][]int {
	lead := WeekdayOfFirst(year, m)
	days := DaysInMonth(year, m)
	rows := (lead + days + 6) / 7

	grid := make([][]int, rows)
	day := 1 - lead
	for r := range grid {
		week := make([]int, 7)
		for c := range week {
			if day >= 1 && day <= days {
				week[c] = day
			}
			day++
		}
		grid[r] = week
	}
	return grid
}
