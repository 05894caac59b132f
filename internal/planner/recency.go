package planner

import (
	"fmt"
	"sort"
	"time"
)

// DefaultRecentLimit is how many entries RecentNotes returns by default.
const DefaultRecentLimit = 5

// NoteSummary is one entry of the recency ranking.
type NoteSummary struct {
	Year  int      `json:"year"`
	Month Month    `json:"month"`
	Day   int      `json:"day"`
	Lines []string `json:"lines"`

	// ProximityDays is the signed whole-day distance from the reference
	// date: positive in the future, negative in the past, zero today.
	ProximityDays int `json:"proximityDays"`
}

// Date formats the summary as "March 5, 2025".
func (n NoteSummary) Date() string {
	return fmt.Sprintf("%s %d, %d", n.Month, n.Day, n.Year)
}

// AllNotes returns a summary for every stored note day in discovery order:
// years ascending, months January through December, days ascending. Day
// keys that cannot form a real calendar date (day 31 of a 30-day month,
// February 30) are skipped, not reported.
func (s *NoteStore) AllNotes(ref time.Time) []NoteSummary {
	refDate := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []NoteSummary
	s.walkLocked(func(year int, month Month, day int, lines []string) {
		if day < 1 || day > DaysInMonth(year, month) {
			return
		}
		noteDate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		copied := make([]string, len(lines))
		copy(copied, lines)
		all = append(all, NoteSummary{
			Year:          year,
			Month:         month,
			Day:           day,
			Lines:         copied,
			ProximityDays: int(noteDate.Sub(refDate).Hours() / 24),
		})
	})
	return all
}

// RecentNotes ranks every stored note day by proximity to ref and returns
// the closest limit entries. Ties on distance keep discovery order.
func (s *NoteStore) RecentNotes(limit int, ref time.Time) []NoteSummary {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	all := s.AllNotes(ref)

	sort.SliceStable(all, func(i, j int) bool {
		return abs(all[i].ProximityDays) < abs(all[j].ProximityDays)
	})

	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

// CountdownLabel renders a signed day distance as the countdown text shown
// next to a note: "Today", "1 day left", "2 weeks, 3 days left", "3 days ago".
func CountdownLabel(proximityDays int) string {
	switch {
	case proximityDays == 0:
		return "Today"
	case proximityDays == 1:
		return "1 day left"
	case proximityDays == -1:
		return "1 day ago"
	case proximityDays < 0:
		return fmt.Sprintf("%d days ago", -proximityDays)
	case proximityDays < 7:
		return fmt.Sprintf("%d days left", proximityDays)
	}

	weeks := proximityDays / 7
	days := proximityDays % 7
	if days == 0 {
		return fmt.Sprintf("%d %s left", weeks, plural(weeks, "week"))
	}
	return fmt.Sprintf("%d %s, %d %s left",
		weeks, plural(weeks, "week"), days, plural(days, "day"))
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
