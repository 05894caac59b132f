package planner

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// notesDoc mirrors notes.json: year -> month name -> day -> note lines.
// All keys are strings on disk; the store converts at its boundary.
type notesDoc map[string]map[string]map[string][]string

// NoteStore owns the per-day free-text notes. All access goes through its
// methods; every mutation is persisted immediately.
type NoteStore struct {
	mu   sync.RWMutex
	data notesDoc
	gw   *Gateway
}

// NewNoteStore loads the notes document from the gateway.
func NewNoteStore(gw *Gateway) (*NoteStore, error) {
	s := &NoteStore{data: notesDoc{}, gw: gw}
	if err := gw.Load(NotesFile, &s.data); err != nil {
		return nil, err
	}
	if s.data == nil {
		s.data = notesDoc{}
	}
	return s, nil
}

// Notes returns the note lines for a day, or nil if the day has none.
func (s *NoteStore) Notes(year int, month Month, day int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := s.data[strconv.Itoa(year)][month.String()][strconv.Itoa(day)]
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}

// SplitNoteLines turns caller-supplied multi-line text into stored note
// lines: split on newlines, trim each line, drop the empty ones.
func SplitNoteLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// SetNotes replaces a day's notes wholesale with the lines extracted from
// text. When nothing remains after trimming, the day key is removed rather
// than stored as an empty list.
func (s *NoteStore) SetNotes(year int, month Month, day int, text string) error {
	lines := SplitNoteLines(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	yearKey := strconv.Itoa(year)
	monthKey := month.String()
	dayKey := strconv.Itoa(day)

	if len(lines) == 0 {
		s.removeDayLocked(yearKey, monthKey, dayKey)
		return s.gw.Save(NotesFile, s.data)
	}

	if s.data[yearKey] == nil {
		s.data[yearKey] = map[string]map[string][]string{}
	}
	if s.data[yearKey][monthKey] == nil {
		s.data[yearKey][monthKey] = map[string][]string{}
	}
	s.data[yearKey][monthKey][dayKey] = lines

	return s.gw.Save(NotesFile, s.data)
}

// DeleteDays removes the listed day keys from one month. Days without an
// entry are skipped.
func (s *NoteStore) DeleteDays(year int, month Month, days []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	yearKey := strconv.Itoa(year)
	monthKey := month.String()
	for _, day := range days {
		s.removeDayLocked(yearKey, monthKey, strconv.Itoa(day))
	}

	return s.gw.Save(NotesFile, s.data)
}

// removeDayLocked deletes a day entry and prunes month/year maps that
// become empty. Caller must hold the write lock.
func (s *NoteStore) removeDayLocked(yearKey, monthKey, dayKey string) {
	months, ok := s.data[yearKey]
	if !ok {
		return
	}
	days, ok := months[monthKey]
	if !ok {
		return
	}
	delete(days, dayKey)
	if len(days) == 0 {
		delete(months, monthKey)
	}
	if len(months) == 0 {
		delete(s.data, yearKey)
	}
}

// CountMonth returns the number of days in the month that have a non-empty
// note sequence.
func (s *NoteStore) CountMonth(year int, month Month) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, lines := range s.data[strconv.Itoa(year)][month.String()] {
		if len(lines) > 0 {
			count++
		}
	}
	return count
}

// HasNotes reports whether a day has at least one note line.
func (s *NoteStore) HasNotes(year int, month Month, day int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data[strconv.Itoa(year)][month.String()][strconv.Itoa(day)]) > 0
}

// MonthNotes returns a copy of one month's notes keyed by day number.
// Day keys that do not parse as integers are skipped.
func (s *NoteStore) MonthNotes(year int, month Month) map[int][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[int][]string{}
	for dayKey, lines := range s.data[strconv.Itoa(year)][month.String()] {
		if len(lines) == 0 {
			continue
		}
		day, err := strconv.Atoi(dayKey)
		if err != nil {
			continue
		}
		copied := make([]string, len(lines))
		copy(copied, lines)
		out[day] = copied
	}
	return out
}

// walk visits every stored day with a non-empty note sequence in discovery
// order: years ascending, months January through December, days ascending.
// Caller must hold at least the read lock.
func (s *NoteStore) walkLocked(visit func(year int, month Month, day int, lines []string)) {
	years := make([]int, 0, len(s.data))
	yearKeys := map[int]string{}
	for yearKey := range s.data {
		year, err := strconv.Atoi(yearKey)
		if err != nil {
			continue
		}
		years = append(years, year)
		yearKeys[year] = yearKey
	}
	sort.Ints(years)

	for _, year := range years {
		months := s.data[yearKeys[year]]
		for m := January; m <= December; m++ {
			days, ok := months[m.String()]
			if !ok {
				continue
			}
			dayNums := make([]int, 0, len(days))
			dayKeys := map[int]string{}
			for dayKey := range days {
				day, err := strconv.Atoi(dayKey)
				if err != nil {
					continue
				}
				dayNums = append(dayNums, day)
				dayKeys[day] = dayKey
			}
			sort.Ints(dayNums)

			for _, day := range dayNums {
				lines := days[dayKeys[day]]
				if len(lines) > 0 {
					visit(year, m, day, lines)
				}
			}
		}
	}
}
