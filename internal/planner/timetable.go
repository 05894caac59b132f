package planner

import (
	"errors"
	"sync"
)

// Timetable key errors.
var (
	ErrUnknownWeekday  = errors.New("unknown weekday")
	ErrUnknownTimeSlot = errors.New("unknown time slot")
)

// Cell is the tagged state of one timetable slot. A nil Cell means the
// slot is empty; the key is simply not stored. Separate variant types keep
// illegal field combinations unrepresentable.
type Cell interface {
	cellType() string
}

// Lesson is a scheduled class. Module names a ModuleRegistry entry; an
// unresolved name falls back to the default color and room list on read.
type Lesson struct {
	Module  string `json:"module"`
	Room    string `json:"room"`
	Teacher string `json:"teacher"`
}

// Task is a free-form to-do occupying a slot.
type Task struct {
	Task        string `json:"task"`
	Description string `json:"description"`
}

// Blocked marks a slot as unavailable.
type Blocked struct{}

func (Lesson) cellType() string  { return "lesson" }
func (Task) cellType() string    { return "task" }
func (Blocked) cellType() string { return "blocked" }

// cellRecord is the wire format of one timetable.json entry: a type tag
// plus the union of all variant fields. Fields of other variants are
// ignored on read.
type cellRecord struct {
	Type        string `json:"type"`
	Module      string `json:"module,omitempty"`
	Room        string `json:"room,omitempty"`
	Teacher     string `json:"teacher,omitempty"`
	Task        string `json:"task,omitempty"`
	Description string `json:"description,omitempty"`
}

func (rec cellRecord) cell() Cell {
	switch rec.Type {
	case "lesson":
		return Lesson{Module: rec.Module, Room: rec.Room, Teacher: rec.Teacher}
	case "task":
		return Task{Task: rec.Task, Description: rec.Description}
	case "blocked":
		return Blocked{}
	default:
		// Unrecognized or missing type reads as empty.
		return nil
	}
}

func recordFor(c Cell) cellRecord {
	switch v := c.(type) {
	case Lesson:
		return cellRecord{Type: "lesson", Module: v.Module, Room: v.Room, Teacher: v.Teacher}
	case Task:
		return cellRecord{Type: "task", Task: v.Task, Description: v.Description}
	case Blocked:
		return cellRecord{Type: "blocked"}
	default:
		return cellRecord{}
	}
}

// TimetableStore owns the weekly schedule cells, keyed by
// "<Weekday>_<TimeSlot>". Lessons reference the module registry for color
// and room lookups.
type TimetableStore struct {
	mu       sync.RWMutex
	cells    map[string]cellRecord
	gw       *Gateway
	registry *ModuleRegistry
}

// NewTimetableStore loads the timetable document.
func NewTimetableStore(gw *Gateway, registry *ModuleRegistry) (*TimetableStore, error) {
	s := &TimetableStore{cells: map[string]cellRecord{}, gw: gw, registry: registry}
	if err := gw.Load(TimetableFile, &s.cells); err != nil {
		return nil, err
	}
	if s.cells == nil {
		s.cells = map[string]cellRecord{}
	}
	return s, nil
}

// CellKey builds the composite map key for a weekday and time slot.
func CellKey(day, slot string) string {
	return day + "_" + slot
}

func validateKey(day, slot string) error {
	if !containsString(Weekdays, day) {
		return ErrUnknownWeekday
	}
	if !containsString(TimeSlots, slot) {
		return ErrUnknownTimeSlot
	}
	return nil
}

// Cell returns the stored variant for a slot, or nil when the key is
// absent or its stored type is unrecognized.
func (s *TimetableStore) Cell(day, slot string) Cell {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.cells[CellKey(day, slot)]
	if !ok {
		return nil
	}
	return rec.cell()
}

// SetCell overwrites a slot with the given variant. A nil cell deletes the
// key entirely; no empty-marker entries persist. Any previous state is
// discarded.
func (s *TimetableStore) SetCell(day, slot string, c Cell) error {
	if err := validateKey(day, slot); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := CellKey(day, slot)
	if c == nil {
		delete(s.cells, key)
	} else {
		s.cells[key] = recordFor(c)
	}

	return s.gw.Save(TimetableFile, s.cells)
}

// Snapshot returns all non-empty cells keyed by "<Weekday>_<TimeSlot>".
// Entries with an unrecognized stored type are omitted.
func (s *TimetableStore) Snapshot() map[string]Cell {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Cell, len(s.cells))
	for key, rec := range s.cells {
		if c := rec.cell(); c != nil {
			out[key] = c
		}
	}
	return out
}

// RoomOptions returns the rooms of a registered module, or the fixed
// fallback list when the module is unknown. Presentation-only join.
func (s *TimetableStore) RoomOptions(module string) []string {
	if info, ok := s.registry.Get(module); ok && len(info.Rooms) > 0 {
		return info.Rooms
	}
	rooms := make([]string, len(FallbackRooms))
	copy(rooms, FallbackRooms)
	return rooms
}

// LessonColor resolves the display color for a lesson's module, falling
// back to the fixed color for unregistered names.
func (s *TimetableStore) LessonColor(module string) string {
	if info, ok := s.registry.Get(module); ok && info.Color != "" {
		return info.Color
	}
	return FallbackLessonColor
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
