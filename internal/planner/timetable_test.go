package planner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTimetable(t *testing.T) (*TimetableStore, *ModuleRegistry, *Gateway) {
	t.Helper()
	gw := newTestGateway(t)
	reg, err := NewModuleRegistry(gw)
	require.NoError(t, err)
	tt, err := NewTimetableStore(gw, reg)
	require.NoError(t, err)
	return tt, reg, gw
}

func readTimetableFile(t *testing.T, gw *Gateway) map[string]map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(gw.Dir(), TimetableFile))
	require.NoError(t, err)
	var doc map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestTimeSlotLabels(t *testing.T) {
	require.Len(t, TimeSlots, 16)
	assert.Equal(t, "06:00", TimeSlots[0])
	assert.Equal(t, "21:00", TimeSlots[15])
	assert.Len(t, Weekdays, 7)
	assert.Equal(t, "Monday", Weekdays[0])
	assert.Equal(t, "Sunday", Weekdays[6])
}

func TestSetCellVariants(t *testing.T) {
	tt, _, _ := newTestTimetable(t)

	require.NoError(t, tt.SetCell("Monday", "09:00", Lesson{Module: "Math", Room: "B12", Teacher: "Dr. Chen"}))
	require.NoError(t, tt.SetCell("Monday", "10:00", Task{Task: "Revise", Description: "chapter 4"}))
	require.NoError(t, tt.SetCell("Friday", "21:00", Blocked{}))

	assert.Equal(t, Lesson{Module: "Math", Room: "B12", Teacher: "Dr. Chen"}, tt.Cell("Monday", "09:00"))
	assert.Equal(t, Task{Task: "Revise", Description: "chapter 4"}, tt.Cell("Monday", "10:00"))
	assert.Equal(t, Blocked{}, tt.Cell("Friday", "21:00"))
	assert.Nil(t, tt.Cell("Tuesday", "09:00"))
}

func TestSetCellOverwritesAnyState(t *testing.T) {
	tt, _, _ := newTestTimetable(t)

	require.NoError(t, tt.SetCell("Monday", "09:00", Blocked{}))
	require.NoError(t, tt.SetCell("Monday", "09:00", Task{Task: "swap"}))

	assert.Equal(t, Task{Task: "swap"}, tt.Cell("Monday", "09:00"))
}

func TestSetCellEmptyRemovesKey(t *testing.T) {
	tt, _, gw := newTestTimetable(t)

	require.NoError(t, tt.SetCell("Monday", "09:00", Blocked{}))
	require.NoError(t, tt.SetCell("Monday", "09:00", nil))

	assert.Nil(t, tt.Cell("Monday", "09:00"))

	// No empty-marker entry persists: the key is gone from the document.
	doc := readTimetableFile(t, gw)
	_, ok := doc["Monday_09:00"]
	assert.False(t, ok)
	assert.Empty(t, doc)
}

func TestSetCellRejectsUnknownKeys(t *testing.T) {
	tt, _, _ := newTestTimetable(t)

	assert.ErrorIs(t, tt.SetCell("Funday", "09:00", Blocked{}), ErrUnknownWeekday)
	assert.ErrorIs(t, tt.SetCell("Monday", "05:00", Blocked{}), ErrUnknownTimeSlot)
	assert.ErrorIs(t, tt.SetCell("Monday", "22:00", Blocked{}), ErrUnknownTimeSlot)
	assert.ErrorIs(t, tt.SetCell("monday", "09:00", Blocked{}), ErrUnknownWeekday)
}

func TestUnrecognizedTypeReadsAsEmpty(t *testing.T) {
	gw := newTestGateway(t)
	raw := `{
		"Monday_09:00": {"type": "party", "module": "???"},
		"Monday_10:00": {"module": "no type at all"},
		"Tuesday_11:00": {"type": "blocked"}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(gw.Dir(), TimetableFile), []byte(raw), 0644))

	reg, err := NewModuleRegistry(gw)
	require.NoError(t, err)
	tt, err := NewTimetableStore(gw, reg)
	require.NoError(t, err)

	assert.Nil(t, tt.Cell("Monday", "09:00"))
	assert.Nil(t, tt.Cell("Monday", "10:00"))
	assert.Equal(t, Blocked{}, tt.Cell("Tuesday", "11:00"))

	// Snapshot omits the unrecognized entries entirely.
	snap := tt.Snapshot()
	assert.Len(t, snap, 1)
	assert.Contains(t, snap, "Tuesday_11:00")
}

func TestCellIgnoresForeignVariantFields(t *testing.T) {
	gw := newTestGateway(t)
	// A lesson record carrying stale task fields: they are ignored on read.
	raw := `{"Wednesday_08:00": {"type": "lesson", "module": "Math", "room": "B12", "teacher": "Dr. Chen", "task": "stale", "description": "stale"}}`
	require.NoError(t, os.WriteFile(filepath.Join(gw.Dir(), TimetableFile), []byte(raw), 0644))

	reg, err := NewModuleRegistry(gw)
	require.NoError(t, err)
	tt, err := NewTimetableStore(gw, reg)
	require.NoError(t, err)

	assert.Equal(t, Lesson{Module: "Math", Room: "B12", Teacher: "Dr. Chen"}, tt.Cell("Wednesday", "08:00"))
}

func TestTimetableReload(t *testing.T) {
	tt, reg, gw := newTestTimetable(t)
	require.NoError(t, tt.SetCell("Monday", "06:00", Lesson{Module: "Math", Room: "B12", Teacher: "Dr. Chen"}))

	reloaded, err := NewTimetableStore(gw, reg)
	require.NoError(t, err)
	assert.Equal(t, Lesson{Module: "Math", Room: "B12", Teacher: "Dr. Chen"}, reloaded.Cell("Monday", "06:00"))
}

func TestRoomOptions(t *testing.T) {
	tt, reg, _ := newTestTimetable(t)
	require.NoError(t, reg.Add("Math", "Dr. Chen", []string{"B12", "B14"}, "#112233"))

	assert.Equal(t, []string{"B12", "B14"}, tt.RoomOptions("Math"))
	assert.Equal(t, FallbackRooms, tt.RoomOptions("Underwater Basket Weaving"))
}

func TestLessonColor(t *testing.T) {
	tt, reg, _ := newTestTimetable(t)
	require.NoError(t, reg.Add("Math", "Dr. Chen", nil, "#112233"))

	assert.Equal(t, "#112233", tt.LessonColor("Math"))
	assert.Equal(t, FallbackLessonColor, tt.LessonColor("Underwater Basket Weaving"))
	assert.Equal(t, DefaultModuleColor, tt.LessonColor(DefaultModuleName))
}
