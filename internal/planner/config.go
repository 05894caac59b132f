package planner

import "fmt"

// Constants
const (
	NotesFile     = "notes.json"
	TimetableFile = "timetable.json"
	ModulesFile   = "modules.json"
	SettingsFile  = "calendar_settings.json"

	TmpSuffix       = ".tmp.json"
	FilePermissions = 0644

	// Built-in module seeded into an empty registry so the timetable
	// always has at least one selectable module.
	DefaultModuleName  = "General Study"
	DefaultModuleColor = "#0B2027"
	DefaultTeacher     = "Unknown"
	DefaultRoom        = "Room Unknown"

	// Fallback color for lesson cells whose module is not registered.
	FallbackLessonColor = "#482728"

	// Error messages
	ErrInvalidYear      = "Invalid year"
	ErrInvalidMonth     = "Invalid month"
	ErrInvalidDay       = "Invalid day"
	ErrInvalidFormat    = "Invalid format"
	ErrInternalServer   = "Internal server error"
	ErrFailedToSave     = "Failed to save"
	ErrFailedToGenerate = "Failed to generate JSON"

	// ICS constants
	ICSProductID = "-//CalendarPro//Planner//EN"
)

// Weekdays lists the timetable columns in display order, Monday first.
var Weekdays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// TimeSlots lists the 16 fixed hourly slot labels, 06:00 through 21:00.
var TimeSlots = buildTimeSlots()

func buildTimeSlots() []string {
	slots := make([]string, 0, 16)
	for h := 6; h <= 21; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
	}
	return slots
}

// FallbackRooms is offered for lessons whose module is not registered.
var FallbackRooms = []string{DefaultRoom, "Lab A", "Lab B", "Lecture Hall"}
