package planner

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"
)

// Server bundles the three stores behind the HTTP surface. It is the thin
// presentation layer: all state lives in the stores, the server only holds
// transient references per request.
type Server struct {
	Notes     *NoteStore
	Modules   *ModuleRegistry
	Timetable *TimetableStore

	IndexHTML []byte

	gw  *Gateway
	md  goldmark.Markdown
	now func() time.Time
}

// NewServer wires the stores into a request handler set.
func NewServer(gw *Gateway, notes *NoteStore, modules *ModuleRegistry, timetable *TimetableStore) *Server {
	return &Server{
		Notes:     notes,
		Modules:   modules,
		Timetable: timetable,
		gw:        gw,
		md:        goldmark.New(),
		now:       time.Now,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// ServeIndex serves the planner interface HTML
func (s *Server) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(s.IndexHTML); err != nil {
		log.Printf("Error writing index HTML: %v", err)
	}
}

// GetConfig returns the static configuration the UI renders from.
func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	writeJSON(w, map[string]interface{}{
		"months":        MonthNames(),
		"weekdays":      Weekdays,
		"timeSlots":     TimeSlots,
		"dataDir":       s.gw.Dir(),
		"currentYear":   now.Year(),
		"currentMonth":  Month(now.Month()).String(),
		"defaultModule": DefaultModuleName,
		"authRequired":  authHash != nil,
	})
}

// DayCell is one annotated cell of the month grid. Day 0 marks a blank
// padding cell.
type DayCell struct {
	Day      int    `json:"day"`
	HasNotes bool   `json:"hasNotes,omitempty"`
	IsToday  bool   `json:"isToday,omitempty"`
	Holiday  string `json:"holiday,omitempty"`
}

// HandleGrid returns the month grid with per-day annotations.
// Query params: year, month (number or name), both defaulting to today.
func (s *Server) HandleGrid(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	year, ok := yearParam(r, now.Year())
	if !ok {
		http.Error(w, ErrInvalidYear, http.StatusBadRequest)
		return
	}
	month, ok := monthParam(r, Month(now.Month()))
	if !ok {
		http.Error(w, ErrInvalidMonth, http.StatusBadRequest)
		return
	}

	holidays := Holidays(year)
	isCurrent := year == now.Year() && month == Month(now.Month())

	grid := BuildGrid(year, month)
	weeks := make([][]DayCell, len(grid))
	for i, row := range grid {
		week := make([]DayCell, len(row))
		for j, day := range row {
			cell := DayCell{Day: day}
			if day > 0 {
				cell.HasNotes = s.Notes.HasNotes(year, month, day)
				cell.IsToday = isCurrent && day == now.Day()
				cell.Holiday = holidays[formatDate(year, int(month), day)]
			}
			week[j] = cell
		}
		weeks[i] = week
	}

	writeJSON(w, map[string]interface{}{
		"year":      year,
		"month":     month.String(),
		"weeks":     weeks,
		"noteCount": s.Notes.CountMonth(year, month),
	})
}

// HandleNotes returns the note lines for one day.
func (s *Server) HandleNotes(w http.ResponseWriter, r *http.Request) {
	year, month, day, ok := s.dateParams(w, r)
	if !ok {
		return
	}
	lines := s.Notes.Notes(year, month, day)
	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, map[string]interface{}{"lines": lines})
}

// HandleNotesRender returns one day's notes rendered from markdown to HTML.
func (s *Server) HandleNotesRender(w http.ResponseWriter, r *http.Request) {
	year, month, day, ok := s.dateParams(w, r)
	if !ok {
		return
	}
	source := strings.Join(s.Notes.Notes(year, month, day), "\n\n")

	var buf bytes.Buffer
	if err := s.md.Convert([]byte(source), &buf); err != nil {
		log.Printf("Error rendering notes: %v", err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Error writing rendered notes: %v", err)
	}
}

// SaveNotes replaces one day's notes with the posted text.
func (s *Server) SaveNotes(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Year  int    `json:"year"`
		Month Month  `json:"month"`
		Day   int    `json:"day"`
		Text  string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Year <= 0 || !req.Month.Valid() || req.Day < 1 || req.Day > 31 {
		http.Error(w, ErrInvalidFormat, http.StatusBadRequest)
		return
	}

	if err := s.Notes.SetNotes(req.Year, req.Month, req.Day, req.Text); err != nil {
		log.Printf("Error saving notes: %v", err)
		http.Error(w, ErrFailedToSave, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"status":    "ok",
		"noteCount": s.Notes.CountMonth(req.Year, req.Month),
	})
}

// DeleteNotes bulk-deletes the listed days of one month.
func (s *Server) DeleteNotes(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Year  int   `json:"year"`
		Month Month `json:"month"`
		Days  []int `json:"days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Year <= 0 || !req.Month.Valid() {
		http.Error(w, ErrInvalidFormat, http.StatusBadRequest)
		return
	}

	if err := s.Notes.DeleteDays(req.Year, req.Month, req.Days); err != nil {
		log.Printf("Error deleting notes: %v", err)
		http.Error(w, ErrFailedToSave, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"status":    "ok",
		"noteCount": s.Notes.CountMonth(req.Year, req.Month),
	})
}

// HandleNotesCount returns the note-day count for one month.
func (s *Server) HandleNotesCount(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	year, ok := yearParam(r, now.Year())
	if !ok {
		http.Error(w, ErrInvalidYear, http.StatusBadRequest)
		return
	}
	month, ok := monthParam(r, Month(now.Month()))
	if !ok {
		http.Error(w, ErrInvalidMonth, http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]int{"count": s.Notes.CountMonth(year, month)})
}

// HandleRecentNotes returns the closest note days with countdown labels.
func (s *Server) HandleRecentNotes(w http.ResponseWriter, r *http.Request) {
	limit := DefaultRecentLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, ok := intParam(limitStr)
		if !ok || parsed < 1 {
			http.Error(w, ErrInvalidFormat, http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	type recentView struct {
		NoteSummary
		Date      string `json:"date"`
		Countdown string `json:"countdown"`
	}

	summaries := s.Notes.RecentNotes(limit, s.now())
	views := make([]recentView, len(summaries))
	for i, n := range summaries {
		views[i] = recentView{
			NoteSummary: n,
			Date:        n.Date(),
			Countdown:   CountdownLabel(n.ProximityDays),
		}
	}
	writeJSON(w, views)
}

// HandleModules returns the module registry.
func (s *Server) HandleModules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Modules.List())
}

// AddModule inserts a new module into the registry.
func (s *Server) AddModule(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Name    string   `json:"name"`
		Teacher string   `json:"teacher"`
		Rooms   []string `json:"rooms"`
		Color   string   `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := s.Modules.Add(req.Name, req.Teacher, req.Rooms, req.Color)
	switch {
	case errors.Is(err, ErrDuplicateName):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case errors.Is(err, ErrEmptyName):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Printf("Error adding module: %v", err)
		http.Error(w, ErrFailedToSave, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"status": "ok"})
}

// DeleteModule removes a module from the registry.
func (s *Server) DeleteModule(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.Modules.Delete(req.Name); err != nil {
		log.Printf("Error deleting module: %v", err)
		http.Error(w, ErrFailedToSave, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"status": "ok"})
}

// cellView is the JSON rendering of one timetable cell, with the lesson
// color already resolved against the registry.
type cellView struct {
	Type        string `json:"type"`
	Module      string `json:"module,omitempty"`
	Room        string `json:"room,omitempty"`
	Teacher     string `json:"teacher,omitempty"`
	Task        string `json:"task,omitempty"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

func (s *Server) viewFor(c Cell) cellView {
	switch v := c.(type) {
	case Lesson:
		return cellView{
			Type:    "lesson",
			Module:  v.Module,
			Room:    v.Room,
			Teacher: v.Teacher,
			Color:   s.Timetable.LessonColor(v.Module),
		}
	case Task:
		return cellView{Type: "task", Task: v.Task, Description: v.Description}
	case Blocked:
		return cellView{Type: "blocked"}
	default:
		return cellView{Type: "empty"}
	}
}

// HandleTimetable returns all non-empty cells keyed by "<Weekday>_<Slot>".
func (s *Server) HandleTimetable(w http.ResponseWriter, r *http.Request) {
	cells := s.Timetable.Snapshot()
	views := make(map[string]cellView, len(cells))
	for key, c := range cells {
		views[key] = s.viewFor(c)
	}
	writeJSON(w, views)
}

// HandleTimetableCell returns one cell.
// Query params: day (weekday name), slot (time slot label).
func (s *Server) HandleTimetableCell(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	slot := r.URL.Query().Get("slot")
	if err := validateKey(day, slot); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, s.viewFor(s.Timetable.Cell(day, slot)))
}

// SetTimetableCell overwrites one cell. Type "empty" clears it.
func (s *Server) SetTimetableCell(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Day         string `json:"day"`
		Slot        string `json:"slot"`
		Type        string `json:"type"`
		Module      string `json:"module"`
		Room        string `json:"room"`
		Teacher     string `json:"teacher"`
		Task        string `json:"task"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var cell Cell
	switch req.Type {
	case "lesson":
		cell = Lesson{Module: req.Module, Room: req.Room, Teacher: req.Teacher}
	case "task":
		cell = Task{Task: req.Task, Description: req.Description}
	case "blocked":
		cell = Blocked{}
	case "empty", "":
		cell = nil
	default:
		http.Error(w, ErrInvalidFormat, http.StatusBadRequest)
		return
	}

	if err := s.Timetable.SetCell(req.Day, req.Slot, cell); err != nil {
		if errors.Is(err, ErrUnknownWeekday) || errors.Is(err, ErrUnknownTimeSlot) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error saving timetable: %v", err)
		http.Error(w, ErrFailedToSave, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"status": "ok"})
}

// HandleRooms returns the room options for a module.
func (s *Server) HandleRooms(w http.ResponseWriter, r *http.Request) {
	module := r.URL.Query().Get("module")
	writeJSON(w, map[string]interface{}{
		"rooms": s.Timetable.RoomOptions(module),
		"color": s.Timetable.LessonColor(module),
	})
}

// HandleDownload handles note exports in ICS, CSV or JSON format.
// Query params: year, month, format.
func (s *Server) HandleDownload(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	year, ok := yearParam(r, now.Year())
	if !ok {
		http.Error(w, ErrInvalidYear, http.StatusBadRequest)
		return
	}
	month, ok := monthParam(r, Month(now.Month()))
	if !ok {
		http.Error(w, ErrInvalidMonth, http.StatusBadRequest)
		return
	}

	notes := s.Notes.MonthNotes(year, month)

	switch r.URL.Query().Get("format") {
	case "ics":
		GenerateICS(w, r, year, month, notes)
	case "csv":
		GenerateCSV(w, year, month, notes)
	case "json":
		GenerateJSON(w, year, month, notes)
	default:
		http.Error(w, ErrInvalidFormat, http.StatusBadRequest)
	}
}

// HandleSubscribe serves all notes as an ICS subscription feed.
func (s *Server) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	GenerateSubscriptionICS(w, s.Notes.AllNotes(s.now()))
}

// dateParams parses the year/month/day query triple shared by the per-day
// note handlers.
func (s *Server) dateParams(w http.ResponseWriter, r *http.Request) (int, Month, int, bool) {
	now := s.now()
	year, ok := yearParam(r, now.Year())
	if !ok {
		http.Error(w, ErrInvalidYear, http.StatusBadRequest)
		return 0, 0, 0, false
	}
	month, ok := monthParam(r, Month(now.Month()))
	if !ok {
		http.Error(w, ErrInvalidMonth, http.StatusBadRequest)
		return 0, 0, 0, false
	}
	day, ok := dayParam(r)
	if !ok {
		http.Error(w, ErrInvalidDay, http.StatusBadRequest)
		return 0, 0, 0, false
	}
	return year, month, day, true
}
