package planner

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// escapeICS escapes text for use in an ICS property value.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}

func noteUID(year int, month Month, day int) string {
	return fmt.Sprintf("%04d%02d%02d@planner.calendar-pro.local", year, int(month), day)
}

func sortedDays(notes map[int][]string) []int {
	days := make([]int, 0, len(notes))
	for day := range notes {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}

// GenerateICS writes one month's notes as an iCalendar file of all-day
// events, with optional reminders controlled by query parameters.
func GenerateICS(w http.ResponseWriter, r *http.Request, year int, month Month, notes map[int][]string) {
	reminder1Day := r.URL.Query().Get("reminder1Day") == "true"
	reminderSameDay := r.URL.Query().Get("reminderSameDay") == "true"
	time1Day := r.URL.Query().Get("time1Day")
	timeSameDay := r.URL.Query().Get("timeSameDay")

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=planner_%s_%d.ics", month, year))

	fmt.Fprintln(w, "BEGIN:VCALENDAR")
	fmt.Fprintln(w, "VERSION:2.0")
	fmt.Fprintf(w, "PRODID:%s\n", ICSProductID)
	fmt.Fprintf(w, "X-WR-CALNAME:Calendar Pro %s %d\n", month, year)
	fmt.Fprintln(w, "CALSCALE:GREGORIAN")

	days := sortedDays(notes)
	maxDay := DaysInMonth(year, month)
	for _, day := range days {
		// Stale keys that no longer form a real date are not exported.
		if day < 1 || day > maxDay {
			continue
		}
		lines := notes[day]
		if len(lines) == 0 {
			continue
		}
		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

		fmt.Fprintln(w, "BEGIN:VEVENT")
		fmt.Fprintf(w, "UID:%s\n", noteUID(year, month, day))
		fmt.Fprintf(w, "DTSTAMP:%s\n", time.Now().UTC().Format("20060102T150405Z"))
		fmt.Fprintf(w, "DTSTART;VALUE=DATE:%s\n", date.Format("20060102"))
		fmt.Fprintf(w, "DTEND;VALUE=DATE:%s\n", date.AddDate(0, 0, 1).Format("20060102"))
		fmt.Fprintf(w, "SUMMARY:%s\n", escapeICS(lines[0]))
		fmt.Fprintf(w, "DESCRIPTION:%s\n", escapeICS(strings.Join(lines, "\n")))

		if reminder1Day && time1Day != "" {
			AddAlarm(w, date, 1, time1Day, lines[0])
		}
		if reminderSameDay && timeSameDay != "" {
			AddAlarm(w, date, 0, timeSameDay, lines[0])
		}

		fmt.Fprintln(w, "END:VEVENT")
	}

	fmt.Fprintln(w, "END:VCALENDAR")
}

// AddAlarm adds an alarm/reminder to an ICS event
func AddAlarm(w io.Writer, eventDate time.Time, daysBefore int, alarmTime string, description string) {
	parts := strings.Split(alarmTime, ":")
	if len(parts) != 2 {
		return
	}

	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return
	}

	// The event starts at 00:00 on eventDate; the alarm fires at alarmTime
	// on (eventDate - daysBefore). Trigger is relative to event start.
	alarmDate := eventDate.AddDate(0, 0, -daysBefore)
	alarmDateTime := time.Date(alarmDate.Year(), alarmDate.Month(), alarmDate.Day(), hour, minute, 0, 0, time.UTC)

	eventStart := time.Date(eventDate.Year(), eventDate.Month(), eventDate.Day(), 0, 0, 0, 0, time.UTC)
	duration := alarmDateTime.Sub(eventStart)

	totalMinutes := int(duration.Minutes())
	isNegative := totalMinutes < 0
	if isNegative {
		totalMinutes = -totalMinutes
	}

	days := totalMinutes / (24 * 60)
	remainingMinutes := totalMinutes % (24 * 60)
	hours := remainingMinutes / 60
	minutes := remainingMinutes % 60

	var trigger string
	if isNegative {
		trigger = fmt.Sprintf("-P%dDT%dH%dM", days, hours, minutes)
	} else {
		trigger = fmt.Sprintf("P%dDT%dH%dM", days, hours, minutes)
	}

	fmt.Fprintln(w, "BEGIN:VALARM")
	fmt.Fprintln(w, "ACTION:DISPLAY")
	fmt.Fprintf(w, "DESCRIPTION:Reminder: %s\n", escapeICS(description))
	fmt.Fprintf(w, "TRIGGER:%s\n", trigger)
	fmt.Fprintln(w, "END:VALARM")
}

// GenerateCSV writes one month's notes as CSV, one row per note line.
func GenerateCSV(w http.ResponseWriter, year int, month Month, notes map[int][]string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=planner_%s_%d.csv", month, year))

	fmt.Fprintln(w, "Date,Note")

	for _, day := range sortedDays(notes) {
		date := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
		for _, line := range notes[day] {
			fmt.Fprintf(w, "%s,%q\n", date, line)
		}
	}
}

// GenerateJSON writes one month's notes as a JSON download.
func GenerateJSON(w http.ResponseWriter, year int, month Month, notes map[int][]string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=planner_%s_%d.json", month, year))

	days := map[string][]string{}
	for day, lines := range notes {
		days[strconv.Itoa(day)] = lines
	}
	data := map[string]interface{}{
		"year":  year,
		"month": month.String(),
		"notes": days,
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON export: %v", err)
		http.Error(w, ErrFailedToGenerate, http.StatusInternalServerError)
	}
}

// GenerateSubscriptionICS writes every stored note as an iCalendar
// subscription feed. Unlike GenerateICS this serves inline content with
// METHOD:PUBLISH and a refresh hint, and carries no alarms: calendar apps
// ignore them in subscribed calendars.
func GenerateSubscriptionICS(w http.ResponseWriter, summaries []NoteSummary) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	// No Content-Disposition header - calendar apps need inline content for subscriptions

	fmt.Fprintln(w, "BEGIN:VCALENDAR")
	fmt.Fprintln(w, "VERSION:2.0")
	fmt.Fprintf(w, "PRODID:%s\n", ICSProductID)
	fmt.Fprintln(w, "METHOD:PUBLISH")
	fmt.Fprintln(w, "X-WR-CALNAME:Calendar Pro Notes")
	fmt.Fprintln(w, "CALSCALE:GREGORIAN")
	fmt.Fprintln(w, "X-PUBLISHED-TTL:PT1H")

	for _, n := range summaries {
		if len(n.Lines) == 0 {
			continue
		}
		date := time.Date(n.Year, time.Month(n.Month), n.Day, 0, 0, 0, 0, time.UTC)

		fmt.Fprintln(w, "BEGIN:VEVENT")
		fmt.Fprintf(w, "UID:%s\n", noteUID(n.Year, n.Month, n.Day))
		fmt.Fprintf(w, "DTSTAMP:%s\n", time.Now().UTC().Format("20060102T150405Z"))
		fmt.Fprintf(w, "DTSTART;VALUE=DATE:%s\n", date.Format("20060102"))
		fmt.Fprintf(w, "DTEND;VALUE=DATE:%s\n", date.AddDate(0, 0, 1).Format("20060102"))
		fmt.Fprintf(w, "SUMMARY:%s\n", escapeICS(n.Lines[0]))
		fmt.Fprintf(w, "DESCRIPTION:%s\n", escapeICS(strings.Join(n.Lines, "\n")))
		fmt.Fprintln(w, "END:VEVENT")
	}

	fmt.Fprintln(w, "END:VCALENDAR")
}
