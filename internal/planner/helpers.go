package planner

import (
	"net/http"
	"strconv"
)

// RequireMethod validates that the request uses the specified HTTP method
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// yearParam parses the year query parameter, defaulting to the current
// year of now when absent.
func yearParam(r *http.Request, fallback int) (int, bool) {
	yearStr := r.URL.Query().Get("year")
	if yearStr == "" {
		return fallback, true
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

// monthParam parses the month query parameter, accepting either a number
// (1-12) or a canonical month name.
func monthParam(r *http.Request, fallback Month) (Month, bool) {
	monthStr := r.URL.Query().Get("month")
	if monthStr == "" {
		return fallback, true
	}
	if n, err := strconv.Atoi(monthStr); err == nil {
		m := Month(n)
		return m, m.Valid()
	}
	m, ok := MonthFromName(monthStr)
	return m, ok
}

// intParam parses an integer query value.
func intParam(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// dayParam parses the day query parameter.
func dayParam(r *http.Request) (int, bool) {
	day, err := strconv.Atoi(r.URL.Query().Get("day"))
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}
