package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event represents a ticketed show in the static catalog
type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Date        string   `json:"date"` // display form, e.g. "Dec 15, 2025"
	Time        string   `json:"time"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

var monthAbbrev = map[string]time.Month{
	"Jan": time.January,
	"Feb": time.February,
	"Mar": time.March,
	"Apr": time.April,
	"May": time.May,
	"Jun": time.June,
	"Jul": time.July,
	"Aug": time.August,
	"Sep": time.September,
	"Oct": time.October,
	"Nov": time.November,
	"Dec": time.December,
}

// ParseEventDate parses a display date in "Mmm D, YYYY" form.
// The month table is fixed so the result never depends on locale.
func ParseEventDate(s string) (time.Time, error) {
	parts := strings.Fields(strings.Replace(s, ",", "", 1))
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidInput, s)
	}

	month, ok := monthAbbrev[parts[0]]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: month %q", ErrInvalidInput, parts[0])
	}

	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day %q", ErrInvalidInput, parts[1])
	}

	year, err := strconv.Atoi(parts[2])
	if err != nil || len(parts[2]) != 4 {
		return time.Time{}, fmt.Errorf("%w: year %q", ErrInvalidInput, parts[2])
	}

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, fmt.Errorf("%w: day %d out of range for %s", ErrInvalidInput, day, month)
	}

	return t, nil
}

// ParsedDate returns the event date, or the zero time if it does not parse
func (e *Event) ParsedDate() time.Time {
	t, err := ParseEventDate(e.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// IsOn reports whether the event falls on the given calendar day
func (e *Event) IsOn(year int, month time.Month, day int) bool {
	t := e.ParsedDate()
	if t.IsZero() {
		return false
	}
	return t.Year() == year && t.Month() == month && t.Day() == day
}

// Image returns the gallery image at index i, or "" when the event has fewer images
func (e *Event) Image(i int) string {
	if i < 0 || i >= len(e.Images) {
		return ""
	}
	return e.Images[i]
}
