// Package calendar computes the month grid shown on the booking page.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"micasa-storefront/internal/models"
)

// WeekdayNames heads the grid columns, Sunday first
var WeekdayNames = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

// EventSource lists the events that can be booked
type EventSource interface {
	Events() []*models.Event
}

// Day is one cell of the grid
type Day struct {
	Number    int
	EventID   string
	Available bool
	Selected  bool
}

// Month is the view-model for a rendered month
type Month struct {
	Year       int
	Month      time.Month
	SelectedID string
	Blanks     int // weekday of the 1st, 0 = Sunday
	Days       []Day
}

// Build lays out year/month. Days owned by an event are marked available, and
// the day owned by selectedID is marked selected. When two events share a day
// the lowest id owns it.
func Build(year int, month time.Month, selectedID string, source EventSource) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	year, month = first.Year(), first.Month()

	// day 0 of the next month is the last day of this one
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	owners := make(map[int]string)
	if source != nil {
		for _, e := range source.Events() {
			t := e.ParsedDate()
			if t.IsZero() || t.Year() != year || t.Month() != month {
				continue
			}
			if _, taken := owners[t.Day()]; !taken {
				owners[t.Day()] = e.ID
			}
		}
	}

	m := Month{
		Year:       year,
		Month:      month,
		SelectedID: selectedID,
		Blanks:     int(first.Weekday()),
		Days:       make([]Day, 0, daysInMonth),
	}
	for d := 1; d <= daysInMonth; d++ {
		id, ok := owners[d]
		m.Days = append(m.Days, Day{
			Number:    d,
			EventID:   id,
			Available: ok,
			Selected:  ok && id == selectedID,
		})
	}
	return m
}

// ForEvent builds the month containing the event's date. An unparseable date
// falls back to the month of now.
func ForEvent(e *models.Event, source EventSource, now time.Time) Month {
	t := e.ParsedDate()
	if t.IsZero() {
		t = now
	}
	return Build(t.Year(), t.Month(), e.ID, source)
}

// Title returns e.g. "December 2025"
func (m Month) Title() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// Prev returns the year and month before the displayed one
func (m Month) Prev() (int, time.Month) {
	t := time.Date(m.Year, m.Month-1, 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// Next returns the year and month after the displayed one
func (m Month) Next() (int, time.Month) {
	t := time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// BlankCells returns a slice sized for ranging over the leading blanks
func (m Month) BlankCells() []struct{} {
	return make([]struct{}, m.Blanks)
}

// Available returns the available days in order
func (m Month) Available() []Day {
	var out []Day
	for _, d := range m.Days {
		if d.Available {
			out = append(out, d)
		}
	}
	return out
}

// Text renders the grid for terminals. Available days are wrapped in
// brackets and the selected day in asterisks.
func (m Month) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", m.Title())
	for i, name := range WeekdayNames {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%4s", name)
	}
	b.WriteByte('\n')

	col := 0
	write := func(cell string) {
		if col > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%4s", cell)
		col++
		if col == 7 {
			b.WriteByte('\n')
			col = 0
		}
	}
	for i := 0; i < m.Blanks; i++ {
		write("")
	}
	for _, d := range m.Days {
		switch {
		case d.Selected:
			write(fmt.Sprintf("*%d*", d.Number))
		case d.Available:
			write(fmt.Sprintf("[%d]", d.Number))
		default:
			write(fmt.Sprintf("%d", d.Number))
		}
	}
	if col > 0 {
		b.WriteByte('\n')
	}
	return b.String()
}
