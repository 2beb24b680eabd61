package domain

import "time"

// DefaultColor is the accent used when the server sends no color.
const DefaultColor = "#1a73e8"

// Event is a calendar event as known to the client. Start and End are
// absolute UTC instants; slot geometry is derived per view window and
// never stored here.
type Event struct {
	ID          string
	Title       string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Location    string
	Description string
	Color       string
}

// DisplayColor returns the event color, falling back to the default.
func (e *Event) DisplayColor() string {
	if e.Color == "" {
		return DefaultColor
	}
	return e.Color
}

// FormatRange returns the event's time range for display, e.g. "09:00-10:30".
func (e *Event) FormatRange(loc *time.Location) string {
	if e.AllDay {
		return "all day"
	}
	return e.Start.In(loc).Format("15:04") + "-" + e.End.In(loc).Format("15:04")
}

// SameDay reports whether the event starts on the given local date.
func (e *Event) SameDay(date time.Time, loc *time.Location) bool {
	s := e.Start.In(loc)
	return s.Year() == date.Year() && s.Month() == date.Month() && s.Day() == date.Day()
}

// Placement is an event's position on a slot grid: which visible day
// column it occupies and which half-hour slots it spans. View-local,
// recomputed whenever the window or the event times change.
type Placement struct {
	DayIndex  int
	StartSlot int
	EndSlot   int
}

// Duration returns the number of slots the placement spans.
func (p Placement) Duration() int {
	return p.EndSlot - p.StartSlot
}

// Valid reports whether the placement satisfies the grid invariants:
// slots within [0,48], at least one slot long.
func (p Placement) Valid() bool {
	return p.StartSlot >= 0 && p.EndSlot <= SlotsPerDay && p.StartSlot < p.EndSlot
}
