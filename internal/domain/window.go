package domain

import "time"

// ViewKind selects how many consecutive days a window renders.
type ViewKind int

const (
	ViewDay      ViewKind = 1
	ViewThreeDay ViewKind = 3
	ViewWeek     ViewKind = 7
)

func (k ViewKind) String() string {
	switch k {
	case ViewDay:
		return "day"
	case ViewThreeDay:
		return "3day"
	case ViewWeek:
		return "week"
	}
	return "unknown"
}

// Window is the ordered set of local calendar dates currently visible.
// It is derived from an anchor date and never mutated; changing the
// anchor or the view kind produces a new window.
type Window struct {
	Kind ViewKind
	Days []time.Time
	Loc  *time.Location
}

// NewWindow derives a window from the anchor date. Day and 3-day views
// start at the anchor itself; the week view is Monday-anchored, so the
// anchor may fall anywhere inside it.
func NewWindow(kind ViewKind, anchor time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.Local
	}
	a := anchor.In(loc)
	first := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, loc)

	if kind == ViewWeek {
		offset := int(first.Weekday()) - int(time.Monday)
		if offset < 0 {
			offset += 7
		}
		first = first.AddDate(0, 0, -offset)
	}

	days := make([]time.Time, int(kind))
	for i := range days {
		days[i] = first.AddDate(0, 0, i)
	}
	return Window{Kind: kind, Days: days, Loc: loc}
}

// VisibleDays returns the number of day columns.
func (w Window) VisibleDays() int {
	return len(w.Days)
}

// Day returns the local midnight of the i-th visible day.
func (w Window) Day(i int) time.Time {
	return w.Days[i]
}

// DayIndexOf returns the column index whose local date contains t, or
// -1 when t falls outside the window.
func (w Window) DayIndexOf(t time.Time) int {
	lt := t.In(w.Loc)
	for i, d := range w.Days {
		if lt.Year() == d.Year() && lt.Month() == d.Month() && lt.Day() == d.Day() {
			return i
		}
	}
	return -1
}

// Placement derives an event's slot-grid position within the window.
// The second return is false when the event's local start date is not
// visible, or when the event is all-day (no slot geometry applies).
func (w Window) Placement(e *Event) (Placement, bool) {
	if e.AllDay {
		return Placement{}, false
	}
	day := w.DayIndexOf(e.Start)
	if day < 0 {
		return Placement{}, false
	}
	startSlot, endSlot := TimeRangeToSlots(e.Start, e.End, w.Loc)
	return Placement{DayIndex: day, StartSlot: startSlot, EndSlot: endSlot}, true
}

// Instants converts a placement back to absolute UTC start/end instants.
func (w Window) Instants(p Placement) (time.Time, time.Time) {
	day := w.Days[p.DayIndex]
	return SlotInstant(day, p.StartSlot, w.Loc), SlotInstant(day, p.EndSlot, w.Loc)
}
