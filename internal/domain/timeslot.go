package domain

import (
	"fmt"
	"time"
)

const (
	// SlotMinutes is the grid resolution: one slot = 30 minutes.
	SlotMinutes = 30
	// SlotsPerDay is 24 hours * 2 slots per hour. Slot index 48 is the
	// exclusive end bound: local midnight of the next day.
	SlotsPerDay = 48
	// MinSlots is the minimum event span; shorter spans are clamped up.
	MinSlots = 1
)

// SlotToTime converts a slot index to a "HH:MM" wall-clock label.
// Slot 48 yields "24:00", the exclusive midnight bound.
func SlotToTime(slot int) string {
	mins := slot * SlotMinutes
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// TimeRangeToSlots derives the slot span covering [start, end) on the
// local day of start. The start floors and the end ceils, so an event
// ending at 10:15 still reserves through 10:30 and the block never
// under-renders the true duration. The result is clamped to the grid
// and to at least MinSlots.
func TimeRangeToSlots(start, end time.Time, loc *time.Location) (int, int) {
	s := start.In(loc)
	e := end.In(loc)

	startSlot := (s.Hour()*60 + s.Minute()) / SlotMinutes
	endMins := e.Hour()*60 + e.Minute()
	endSlot := (endMins + SlotMinutes - 1) / SlotMinutes

	// An end on a later local date reads as a small endSlot after
	// truncation; treat it as running to the day's end.
	if !sameLocalDay(s, e) && endSlot <= startSlot {
		endSlot = SlotsPerDay
	}
	return ClampSpan(startSlot, endSlot)
}

// SlotInstant returns the UTC instant for the given slot on the local
// date of day. Slot 48 lands on midnight of the following day.
func SlotInstant(day time.Time, slot int, loc *time.Location) time.Time {
	d := day.In(loc)
	mins := slot * SlotMinutes
	return time.Date(d.Year(), d.Month(), d.Day(), mins/60, mins%60, 0, 0, loc).UTC()
}

// ClampSpan forces a slot span onto the grid: start within [0,47],
// end within (start, 48], at least MinSlots long.
func ClampSpan(startSlot, endSlot int) (int, int) {
	if startSlot < 0 {
		startSlot = 0
	}
	if startSlot > SlotsPerDay-MinSlots {
		startSlot = SlotsPerDay - MinSlots
	}
	if endSlot > SlotsPerDay {
		endSlot = SlotsPerDay
	}
	if endSlot < startSlot+MinSlots {
		endSlot = startSlot + MinSlots
	}
	return startSlot, endSlot
}

func sameLocalDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
