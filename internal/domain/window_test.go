package domain

import (
	"testing"
	"time"
)

func TestNewWindowWeekAnchorsMonday(t *testing.T) {
	loc := mustLoc(t, "Europe/Berlin")

	// 2025-03-12 is a Wednesday; the week should run Mon 10th - Sun 16th.
	anchor := time.Date(2025, 3, 12, 15, 4, 0, 0, loc)
	w := NewWindow(ViewWeek, anchor, loc)

	if w.VisibleDays() != 7 {
		t.Fatalf("VisibleDays = %d; want 7", w.VisibleDays())
	}
	if got := w.Day(0); got.Day() != 10 || got.Weekday() != time.Monday {
		t.Fatalf("first day = %v; want Monday the 10th", got)
	}
	if got := w.Day(6); got.Day() != 16 || got.Weekday() != time.Sunday {
		t.Fatalf("last day = %v; want Sunday the 16th", got)
	}

	// A Sunday anchor belongs to the week starting the previous Monday.
	sunday := time.Date(2025, 3, 16, 8, 0, 0, 0, loc)
	w2 := NewWindow(ViewWeek, sunday, loc)
	if got := w2.Day(0); got.Day() != 10 {
		t.Fatalf("sunday anchor: first day = %v; want the 10th", got)
	}
}

func TestNewWindowDayAndThreeDay(t *testing.T) {
	loc := mustLoc(t, "Europe/Berlin")
	anchor := time.Date(2025, 3, 12, 23, 59, 0, 0, loc)

	d := NewWindow(ViewDay, anchor, loc)
	if d.VisibleDays() != 1 || d.Day(0).Day() != 12 {
		t.Fatalf("day window = %v", d.Days)
	}

	td := NewWindow(ViewThreeDay, anchor, loc)
	if td.VisibleDays() != 3 || td.Day(0).Day() != 12 || td.Day(2).Day() != 14 {
		t.Fatalf("3-day window = %v", td.Days)
	}
}

func TestWindowPlacement(t *testing.T) {
	loc := mustLoc(t, "Europe/Berlin")
	w := NewWindow(ViewThreeDay, time.Date(2025, 3, 12, 0, 0, 0, 0, loc), loc)

	ev := &Event{
		ID:    "e1",
		Start: time.Date(2025, 3, 13, 9, 0, 0, 0, loc).UTC(),
		End:   time.Date(2025, 3, 13, 10, 0, 0, 0, loc).UTC(),
	}
	p, ok := w.Placement(ev)
	if !ok {
		t.Fatal("expected placement inside window")
	}
	want := Placement{DayIndex: 1, StartSlot: 18, EndSlot: 20}
	if p != want {
		t.Fatalf("placement = %+v; want %+v", p, want)
	}

	// Outside the window: excluded from the render set.
	out := &Event{
		ID:    "e2",
		Start: time.Date(2025, 3, 20, 9, 0, 0, 0, loc).UTC(),
		End:   time.Date(2025, 3, 20, 10, 0, 0, 0, loc).UTC(),
	}
	if _, ok := w.Placement(out); ok {
		t.Fatal("expected event outside window to have no placement")
	}

	// All-day events carry no slot geometry.
	allDay := &Event{ID: "e3", AllDay: true, Start: ev.Start, End: ev.End}
	if _, ok := w.Placement(allDay); ok {
		t.Fatal("expected all-day event to have no placement")
	}
}

func TestWindowInstants(t *testing.T) {
	loc := mustLoc(t, "Europe/Berlin")
	w := NewWindow(ViewWeek, time.Date(2025, 3, 12, 0, 0, 0, 0, loc), loc)

	p := Placement{DayIndex: 2, StartSlot: 19, EndSlot: 21}
	start, end := w.Instants(p)

	wantStart := time.Date(2025, 3, 12, 9, 30, 0, 0, loc)
	wantEnd := time.Date(2025, 3, 12, 10, 30, 0, 0, loc)
	if !start.Equal(wantStart) || !end.Equal(wantEnd) {
		t.Fatalf("instants = (%v, %v); want (%v, %v)", start, end, wantStart, wantEnd)
	}
}
