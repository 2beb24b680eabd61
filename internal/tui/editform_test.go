package tui

import (
	"strings"
	"testing"
	"time"

	"gridcal/internal/domain"
)

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestFormValidation(t *testing.T) {
	loc := berlin(t)

	tcs := []struct {
		name    string
		title   string
		date    string
		start   string
		end     string
		wantErr string
	}{
		{name: "missing title", date: "2025-03-12", start: "09:00", end: "10:00", wantErr: "title"},
		{name: "bad date", title: "T", date: "12.03.2025", start: "09:00", end: "10:00", wantErr: "date"},
		{name: "bad start", title: "T", date: "2025-03-12", start: "9am", end: "10:00", wantErr: "start"},
		{name: "end before start", title: "T", date: "2025-03-12", start: "10:00", end: "09:00", wantErr: "end time must be after"},
		{name: "end equals start", title: "T", date: "2025-03-12", start: "09:00", end: "09:00", wantErr: "end time must be after"},
	}

	for _, tc := range tcs {
		f := newForm(formCreate, domain.Event{Start: time.Now(), End: time.Now().Add(time.Hour)}, loc)
		f.inputs[fieldTitle].SetValue(tc.title)
		f.inputs[fieldDate].SetValue(tc.date)
		f.inputs[fieldStart].SetValue(tc.start)
		f.inputs[fieldEnd].SetValue(tc.end)

		_, err := f.Event(loc)
		if err == nil {
			t.Errorf("%s: no validation error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.wantErr) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.wantErr)
		}
	}
}

func TestFormBuildsUTCEvent(t *testing.T) {
	loc := berlin(t)
	f := newForm(formEdit, domain.Event{ID: "a", Start: time.Now(), End: time.Now().Add(time.Hour)}, loc)
	f.inputs[fieldTitle].SetValue("Standup")
	f.inputs[fieldDate].SetValue("2025-03-12")
	f.inputs[fieldStart].SetValue("09:30")
	f.inputs[fieldEnd].SetValue("10:00")

	e, err := f.Event(loc)
	if err != nil {
		t.Fatalf("event: %v", err)
	}
	if e.ID != "a" {
		t.Errorf("id = %q; want a", e.ID)
	}
	// Berlin is UTC+1 in March before the DST switch.
	want := time.Date(2025, 3, 12, 8, 30, 0, 0, time.UTC)
	if !e.Start.Equal(want) {
		t.Errorf("start = %v; want %v", e.Start, want)
	}
}

func TestFormAllDaySpansMidnightToMidnight(t *testing.T) {
	loc := berlin(t)
	f := newForm(formCreate, domain.Event{Start: time.Now(), End: time.Now().Add(time.Hour)}, loc)
	f.inputs[fieldTitle].SetValue("Offsite")
	f.inputs[fieldDate].SetValue("2025-03-12")
	f.allDay = true

	e, err := f.Event(loc)
	if err != nil {
		t.Fatalf("event: %v", err)
	}
	if !e.AllDay {
		t.Fatal("event not flagged all-day")
	}
	if got := e.End.Sub(e.Start); got != 24*time.Hour {
		t.Errorf("span = %v; want 24h", got)
	}
}
