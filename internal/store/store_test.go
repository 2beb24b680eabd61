package store

import (
	"testing"
	"time"

	"gridcal/internal/domain"
)

func testWindow(t *testing.T) domain.Window {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return domain.NewWindow(domain.ViewWeek, time.Date(2025, 3, 12, 0, 0, 0, 0, loc), loc)
}

func event(w domain.Window, id string, day, startSlot, endSlot int) domain.Event {
	start := domain.SlotInstant(w.Day(day), startSlot, w.Loc)
	end := domain.SlotInstant(w.Day(day), endSlot, w.Loc)
	return domain.Event{ID: id, Title: "event " + id, Start: start, End: end}
}

func TestApplyRemoteCreateIsIdempotent(t *testing.T) {
	w := testWindow(t)
	s := New(w)

	e := event(w, "a", 1, 18, 20)
	s.ApplyRemoteCreate(e)
	// Echo of our own create.
	s.ApplyRemoteCreate(e)

	if s.Len() != 1 {
		t.Fatalf("store has %d events; want 1", s.Len())
	}
	if got := len(s.Placed()); got != 1 {
		t.Fatalf("placed has %d events; want 1", got)
	}
}

func TestApplyRemoteUpdateRecomputesPlacement(t *testing.T) {
	w := testWindow(t)
	s := New(w)
	s.ApplyRemoteCreate(event(w, "a", 1, 18, 20))

	moved := event(w, "a", 3, 20, 24)
	s.ApplyRemoteUpdate(moved)

	p, ok := s.Handle("a")
	if !ok {
		t.Fatal("expected handle for a")
	}
	want := domain.Placement{DayIndex: 3, StartSlot: 20, EndSlot: 24}
	if p != want {
		t.Fatalf("placement = %+v; want %+v", p, want)
	}

	// Same payload twice leaves the store unchanged.
	s.ApplyRemoteUpdate(moved)
	if s.Len() != 1 {
		t.Fatalf("store has %d events after duplicate update; want 1", s.Len())
	}
	if p2, _ := s.Handle("a"); p2 != want {
		t.Fatalf("placement drifted to %+v after duplicate update", p2)
	}
}

func TestApplyRemoteUpdateOutsideWindowRemoves(t *testing.T) {
	w := testWindow(t)
	s := New(w)
	s.ApplyRemoteCreate(event(w, "a", 1, 18, 20))

	outside := event(w, "a", 1, 18, 20)
	outside.Start = outside.Start.AddDate(0, 0, 30)
	outside.End = outside.End.AddDate(0, 0, 30)
	s.ApplyRemoteUpdate(outside)

	if s.Len() != 0 {
		t.Fatalf("store has %d events; want 0 after event moved out of window", s.Len())
	}
	if _, ok := s.Handle("a"); ok {
		t.Fatal("handle should be removed with its entry")
	}
}

func TestApplyRemoteUpdateInsertsUnknownId(t *testing.T) {
	w := testWindow(t)
	s := New(w)

	// An event that just moved into the visible week.
	s.ApplyRemoteUpdate(event(w, "new", 5, 10, 12))
	if _, ok := s.Get("new"); !ok {
		t.Fatal("update for unknown id should insert")
	}
}

func TestApplyRemoteDelete(t *testing.T) {
	w := testWindow(t)
	s := New(w)
	s.ApplyRemoteCreate(event(w, "a", 0, 2, 4))

	s.ApplyRemoteDelete("a")
	s.ApplyRemoteDelete("a") // repeat is a no-op
	s.ApplyRemoteDelete("ghost")

	if s.Len() != 0 || len(s.Placed()) != 0 {
		t.Fatalf("store not empty after delete: len=%d placed=%d", s.Len(), len(s.Placed()))
	}
}

func TestCommitUpdatesTimesAndHandle(t *testing.T) {
	w := testWindow(t)
	s := New(w)
	s.ApplyRemoteCreate(event(w, "a", 2, 18, 20))

	target := domain.Placement{DayIndex: 2, StartSlot: 19, EndSlot: 21}
	updated, changed := s.Commit("a", target)
	if !changed {
		t.Fatal("commit with a real delta must report a change")
	}

	wantStart := domain.SlotInstant(w.Day(2), 19, w.Loc)
	wantEnd := domain.SlotInstant(w.Day(2), 21, w.Loc)
	if !updated.Start.Equal(wantStart) || !updated.End.Equal(wantEnd) {
		t.Fatalf("committed times = (%v, %v); want (%v, %v)",
			updated.Start, updated.End, wantStart, wantEnd)
	}
	if p, _ := s.Handle("a"); p != target {
		t.Fatalf("handle = %+v; want %+v", p, target)
	}
}

func TestCommitZeroDeltaIsNoMutation(t *testing.T) {
	w := testWindow(t)
	s := New(w)
	s.ApplyRemoteCreate(event(w, "a", 2, 18, 20))

	_, changed := s.Commit("a", domain.Placement{DayIndex: 2, StartSlot: 18, EndSlot: 20})
	if changed {
		t.Fatal("zero-delta commit must not report a change")
	}
}

func TestCommitAfterRemoteDeleteIsTolerated(t *testing.T) {
	w := testWindow(t)
	s := New(w)
	s.ApplyRemoteCreate(event(w, "a", 2, 18, 20))

	// Live delete arrives while the event is mid-drag.
	s.ApplyRemoteDelete("a")

	// The in-flight drag's commit resolves to a no-op, not a crash.
	_, changed := s.Commit("a", domain.Placement{DayIndex: 2, StartSlot: 19, EndSlot: 21})
	if changed {
		t.Fatal("commit for a deleted id must be a no-op")
	}
}

func TestReplaceDropsStaleHandles(t *testing.T) {
	w := testWindow(t)
	s := New(w)
	s.ApplyRemoteCreate(event(w, "a", 1, 18, 20))
	s.ApplyRemoteCreate(event(w, "b", 2, 10, 12))

	s.Replace(w, []domain.Event{event(w, "b", 2, 10, 12)})

	if _, ok := s.Handle("a"); ok {
		t.Fatal("handle for a should not survive a window replace")
	}
	if _, ok := s.Handle("b"); !ok {
		t.Fatal("handle for b missing after replace")
	}
}

func TestAllDayEventsHaveNoHandles(t *testing.T) {
	w := testWindow(t)
	s := New(w)

	e := event(w, "a", 1, 0, 48)
	e.AllDay = true
	s.ApplyRemoteCreate(e)

	if _, ok := s.Handle("a"); ok {
		t.Fatal("all-day event must not carry slot geometry")
	}
	if got := s.AllDay(w.Day(1)); len(got) != 1 {
		t.Fatalf("AllDay returned %d events; want 1", len(got))
	}
	if got := s.AllDay(w.Day(2)); len(got) != 0 {
		t.Fatalf("AllDay for wrong day returned %d events; want 0", len(got))
	}
}
