package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestEventsByDay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/events/getEventsByDay" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("year") != "2025" || q.Get("month") != "3" || q.Get("day") != "12" {
			t.Errorf("query = %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"_id":"abc","title":"Standup","startTime":"2025-03-12T08:00:00Z","endTime":"2025-03-12T09:00:00Z","color":"#ff0000"},
			{"_id":"def","title":"Offsite","startTime":"2025-03-12T00:00:00Z","endTime":"2025-03-12T23:59:00Z","allDay":true}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	events, err := c.EventsByDay(context.Background(), time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("EventsByDay: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events; want 2", len(events))
	}
	if events[0].ID != "abc" || events[0].Color != "#ff0000" {
		t.Fatalf("first event = %+v", events[0])
	}
	if !events[1].AllDay {
		t.Fatal("second event should be all-day")
	}

	e, err := events[0].ToDomain()
	if err != nil {
		t.Fatalf("ToDomain: %v", err)
	}
	want := time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)
	if !e.Start.Equal(want) {
		t.Fatalf("start = %v; want %v", e.Start, want)
	}
}

func TestEventsByDayServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.EventsByDay(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestToDomainRejectsBadTimestamps(t *testing.T) {
	w := WireEvent{ID: "x", Title: "t", StartTime: "not-a-time", EndTime: "2025-03-12T09:00:00Z"}
	if _, err := w.ToDomain(); err == nil {
		t.Fatal("expected parse error")
	}
}
